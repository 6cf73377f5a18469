package routing

import "errors"

var (
	ErrUnknownStop = errors.New("stop label not present in stop table")
)

// 8-connected moves, row by row starting top-left.
var neighborDx = [8]int{-1, 0, 1, -1, 1, -1, 0, 1}
var neighborDy = [8]int{-1, -1, -1, 0, 0, 1, 1, 1}
