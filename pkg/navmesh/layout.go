package navmesh

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"sort"
	"strconv"
)

// LayoutHint route-order hint extracted from the store map. only route_order is used for corridor direction.
type LayoutHint struct {
	Entrance   string           `json:"entrance"`
	RouteOrder []string         `json:"route_order"`
	Coords     map[string][]int `json:"coords,omitempty"`
}

// LoadAisleKeywords reads the aisle -> keywords dictionary.
func LoadAisleKeywords(path string) (map[string][]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	kw := make(map[string][]string)
	if err := json.Unmarshal(data, &kw); err != nil {
		return nil, fmt.Errorf("decode aisle keywords %s: %w", path, err)
	}
	return kw, nil
}

// AisleIds distinct numeric keys of the keyword dictionary, ascending. keys naming the same number ("1", "01")
// collapse into one id.
func AisleIds(keywords map[string][]string) []int {
	ids := make([]int, 0, len(keywords))
	for k := range keywords {
		if !isDigits(k) {
			continue
		}
		id, err := strconv.Atoi(k)
		if err != nil {
			continue
		}
		ids = append(ids, id)
	}
	sort.Ints(ids)

	distinct := ids[:0]
	for i, id := range ids {
		if i > 0 && id == ids[i-1] {
			continue
		}
		distinct = append(distinct, id)
	}
	return distinct
}

// LoadLayoutHint returns nil, nil when the hint file does not exist.
func LoadLayoutHint(path string) (*LayoutHint, error) {
	if path == "" {
		return nil, nil
	}
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var hint LayoutHint
	if err := json.Unmarshal(data, &hint); err != nil {
		return nil, fmt.Errorf("decode layout hint %s: %w", path, err)
	}
	return &hint, nil
}

// Direction 1 when ascending corridor x maps to ascending aisle numbers, -1 when the hint's route order
// starts at the highest aisle. no hint means ascending.
func Direction(hint *LayoutHint, ids []int) int {
	if hint == nil || len(ids) == 0 {
		return 1
	}
	first := ids[0]
	for _, s := range hint.RouteOrder {
		if !isDigits(s) {
			continue
		}
		if n, err := strconv.Atoi(s); err == nil {
			first = n
			break
		}
	}
	if first == ids[len(ids)-1] {
		return -1
	}
	return 1
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
