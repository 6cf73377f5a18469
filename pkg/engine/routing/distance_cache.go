package routing

import (
	"context"
	"math"
	"runtime"
	"sync"
	"sync/atomic"

	"github.com/lintang-b-s/storenav/pkg"
	"github.com/lintang-b-s/storenav/pkg/concurrent"
	da "github.com/lintang-b-s/storenav/pkg/datastructure"
	"github.com/lintang-b-s/storenav/pkg/util"
	"go.uber.org/zap"
)

// PairKey unordered pair of stop labels, canonicalised so that A <= B.
type PairKey struct {
	A da.StopLabel
	B da.StopLabel
}

func NewPairKey(a, b da.StopLabel) PairKey {
	if b < a {
		a, b = b, a
	}
	return PairKey{A: a, B: b}
}

// Distance is a computed shortest path cost. Reachable=false means the search exhausted the grid.
// a pair that was never computed has no Distance at all.
type Distance struct {
	Cost      float64
	Reachable bool
}

func NewDistance(cost float64) Distance {
	if math.IsInf(cost, 1) {
		return Distance{Cost: pkg.INF_WEIGHT, Reachable: false}
	}
	return Distance{Cost: cost, Reachable: true}
}

func Unreachable() Distance {
	return Distance{Cost: pkg.INF_WEIGHT, Reachable: false}
}

// DistanceCache memoises pairwise stop distances. entries are append-only and persisted
// synchronously (write-through) after every new computation.
type DistanceCache struct {
	mu         sync.RWMutex
	entries    map[PairKey]Distance
	stops      *da.StopTable
	pathfinder Pathfinder
	store      CacheStore
	log        *zap.Logger

	lastPersistErr error
	hits, misses   atomic.Int64
}

// NewDistanceCache loads previously persisted entries from store. store may be nil for an in-memory cache.
func NewDistanceCache(stops *da.StopTable, pathfinder Pathfinder, store CacheStore, log *zap.Logger) (*DistanceCache, error) {
	dc := &DistanceCache{
		entries:    make(map[PairKey]Distance),
		stops:      stops,
		pathfinder: pathfinder,
		store:      store,
		log:        log,
	}
	if store != nil {
		loaded, err := store.Load()
		if err != nil {
			return nil, err
		}
		for k, v := range loaded {
			dc.entries[NewPairKey(k.A, k.B)] = v
		}
		log.Info("distance cache loaded", zap.Int("entries", len(dc.entries)))
	}
	return dc, nil
}

// Distance returns the shortest path cost between a and b, +Inf when no path exists.
// the only error is an unknown label; a failed persist is logged and kept in LastPersistError.
func (dc *DistanceCache) Distance(a, b da.StopLabel) (float64, error) {
	d, err := dc.Get(a, b)
	if err != nil {
		return pkg.INF_WEIGHT, err
	}
	return d.Cost, nil
}

func (dc *DistanceCache) Get(a, b da.StopLabel) (Distance, error) {
	key := NewPairKey(a, b)

	dc.mu.RLock()
	d, ok := dc.entries[key]
	dc.mu.RUnlock()
	if ok {
		dc.hits.Add(1)
		return d, nil
	}

	dc.mu.Lock()
	defer dc.mu.Unlock()

	// another writer may have filled it between the two locks
	if d, ok := dc.entries[key]; ok {
		dc.hits.Add(1)
		return d, nil
	}

	sCoord, tCoord, err := dc.lookup(key)
	if err != nil {
		return Unreachable(), err
	}

	dc.misses.Add(1)
	cost, _ := dc.pathfinder.ShortestPath(sCoord, tCoord)
	d = NewDistance(cost)
	dc.insertAndPersist(key, d)
	return d, nil
}

// Contains reports whether the pair was already computed.
func (dc *DistanceCache) Contains(a, b da.StopLabel) bool {
	dc.mu.RLock()
	defer dc.mu.RUnlock()
	_, ok := dc.entries[NewPairKey(a, b)]
	return ok
}

func (dc *DistanceCache) Len() int {
	dc.mu.RLock()
	defer dc.mu.RUnlock()
	return len(dc.entries)
}

// Stats returns hit and miss counters since construction.
func (dc *DistanceCache) Stats() (int, int) {
	return int(dc.hits.Load()), int(dc.misses.Load())
}

func (dc *DistanceCache) LastPersistError() error {
	dc.mu.RLock()
	defer dc.mu.RUnlock()
	return dc.lastPersistErr
}

type pairResult struct {
	key  PairKey
	dist Distance
}

type pairJob struct {
	key  PairKey
	s, t da.Coordinate
}

// Prewarm computes every missing pair among labels on numWorkers goroutines. the mask is only read by
// the searches; inserts and persists happen one at a time on the calling goroutine.
func (dc *DistanceCache) Prewarm(ctx context.Context, labels []da.StopLabel, numWorkers int) (int, error) {
	if numWorkers <= 0 {
		numWorkers = runtime.NumCPU()
	}
	labels = removeDuplicates(labels)

	jobs := make([]pairJob, 0, len(labels)*len(labels)/2)
	dc.mu.RLock()
	for i := 0; i < len(labels); i++ {
		for j := i + 1; j < len(labels); j++ {
			key := NewPairKey(labels[i], labels[j])
			if _, ok := dc.entries[key]; ok {
				continue
			}
			s, t, err := dc.lookup(key)
			if err != nil {
				dc.mu.RUnlock()
				return 0, err
			}
			jobs = append(jobs, pairJob{key: key, s: s, t: t})
		}
	}
	dc.mu.RUnlock()

	if len(jobs) == 0 {
		return 0, nil
	}
	dc.log.Info("prewarming distance cache", zap.Int("pairs", len(jobs)), zap.Int("workers", numWorkers))

	computed := 0
	concurrent.Run(ctx, numWorkers, jobs, func(_ context.Context, job pairJob) pairResult {
		cost, _ := dc.pathfinder.ShortestPath(job.s, job.t)
		return pairResult{key: job.key, dist: NewDistance(cost)}
	}, func(res pairResult) {
		dc.mu.Lock()
		defer dc.mu.Unlock()
		if _, ok := dc.entries[res.key]; ok {
			return
		}
		dc.misses.Add(1)
		dc.insertAndPersist(res.key, res.dist)
		computed++
	})

	if err := ctx.Err(); err != nil {
		return computed, err
	}
	return computed, nil
}

// lookup expects dc.mu held.
func (dc *DistanceCache) lookup(key PairKey) (da.Coordinate, da.Coordinate, error) {
	s, ok := dc.stops.Get(key.A)
	if !ok {
		return da.Coordinate{}, da.Coordinate{}, util.WrapErrorf(ErrUnknownStop, util.ErrBadParamInput,
			"unknown stop %q", key.A)
	}
	t, ok := dc.stops.Get(key.B)
	if !ok {
		return da.Coordinate{}, da.Coordinate{}, util.WrapErrorf(ErrUnknownStop, util.ErrBadParamInput,
			"unknown stop %q", key.B)
	}
	return s, t, nil
}

// insertAndPersist expects dc.mu write-locked.
func (dc *DistanceCache) insertAndPersist(key PairKey, d Distance) {
	dc.entries[key] = d
	if dc.store == nil {
		return
	}
	if err := dc.store.Save(dc.entries); err != nil {
		dc.lastPersistErr = err
		dc.log.Warn("failed to persist distance cache", zap.String("from", string(key.A)),
			zap.String("to", string(key.B)), zap.Error(err))
		return
	}
	dc.lastPersistErr = nil
}
