package routing

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"sort"

	da "github.com/lintang-b-s/storenav/pkg/datastructure"
)

const cacheFileVersion = 1

type cacheFileEntry struct {
	From da.StopLabel `json:"from"`
	To   da.StopLabel `json:"to"`
	Cost *float64     `json:"cost"` // null = computed as unreachable
}

type cacheFile struct {
	Version int              `json:"version"`
	Entries []cacheFileEntry `json:"entries"`
}

// JSONFileStore persists the distance cache as one JSON document, rewritten atomically on every Save.
type JSONFileStore struct {
	path string
}

func NewJSONFileStore(path string) *JSONFileStore {
	return &JSONFileStore{path: path}
}

func (s *JSONFileStore) GetPath() string {
	return s.path
}

// Load returns an empty map when the file does not exist yet.
func (s *JSONFileStore) Load() (map[PairKey]Distance, error) {
	entries := make(map[PairKey]Distance)

	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return entries, nil
	}
	if err != nil {
		return nil, err
	}

	var cf cacheFile
	if err := json.Unmarshal(data, &cf); err != nil {
		return nil, fmt.Errorf("decode distance cache %s: %w", s.path, err)
	}
	for _, e := range cf.Entries {
		key := NewPairKey(e.From, e.To)
		if e.Cost == nil {
			entries[key] = Unreachable()
			continue
		}
		entries[key] = NewDistance(*e.Cost)
	}
	return entries, nil
}

func (s *JSONFileStore) Save(entries map[PairKey]Distance) error {
	cf := cacheFile{
		Version: cacheFileVersion,
		Entries: make([]cacheFileEntry, 0, len(entries)),
	}
	for k, d := range entries {
		e := cacheFileEntry{From: k.A, To: k.B}
		if d.Reachable {
			cost := d.Cost
			e.Cost = &cost
		}
		cf.Entries = append(cf.Entries, e)
	}
	sort.Slice(cf.Entries, func(i, j int) bool {
		if cf.Entries[i].From != cf.Entries[j].From {
			return cf.Entries[i].From < cf.Entries[j].From
		}
		return cf.Entries[i].To < cf.Entries[j].To
	})

	data, err := json.MarshalIndent(cf, "", "  ")
	if err != nil {
		return err
	}
	return da.WriteFileAtomic(s.path, data)
}

var _ CacheStore = (*JSONFileStore)(nil)
