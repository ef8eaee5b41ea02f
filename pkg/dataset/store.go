package dataset

import (
	"fmt"
	"strings"
	"sync"

	"github.com/google/btree"

	"platebench/pkg/common"
	"platebench/pkg/keys"
)

const (
	StatusField   = "estado_ANT"
	LocationField = "ubicacion_camara"
	CityField     = "peaje_ciudad"

	bloomFalsePositive = 0.01
)

// entry 索引项: 规范化车牌 -> 记录下标
type entry struct {
	key  string
	rows []int
}

func (e entry) Less(than btree.Item) bool {
	return e.key < than.(entry).key
}

// Store holds a loaded vehicle dataset. It is built explicitly with New
// and filled by Load; nothing about it is process-global.
type Store struct {
	keyField string

	lock    sync.RWMutex
	records []common.Record
	index   *btree.BTree
	filter  *bloomFilter
	loaded  bool
}

func New(keyField string) *Store {
	if keyField == "" {
		keyField = common.DefaultKeyField
	}
	return &Store{
		keyField: keyField,
		index:    btree.New(32),
		filter:   newBloomFilter(0, bloomFalsePositive),
	}
}

func (s *Store) KeyField() string { return s.keyField }

// Load replaces the store's contents. Every record must carry a string key;
// keys are trimmed and upper-cased, the rest of each record is copied as is.
// On error the previous contents are kept.
func (s *Store) Load(records []common.Record) error {
	cleaned := make([]common.Record, len(records))
	index := btree.New(32)
	filter := newBloomFilter(len(records), bloomFalsePositive)
	for i, rec := range records {
		key, err := common.KeyOf(rec, s.keyField)
		if err != nil {
			return fmt.Errorf("record %d: %w", i, err)
		}
		c := rec.Clone()
		c[s.keyField] = strings.ToUpper(strings.TrimSpace(key))
		cleaned[i] = c

		norm := keys.Normalize(key)
		e := entry{key: norm}
		if found := index.Get(e); found != nil {
			e = found.(entry)
		} else {
			filter.add(norm)
		}
		e.rows = append(e.rows, i)
		index.ReplaceOrInsert(e)
	}

	s.lock.Lock()
	defer s.lock.Unlock()
	s.records = cleaned
	s.index = index
	s.filter = filter
	s.loaded = true
	return nil
}

func (s *Store) Loaded() bool {
	s.lock.RLock()
	defer s.lock.RUnlock()
	return s.loaded
}

func (s *Store) Len() int {
	s.lock.RLock()
	defer s.lock.RUnlock()
	return len(s.records)
}

// Records returns a copy of the dataset in load order, safe to hand to the
// sorters.
func (s *Store) Records() []common.Record {
	s.lock.RLock()
	defer s.lock.RUnlock()
	return common.CloneRecords(s.records)
}

func (s *Store) Plates() []string {
	s.lock.RLock()
	defer s.lock.RUnlock()
	out := make([]string, len(s.records))
	for i, rec := range s.records {
		out[i], _ = common.KeyOf(rec, s.keyField)
	}
	return out
}

// Lookup is a direct index lookup, independent of the sorting pipelines.
// With duplicate plates the first loaded record wins.
func (s *Store) Lookup(plate string) (common.Record, bool) {
	s.lock.RLock()
	defer s.lock.RUnlock()

	norm := keys.Normalize(plate)
	if norm == "" || !s.filter.mayContain(norm) {
		return nil, false
	}
	res := s.index.Get(entry{key: norm})
	if res == nil {
		return nil, false
	}
	return s.records[res.(entry).rows[0]].Clone(), true
}

// Ascend walks distinct normalized plates in order with the number of
// records sharing each.
func (s *Store) Ascend(fn func(plate string, count int) bool) {
	s.lock.RLock()
	defer s.lock.RUnlock()
	s.index.Ascend(func(i btree.Item) bool {
		e := i.(entry)
		return fn(e.key, len(e.rows))
	})
}

type Stats struct {
	Total        int
	UniquePlates int
	ByStatus     map[string]int
	ByLocation   map[string]int
}

func (s *Store) Stats() Stats {
	s.lock.RLock()
	defer s.lock.RUnlock()

	st := Stats{
		Total:        len(s.records),
		UniquePlates: s.index.Len(),
		ByStatus:     map[string]int{},
		ByLocation:   map[string]int{},
	}
	for _, rec := range s.records {
		if v, ok := rec[StatusField].(string); ok && v != "" {
			st.ByStatus[v]++
		}
		if v, ok := rec[LocationField].(string); ok && v != "" {
			st.ByLocation[v]++
		}
	}
	return st
}
