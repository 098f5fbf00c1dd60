// Package memory implements store.Store with mutex-guarded in-memory maps.
// Documents round-trip through JSON so callers always see copies, never
// aliases of the stored state. It backs tests and local development.
package memory

import (
	"context"
	"encoding/json"
	"fmt"
	"reflect"
	"sync"

	"github.com/yugash007/nexel-api/internal/store"
)

// Store is the in-memory record store.
type Store struct {
	mu    sync.RWMutex
	docs  map[string]map[string]map[string]interface{}
	order map[string][]string
}

// New returns an empty in-memory store.
func New() *Store {
	return &Store{
		docs:  make(map[string]map[string]map[string]interface{}),
		order: make(map[string][]string),
	}
}

// Get implements store.Store.
func (s *Store) Get(ctx context.Context, collection, id string, out interface{}) error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	doc, ok := s.docs[collection][id]
	if !ok {
		return store.ErrNotFound
	}
	return decode(doc, out)
}

// Find implements store.Store. Results keep insertion order.
func (s *Store) Find(ctx context.Context, collection string, filter store.Filter, out interface{}) error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	normalized := make(map[string]interface{}, len(filter))
	for k, v := range filter {
		nv, err := normalize(v)
		if err != nil {
			return err
		}
		normalized[k] = nv
	}

	matches := make([]map[string]interface{}, 0)
	for _, id := range s.order[collection] {
		doc, ok := s.docs[collection][id]
		if !ok {
			continue
		}
		if matchesFilter(doc, normalized) {
			matches = append(matches, doc)
		}
	}
	return decode(matches, out)
}

// Insert implements store.Store.
func (s *Store) Insert(ctx context.Context, collection, id string, doc interface{}) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.docs[collection][id]; exists {
		return store.ErrDuplicate
	}

	raw, err := toDocument(doc)
	if err != nil {
		return err
	}
	raw["id"] = id

	if s.docs[collection] == nil {
		s.docs[collection] = make(map[string]map[string]interface{})
	}
	s.docs[collection][id] = raw
	s.order[collection] = append(s.order[collection], id)
	return nil
}

// Update implements store.Store with merge semantics.
func (s *Store) Update(ctx context.Context, collection, id string, fields map[string]interface{}) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, ok := s.docs[collection][id]
	if !ok {
		return store.ErrNotFound
	}
	for k, v := range fields {
		nv, err := normalize(v)
		if err != nil {
			return err
		}
		doc[k] = nv
	}
	return nil
}

// Append implements store.Store.
func (s *Store) Append(ctx context.Context, collection, id, field string, value interface{}) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, ok := s.docs[collection][id]
	if !ok {
		return store.ErrNotFound
	}

	nv, err := normalize(value)
	if err != nil {
		return err
	}

	switch current := doc[field].(type) {
	case nil:
		doc[field] = []interface{}{nv}
	case []interface{}:
		doc[field] = append(current, nv)
	default:
		return fmt.Errorf("memory: field %q is not an array", field)
	}
	return nil
}

func matchesFilter(doc map[string]interface{}, filter map[string]interface{}) bool {
	for field, want := range filter {
		if !reflect.DeepEqual(doc[field], want) {
			return false
		}
	}
	return true
}

func toDocument(v interface{}) (map[string]interface{}, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("memory: encode document: %w", err)
	}
	var doc map[string]interface{}
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("memory: decode document: %w", err)
	}
	return doc, nil
}

// normalize round-trips a value through JSON so stored and filter values share
// one representation (numbers become float64, times become RFC3339 strings).
func normalize(v interface{}) (interface{}, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("memory: encode value: %w", err)
	}
	var out interface{}
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("memory: decode value: %w", err)
	}
	return out, nil
}

func decode(from, to interface{}) error {
	raw, err := json.Marshal(from)
	if err != nil {
		return fmt.Errorf("memory: encode result: %w", err)
	}
	if err := json.Unmarshal(raw, to); err != nil {
		return fmt.Errorf("memory: decode result: %w", err)
	}
	return nil
}
