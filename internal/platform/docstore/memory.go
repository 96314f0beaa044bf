package docstore

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"
)

// MemoryStore is a map-backed Store used in development mode and by tests.
// It mirrors the query semantics of the real backends: equality filters,
// single-field ordering, missing order fields sort last.
type MemoryStore struct {
	mu          sync.RWMutex
	collections map[string][]*Document
}

func NewMemory() *MemoryStore {
	return &MemoryStore{collections: make(map[string][]*Document)}
}

func (s *MemoryStore) Get(_ context.Context, collection, id string) (*Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, doc := range s.collections[collection] {
		if doc.ID == id {
			return copyDoc(doc), nil
		}
	}
	return nil, ErrNotFound
}

func (s *MemoryStore) Add(_ context.Context, collection string, fields map[string]interface{}) (string, error) {
	id := uuid.NewString()
	s.mu.Lock()
	s.collections[collection] = append(s.collections[collection], &Document{ID: id, Data: copyFields(fields)})
	s.mu.Unlock()
	return id, nil
}

func (s *MemoryStore) Set(_ context.Context, collection, id string, fields map[string]interface{}) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, doc := range s.collections[collection] {
		if doc.ID == id {
			s.collections[collection][i] = &Document{ID: id, Data: copyFields(fields)}
			return nil
		}
	}
	s.collections[collection] = append(s.collections[collection], &Document{ID: id, Data: copyFields(fields)})
	return nil
}

func (s *MemoryStore) Query(_ context.Context, collection string, filters []Filter, order *Order) ([]*Document, error) {
	s.mu.RLock()
	var out []*Document
	for _, doc := range s.collections[collection] {
		if matches(doc, filters) {
			out = append(out, copyDoc(doc))
		}
	}
	s.mu.RUnlock()

	if order != nil {
		sort.SliceStable(out, func(i, j int) bool {
			vi, iok := out[i].Data[order.Field]
			vj, jok := out[j].Data[order.Field]
			if !iok || !jok {
				return iok // missing order field sorts last
			}
			if order.Desc {
				return less(vj, vi)
			}
			return less(vi, vj)
		})
	}
	return out, nil
}

func (s *MemoryStore) Close() error { return nil }

func matches(doc *Document, filters []Filter) bool {
	for _, f := range filters {
		v, ok := doc.Data[f.Field]
		if !ok {
			return false
		}
		if ft, fok := AsTime(f.Value); fok {
			vt, vok := AsTime(v)
			if !vok || !vt.Equal(ft) {
				return false
			}
			continue
		}
		if v != f.Value {
			return false
		}
	}
	return true
}

func less(a, b interface{}) bool {
	if at, aok := AsTime(a); aok {
		if bt, bok := AsTime(b); bok {
			return at.Before(bt)
		}
	}
	switch av := a.(type) {
	case string:
		bv, _ := b.(string)
		return av < bv
	case float64:
		bv, _ := b.(float64)
		return av < bv
	case int64:
		bv, _ := b.(int64)
		return av < bv
	}
	return false
}

func copyDoc(doc *Document) *Document {
	return &Document{ID: doc.ID, Data: copyFields(doc.Data)}
}

func copyFields(fields map[string]interface{}) map[string]interface{} {
	out := make(map[string]interface{}, len(fields))
	for k, v := range fields {
		out[k] = v
	}
	return out
}
