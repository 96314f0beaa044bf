// Package docstore abstracts the hosted document database behind a small
// interface: schemaless documents grouped into collections, looked up by id
// or by equality filters with an optional sort. Three backends implement it:
// Firestore (the hosted service), Postgres JSONB (self-hosted), and an
// in-memory store for development and tests.
package docstore

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound is returned by Get when no document exists under the given id.
var ErrNotFound = errors.New("docstore: document not found")

// Document is a schemaless record. Data values are plain Go types; timestamps
// are time.Time on write and either time.Time or an RFC 3339 string on read,
// depending on the backend (use AsTime).
type Document struct {
	ID   string                 `json:"id"`
	Data map[string]interface{} `json:"data"`
}

// Filter is a field == value condition. Filters combine as a conjunction.
type Filter struct {
	Field string
	Value interface{}
}

// Order sorts query results by a single field.
type Order struct {
	Field string
	Desc  bool
}

type Store interface {
	// Get returns the document with the given id, or ErrNotFound.
	Get(ctx context.Context, collection, id string) (*Document, error)
	// Add stores a new document under a generated id and returns the id.
	Add(ctx context.Context, collection string, fields map[string]interface{}) (string, error)
	// Set stores a document under an explicit id, replacing any existing one.
	Set(ctx context.Context, collection, id string, fields map[string]interface{}) error
	// Query returns the documents matching all filters, sorted by order when
	// given. Documents missing the order field sort last.
	Query(ctx context.Context, collection string, filters []Filter, order *Order) ([]*Document, error)
	Close() error
}

// AsTime converts a document value to a time.Time. It accepts time.Time
// directly and RFC 3339 strings (the JSONB backend round-trips timestamps
// through JSON).
func AsTime(v interface{}) (time.Time, bool) {
	switch t := v.(type) {
	case time.Time:
		return t, true
	case *time.Time:
		if t == nil {
			return time.Time{}, false
		}
		return *t, true
	case string:
		if ts, err := time.Parse(time.RFC3339Nano, t); err == nil {
			return ts, true
		}
		if ts, err := time.Parse(time.RFC3339, t); err == nil {
			return ts, true
		}
	}
	return time.Time{}, false
}

// AsString converts a document value to a string, returning "" for nil or
// non-string values.
func AsString(v interface{}) string {
	s, _ := v.(string)
	return s
}

// AsInt converts a document value to an int. JSON decoding yields float64,
// Firestore yields int64.
func AsInt(v interface{}) int {
	switch n := v.(type) {
	case int:
		return n
	case int64:
		return int(n)
	case float64:
		return int(n)
	}
	return 0
}
