// Package docstore is the persistence collaborator: a small document-store contract
// (list, find by id, find by filter, insert, update by id, delete by id) with memory,
// MongoDB and PostgreSQL JSONB implementations.
package docstore

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// ErrNotFound is returned when no document has the requested id.
var ErrNotFound = errors.New("document not found")

// DuplicateKeyError is returned when a write violates a unique field of the collection.
// It is derived from the engine's own constraint signal.
type DuplicateKeyError struct {
	Collection string
	Field      string
}

func (e *DuplicateKeyError) Error() string {
	return fmt.Sprintf("duplicate key in %s on field %s", e.Collection, e.Field)
}

// Document is implemented by every persisted record.
type Document interface {
	DocumentID() string
	SetDocumentID(id string)
	CreatedTime() time.Time
	SetTimestamps(created, updated time.Time)
}

// SortField orders query results by a top-level document field.
type SortField struct {
	Field string
	Desc  bool
}

// Search matches documents where any of Fields contains Term, case-insensitively.
type Search struct {
	Term   string
	Fields []string
}

// Query selects documents. The zero value selects everything, newest first.
type Query struct {
	// Equals requires every listed field to equal the given value exactly.
	Equals map[string]string
	// ExceptID excludes one document, used for uniqueness checks on update.
	ExceptID string
	Search   *Search
	Sort     []SortField
}

// Collection is the typed store of one entity type.
type Collection[D Document] interface {
	ListAll(ctx context.Context) ([]D, error)
	Find(ctx context.Context, q Query) ([]D, error)
	FindByID(ctx context.Context, id string) (D, error)
	// FindOne returns found=false when nothing matches.
	FindOne(ctx context.Context, q Query) (doc D, found bool, err error)
	// Insert assigns the id and timestamps and returns the stored document.
	Insert(ctx context.Context, doc D) (D, error)
	// UpdateByID replaces the stored document, keeping its id and creation time.
	UpdateByID(ctx context.Context, id string, doc D) (D, error)
	DeleteByID(ctx context.Context, id string) error
}

// CollectionSpec names a collection and the fields each backend must keep unique.
type CollectionSpec struct {
	Name   string
	Unique []string
}

// Backend is an opened storage engine.
type Backend interface {
	Name() string
	Ping(ctx context.Context) error
	Close(ctx context.Context) error
}

// NewCollection opens the typed collection described by spec on backend.
func NewCollection[D Document](backend Backend, spec CollectionSpec, newDoc func() D) (Collection[D], error) {
	switch b := backend.(type) {
	case *MemoryBackend:
		return newMemoryCollection(b, spec, newDoc), nil
	case *MongoBackend:
		return newMongoCollection(b, spec, newDoc), nil
	case *PostgresBackend:
		return newPostgresCollection(b, spec, newDoc), nil
	default:
		return nil, fmt.Errorf("docstore: unsupported backend %T", backend)
	}
}

func now() time.Time {
	return time.Now().UTC().Truncate(time.Millisecond)
}
