package docstore

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"
)

// MemoryBackend keeps every collection in process memory. Documents are stored as JSON so
// callers never share mutable state with the store.
type MemoryBackend struct {
	mu     sync.RWMutex
	tables map[string]*memoryTable
}

type memoryRow struct {
	seq    uint64
	raw    []byte
	fields map[string]any
}

type memoryTable struct {
	seq  uint64
	rows map[string]*memoryRow
}

// NewMemoryBackend creates an empty in-memory store.
func NewMemoryBackend() *MemoryBackend {
	return &MemoryBackend{tables: make(map[string]*memoryTable)}
}

func (b *MemoryBackend) Name() string { return "memory" }

func (b *MemoryBackend) Ping(ctx context.Context) error { return ctx.Err() }

func (b *MemoryBackend) Close(ctx context.Context) error { return nil }

func (b *MemoryBackend) table(name string) *memoryTable {
	t, ok := b.tables[name]
	if !ok {
		t = &memoryTable{rows: make(map[string]*memoryRow)}
		b.tables[name] = t
	}
	return t
}

type memoryCollection[D Document] struct {
	backend *MemoryBackend
	spec    CollectionSpec
	newDoc  func() D
}

func newMemoryCollection[D Document](b *MemoryBackend, spec CollectionSpec, newDoc func() D) *memoryCollection[D] {
	b.mu.Lock()
	b.table(spec.Name)
	b.mu.Unlock()
	return &memoryCollection[D]{backend: b, spec: spec, newDoc: newDoc}
}

func (c *memoryCollection[D]) ListAll(ctx context.Context) ([]D, error) {
	return c.Find(ctx, Query{})
}

func (c *memoryCollection[D]) Find(ctx context.Context, q Query) ([]D, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	c.backend.mu.RLock()
	t := c.backend.table(c.spec.Name)
	matched := make([]*memoryRow, 0, len(t.rows))
	for id, row := range t.rows {
		if matches(id, row.fields, q) {
			matched = append(matched, row)
		}
	}
	c.backend.mu.RUnlock()

	sortRows(matched, q.Sort)

	out := make([]D, 0, len(matched))
	for _, row := range matched {
		d, err := c.decode(row.raw)
		if err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, nil
}

func (c *memoryCollection[D]) FindByID(ctx context.Context, id string) (D, error) {
	var zero D
	if err := ctx.Err(); err != nil {
		return zero, err
	}

	c.backend.mu.RLock()
	row, ok := c.backend.table(c.spec.Name).rows[id]
	c.backend.mu.RUnlock()
	if !ok {
		return zero, ErrNotFound
	}
	return c.decode(row.raw)
}

func (c *memoryCollection[D]) FindOne(ctx context.Context, q Query) (D, bool, error) {
	var zero D
	docs, err := c.Find(ctx, q)
	if err != nil || len(docs) == 0 {
		return zero, false, err
	}
	return docs[0], true, nil
}

func (c *memoryCollection[D]) Insert(ctx context.Context, doc D) (D, error) {
	var zero D
	if err := ctx.Err(); err != nil {
		return zero, err
	}

	ts := now()
	doc.SetDocumentID(uuid.NewString())
	doc.SetTimestamps(ts, ts)
	row, err := encodeRow(doc)
	if err != nil {
		return zero, err
	}

	c.backend.mu.Lock()
	defer c.backend.mu.Unlock()

	t := c.backend.table(c.spec.Name)
	if field := c.violatedUnique(t, doc.DocumentID(), row.fields); field != "" {
		return zero, &DuplicateKeyError{Collection: c.spec.Name, Field: field}
	}
	t.seq++
	row.seq = t.seq
	t.rows[doc.DocumentID()] = row
	return c.decode(row.raw)
}

func (c *memoryCollection[D]) UpdateByID(ctx context.Context, id string, doc D) (D, error) {
	var zero D
	if err := ctx.Err(); err != nil {
		return zero, err
	}

	c.backend.mu.Lock()
	defer c.backend.mu.Unlock()

	t := c.backend.table(c.spec.Name)
	existing, ok := t.rows[id]
	if !ok {
		return zero, ErrNotFound
	}
	stored, err := c.decode(existing.raw)
	if err != nil {
		return zero, err
	}

	doc.SetDocumentID(id)
	doc.SetTimestamps(stored.CreatedTime(), now())
	row, err := encodeRow(doc)
	if err != nil {
		return zero, err
	}
	if field := c.violatedUnique(t, id, row.fields); field != "" {
		return zero, &DuplicateKeyError{Collection: c.spec.Name, Field: field}
	}
	row.seq = existing.seq
	t.rows[id] = row
	return c.decode(row.raw)
}

func (c *memoryCollection[D]) DeleteByID(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	c.backend.mu.Lock()
	defer c.backend.mu.Unlock()

	t := c.backend.table(c.spec.Name)
	if _, ok := t.rows[id]; !ok {
		return ErrNotFound
	}
	delete(t.rows, id)
	return nil
}

// violatedUnique returns the first unique field whose value is already held by another row.
// Empty values are not indexed.
func (c *memoryCollection[D]) violatedUnique(t *memoryTable, id string, fields map[string]any) string {
	for _, field := range c.spec.Unique {
		value := stringValue(fields[field])
		if value == "" {
			continue
		}
		for otherID, other := range t.rows {
			if otherID != id && stringValue(other.fields[field]) == value {
				return field
			}
		}
	}
	return ""
}

func (c *memoryCollection[D]) decode(raw []byte) (D, error) {
	d := c.newDoc()
	if err := json.Unmarshal(raw, d); err != nil {
		var zero D
		return zero, fmt.Errorf("docstore: decode %s: %w", c.spec.Name, err)
	}
	return d, nil
}

func encodeRow(doc any) (*memoryRow, error) {
	raw, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("docstore: encode: %w", err)
	}
	fields := make(map[string]any)
	if err := json.Unmarshal(raw, &fields); err != nil {
		return nil, fmt.Errorf("docstore: encode: %w", err)
	}
	return &memoryRow{raw: raw, fields: fields}, nil
}

func matches(id string, fields map[string]any, q Query) bool {
	if q.ExceptID != "" && id == q.ExceptID {
		return false
	}
	for field, want := range q.Equals {
		if stringValue(fields[field]) != want {
			return false
		}
	}
	if q.Search != nil && q.Search.Term != "" && len(q.Search.Fields) > 0 {
		term := strings.ToLower(q.Search.Term)
		for _, field := range q.Search.Fields {
			if strings.Contains(strings.ToLower(stringValue(fields[field])), term) {
				return true
			}
		}
		return false
	}
	return true
}

// sortRows applies the requested order; without one, newest rows come first.
func sortRows(rows []*memoryRow, order []SortField) {
	if len(order) == 0 {
		sort.Slice(rows, func(i, j int) bool { return rows[i].seq > rows[j].seq })
		return
	}
	sort.Slice(rows, func(i, j int) bool {
		for _, s := range order {
			a, b := stringValue(rows[i].fields[s.Field]), stringValue(rows[j].fields[s.Field])
			if a == b {
				continue
			}
			if s.Desc {
				return a > b
			}
			return a < b
		}
		return rows[i].seq < rows[j].seq
	})
}

func stringValue(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	default:
		return fmt.Sprint(t)
	}
}
