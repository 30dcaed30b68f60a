package docstore

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type widget struct {
	ID        string    `json:"id"`
	Code      string    `json:"code"`
	Name      string    `json:"name"`
	Level     string    `json:"level"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (w *widget) DocumentID() string {
	return w.ID
}

func (w *widget) SetDocumentID(id string) {
	w.ID = id
}

func (w *widget) CreatedTime() time.Time {
	return w.CreatedAt
}

func (w *widget) SetTimestamps(c, u time.Time) {
	w.CreatedAt, w.UpdatedAt = c, u
}

var widgetSpec = CollectionSpec{Name: "widgets", Unique: []string{"code"}}

func newWidgets(t *testing.T) Collection[*widget] {
	t.Helper()
	coll, err := NewCollection(NewMemoryBackend(), widgetSpec, func() *widget { return &widget{} })
	require.NoError(t, err)
	return coll
}

func TestMemoryInsertAssignsIDAndTimestamps(t *testing.T) {
	ctx := context.Background()
	coll := newWidgets(t)

	got, err := coll.Insert(ctx, &widget{Code: "A", Name: "alpha"})
	require.NoError(t, err)
	assert.NotEmpty(t, got.ID)
	assert.False(t, got.CreatedAt.IsZero())
	assert.Equal(t, got.CreatedAt, got.UpdatedAt)

	found, err := coll.FindByID(ctx, got.ID)
	require.NoError(t, err)
	assert.Equal(t, "alpha", found.Name)
}

func TestMemoryUniqueFields(t *testing.T) {
	ctx := context.Background()
	coll := newWidgets(t)

	first, err := coll.Insert(ctx, &widget{Code: "A"})
	require.NoError(t, err)
	second, err := coll.Insert(ctx, &widget{Code: "B"})
	require.NoError(t, err)

	_, err = coll.Insert(ctx, &widget{Code: "A"})
	var dup *DuplicateKeyError
	require.True(t, errors.As(err, &dup))
	assert.Equal(t, "code", dup.Field)
	assert.Equal(t, "widgets", dup.Collection)

	_, err = coll.UpdateByID(ctx, second.ID, &widget{Code: "A"})
	require.True(t, errors.As(err, &dup))

	// Rewriting a document with its own value is not a conflict
	_, err = coll.UpdateByID(ctx, first.ID, &widget{Code: "A", Name: "renamed"})
	require.NoError(t, err)
}

func TestMemoryUpdateKeepsCreationTime(t *testing.T) {
	ctx := context.Background()
	coll := newWidgets(t)

	created, err := coll.Insert(ctx, &widget{Code: "A"})
	require.NoError(t, err)

	updated, err := coll.UpdateByID(ctx, created.ID, &widget{Code: "A2"})
	require.NoError(t, err)
	assert.Equal(t, created.ID, updated.ID)
	assert.Equal(t, created.CreatedAt, updated.CreatedAt)
	assert.Equal(t, "A2", updated.Code)

	_, err = coll.UpdateByID(ctx, "missing", &widget{Code: "X"})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryFindQueries(t *testing.T) {
	ctx := context.Background()
	coll := newWidgets(t)

	for _, w := range []*widget{
		{Code: "CS", Name: "Computer Science", Level: "2"},
		{Code: "IT", Name: "Information Technology", Level: "1"},
		{Code: "MATH", Name: "Mathematics", Level: "1"},
	} {
		_, err := coll.Insert(ctx, w)
		require.NoError(t, err)
	}

	t.Run("default order is newest first", func(t *testing.T) {
		all, err := coll.ListAll(ctx)
		require.NoError(t, err)
		require.Len(t, all, 3)
		assert.Equal(t, []string{"MATH", "IT", "CS"}, codes(all))
	})

	t.Run("equality filter", func(t *testing.T) {
		got, err := coll.Find(ctx, Query{Equals: map[string]string{"level": "1"}})
		require.NoError(t, err)
		assert.ElementsMatch(t, []string{"IT", "MATH"}, codes(got))
	})

	t.Run("except id", func(t *testing.T) {
		cs, found, err := coll.FindOne(ctx, Query{Equals: map[string]string{"code": "CS"}})
		require.NoError(t, err)
		require.True(t, found)

		_, found, err = coll.FindOne(ctx, Query{Equals: map[string]string{"code": "CS"}, ExceptID: cs.ID})
		require.NoError(t, err)
		assert.False(t, found)
	})

	t.Run("case insensitive search", func(t *testing.T) {
		got, err := coll.Find(ctx, Query{Search: &Search{Term: "TECH", Fields: []string{"code", "name"}}})
		require.NoError(t, err)
		assert.Equal(t, []string{"IT"}, codes(got))
	})

	t.Run("explicit sort with insertion order tie break", func(t *testing.T) {
		got, err := coll.Find(ctx, Query{Sort: []SortField{{Field: "level"}}})
		require.NoError(t, err)
		assert.Equal(t, []string{"IT", "MATH", "CS"}, codes(got))
	})
}

func TestMemoryDelete(t *testing.T) {
	ctx := context.Background()
	coll := newWidgets(t)

	w, err := coll.Insert(ctx, &widget{Code: "A"})
	require.NoError(t, err)

	require.NoError(t, coll.DeleteByID(ctx, w.ID))
	assert.ErrorIs(t, coll.DeleteByID(ctx, w.ID), ErrNotFound)

	_, err = coll.FindByID(ctx, w.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryReturnsCopies(t *testing.T) {
	ctx := context.Background()
	coll := newWidgets(t)

	w, err := coll.Insert(ctx, &widget{Code: "A", Name: "alpha"})
	require.NoError(t, err)
	w.Name = "mutated"

	found, err := coll.FindByID(ctx, w.ID)
	require.NoError(t, err)
	assert.Equal(t, "alpha", found.Name)
}

func codes(ws []*widget) []string {
	out := make([]string, 0, len(ws))
	for _, w := range ws {
		out = append(out, w.Code)
	}
	return out
}
