package repositories

import (
	"context"
	"errors"

	"github.com/yigit/campusrecords/internal/pkg/apperrors"
	"github.com/yigit/campusrecords/internal/pkg/docstore"
)

// store is the typed document collection behind one repository. It translates storage
// outcomes into application errors naming the entity.
type store[D docstore.Document] struct {
	coll         docstore.Collection[D]
	entity       string
	searchFields []string
}

// GetAll returns every document, newest first
func (s *store[D]) GetAll(ctx context.Context) ([]D, error) {
	docs, err := s.coll.ListAll(ctx)
	if err != nil {
		return nil, s.translate("list", err)
	}
	return docs, nil
}

// GetByID returns the document or a NotFound error
func (s *store[D]) GetByID(ctx context.Context, id string) (D, error) {
	doc, err := s.coll.FindByID(ctx, id)
	if err != nil {
		var zero D
		return zero, s.translate("get", err)
	}
	return doc, nil
}

// FindByField returns the document whose field equals value, skipping exceptID.
// found is false when there is none.
func (s *store[D]) FindByField(ctx context.Context, field, value, exceptID string) (doc D, found bool, err error) {
	doc, found, err = s.coll.FindOne(ctx, docstore.Query{
		Equals:   map[string]string{field: value},
		ExceptID: exceptID,
	})
	if err != nil {
		return doc, false, s.translate("lookup", err)
	}
	return doc, found, nil
}

// Search returns documents where any searchable field contains term, case-insensitively
func (s *store[D]) Search(ctx context.Context, term string) ([]D, error) {
	docs, err := s.coll.Find(ctx, docstore.Query{
		Search: &docstore.Search{Term: term, Fields: s.searchFields},
	})
	if err != nil {
		return nil, s.translate("search", err)
	}
	return docs, nil
}

// Create inserts doc
func (s *store[D]) Create(ctx context.Context, doc D) (D, error) {
	created, err := s.coll.Insert(ctx, doc)
	if err != nil {
		var zero D
		return zero, s.translate("create", err)
	}
	return created, nil
}

// Update replaces the document stored under id
func (s *store[D]) Update(ctx context.Context, id string, doc D) (D, error) {
	updated, err := s.coll.UpdateByID(ctx, id, doc)
	if err != nil {
		var zero D
		return zero, s.translate("update", err)
	}
	return updated, nil
}

// Delete removes the document stored under id
func (s *store[D]) Delete(ctx context.Context, id string) error {
	if err := s.coll.DeleteByID(ctx, id); err != nil {
		return s.translate("delete", err)
	}
	return nil
}

func (s *store[D]) translate(op string, err error) error {
	var dup *docstore.DuplicateKeyError
	switch {
	case errors.Is(err, docstore.ErrNotFound):
		return apperrors.NewNotFoundError(s.entity, "")
	case errors.As(err, &dup):
		return apperrors.NewDuplicateKeyError(s.entity, dup.Field)
	default:
		return apperrors.NewStorageError(s.entity+" "+op, err)
	}
}
