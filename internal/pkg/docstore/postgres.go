package docstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"sort"
	"strings"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/yigit/campusrecords/internal/pkg/dberrors"
)

// PostgresBackend stores each collection as a table of JSONB documents:
// (id TEXT PRIMARY KEY, doc JSONB, created_at, updated_at). The tables and their
// <table>_<field>_key unique indexes are created by migrations.
type PostgresBackend struct {
	pool *pgxpool.Pool
	sb   sq.StatementBuilderType
}

// NewPostgresBackend wraps an open pool.
func NewPostgresBackend(pool *pgxpool.Pool) *PostgresBackend {
	return &PostgresBackend{
		pool: pool,
		sb:   sq.StatementBuilder.PlaceholderFormat(sq.Dollar),
	}
}

func (b *PostgresBackend) Name() string { return "postgres" }

func (b *PostgresBackend) Ping(ctx context.Context) error {
	return b.pool.Ping(ctx)
}

func (b *PostgresBackend) Close(ctx context.Context) error {
	b.pool.Close()
	return nil
}

// fieldName guards the document keys interpolated into JSONB expressions.
var fieldName = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

func jsonField(field string) (string, error) {
	if !fieldName.MatchString(field) {
		return "", fmt.Errorf("docstore: invalid field name %q", field)
	}
	return fmt.Sprintf("doc->>'%s'", field), nil
}

type postgresCollection[D Document] struct {
	backend *PostgresBackend
	spec    CollectionSpec
	newDoc  func() D
}

func newPostgresCollection[D Document](b *PostgresBackend, spec CollectionSpec, newDoc func() D) *postgresCollection[D] {
	return &postgresCollection[D]{backend: b, spec: spec, newDoc: newDoc}
}

func (c *postgresCollection[D]) ListAll(ctx context.Context) ([]D, error) {
	return c.Find(ctx, Query{})
}

func (c *postgresCollection[D]) Find(ctx context.Context, q Query) ([]D, error) {
	query, err := c.selectQuery(q)
	if err != nil {
		return nil, err
	}
	sql, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("docstore: build select on %s: %w", c.spec.Name, err)
	}

	rows, err := c.backend.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("docstore: select from %s: %w", c.spec.Name, err)
	}
	defer rows.Close()

	out := make([]D, 0)
	for rows.Next() {
		var raw []byte
		if err := rows.Scan(&raw); err != nil {
			return nil, fmt.Errorf("docstore: scan %s: %w", c.spec.Name, err)
		}
		d, err := c.decode(raw)
		if err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("docstore: iterate %s: %w", c.spec.Name, err)
	}
	return out, nil
}

func (c *postgresCollection[D]) FindByID(ctx context.Context, id string) (D, error) {
	var zero D
	sql, args, err := c.backend.sb.Select("doc").From(c.spec.Name).Where(sq.Eq{"id": id}).ToSql()
	if err != nil {
		return zero, fmt.Errorf("docstore: build select on %s: %w", c.spec.Name, err)
	}

	var raw []byte
	err = c.backend.pool.QueryRow(ctx, sql, args...).Scan(&raw)
	if errors.Is(err, pgx.ErrNoRows) {
		return zero, ErrNotFound
	}
	if err != nil {
		return zero, fmt.Errorf("docstore: select %s by id: %w", c.spec.Name, err)
	}
	return c.decode(raw)
}

func (c *postgresCollection[D]) FindOne(ctx context.Context, q Query) (D, bool, error) {
	var zero D
	query, err := c.selectQuery(q)
	if err != nil {
		return zero, false, err
	}
	sql, args, err := query.Limit(1).ToSql()
	if err != nil {
		return zero, false, fmt.Errorf("docstore: build select on %s: %w", c.spec.Name, err)
	}

	var raw []byte
	err = c.backend.pool.QueryRow(ctx, sql, args...).Scan(&raw)
	if errors.Is(err, pgx.ErrNoRows) {
		return zero, false, nil
	}
	if err != nil {
		return zero, false, fmt.Errorf("docstore: select one from %s: %w", c.spec.Name, err)
	}
	d, err := c.decode(raw)
	return d, err == nil, err
}

func (c *postgresCollection[D]) Insert(ctx context.Context, doc D) (D, error) {
	var zero D
	ts := now()
	doc.SetDocumentID(uuid.NewString())
	doc.SetTimestamps(ts, ts)

	raw, err := json.Marshal(doc)
	if err != nil {
		return zero, fmt.Errorf("docstore: encode %s: %w", c.spec.Name, err)
	}

	sql, args, err := c.backend.sb.Insert(c.spec.Name).
		Columns("id", "doc", "created_at", "updated_at").
		Values(doc.DocumentID(), raw, ts, ts).
		ToSql()
	if err != nil {
		return zero, fmt.Errorf("docstore: build insert on %s: %w", c.spec.Name, err)
	}
	if _, err := c.backend.pool.Exec(ctx, sql, args...); err != nil {
		return zero, c.writeError("insert", err)
	}
	return doc, nil
}

func (c *postgresCollection[D]) UpdateByID(ctx context.Context, id string, doc D) (D, error) {
	var zero D
	existing, err := c.FindByID(ctx, id)
	if err != nil {
		return zero, err
	}

	ts := now()
	doc.SetDocumentID(id)
	doc.SetTimestamps(existing.CreatedTime(), ts)
	raw, err := json.Marshal(doc)
	if err != nil {
		return zero, fmt.Errorf("docstore: encode %s: %w", c.spec.Name, err)
	}

	sql, args, err := c.backend.sb.Update(c.spec.Name).
		Set("doc", raw).
		Set("updated_at", ts).
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return zero, fmt.Errorf("docstore: build update on %s: %w", c.spec.Name, err)
	}
	tag, err := c.backend.pool.Exec(ctx, sql, args...)
	if err != nil {
		return zero, c.writeError("update", err)
	}
	if tag.RowsAffected() == 0 {
		return zero, ErrNotFound
	}
	return doc, nil
}

func (c *postgresCollection[D]) DeleteByID(ctx context.Context, id string) error {
	sql, args, err := c.backend.sb.Delete(c.spec.Name).Where(sq.Eq{"id": id}).ToSql()
	if err != nil {
		return fmt.Errorf("docstore: build delete on %s: %w", c.spec.Name, err)
	}
	tag, err := c.backend.pool.Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("docstore: delete from %s: %w", c.spec.Name, err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (c *postgresCollection[D]) selectQuery(q Query) (sq.SelectBuilder, error) {
	query := c.backend.sb.Select("doc").From(c.spec.Name)

	keys := make([]string, 0, len(q.Equals))
	for k := range q.Equals {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		expr, err := jsonField(k)
		if err != nil {
			return query, err
		}
		query = query.Where(sq.Eq{expr: q.Equals[k]})
	}

	if q.ExceptID != "" {
		query = query.Where(sq.NotEq{"id": q.ExceptID})
	}

	if q.Search != nil && q.Search.Term != "" && len(q.Search.Fields) > 0 {
		pattern := "%" + escapeLike(q.Search.Term) + "%"
		or := sq.Or{}
		for _, field := range q.Search.Fields {
			expr, err := jsonField(field)
			if err != nil {
				return query, err
			}
			or = append(or, sq.ILike{expr: pattern})
		}
		query = query.Where(or)
	}

	if len(q.Sort) == 0 {
		return query.OrderBy("created_at DESC"), nil
	}
	for _, s := range q.Sort {
		expr, err := jsonField(s.Field)
		if err != nil {
			return query, err
		}
		dir := "ASC"
		if s.Desc {
			dir = "DESC"
		}
		query = query.OrderBy(expr + " " + dir)
	}
	return query.OrderBy("created_at ASC"), nil
}

func (c *postgresCollection[D]) writeError(op string, err error) error {
	if field, ok := dberrors.PostgresDuplicateField(err, c.spec.Name); ok {
		return &DuplicateKeyError{Collection: c.spec.Name, Field: field}
	}
	return fmt.Errorf("docstore: %s into %s: %w", op, c.spec.Name, err)
}

func (c *postgresCollection[D]) decode(raw []byte) (D, error) {
	d := c.newDoc()
	if err := json.Unmarshal(raw, d); err != nil {
		var zero D
		return zero, fmt.Errorf("docstore: decode %s: %w", c.spec.Name, err)
	}
	return d, nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
