package docstore

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"sort"

	"github.com/google/uuid"
	"github.com/yigit/campusrecords/internal/pkg/dberrors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoBackend stores each collection in a MongoDB collection of the same name.
type MongoBackend struct {
	db *mongo.Database
}

// NewMongoBackend wraps an already connected database.
func NewMongoBackend(db *mongo.Database) *MongoBackend {
	return &MongoBackend{db: db}
}

func (b *MongoBackend) Name() string { return "mongodb" }

func (b *MongoBackend) Ping(ctx context.Context) error {
	return b.db.Client().Ping(ctx, nil)
}

func (b *MongoBackend) Close(ctx context.Context) error {
	return b.db.Client().Disconnect(ctx)
}

// EnsureIndexes creates a unique <field>_1 index for every unique field of every spec.
// The index name is what duplicate key errors are mapped back from.
func (b *MongoBackend) EnsureIndexes(ctx context.Context, specs ...CollectionSpec) error {
	for _, spec := range specs {
		if len(spec.Unique) == 0 {
			continue
		}
		models := make([]mongo.IndexModel, 0, len(spec.Unique))
		for _, field := range spec.Unique {
			models = append(models, mongo.IndexModel{
				Keys:    bson.D{{Key: field, Value: 1}},
				Options: options.Index().SetUnique(true).SetName(field + "_1"),
			})
		}
		if _, err := b.db.Collection(spec.Name).Indexes().CreateMany(ctx, models); err != nil {
			return fmt.Errorf("docstore: create indexes on %s: %w", spec.Name, err)
		}
	}
	return nil
}

type mongoCollection[D Document] struct {
	coll   *mongo.Collection
	spec   CollectionSpec
	newDoc func() D
}

func newMongoCollection[D Document](b *MongoBackend, spec CollectionSpec, newDoc func() D) *mongoCollection[D] {
	return &mongoCollection[D]{coll: b.db.Collection(spec.Name), spec: spec, newDoc: newDoc}
}

func (c *mongoCollection[D]) ListAll(ctx context.Context) ([]D, error) {
	return c.Find(ctx, Query{})
}

func (c *mongoCollection[D]) Find(ctx context.Context, q Query) ([]D, error) {
	opts := options.Find().SetSort(mongoSort(q.Sort))
	cur, err := c.coll.Find(ctx, mongoFilter(q), opts)
	if err != nil {
		return nil, fmt.Errorf("docstore: find in %s: %w", c.spec.Name, err)
	}
	defer cur.Close(ctx)

	out := make([]D, 0)
	for cur.Next(ctx) {
		d := c.newDoc()
		if err := cur.Decode(d); err != nil {
			return nil, fmt.Errorf("docstore: decode %s: %w", c.spec.Name, err)
		}
		out = append(out, d)
	}
	if err := cur.Err(); err != nil {
		return nil, fmt.Errorf("docstore: iterate %s: %w", c.spec.Name, err)
	}
	return out, nil
}

func (c *mongoCollection[D]) FindByID(ctx context.Context, id string) (D, error) {
	d := c.newDoc()
	err := c.coll.FindOne(ctx, bson.M{"_id": id}).Decode(d)
	if errors.Is(err, mongo.ErrNoDocuments) {
		var zero D
		return zero, ErrNotFound
	}
	if err != nil {
		var zero D
		return zero, fmt.Errorf("docstore: find %s by id: %w", c.spec.Name, err)
	}
	return d, nil
}

func (c *mongoCollection[D]) FindOne(ctx context.Context, q Query) (D, bool, error) {
	var zero D
	d := c.newDoc()
	opts := options.FindOne().SetSort(mongoSort(q.Sort))
	err := c.coll.FindOne(ctx, mongoFilter(q), opts).Decode(d)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return zero, false, nil
	}
	if err != nil {
		return zero, false, fmt.Errorf("docstore: find one in %s: %w", c.spec.Name, err)
	}
	return d, true, nil
}

func (c *mongoCollection[D]) Insert(ctx context.Context, doc D) (D, error) {
	var zero D
	ts := now()
	doc.SetDocumentID(uuid.NewString())
	doc.SetTimestamps(ts, ts)

	if _, err := c.coll.InsertOne(ctx, doc); err != nil {
		return zero, c.writeError("insert", err)
	}
	return doc, nil
}

func (c *mongoCollection[D]) UpdateByID(ctx context.Context, id string, doc D) (D, error) {
	existing, err := c.FindByID(ctx, id)
	if err != nil {
		var zero D
		return zero, err
	}

	doc.SetDocumentID(id)
	doc.SetTimestamps(existing.CreatedTime(), now())
	res, err := c.coll.ReplaceOne(ctx, bson.M{"_id": id}, doc)
	if err != nil {
		var zero D
		return zero, c.writeError("update", err)
	}
	if res.MatchedCount == 0 {
		var zero D
		return zero, ErrNotFound
	}
	return doc, nil
}

func (c *mongoCollection[D]) DeleteByID(ctx context.Context, id string) error {
	res, err := c.coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("docstore: delete from %s: %w", c.spec.Name, err)
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (c *mongoCollection[D]) writeError(op string, err error) error {
	if field, ok := dberrors.MongoDuplicateField(err); ok {
		return &DuplicateKeyError{Collection: c.spec.Name, Field: field}
	}
	return fmt.Errorf("docstore: %s into %s: %w", op, c.spec.Name, err)
}

func mongoFilter(q Query) bson.D {
	filter := bson.D{}

	keys := make([]string, 0, len(q.Equals))
	for k := range q.Equals {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		filter = append(filter, bson.E{Key: k, Value: q.Equals[k]})
	}

	if q.ExceptID != "" {
		filter = append(filter, bson.E{Key: "_id", Value: bson.M{"$ne": q.ExceptID}})
	}

	if q.Search != nil && q.Search.Term != "" && len(q.Search.Fields) > 0 {
		pattern := regexp.QuoteMeta(q.Search.Term)
		or := bson.A{}
		for _, field := range q.Search.Fields {
			or = append(or, bson.M{field: bson.M{"$regex": pattern, "$options": "i"}})
		}
		filter = append(filter, bson.E{Key: "$or", Value: or})
	}
	return filter
}

func mongoSort(order []SortField) bson.D {
	if len(order) == 0 {
		return bson.D{{Key: "createdAt", Value: -1}}
	}
	s := make(bson.D, 0, len(order))
	for _, f := range order {
		dir := 1
		if f.Desc {
			dir = -1
		}
		s = append(s, bson.E{Key: f.Field, Value: dir})
	}
	return s
}
