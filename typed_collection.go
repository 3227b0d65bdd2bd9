// typed_collection.go - Typed adapter giving a raw driver collection the Collection[T] surface

package mongomap

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Typed adapts a *mongo.Collection to Collection[T] so that Wrap can sit
// directly in front of the official driver. Single results are decoded into
// T, the driver's mongo.ErrNoDocuments becomes ErrNotFound, and find cursors
// are exposed through the typed Cursor interface.
type Typed[T any] struct {
	legacyOps[T]
	coll *mongo.Collection
}

var _ Collection[bson.M] = (*Typed[bson.M])(nil)

// NewTyped wraps coll. The adapter holds only a reference; the caller keeps
// ownership of the underlying collection and its client.
func NewTyped[T any](coll *mongo.Collection) *Typed[T] {
	t := &Typed[T]{coll: coll}
	t.legacyOps = legacyOps[T]{c: t}
	return t
}

// Collection returns the underlying driver collection.
func (c *Typed[T]) Collection() *mongo.Collection {
	return c.coll
}

// ------------------------- write operations -------------------------

func (c *Typed[T]) InsertOne(ctx context.Context, doc T, opts ...*options.InsertOneOptions) (*mongo.InsertOneResult, error) {
	return c.coll.InsertOne(ctx, doc, opts...)
}

func (c *Typed[T]) InsertMany(ctx context.Context, docs []T, opts ...*options.InsertManyOptions) (*mongo.InsertManyResult, error) {
	anyDocs := make([]interface{}, len(docs))
	for i, doc := range docs {
		anyDocs[i] = doc
	}
	return c.coll.InsertMany(ctx, anyDocs, opts...)
}

func (c *Typed[T]) UpdateOne(ctx context.Context, filter, update interface{}, opts ...*options.UpdateOptions) (*mongo.UpdateResult, error) {
	return c.coll.UpdateOne(ctx, filter, update, opts...)
}

func (c *Typed[T]) UpdateMany(ctx context.Context, filter, update interface{}, opts ...*options.UpdateOptions) (*mongo.UpdateResult, error) {
	return c.coll.UpdateMany(ctx, filter, update, opts...)
}

func (c *Typed[T]) ReplaceOne(ctx context.Context, filter interface{}, replacement T, opts ...*options.ReplaceOptions) (*mongo.UpdateResult, error) {
	return c.coll.ReplaceOne(ctx, filter, replacement, opts...)
}

func (c *Typed[T]) DeleteOne(ctx context.Context, filter interface{}, opts ...*options.DeleteOptions) (*mongo.DeleteResult, error) {
	return c.coll.DeleteOne(ctx, filter, opts...)
}

func (c *Typed[T]) DeleteMany(ctx context.Context, filter interface{}, opts ...*options.DeleteOptions) (*mongo.DeleteResult, error) {
	return c.coll.DeleteMany(ctx, filter, opts...)
}

// ------------------------- read operations -------------------------

// FindOne decodes the first matching document into T. A nil filter matches
// all documents. Returns ErrNotFound when nothing matches.
func (c *Typed[T]) FindOne(ctx context.Context, filter interface{}, opts ...*options.FindOneOptions) (T, error) {
	var doc T

	res := c.coll.FindOne(ctx, orEmptyFilter(filter), opts...)
	if err := res.Err(); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return doc, ErrNotFound
		}
		return doc, err
	}

	if err := res.Decode(&doc); err != nil {
		return doc, err
	}
	return doc, nil
}

// Find returns a typed cursor over all matching documents. A nil filter
// matches all documents.
func (c *Typed[T]) Find(ctx context.Context, filter interface{}, opts ...*options.FindOptions) (Cursor[T], error) {
	cur, err := c.coll.Find(ctx, orEmptyFilter(filter), opts...)
	if err != nil {
		return nil, err
	}
	return &driverCursor[T]{cur: cur}, nil
}

// --------------------- find-and-modify operations ---------------------

func (c *Typed[T]) FindOneAndDelete(ctx context.Context, filter interface{}, opts ...*options.FindOneAndDeleteOptions) (*ModifyResult[T], error) {
	doc, err := c.decodeModify(c.coll.FindOneAndDelete(ctx, filter, opts...))
	if err != nil {
		return modifyMiss[T](err)
	}
	return &ModifyResult[T]{
		Value: doc,
		Info:  ChangeInfo{Removed: 1, Matched: 1},
	}, nil
}

func (c *Typed[T]) FindOneAndReplace(ctx context.Context, filter interface{}, replacement T, opts ...*options.FindOneAndReplaceOptions) (*ModifyResult[T], error) {
	doc, err := c.decodeModify(c.coll.FindOneAndReplace(ctx, filter, replacement, opts...))
	if err != nil {
		return modifyMiss[T](err)
	}
	return &ModifyResult[T]{
		Value: doc,
		Info:  ChangeInfo{Updated: 1, Matched: 1},
	}, nil
}

func (c *Typed[T]) FindOneAndUpdate(ctx context.Context, filter, update interface{}, opts ...*options.FindOneAndUpdateOptions) (*ModifyResult[T], error) {
	doc, err := c.decodeModify(c.coll.FindOneAndUpdate(ctx, filter, update, opts...))
	if err != nil {
		return modifyMiss[T](err)
	}
	return &ModifyResult[T]{
		Value: doc,
		Info:  ChangeInfo{Updated: 1, Matched: 1},
	}, nil
}

// decodeModify turns a FindOneAnd* SingleResult into the affected document.
func (c *Typed[T]) decodeModify(res *mongo.SingleResult) (*T, error) {
	if err := res.Err(); err != nil {
		return nil, err
	}
	var doc T
	if err := res.Decode(&doc); err != nil {
		return nil, err
	}
	return &doc, nil
}

// modifyMiss maps a FindOneAnd* failure to the adapter's contract: a miss
// becomes an empty result with ErrNotFound, everything else propagates as-is.
func modifyMiss[T any](err error) (*ModifyResult[T], error) {
	if errors.Is(err, mongo.ErrNoDocuments) {
		return &ModifyResult[T]{}, ErrNotFound
	}
	return nil, err
}

// ------------------------- pass-through operations -------------------------

func (c *Typed[T]) Aggregate(ctx context.Context, pipeline interface{}, opts ...*options.AggregateOptions) (*mongo.Cursor, error) {
	return c.coll.Aggregate(ctx, pipeline, opts...)
}

func (c *Typed[T]) CountDocuments(ctx context.Context, filter interface{}, opts ...*options.CountOptions) (int64, error) {
	return c.coll.CountDocuments(ctx, orEmptyFilter(filter), opts...)
}

func (c *Typed[T]) EstimatedDocumentCount(ctx context.Context, opts ...*options.EstimatedDocumentCountOptions) (int64, error) {
	return c.coll.EstimatedDocumentCount(ctx, opts...)
}

func (c *Typed[T]) Distinct(ctx context.Context, fieldName string, filter interface{}, opts ...*options.DistinctOptions) ([]interface{}, error) {
	return c.coll.Distinct(ctx, fieldName, orEmptyFilter(filter), opts...)
}

func (c *Typed[T]) BulkWrite(ctx context.Context, models []mongo.WriteModel, opts ...*options.BulkWriteOptions) (*mongo.BulkWriteResult, error) {
	return c.coll.BulkWrite(ctx, models, opts...)
}

func (c *Typed[T]) Watch(ctx context.Context, pipeline interface{}, opts ...*options.ChangeStreamOptions) (*mongo.ChangeStream, error) {
	return c.coll.Watch(ctx, pipeline, opts...)
}

func (c *Typed[T]) Drop(ctx context.Context) error {
	return c.coll.Drop(ctx)
}

func (c *Typed[T]) Indexes() mongo.IndexView {
	return c.coll.Indexes()
}

func (c *Typed[T]) Name() string {
	return c.coll.Name()
}

// ------------------------- driver cursor -------------------------

// driverCursor exposes a *mongo.Cursor through the typed Cursor interface.
type driverCursor[T any] struct {
	cur *mongo.Cursor
}

func (c *driverCursor[T]) Next(ctx context.Context) bool {
	return c.cur.Next(ctx)
}

func (c *driverCursor[T]) Decode(out *T) error {
	return c.cur.Decode(out)
}

func (c *driverCursor[T]) All(ctx context.Context) ([]T, error) {
	defer c.Close(ctx)

	var docs []T
	for c.cur.Next(ctx) {
		var doc T
		if err := c.cur.Decode(&doc); err != nil {
			return nil, err
		}
		docs = append(docs, doc)
	}
	return docs, c.cur.Err()
}

func (c *driverCursor[T]) Err() error {
	return c.cur.Err()
}

func (c *driverCursor[T]) Close(ctx context.Context) error {
	return c.cur.Close(ctx)
}
