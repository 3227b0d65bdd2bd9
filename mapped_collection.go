// mapped_collection.go - Interception proxy presenting a Collection[S] as a Collection[P]

package mongomap

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Mapped decorates a Collection[S] as a Collection[P] by routing documents,
// update specifications and delete filters through a Transforms set. It holds
// no state of its own beyond the handle reference and the transform
// functions, so a single Mapped value is as safe under concurrent use as the
// handle it wraps, and the same handle can be wrapped any number of times
// independently.
type Mapped[S, P any] struct {
	legacyOps[P]
	coll Collection[S]
	tr   Transforms[S, P]
}

var _ Collection[bson.M] = (*Mapped[bson.D, bson.M])(nil)

// Wrap builds the mapped view of coll. It never fails: a misconfigured
// Transforms set (a nil function) only surfaces when the corresponding
// operation is invoked.
//
// Because Wrap consumes and produces the same Collection interface, wrapping
// an already-mapped handle stacks the transform layers: the outermost
// layer's write transforms run first on the way down, and the innermost
// layer's PostFind runs first on the way up.
func Wrap[S, P any](coll Collection[S], tr Transforms[S, P]) *Mapped[S, P] {
	m := &Mapped[S, P]{coll: coll, tr: tr}
	m.legacyOps = legacyOps[P]{c: m}
	return m
}

// Unwrap returns the underlying handle.
func (m *Mapped[S, P]) Unwrap() Collection[S] {
	return m.coll
}

// ------------------------- write operations -------------------------

// InsertOne inserts a single document, mapped through PreInsert.
func (m *Mapped[S, P]) InsertOne(ctx context.Context, doc P, opts ...*options.InsertOneOptions) (*mongo.InsertOneResult, error) {
	return m.coll.InsertOne(ctx, m.tr.PreInsert(doc), opts...)
}

// InsertMany inserts several documents, each mapped through PreInsert.
func (m *Mapped[S, P]) InsertMany(ctx context.Context, docs []P, opts ...*options.InsertManyOptions) (*mongo.InsertManyResult, error) {
	mapped := make([]S, len(docs))
	for i, doc := range docs {
		mapped[i] = m.tr.PreInsert(doc)
	}
	return m.coll.InsertMany(ctx, mapped, opts...)
}

// UpdateOne rewrites the update specification through PreUpdate. The filter
// is forwarded untouched.
func (m *Mapped[S, P]) UpdateOne(ctx context.Context, filter, update interface{}, opts ...*options.UpdateOptions) (*mongo.UpdateResult, error) {
	return m.coll.UpdateOne(ctx, filter, m.tr.PreUpdate(update), opts...)
}

// UpdateMany rewrites the update specification through PreUpdate.
func (m *Mapped[S, P]) UpdateMany(ctx context.Context, filter, update interface{}, opts ...*options.UpdateOptions) (*mongo.UpdateResult, error) {
	return m.coll.UpdateMany(ctx, filter, m.tr.PreUpdate(update), opts...)
}

// ReplaceOne maps the replacement document through PreReplace.
func (m *Mapped[S, P]) ReplaceOne(ctx context.Context, filter interface{}, replacement P, opts ...*options.ReplaceOptions) (*mongo.UpdateResult, error) {
	return m.coll.ReplaceOne(ctx, filter, m.tr.PreReplace(replacement), opts...)
}

// DeleteOne rewrites the filter through DeleteFilter before documents are
// selected for removal.
func (m *Mapped[S, P]) DeleteOne(ctx context.Context, filter interface{}, opts ...*options.DeleteOptions) (*mongo.DeleteResult, error) {
	return m.coll.DeleteOne(ctx, m.tr.DeleteFilter(filter), opts...)
}

// DeleteMany rewrites the filter through DeleteFilter.
func (m *Mapped[S, P]) DeleteMany(ctx context.Context, filter interface{}, opts ...*options.DeleteOptions) (*mongo.DeleteResult, error) {
	return m.coll.DeleteMany(ctx, m.tr.DeleteFilter(filter), opts...)
}

// ------------------------- read operations -------------------------

// FindOne maps the found document through PostFind. A not-found signal from
// the underlying handle passes through unchanged and PostFind is not called.
func (m *Mapped[S, P]) FindOne(ctx context.Context, filter interface{}, opts ...*options.FindOneOptions) (P, error) {
	doc, err := m.coll.FindOne(ctx, filter, opts...)
	if err != nil {
		var zero P
		return zero, err
	}
	return m.tr.PostFind(doc), nil
}

// Find returns a cursor that maps each document through PostFind as it is
// consumed. The underlying cursor is never materialized eagerly; closing the
// returned cursor closes the underlying one.
func (m *Mapped[S, P]) Find(ctx context.Context, filter interface{}, opts ...*options.FindOptions) (Cursor[P], error) {
	cur, err := m.coll.Find(ctx, filter, opts...)
	if err != nil {
		return nil, err
	}
	return &mappedCursor[S, P]{inner: cur, post: m.tr.PostFind}, nil
}

// --------------------- find-and-modify operations ---------------------

// FindOneAndDelete maps the removed document, if any, through PostFind.
func (m *Mapped[S, P]) FindOneAndDelete(ctx context.Context, filter interface{}, opts ...*options.FindOneAndDeleteOptions) (*ModifyResult[P], error) {
	res, err := m.coll.FindOneAndDelete(ctx, filter, opts...)
	return m.mapModify(res), err
}

// FindOneAndReplace maps the replacement through PreReplace on the way down
// and the affected document through PostFind on the way back.
func (m *Mapped[S, P]) FindOneAndReplace(ctx context.Context, filter interface{}, replacement P, opts ...*options.FindOneAndReplaceOptions) (*ModifyResult[P], error) {
	res, err := m.coll.FindOneAndReplace(ctx, filter, m.tr.PreReplace(replacement), opts...)
	return m.mapModify(res), err
}

// FindOneAndUpdate rewrites the update specification through PreUpdate and
// maps the affected document through PostFind.
func (m *Mapped[S, P]) FindOneAndUpdate(ctx context.Context, filter, update interface{}, opts ...*options.FindOneAndUpdateOptions) (*ModifyResult[P], error) {
	res, err := m.coll.FindOneAndUpdate(ctx, filter, m.tr.PreUpdate(update), opts...)
	return m.mapModify(res), err
}

// mapModify is shared by the three FindOneAnd* variants: it applies PostFind
// only when the result carries a document and copies every sibling field
// untouched.
func (m *Mapped[S, P]) mapModify(in *ModifyResult[S]) *ModifyResult[P] {
	if in == nil {
		return nil
	}
	out := &ModifyResult[P]{Info: in.Info}
	if in.Value != nil {
		v := m.tr.PostFind(*in.Value)
		out.Value = &v
	}
	return out
}

// ------------------------- pass-through operations -------------------------
//
// Everything below reaches the underlying handle with its original arguments
// and returns its original results. Raw aggregation stages, distinct values
// and change-stream events are expressed against the storage shape; callers
// needing those operations opt into that shape knowingly.

func (m *Mapped[S, P]) Aggregate(ctx context.Context, pipeline interface{}, opts ...*options.AggregateOptions) (*mongo.Cursor, error) {
	return m.coll.Aggregate(ctx, pipeline, opts...)
}

func (m *Mapped[S, P]) CountDocuments(ctx context.Context, filter interface{}, opts ...*options.CountOptions) (int64, error) {
	return m.coll.CountDocuments(ctx, filter, opts...)
}

func (m *Mapped[S, P]) EstimatedDocumentCount(ctx context.Context, opts ...*options.EstimatedDocumentCountOptions) (int64, error) {
	return m.coll.EstimatedDocumentCount(ctx, opts...)
}

func (m *Mapped[S, P]) Distinct(ctx context.Context, fieldName string, filter interface{}, opts ...*options.DistinctOptions) ([]interface{}, error) {
	return m.coll.Distinct(ctx, fieldName, filter, opts...)
}

func (m *Mapped[S, P]) BulkWrite(ctx context.Context, models []mongo.WriteModel, opts ...*options.BulkWriteOptions) (*mongo.BulkWriteResult, error) {
	return m.coll.BulkWrite(ctx, models, opts...)
}

func (m *Mapped[S, P]) Watch(ctx context.Context, pipeline interface{}, opts ...*options.ChangeStreamOptions) (*mongo.ChangeStream, error) {
	return m.coll.Watch(ctx, pipeline, opts...)
}

func (m *Mapped[S, P]) Drop(ctx context.Context) error {
	return m.coll.Drop(ctx)
}

func (m *Mapped[S, P]) Indexes() mongo.IndexView {
	return m.coll.Indexes()
}

func (m *Mapped[S, P]) Name() string {
	return m.coll.Name()
}
