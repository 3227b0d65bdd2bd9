// mapped_types.go - Type definitions for the mapped collection wrapper

package mongomap

import (
	"context"
	"errors"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ErrNotFound is returned when a requested document is not present. It stands
// in for the driver's mongo.ErrNoDocuments so callers compare against a single
// sentinel regardless of which layer produced the miss.
var ErrNotFound = errors.New("not found")

// Transforms holds the five pure functions a mapped collection applies. S is
// the storage shape persisted by the underlying handle, P the public shape
// exposed to callers.
//
// Every function must be total over its input type and free of side effects.
// Update specifications and delete filters are plain BSON values, so those
// two functions operate on interface{} exactly as the driver does. All five
// functions are required; a nil function surfaces as a panic the first time
// the corresponding operation is invoked, never at Wrap time.
type Transforms[S, P any] struct {
	// PreInsert maps an outbound insert document from public to storage shape.
	PreInsert func(P) S

	// PreUpdate maps an outbound update specification to storage shape.
	PreUpdate func(interface{}) interface{}

	// PreReplace maps an outbound full replacement document to storage shape.
	PreReplace func(P) S

	// PostFind maps an inbound document, identity key included, from storage
	// to public shape.
	PostFind func(S) P

	// DeleteFilter maps a delete filter to storage shape before it selects
	// documents for removal.
	DeleteFilter func(interface{}) interface{}
}

// ChangeInfo captures the outcome of update and delete operations with exact
// document counts.
type ChangeInfo struct {
	Updated    int         // Number of existing documents modified
	Removed    int         // Number of documents removed
	Matched    int         // Number of documents matched (may differ from Updated)
	UpsertedId interface{} // _id of an upserted document when not explicitly set
}

// ModifyResult is the outcome of the FindOneAnd* operations: the affected
// document, when one was matched, plus the operation's auxiliary metadata.
// Value is nil when no document was affected.
type ModifyResult[T any] struct {
	Value *T
	Info  ChangeInfo
}

// Cursor iterates lazily over documents produced by Find. Next advances the
// cursor, Decode reads the current document, and Close releases the
// underlying resources; abandoning a cursor early must be followed by Close
// so the underlying production stops.
type Cursor[T any] interface {
	Next(ctx context.Context) bool
	Decode(out *T) error
	All(ctx context.Context) ([]T, error)
	Err() error
	Close(ctx context.Context) error
}

// Collection is the operation surface of a collection handle whose documents
// have shape T. Typed adapts a raw *mongo.Collection to this interface, and
// Wrap decorates any Collection[S] as a Collection[P], so mapped layers stack
// without special cases.
//
// The first twelve operations are the ones a mapped layer rewrites. The
// remainder (aggregation, counting, distinct, bulk writes, change streams,
// index and collection administration) are always forwarded untouched:
// the rewrite set is a closed allow-list, so an operation absent from it is
// guaranteed to reach the underlying handle with its original arguments.
type Collection[T any] interface {
	InsertOne(ctx context.Context, doc T, opts ...*options.InsertOneOptions) (*mongo.InsertOneResult, error)
	InsertMany(ctx context.Context, docs []T, opts ...*options.InsertManyOptions) (*mongo.InsertManyResult, error)
	UpdateOne(ctx context.Context, filter, update interface{}, opts ...*options.UpdateOptions) (*mongo.UpdateResult, error)
	UpdateMany(ctx context.Context, filter, update interface{}, opts ...*options.UpdateOptions) (*mongo.UpdateResult, error)
	ReplaceOne(ctx context.Context, filter interface{}, replacement T, opts ...*options.ReplaceOptions) (*mongo.UpdateResult, error)
	DeleteOne(ctx context.Context, filter interface{}, opts ...*options.DeleteOptions) (*mongo.DeleteResult, error)
	DeleteMany(ctx context.Context, filter interface{}, opts ...*options.DeleteOptions) (*mongo.DeleteResult, error)
	FindOne(ctx context.Context, filter interface{}, opts ...*options.FindOneOptions) (T, error)
	Find(ctx context.Context, filter interface{}, opts ...*options.FindOptions) (Cursor[T], error)
	FindOneAndDelete(ctx context.Context, filter interface{}, opts ...*options.FindOneAndDeleteOptions) (*ModifyResult[T], error)
	FindOneAndReplace(ctx context.Context, filter interface{}, replacement T, opts ...*options.FindOneAndReplaceOptions) (*ModifyResult[T], error)
	FindOneAndUpdate(ctx context.Context, filter, update interface{}, opts ...*options.FindOneAndUpdateOptions) (*ModifyResult[T], error)

	Aggregate(ctx context.Context, pipeline interface{}, opts ...*options.AggregateOptions) (*mongo.Cursor, error)
	CountDocuments(ctx context.Context, filter interface{}, opts ...*options.CountOptions) (int64, error)
	EstimatedDocumentCount(ctx context.Context, opts ...*options.EstimatedDocumentCountOptions) (int64, error)
	Distinct(ctx context.Context, fieldName string, filter interface{}, opts ...*options.DistinctOptions) ([]interface{}, error)
	BulkWrite(ctx context.Context, models []mongo.WriteModel, opts ...*options.BulkWriteOptions) (*mongo.BulkWriteResult, error)
	Watch(ctx context.Context, pipeline interface{}, opts ...*options.ChangeStreamOptions) (*mongo.ChangeStream, error)
	Drop(ctx context.Context) error
	Indexes() mongo.IndexView
	Name() string
}

// ---------------------- filter & update helpers ----------------------

// orEmptyFilter substitutes an empty document for a nil filter so that
// "find all" keeps working the way the legacy API allowed.
func orEmptyFilter(filter interface{}) interface{} {
	if filter == nil {
		return bson.M{}
	}
	return filter
}

// hasUpdateOperators returns true if the provided document already contains a
// top-level MongoDB update operator (keys starting with "$").
func hasUpdateOperators(doc interface{}) bool {
	if doc == nil {
		return false
	}
	switch d := doc.(type) {
	case bson.M:
		for k := range d {
			if strings.HasPrefix(k, "$") {
				return true
			}
		}
	case map[string]interface{}:
		for k := range d {
			if strings.HasPrefix(k, "$") {
				return true
			}
		}
	case bson.D:
		for _, e := range d {
			if strings.HasPrefix(e.Key, "$") {
				return true
			}
		}
	}
	return false
}

// wrapInSetOperator ensures plain replacement documents are converted into a
// $set update so they behave consistently across drivers.
func wrapInSetOperator(doc interface{}) interface{} {
	if hasUpdateOperators(doc) {
		return doc
	}
	return bson.M{"$set": doc}
}
