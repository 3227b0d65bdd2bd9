// test_utils_test.go - In-memory fake collection handle used by the wrapper tests

package mongomap_test

import (
	"context"
	"strings"
	"testing"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	mongomap "github.com/mongomap/mongomap"
)

// storedUser is the storage shape used throughout the tests.
type storedUser struct {
	ID       string `bson:"_id"`
	FullName string `bson:"full_name"`
}

// publicUser is the public shape exposed by the mapped handle under test.
type publicUser struct {
	ID   string `bson:"_id"`
	Name string `bson:"name"`
}

// transformCounts records how often each transform ran.
type transformCounts struct {
	preInsert    int
	preUpdate    int
	preReplace   int
	postFind     int
	deleteFilter int
}

// testTransforms builds a deterministic transform set: documents gain/lose a
// "name:" prefix, update specs are wrapped under "u" and delete filters under
// "f" so tests can assert exactly what the underlying handle received.
// Every function returns fresh values, leaving its input untouched.
func testTransforms(counts *transformCounts) mongomap.Transforms[storedUser, publicUser] {
	return mongomap.Transforms[storedUser, publicUser]{
		PreInsert: func(p publicUser) storedUser {
			counts.preInsert++
			return storedUser{ID: p.ID, FullName: "name:" + p.Name}
		},
		PreUpdate: func(update interface{}) interface{} {
			counts.preUpdate++
			return bson.M{"u": update}
		},
		PreReplace: func(p publicUser) storedUser {
			counts.preReplace++
			return storedUser{ID: p.ID, FullName: "name:" + p.Name}
		},
		PostFind: func(s storedUser) publicUser {
			counts.postFind++
			return publicUser{ID: s.ID, Name: strings.TrimPrefix(s.FullName, "name:")}
		},
		DeleteFilter: func(filter interface{}) interface{} {
			counts.deleteFilter++
			return bson.M{"f": filter}
		},
	}
}

// fakeCall records one operation received by the fake handle.
type fakeCall struct {
	op   string
	args []interface{}
}

// fakeColl is an in-memory Collection[T] that records every call and returns
// whatever the test configured. It performs no matching of its own.
type fakeColl[T any] struct {
	calls []fakeCall

	err              error
	insertOneResult  *mongo.InsertOneResult
	insertManyResult *mongo.InsertManyResult
	updateResult     *mongo.UpdateResult
	deleteResult     *mongo.DeleteResult
	findOneDoc       T
	findOneErr       error
	findDocs         []T
	findErr          error
	modifyResult     *mongomap.ModifyResult[T]
	modifyErr        error
	distinctVals     []interface{}
	count            int64

	produced     int  // documents handed out by the last find cursor
	cursorClosed bool // whether the last find cursor was closed
}

var _ mongomap.Collection[storedUser] = (*fakeColl[storedUser])(nil)

func (f *fakeColl[T]) record(op string, args ...interface{}) {
	f.calls = append(f.calls, fakeCall{op: op, args: args})
}

// callsFor returns all recorded calls for op.
func (f *fakeColl[T]) callsFor(op string) []fakeCall {
	var out []fakeCall
	for _, c := range f.calls {
		if c.op == op {
			out = append(out, c)
		}
	}
	return out
}

// lastCall returns the single recorded call for op, failing the test when the
// call count differs from one.
func (f *fakeColl[T]) lastCall(t *testing.T, op string) fakeCall {
	t.Helper()
	calls := f.callsFor(op)
	if len(calls) != 1 {
		t.Fatalf("expected exactly one %s call, got %d", op, len(calls))
	}
	return calls[0]
}

func (f *fakeColl[T]) InsertOne(ctx context.Context, doc T, opts ...*options.InsertOneOptions) (*mongo.InsertOneResult, error) {
	f.record("insert-one", doc)
	return f.insertOneResult, f.err
}

func (f *fakeColl[T]) InsertMany(ctx context.Context, docs []T, opts ...*options.InsertManyOptions) (*mongo.InsertManyResult, error) {
	f.record("insert-many", docs)
	return f.insertManyResult, f.err
}

func (f *fakeColl[T]) UpdateOne(ctx context.Context, filter, update interface{}, opts ...*options.UpdateOptions) (*mongo.UpdateResult, error) {
	args := []interface{}{filter, update}
	for _, o := range opts {
		args = append(args, o)
	}
	f.record("update-one", args...)
	return f.updateResult, f.err
}

func (f *fakeColl[T]) UpdateMany(ctx context.Context, filter, update interface{}, opts ...*options.UpdateOptions) (*mongo.UpdateResult, error) {
	f.record("update-many", filter, update)
	return f.updateResult, f.err
}

func (f *fakeColl[T]) ReplaceOne(ctx context.Context, filter interface{}, replacement T, opts ...*options.ReplaceOptions) (*mongo.UpdateResult, error) {
	f.record("replace-one", filter, replacement)
	return f.updateResult, f.err
}

func (f *fakeColl[T]) DeleteOne(ctx context.Context, filter interface{}, opts ...*options.DeleteOptions) (*mongo.DeleteResult, error) {
	f.record("delete-one", filter)
	return f.deleteResult, f.err
}

func (f *fakeColl[T]) DeleteMany(ctx context.Context, filter interface{}, opts ...*options.DeleteOptions) (*mongo.DeleteResult, error) {
	f.record("delete-many", filter)
	return f.deleteResult, f.err
}

func (f *fakeColl[T]) FindOne(ctx context.Context, filter interface{}, opts ...*options.FindOneOptions) (T, error) {
	f.record("find-one", filter)
	return f.findOneDoc, f.findOneErr
}

func (f *fakeColl[T]) Find(ctx context.Context, filter interface{}, opts ...*options.FindOptions) (mongomap.Cursor[T], error) {
	f.record("find", filter)
	if f.findErr != nil {
		return nil, f.findErr
	}
	f.produced = 0
	f.cursorClosed = false
	return &sliceCursor[T]{f: f, docs: f.findDocs}, nil
}

func (f *fakeColl[T]) FindOneAndDelete(ctx context.Context, filter interface{}, opts ...*options.FindOneAndDeleteOptions) (*mongomap.ModifyResult[T], error) {
	f.record("find-and-delete", filter)
	return f.modifyResult, f.modifyErr
}

func (f *fakeColl[T]) FindOneAndReplace(ctx context.Context, filter interface{}, replacement T, opts ...*options.FindOneAndReplaceOptions) (*mongomap.ModifyResult[T], error) {
	f.record("find-and-replace", filter, replacement)
	return f.modifyResult, f.modifyErr
}

func (f *fakeColl[T]) FindOneAndUpdate(ctx context.Context, filter, update interface{}, opts ...*options.FindOneAndUpdateOptions) (*mongomap.ModifyResult[T], error) {
	f.record("find-and-update", filter, update)
	return f.modifyResult, f.modifyErr
}

func (f *fakeColl[T]) Aggregate(ctx context.Context, pipeline interface{}, opts ...*options.AggregateOptions) (*mongo.Cursor, error) {
	f.record("aggregate", pipeline)
	return nil, f.err
}

func (f *fakeColl[T]) CountDocuments(ctx context.Context, filter interface{}, opts ...*options.CountOptions) (int64, error) {
	f.record("count-documents", filter)
	return f.count, f.err
}

func (f *fakeColl[T]) EstimatedDocumentCount(ctx context.Context, opts ...*options.EstimatedDocumentCountOptions) (int64, error) {
	f.record("estimated-count")
	return f.count, f.err
}

func (f *fakeColl[T]) Distinct(ctx context.Context, fieldName string, filter interface{}, opts ...*options.DistinctOptions) ([]interface{}, error) {
	f.record("distinct", fieldName, filter)
	return f.distinctVals, f.err
}

func (f *fakeColl[T]) BulkWrite(ctx context.Context, models []mongo.WriteModel, opts ...*options.BulkWriteOptions) (*mongo.BulkWriteResult, error) {
	f.record("bulk-write", models)
	return nil, f.err
}

func (f *fakeColl[T]) Watch(ctx context.Context, pipeline interface{}, opts ...*options.ChangeStreamOptions) (*mongo.ChangeStream, error) {
	f.record("watch", pipeline)
	return nil, f.err
}

func (f *fakeColl[T]) Drop(ctx context.Context) error {
	f.record("drop")
	return f.err
}

func (f *fakeColl[T]) Indexes() mongo.IndexView {
	f.record("indexes")
	return mongo.IndexView{}
}

func (f *fakeColl[T]) Name() string {
	f.record("name")
	return "fake"
}

// sliceCursor walks a pre-built document slice, producing one document per
// Next so tests can observe exactly how much the wrapper consumed.
type sliceCursor[T any] struct {
	f      *fakeColl[T]
	docs   []T
	pos    int
	closed bool
}

func (c *sliceCursor[T]) Next(ctx context.Context) bool {
	if c.closed || c.pos >= len(c.docs) {
		return false
	}
	c.pos++
	c.f.produced++
	return true
}

func (c *sliceCursor[T]) Decode(out *T) error {
	*out = c.docs[c.pos-1]
	return nil
}

func (c *sliceCursor[T]) All(ctx context.Context) ([]T, error) {
	defer c.Close(ctx)

	var docs []T
	for c.Next(ctx) {
		var doc T
		if err := c.Decode(&doc); err != nil {
			return nil, err
		}
		docs = append(docs, doc)
	}
	return docs, nil
}

func (c *sliceCursor[T]) Err() error {
	return nil
}

func (c *sliceCursor[T]) Close(ctx context.Context) error {
	c.closed = true
	c.f.cursorClosed = true
	return nil
}
