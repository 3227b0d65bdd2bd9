// mapped_legacy.go - mgo-style convenience aliases shared by the typed and mapped handles

package mongomap

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// legacyOps supplies the mgo-flavored shorthand surface on top of a
// Collection[T]. Both Typed and Mapped embed it pointing at themselves, so on
// a mapped handle every alias routes through the transform set of the core
// operation it delegates to: Insert through PreInsert, Update variants
// through PreUpdate, Remove variants through DeleteFilter.
type legacyOps[T any] struct {
	c Collection[T]
}

// Insert inserts one or more documents. A single document becomes an
// InsertOne, several become an InsertMany.
func (l legacyOps[T]) Insert(ctx context.Context, docs ...T) error {
	if len(docs) == 1 {
		_, err := l.c.InsertOne(ctx, docs[0])
		return err
	}
	_, err := l.c.InsertMany(ctx, docs)
	return err
}

// Update modifies the first document matching selector. Plain documents are
// wrapped in $set before the update transform sees them.
func (l legacyOps[T]) Update(ctx context.Context, selector, update interface{}) error {
	_, err := l.c.UpdateOne(ctx, selector, wrapInSetOperator(update))
	return err
}

// UpdateId modifies the document with the given _id.
func (l legacyOps[T]) UpdateId(ctx context.Context, id, update interface{}) error {
	return l.Update(ctx, bson.M{"_id": id}, update)
}

// UpdateAll modifies all documents matching selector.
func (l legacyOps[T]) UpdateAll(ctx context.Context, selector, update interface{}) (*ChangeInfo, error) {
	res, err := l.c.UpdateMany(ctx, selector, wrapInSetOperator(update))
	if err != nil {
		return nil, err
	}
	return &ChangeInfo{
		Updated: int(res.ModifiedCount),
		Matched: int(res.MatchedCount),
	}, nil
}

// Upsert modifies the first document matching selector, inserting it when no
// document matches.
func (l legacyOps[T]) Upsert(ctx context.Context, selector, update interface{}) (*ChangeInfo, error) {
	opts := options.Update().SetUpsert(true)
	res, err := l.c.UpdateOne(ctx, selector, wrapInSetOperator(update), opts)
	if err != nil {
		return nil, err
	}

	info := &ChangeInfo{
		Updated: int(res.ModifiedCount),
		Matched: int(res.MatchedCount),
	}
	if res.UpsertedID != nil {
		info.UpsertedId = res.UpsertedID
	}
	return info, nil
}

// Remove removes the first document matching selector.
func (l legacyOps[T]) Remove(ctx context.Context, selector interface{}) error {
	_, err := l.c.DeleteOne(ctx, selector)
	return err
}

// RemoveId removes the document with the given _id.
func (l legacyOps[T]) RemoveId(ctx context.Context, id interface{}) error {
	return l.Remove(ctx, bson.M{"_id": id})
}

// RemoveAll removes all documents matching selector.
func (l legacyOps[T]) RemoveAll(ctx context.Context, selector interface{}) (*ChangeInfo, error) {
	res, err := l.c.DeleteMany(ctx, selector)
	if err != nil {
		return nil, err
	}
	return &ChangeInfo{
		Removed: int(res.DeletedCount),
		Matched: int(res.DeletedCount),
	}, nil
}

// FindId finds the document with the given _id.
func (l legacyOps[T]) FindId(ctx context.Context, id interface{}) (T, error) {
	return l.c.FindOne(ctx, bson.M{"_id": id})
}

// Count counts all documents in the collection.
func (l legacyOps[T]) Count(ctx context.Context) (int, error) {
	n, err := l.c.CountDocuments(ctx, bson.M{})
	return int(n), err
}
