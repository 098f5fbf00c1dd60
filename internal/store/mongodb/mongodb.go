// Package mongodb implements store.Store on MongoDB collections. Filters map
// one to one onto bson equality matches; the submissions collection carries a
// unique compound index on (assignment_id, student_id) so duplicate
// submissions are rejected by the database rather than by the pre-read check.
package mongodb

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/yugash007/nexel-api/internal/store"
)

// Store is the MongoDB-backed record store.
type Store struct {
	db *mongo.Database
}

// New wraps the given database.
func New(db *mongo.Database) *Store {
	return &Store{db: db}
}

// EnsureIndexes creates the indexes the store relies on. Safe to call on
// every startup.
func (s *Store) EnsureIndexes(ctx context.Context) error {
	submissionKey := mongo.IndexModel{
		Keys:    bson.D{{Key: "assignment_id", Value: 1}, {Key: "student_id", Value: 1}},
		Options: options.Index().SetUnique(true),
	}
	if _, err := s.db.Collection(store.Submissions).Indexes().CreateOne(ctx, submissionKey); err != nil {
		return fmt.Errorf("create submission index: %w", err)
	}

	reviewKey := mongo.IndexModel{
		Keys:    bson.D{{Key: "course_id", Value: 1}, {Key: "student_id", Value: 1}},
		Options: options.Index().SetUnique(true),
	}
	if _, err := s.db.Collection(store.Reviews).Indexes().CreateOne(ctx, reviewKey); err != nil {
		return fmt.Errorf("create review index: %w", err)
	}

	recipientKey := mongo.IndexModel{Keys: bson.D{{Key: "user_id", Value: 1}}}
	if _, err := s.db.Collection(store.Notifications).Indexes().CreateOne(ctx, recipientKey); err != nil {
		return fmt.Errorf("create notification index: %w", err)
	}
	return nil
}

// Get implements store.Store.
func (s *Store) Get(ctx context.Context, collection, id string, out interface{}) error {
	err := s.db.Collection(collection).FindOne(ctx, bson.M{"_id": id}).Decode(out)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return store.ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("get %s/%s: %w", collection, id, err)
	}
	return nil
}

// Find implements store.Store.
func (s *Store) Find(ctx context.Context, collection string, filter store.Filter, out interface{}) error {
	match := bson.M{}
	for k, v := range filter {
		match[k] = v
	}
	cursor, err := s.db.Collection(collection).Find(ctx, match)
	if err != nil {
		return fmt.Errorf("find %s: %w", collection, err)
	}
	if err := cursor.All(ctx, out); err != nil {
		return fmt.Errorf("decode %s results: %w", collection, err)
	}
	return nil
}

// Insert implements store.Store. The document's bson _id must equal id.
func (s *Store) Insert(ctx context.Context, collection, id string, doc interface{}) error {
	_, err := s.db.Collection(collection).InsertOne(ctx, doc)
	if mongo.IsDuplicateKeyError(err) {
		return store.ErrDuplicate
	}
	if err != nil {
		return fmt.Errorf("insert %s/%s: %w", collection, id, err)
	}
	return nil
}

// Update implements store.Store with $set merge semantics.
func (s *Store) Update(ctx context.Context, collection, id string, fields map[string]interface{}) error {
	set := bson.M{}
	for k, v := range fields {
		set[k] = v
	}
	result, err := s.db.Collection(collection).UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": set})
	if err != nil {
		return fmt.Errorf("update %s/%s: %w", collection, id, err)
	}
	if result.MatchedCount == 0 {
		return store.ErrNotFound
	}
	return nil
}

// Append implements store.Store via $push.
func (s *Store) Append(ctx context.Context, collection, id, field string, value interface{}) error {
	result, err := s.db.Collection(collection).UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$push": bson.M{field: value}})
	if err != nil {
		return fmt.Errorf("append %s/%s.%s: %w", collection, id, field, err)
	}
	if result.MatchedCount == 0 {
		return store.ErrNotFound
	}
	return nil
}
