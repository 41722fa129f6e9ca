// Package store is the record store adapter: inserts of ID-assigned records
// and bounded newest-first listings over a Mongo collection.
package store

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var (
	// ErrDuplicateIdentifier means the record's public identifier is taken.
	ErrDuplicateIdentifier = errors.New("duplicate identifier")
	// ErrStoreFailure covers every other persistence error, timeouts included.
	ErrStoreFailure = errors.New("store failure")
)

// Store persists and lists records of type T.
type Store[T any] interface {
	Insert(ctx context.Context, record *T) error
	List(ctx context.Context, limit int64) ([]T, error)
	EnsureIndexes(ctx context.Context) error
}

// MongoStore implements Store over one collection. IDField is the BSON key of
// the public identifier that carries the unique index.
type MongoStore[T any] struct {
	Collection *mongo.Collection
	IDField    string
	Timeout    time.Duration
}

func NewMongoStore[T any](coll *mongo.Collection, idField string, timeout time.Duration) *MongoStore[T] {
	return &MongoStore[T]{
		Collection: coll,
		IDField:    idField,
		Timeout:    timeout,
	}
}

func (s *MongoStore[T]) Insert(ctx context.Context, record *T) error {
	ctx, cancel := s.bound(ctx)
	defer cancel()

	if _, err := s.Collection.InsertOne(ctx, record); err != nil {
		return classify(err)
	}
	return nil
}

func (s *MongoStore[T]) List(ctx context.Context, limit int64) ([]T, error) {
	out := []T{}
	// Mongo reads a zero limit as "no limit"
	if limit <= 0 {
		return out, nil
	}

	ctx, cancel := s.bound(ctx)
	defer cancel()

	opts := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}, {Key: "_id", Value: -1}}).
		SetLimit(limit)

	cursor, err := s.Collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, classify(err)
	}
	defer cursor.Close(ctx)

	if err := cursor.All(ctx, &out); err != nil {
		return nil, classify(err)
	}
	return out, nil
}

func (s *MongoStore[T]) EnsureIndexes(ctx context.Context) error {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: s.IDField, Value: 1}},
			Options: options.Index().SetName("uniq_" + s.IDField).SetUnique(true),
		},
		{
			Keys:    bson.D{{Key: "createdAt", Value: -1}},
			Options: options.Index().SetName("idx_created_desc"),
		},
	}
	_, err := s.Collection.Indexes().CreateMany(ctx, indexes)
	return err
}

func (s *MongoStore[T]) bound(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.Timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, s.Timeout)
}

func classify(err error) error {
	if mongo.IsDuplicateKeyError(err) {
		return fmt.Errorf("%w: %v", ErrDuplicateIdentifier, err)
	}
	return fmt.Errorf("%w: %v", ErrStoreFailure, err)
}

// ClampLimit parses a ?limit= value. Missing or unparseable values give def,
// negatives give 0 and anything above ceiling is cut to ceiling.
func ClampLimit(raw string, def, ceiling int64) int64 {
	if raw == "" {
		return min(def, ceiling)
	}
	n, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return min(def, ceiling)
	}
	if n < 0 {
		return 0
	}
	return min(n, ceiling)
}
