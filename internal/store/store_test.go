package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"
)

type doc struct {
	ID          primitive.ObjectID `bson:"_id,omitempty"`
	ReferenceID string             `bson:"referenceId"`
	CreatedAt   time.Time          `bson:"createdAt"`
}

func ns(mt *mtest.T) string {
	return mt.Coll.Database().Name() + "." + mt.Coll.Name()
}

func TestMongoStore(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("insert succeeds", func(mt *mtest.T) {
		s := NewMongoStore[doc](mt.Coll, "referenceId", time.Second)
		mt.AddMockResponses(mtest.CreateSuccessResponse())

		err := s.Insert(context.Background(), &doc{ReferenceID: "SB-AAAAA-BBBBB", CreatedAt: time.Now()})
		assert.NoError(mt, err)
	})

	mt.Run("duplicate key is typed", func(mt *mtest.T) {
		s := NewMongoStore[doc](mt.Coll, "referenceId", time.Second)
		mt.AddMockResponses(mtest.CreateWriteErrorsResponse(mtest.WriteError{
			Index:   0,
			Code:    11000,
			Message: "E11000 duplicate key error collection: reports index: uniq_referenceId",
		}))

		err := s.Insert(context.Background(), &doc{ReferenceID: "SB-AAAAA-BBBBB"})
		assert.ErrorIs(mt, err, ErrDuplicateIdentifier)
		assert.NotErrorIs(mt, err, ErrStoreFailure)
	})

	mt.Run("other errors are store failures", func(mt *mtest.T) {
		s := NewMongoStore[doc](mt.Coll, "referenceId", time.Second)
		mt.AddMockResponses(mtest.CreateCommandErrorResponse(mtest.CommandError{
			Code:    8000,
			Name:    "AtlasError",
			Message: "unavailable",
		}))

		err := s.Insert(context.Background(), &doc{ReferenceID: "SB-AAAAA-BBBBB"})
		assert.ErrorIs(mt, err, ErrStoreFailure)
	})

	mt.Run("list decodes newest first with limit", func(mt *mtest.T) {
		s := NewMongoStore[doc](mt.Coll, "referenceId", time.Second)
		now := time.Now().UTC().Truncate(time.Millisecond)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, ns(mt), mtest.FirstBatch,
			bson.D{{Key: "_id", Value: primitive.NewObjectID()}, {Key: "referenceId", Value: "SB-NEWER-00001"}, {Key: "createdAt", Value: now}},
			bson.D{{Key: "_id", Value: primitive.NewObjectID()}, {Key: "referenceId", Value: "SB-OLDER-00002"}, {Key: "createdAt", Value: now.Add(-time.Minute)}},
		))

		got, err := s.List(context.Background(), 2)
		require.NoError(mt, err)
		require.Len(mt, got, 2)
		assert.Equal(mt, "SB-NEWER-00001", got[0].ReferenceID)

		started := mt.GetStartedEvent()
		require.NotNil(mt, started)
		assert.Equal(mt, "find", started.CommandName)
		assert.Equal(mt, int64(2), started.Command.Lookup("limit").AsInt64())
		sortDoc := started.Command.Lookup("sort").Document()
		assert.Equal(mt, int64(-1), sortDoc.Lookup("createdAt").AsInt64())
	})

	mt.Run("zero limit skips the query", func(mt *mtest.T) {
		s := NewMongoStore[doc](mt.Coll, "referenceId", time.Second)

		got, err := s.List(context.Background(), 0)
		require.NoError(mt, err)
		assert.Empty(mt, got)
		assert.NotNil(mt, got)
		assert.Nil(mt, mt.GetStartedEvent())
	})

	mt.Run("list failure", func(mt *mtest.T) {
		s := NewMongoStore[doc](mt.Coll, "referenceId", time.Second)
		mt.AddMockResponses(mtest.CreateCommandErrorResponse(mtest.CommandError{Code: 2, Name: "BadValue", Message: "bad"}))

		_, err := s.List(context.Background(), 5)
		assert.ErrorIs(mt, err, ErrStoreFailure)
	})
}

func TestClampLimit(t *testing.T) {
	tests := []struct {
		raw  string
		want int64
	}{
		{"", 20},
		{"abc", 20},
		{"5", 5},
		{"0", 0},
		{"-3", 0},
		{"100", 100},
		{"100000", 100},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ClampLimit(tt.raw, 20, 100), "raw=%q", tt.raw)
	}
	assert.Equal(t, int64(10), ClampLimit("", 50, 10))
}
