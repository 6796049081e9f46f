package analytics

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"
)

func TestVerifyFormOwner(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("owner match", func(mt *mtest.T) {
		svc := NewService(mt.DB)
		formID := primitive.NewObjectID()
		mt.AddMockResponses(mtest.CreateCursorResponse(0, "AirFormDB.forms", mtest.FirstBatch,
			bson.D{{Key: "_id", Value: formID}}))

		require.NoError(t, svc.VerifyFormOwner(context.Background(), formID, primitive.NewObjectID()))
	})

	mt.Run("foreign form", func(mt *mtest.T) {
		svc := NewService(mt.DB)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, "AirFormDB.forms", mtest.FirstBatch))

		err := svc.VerifyFormOwner(context.Background(), primitive.NewObjectID(), primitive.NewObjectID())
		assert.ErrorIs(t, err, ErrFormNotFound)
	})
}
