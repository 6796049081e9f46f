package forms

import (
	"context"
	"testing"

	"Backend-AirForm/src/services/slug"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"
)

// Deleting a form must issue an unbounded delete of its submissions in the
// same call; nothing may be left referencing the removed form.
func TestDeleteFormCascadesToSubmissions(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("cascade", func(mt *mtest.T) {
		svc := NewService(mt.DB, slug.CryptoSource{})
		formID := primitive.NewObjectID()
		userID := primitive.NewObjectID()

		mt.AddMockResponses(
			mtest.CreateSuccessResponse(bson.E{Key: "value", Value: bson.D{
				{Key: "_id", Value: formID},
				{Key: "userId", Value: userID},
			}}),
			mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 2}),
		)

		require.NoError(t, svc.DeleteForm(context.Background(), formID, userID))

		evt := mt.GetStartedEvent()
		require.NotNil(t, evt)
		assert.Equal(t, "findAndModify", evt.CommandName)

		evt = mt.GetStartedEvent()
		require.NotNil(t, evt)
		require.Equal(t, "delete", evt.CommandName)
		assert.Equal(t, "submissions", evt.Command.Lookup("delete").StringValue())

		del := evt.Command.Lookup("deletes").Array().Index(0).Value().Document()
		assert.Equal(t, formID, del.Lookup("q").Document().Lookup("formId").ObjectID())
		// limit 0 removes every matching submission, not just the first
		assert.EqualValues(t, 0, del.Lookup("limit").AsInt64())
	})

	mt.Run("not owner, nothing deleted", func(mt *mtest.T) {
		svc := NewService(mt.DB, slug.CryptoSource{})

		mt.AddMockResponses(
			mtest.CreateSuccessResponse(bson.E{Key: "value", Value: nil}),
		)

		err := svc.DeleteForm(context.Background(), primitive.NewObjectID(), primitive.NewObjectID())
		assert.ErrorIs(t, err, ErrFormNotFound)

		evt := mt.GetStartedEvent()
		require.NotNil(t, evt)
		assert.Equal(t, "findAndModify", evt.CommandName)
		assert.Nil(t, mt.GetStartedEvent(), "no cascade for a form the caller does not own")
	})
}
