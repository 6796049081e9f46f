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

// Submissions on three distinct days come back as exactly three ascending
// day buckets; totals are read from the form's stored counters.
func TestGetFormAnalyticsDayBuckets(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("three days", func(mt *mtest.T) {
		svc := NewService(mt.DB)
		formID := primitive.NewObjectID()
		userID := primitive.NewObjectID()

		mt.AddMockResponses(
			// owner lookup
			mtest.CreateCursorResponse(0, "AirFormDB.forms", mtest.FirstBatch, bson.D{
				{Key: "_id", Value: formID},
				{Key: "userId", Value: userID},
				{Key: "analytics", Value: bson.D{
					{Key: "views", Value: int64(40)},
					{Key: "submissions", Value: int64(6)},
					{Key: "completionRate", Value: 15},
				}},
			}),
			// day-bucket aggregation
			mtest.CreateCursorResponse(0, "AirFormDB.submissions", mtest.FirstBatch,
				bson.D{{Key: "_id", Value: "2026-08-25"}, {Key: "count", Value: int64(1)}},
				bson.D{{Key: "_id", Value: "2026-08-27"}, {Key: "count", Value: int64(3)}},
				bson.D{{Key: "_id", Value: "2026-08-30"}, {Key: "count", Value: int64(2)}},
			),
			// recent submissions
			mtest.CreateCursorResponse(0, "AirFormDB.submissions", mtest.FirstBatch),
		)

		result, err := svc.GetFormAnalytics(context.Background(), formID, userID, "7d")
		require.NoError(t, err)

		require.Len(t, result.SubmissionsOverTime, 3)
		assert.Equal(t, []DayBucket{
			{Date: "2026-08-25", Count: 1},
			{Date: "2026-08-27", Count: 3},
			{Date: "2026-08-30", Count: 2},
		}, result.SubmissionsOverTime)

		assert.Equal(t, int64(40), result.TotalViews)
		assert.Equal(t, int64(6), result.TotalSubmissions)
		assert.Equal(t, 15, result.CompletionRate)
		assert.Empty(t, result.RecentSubmissions)
	})
}
