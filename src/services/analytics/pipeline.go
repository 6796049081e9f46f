package analytics

import (
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// formSubmissionsOverTimePipeline buckets one form's submissions by calendar
// day (UTC), counting per day and sorting ascending on the day key. A nil
// since leaves the window unbounded.
func formSubmissionsOverTimePipeline(formID primitive.ObjectID, since *time.Time) mongo.Pipeline {
	match := bson.D{{Key: "formId", Value: formID}}
	if since != nil {
		match = append(match, bson.E{Key: "submittedAt", Value: bson.D{{Key: "$gte", Value: *since}}})
	}

	return mongo.Pipeline{
		{{Key: "$match", Value: match}},
		{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: bson.D{
				{Key: "$dateToString", Value: bson.D{
					{Key: "format", Value: "%Y-%m-%d"},
					{Key: "date", Value: "$submittedAt"},
				}},
			}},
			{Key: "count", Value: bson.D{{Key: "$sum", Value: 1}}},
		}}},
		{{Key: "$sort", Value: bson.D{{Key: "_id", Value: 1}}}},
	}
}

// dashboardSubmissionsOverTimePipeline buckets all of an owner's submissions
// by a short month-day label. The views figure is synthesized from a random
// 0-5x factor per submission; it is an estimate for the trend chart, not a
// measured metric.
func dashboardSubmissionsOverTimePipeline(ownerID primitive.ObjectID, since time.Time) mongo.Pipeline {
	return mongo.Pipeline{
		{{Key: "$match", Value: bson.D{
			{Key: "formOwnerId", Value: ownerID},
			{Key: "submittedAt", Value: bson.D{{Key: "$gte", Value: since}}},
		}}},
		{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: bson.D{
				{Key: "$dateToString", Value: bson.D{
					{Key: "format", Value: "%b %d"},
					{Key: "date", Value: "$submittedAt"},
				}},
			}},
			{Key: "responses", Value: bson.D{{Key: "$sum", Value: 1}}},
			{Key: "views", Value: bson.D{
				{Key: "$sum", Value: bson.D{
					{Key: "$multiply", Value: bson.A{bson.D{{Key: "$rand", Value: bson.D{}}}, 5}},
				}},
			}},
		}}},
		{{Key: "$sort", Value: bson.D{{Key: "_id", Value: 1}}}},
	}
}

// recentSubmissionsWithFormPipeline returns the owner's newest submissions
// annotated with the owning form's title.
func recentSubmissionsWithFormPipeline(ownerID primitive.ObjectID, limit int64) mongo.Pipeline {
	return mongo.Pipeline{
		{{Key: "$match", Value: bson.D{{Key: "formOwnerId", Value: ownerID}}}},
		{{Key: "$sort", Value: bson.D{{Key: "submittedAt", Value: -1}}}},
		{{Key: "$limit", Value: limit}},
		{{Key: "$lookup", Value: bson.D{
			{Key: "from", Value: "forms"},
			{Key: "localField", Value: "formId"},
			{Key: "foreignField", Value: "_id"},
			{Key: "as", Value: "form"},
		}}},
		{{Key: "$unwind", Value: bson.D{
			{Key: "path", Value: "$form"},
			{Key: "preserveNullAndEmptyArrays", Value: true},
		}}},
		{{Key: "$project", Value: bson.D{
			{Key: "formId", Value: 1},
			{Key: "submitterInfo", Value: 1},
			{Key: "submittedAt", Value: 1},
			{Key: "status", Value: 1},
			{Key: "responses", Value: 1},
			{Key: "formTitle", Value: "$form.title"},
		}}},
	}
}
