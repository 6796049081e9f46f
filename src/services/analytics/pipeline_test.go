package analytics

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func stageValue(t *testing.T, stage bson.D, name string) bson.D {
	t.Helper()
	require.Len(t, stage, 1)
	require.Equal(t, name, stage[0].Key)
	doc, ok := stage[0].Value.(bson.D)
	require.True(t, ok, "stage %s is not a document", name)
	return doc
}

func TestFormSeriesPipelineBounded(t *testing.T) {
	formID := primitive.NewObjectID()
	since := time.Date(2026, 8, 25, 0, 0, 0, 0, time.UTC)

	pipeline := formSubmissionsOverTimePipeline(formID, &since)
	require.Len(t, pipeline, 3)

	match := stageValue(t, pipeline[0], "$match")
	assert.Equal(t, bson.D{
		{Key: "formId", Value: formID},
		{Key: "submittedAt", Value: bson.D{{Key: "$gte", Value: since}}},
	}, match)

	group := stageValue(t, pipeline[1], "$group")
	assert.Equal(t, bson.D{
		{Key: "$dateToString", Value: bson.D{
			{Key: "format", Value: "%Y-%m-%d"},
			{Key: "date", Value: "$submittedAt"},
		}},
	}, group[0].Value, "group key must be the calendar day")
	assert.Equal(t, bson.D{{Key: "$sum", Value: 1}}, group[1].Value)

	sort := stageValue(t, pipeline[2], "$sort")
	assert.Equal(t, bson.D{{Key: "_id", Value: 1}}, sort, "day buckets sort ascending")
}

func TestFormSeriesPipelineUnbounded(t *testing.T) {
	formID := primitive.NewObjectID()

	pipeline := formSubmissionsOverTimePipeline(formID, nil)
	require.Len(t, pipeline, 3)

	// no period window: the match carries only the form id
	match := stageValue(t, pipeline[0], "$match")
	assert.Equal(t, bson.D{{Key: "formId", Value: formID}}, match)
}

func TestDashboardPipelineShape(t *testing.T) {
	ownerID := primitive.NewObjectID()
	since := time.Date(2026, 8, 18, 0, 0, 0, 0, time.UTC)

	pipeline := dashboardSubmissionsOverTimePipeline(ownerID, since)
	require.Len(t, pipeline, 3)

	match := stageValue(t, pipeline[0], "$match")
	assert.Equal(t, ownerID, match[0].Value)
	assert.Equal(t, bson.D{{Key: "$gte", Value: since}}, match[1].Value)

	group := stageValue(t, pipeline[1], "$group")
	assert.Equal(t, bson.D{
		{Key: "$dateToString", Value: bson.D{
			{Key: "format", Value: "%b %d"},
			{Key: "date", Value: "$submittedAt"},
		}},
	}, group[0].Value)
}

func TestRecentSubmissionsPipelineJoinsFormTitle(t *testing.T) {
	ownerID := primitive.NewObjectID()

	pipeline := recentSubmissionsWithFormPipeline(ownerID, 5)
	require.Len(t, pipeline, 6)

	sort := stageValue(t, pipeline[1], "$sort")
	assert.Equal(t, bson.D{{Key: "submittedAt", Value: -1}}, sort)
	assert.Equal(t, int64(5), pipeline[2][0].Value)

	lookup := stageValue(t, pipeline[3], "$lookup")
	assert.Equal(t, "forms", lookup[0].Value)

	project := stageValue(t, pipeline[5], "$project")
	assert.Equal(t, "$form.title", project[len(project)-1].Value)
}
