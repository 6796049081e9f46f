package ai

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"Backend-AirForm/src/models"
	"Backend-AirForm/src/services/analytics"

	"github.com/stretchr/testify/assert"
)

func sampleInputs() (*models.Form, *analytics.FormAnalytics) {
	form := &models.Form{
		Title:     "Customer Feedback Survey",
		Questions: []models.Question{{ID: "q1", Question: "How was it?", Type: "textarea"}},
	}
	stats := &analytics.FormAnalytics{
		TotalViews:       100,
		TotalSubmissions: 40,
		CompletionRate:   40,
		SubmissionsOverTime: []analytics.DayBucket{
			{Date: "2025-06-01", Count: 25},
			{Date: "2025-06-02", Count: 15},
		},
	}
	return form, stats
}

func TestExtractJSONObject(t *testing.T) {
	block, ok := extractJSONObject(`Here you go: {"overview":"fine","keyFindings":[]} thanks!`)
	assert.True(t, ok)
	assert.Equal(t, `{"overview":"fine","keyFindings":[]}`, block)

	// nested braces and braces inside strings must not break the scan
	block, ok = extractJSONObject(`{"a":{"b":"}"},"c":1} trailing {"d":2}`)
	assert.True(t, ok)
	assert.Equal(t, `{"a":{"b":"}"},"c":1}`, block)

	_, ok = extractJSONObject("no json here")
	assert.False(t, ok)
	_, ok = extractJSONObject(`{"unterminated":`)
	assert.False(t, ok)
}

func TestParseSummary(t *testing.T) {
	s, ok := parseSummary(`{"overview":"Good week","keyFindings":["a"],"recommendations":["b"]}`)
	assert.True(t, ok)
	assert.Equal(t, "Good week", s.Overview)

	s, ok = parseSummary("```json\n{\"overview\":\"Fenced\"}\n```")
	assert.True(t, ok)
	assert.Equal(t, "Fenced", s.Overview)

	_, ok = parseSummary("The form is doing great, keep it up!")
	assert.False(t, ok)
}

func TestSummarizeAnalyticsFromModel(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Contains(t, r.URL.Path, modelName)
		fmt.Fprint(w, `{"candidates":[{"content":{"parts":[{"text":"{\"overview\":\"Strong engagement\",\"keyFindings\":[\"40% completion\"],\"recommendations\":[\"keep sharing\"]}"}]}}]}`)
	}))
	defer srv.Close()

	svc := NewServiceWithBaseURL("test-key", srv.URL)
	form, stats := sampleInputs()

	summary := svc.SummarizeAnalytics(context.Background(), form, stats)
	assert.True(t, summary.AIGenerated)
	assert.Equal(t, "Strong engagement", summary.Overview)
}

func TestSummarizeAnalyticsFallsBackOnServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	svc := NewServiceWithBaseURL("test-key", srv.URL)
	form, stats := sampleInputs()

	summary := svc.SummarizeAnalytics(context.Background(), form, stats)
	assert.False(t, summary.AIGenerated)
	assert.Contains(t, summary.Overview, "Customer Feedback Survey")
}

func TestSummarizeAnalyticsWithoutKey(t *testing.T) {
	svc := NewService("")
	form, stats := sampleInputs()

	summary := svc.SummarizeAnalytics(context.Background(), form, stats)
	assert.False(t, summary.AIGenerated)
	assert.NotEmpty(t, summary.KeyFindings)
	// below-50% completion triggers the shortening recommendation
	assert.Len(t, summary.Recommendations, 2)
}
