package analytics

import (
	"testing"
	"time"

	"Backend-AirForm/src/models"

	"github.com/stretchr/testify/assert"
)

func TestResolvePeriodStart(t *testing.T) {
	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

	start, ok := resolvePeriodStart("7d", now)
	assert.True(t, ok)
	assert.Equal(t, now.AddDate(0, 0, -7), start)

	start, ok = resolvePeriodStart("30d", now)
	assert.True(t, ok)
	assert.Equal(t, now.AddDate(0, 0, -30), start)

	start, ok = resolvePeriodStart("90d", now)
	assert.True(t, ok)
	assert.Equal(t, now.AddDate(0, 0, -90), start)

	// anything else means no date filter
	_, ok = resolvePeriodStart("365d", now)
	assert.False(t, ok)
	_, ok = resolvePeriodStart("", now)
	assert.False(t, ok)
	_, ok = resolvePeriodStart("garbage", now)
	assert.False(t, ok)
}

func TestParsePeriodDays(t *testing.T) {
	assert.Equal(t, 14, parsePeriodDays("14d", 14))
	assert.Equal(t, 7, parsePeriodDays("7d", 14))
	assert.Equal(t, 30, parsePeriodDays("30", 14)) // suffix optional
	assert.Equal(t, 14, parsePeriodDays("", 14))
	assert.Equal(t, 14, parsePeriodDays("abc", 14))
	assert.Equal(t, 14, parsePeriodDays("-3d", 14))
}

func TestDashboardTotals(t *testing.T) {
	forms := []models.Form{
		{Analytics: models.FormAnalytics{Views: 10, Submissions: 1, CompletionRate: 10}},
		{Analytics: models.FormAnalytics{Views: 20, Submissions: 2, CompletionRate: 10}},
		{Analytics: models.FormAnalytics{Views: 30, Submissions: 3, CompletionRate: 10}},
	}

	views, subs := sumFormTotals(forms)
	assert.Equal(t, int64(60), views)
	assert.Equal(t, int64(6), subs)
	assert.Equal(t, 10.0, averageCompletionRate(forms))
}

func TestAverageCompletionRateNoForms(t *testing.T) {
	assert.Equal(t, 0.0, averageCompletionRate(nil))
	assert.Equal(t, 0.0, averageCompletionRate([]models.Form{}))
}

func TestAverageCompletionRateMixed(t *testing.T) {
	forms := []models.Form{
		{Analytics: models.FormAnalytics{CompletionRate: 100}},
		{Analytics: models.FormAnalytics{CompletionRate: 50}},
		{Analytics: models.FormAnalytics{CompletionRate: 0}},
	}
	assert.Equal(t, 50.0, averageCompletionRate(forms))
}
