package submissions

import (
	"testing"

	"Backend-AirForm/src/models"

	"github.com/stretchr/testify/assert"
)

func TestCompletionRate(t *testing.T) {
	assert.Equal(t, 50, CompletionRate(10, 5))
	assert.Equal(t, 100, CompletionRate(3, 3))
	assert.Equal(t, 33, CompletionRate(3, 1))
	assert.Equal(t, 67, CompletionRate(3, 2))

	// the submit path passes views+1/submissions+1, so views is never zero
	// there, but the helper still must not divide by zero
	assert.Equal(t, 0, CompletionRate(0, 5))
}

func TestDetectDeviceType(t *testing.T) {
	assert.Equal(t, "unknown", DetectDeviceType(""))
	assert.Equal(t, "mobile", DetectDeviceType("Mozilla/5.0 (iPhone; CPU iPhone OS 17_0) Mobile/15E148 Safari/604.1"))
	assert.Equal(t, "tablet", DetectDeviceType("Mozilla/5.0 (iPad; CPU OS 16_0) AppleWebKit/605.1.15"))
	assert.Equal(t, "desktop", DetectDeviceType("Mozilla/5.0 (Windows NT 10.0; Win64; x64) Chrome/126.0"))
}

func TestDetectBrowser(t *testing.T) {
	assert.Equal(t, "unknown", DetectBrowser(""))
	assert.Equal(t, "Edge", DetectBrowser("Mozilla/5.0 Chrome/126.0 Safari/537.36 Edg/126.0"))
	assert.Equal(t, "Chrome", DetectBrowser("Mozilla/5.0 Chrome/126.0 Safari/537.36"))
	assert.Equal(t, "Firefox", DetectBrowser("Mozilla/5.0 Gecko/20100101 Firefox/127.0"))
	assert.Equal(t, "Safari", DetectBrowser("Mozilla/5.0 Version/17.0 Safari/605.1.15"))
	assert.Equal(t, "Other", DetectBrowser("curl/8.0.1"))
}

func TestSnapshotResponses(t *testing.T) {
	questions := []models.Question{
		{ID: "q1", Question: "Your name?", Type: "text", Required: true},
		{ID: "q2", Question: "Topics?", Type: "checkbox", Options: []string{"a", "b"}},
	}

	t.Run("snapshots text and type from the form", func(t *testing.T) {
		out, err := snapshotResponses([]models.ResponseItem{
			{QuestionID: "q1", Answer: "Alice"},
			{QuestionID: "q2", Answer: []string{"a"}},
		}, questions)

		assert.NoError(t, err)
		assert.Len(t, out, 2)
		assert.Equal(t, "Your name?", out[0].Question)
		assert.Equal(t, "text", out[0].QuestionType)
		assert.Equal(t, "checkbox", out[1].QuestionType)
	})

	t.Run("rejects unknown question", func(t *testing.T) {
		_, err := snapshotResponses([]models.ResponseItem{
			{QuestionID: "q1", Answer: "Alice"},
			{QuestionID: "nope", Answer: "x"},
		}, questions)
		assert.Error(t, err)
	})

	t.Run("rejects missing required question", func(t *testing.T) {
		_, err := snapshotResponses([]models.ResponseItem{
			{QuestionID: "q2", Answer: []string{"b"}},
		}, questions)
		assert.ErrorIs(t, err, ErrMissingRequired)
	})
}

func TestFormatAnswer(t *testing.T) {
	assert.Equal(t, "", formatAnswer(nil))
	assert.Equal(t, "hello", formatAnswer("hello"))
	assert.Equal(t, "a; b", formatAnswer([]interface{}{"a", "b"}))
	assert.Equal(t, "a; b", formatAnswer([]string{"a", "b"}))
	assert.Equal(t, "42", formatAnswer(42))
}

func TestSubmitterDisplayName(t *testing.T) {
	assert.Equal(t, "Alice", models.SubmitterInfo{Name: "Alice", Email: "a@b.c"}.DisplayName())
	assert.Equal(t, "a@b.c", models.SubmitterInfo{Email: "a@b.c"}.DisplayName())
	assert.Equal(t, "Anonymous User", models.SubmitterInfo{}.DisplayName())
}
