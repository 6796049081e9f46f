// Package ai produces the LLM-generated analytics summary. The model output
// is untrusted: responses are parsed defensively and every failure path
// degrades to a deterministic summary built from the numbers we already
// have, so callers never see an error from here.
package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"Backend-AirForm/src/models"
	"Backend-AirForm/src/services/analytics"
)

const (
	defaultBaseURL = "https://generativelanguage.googleapis.com/v1beta"
	modelName      = "gemini-2.5-flash"
)

// Summary is the structured analytics digest shown in the AI panel.
type Summary struct {
	Overview        string    `json:"overview"`
	KeyFindings     []string  `json:"keyFindings"`
	Recommendations []string  `json:"recommendations"`
	AIGenerated     bool      `json:"aiGenerated"`
	GeneratedAt     time.Time `json:"generatedAt"`
}

type Service struct {
	apiKey  string
	baseURL string
	client  *http.Client
}

func NewService(apiKey string) *Service {
	return &Service{
		apiKey:  apiKey,
		baseURL: defaultBaseURL,
		client:  &http.Client{Timeout: 30 * time.Second},
	}
}

// NewServiceWithBaseURL is used by tests to point the client at a stub.
func NewServiceWithBaseURL(apiKey, baseURL string) *Service {
	s := NewService(apiKey)
	s.baseURL = baseURL
	return s
}

// --- Gemini wire types ---

type geminiRequest struct {
	Contents []geminiContent `json:"contents"`
}

type geminiContent struct {
	Parts []geminiPart `json:"parts"`
}

type geminiPart struct {
	Text string `json:"text"`
}

type geminiResponse struct {
	Candidates []struct {
		Content struct {
			Parts []geminiPart `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
}

// SummarizeAnalytics asks the model for a JSON summary of a form's
// analytics. Unusable model output, a missing API key and transport errors
// all fall back to a numeric summary.
func (s *Service) SummarizeAnalytics(ctx context.Context, form *models.Form, stats *analytics.FormAnalytics) *Summary {
	if s.apiKey == "" {
		return fallbackSummary(form, stats)
	}

	text, err := s.generateText(ctx, buildPrompt(form, stats))
	if err != nil {
		log.Printf("[ai] generateContent failed, using fallback: %v", err)
		return fallbackSummary(form, stats)
	}

	summary, ok := parseSummary(text)
	if !ok {
		log.Printf("[ai] unparseable model response, using fallback")
		return fallbackSummary(form, stats)
	}

	summary.AIGenerated = true
	summary.GeneratedAt = time.Now()
	return summary
}

func (s *Service) generateText(ctx context.Context, prompt string) (string, error) {
	body, err := json.Marshal(geminiRequest{
		Contents: []geminiContent{{Parts: []geminiPart{{Text: prompt}}}},
	})
	if err != nil {
		return "", err
	}

	url := fmt.Sprintf("%s/models/%s:generateContent?key=%s", s.baseURL, modelName, s.apiKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	res, err := s.client.Do(req)
	if err != nil {
		return "", err
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		return "", fmt.Errorf("gemini returned status %s", res.Status)
	}

	var out geminiResponse
	if err := json.NewDecoder(res.Body).Decode(&out); err != nil {
		return "", err
	}
	if len(out.Candidates) == 0 || len(out.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("gemini returned no candidates")
	}
	return strings.TrimSpace(out.Candidates[0].Content.Parts[0].Text), nil
}

func buildPrompt(form *models.Form, stats *analytics.FormAnalytics) string {
	var b strings.Builder
	b.WriteString("You are an analytics assistant for a form builder.\n\n")
	b.WriteString("TASK: summarize the form's performance as a JSON object with keys ")
	b.WriteString(`"overview" (string), "keyFindings" (string array) and "recommendations" (string array).`)
	b.WriteString("\nOutput ONLY the JSON object, no markdown or extra text.\n\n")

	fmt.Fprintf(&b, "Form: %q with %d questions.\n", form.Title, len(form.Questions))
	fmt.Fprintf(&b, "Totals: %d views, %d submissions, %d%% completion rate.\n",
		stats.TotalViews, stats.TotalSubmissions, stats.CompletionRate)

	if len(stats.SubmissionsOverTime) > 0 {
		b.WriteString("Submissions per day:\n")
		for _, bucket := range stats.SubmissionsOverTime {
			fmt.Fprintf(&b, "- %s: %d\n", bucket.Date, bucket.Count)
		}
	}
	return b.String()
}

// parseSummary tries the raw text as JSON first, then the first balanced
// {...} block inside it (models love wrapping JSON in prose or fences).
func parseSummary(text string) (*Summary, bool) {
	candidates := []string{text}
	if block, ok := extractJSONObject(text); ok {
		candidates = append(candidates, block)
	}

	for _, c := range candidates {
		var s Summary
		if err := json.Unmarshal([]byte(c), &s); err == nil && s.Overview != "" {
			return &s, true
		}
	}
	return nil, false
}

// extractJSONObject returns the first balanced top-level JSON object in s.
func extractJSONObject(s string) (string, bool) {
	start := strings.IndexByte(s, '{')
	if start < 0 {
		return "", false
	}
	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(s); i++ {
		ch := s[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case ch == '\\':
				escaped = true
			case ch == '"':
				inString = false
			}
			continue
		}
		switch ch {
		case '"':
			inString = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return s[start : i+1], true
			}
		}
	}
	return "", false
}

// fallbackSummary is the deterministic digest used when the model is
// unavailable or returns garbage.
func fallbackSummary(form *models.Form, stats *analytics.FormAnalytics) *Summary {
	overview := fmt.Sprintf("%q received %d submissions from %d views (%d%% completion rate).",
		form.Title, stats.TotalSubmissions, stats.TotalViews, stats.CompletionRate)

	findings := []string{
		fmt.Sprintf("%d total submissions recorded", stats.TotalSubmissions),
		fmt.Sprintf("%d total views recorded", stats.TotalViews),
	}
	if len(stats.SubmissionsOverTime) > 0 {
		findings = append(findings,
			fmt.Sprintf("submissions spread across %d active days", len(stats.SubmissionsOverTime)))
	}

	recommendations := []string{"Share the form link on more channels to grow views."}
	if stats.CompletionRate < 50 && stats.TotalViews > 0 {
		recommendations = append(recommendations,
			"Completion rate is below 50%; consider shortening the form.")
	}

	return &Summary{
		Overview:        overview,
		KeyFindings:     findings,
		Recommendations: recommendations,
		AIGenerated:     false,
		GeneratedAt:     time.Now(),
	}
}
