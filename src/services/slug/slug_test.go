package slug

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

// seqSource replays a fixed token sequence, cycling when exhausted.
type seqSource struct {
	tokens []string
	i      int
}

func (s *seqSource) NextToken(n int) string {
	tok := s.tokens[s.i%len(s.tokens)]
	s.i++
	return tok
}

func neverTaken(ctx context.Context, customURL string) (bool, error) {
	return false, nil
}

func TestTitlePart(t *testing.T) {
	assert.Equal(t, "customer-feedback", TitlePart("Customer Feedback Survey"))
	assert.Equal(t, "contact-us", TitlePart("Contact Us!"))
	assert.Equal(t, "q2-report", TitlePart("  Q2  Report  (final)"))
	assert.Equal(t, "", TitlePart(""))
	assert.Equal(t, "", TitlePart("!!! ???"))
}

func TestUserPart(t *testing.T) {
	assert.Equal(t, "ali", UserPart("Alice"))
	assert.Equal(t, "jo", UserPart("Jo"))
	assert.Equal(t, "user", UserPart(""))
	assert.Equal(t, "j0h", UserPart("J0hn Doe"))
}

func TestCustomURLStructure(t *testing.T) {
	gen := NewGenerator(&seqSource{tokens: []string{"a1"}}, neverTaken)

	url := gen.CustomURL(context.Background(), "Customer Feedback Survey", "Alice")

	// "ali-customer-feedback-a1" is 24 chars, so the title part is truncated
	// to 8 characters on composition.
	assert.Equal(t, "ali-customer-a1", url)
}

func TestCustomURLLengthBound(t *testing.T) {
	gen := NewGenerator(CryptoSource{}, neverTaken)

	titles := []string{
		"",
		"Hi",
		"Customer Feedback Survey",
		strings.Repeat("verylongword ", 10),
		strings.Repeat("x", 200),
		"Annual Employee Engagement And Satisfaction Questionnaire 2025",
	}
	for _, title := range titles {
		url := gen.CustomURL(context.Background(), title, "Alexandra")
		assert.LessOrEqual(t, len(url), 20, "title %q produced %q", title, url)
	}
}

func TestCustomURLRetryConvergence(t *testing.T) {
	src := &seqSource{tokens: []string{"s1", "s2", "s3", "s4", "s5", "s6"}}

	checks := 0
	exists := func(ctx context.Context, customURL string) (bool, error) {
		checks++
		// first 4 candidates collide, 5th is free
		return checks < 5, nil
	}

	gen := NewGenerator(src, exists)
	url := gen.CustomURL(context.Background(), "Feedback", "Alice")

	assert.Equal(t, 5, checks)
	assert.Equal(t, "ali-feedback-s5", url)
}

func TestCustomURLExhaustion(t *testing.T) {
	src := &seqSource{tokens: []string{"s1", "s2", "s3", "s4", "s5", "s6"}}

	checks := 0
	alwaysTaken := func(ctx context.Context, customURL string) (bool, error) {
		checks++
		return true, nil
	}

	gen := NewGenerator(src, alwaysTaken)
	url := gen.CustomURL(context.Background(), "Feedback", "Alice")

	// exactly 5 uniqueness reads, then the last regenerated candidate is
	// returned without another check
	assert.Equal(t, 5, checks)
	assert.Equal(t, "ali-feedback-s6", url)
}

func TestCustomURLCheckErrorCountsAsCollision(t *testing.T) {
	src := &seqSource{tokens: []string{"s1", "s2"}}

	checks := 0
	exists := func(ctx context.Context, customURL string) (bool, error) {
		checks++
		if checks == 1 {
			return false, assert.AnError
		}
		return false, nil
	}

	gen := NewGenerator(src, exists)
	url := gen.CustomURL(context.Background(), "Feedback", "Alice")

	assert.Equal(t, 2, checks)
	assert.Equal(t, "ali-feedback-s2", url)
}

func TestShareableLink(t *testing.T) {
	gen := NewGenerator(&seqSource{tokens: []string{"abc123", "def456"}}, neverTaken)
	assert.Equal(t, "abc123def456", gen.ShareableLink())

	rnd := NewGenerator(CryptoSource{}, neverTaken)
	link := rnd.ShareableLink()
	assert.Len(t, link, 12)
	for _, r := range link {
		assert.Contains(t, base36, string(r))
	}
}
