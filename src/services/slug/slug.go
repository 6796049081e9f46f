// Package slug assigns the public identifiers of a form: the opaque
// shareable link and the human-readable custom URL. Both are generated once,
// before the form is first persisted, and never regenerated.
package slug

import (
	"context"
	"crypto/rand"
	"fmt"
	"strings"
)

const (
	// maxAttempts bounds the uniqueness retry loop on the custom URL.
	maxAttempts = 5
	// maxLength is the hard cap on a composed custom URL.
	maxLength = 20
	// shortTitleLen is the truncated titlePart width used when the first
	// composition exceeds maxLength.
	shortTitleLen = 8

	linkFragmentLen = 6
	suffixLen       = 2

	fallbackUserPart = "user"
)

// TokenSource yields random lowercase base-36 tokens. Injected so tests can
// substitute deterministic sequences.
type TokenSource interface {
	NextToken(n int) string
}

// CryptoSource draws tokens from crypto/rand.
type CryptoSource struct{}

const base36 = "0123456789abcdefghijklmnopqrstuvwxyz"

func (CryptoSource) NextToken(n int) string {
	buf := make([]byte, n)
	if _, err := rand.Read(buf); err != nil {
		// crypto/rand failing is unrecoverable for identifier generation
		panic("slug: crypto/rand unavailable: " + err.Error())
	}
	out := make([]byte, n)
	for i, b := range buf {
		out[i] = base36[int(b)%len(base36)]
	}
	return string(out)
}

// ExistsFunc reports whether a custom URL is already taken. One read per
// retry attempt; the generator itself never writes.
type ExistsFunc func(ctx context.Context, customURL string) (bool, error)

// Generator produces shareable links and custom URLs for new forms.
type Generator struct {
	tokens TokenSource
	exists ExistsFunc
}

func NewGenerator(tokens TokenSource, exists ExistsFunc) *Generator {
	return &Generator{tokens: tokens, exists: exists}
}

// ShareableLink returns a ~12 character opaque base-36 token built from two
// independent random fragments. No uniqueness check is performed here; the
// entropy makes a collision astronomically unlikely and the unique index on
// the collection rejects one if it ever happens.
func (g *Generator) ShareableLink() string {
	return g.tokens.NextToken(linkFragmentLen) + g.tokens.NextToken(linkFragmentLen)
}

// CustomURL composes a readable slug as {userPart}-{titlePart}-{suffix} and
// retries the random suffix until the slug is unused, up to maxAttempts
// uniqueness reads. It never fails: a read error counts as a collision, and
// after the last attempt the most recent candidate is returned unchecked.
// Concurrent creations can both pass the check with the same candidate; the
// unique index on customUrl rejects the loser at write time.
func (g *Generator) CustomURL(ctx context.Context, title, ownerName string) string {
	titlePart := TitlePart(title)
	userPart := UserPart(ownerName)

	candidate := compose(userPart, titlePart, g.tokens.NextToken(suffixLen))
	for attempt := 0; attempt < maxAttempts; attempt++ {
		taken, err := g.exists(ctx, candidate)
		if err == nil && !taken {
			return candidate
		}
		candidate = compose(userPart, titlePart, g.tokens.NextToken(suffixLen))
	}
	return candidate
}

// TitlePart normalizes a form title into at most two hyphen-joined words:
// lowercase, everything outside [a-z0-9\s] stripped, empty tokens dropped.
// An empty title yields an empty part.
func TitlePart(title string) string {
	cleaned := stripExcept(strings.ToLower(title), true)
	words := strings.Fields(cleaned)
	if len(words) > 2 {
		words = words[:2]
	}
	return strings.Join(words, "-")
}

// UserPart normalizes the owner's display name to its first three
// alphanumeric characters, falling back to "user" when the name is absent.
func UserPart(name string) string {
	if name == "" {
		return fallbackUserPart
	}
	cleaned := stripExcept(strings.ToLower(name), false)
	if len(cleaned) > 3 {
		cleaned = cleaned[:3]
	}
	return cleaned
}

func compose(userPart, titlePart, suffix string) string {
	customURL := fmt.Sprintf("%s-%s-%s", userPart, titlePart, suffix)
	if len(customURL) > maxLength {
		short := titlePart
		if len(short) > shortTitleLen {
			short = short[:shortTitleLen]
		}
		customURL = fmt.Sprintf("%s-%s-%s", userPart, short, suffix)
	}
	return customURL
}

// stripExcept keeps [a-z0-9], optionally keeping whitespace.
func stripExcept(s string, keepSpace bool) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case keepSpace && (r == ' ' || r == '\t' || r == '\n' || r == '\r'):
			b.WriteRune(r)
		}
	}
	return b.String()
}
