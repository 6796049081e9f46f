package submissions

import (
	"fmt"
	"math"
	"strings"
)

// CompletionRate derives the percentage stored on the form:
// round(submissions/views*100). Callers pass views >= 1 (the submit path
// counts the current view), so there is no division by zero here.
func CompletionRate(views, submissions int64) int {
	if views <= 0 {
		return 0
	}
	return int(math.Round(float64(submissions) / float64(views) * 100))
}

// DetectDeviceType classifies a User-Agent as desktop, mobile or tablet.
func DetectDeviceType(userAgent string) string {
	if userAgent == "" {
		return "unknown"
	}
	ua := strings.ToLower(userAgent)
	if strings.Contains(ua, "tablet") || strings.Contains(ua, "ipad") {
		return "tablet"
	}
	if strings.Contains(ua, "mobile") {
		return "mobile"
	}
	return "desktop"
}

// DetectBrowser picks the browser family out of a User-Agent. Edge is
// checked before Chrome and Chrome before Safari because each later agent
// string embeds the earlier ones.
func DetectBrowser(userAgent string) string {
	if userAgent == "" {
		return "unknown"
	}
	switch {
	case strings.Contains(userAgent, "Edg"):
		return "Edge"
	case strings.Contains(userAgent, "Chrome"):
		return "Chrome"
	case strings.Contains(userAgent, "Firefox"):
		return "Firefox"
	case strings.Contains(userAgent, "Safari"):
		return "Safari"
	default:
		return "Other"
	}
}

// formatAnswer renders a response value for CSV export. Checkbox answers
// arrive as lists and are joined with "; ".
func formatAnswer(answer interface{}) string {
	switch v := answer.(type) {
	case nil:
		return ""
	case string:
		return v
	case []interface{}:
		parts := make([]string, len(v))
		for i, item := range v {
			parts[i] = fmt.Sprintf("%v", item)
		}
		return strings.Join(parts, "; ")
	case []string:
		return strings.Join(v, "; ")
	default:
		return fmt.Sprintf("%v", v)
	}
}
