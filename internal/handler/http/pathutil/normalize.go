package pathutil

import (
	"regexp"
	"strings"
)

// PathPattern represents a regex pattern and its corresponding normalized template.
type PathPattern struct {
	Pattern  *regexp.Regexp
	Template string
}

// pathPatterns defines the list of patterns for dynamic routes.
// Patterns are evaluated in order from most specific to least specific and
// are pre-compiled at initialization.
var pathPatterns = []*PathPattern{
	{Pattern: regexp.MustCompile(`^/voter-guides/\d+$`), Template: "/voter-guides/:id"},
	{Pattern: regexp.MustCompile(`^/voter-guide-possibilities/\d+$`), Template: "/voter-guide-possibilities/:id"},
}

// NormalizePath normalizes dynamic URL paths to prevent metrics label cardinality explosion.
// It converts paths with IDs (e.g., /voter-guides/123) to template format
// (e.g., /voter-guides/:id). Static paths remain unchanged.
//
// Examples:
//
//	NormalizePath("/voter-guides/123")              // "/voter-guides/:id"
//	NormalizePath("/voter-guides/retrieve")         // "/voter-guides/retrieve" (unchanged)
//	NormalizePath("/health")                        // "/health" (unchanged)
//	NormalizePath("/voter-guides/123?fields=all")   // "/voter-guides/:id"
//	NormalizePath("/voter-guides/123/")             // "/voter-guides/:id"
func NormalizePath(path string) string {
	// Strip query parameters if present
	if idx := strings.IndexByte(path, '?'); idx != -1 {
		path = path[:idx]
	}

	// Strip trailing slash if present (except for root path)
	if len(path) > 1 && path[len(path)-1] == '/' {
		path = path[:len(path)-1]
	}

	for _, p := range pathPatterns {
		if p.Pattern.MatchString(path) {
			return p.Template
		}
	}

	// Static paths like /health and /metrics pass through unchanged.
	return path
}
