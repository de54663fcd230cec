// Package search provides shared helpers for substring search queries.
package search

import (
	"strings"
	"time"
)

// DefaultSearchTimeout bounds list/search queries so a runaway filter cannot
// hold a connection indefinitely.
const DefaultSearchTimeout = 10 * time.Second

// EscapeLike escapes LIKE/ILIKE metacharacters in user-supplied search input
// and wraps it for substring matching. Without escaping, "%" or "_" in the
// input would change the match semantics.
func EscapeLike(keyword string) string {
	replacer := strings.NewReplacer(
		`\`, `\\`,
		`%`, `\%`,
		`_`, `\_`,
	)
	return "%" + replacer.Replace(keyword) + "%"
}
