package search

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEscapeLike(t *testing.T) {
	tests := []struct {
		name    string
		keyword string
		want    string
	}{
		{name: "plain", keyword: "smith", want: "%smith%"},
		{name: "percent", keyword: "100%", want: `%100\%%`},
		{name: "underscore", keyword: "a_b", want: `%a\_b%`},
		{name: "backslash", keyword: `a\b`, want: `%a\\b%`},
		{name: "empty", keyword: "", want: "%%"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, EscapeLike(tt.keyword))
		})
	}
}
