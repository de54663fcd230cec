package pathutil

import "testing"

func TestNormalizePath(t *testing.T) {
	tests := []struct {
		name string
		path string
		want string
	}{
		{
			name: "guide with ID",
			path: "/voter-guides/123",
			want: "/voter-guides/:id",
		},
		{
			name: "different guide ID maps to same template",
			path: "/voter-guides/456789",
			want: "/voter-guides/:id",
		},
		{
			name: "possibility with ID",
			path: "/voter-guide-possibilities/42",
			want: "/voter-guide-possibilities/:id",
		},
		{
			name: "static retrieve endpoint unchanged",
			path: "/voter-guides/retrieve",
			want: "/voter-guides/retrieve",
		},
		{
			name: "collection route unchanged",
			path: "/voter-guides",
			want: "/voter-guides",
		},
		{
			name: "health unchanged",
			path: "/health",
			want: "/health",
		},
		{
			name: "metrics unchanged",
			path: "/metrics",
			want: "/metrics",
		},
		{
			name: "query parameters stripped",
			path: "/voter-guides/123?fields=all",
			want: "/voter-guides/:id",
		},
		{
			name: "trailing slash stripped",
			path: "/voter-guides/123/",
			want: "/voter-guides/:id",
		},
		{
			name: "root path unchanged",
			path: "/",
			want: "/",
		},
		{
			name: "unknown dynamic path passes through",
			path: "/elections/2024/results",
			want: "/elections/2024/results",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NormalizePath(tt.path); got != tt.want {
				t.Errorf("NormalizePath(%q) = %q, want %q", tt.path, got, tt.want)
			}
		})
	}
}
