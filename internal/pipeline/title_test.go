package pipeline

import "testing"

func TestDocumentTitle(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		fragment string
		want     string
	}{
		{"first h1 wins", "<p>intro</p><h1>Report</h1><h1>Other</h1>", "Report"},
		{"nested inline markup", "<h1>Hello, <em>World</em>!</h1>", "Hello, World!"},
		{"whitespace collapsed", "<h1>\n  Spaced   out \n</h1>", "Spaced out"},
		{"no heading", "<p>just text</p>", DefaultTitle},
		{"only h2", "<h2>Sub</h2>", DefaultTitle},
		{"empty heading", "<h1></h1>", DefaultTitle},
		{"empty fragment", "", DefaultTitle},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := DocumentTitle(tt.fragment); got != tt.want {
				t.Errorf("DocumentTitle(%q) = %q, want %q", tt.fragment, got, tt.want)
			}
		})
	}
}
