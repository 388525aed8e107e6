package mdlatex

import (
	"context"

	"github.com/alnah/go-mdlatex/internal/pipeline"
)

// Renderer converts Markdown with math to an HTML fragment.
// Implementations must be pure: identical input yields identical output.
type Renderer interface {
	Render(ctx context.Context, markdown string) (string, error)
}

// Compile-time interface check.
var _ Renderer = (*pipeline.GoldmarkRenderer)(nil)
