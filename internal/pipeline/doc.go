// Package pipeline implements the Markdown-to-HTML rendering pipeline.
//
// This package handles every stage between the raw editor text and the HTML
// shown in the preview pane:
//   - Markdown preprocessing (line normalization)
//   - Markdown to HTML conversion via Goldmark (GFM, footnotes, highlighting)
//   - Math typesetting: $...$ and $$...$$ rendered to MathML
//   - Horizontal rules rendered as page-break markers
//   - Syntax highlighting of the Markdown source for the editor pane
//   - Title extraction from rendered fragments
//
// PDF generation and printing are handled by the root mdlatex package. This
// package only ever produces HTML fragments and stylesheets.
package pipeline
