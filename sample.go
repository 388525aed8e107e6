package mdlatex

// SampleDocument is shown when the store holds no prior document.
const SampleDocument = `# Hello, World!

This is a **Markdown** and $\LaTeX$ editor.

## Math Example

$$E = mc^2$$

## Table Example

| Header 1 | Header 2 |
| -------- | -------- |
| Cell 1   | Cell 2   |
| Cell 3   | Cell 4   |
`
