package server

import "github.com/alnah/go-mdlatex"

// Client to server message types.
const (
	msgEdit        = "edit"
	msgResize      = "resize"
	msgPointerDown = "pointer-down"
	msgPointerMove = "pointer-move"
	msgPointerUp   = "pointer-up"
)

// Server to client message types.
const (
	msgDocument = "document"
	msgPreview  = "preview"
	msgLayout   = "layout"
	msgError    = "error"
)

// inbound is any client message; fields unused by a type stay zero.
type inbound struct {
	Type         string  `json:"type"`
	Text         string  `json:"text,omitempty"`
	X            float64 `json:"x,omitempty"`
	EditorWidth  float64 `json:"editorWidth,omitempty"`
	PreviewWidth float64 `json:"previewWidth,omitempty"`
}

// documentMessage replaces the whole editor content; sent on connect and
// when another session or an external change edits the document.
type documentMessage struct {
	Type    string `json:"type"`
	Text    string `json:"text"`
	Source  string `json:"source"`
	Preview string `json:"preview"`
}

// previewMessage answers the session's own edit without touching the text
// area, so keystrokes typed meanwhile are not overwritten.
type previewMessage struct {
	Type    string `json:"type"`
	Source  string `json:"source"`
	Preview string `json:"preview"`
}

type layoutMessage struct {
	Type         string  `json:"type"`
	EditorWidth  float64 `json:"editorWidth"`
	PreviewWidth float64 `json:"previewWidth"`
	Dragging     bool    `json:"dragging"`
}

type errorMessage struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

func newDocumentMessage(s mdlatex.Snapshot) documentMessage {
	return documentMessage{Type: msgDocument, Text: s.Text, Source: s.Source, Preview: s.Preview}
}

func newPreviewMessage(s mdlatex.Snapshot) previewMessage {
	return previewMessage{Type: msgPreview, Source: s.Source, Preview: s.Preview}
}

func newLayoutMessage(w mdlatex.Widths, dragging bool) layoutMessage {
	return layoutMessage{Type: msgLayout, EditorWidth: w.Editor, PreviewWidth: w.Preview, Dragging: dragging}
}

func newErrorMessage(err error) errorMessage {
	return errorMessage{Type: msgError, Message: err.Error()}
}
