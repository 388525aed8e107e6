// Package server serves the editor page to a local browser and keeps it in
// sync with an mdlatex.Editor.
//
// Routes:
//
//	GET  /               editor page
//	GET  /static/        browser script
//	GET  /ws             live session (websocket)
//	GET  /api/document   current Markdown (text/markdown)
//	PUT  /api/document   replace the document
//	POST /api/render     render a Markdown body to an HTML fragment
//	GET  /export/pdf     PDF download of the preview
//	GET  /print          print document (opens the print dialog)
//
// Each websocket connection is a session with its own pointer bus and
// split layout. One goroutine per session reads and applies events in
// order; a second one writes queued messages.
package server
