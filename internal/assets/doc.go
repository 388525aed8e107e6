// Package assets provides the stylesheets, HTML templates and browser
// script used by the editor page, the print page and PDF export.
// Assets can be loaded from embedded files or custom filesystem paths.
//
// # Loader Architecture
//
//	AssetLoader (interface)
//	    │
//	    ├── EmbeddedLoader    - loads from go:embed filesystem (built-in assets)
//	    ├── FilesystemLoader  - loads from custom directory on disk
//	    └── AssetResolver     - combines both with custom-first fallback
//
// AssetResolver is the loader used by the editor. It tries the custom
// FilesystemLoader first, falling back to EmbeddedLoader if the asset is not
// found. This enables overriding one stylesheet while keeping the others.
//
// # Directory Structure
//
//	{basePath}/
//	├── styles/
//	│   ├── editor.css     # split-pane page chrome
//	│   ├── preview.css    # rendered document typography
//	│   └── print.css      # print and PDF rules
//	└── templates/
//	    ├── editor.html    # editor page
//	    └── print.html     # standalone print/PDF document
//
// The browser script (static/app.js) is always served from the embedded copy.
//
// # Security
//
// Asset names are validated to prevent path traversal attacks.
// FilesystemLoader resolves symlinks and verifies paths stay within basePath.
package assets
