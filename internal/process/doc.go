// Package process terminates browser process trees.
//
// Chrome forks renderer, GPU and utility helpers. Closing the DevTools
// connection does not always reap them, so the PDF renderer kills the whole
// group when it shuts a browser down.
package process
