// Package renderer draws the editor onto a backend.
//
// A frame consists of the text area, with an optional line number gutter on
// its left, and a single status line at the bottom. Tabs are expanded to
// spaces and the caret is drawn as a block whose character takes the
// background color. The viewport scrolls to keep the caret visible.
//
// Sub-packages:
//
//   - core: cells, styles and colors
//   - backend: the Backend interface, a tcell terminal and an in-memory backend
//   - viewport: scroll position tracking
package renderer
