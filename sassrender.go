// Package sassrender compiles SCSS into CSS and splices the result into a
// template file, producing a source file that embeds the CSS as a string
// literal (typically a web component's inline styles).
//
// # Rendering
//
// Render a stylesheet next to its source using the bundled template:
//
//	r, err := sassrender.New(sassrender.Options{
//		IncludePaths: []string{"node_modules"},
//	})
//	result, err := r.Render("src/button.scss", "")
//	// result.Output == "src/button-css.js"
//
// The template must contain the delimiter (default `<% content %>`); only the
// first match is replaced.
//
// # Batches and watching
//
// Discover expands globs and directories into stylesheet paths, RenderAll
// renders them on a worker pool, and Watcher re-renders files as they change.
//
// # CLI Tool
//
// Install with:
//
//	go install github.com/yacobolo/sassrender/cmd/sass-render@latest
package sassrender

// Public API:
// - New(opts Options) (*Renderer, error)
// - (*Renderer).Render(source, output string) (*Result, error)
// - Discover(patterns []string) ([]string, error)
// - RenderAll(ctx, r, sources, output, workers) []BatchResult
// - NewWatcher(roots, patterns) (*Watcher, error)
