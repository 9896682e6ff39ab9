// Package report prints render progress and failures for the CLI.
package report

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/yacobolo/sassrender"
)

// Config controls what the reporter prints.
type Config struct {
	Quiet     bool // Suppress progress; failures are still printed
	Verbose   bool // Add durations and CSS statistics
	UseColors bool // Force colors
}

// Reporter prints progress to out and failures to errOut.
// It is safe for concurrent use; each report is written whole.
type Reporter struct {
	mu        sync.Mutex
	out       io.Writer
	errOut    io.Writer
	useColors bool
	quiet     bool
	verbose   bool
}

// NewReporter creates a new reporter with the given configuration
func NewReporter(out, errOut io.Writer, config Config) *Reporter {
	return &Reporter{
		out:       out,
		errOut:    errOut,
		useColors: shouldUseColors(config),
		quiet:     config.Quiet,
		verbose:   config.Verbose,
	}
}

// shouldUseColors determines if colors should be enabled
func shouldUseColors(config Config) bool {
	// Explicit flag wins
	if config.UseColors {
		return true
	}

	// Check for FORCE_COLOR environment variable (GitHub Actions, etc.)
	if os.Getenv("FORCE_COLOR") != "" {
		return true
	}

	// GitHub Actions supports colors
	if os.Getenv("GITHUB_ACTIONS") == "true" {
		return true
	}

	// Auto-detect TTY
	if fileInfo, err := os.Stdout.Stat(); err == nil && (fileInfo.Mode()&os.ModeCharDevice) != 0 {
		return true
	}

	return false
}

// Rendered prints one successful render:
//
//	rendered src/button.scss -> src/button-css.js
func (r *Reporter) Rendered(res *sassrender.Result) {
	if r.quiet {
		return
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	fmt.Fprintf(r.out, "%s %s -> %s\n",
		RenderStyle(StyleGreen, "rendered", r.useColors),
		RenderStyle(StyleCyan, res.Source, r.useColors),
		RenderStyle(StyleCyan, res.Output, r.useColors))

	if r.verbose {
		detail := fmt.Sprintf("  %s, %s, %s, %s in %s",
			pluralizeCount(res.Bytes, "byte", "bytes"),
			pluralizeCount(res.Stats.Rules, "rule", "rules"),
			pluralizeCount(res.Stats.Declarations, "declaration", "declarations"),
			pluralizeCount(res.Stats.AtRules, "at-rule", "at-rules"),
			res.Duration.Round(time.Millisecond))
		fmt.Fprintln(r.out, RenderStyle(StyleGray, detail, r.useColors))
	}
}

// Failed prints a render failure. Failures ignore quiet.
func (r *Reporter) Failed(source string, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	fmt.Fprintf(r.errOut, "%s %s: %s\n",
		RenderStyle(StyleRed, "failed", r.useColors),
		RenderStyle(StyleCyan, source, r.useColors),
		describe(err))
}

// describe formats err with the kind of failure first so the three render
// error kinds are easy to tell apart in a log.
func describe(err error) string {
	var (
		delimErr   *sassrender.TemplateDelimiterError
		compileErr *sassrender.CompileError
		ioErr      *sassrender.IOError
	)
	switch {
	case errors.As(err, &delimErr):
		return "template: " + delimErr.Error()
	case errors.As(err, &compileErr):
		return "compile: " + indent(compileErr.Err.Error())
	case errors.As(err, &ioErr):
		return "io: " + ioErr.Error()
	default:
		return err.Error()
	}
}

// indent keeps multi-line compiler diagnostics readable under the header line.
func indent(s string) string {
	s = strings.TrimRight(s, "\n")
	return strings.ReplaceAll(s, "\n", "\n    ")
}

// Summary prints the batch totals
func (r *Reporter) Summary(results []sassrender.BatchResult) {
	if r.quiet || len(results) < 2 {
		return
	}

	var failed int
	for _, res := range results {
		if res.Err != nil {
			failed++
		}
	}

	line := fmt.Sprintf("%s, %s failed",
		pluralizeCount(len(results)-failed, "stylesheet rendered", "stylesheets rendered"),
		pluralizeCount(failed, "stylesheet", "stylesheets"))
	style := StyleGreen
	if failed > 0 {
		style = StyleRed
	}
	fmt.Fprintln(r.out, "")
	fmt.Fprintln(r.out, RenderStyle(style, line, r.useColors))
}

// Discovered prints discovery statistics in verbose mode.
func (r *Reporter) Discovered(stats sassrender.DiscoverStats) {
	if r.quiet || !r.verbose {
		return
	}
	line := fmt.Sprintf("found %s (%d skipped)",
		pluralizeCount(stats.Selected, "stylesheet", "stylesheets"), stats.Skipped)
	fmt.Fprintln(r.out, RenderStyle(StyleGray, line, r.useColors))
}

// Watching prints the watch banner.
func (r *Reporter) Watching(patterns []string) {
	if r.quiet {
		return
	}
	fmt.Fprintf(r.out, "%s %s\n",
		RenderStyle(StyleYellow, "watching", r.useColors),
		strings.Join(patterns, ", "))
}

// pluralizeCount returns a formatted string with count and singular/plural form
func pluralizeCount(count int, singular, plural string) string {
	if count == 1 {
		return fmt.Sprintf("%d %s", count, singular)
	}
	return fmt.Sprintf("%d %s", count, plural)
}
