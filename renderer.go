package sassrender

import (
	"embed"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"slices"
	"strings"
	"time"
)

// Default option values.
const (
	DefaultDelimiter = `<%\s*content\s*%>`
	DefaultSuffix    = "-css.js"
	// DefaultTemplate names the template bundled with the binary.
	DefaultTemplate = "builtin:template.js"
)

//go:embed templates/template.js
var bundled embed.FS

const outputPermissions = 0o644

// Options overrides the renderer defaults. Zero values select the default.
type Options struct {
	Delimiter    string   // regular expression marking the splice point
	IncludePaths []string // nil selects <cwd>/node_modules
	Template     string   // path of the template file
	Suffix       string   // appended to the source path without its extension
	Compiler     Compiler // nil selects LibSass
}

// Renderer splices compiled CSS into a template.
// It is immutable after New and safe for concurrent use.
type Renderer struct {
	delim        *regexp.Regexp
	includePaths []string
	template     string
	suffix       string
	compiler     Compiler
}

// Result describes one successful render.
type Result struct {
	Source   string
	Output   string
	Bytes    int
	Stats    CSSStats
	Duration time.Duration
}

// New merges opts onto the defaults.
func New(opts Options) (*Renderer, error) {
	r := &Renderer{
		template: DefaultTemplate,
		suffix:   DefaultSuffix,
		compiler: LibSass{},
	}

	pattern := DefaultDelimiter
	if opts.Delimiter != "" {
		pattern = opts.Delimiter
	}
	delim, err := regexp.Compile(pattern)
	if err != nil {
		return nil, fmt.Errorf("invalid delimiter %q: %w", pattern, err)
	}
	r.delim = delim

	if opts.IncludePaths != nil {
		r.includePaths = slices.Clone(opts.IncludePaths)
	} else {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("resolving default include path: %w", err)
		}
		r.includePaths = []string{filepath.Join(cwd, "node_modules")}
	}

	if opts.Template != "" {
		r.template = opts.Template
	}
	if opts.Suffix != "" {
		r.suffix = opts.Suffix
	}
	if opts.Compiler != nil {
		r.compiler = opts.Compiler
	}

	return r, nil
}

// Delimiter returns the splice point pattern.
func (r *Renderer) Delimiter() string { return r.delim.String() }

// IncludePaths returns a copy of the import search path.
func (r *Renderer) IncludePaths() []string { return slices.Clone(r.includePaths) }

// Template returns the template path.
func (r *Renderer) Template() string { return r.template }

// Suffix returns the default output suffix.
func (r *Renderer) Suffix() string { return r.suffix }

// Render compiles source and writes the spliced template to output, or to
// OutputPath(source) when output is empty.
//
// The template is read on every call. A template without the delimiter is
// rejected before the compiler runs. Only the first delimiter match is
// replaced and the CSS is inserted literally.
func (r *Renderer) Render(source, output string) (*Result, error) {
	start := time.Now()

	tmpl, err := r.readTemplate()
	if err != nil {
		return nil, &IOError{Op: "read template", Path: r.template, Err: err}
	}

	loc := r.delim.FindStringIndex(tmpl)
	if loc == nil {
		return nil, &TemplateDelimiterError{Template: r.template}
	}

	css, err := r.compiler.Compile(source, r.includePaths)
	if err != nil {
		return nil, err
	}

	content := tmpl[:loc[0]] + css + tmpl[loc[1]:]

	if output == "" {
		output = r.OutputPath(source)
	}
	if err := writeFileAtomic(output, []byte(content), outputPermissions); err != nil {
		return nil, &IOError{Op: "write output", Path: output, Err: err}
	}

	return &Result{
		Source:   source,
		Output:   output,
		Bytes:    len(content),
		Stats:    Inspect(css),
		Duration: time.Since(start),
	}, nil
}

// OutputPath derives the default output path by dropping the last
// dot-separated segment of source and appending the suffix.
// "foo.bar.scss" becomes "foo.bar" + suffix.
func (r *Renderer) OutputPath(source string) string {
	parts := strings.Split(source, ".")
	return strings.Join(parts[:len(parts)-1], ".") + r.suffix
}

func (r *Renderer) readTemplate() (string, error) {
	if r.template == DefaultTemplate {
		data, err := bundled.ReadFile("templates/template.js")
		return string(data), err
	}

	// #nosec G304 - template path comes from trusted configuration
	data, err := os.ReadFile(r.template)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// writeFileAtomic writes through a temp file in the target directory so a
// failed write never leaves a truncated output behind.
func writeFileAtomic(path string, data []byte, perm os.FileMode) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return err
	}
	name := tmp.Name()
	cleanup := func() { _ = os.Remove(name) }

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		cleanup()
		return err
	}
	if err := tmp.Close(); err != nil {
		cleanup()
		return err
	}
	if err := os.Chmod(name, perm); err != nil {
		cleanup()
		return err
	}
	if err := os.Rename(name, path); err != nil {
		cleanup()
		return err
	}
	return nil
}
