package sassrender

import (
	"bytes"
	"os"
	"path/filepath"

	"github.com/wellington/go-libsass"
)

// Compiler turns a stylesheet source file into CSS text.
type Compiler interface {
	Compile(source string, includePaths []string) (string, error)
}

// LibSass compiles SCSS with libsass using the compressed output style.
type LibSass struct{}

// Compile-time check that LibSass implements Compiler.
var _ Compiler = LibSass{}

// Compile compiles source by path so diagnostics name the file and line.
// Imports resolve against the source's own directory first, then
// includePaths in order.
func (LibSass) Compile(source string, includePaths []string) (string, error) {
	// #nosec G304 - source is selected by the caller
	f, err := os.Open(source)
	if err != nil {
		return "", &CompileError{Source: source, Err: err}
	}
	defer f.Close()

	paths := make([]string, 0, len(includePaths)+1)
	paths = append(paths, filepath.Dir(source))
	paths = append(paths, includePaths...)

	var buf bytes.Buffer
	comp, err := libsass.New(&buf, f,
		libsass.Path(source),
		libsass.IncludePaths(paths),
		libsass.OutputStyle(libsass.COMPRESSED_STYLE),
	)
	if err != nil {
		return "", &CompileError{Source: source, Err: err}
	}
	if err := comp.Run(); err != nil {
		return "", &CompileError{Source: source, Err: err}
	}

	return buf.String(), nil
}
