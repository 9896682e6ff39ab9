package sassrender

import "fmt"

// IOError reports a template that could not be read or an output file that
// could not be written.
type IOError struct {
	Op   string // "read template", "write output"
	Path string
	Err  error
}

func (e *IOError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

func (e *IOError) Unwrap() error {
	return e.Err
}

// TemplateDelimiterError reports a template without a splice point.
type TemplateDelimiterError struct {
	Template string
}

func (e *TemplateDelimiterError) Error() string {
	return fmt.Sprintf("Template file %s did not contain template delimiters", e.Template)
}

// CompileError wraps a compiler failure for a single stylesheet.
// Err carries the compiler's own diagnostic unchanged.
type CompileError struct {
	Source string
	Err    error
}

func (e *CompileError) Error() string {
	return fmt.Sprintf("compile %s: %v", e.Source, e.Err)
}

func (e *CompileError) Unwrap() error {
	return e.Err
}
