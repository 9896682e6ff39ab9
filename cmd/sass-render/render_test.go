package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yacobolo/sassrender"
	"github.com/yacobolo/sassrender/internal/report"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func testReporter() (*report.Reporter, *bytes.Buffer, *bytes.Buffer) {
	var out, errOut bytes.Buffer
	return report.NewReporter(&out, &errOut, report.Config{}), &out, &errOut
}

func TestRender_Directory(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "a.scss"), "a { color: red; }\n")
	writeFile(t, filepath.Join(dir, "nested", "b.scss"), "@import 'sizes';\nb { width: $gutter; }\n")
	writeFile(t, filepath.Join(dir, "nested", "_sizes.scss"), "$gutter: 10px;\n")

	rep, out, errOut := testReporter()
	err := render(context.Background(), renderParams{
		Options:  sassrender.Options{IncludePaths: []string{}},
		Patterns: []string{dir},
		Workers:  2,
	}, rep)
	require.NoError(t, err)
	assert.Empty(t, errOut.String())
	assert.Contains(t, out.String(), "2 stylesheets rendered, 0 stylesheets failed")

	data, err := os.ReadFile(filepath.Join(dir, "nested", "b-css.js"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "<style>b{width:10px}\n</style>")

	_, err = os.Stat(filepath.Join(dir, "nested", "_sizes-css.js"))
	assert.True(t, os.IsNotExist(err), "partials are not rendered")
}

func TestRender_FailureKeepsGoing(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "good.scss"), "a { color: red; }\n")
	writeFile(t, filepath.Join(dir, "bad.scss"), "a { color: red;\n")

	rep, _, errOut := testReporter()
	err := render(context.Background(), renderParams{
		Options:  sassrender.Options{IncludePaths: []string{}},
		Patterns: []string{filepath.Join(dir, "*.scss")},
	}, rep)
	require.Error(t, err)
	assert.ErrorIs(t, err, errRenderFailed)
	assert.Equal(t, ExitRender, exitCodeFor(err))
	assert.Contains(t, errOut.String(), "bad.scss: compile:")

	_, err = os.Stat(filepath.Join(dir, "good-css.js"))
	assert.NoError(t, err, "a failure does not stop the batch")
}

func TestRender_UsageErrors(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "a.scss"), "a { color: red; }\n")
	writeFile(t, filepath.Join(dir, "b.scss"), "b { color: red; }\n")

	tests := []struct {
		name   string
		params renderParams
		want   string
	}{
		{
			name:   "no sources",
			params: renderParams{},
			want:   "provide a source stylesheet",
		},
		{
			name: "output with several stylesheets",
			params: renderParams{
				Patterns: []string{dir},
				Output:   filepath.Join(dir, "out.js"),
			},
			want: "--output needs exactly one stylesheet, 2 matched",
		},
		{
			name:   "nothing matched",
			params: renderParams{Patterns: []string{filepath.Join(dir, "*.sass")}},
			want:   "no stylesheets matched",
		},
		{
			name:   "missing directory",
			params: renderParams{Directories: []string{filepath.Join(dir, "components")}},
			want:   "directory " + filepath.Join(dir, "components"),
		},
		{
			name:   "directory is a file",
			params: renderParams{Directories: []string{filepath.Join(dir, "a.scss")}},
			want:   "is not a directory",
		},
		{
			name: "output while watching a directory",
			params: renderParams{
				Directories: []string{dir},
				Output:      filepath.Join(dir, "out.js"),
				Watch:       true,
			},
			want: "--output with --watch needs a single stylesheet",
		},
		{
			name: "output while watching a glob",
			params: renderParams{
				Patterns: []string{filepath.Join(dir, "a*.scss")},
				Output:   filepath.Join(dir, "out.js"),
				Watch:    true,
			},
			want: "--output with --watch needs a single stylesheet",
		},
		{
			name: "invalid delimiter",
			params: renderParams{
				Options:  sassrender.Options{Delimiter: "(unclosed"},
				Patterns: []string{dir},
			},
			want: "invalid delimiter",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.params.Options.IncludePaths = []string{}
			rep, _, _ := testReporter()
			err := render(context.Background(), tt.params, rep)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
			assert.Equal(t, ExitUsage, exitCodeFor(err))
		})
	}
}

func TestRender_DirectoryFlag(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "a.scss"), "a { color: red; }\n")
	writeFile(t, filepath.Join(dir, "b.scss"), "b { color: red; }\n")

	rep, out, _ := testReporter()
	err := render(context.Background(), renderParams{
		Options:     sassrender.Options{IncludePaths: []string{}},
		Patterns:    []string{filepath.Join(dir, "a.scss")},
		Directories: []string{dir},
	}, rep)
	require.NoError(t, err)
	assert.Contains(t, out.String(), "2 stylesheets rendered", "explicit file and directory match are deduplicated")
}

func TestSourcePatterns_OutputWithSingleWatchedFile(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "a.scss")
	writeFile(t, src, "a { color: red; }\n")

	patterns, err := sourcePatterns(renderParams{
		Patterns: []string{src},
		Output:   filepath.Join(dir, "out.js"),
		Watch:    true,
	})
	require.NoError(t, err)
	assert.Equal(t, []string{src}, patterns)
}

func TestExitCodeFor(t *testing.T) {
	assert.Equal(t, ExitSuccess, exitCodeFor(nil))
	assert.Equal(t, ExitUsage, exitCodeFor(errUsage))
	assert.Equal(t, ExitRender, exitCodeFor(errRenderFailed))
	assert.Equal(t, ExitRender, exitCodeFor(&sassrender.TemplateDelimiterError{Template: "t.js"}))
}
