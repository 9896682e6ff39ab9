package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/yacobolo/sassrender"
	"github.com/yacobolo/sassrender/internal/report"
)

func init() {
	f := rootCmd.Flags()
	f.StringSliceP("directory", "d", nil, "Directory to search recursively for stylesheets")
	f.StringP("output", "o", "", "Output file path (single stylesheet only)")
	f.StringP("template", "t", "", "Template file, must contain the delimiter (default: bundled template)")
	f.StringSliceP("include", "i", nil, "Include directory for @import, searched in order (default: ./node_modules)")
	f.StringP("suffix", "S", sassrender.DefaultSuffix, "Suffix for the rendered file")
	f.String("delimiter", sassrender.DefaultDelimiter, "Regular expression marking the splice point")
	f.BoolP("watch", "w", false, "Re-render stylesheets when they are added or changed")
	f.IntP("workers", "j", 0, "Concurrent renders (0 = auto)")

	// Shell completion for stylesheet arguments and path flags
	rootCmd.ValidArgsFunction = func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		return []string{"scss"}, cobra.ShellCompDirectiveFilterFileExt
	}
	_ = rootCmd.MarkFlagDirname("directory")
	_ = rootCmd.MarkFlagDirname("include")
	_ = rootCmd.MarkFlagFilename("template")
}

func runRender(cmd *cobra.Command, args []string) error {
	params := buildRenderParams(args)

	rep := report.NewReporter(cmd.OutOrStdout(), cmd.ErrOrStderr(), report.Config{
		Quiet:     getBoolWithFallback("quiet", false),
		Verbose:   getBoolWithFallback("verbose", false),
		UseColors: getBoolWithFallback("color", false),
	})

	ctx, stop := notifyContext(cmd.Context())
	defer stop()

	return render(ctx, params, rep)
}

// render runs one batch over the selected stylesheets, then keeps watching
// when requested. Individual failures are reported as they happen.
func render(ctx context.Context, params renderParams, rep *report.Reporter) error {
	patterns, err := sourcePatterns(params)
	if err != nil {
		return err
	}

	r, err := sassrender.New(params.Options)
	if err != nil {
		return fmt.Errorf("%w: %v", errUsage, err)
	}

	sources, stats, err := sassrender.DiscoverWithStats(patterns)
	if err != nil {
		return fmt.Errorf("%w: %v", errUsage, err)
	}
	rep.Discovered(stats)

	if params.Output != "" && len(sources) > 1 {
		return fmt.Errorf("%w: --output needs exactly one stylesheet, %d matched", errUsage, len(sources))
	}
	if len(sources) == 0 && !params.Watch {
		return fmt.Errorf("%w: no stylesheets matched", errUsage)
	}

	results := sassrender.RenderAll(ctx, r, sources, params.Output, params.Workers)
	var failed int
	for _, res := range results {
		if res.Err != nil {
			failed++
			rep.Failed(res.Source, res.Err)
			continue
		}
		rep.Rendered(res.Result)
	}
	rep.Summary(results)

	if params.Watch {
		return watch(ctx, r, patterns, params.Output, rep)
	}

	if failed > 0 {
		return fmt.Errorf("%w: %d of %d stylesheets", errRenderFailed, failed, len(results))
	}
	return nil
}

// watch re-renders changed stylesheets until ctx is done. Failures are
// reported and never stop the loop.
func watch(ctx context.Context, r *sassrender.Renderer, patterns []string, output string, rep *report.Reporter) error {
	w, err := sassrender.NewWatcher(patterns)
	if err != nil {
		return err
	}
	defer w.Close()

	rep.Watching(patterns)

	return w.Run(ctx,
		func(path string) {
			res, err := r.Render(path, output)
			if err != nil {
				rep.Failed(path, err)
				return
			}
			rep.Rendered(res)
		},
		func(err error) {
			rep.Failed("watcher", err)
		},
	)
}

// sourcePatterns checks the source selection and merges --directory values
// into the positional patterns.
func sourcePatterns(params renderParams) ([]string, error) {
	if len(params.Patterns) == 0 && len(params.Directories) == 0 {
		return nil, fmt.Errorf("%w: provide a source stylesheet, a glob pattern or --directory", errUsage)
	}

	for _, dir := range params.Directories {
		info, err := os.Stat(dir)
		if err != nil {
			return nil, fmt.Errorf("%w: directory %s: %v", errUsage, dir, err)
		}
		if !info.IsDir() {
			return nil, fmt.Errorf("%w: %s is not a directory", errUsage, dir)
		}
	}

	patterns := make([]string, 0, len(params.Patterns)+len(params.Directories))
	patterns = append(patterns, params.Patterns...)
	patterns = append(patterns, params.Directories...)

	// Watched directories and globs may match new stylesheets later.
	if params.Output != "" && params.Watch {
		for _, p := range patterns {
			if isOpenSelection(p) {
				return nil, fmt.Errorf("%w: --output with --watch needs a single stylesheet, not %s", errUsage, p)
			}
		}
	}

	return patterns, nil
}

func isOpenSelection(pattern string) bool {
	if strings.ContainsAny(pattern, "*?[{") {
		return true
	}
	info, err := os.Stat(pattern)
	return err == nil && info.IsDir()
}
