package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "sass-render [sources...]",
	Short: "Render SCSS into a component template",
	Long: `Compile SCSS stylesheets and splice the CSS into a template file.
The template must contain the delimiter (default: <% content %>).
Sources may be stylesheet files, glob patterns (** supported) or directories;
partials (_name.scss) are skipped when searching.`,
	Example: `  sass-render src/button.scss
  sass-render -o src/button.styles.js src/button.scss
  sass-render -d src/components --include node_modules --watch
  sass-render 'src/**/*.scss' --template tpl/styles.ts --suffix -styles.ts`,
	Args: cobra.ArbitraryArgs,
	PreRunE: func(cmd *cobra.Command, _ []string) error {
		return loadConfig(cmd)
	},
	RunE:          runRender,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	// Global persistent flags (inherited by all subcommands)
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Print timings and CSS statistics")
	rootCmd.PersistentFlags().BoolP("quiet", "q", false, "Suppress progress output (failures are still printed)")
	rootCmd.PersistentFlags().Bool("color", false, "Force color output")
	rootCmd.PersistentFlags().String("config", ".sass-render.yaml", "Config file path")

	rootCmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return fmt.Errorf("%w: %v", errUsage, err)
	})

	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(completionCmd)
	rootCmd.AddCommand(versionCmd)
}
