package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Generate a default .sass-render.yaml config file",
	Long:  `Create a .sass-render.yaml configuration file in the current directory with sensible defaults.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		force, _ := cmd.Flags().GetBool("force")

		if _, err := os.Stat(".sass-render.yaml"); err == nil && !force {
			return fmt.Errorf(".sass-render.yaml already exists (use --force to overwrite)")
		}

		if err := os.WriteFile(".sass-render.yaml", []byte(defaultConfig), 0644); err != nil {
			return fmt.Errorf("writing config file: %w", err)
		}

		fmt.Fprintln(cmd.OutOrStdout(), "Created .sass-render.yaml")
		return nil
	},
}

const defaultConfig = `# sass-render configuration
# Flags override SASS_RENDER_* environment variables, which override this file.

# Template containing the delimiter; empty uses the bundled lit-element template
template: ""
# Regular expression marking the splice point (first match is replaced)
delimiter: "<%\\s*content\\s*%>"
# Appended to the source path without its extension
suffix: -css.js

# @import search path, in order (first match wins)
include:
  - node_modules

# Directories searched recursively for stylesheets (partials are skipped)
directory: []

watch: false
workers: 0 # 0 = auto
quiet: false
verbose: false
`

func init() {
	initCmd.Flags().Bool("force", false, "Overwrite existing config file")
}
