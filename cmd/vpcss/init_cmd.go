package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Generate a default .vpcss.yaml config file",
	Long:  `Create a .vpcss.yaml configuration file in the current directory with sensible defaults.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		force, _ := cmd.Flags().GetBool("force")

		if _, err := os.Stat(".vpcss.yaml"); err == nil && !force {
			return fmt.Errorf(".vpcss.yaml already exists (use --force to overwrite)")
		}

		if err := os.WriteFile(".vpcss.yaml", []byte(defaultConfig), 0644); err != nil {
			return fmt.Errorf("writing config file: %w", err)
		}

		fmt.Println("Created .vpcss.yaml")
		return nil
	},
}

const defaultConfig = `# vpcss configuration

# Shared settings
verbose: false
db: .vpcss/blocks.db
trace: ""                  # error | info | debug

# Breakpoint registry
breakpoints:
  tablet: 768
  desktop: 1024
  labels:
    "0": Base
    "360": Mobile
    "768": Tablet
    "1024": Laptop
    "1280": Desktop
    "1920": Wide

# Compile settings
compile:
  include:
    - "content/**/*.json"
    - "content/**/*.yaml"
  output: dist/blocks.css
  format: css              # css | json | inline
  selector: '[data-block="%s"]'
  no-important: false
  validate: true

# Linting settings
lint:
  strict: false
  output-format: issues    # issues | summary | full | json
  max-issues-per-linter: 0 # 0 = unlimited
  max-same-issues: 0       # 0 = unlimited
  print-lines: true
  print-linter-name: true
`

func init() {
	initCmd.Flags().Bool("force", false, "Overwrite existing config file")
}
