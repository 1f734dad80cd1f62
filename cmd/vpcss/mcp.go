package main

import (
	"github.com/spf13/cobra"

	"github.com/yacobolo/vpcss/internal/mcpserver"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Serve the block store as MCP tools on stdin/stdout",
	Long: `Start a Model Context Protocol server over stdio. Agents can register
blocks, edit their styles per breakpoint, save or restore edits and read the
compiled CSS. Every change is written to the block store.`,
	PreRunE: func(cmd *cobra.Command, _ []string) error {
		return loadConfig(cmd)
	},
	RunE: func(cmd *cobra.Command, _ []string) error {
		ed, db, err := openEditor(cmd.Context())
		if err != nil {
			return err
		}
		defer db.Close()
		return mcpserver.New(ed, db, version).ServeStdio()
	},
}
