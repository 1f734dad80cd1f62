package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/yacobolo/vpcss"
	"github.com/yacobolo/vpcss/internal/editor"
	"github.com/yacobolo/vpcss/internal/report"
	"github.com/yacobolo/vpcss/internal/storage"
	"github.com/yacobolo/vpcss/internal/style"
	"github.com/yacobolo/vpcss/internal/viewport"
)

var inspectCmd = &cobra.Command{
	Use:   "inspect [block-id...]",
	Short: "Print the sets and resolved cascade of blocks",
	Long: `Print each block's saves, changes and removes with the style resolved at
every breakpoint. Blocks come from the block store, or from a document with
--file. With --breakpoint the resolved properties at that width are listed
by category.`,
	PreRunE: func(cmd *cobra.Command, _ []string) error {
		return loadConfig(cmd)
	},
	RunE: runInspect,
}

func init() {
	inspectCmd.Flags().String("file", "", "Inspect the blocks of a document instead of the store")
	inspectCmd.Flags().Int("breakpoint", 0, "List resolved properties at this width")
}

func runInspect(cmd *cobra.Command, args []string) error {
	var ed *editor.Editor
	ids := args

	if path, _ := cmd.Flags().GetString("file"); path != "" {
		config, err := buildCompileConfig(nil)
		if err != nil {
			return err
		}
		doc, err := vpcss.LoadDocument(path)
		if err != nil {
			return err
		}
		ed = vpcss.NewEditor(config)
		docIDs, _, _ := vpcss.RegisterDocuments(ed, []*vpcss.Document{doc})
		if len(ids) == 0 {
			ids = docIDs
		}
	} else {
		var db *storage.DB
		var err error
		ed, db, err = openEditor(cmd.Context())
		if err != nil {
			return err
		}
		defer db.Close()
		if len(ids) == 0 {
			ids = ed.IDs()
		}
	}

	useColors := report.ShouldUseColors(getBoolWithFallback("color", "color", false))
	showBreakpoint := cmd.Flags().Changed("breakpoint")
	bp, _ := cmd.Flags().GetInt("breakpoint")

	for _, id := range ids {
		b, err := ed.Snapshot(id)
		if err != nil {
			return err
		}
		valids, err := ed.Valids(id)
		if err != nil {
			return err
		}
		fmt.Print(report.CascadeTree(id, ed.Registry(), valids, b.Saves, b.Changes, b.Removes))

		if !showBreakpoint {
			continue
		}
		fmt.Printf("\n%s\n", report.RenderStyle(report.StyleCyan, fmt.Sprintf("At %dpx (%s)", bp, ed.Registry().Label(bp)), useColors))
		for _, line := range collapsedLines(b, bp) {
			fmt.Println(report.RenderStyle(report.StyleGray, line, useColors))
		}
		byCategory := vpcss.CategorizeTree(valids.At(bp))
		for _, cat := range vpcss.Categories() {
			props := byCategory[cat]
			if len(props) == 0 {
				continue
			}
			fmt.Printf("  %s\n", cat)
			for _, p := range props {
				token := ""
				if p.IsToken {
					token = report.RenderStyle(report.StyleGray, " (token)", useColors)
				}
				fmt.Printf("    %s: %v%s\n", p.Name, p.Value, token)
			}
		}
		fmt.Println()
	}
	return nil
}

// collapsedLines lists what each non-empty set contributes at width bp.
func collapsedLines(b editor.Block, bp int) []string {
	var out []string
	for _, set := range []struct {
		name string
		s    viewport.Set
	}{{"saves", b.Saves}, {"changes", b.Changes}, {"removes", b.Removes}} {
		if t := viewport.Collapse(set.s, bp); !style.IsEmpty(t) {
			out = append(out, fmt.Sprintf("  %s: %v", set.name, t))
		}
	}
	return out
}
