package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/yacobolo/vpcss"
	"github.com/yacobolo/vpcss/internal/editor"
	"github.com/yacobolo/vpcss/internal/report"
	"github.com/yacobolo/vpcss/internal/storage"
)

// openEditor opens the block store and loads every stored block into an
// editor configured like compile.
func openEditor(ctx context.Context) (*editor.Editor, *storage.DB, error) {
	config, err := buildCompileConfig(nil)
	if err != nil {
		return nil, nil, err
	}
	db, err := storage.Open(getStringWithFallback("db", "db", defaultDBPath))
	if err != nil {
		return nil, nil, err
	}
	ed := vpcss.NewEditor(config)
	n, err := ed.LoadAll(ctx, db)
	if err != nil {
		db.Close()
		return nil, nil, err
	}
	if getBoolWithFallback("verbose", "verbose", false) {
		fmt.Printf("Loaded %d blocks from %s\n", n, getStringWithFallback("db", "db", defaultDBPath))
	}
	return ed, db, nil
}

var importCmd = &cobra.Command{
	Use:   "import [patterns...]",
	Short: "Import block documents into the block store",
	Long: `Register the blocks of the matched documents and store their saved styles.
Pending edits of blocks already in the store are kept.`,
	PreRunE: func(cmd *cobra.Command, _ []string) error {
		return loadConfig(cmd)
	},
	RunE: runImport,
}

func init() {
	importCmd.Flags().StringSlice("include", nil, "Glob patterns for block documents")
	importCmd.Flags().Bool("write-ids", false, "Write generated block ids back into their documents")
}

func runImport(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	ed, db, err := openEditor(ctx)
	if err != nil {
		return err
	}
	defer db.Close()

	verbose := getBoolWithFallback("verbose", "verbose", false)
	docs, _, warnings, err := vpcss.LoadDocuments(buildIncludes(args, "compile"), verbose)
	if err != nil {
		return fmt.Errorf("import failed: %w", err)
	}
	ids, _, dupes := vpcss.RegisterDocuments(ed, docs)
	warnings = append(warnings, dupes...)

	if err := ed.Persist(ctx, db, ids...); err != nil {
		return fmt.Errorf("import failed: %w", err)
	}

	if write, _ := cmd.Flags().GetBool("write-ids"); write {
		for _, doc := range docs {
			if !hasGeneratedIDs(doc) {
				continue
			}
			if err := doc.Save(); err != nil {
				return err
			}
			if verbose {
				fmt.Printf("Wrote ids to %s\n", doc.Path)
			}
		}
	}

	if !getBoolWithFallback("quiet", "quiet", false) {
		useColors := report.ShouldUseColors(getBoolWithFallback("color", "color", false))
		fmt.Printf("%s %d blocks from %d documents\n", report.RenderStyle(report.StyleGreen, "✓ Imported", useColors), len(ids), len(docs))
		for _, w := range warnings {
			fmt.Printf("  Warning: %s\n", w)
		}
	}
	return nil
}

func hasGeneratedIDs(doc *vpcss.Document) bool {
	for _, b := range doc.Blocks {
		if b.Generated {
			return true
		}
	}
	return false
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored blocks",
	PreRunE: func(cmd *cobra.Command, _ []string) error {
		return loadConfig(cmd)
	},
	RunE: func(cmd *cobra.Command, _ []string) error {
		ed, db, err := openEditor(cmd.Context())
		if err != nil {
			return err
		}
		defer db.Close()

		useColors := report.ShouldUseColors(getBoolWithFallback("color", "color", false))
		for _, id := range ed.IDs() {
			b, err := ed.Snapshot(id)
			if err != nil {
				return err
			}
			state := report.RenderStyle(report.StyleGray, "saved", useColors)
			if b.Dirty() {
				state = report.RenderStyle(report.StyleYellow, "edited", useColors)
			}
			fmt.Printf("%s  %s  %v\n", id, state, ed.Registry().Resolve(b.Saves, b.Changes, b.Removes))
		}
		return nil
	},
}
