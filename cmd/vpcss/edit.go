package main

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/yacobolo/vpcss"
	"github.com/yacobolo/vpcss/internal/placement"
	"github.com/yacobolo/vpcss/internal/style"
	"github.com/yacobolo/vpcss/internal/viewport"
)

var editCmd = &cobra.Command{
	Use:   "edit <block-id> <breakpoint> <property> [value]",
	Short: "Make a property of a stored block resolve to a value at a breakpoint",
	Long: `Record a pending edit. The property is a dotted path such as style.width.
Without a value the property is deleted at the breakpoint. Values are read
as JSON when they parse, as text otherwise.`,
	Args: cobra.RangeArgs(3, 4),
	PreRunE: func(cmd *cobra.Command, _ []string) error {
		return loadConfig(cmd)
	},
	RunE: runEdit,
}

func init() {
	editCmd.Flags().Bool("manual", false, "Pin the value at the breakpoint instead of where it is defined")
}

func runEdit(cmd *cobra.Command, args []string) error {
	bp, err := strconv.Atoi(args[1])
	if err != nil {
		return fmt.Errorf("breakpoint %q is not a width: %w", args[1], err)
	}
	manual, _ := cmd.Flags().GetBool("manual")
	edit := placement.Edit{
		Breakpoint: bp,
		Manual:     manual,
		Property:   style.ParsePath(args[2]),
	}
	if len(args) == 4 {
		edit.Desired = parseValue(args[3])
	}

	ctx := cmd.Context()
	ed, db, err := openEditor(ctx)
	if err != nil {
		return err
	}
	defer db.Close()

	if err := ed.Apply(args[0], edit); err != nil {
		return err
	}
	if err := ed.Persist(ctx, db, args[0]); err != nil {
		return err
	}

	if !getBoolWithFallback("quiet", "quiet", false) {
		valids, err := ed.Valids(args[0])
		if err != nil {
			return err
		}
		v, ok := style.Get(valids.At(bp), edit.Property)
		if !ok {
			fmt.Printf("%s is unset at %d\n", edit.Property, bp)
		} else {
			fmt.Printf("%s = %v at %d\n", edit.Property, v, bp)
		}
	}
	return nil
}

// parseValue reads s as JSON, falling back to the plain string.
func parseValue(s string) any {
	var v any
	if err := json.Unmarshal([]byte(s), &v); err != nil {
		return s
	}
	return style.Normalize(v)
}

var saveCmd = &cobra.Command{
	Use:   "save <block-id>...",
	Short: "Commit pending edits of stored blocks",
	Long: `Fold the pending edits of each block into its saved styles. With --file the
new attributes are written into that document too.`,
	Args: cobra.MinimumNArgs(1),
	PreRunE: func(cmd *cobra.Command, _ []string) error {
		return loadConfig(cmd)
	},
	RunE: runSave,
}

func init() {
	saveCmd.Flags().String("file", "", "Document to write the saved attributes into")
}

func runSave(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	ed, db, err := openEditor(ctx)
	if err != nil {
		return err
	}
	defer db.Close()

	var doc *vpcss.Document
	if path, _ := cmd.Flags().GetString("file"); path != "" {
		if doc, err = vpcss.LoadDocument(path); err != nil {
			return err
		}
	}

	quiet := getBoolWithFallback("quiet", "quiet", false)
	for _, id := range args {
		saves, err := ed.Save(id)
		if err != nil {
			return err
		}
		if err := ed.Persist(ctx, db, id); err != nil {
			return err
		}
		attrs := viewport.ToAttributes(saves)
		if doc != nil {
			b := doc.Block(id)
			if b == nil {
				return fmt.Errorf("block %s not found in %s", id, doc.Path)
			}
			b.Attributes = attrs
		}
		if !quiet {
			data, err := json.MarshalIndent(attrs, "", "  ")
			if err != nil {
				return err
			}
			fmt.Printf("%s\n%s\n", id, data)
		}
	}
	if doc != nil {
		return doc.Save()
	}
	return nil
}

var restoreCmd = &cobra.Command{
	Use:   "restore <block-id>...",
	Short: "Discard pending edits of stored blocks",
	Args:  cobra.MinimumNArgs(1),
	PreRunE: func(cmd *cobra.Command, _ []string) error {
		return loadConfig(cmd)
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		ed, db, err := openEditor(ctx)
		if err != nil {
			return err
		}
		defer db.Close()

		for _, id := range args {
			if err := ed.Restore(id); err != nil {
				return err
			}
		}
		if err := ed.Persist(ctx, db, args...); err != nil {
			return err
		}
		if !getBoolWithFallback("quiet", "quiet", false) {
			fmt.Printf("Restored %d blocks\n", len(args))
		}
		return nil
	},
}
