package vpcss

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/yacobolo/vpcss/internal/editor"
	"github.com/yacobolo/vpcss/internal/spectrum"
)

// NewEditor creates an editor with the registry and compiler settings of
// config.
func NewEditor(config Config) *editor.Editor {
	compiler := spectrum.NewCompiler(nil)
	if config.SelectorFormat != "" {
		compiler.SelectorFormat = config.SelectorFormat
	}
	compiler.Important = !config.NoImportant
	return editor.New(config.Breakpoints.Registry(), compiler)
}

// RegisterDocuments registers the blocks of docs and returns the ids in
// document order with the file each came from. A repeated id keeps its
// first occurrence and is reported as a warning.
func RegisterDocuments(ed *editor.Editor, docs []*Document) (ids []string, files map[string]string, warnings []string) {
	files = map[string]string{}
	for _, doc := range docs {
		for _, b := range doc.Blocks {
			if prev, ok := files[b.ID]; ok {
				warnings = append(warnings, fmt.Sprintf("Block %s in %s already defined in %s", b.ID, doc.Path, prev))
				continue
			}
			if !ed.Register(b.ID, b.Attributes) {
				continue
			}
			files[b.ID] = doc.Path
			ids = append(ids, b.ID)
		}
	}
	return ids, files, warnings
}

// Compile is the main entry point: it loads every document, compiles each
// block and writes the output.
func Compile(config Config) (*CompileResult, error) {
	result := &CompileResult{}

	// 1. Scan and load documents
	docs, stats, warnings, err := LoadDocuments(config.Includes, config.Verbose)
	if err != nil {
		return nil, fmt.Errorf("scan failed: %w", err)
	}
	result.FilesScanned = stats.FilesScanned
	result.Warnings = warnings

	if config.Verbose {
		fmt.Printf("Found %d documents\n", len(docs))
	}

	// 2. Register blocks
	ed := NewEditor(config)
	ids, files, warnings := RegisterDocuments(ed, docs)
	result.Warnings = append(result.Warnings, warnings...)
	for _, doc := range docs {
		for _, b := range doc.Blocks {
			if b.Generated {
				result.GeneratedIDs++
			}
		}
	}

	// 3. Compile every block
	if err := result.compileBlocks(ed, ids, files); err != nil {
		return nil, err
	}

	if config.Verbose {
		fmt.Printf("Compiled %d blocks into %d rules\n", result.BlocksCompiled, result.Spectrums)
	}

	// 4. Validate the stylesheet
	if config.Validate {
		n, err := spectrum.Validate(result.Stylesheet())
		switch {
		case err != nil:
			result.Warnings = append(result.Warnings, fmt.Sprintf("Stylesheet does not parse: %v", err))
		case n != result.Spectrums:
			result.Warnings = append(result.Warnings, fmt.Sprintf("Stylesheet holds %d rules, expected %d", n, result.Spectrums))
		}
	}

	// 5. Write output
	if config.Output != "" {
		if err := WriteOutputFile(config.Output, result, config.Format); err != nil {
			return nil, fmt.Errorf("write failed: %w", err)
		}
	}
	return result, nil
}

// CompileBlocks compiles the given blocks of ed. files maps a block id to
// the document it came from.
func CompileBlocks(ed *editor.Editor, ids []string, files map[string]string) (*CompileResult, error) {
	result := &CompileResult{}
	if err := result.compileBlocks(ed, ids, files); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *CompileResult) compileBlocks(ed *editor.Editor, ids []string, files map[string]string) error {
	for _, id := range ids {
		res, err := ed.Compile(id)
		if err != nil {
			return fmt.Errorf("compile block %s: %w", id, err)
		}
		r.Blocks = append(r.Blocks, BlockResult{ID: id, File: files[id], Result: res})
		r.Spectrums += len(res.Spectrums)
	}
	r.BlocksCompiled = len(r.Blocks)
	return nil
}

// WriteOutputFile writes result to path in format, creating directories.
func WriteOutputFile(path string, result *CompileResult, format OutputFormat) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := WriteCompileOutput(f, result, format); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// Stylesheet concatenates the rules of every block.
func (r *CompileResult) Stylesheet() string {
	var sb strings.Builder
	for _, b := range r.Blocks {
		sb.WriteString(b.Result.Stylesheet())
	}
	return sb.String()
}

// WriteCompileOutput writes result in format; an empty format writes CSS.
func WriteCompileOutput(w io.Writer, result *CompileResult, format OutputFormat) error {
	switch format {
	case "", OutputCSS:
		for _, b := range result.Blocks {
			if len(b.Result.Spectrums) == 0 {
				continue
			}
			if _, err := fmt.Fprintf(w, "/* %s (%s) */\n%s", b.ID, b.File, b.Result.Stylesheet()); err != nil {
				return err
			}
		}
		return nil
	case OutputJSON:
		return encodeJSON(w, result.Blocks)
	case OutputInline:
		inline := make(map[string]spectrum.InlineSet, len(result.Blocks))
		for _, b := range result.Blocks {
			inline[b.ID] = b.Result.Inline
		}
		return encodeJSON(w, inline)
	}
	return fmt.Errorf("unknown compile format %q", format)
}

func encodeJSON(w io.Writer, v any) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}
