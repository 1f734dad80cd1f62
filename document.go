package vpcss

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	kjson "github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/v2"

	"github.com/yacobolo/vpcss/internal/style"
)

// ErrUnsupportedDocument is returned for files that are neither JSON nor YAML.
var ErrUnsupportedDocument = errors.New("unsupported document format")

// BlocksKey is the top-level document key holding the block list.
const BlocksKey = "blocks"

// Document is one file listing blocks.
type Document struct {
	Path   string
	Blocks []*DocumentBlock

	raw   map[string]any
	lines []string
}

// DocumentBlock is one block entry of a document.
type DocumentBlock struct {
	ID         string
	Attributes map[string]any
	Line       int  // 1-based line of the id, 0 when unknown
	Generated  bool // the id was generated on load

	raw map[string]any
}

// parserFor picks the koanf parser by file extension.
func parserFor(path string) (koanf.Parser, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return kjson.Parser(), nil
	case ".yaml", ".yml":
		return yaml.Parser(), nil
	}
	return nil, fmt.Errorf("%w: %s", ErrUnsupportedDocument, path)
}

// LoadDocument reads a document. Blocks without id get a generated one.
func LoadDocument(path string) (*Document, error) {
	p, err := parserFor(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return ParseDocument(path, data, p)
}

// ParseDocument parses document data with p.
func ParseDocument(path string, data []byte, p koanf.Parser) (*Document, error) {
	raw, err := p.Unmarshal(data)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if raw == nil {
		raw = map[string]any{}
	}
	doc := &Document{Path: path, raw: raw, lines: strings.Split(string(data), "\n")}

	list, _ := style.Normalize(raw[BlocksKey]).([]any)
	for i, item := range list {
		entry, ok := style.AsTree(item)
		if !ok {
			return nil, fmt.Errorf("parse %s: block %d is not an object", path, i)
		}
		b := &DocumentBlock{raw: entry}
		b.ID, _ = entry["id"].(string)
		if attrs, ok := style.AsTree(entry["attributes"]); ok {
			b.Attributes = attrs
		} else {
			b.Attributes = map[string]any{}
		}
		if b.ID == "" {
			b.ID = uuid.NewString()
			b.Generated = true
		} else {
			b.Line, _ = doc.locate(1, b.ID)
		}
		doc.Blocks = append(doc.Blocks, b)
	}
	return doc, nil
}

// Block returns the block with id, or nil.
func (d *Document) Block(id string) *DocumentBlock {
	for _, b := range d.Blocks {
		if b.ID == id {
			return b
		}
	}
	return nil
}

// Source returns line n (1-based) without surrounding whitespace on the
// right, or "" when out of range.
func (d *Document) Source(n int) string {
	if n < 1 || n > len(d.lines) {
		return ""
	}
	return strings.TrimRight(d.lines[n-1], " \r")
}

// locate finds the first line at or after from containing one of needles
// and returns its line and 1-based column, or 0, 0.
func (d *Document) locate(from int, needles ...string) (int, int) {
	if from < 1 {
		from = 1
	}
	for n := from; n <= len(d.lines); n++ {
		for _, needle := range needles {
			if i := strings.Index(d.lines[n-1], needle); i >= 0 {
				return n, i + 1
			}
		}
	}
	return 0, 0
}

// Marshal encodes the document with the blocks' current ids and
// attributes. Keys the blocks carry besides these are kept.
func (d *Document) Marshal() ([]byte, error) {
	p, err := parserFor(d.Path)
	if err != nil {
		return nil, err
	}
	list := make([]any, len(d.Blocks))
	for i, b := range d.Blocks {
		entry := map[string]any{}
		for k, v := range b.raw {
			entry[k] = v
		}
		entry["id"] = b.ID
		entry["attributes"] = b.Attributes
		list[i] = entry
	}
	out := map[string]any{}
	for k, v := range d.raw {
		out[k] = v
	}
	out[BlocksKey] = list

	data, err := p.Marshal(out)
	if err != nil {
		return nil, fmt.Errorf("marshal %s: %w", d.Path, err)
	}
	if _, ok := p.(*kjson.JSON); ok {
		var buf bytes.Buffer
		if err := json.Indent(&buf, data, "", "  "); err != nil {
			return nil, err
		}
		buf.WriteString("\n")
		data = buf.Bytes()
	}
	return data, nil
}

// Save writes the document back to its path.
func (d *Document) Save() error {
	data, err := d.Marshal()
	if err != nil {
		return err
	}
	if err := os.WriteFile(d.Path, data, 0644); err != nil {
		return fmt.Errorf("write %s: %w", d.Path, err)
	}
	d.lines = strings.Split(string(data), "\n")
	return nil
}
