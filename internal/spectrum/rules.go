package spectrum

import (
	"fmt"
	"strings"

	dcss "github.com/aymerick/douceur/css"
	"github.com/aymerick/douceur/parser"
	"github.com/tdewolff/parse/v2"
	"github.com/tdewolff/parse/v2/css"
)

// Rule is one selector with its declarations, as split out of compiled CSS.
type Rule struct {
	Selector     string
	Declarations []string
}

// SplitRules splits CSS text into rules. Declarations are normalised to
// "name: value"; a nested block inside a rule is kept as one raw entry.
func SplitRules(text string) []Rule {
	lexer := css.NewLexer(parse.NewInputString(text))
	var rules []Rule
	var selector strings.Builder
	for {
		tt, data := lexer.Next()
		switch tt {
		case css.ErrorToken:
			return rules
		case css.CommentToken:
			continue
		case css.LeftBraceToken:
			rules = append(rules, Rule{
				Selector:     collapseSpace(selector.String()),
				Declarations: readBlock(lexer),
			})
			selector.Reset()
			continue
		}
		selector.Write(data)
	}
}

// readBlock consumes tokens up to the brace closing the current block.
func readBlock(lexer *css.Lexer) []string {
	var decls []string
	var cur strings.Builder
	depth := 0
	flush := func() {
		if d := normaliseDeclaration(cur.String()); d != "" {
			decls = append(decls, d)
		}
		cur.Reset()
	}
	for {
		tt, data := lexer.Next()
		switch tt {
		case css.ErrorToken:
			flush()
			return decls
		case css.CommentToken:
			continue
		case css.LeftBraceToken:
			depth++
		case css.RightBraceToken:
			if depth == 0 {
				flush()
				return decls
			}
			depth--
		case css.SemicolonToken:
			if depth == 0 {
				flush()
				continue
			}
		}
		cur.Write(data)
	}
}

func normaliseDeclaration(d string) string {
	d = collapseSpace(d)
	if d == "" || strings.Contains(d, "{") {
		return d
	}
	name, value, ok := strings.Cut(d, ":")
	if !ok {
		return d
	}
	return strings.TrimSpace(name) + ": " + strings.TrimSpace(value)
}

func collapseSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// Validate parses a generated stylesheet and returns the number of rules
// it holds, counting rules nested in at-rules.
func Validate(stylesheet string) (int, error) {
	sheet, err := parser.Parse(stylesheet)
	if err != nil {
		return 0, fmt.Errorf("parse stylesheet: %w", err)
	}
	count := 0
	var walk func(rules []*dcss.Rule)
	walk = func(rules []*dcss.Rule) {
		for _, r := range rules {
			if len(r.Rules) > 0 {
				walk(r.Rules)
				continue
			}
			count++
		}
	}
	walk(sheet.Rules)
	return count, nil
}
