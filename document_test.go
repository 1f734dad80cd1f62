package vpcss

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const homeJSON = `{
  "title": "home",
  "blocks": [
    {
      "id": "hero",
      "attributes": {
        "style": {"width": "100%"},
        "viewports": {
          "768": {"0": {"style": {"width": "50%"}}}
        }
      }
    },
    {
      "attributes": {"style": {"color": "red"}}
    }
  ]
}
`

func TestLoadDocument(t *testing.T) {
	path := filepath.Join(t.TempDir(), "home.json")
	writeFile(t, path, homeJSON)

	doc, err := LoadDocument(path)
	require.NoError(t, err)
	require.Len(t, doc.Blocks, 2)

	hero := doc.Block("hero")
	require.NotNil(t, hero)
	assert.Equal(t, 5, hero.Line)
	assert.Equal(t, `      "id": "hero",`, doc.Source(hero.Line))
	assert.False(t, hero.Generated)
	assert.Contains(t, hero.Attributes, "viewports")

	anon := doc.Blocks[1]
	assert.True(t, anon.Generated)
	assert.Len(t, anon.ID, 36)
	assert.Zero(t, anon.Line)
}

func TestLoadDocumentErrors(t *testing.T) {
	dir := t.TempDir()

	_, err := LoadDocument(filepath.Join(dir, "home.toml"))
	assert.ErrorIs(t, err, ErrUnsupportedDocument)

	_, err = LoadDocument(filepath.Join(dir, "missing.json"))
	assert.Error(t, err)

	path := filepath.Join(dir, "bad.yaml")
	writeFile(t, path, "blocks:\n  - 42\n")
	_, err = LoadDocument(path)
	assert.ErrorContains(t, err, "not an object")
}

func TestDocumentSaveYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "page.yaml")
	writeFile(t, path, `title: page
blocks:
  - id: hero
    kind: section
    attributes:
      style:
        width: 100%
`)
	doc, err := LoadDocument(path)
	require.NoError(t, err)
	hero := doc.Block("hero")
	require.NotNil(t, hero)
	assert.Equal(t, 3, hero.Line)

	hero.Attributes["viewports"] = map[string]any{"768": map[string]any{"0": map[string]any{"style": map[string]any{"width": "50%"}}}}
	require.NoError(t, doc.Save())

	again, err := LoadDocument(path)
	require.NoError(t, err)
	assert.Equal(t, "page", again.raw["title"])
	reloaded := again.Block("hero")
	require.NotNil(t, reloaded)
	assert.Equal(t, "section", reloaded.raw["kind"])
	assert.Contains(t, reloaded.Attributes, "viewports")
}

func TestDocumentSaveJSONKeepsGeneratedIDs(t *testing.T) {
	path := filepath.Join(t.TempDir(), "home.json")
	writeFile(t, path, homeJSON)
	doc, err := LoadDocument(path)
	require.NoError(t, err)
	id := doc.Blocks[1].ID

	require.NoError(t, doc.Save())
	again, err := LoadDocument(path)
	require.NoError(t, err)
	require.NotNil(t, again.Block(id))
	assert.False(t, again.Block(id).Generated)
}
