// File: internal/annotate/bundle_test.go
package annotate

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xkilldash9x/browser-viz/internal/geometry"
)

func TestParseBundle(t *testing.T) {
	t.Run("yaml", func(t *testing.T) {
		b, err := ParseBundle([]byte(`
highlight:
  borderColor: green
  borderWidth: 4
arrow:
  direction: bottom-right
  from: {x: 10, y: 20}
label:
  text: "Click here"
  position: bottom
  backgroundOpacity: 0.5
`))
		require.NoError(t, err)
		require.NotNil(t, b.Highlight)
		assert.Equal(t, "green", b.Highlight.BorderColor)
		require.NotNil(t, b.Highlight.BorderWidth)
		assert.Equal(t, 4.0, *b.Highlight.BorderWidth)
		assert.Nil(t, b.Highlight.Padding, "unset fields stay unset")

		require.NotNil(t, b.Arrow)
		assert.Equal(t, "bottom-right", b.Arrow.Direction)
		assert.Equal(t, &geometry.Point{X: 10, Y: 20}, b.Arrow.From)

		require.NotNil(t, b.Label)
		assert.Equal(t, "Click here", b.Label.Text)
		assert.Equal(t, "bottom", b.Label.Position)
		assert.Equal(t, 0.5, *b.Label.BackgroundOpacity)
	})

	t.Run("json", func(t *testing.T) {
		b, err := ParseBundle([]byte(`{"label": {"text": "Add", "fontSize": 18}}`))
		require.NoError(t, err)
		assert.Nil(t, b.Highlight)
		assert.Nil(t, b.Arrow)
		require.NotNil(t, b.Label)
		assert.Equal(t, 18.0, *b.Label.FontSize)
	})

	t.Run("empty document", func(t *testing.T) {
		b, err := ParseBundle(nil)
		require.NoError(t, err)
		assert.True(t, b.Empty())
	})

	t.Run("unknown keys are rejected", func(t *testing.T) {
		_, err := ParseBundle([]byte("highlight:\n  borderColour: red\n"))
		assert.ErrorContains(t, err, "invalid annotation bundle")
	})

	t.Run("label without text", func(t *testing.T) {
		_, err := ParseBundle([]byte("label:\n  position: top\n"))
		assert.ErrorContains(t, err, "label.text is required")
	})
}

func TestLoadBundle(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bundle.yaml")
	require.NoError(t, os.WriteFile(path, []byte("arrow: {color: blue}\n"), 0o644))

	b, err := LoadBundle(path)
	require.NoError(t, err)
	require.NotNil(t, b.Arrow)
	assert.Equal(t, "blue", b.Arrow.Color)

	_, err = LoadBundle(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
