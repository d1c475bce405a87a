package scene

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ByLCY/linenum/dsl"
	"github.com/ByLCY/linenum/layout"
)

func viewportParams(t *testing.T, line string) params {
	t.Helper()
	doc, err := dsl.ParseString("view P v1 {\n  viewport " + line + "\n}")
	require.NoError(t, err)
	p, err := parseParams(doc.Sections[0].Viewport.Params, viewportKeys)
	require.NoError(t, err)
	return p
}

func TestPaddingShorthand(t *testing.T) {
	cases := []struct {
		in   string
		want layout.Padding
	}{
		{"padding 8px", layout.Padding{Left: 8, Top: 8, Right: 8, Bottom: 8}},
		{"padding 2 6", layout.Padding{Left: 6, Top: 2, Right: 6, Bottom: 2}},
		{"padding 1 2 3", layout.Padding{Left: 2, Top: 1, Right: 2, Bottom: 3}},
		{"padding 1 2 3 4 5", layout.Padding{Left: 4, Top: 1, Right: 2, Bottom: 3}},
		{"padding 1in", layout.Padding{Left: 96, Top: 96, Right: 96, Bottom: 96}},
	}
	for _, tc := range cases {
		got, err := viewportParams(t, tc.in).padding("padding")
		require.NoError(t, err, tc.in)
		assert.Equal(t, tc.want, got, tc.in)
	}
}

func TestParamsFoldNegativeNumbers(t *testing.T) {
	p := viewportParams(t, "shadow 2 -1 3 #000 align right")
	assert.Equal(t, []string{"2", "-1", "3", "#000"}, p["shadow"])
	assert.Equal(t, "right", p.first("align"))

	opt, err := shadowOption(p, Resources{})
	require.NoError(t, err)
	assert.NotNil(t, opt)
}
