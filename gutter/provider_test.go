package gutter

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuiltinProviders(t *testing.T) {
	assert.Equal(t, "42", Decimal{}.LabelText(true, 42))
	assert.True(t, Decimal{}.LabelVisible(7))

	assert.Equal(t, "00ff", Hex{Width: 4}.LabelText(true, 255))
	assert.Equal(t, "FF", Hex{Upper: true}.LabelText(false, 255))

	rel := Relative{Anchor: 10}
	assert.Equal(t, "10", rel.LabelText(true, 10))
	assert.Equal(t, "3", rel.LabelText(true, 7))
	assert.Equal(t, "2", rel.LabelText(true, 12))
}

func TestFuncsDefaults(t *testing.T) {
	var f Funcs
	assert.Equal(t, "5", f.LabelText(true, 5))
	assert.True(t, f.LabelVisible(5))

	f.Visible = func(line int) bool { return line%2 == 0 }
	assert.False(t, f.LabelVisible(5))
	assert.True(t, f.LabelVisible(6))
}

func TestParseLineRanges(t *testing.T) {
	got, err := ParseLineRanges(" 3, 12-10 ,,20")
	require.NoError(t, err)
	assert.Equal(t, []LineRange{{3, 3}, {10, 12}, {20, 20}}, got)

	_, err = ParseLineRanges("4-x")
	assert.Error(t, err)
}

func TestHiddenDelegates(t *testing.T) {
	h := Hidden{
		LabelProvider: Funcs{Visible: func(line int) bool { return line != 1 }},
		Ranges:        []LineRange{{From: 4, To: 6}},
	}
	assert.False(t, h.LabelVisible(1))
	assert.True(t, h.LabelVisible(3))
	assert.False(t, h.LabelVisible(5))
	assert.Equal(t, "5", h.LabelText(true, 5))
}
