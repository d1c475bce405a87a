package gutter

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrNilProvider is returned when a nil LabelProvider is assigned.
var ErrNilProvider = errors.New("gutter: label provider must not be nil")

// LabelProvider supplies label text and visibility for 1-based line numbers.
//
// Implementations must be deterministic within a redraw: the engine measures
// LabelText for the last line to size the margin and calls it again for every
// visible line while drawing.
type LabelProvider interface {
	LabelText(onLeft bool, line int) string
	LabelVisible(line int) bool
}

// Decimal is the default provider: the decimal line number, always visible.
type Decimal struct{}

func (Decimal) LabelText(_ bool, line int) string { return strconv.Itoa(line) }
func (Decimal) LabelVisible(int) bool { return true }

// Hex renders line numbers in hexadecimal, zero-padded to Width digits.
type Hex struct {
	Width int
	Upper bool
}

func (h Hex) LabelText(_ bool, line int) string {
	verb := "%0*x"
	if h.Upper {
		verb = "%0*X"
	}
	return fmt.Sprintf(verb, h.Width, line)
}

func (Hex) LabelVisible(int) bool { return true }

// Relative numbers each line by its distance from Anchor; the anchor line
// keeps its absolute number.
type Relative struct {
	Anchor int
}

func (r Relative) LabelText(_ bool, line int) string {
	if line == r.Anchor {
		return strconv.Itoa(line)
	}
	d := line - r.Anchor
	if d < 0 {
		d = -d
	}
	return strconv.Itoa(d)
}

func (Relative) LabelVisible(int) bool { return true }

// Funcs adapts plain functions into a LabelProvider. A nil Text falls back to
// Decimal; a nil Visible means every label is shown.
type Funcs struct {
	Text    func(onLeft bool, line int) string
	Visible func(line int) bool
}

func (f Funcs) LabelText(onLeft bool, line int) string {
	if f.Text == nil {
		return Decimal{}.LabelText(onLeft, line)
	}
	return f.Text(onLeft, line)
}

func (f Funcs) LabelVisible(line int) bool {
	return f.Visible == nil || f.Visible(line)
}

// LineRange is an inclusive range of 1-based line numbers.
type LineRange struct {
	From int `json:"from"`
	To   int `json:"to"`
}

// Contains reports whether line falls inside the range.
func (r LineRange) Contains(line int) bool { return line >= r.From && line <= r.To }

// ParseLineRanges parses "3,10-12, 20" into ranges.
func ParseLineRanges(s string) ([]LineRange, error) {
	var out []LineRange
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		from, to, isRange := strings.Cut(part, "-")
		a, err := strconv.Atoi(strings.TrimSpace(from))
		if err != nil {
			return nil, fmt.Errorf("line range %q: %w", part, err)
		}
		b := a
		if isRange {
			if b, err = strconv.Atoi(strings.TrimSpace(to)); err != nil {
				return nil, fmt.Errorf("line range %q: %w", part, err)
			}
		}
		if b < a {
			a, b = b, a
		}
		out = append(out, LineRange{From: a, To: b})
	}
	return out, nil
}

// Hidden suppresses the labels of Ranges and delegates everything else.
type Hidden struct {
	LabelProvider
	Ranges []LineRange
}

func (h Hidden) LabelVisible(line int) bool {
	for _, r := range h.Ranges {
		if r.Contains(line) {
			return false
		}
	}
	return h.LabelProvider.LabelVisible(line)
}
