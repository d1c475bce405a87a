package gutter

// DrawOp is one DrawText call captured by a Recorder. X and Y include the
// active translation; Clip is the clip in force, nil when unbounded.
type DrawOp struct {
	Text  string  `json:"text"`
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
	Style Style   `json:"style"`
	Clip  *Rect   `json:"clip,omitempty"`
}

type recState struct {
	dx, dy float64
	clip   *Rect
}

// Recorder is a Canvas that keeps every draw call instead of painting. It is
// used for debug dumps and for checking what a redraw produced.
type Recorder struct {
	Ops   []DrawOp
	cur   recState
	stack []recState
}

// Save pushes the translation and clip.
func (r *Recorder) Save() { r.stack = append(r.stack, r.cur) }

// Restore pops the last Save; an unbalanced Restore is ignored.
func (r *Recorder) Restore() {
	if len(r.stack) == 0 {
		return
	}
	r.cur = r.stack[len(r.stack)-1]
	r.stack = r.stack[:len(r.stack)-1]
}

func (r *Recorder) Translate(dx, dy float64) {
	r.cur.dx += dx
	r.cur.dy += dy
}

// ClipRect intersects the clip with rect, given in current coordinates.
func (r *Recorder) ClipRect(rect Rect) {
	abs := rect.Offset(r.cur.dx, r.cur.dy)
	if r.cur.clip != nil {
		abs = r.cur.clip.Intersect(abs)
	}
	r.cur.clip = &abs
}

func (r *Recorder) DrawText(text string, x, y float64, style Style) {
	op := DrawOp{Text: text, X: x + r.cur.dx, Y: y + r.cur.dy, Style: style}
	if r.cur.clip != nil {
		c := *r.cur.clip
		op.Clip = &c
	}
	r.Ops = append(r.Ops, op)
}

// Texts returns the text of every recorded op in draw order.
func (r *Recorder) Texts() []string {
	out := make([]string, len(r.Ops))
	for i, op := range r.Ops {
		out[i] = op.Text
	}
	return out
}

// Reset drops recorded ops and state.
func (r *Recorder) Reset() {
	r.Ops = nil
	r.cur = recState{}
	r.stack = nil
}
