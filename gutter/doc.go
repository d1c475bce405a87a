// Package gutter draws per-line labels (line numbers) into a margin that it
// reserves inside a host text view's padding.
//
// The package does not lay out text. A Host supplies text measurement and
// accepts padding changes; at every redraw the host passes a Snapshot of its
// layout and a Canvas, and the Engine decides which labels are visible, where
// they sit and which rectangle they may draw into.
//
// The margin is recomputed from the label of the last line whenever the
// content, the label provider or the margin side changes, and is pushed back
// into the host as extra padding on that side. The host must not route
// ApplyPadding back into OnPaddingRequested.
//
// An Engine is not safe for concurrent use; call it from the goroutine that
// drives redraws.
package gutter
