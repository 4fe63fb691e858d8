package model

import "image"

// PanModel tracks a drag-to-pan gesture. The zero value is idle and usable.
// No synchronization needed: updates occur on the UI thread.
type PanModel struct {
	active bool
	last   image.Point
}

// Mark starts a pan gesture at the widget-relative point (x, y).
func (m *PanModel) Mark(x, y int) {
	if m == nil {
		return
	}
	m.active = true
	m.last = image.Pt(x, y)
}

// DragTo returns the pointer movement since the previous Mark/DragTo. ok is
// false when no gesture is active.
func (m *PanModel) DragTo(x, y int) (dx, dy int, ok bool) {
	if m == nil || !m.active {
		return 0, 0, false
	}
	dx, dy = x-m.last.X, y-m.last.Y
	m.last = image.Pt(x, y)
	return dx, dy, true
}

// Release ends the gesture.
func (m *PanModel) Release() {
	if m == nil {
		return
	}
	m.active = false
}

// Active reports whether a pan gesture is in progress.
func (m *PanModel) Active() bool { return m != nil && m.active }
