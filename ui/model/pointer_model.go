package model

import "image"

// PointerModel remembers the last widget-relative pointer position so
// keyboard zoom can pivot where the mouse is. The zero value has no position.
type PointerModel struct {
	pos   image.Point
	known bool
}

func NewPointerModel() *PointerModel { return &PointerModel{} }

// Set records the pointer position.
func (m *PointerModel) Set(x, y int) {
	if m == nil {
		return
	}
	m.pos = image.Pt(x, y)
	m.known = true
}

// Forget clears the position, e.g. when the pointer leaves the viewport.
func (m *PointerModel) Forget() {
	if m == nil {
		return
	}
	m.known = false
}

// Position returns the last position and whether one is known.
func (m *PointerModel) Position() (image.Point, bool) {
	if m == nil {
		return image.Point{}, false
	}
	return m.pos, m.known
}
