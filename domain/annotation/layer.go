package annotation

import (
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/soocke/yaat-go/domain/viewport"
)

// Viewport is the coordinate source the layer draws against.
type Viewport interface {
	ContainerBounds() viewport.Rect
	ImageCoordsOf(x, y float64) (int, int)
}

// Layer holds the open draft and the committed annotations of the active
// image. Committed annotations live in image space and are unaffected by
// zoom and pan. Not safe for concurrent use.
type Layer struct {
	vp        Viewport
	logger    *slog.Logger
	color     Color
	draft     *Draft
	committed []Annotation
}

// NewLayer returns an empty layer. An invalid initial color falls back to
// green.
func NewLayer(vp Viewport, c Color, logger *slog.Logger) *Layer {
	if _, err := ParseColor(string(c)); err != nil {
		c = "#00FF00"
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Layer{vp: vp, color: c, logger: logger}
}

// Begin opens a draft at the canvas point (x, y), clamped to the image.
func (l *Layer) Begin(x, y float64) (Handle, error) {
	if l.draft != nil {
		return Handle{}, ErrAnnotationInProgress
	}
	box := l.vp.ContainerBounds()
	if box.Empty() {
		return Handle{}, ErrNoImage
	}
	x, y = box.Clamp(x, y)
	h := Handle{id: uuid.New()}
	l.draft = &Draft{Handle: h, StartX: x, StartY: y, EndX: x, EndY: y, Color: l.color}
	return h, nil
}

// Update moves the draft's second corner to (x, y), clamped to the image.
// A handle other than the open draft's is ignored.
func (l *Layer) Update(h Handle, x, y float64) {
	if l.draft == nil || l.draft.Handle != h {
		return
	}
	l.draft.EndX, l.draft.EndY = l.vp.ContainerBounds().Clamp(x, y)
}

// Commit converts the draft to image space and appends it.
func (l *Layer) Commit(h Handle) (Annotation, error) {
	if l.draft == nil || l.draft.Handle != h {
		return Annotation{}, fmt.Errorf("%w: %s", ErrUnknownHandle, h)
	}
	d := l.draft
	x1, y1 := l.vp.ImageCoordsOf(d.StartX, d.StartY)
	x2, y2 := l.vp.ImageCoordsOf(d.EndX, d.EndY)
	a := Annotation{
		ID:    h.id,
		X1:    min(x1, x2),
		Y1:    min(y1, y2),
		X2:    max(x1, x2),
		Y2:    max(y1, y2),
		Color: d.Color,
	}
	l.committed = append(l.committed, a)
	l.draft = nil
	l.logger.Info("annotation.commit",
		"id", a.ID.String(),
		"x1", a.X1, "y1", a.Y1,
		"x2", a.X2, "y2", a.Y2,
		"color", string(a.Color),
	)
	return a, nil
}

// DeleteLast removes the most recently committed annotation. It reports
// whether anything was removed.
func (l *Layer) DeleteLast() bool {
	n := len(l.committed)
	if n == 0 {
		return false
	}
	a := l.committed[n-1]
	l.committed[n-1] = Annotation{}
	l.committed = l.committed[:n-1]
	l.logger.Info("annotation.delete", "id", a.ID.String(), "remaining", n-1)
	return true
}

// SetColor sets the color of annotations begun after this call.
func (l *Layer) SetColor(c Color) error {
	if _, err := ParseColor(string(c)); err != nil {
		return err
	}
	l.color = c
	return nil
}

// Color returns the color for new annotations.
func (l *Layer) Color() Color { return l.color }

// Rescale follows a viewport zoom: the draft's canvas points are scaled
// about the pivot so it stays attached to the same image pixels.
func (l *Layer) Rescale(pivotX, pivotY, factor float64) {
	if l.draft == nil {
		return
	}
	d := l.draft
	d.StartX = pivotX + (d.StartX-pivotX)*factor
	d.StartY = pivotY + (d.StartY-pivotY)*factor
	d.EndX = pivotX + (d.EndX-pivotX)*factor
	d.EndY = pivotY + (d.EndY-pivotY)*factor
}

// Reset drops the draft and all committed annotations.
func (l *Layer) Reset() {
	l.draft = nil
	l.committed = nil
}

// State reports whether a draft is open.
func (l *Layer) State() State {
	if l.draft != nil {
		return StateDrawing
	}
	return StateIdle
}

// Draft returns a copy of the open draft, if any.
func (l *Layer) Draft() (Draft, bool) {
	if l.draft == nil {
		return Draft{}, false
	}
	return *l.draft, true
}

// Annotations returns a copy of the committed annotations, oldest first.
func (l *Layer) Annotations() []Annotation {
	return append([]Annotation(nil), l.committed...)
}

// Len returns the number of committed annotations.
func (l *Layer) Len() int { return len(l.committed) }
