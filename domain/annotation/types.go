package annotation

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"regexp"
	"strconv"

	"github.com/google/uuid"

	"github.com/soocke/yaat-go/domain/viewport"
)

var (
	// ErrAnnotationInProgress is returned by Begin while a draft is open.
	ErrAnnotationInProgress = errors.New("annotation already in progress")
	// ErrUnknownHandle is returned by Commit for a handle that is not the open draft.
	ErrUnknownHandle = errors.New("unknown annotation handle")
	// ErrNoImage is returned by Begin when there is no image to draw on.
	ErrNoImage = viewport.ErrNoImage
	// ErrInvalidColor reports a color that is not #RRGGBB.
	ErrInvalidColor = errors.New("invalid color")
)

// State enumerates the layer's drawing states.
type State int

const (
	StateIdle State = iota
	StateDrawing
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateDrawing:
		return "drawing"
	default:
		return "unknown"
	}
}

// Color is an outline color in #RRGGBB form.
type Color string

var hexColorRe = regexp.MustCompile(`^#[0-9a-fA-F]{6}$`)

// ParseColor validates s as a #RRGGBB color.
func ParseColor(s string) (Color, error) {
	if !hexColorRe.MatchString(s) {
		return "", fmt.Errorf("%w: %q", ErrInvalidColor, s)
	}
	return Color(s), nil
}

// RGBA returns the opaque color value. Malformed colors yield opaque black.
func (c Color) RGBA() color.RGBA {
	if !hexColorRe.MatchString(string(c)) {
		return color.RGBA{A: 255}
	}
	v, _ := strconv.ParseUint(string(c[1:]), 16, 32)
	return color.RGBA{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v), A: 255}
}

// Handle identifies an in-progress annotation. The zero Handle matches nothing.
type Handle struct{ id uuid.UUID }

func (h Handle) Valid() bool    { return h.id != uuid.Nil }
func (h Handle) String() string { return h.id.String() }

// Annotation is a committed bounding box in image pixel coordinates with
// X1 <= X2 and Y1 <= Y2.
type Annotation struct {
	ID     uuid.UUID
	X1, Y1 int
	X2, Y2 int
	Color  Color
}

// Rect returns the box as an image.Rectangle.
func (a Annotation) Rect() image.Rectangle { return image.Rect(a.X1, a.Y1, a.X2, a.Y2) }

func (a Annotation) String() string {
	return fmt.Sprintf("(%d,%d)-(%d,%d) %s", a.X1, a.Y1, a.X2, a.Y2, a.Color)
}

// Draft is the open annotation, tracked in canvas space until commit.
type Draft struct {
	Handle         Handle
	StartX, StartY float64
	EndX, EndY     float64
	Color          Color
}

// Rect returns the draft's normalized canvas-space rectangle.
func (d Draft) Rect() viewport.Rect {
	return viewport.R(min(d.StartX, d.EndX), min(d.StartY, d.EndY), max(d.StartX, d.EndX), max(d.StartY, d.EndY))
}
