package images

import (
	"image"
	"image/color"

	"golang.org/x/image/draw"
)

// Outline is a rectangle outline in canvas space.
type Outline struct {
	Rect  image.Rectangle
	Color color.RGBA
	Width int
}

// Scene is everything visible through the viewport for one paint.
type Scene struct {
	Size       image.Point     // viewport size in pixels
	Offset     image.Point     // canvas-space top-left of the viewport
	Background *image.RGBA     // resampled image tile, may be nil
	Placement  image.Rectangle // canvas-space rectangle of Background
	Outlines   []Outline
	Fill       color.RGBA
}

// RenderViewport composes the scene into a new Size-sized RGBA. Canvas-space
// geometry is translated by -Offset; anything outside the viewport is clipped.
func RenderViewport(s Scene) *image.RGBA {
	w, h := max(s.Size.X, 1), max(s.Size.Y, 1)
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(dst, dst.Bounds(), &image.Uniform{C: s.Fill}, image.Point{}, draw.Src)
	if s.Background != nil && !s.Placement.Empty() {
		r := s.Placement.Sub(s.Offset)
		draw.Draw(dst, r, s.Background, s.Background.Bounds().Min, draw.Src)
	}
	for _, o := range s.Outlines {
		DrawOutline(dst, o.Rect.Sub(s.Offset), o.Color, o.Width)
	}
	return dst
}

// DrawOutline strokes the inside edge of r on dst with the given width. A
// degenerate rectangle still draws as a line or point so a fresh draft is
// visible.
func DrawOutline(dst draw.Image, r image.Rectangle, c color.RGBA, width int) {
	if width < 1 {
		width = 1
	}
	r = r.Canon()
	if r.Dx() < width {
		r.Max.X = r.Min.X + width
	}
	if r.Dy() < width {
		r.Max.Y = r.Min.Y + width
	}
	src := &image.Uniform{C: c}
	edges := []image.Rectangle{
		image.Rect(r.Min.X, r.Min.Y, r.Max.X, r.Min.Y+width),
		image.Rect(r.Min.X, r.Max.Y-width, r.Max.X, r.Max.Y),
		image.Rect(r.Min.X, r.Min.Y, r.Min.X+width, r.Max.Y),
		image.Rect(r.Max.X-width, r.Min.Y, r.Max.X, r.Max.Y),
	}
	for _, e := range edges {
		draw.Draw(dst, e.Intersect(dst.Bounds()), src, image.Point{}, draw.Src)
	}
}
