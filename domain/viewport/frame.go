package viewport

import "image"

// Frame is the resampled background produced by one redraw.
//
// Image holds the visible tile of the source image at the current scale and
// is nil when no part of the image is visible. Placement is the tile's
// canvas-space rectangle.
//
// A Frame stays valid until the redraw after the next one: the engine keeps
// the current and the previous frame alive and recycles a buffer only once two
// newer frames exist. Hosts that hand Image to a rendering backend must finish
// with it (or copy it) before two further redraws.
type Frame struct {
	Image     *image.RGBA
	Placement image.Rectangle
	Sequence  uint64
}

// Blank reports whether the frame has nothing to draw.
func (f Frame) Blank() bool { return f.Image == nil || f.Placement.Empty() }

type frameRing struct {
	current  Frame
	previous Frame
}

func (r *frameRing) push(f Frame) {
	if r.previous.Image != nil && r.previous.Image != r.current.Image && r.previous.Image != f.Image {
		recycleFrame(r.previous.Image)
	}
	r.previous = r.current
	r.current = f
}

// reset drops both frames without recycling them; hosts may still hold them.
func (r *frameRing) reset() {
	r.current = Frame{}
	r.previous = Frame{}
}
