package viewport

import (
	"image"
	"sync"
)

// Reusable frame buffers. Redraw produces one RGBA buffer per frame; panning
// a large image at interactive rates would otherwise churn the heap with
// viewport-sized allocations. Buffers only return to the pool once the frame
// ring has retired them, see frameRing.

var framePool sync.Pool // stores *image.RGBA

// acquireFrame returns a reusable RGBA image sized to rect. The returned Pix
// length exactly matches rect area * 4, and Stride is width*4. Pixel contents
// are unspecified.
func acquireFrame(rect image.Rectangle) *image.RGBA {
	w, h := rect.Dx(), rect.Dy()
	if w <= 0 || h <= 0 {
		return &image.RGBA{Rect: rect}
	}
	needed := w * h * 4
	var img *image.RGBA
	if v := framePool.Get(); v != nil {
		img = v.(*image.RGBA)
	}
	if img == nil || cap(img.Pix) < needed {
		img = &image.RGBA{Pix: make([]byte, needed), Stride: w * 4, Rect: rect}
	} else {
		img.Stride = w * 4
		img.Rect = rect
		img.Pix = img.Pix[:needed]
	}
	return img
}

// recycleFrame returns the buffer to the pool. The buffer must no longer be
// referenced by any displayed frame.
func recycleFrame(img *image.RGBA) {
	if img == nil || img.Pix == nil {
		return
	}
	framePool.Put(img)
}
