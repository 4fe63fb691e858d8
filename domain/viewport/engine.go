package viewport

import (
	"fmt"
	"image"
	"io"
	"log/slog"
	"math"

	"github.com/disintegration/imaging"
	"github.com/dustin/go-humanize"
	"golang.org/x/image/draw"
)

// ZoomDirection selects the zoom operation applied by ZoomAt.
type ZoomDirection int

const (
	ZoomIn ZoomDirection = iota + 1
	ZoomOut
)

func (d ZoomDirection) String() string {
	switch d {
	case ZoomIn:
		return "in"
	case ZoomOut:
		return "out"
	default:
		return "unknown"
	}
}

// ZoomListener is called after every accepted zoom with the pivot and the
// factor applied to canvas-space geometry.
type ZoomListener func(pivotX, pivotY, factor float64)

// coordEpsilon absorbs float error in ImageCoordsOf so the canvas corner of
// an image pixel never floors into its left/top neighbour.
const coordEpsilon = 1e-9

// Options configures an Engine.
type Options struct {
	InitialScale      float64
	ZoomStep          float64
	MinPixelThreshold int
	TileCacheSize     int
	Filter            imaging.ResampleFilter
}

// DefaultOptions mirrors config.DefaultConfig.
func DefaultOptions() Options {
	return Options{
		InitialScale:      3.0,
		ZoomStep:          1.3,
		MinPixelThreshold: 30,
		TileCacheSize:     32,
		Filter:            imaging.Linear,
	}
}

func (o *Options) normalize() {
	d := DefaultOptions()
	if !(o.InitialScale > 0) || math.IsInf(o.InitialScale, 0) {
		o.InitialScale = d.InitialScale
	}
	if !(o.ZoomStep > 1) || math.IsInf(o.ZoomStep, 0) {
		o.ZoomStep = d.ZoomStep
	}
	if o.MinPixelThreshold < 1 {
		o.MinPixelThreshold = d.MinPixelThreshold
	}
	if o.TileCacheSize < 1 {
		o.TileCacheSize = d.TileCacheSize
	}
}

// Engine owns the view state of a single open image: scale, container origin,
// scroll offset and viewport size. All state transitions are synchronous and
// end with a redraw, which is a pure projection of that state into a Frame and
// a scroll region.
//
// Engine is not safe for concurrent use; it is driven from the UI event loop.
type Engine struct {
	opts   Options
	logger *slog.Logger

	img           image.Image
	width, height int

	scale            float64
	originX, originY float64 // canvas-space top-left of the scaled image
	offsetX, offsetY float64 // canvas-space top-left of the viewport
	viewW, viewH     int

	region    Rect
	frames    frameRing
	seq       uint64
	tiles     *tileCache
	listeners []ZoomListener
}

// NewEngine constructs an engine with no image loaded.
func NewEngine(opts Options, logger *slog.Logger) *Engine {
	opts.normalize()
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Engine{
		opts:   opts,
		logger: logger,
		scale:  opts.InitialScale,
		tiles:  newTileCache(opts.TileCacheSize, opts.Filter),
	}
}

// AddZoomListener registers fn to be notified of accepted zooms.
func (e *Engine) AddZoomListener(fn ZoomListener) {
	if fn != nil {
		e.listeners = append(e.listeners, fn)
	}
}

// LoadImage replaces the current image and resets the view. A nil or empty
// image is rejected with ErrImageDecode and leaves the engine untouched.
func (e *Engine) LoadImage(img image.Image) error {
	if img == nil {
		return fmt.Errorf("%w: nil image", ErrImageDecode)
	}
	b := img.Bounds()
	if b.Dx() <= 0 || b.Dy() <= 0 {
		return fmt.Errorf("%w: empty image %dx%d", ErrImageDecode, b.Dx(), b.Dy())
	}
	e.img = img
	e.width, e.height = b.Dx(), b.Dy()
	e.scale = e.opts.InitialScale
	e.originX, e.originY = 0, 0
	e.offsetX, e.offsetY = 0, 0
	e.tiles.purge()
	e.frames.reset()
	e.logger.Info("viewport.load",
		"width", e.width,
		"height", e.height,
		"scale", e.scale,
	)
	e.Redraw()
	return nil
}

// LoadReader decodes r and loads the result.
func (e *Engine) LoadReader(r io.Reader) error {
	img, err := Decode(r)
	if err != nil {
		e.logger.Error("viewport.decode", "error", err)
		return err
	}
	return e.LoadImage(img)
}

// LoadFile decodes the image at path and loads it.
func (e *Engine) LoadFile(path string) error {
	img, size, err := DecodeFile(path)
	if err != nil {
		e.logger.Error("viewport.decode", "path", path, "error", err)
		return err
	}
	e.logger.Info("viewport.decode", "path", path, "size", humanize.Bytes(uint64(size)))
	return e.LoadImage(img)
}

// Resize sets the viewport size in canvas pixels and redraws. Negative sizes
// are treated as zero.
func (e *Engine) Resize(w, h int) {
	e.viewW, e.viewH = max(w, 0), max(h, 0)
	e.Redraw()
}

// PanBy shifts the visible region by a canvas-space delta and redraws.
//
// With an image loaded the offset is confined per axis: a view smaller than
// the image stays inside it, and an image smaller than the view stays fully
// visible. A view already outside that range (after a zoom) may move back
// toward it but never further away.
func (e *Engine) PanBy(dx, dy float64) {
	if math.IsNaN(dx) || math.IsNaN(dy) || math.IsInf(dx, 0) || math.IsInf(dy, 0) {
		return
	}
	nx, ny := e.offsetX+dx, e.offsetY+dy
	if e.img != nil {
		box := e.ContainerBounds()
		nx = confine(e.offsetX, nx, box.Left, box.Right, e.viewW)
		ny = confine(e.offsetY, ny, box.Top, box.Bottom, e.viewH)
	}
	e.offsetX, e.offsetY = nx, ny
	e.Redraw()
}

func confine(cur, next, lo, hi float64, view int) float64 {
	a, b := lo, hi-float64(view)
	if a > b {
		a, b = b, a
	}
	a, b = math.Min(a, cur), math.Max(b, cur)
	return math.Min(math.Max(next, a), b)
}

// ScrollTo moves the visible region's top-left to (x, y), confined like
// PanBy, and redraws.
func (e *Engine) ScrollTo(x, y float64) {
	e.PanBy(x-e.offsetX, y-e.offsetY)
}

// ZoomAt zooms about the canvas point (x, y). It reports whether the scale
// changed.
//
// Zooming only happens with the pivot strictly inside the image. Zoom-out is
// refused once the image's smaller side is at most MinPixelThreshold canvas
// pixels; zoom-in is refused once the scale reaches the viewport's smaller
// side. The two limits use different reference sizes on purpose. A refused
// step inside the image still redraws.
func (e *Engine) ZoomAt(x, y float64, dir ZoomDirection) (bool, error) {
	if !e.ContainerBounds().ContainsStrict(x, y) {
		return false, nil
	}
	factor := 1.0
	switch dir {
	case ZoomOut:
		s := float64(min(e.width, e.height))
		if int(s*e.scale) > e.opts.MinPixelThreshold {
			factor = 1 / e.opts.ZoomStep
		}
	case ZoomIn:
		s := float64(min(e.viewW, e.viewH))
		if s > e.scale {
			factor = e.opts.ZoomStep
		}
	default:
		return false, fmt.Errorf("unknown zoom direction %d", dir)
	}
	if factor == 1 {
		e.Redraw()
		return false, nil
	}
	next := e.scale * factor
	if !(next > 0) || math.IsInf(next, 0) {
		return false, fmt.Errorf("%w: %v", ErrInvalidScale, next)
	}
	e.scale = next
	e.originX = x + (e.originX-x)*factor
	e.originY = y + (e.originY-y)*factor
	for _, fn := range e.listeners {
		fn(x, y, factor)
	}
	e.logger.Debug("viewport.zoom",
		"direction", dir.String(),
		"scale", e.scale,
		"pivot_x", x,
		"pivot_y", y,
	)
	e.Redraw()
	return true, nil
}

// ImageCoordsOf converts a canvas-space point into image pixel coordinates.
// The result is not clamped to the image.
func (e *Engine) ImageCoordsOf(x, y float64) (int, int) {
	ix := math.Floor((x-e.originX)/e.scale + coordEpsilon)
	iy := math.Floor((y-e.originY)/e.scale + coordEpsilon)
	return int(ix), int(iy)
}

// CanvasCoordsOf converts image pixel coordinates into the canvas-space
// position of that pixel's top-left corner.
func (e *Engine) CanvasCoordsOf(ix, iy int) (float64, float64) {
	return e.originX + float64(ix)*e.scale, e.originY + float64(iy)*e.scale
}

// Redraw recomputes the scroll region and the visible tile. Without
// intervening state changes it is idempotent.
func (e *Engine) Redraw() {
	vis := e.ViewportRect()
	e.seq++
	if e.img == nil {
		e.region = vis
		e.frames.push(Frame{Sequence: e.seq})
		return
	}
	box := e.ContainerBounds()

	region := box.Union(vis)
	// Whole image visible along an axis: don't let the scrollbar run past it.
	if region.Left == vis.Left && region.Right == vis.Right {
		region.Left, region.Right = box.Left, box.Right
	}
	if region.Top == vis.Top && region.Bottom == vis.Bottom {
		region.Top, region.Bottom = box.Top, box.Bottom
	}
	e.region = region

	// Visible tile relative to the container origin.
	x1 := math.Max(vis.Left-box.Left, 0)
	y1 := math.Max(vis.Top-box.Top, 0)
	x2 := math.Min(vis.Right, box.Right) - box.Left
	y2 := math.Min(vis.Bottom, box.Bottom) - box.Top
	outW, outH := int(x2-x1), int(y2-y1)
	if outW <= 0 || outH <= 0 {
		e.frames.push(Frame{Sequence: e.seq})
		return
	}

	s := e.scale
	src := image.Rect(int(x1/s), int(y1/s), min(int(x2/s), e.width), min(int(y2/s), e.height))
	src = widenToPixel(src, e.width, e.height)

	tile := e.tiles.tile(e.img, newTileKey(s, src, outW, outH))
	buf := acquireFrame(image.Rect(0, 0, outW, outH))
	draw.Draw(buf, buf.Bounds(), tile, tile.Bounds().Min, draw.Src)

	at := image.Pt(int(math.Floor(math.Max(vis.Left, box.Left))), int(math.Floor(math.Max(vis.Top, box.Top))))
	e.frames.push(Frame{
		Image:     buf,
		Placement: image.Rectangle{Min: at, Max: at.Add(image.Pt(outW, outH))},
		Sequence:  e.seq,
	})
}

// widenToPixel guarantees src covers at least one source pixel per axis.
// High zoom levels can otherwise truncate a visible sliver to zero width.
func widenToPixel(src image.Rectangle, w, h int) image.Rectangle {
	if src.Dx() < 1 {
		src.Min.X = min(src.Min.X, w-1)
		src.Max.X = src.Min.X + 1
	}
	if src.Dy() < 1 {
		src.Min.Y = min(src.Min.Y, h-1)
		src.Max.Y = src.Min.Y + 1
	}
	return src
}

// Frame returns the most recent redraw result.
func (e *Engine) Frame() Frame { return e.frames.current }

// ScrollRegion returns the bounds the scrollbars should cover.
func (e *Engine) ScrollRegion() Rect { return e.region }

// ContainerBounds returns the canvas-space rectangle of the full scaled
// image, or the zero Rect when nothing is loaded.
func (e *Engine) ContainerBounds() Rect {
	if e.img == nil {
		return Rect{}
	}
	return R(e.originX, e.originY,
		e.originX+float64(e.width)*e.scale,
		e.originY+float64(e.height)*e.scale)
}

// ViewportRect returns the visible canvas-space rectangle.
func (e *Engine) ViewportRect() Rect {
	return R(e.offsetX, e.offsetY, e.offsetX+float64(e.viewW), e.offsetY+float64(e.viewH))
}

// ScrollOffset returns the canvas-space top-left of the viewport.
func (e *Engine) ScrollOffset() (float64, float64) { return e.offsetX, e.offsetY }

// ViewportSize returns the viewport size in canvas pixels.
func (e *Engine) ViewportSize() (int, int) { return e.viewW, e.viewH }

// Scale returns the current image-to-canvas zoom factor.
func (e *Engine) Scale() float64 { return e.scale }

// ImageSize returns the original pixel size of the loaded image.
func (e *Engine) ImageSize() (int, int) { return e.width, e.height }

// HasImage reports whether an image is loaded.
func (e *Engine) HasImage() bool { return e.img != nil }

// TileStats reports tile cache activity.
func (e *Engine) TileStats() TileStats { return e.tiles.stats() }
