package viewport

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"math"
	"strings"
	"testing"
)

// patternImage returns a w x h image whose pixels encode their coordinates.
func patternImage(w, h int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetRGBA(x, y, color.RGBA{uint8(x), uint8(y), uint8(x ^ y), 255})
		}
	}
	return img
}

func newTestEngine(t *testing.T, w, h int, opts Options) *Engine {
	t.Helper()
	e := NewEngine(opts, nil)
	if err := e.LoadImage(patternImage(w, h)); err != nil {
		t.Fatalf("load: %v", err)
	}
	return e
}

func TestEngine_LoadResetsView(t *testing.T) {
	e := newTestEngine(t, 100, 100, DefaultOptions())
	if e.Scale() != 3.0 {
		t.Fatalf("expected initial scale 3, got %v", e.Scale())
	}
	if got := e.ContainerBounds(); got != R(0, 0, 300, 300) {
		t.Fatalf("unexpected container %v", got)
	}
	e.Resize(200, 200)
	e.PanBy(40, 40)
	if _, err := e.ZoomAt(100, 100, ZoomIn); err != nil {
		t.Fatalf("zoom: %v", err)
	}
	if err := e.LoadImage(patternImage(20, 10)); err != nil {
		t.Fatalf("reload: %v", err)
	}
	if e.Scale() != 3.0 || e.ContainerBounds() != R(0, 0, 60, 30) {
		t.Fatalf("reload did not reset: scale=%v container=%v", e.Scale(), e.ContainerBounds())
	}
	if x, y := e.ScrollOffset(); x != 0 || y != 0 {
		t.Fatalf("reload did not reset offset: %v,%v", x, y)
	}
}

func TestEngine_FailedLoadKeepsState(t *testing.T) {
	e := newTestEngine(t, 100, 100, DefaultOptions())
	e.Resize(120, 80)
	e.PanBy(10, 5)
	before := snapshot(e)

	err := e.LoadReader(strings.NewReader("definitely not an image"))
	if !errors.Is(err, ErrImageDecode) {
		t.Fatalf("expected ErrImageDecode, got %v", err)
	}
	if err := e.LoadImage(nil); !errors.Is(err, ErrImageDecode) {
		t.Fatalf("expected ErrImageDecode for nil image, got %v", err)
	}
	if err := e.LoadImage(image.NewRGBA(image.Rectangle{})); !errors.Is(err, ErrImageDecode) {
		t.Fatalf("expected ErrImageDecode for empty image, got %v", err)
	}
	if after := snapshot(e); after != before {
		t.Fatalf("state changed after failed load:\nbefore %+v\nafter  %+v", before, after)
	}
}

type engineState struct {
	scale     float64
	container Rect
	region    Rect
	viewport  Rect
	w, h      int
	seq       uint64
}

func snapshot(e *Engine) engineState {
	w, h := e.ImageSize()
	return engineState{
		scale:     e.Scale(),
		container: e.ContainerBounds(),
		region:    e.ScrollRegion(),
		viewport:  e.ViewportRect(),
		w:         w,
		h:         h,
		seq:       e.Frame().Sequence,
	}
}

func TestEngine_RedrawWholeImageVisible(t *testing.T) {
	e := newTestEngine(t, 100, 100, DefaultOptions())
	e.Resize(800, 600)

	if got := e.ScrollRegion(); got != R(0, 0, 300, 300) {
		t.Fatalf("scroll region should snap to image, got %v", got)
	}
	f := e.Frame()
	if f.Blank() {
		t.Fatalf("expected visible frame")
	}
	if f.Placement != image.Rect(0, 0, 300, 300) {
		t.Fatalf("unexpected placement %v", f.Placement)
	}
	if f.Image.Bounds().Dx() != 300 || f.Image.Bounds().Dy() != 300 {
		t.Fatalf("unexpected frame size %v", f.Image.Bounds())
	}
}

func TestEngine_RedrawPartialTile(t *testing.T) {
	e := newTestEngine(t, 100, 100, DefaultOptions())
	e.Resize(100, 100)
	e.PanBy(50, 0)

	if got := e.ScrollRegion(); got != R(0, 0, 300, 300) {
		t.Fatalf("unexpected scroll region %v", got)
	}
	f := e.Frame()
	if f.Placement != image.Rect(50, 0, 150, 100) {
		t.Fatalf("unexpected placement %v", f.Placement)
	}
}

func TestEngine_PanConfinedToImage(t *testing.T) {
	e := newTestEngine(t, 100, 100, DefaultOptions())
	e.Resize(100, 100)
	for i := 0; i < 10; i++ {
		e.PanBy(1000, 1000)
	}
	if x, y := e.ScrollOffset(); x != 200 || y != 200 {
		t.Fatalf("expected offset clamped to (200,200), got (%v,%v)", x, y)
	}
	if e.Frame().Blank() {
		t.Fatalf("view panned off the image")
	}
	if got := e.ScrollRegion(); got != R(0, 0, 300, 300) {
		t.Fatalf("scroll region should stay on the image, got %v", got)
	}
	e.ScrollTo(-50, 120)
	if x, y := e.ScrollOffset(); x != 0 || y != 120 {
		t.Fatalf("ScrollTo not confined: (%v,%v)", x, y)
	}
}

func TestEngine_PanKeepsSmallImageVisible(t *testing.T) {
	e := newTestEngine(t, 100, 100, DefaultOptions()) // 300x300 on canvas
	e.Resize(800, 600)
	e.PanBy(100, 100)
	if x, y := e.ScrollOffset(); x != 0 || y != 0 {
		t.Fatalf("image should not leave the view: (%v,%v)", x, y)
	}
	e.PanBy(-600, -600)
	if x, y := e.ScrollOffset(); x != -500 || y != -300 {
		t.Fatalf("expected offset (-500,-300), got (%v,%v)", x, y)
	}
}

func TestEngine_PanAfterZoomOnlyMovesBack(t *testing.T) {
	e := newTestEngine(t, 100, 100, DefaultOptions())
	e.Resize(200, 200)
	e.PanBy(100, 100)
	if _, err := e.ZoomAt(150, 150, ZoomOut); err != nil {
		t.Fatal(err)
	}
	// Container is now about (34.6,34.6)-(265.4,265.4); offset 100 is past its range.
	e.PanBy(10, 10)
	if x, y := e.ScrollOffset(); x != 100 || y != 100 {
		t.Fatalf("pan moved further outside: (%v,%v)", x, y)
	}
	e.PanBy(-50, -50)
	if x, y := e.ScrollOffset(); x != 50 || y != 50 {
		t.Fatalf("pan back toward the image refused: (%v,%v)", x, y)
	}
}

func TestEngine_ScrollRegionSnapsSingleAxis(t *testing.T) {
	e := newTestEngine(t, 100, 20, DefaultOptions()) // 300x60 on canvas
	e.Resize(200, 100)
	if got := e.ScrollRegion(); got != R(0, 0, 300, 60) {
		t.Fatalf("expected only the vertical span to snap, got %v", got)
	}
	if f := e.Frame(); f.Placement != image.Rect(0, 0, 200, 60) {
		t.Fatalf("unexpected placement %v", f.Placement)
	}
}

func TestEngine_RedrawIdempotent(t *testing.T) {
	e := newTestEngine(t, 120, 90, DefaultOptions())
	e.Resize(200, 150)
	e.PanBy(33, 17)

	first := e.Frame()
	firstPix := append([]byte(nil), first.Image.Pix...)
	region := e.ScrollRegion()
	misses := e.TileStats().Misses

	for i := 0; i < 3; i++ {
		e.Redraw()
		f := e.Frame()
		if f.Placement != first.Placement {
			t.Fatalf("placement changed: %v -> %v", first.Placement, f.Placement)
		}
		if !bytes.Equal(f.Image.Pix, firstPix) {
			t.Fatalf("frame pixels changed on redraw %d", i)
		}
		if e.ScrollRegion() != region {
			t.Fatalf("scroll region changed: %v -> %v", region, e.ScrollRegion())
		}
	}
	if got := e.TileStats().Misses; got != misses {
		t.Fatalf("repeated redraw should hit the tile cache, misses %d -> %d", misses, got)
	}
}

func TestEngine_ResizeIdempotent(t *testing.T) {
	e := newTestEngine(t, 64, 64, DefaultOptions())
	e.Resize(100, 70)
	before := snapshot(e)
	e.Resize(100, 70)
	after := snapshot(e)
	before.seq, after.seq = 0, 0
	if before != after {
		t.Fatalf("resize not idempotent:\n%+v\n%+v", before, after)
	}
}

func TestEngine_PreviousFrameSurvivesNextRedraw(t *testing.T) {
	e := newTestEngine(t, 100, 100, DefaultOptions())
	e.Resize(90, 90)
	held := e.Frame()
	heldPix := append([]byte(nil), held.Image.Pix...)

	e.PanBy(45, 45)
	if e.Frame().Sequence == held.Sequence {
		t.Fatalf("expected a new frame")
	}
	if !bytes.Equal(held.Image.Pix, heldPix) {
		t.Fatalf("previous frame was recycled before the next frame was displayed")
	}
}

func TestEngine_ZoomOutStopsAtThreshold(t *testing.T) {
	opts := DefaultOptions()
	opts.InitialScale = 1.0
	e := newTestEngine(t, 40, 40, opts)
	e.Resize(400, 400)

	changed := 0
	for i := 0; i < 10; i++ {
		ok, err := e.ZoomAt(20, 20, ZoomOut)
		if err != nil {
			t.Fatalf("zoom %d: %v", i, err)
		}
		if ok {
			changed++
		}
	}
	if changed != 1 {
		t.Fatalf("expected exactly one accepted zoom-out, got %d", changed)
	}
	if want := 1 / 1.3; math.Abs(e.Scale()-want) > 1e-12 {
		t.Fatalf("expected scale %v, got %v", want, e.Scale())
	}
	if int(40*e.Scale()) > 30 {
		t.Fatalf("image min side still above threshold: %v", 40*e.Scale())
	}
}

// Zoom-in is limited by the viewport size, zoom-out by the image size.
// The asymmetry is kept as-is.
func TestEngine_ZoomInStopsAtViewportLimit(t *testing.T) {
	e := newTestEngine(t, 100, 100, DefaultOptions())
	e.Resize(10, 12)

	var last float64
	for i := 0; i < 20; i++ {
		if _, err := e.ZoomAt(50, 50, ZoomIn); err != nil {
			t.Fatalf("zoom %d: %v", i, err)
		}
		last = e.Scale()
	}
	if last <= 10 {
		t.Fatalf("expected scale to pass the viewport side before stopping, got %v", last)
	}
	if last/1.3 >= 10 {
		t.Fatalf("zoom-in continued past the limit: %v", last)
	}
	if ok, _ := e.ZoomAt(50, 50, ZoomIn); ok || e.Scale() != last {
		t.Fatalf("zoom-in should be refused at %v", last)
	}
}

func TestEngine_ZoomOutsideImageIsNoop(t *testing.T) {
	e := newTestEngine(t, 100, 100, DefaultOptions())
	e.Resize(800, 600)
	before := snapshot(e)
	for _, pt := range [][2]float64{{400, 400}, {0, 0}, {300, 150}, {-5, 10}} {
		ok, err := e.ZoomAt(pt[0], pt[1], ZoomIn)
		if ok || err != nil {
			t.Fatalf("zoom at %v should be a no-op, got ok=%v err=%v", pt, ok, err)
		}
	}
	if after := snapshot(e); after != before {
		t.Fatalf("state changed:\n%+v\n%+v", before, after)
	}
}

func TestEngine_ZoomWithoutImageIsNoop(t *testing.T) {
	e := NewEngine(DefaultOptions(), nil)
	e.Resize(100, 100)
	if ok, err := e.ZoomAt(10, 10, ZoomIn); ok || err != nil {
		t.Fatalf("expected no-op, got ok=%v err=%v", ok, err)
	}
	if !e.Frame().Blank() {
		t.Fatalf("expected blank frame without an image")
	}
}

func TestEngine_ZoomPivotInvariance(t *testing.T) {
	e := newTestEngine(t, 200, 200, DefaultOptions())
	e.Resize(800, 600)

	px, py := 123.4, 87.9
	ix0, iy0 := e.ImageCoordsOf(px, py)
	dirs := []ZoomDirection{ZoomIn, ZoomIn, ZoomOut, ZoomIn, ZoomOut, ZoomOut, ZoomOut, ZoomIn}
	for i, d := range dirs {
		if _, err := e.ZoomAt(px, py, d); err != nil {
			t.Fatalf("zoom %d: %v", i, err)
		}
		ix, iy := e.ImageCoordsOf(px, py)
		if abs(ix-ix0) > 1 || abs(iy-iy0) > 1 {
			t.Fatalf("pivot drifted after %d zooms: (%d,%d) -> (%d,%d)", i+1, ix0, iy0, ix, iy)
		}
	}
}

func TestEngine_CoordinateRoundTrip(t *testing.T) {
	e := newTestEngine(t, 300, 200, DefaultOptions())
	e.Resize(640, 480)
	for _, d := range []ZoomDirection{ZoomOut, ZoomOut, ZoomIn, ZoomOut} {
		if _, err := e.ZoomAt(101.3, 77.7, d); err != nil {
			t.Fatalf("zoom: %v", err)
		}
	}
	for ix := 0; ix < 300; ix += 7 {
		iy := ix % 200
		cx, cy := e.CanvasCoordsOf(ix, iy)
		gx, gy := e.ImageCoordsOf(cx, cy)
		if gx != ix || gy != iy {
			t.Fatalf("image->canvas->image mismatch: (%d,%d) -> (%v,%v) -> (%d,%d)", ix, iy, cx, cy, gx, gy)
		}
		// canvas -> image -> canvas lands within one scaled pixel.
		qx, qy := cx+e.Scale()/2, cy+e.Scale()/2
		rx, ry := e.ImageCoordsOf(qx, qy)
		bx, by := e.CanvasCoordsOf(rx, ry)
		if math.Abs(bx-qx) > e.Scale() || math.Abs(by-qy) > e.Scale() {
			t.Fatalf("canvas round trip drifted: (%v,%v) -> (%v,%v)", qx, qy, bx, by)
		}
	}
}

func TestEngine_InvalidScaleRejected(t *testing.T) {
	opts := DefaultOptions()
	opts.ZoomStep = math.MaxFloat64
	e := newTestEngine(t, 50, 50, opts)
	e.Resize(100, 100)
	before := snapshot(e)

	ok, err := e.ZoomAt(10, 10, ZoomIn)
	if !errors.Is(err, ErrInvalidScale) || ok {
		t.Fatalf("expected ErrInvalidScale, got ok=%v err=%v", ok, err)
	}
	if after := snapshot(e); after != before {
		t.Fatalf("state changed after rejected zoom:\n%+v\n%+v", before, after)
	}
}

func TestEngine_ZoomListenerReceivesFactor(t *testing.T) {
	e := newTestEngine(t, 100, 100, DefaultOptions())
	e.Resize(400, 400)
	var gotX, gotY, gotF float64
	calls := 0
	e.AddZoomListener(func(x, y, f float64) { gotX, gotY, gotF = x, y, f; calls++ })

	if _, err := e.ZoomAt(60, 70, ZoomOut); err != nil {
		t.Fatal(err)
	}
	if calls != 1 || gotX != 60 || gotY != 70 || math.Abs(gotF-1/1.3) > 1e-12 {
		t.Fatalf("unexpected listener call: calls=%d pivot=(%v,%v) factor=%v", calls, gotX, gotY, gotF)
	}
	// Refused zooms don't notify.
	if _, err := e.ZoomAt(1000, 1000, ZoomOut); err != nil {
		t.Fatal(err)
	}
	if calls != 1 {
		t.Fatalf("listener called for a refused zoom")
	}
}

func TestWidenToPixel(t *testing.T) {
	got := widenToPixel(image.Rect(10, 4, 10, 4), 10, 20)
	if got != image.Rect(9, 4, 10, 5) {
		t.Fatalf("unexpected widened rect %v", got)
	}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
