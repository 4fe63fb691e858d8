package presenter

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"log/slog"
	"math"
	"strings"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/soocke/yaat-go/domain/annotation"
	"github.com/soocke/yaat-go/domain/viewport"
	"github.com/soocke/yaat-go/ui/images"
	"github.com/soocke/yaat-go/ui/model"
)

// Pointer buttons as reported by Tk.
const (
	ButtonDraw = 1
	ButtonPan  = 2
)

const (
	keyPanStep   = 40.0
	outlineWidth = 2
)

var viewportFill = color.RGBA{R: 0x20, G: 0x20, B: 0x24, A: 0xff}

// ViewportEngine is the subset of viewport.Engine used by the presenter.
type ViewportEngine interface {
	LoadFile(path string) error
	LoadImage(img image.Image) error
	Resize(w, h int)
	PanBy(dx, dy float64)
	ScrollTo(x, y float64)
	ZoomAt(x, y float64, dir viewport.ZoomDirection) (bool, error)
	ScrollOffset() (float64, float64)
	ViewportSize() (int, int)
	ScrollRegion() viewport.Rect
	ViewportRect() viewport.Rect
	ContainerBounds() viewport.Rect
	CanvasCoordsOf(ix, iy int) (float64, float64)
	Frame() viewport.Frame
	Scale() float64
	ImageSize() (int, int)
	HasImage() bool
}

// AnnotationLayer is the subset of annotation.Layer used by the presenter.
type AnnotationLayer interface {
	Begin(x, y float64) (annotation.Handle, error)
	Update(h annotation.Handle, x, y float64)
	Commit(h annotation.Handle) (annotation.Annotation, error)
	DeleteLast() bool
	SetColor(c annotation.Color) error
	Draft() (annotation.Draft, bool)
	Annotations() []annotation.Annotation
	Reset()
}

// ViewerView is the UI surface updated by the presenter.
type ViewerView interface {
	ShowViewport(img image.Image)
	SetScroll(x, y ScrollRange)
	SetStatus(text string)
	ShowError(err error)
}

// ScrollRange is the visible span of one scrollbar axis as fractions of the
// scroll region, in the form Tk scrollbars take.
type ScrollRange struct {
	First, Last float64
}

// Full reports whether the whole region is visible, in which case the
// scrollbar is hidden.
func (r ScrollRange) Full() bool { return r.First <= 0 && r.Last >= 1 }

// String formats r for TScrollbar.Set.
func (r ScrollRange) String() string { return fmt.Sprintf("%.6f %.6f", r.First, r.Last) }

// ScrollRanges maps the visible rectangle onto the scroll region.
func ScrollRanges(region, vis viewport.Rect) (x, y ScrollRange) {
	span := func(lo, hi, vlo, vhi float64) ScrollRange {
		w := hi - lo
		if w <= 0 {
			return ScrollRange{0, 1}
		}
		return ScrollRange{
			First: math.Max((vlo-lo)/w, 0),
			Last:  math.Min((vhi-lo)/w, 1),
		}
	}
	return span(region.Left, region.Right, vis.Left, vis.Right),
		span(region.Top, region.Bottom, vis.Top, vis.Bottom)
}

// TextClipboard receives exported annotation text.
type TextClipboard interface {
	WriteText(text string) error
}

// ScreenGrabber captures the screen as an image source.
type ScreenGrabber func() (*image.RGBA, error)

// ViewerPresenter dispatches host UI events into the viewport engine and the
// annotation layer. Event handlers only mutate state and mark the presenter
// dirty; Tick pushes at most one composed frame to the view.
type ViewerPresenter struct {
	Engine    ViewportEngine
	Layer     AnnotationLayer
	View      ViewerView
	Pan       *model.PanModel
	Pointer   *model.PointerModel
	Session   *model.SessionModel
	Clipboard TextClipboard
	Screen    ScreenGrabber
	logger    *slog.Logger

	drawing    annotation.Handle
	fill       color.RGBA
	dirty      bool
	lastStatus string
}

// NewViewerPresenter constructs the presenter. Clipboard and Screen may be nil.
func NewViewerPresenter(engine ViewportEngine, layer AnnotationLayer, view ViewerView, session *model.SessionModel, logger *slog.Logger) *ViewerPresenter {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	if session == nil {
		session = model.NewSessionModel()
	}
	return &ViewerPresenter{
		Engine:  engine,
		Layer:   layer,
		View:    view,
		Pan:     &model.PanModel{},
		Pointer: model.NewPointerModel(),
		Session: session,
		logger:  logger,
		fill:    viewportFill,
		dirty:   true,
	}
}

// Load replaces the image with the file at path. On failure the previous
// image and its annotations are kept.
func (p *ViewerPresenter) Load(path string) {
	if p == nil || p.Engine == nil {
		return
	}
	if err := p.Engine.LoadFile(path); err != nil {
		p.fail("load", err)
		return
	}
	p.afterLoad()
}

// LoadScreenshot replaces the image with a capture of the screen.
func (p *ViewerPresenter) LoadScreenshot() {
	if p == nil || p.Engine == nil || p.Screen == nil {
		return
	}
	img, err := p.Screen()
	if err != nil {
		p.fail("screenshot", err)
		return
	}
	if err := p.Engine.LoadImage(img); err != nil {
		p.fail("screenshot", err)
		return
	}
	p.afterLoad()
}

func (p *ViewerPresenter) afterLoad() {
	p.Layer.Reset()
	p.drawing = annotation.Handle{}
	p.Pan.Release()
	p.Session.OnImageLoaded(time.Now())
	p.dirty = true
}

// OnResize handles a viewport size change.
func (p *ViewerPresenter) OnResize(w, h int) {
	if p == nil || p.Engine == nil {
		return
	}
	if cw, ch := p.Engine.ViewportSize(); cw == w && ch == h {
		return
	}
	p.Engine.Resize(w, h)
	p.dirty = true
}

// OnWheel zooms about the widget-relative point (x, y).
func (p *ViewerPresenter) OnWheel(dir viewport.ZoomDirection, x, y int) {
	if p == nil || p.Engine == nil {
		return
	}
	p.Pointer.Set(x, y)
	p.zoomAt(dir, x, y)
}

func (p *ViewerPresenter) zoomAt(dir viewport.ZoomDirection, x, y int) {
	cx, cy := p.canvasPoint(x, y)
	if _, err := p.Engine.ZoomAt(cx, cy, dir); err != nil {
		p.fail("zoom", err)
		return
	}
	p.dirty = true
}

// OnMotion records the pointer position for keyboard zoom.
func (p *ViewerPresenter) OnMotion(x, y int) {
	if p == nil {
		return
	}
	p.Pointer.Set(x, y)
}

// OnLeave forgets the pointer position.
func (p *ViewerPresenter) OnLeave() {
	if p == nil {
		return
	}
	p.Pointer.Forget()
}

// OnPress handles a pointer button press at the widget-relative point (x, y).
func (p *ViewerPresenter) OnPress(button, x, y int) {
	if p == nil || p.Engine == nil || p.Layer == nil {
		return
	}
	p.Pointer.Set(x, y)
	switch button {
	case ButtonDraw:
		cx, cy := p.canvasPoint(x, y)
		h, err := p.Layer.Begin(cx, cy)
		switch {
		case errors.Is(err, annotation.ErrNoImage):
			return
		case err != nil:
			p.fail("annotate", err)
			return
		}
		p.drawing = h
		p.dirty = true
	case ButtonPan:
		p.Pan.Mark(x, y)
	}
}

// OnDrag handles pointer motion with a button held.
func (p *ViewerPresenter) OnDrag(button, x, y int) {
	if p == nil || p.Engine == nil || p.Layer == nil {
		return
	}
	p.Pointer.Set(x, y)
	switch button {
	case ButtonDraw:
		if !p.drawing.Valid() {
			return
		}
		cx, cy := p.canvasPoint(x, y)
		p.Layer.Update(p.drawing, cx, cy)
		p.dirty = true
	case ButtonPan:
		if dx, dy, ok := p.Pan.DragTo(x, y); ok && (dx != 0 || dy != 0) {
			// Content follows the pointer, so the view moves the other way.
			p.Engine.PanBy(float64(-dx), float64(-dy))
			p.dirty = true
		}
	}
}

// OnRelease handles a pointer button release.
func (p *ViewerPresenter) OnRelease(button, x, y int) {
	if p == nil || p.Engine == nil || p.Layer == nil {
		return
	}
	switch button {
	case ButtonDraw:
		if !p.drawing.Valid() {
			return
		}
		cx, cy := p.canvasPoint(x, y)
		p.Layer.Update(p.drawing, cx, cy)
		if _, err := p.Layer.Commit(p.drawing); err != nil {
			p.fail("annotate", err)
		}
		p.drawing = annotation.Handle{}
		p.dirty = true
	case ButtonPan:
		p.Pan.Release()
	}
}

// OnKey handles a key press by Tk keysym.
func (p *ViewerPresenter) OnKey(keysym string) {
	if p == nil || p.Engine == nil || p.Layer == nil {
		return
	}
	switch keysym {
	case "Delete", "BackSpace":
		if p.Layer.DeleteLast() {
			p.dirty = true
		}
	case "plus", "equal", "KP_Add":
		p.keyZoom(viewport.ZoomIn)
	case "minus", "KP_Subtract":
		p.keyZoom(viewport.ZoomOut)
	case "Left":
		p.panKey(-keyPanStep, 0)
	case "Right":
		p.panKey(keyPanStep, 0)
	case "Up":
		p.panKey(0, -keyPanStep)
	case "Down":
		p.panKey(0, keyPanStep)
	case "Home":
		b := p.Engine.ContainerBounds()
		p.Engine.ScrollTo(b.Left, b.Top)
		p.dirty = true
	}
}

func (p *ViewerPresenter) keyZoom(dir viewport.ZoomDirection) {
	pos, ok := p.Pointer.Position()
	if !ok {
		w, h := p.Engine.ViewportSize()
		pos = image.Pt(w/2, h/2)
	}
	p.zoomAt(dir, pos.X, pos.Y)
}

func (p *ViewerPresenter) panKey(dx, dy float64) {
	p.Engine.PanBy(dx, dy)
	p.dirty = true
}

// OnScroll moves the view so that the given axis starts at fraction first of
// the scroll region, as a scrollbar "moveto" does.
func (p *ViewerPresenter) OnScroll(horizontal bool, first float64) {
	if p == nil || p.Engine == nil || math.IsNaN(first) {
		return
	}
	first = math.Min(math.Max(first, 0), 1)
	r := p.Engine.ScrollRegion()
	x, y := p.Engine.ScrollOffset()
	if horizontal {
		x = r.Left + first*r.Width()
	} else {
		y = r.Top + first*r.Height()
	}
	p.Engine.ScrollTo(x, y)
	p.dirty = true
}

// SetColor sets the outline color of subsequently drawn annotations.
func (p *ViewerPresenter) SetColor(c string) {
	if p == nil || p.Layer == nil {
		return
	}
	if err := p.Layer.SetColor(annotation.Color(c)); err != nil {
		p.fail("color", err)
		return
	}
	p.dirty = true
}

// SetFill sets the color painted where the viewport shows no image.
func (p *ViewerPresenter) SetFill(c color.RGBA) {
	if p == nil || p.fill == c {
		return
	}
	p.fill = c
	p.dirty = true
}

// CopyAnnotations writes the committed annotations to the clipboard, one
// "x1 y1 x2 y2 color" line each.
func (p *ViewerPresenter) CopyAnnotations() {
	if p == nil || p.Layer == nil || p.Clipboard == nil {
		return
	}
	list := p.Layer.Annotations()
	if err := p.Clipboard.WriteText(FormatAnnotations(list)); err != nil {
		p.fail("clipboard", err)
		return
	}
	p.logger.Info("annotation.copy", "count", len(list))
}

// FormatAnnotations renders annotations as whitespace-separated lines.
func FormatAnnotations(list []annotation.Annotation) string {
	var b strings.Builder
	for _, a := range list {
		fmt.Fprintf(&b, "%d %d %d %d %s\n", a.X1, a.Y1, a.X2, a.Y2, a.Color)
	}
	return b.String()
}

// Tick advances the session clock, refreshes the status line and pushes a
// new viewport image when something changed since the last tick.
func (p *ViewerPresenter) Tick(now time.Time) {
	if p == nil || p.Engine == nil || p.View == nil {
		return
	}
	p.Session.OnTick(now)
	if p.dirty {
		p.dirty = false
		p.View.ShowViewport(p.compose())
		p.View.SetScroll(ScrollRanges(p.Engine.ScrollRegion(), p.Engine.ViewportRect()))
	}
	if st := p.status(); st != p.lastStatus {
		p.lastStatus = st
		p.View.SetStatus(st)
	}
}

// Dirty reports whether a viewport update is pending.
func (p *ViewerPresenter) Dirty() bool { return p != nil && p.dirty }

func (p *ViewerPresenter) compose() *image.RGBA {
	w, h := p.Engine.ViewportSize()
	ox, oy := p.Engine.ScrollOffset()
	frame := p.Engine.Frame()
	scene := images.Scene{
		Size:       image.Pt(w, h),
		Offset:     image.Pt(int(math.Floor(ox)), int(math.Floor(oy))),
		Background: frame.Image,
		Placement:  frame.Placement,
		Fill:       p.fill,
	}
	for _, a := range p.Layer.Annotations() {
		x1, y1 := p.Engine.CanvasCoordsOf(a.X1, a.Y1)
		x2, y2 := p.Engine.CanvasCoordsOf(a.X2, a.Y2)
		scene.Outlines = append(scene.Outlines, images.Outline{
			Rect:  canvasRect(viewport.R(x1, y1, x2, y2)),
			Color: a.Color.RGBA(),
			Width: outlineWidth,
		})
	}
	if d, ok := p.Layer.Draft(); ok {
		scene.Outlines = append(scene.Outlines, images.Outline{
			Rect:  canvasRect(d.Rect()),
			Color: d.Color.RGBA(),
			Width: outlineWidth,
		})
	}
	return images.RenderViewport(scene)
}

func (p *ViewerPresenter) status() string {
	session, total := p.Session.Values()
	if !p.Engine.HasImage() {
		return "No image. Open a file or take a screenshot."
	}
	w, h := p.Engine.ImageSize()
	return fmt.Sprintf("%s × %s px | zoom %.0f%% | %d boxes | image %s | total %s",
		humanize.Comma(int64(w)), humanize.Comma(int64(h)),
		p.Engine.Scale()*100,
		len(p.Layer.Annotations()),
		formatClock(session), formatClock(total),
	)
}

func (p *ViewerPresenter) canvasPoint(x, y int) (float64, float64) {
	ox, oy := p.Engine.ScrollOffset()
	return ox + float64(x), oy + float64(y)
}

func (p *ViewerPresenter) fail(op string, err error) {
	p.logger.Error("viewer."+op, "error", err)
	if p.View != nil {
		p.View.ShowError(err)
	}
}

func canvasRect(r viewport.Rect) image.Rectangle {
	return image.Rect(
		int(math.Floor(r.Left)), int(math.Floor(r.Top)),
		int(math.Ceil(r.Right)), int(math.Ceil(r.Bottom)),
	)
}

func formatClock(d time.Duration) string {
	secs := int(d / time.Second)
	return fmt.Sprintf("%02d:%02d", secs/60, secs%60)
}
