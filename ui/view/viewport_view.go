package view

import (
	"fmt"
	"image"
	"strconv"

	"github.com/soocke/yaat-go/ui/images"
	"github.com/soocke/yaat-go/ui/presenter"
	"github.com/soocke/yaat-go/ui/theme"

	//lint:ignore ST1001 Dot import is intentional for concise Tk widget DSL builders.
	. "modernc.org/tk9.0"
)

// ViewportView shows composed viewport images in a label and reports pointer,
// key and size events to the handlers it was built with.
type ViewportView interface {
	Show(img image.Image)
	SetScroll(x, y presenter.ScrollRange)
	SetBackground(color string)
}

// ViewportHandlers receives raw widget events. Coordinates are relative to the
// viewport widget.
type ViewportHandlers struct {
	Press   func(button, x, y int)
	Drag    func(button, x, y int)
	Release func(button, x, y int)
	Wheel   func(up bool, x, y int)
	Motion  func(x, y int)
	Leave   func()
	Resize  func(w, h int)
	Scroll  func(horizontal bool, first float64)
	Context func() // button 3
}

type viewportView struct {
	label     *LabelWidget
	prevPhoto *Img // last Tk photo shown; deleted on replacement
	row       int

	hbar, vbar     *TScrollbarWidget
	hshown, vshown bool
	hrange, vrange presenter.ScrollRange
}

const (
	placeholderW = 320
	placeholderH = 200
)

// NewViewportView creates the viewport label with its scrollbars, binds their
// events and grids the label at row so that it absorbs all extra window space.
// The horizontal scrollbar takes row+1.
func NewViewportView(row int, h ViewportHandlers) ViewportView {
	placeholder := image.NewRGBA(image.Rect(0, 0, placeholderW, placeholderH))
	photo := NewPhoto(Data(images.EncodePNG(placeholder)))
	lbl := Label(Image(photo), Borderwidth(0), Anchor("nw"), Background(theme.CurrentPalette().Viewport))
	Grid(lbl, Row(row), Column(0), Sticky("nsew"))
	GridRowConfigure(App, row, Weight(1))
	GridColumnConfigure(App, 0, Weight(1))
	v := &viewportView{
		label:     lbl,
		prevPhoto: photo,
		row:       row,
		// Positions come from the bindings below; the command only keeps Tk happy.
		hbar:   TScrollbar(Orient("horizontal"), Command(func() {})),
		vbar:   TScrollbar(Orient("vertical"), Command(func() {})),
		hrange: presenter.ScrollRange{Last: 1},
		vrange: presenter.ScrollRange{Last: 1},
	}
	v.bind(h)
	return v
}

func (v *viewportView) bind(h ViewportHandlers) {
	for _, b := range []int{1, 2} {
		b := b
		if h.Press != nil {
			Bind(v.label, pressSeq(b), Command(func(e *Event) { h.Press(b, e.X, e.Y) }))
		}
		if h.Drag != nil {
			Bind(v.label, dragSeq(b), Command(func(e *Event) { h.Drag(b, e.X, e.Y) }))
		}
		if h.Release != nil {
			Bind(v.label, releaseSeq(b), Command(func(e *Event) { h.Release(b, e.X, e.Y) }))
		}
	}
	if h.Wheel != nil {
		Bind(v.label, "<MouseWheel>", Command(func(e *Event) {
			if e.Delta != 0 {
				h.Wheel(e.Delta > 0, e.X, e.Y)
			}
		}))
	}
	if h.Motion != nil {
		Bind(v.label, "<Motion>", Command(func(e *Event) { h.Motion(e.X, e.Y) }))
	}
	if h.Leave != nil {
		Bind(v.label, "<Leave>", Command(h.Leave))
	}
	if h.Context != nil {
		Bind(v.label, "<ButtonPress-3>", Command(h.Context))
	}
	if h.Resize != nil {
		Bind(v.label, "<Configure>", Command(func(e *Event) {
			if w, ht, ok := parseSize(e.Width, e.Height); ok {
				h.Resize(w, ht)
			}
		}))
	}
	if h.Scroll != nil {
		v.bindScrollbar(v.hbar, true, h.Scroll)
		v.bindScrollbar(v.vbar, false, h.Scroll)
	}
}

// bindScrollbar centres the visible range on the pointer while button 1 is
// held on the scrollbar. The default ttk bindings are suppressed.
func (v *viewportView) bindScrollbar(sb *TScrollbarWidget, horizontal bool, scroll func(bool, float64)) {
	move := func(e *Event) {
		pos, length, r := e.Y, WinfoHeight(sb.Window), v.vrange
		if horizontal {
			pos, length, r = e.X, WinfoWidth(sb.Window), v.hrange
		}
		if first, ok := scrollFirst(pos, length, r); ok {
			scroll(horizontal, first)
		}
		e.SetReturnCodeBreak()
	}
	Bind(sb, "<ButtonPress-1>", Command(move))
	Bind(sb, "<B1-Motion>", Command(move))
	Bind(sb, "<ButtonRelease-1>", Command(func(e *Event) { e.SetReturnCodeBreak() }))
}

// parseSize reads the width and height fields of a <Configure> event.
func parseSize(w, h string) (int, int, bool) {
	wi, err := strconv.Atoi(w)
	if err != nil {
		return 0, 0, false
	}
	hi, err := strconv.Atoi(h)
	if err != nil {
		return 0, 0, false
	}
	return wi, hi, true
}

// scrollFirst maps a pointer position along a scrollbar of the given length
// (a Tk winfo string) to the leading fraction of a range of r's size centred
// on the pointer.
func scrollFirst(pos int, length string, r presenter.ScrollRange) (float64, bool) {
	n, err := strconv.Atoi(length)
	if err != nil || n <= 0 {
		return 0, false
	}
	return float64(pos)/float64(n) - (r.Last-r.First)/2, true
}

func pressSeq(b int) string   { return fmt.Sprintf("<ButtonPress-%d>", b) }
func dragSeq(b int) string    { return fmt.Sprintf("<B%d-Motion>", b) }
func releaseSeq(b int) string { return fmt.Sprintf("<ButtonRelease-%d>", b) }

// Show replaces the displayed image.
func (v *viewportView) Show(img image.Image) {
	if v == nil || v.label == nil || img == nil {
		return
	}
	pngBytes := images.EncodePNG(img)
	// Replace previous photo to avoid retaining obsolete pixel buffers.
	if v.prevPhoto != nil {
		v.prevPhoto.Delete()
	}
	v.prevPhoto = NewPhoto(Data(pngBytes))
	v.label.Configure(Image(v.prevPhoto))
}

// SetScroll positions the scrollbars. A scrollbar whose range covers the
// whole scroll region is hidden.
func (v *viewportView) SetScroll(x, y presenter.ScrollRange) {
	if v == nil || v.hbar == nil {
		return
	}
	v.hrange, v.vrange = x, y
	v.hshown = v.place(v.hbar, x, v.hshown, Row(v.row+1), Column(0), Sticky("we"))
	v.vshown = v.place(v.vbar, y, v.vshown, Row(v.row), Column(1), Sticky("ns"))
}

func (v *viewportView) place(sb *TScrollbarWidget, r presenter.ScrollRange, shown bool, opts ...Opt) bool {
	if r.Full() {
		if shown {
			GridRemove(sb.Window)
		}
		return false
	}
	if !shown {
		Grid(sb, opts...)
	}
	sb.Set(r.String())
	return true
}

// SetBackground recolors the area around the image.
func (v *viewportView) SetBackground(color string) {
	if v == nil || v.label == nil {
		return
	}
	v.label.Configure(Background(color))
}
