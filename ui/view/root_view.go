package view

import (
	"image"
	"log/slog"

	"github.com/soocke/yaat-go/config"
	"github.com/soocke/yaat-go/ui/presenter"
	"github.com/soocke/yaat-go/ui/theme"

	//lint:ignore ST1001 Dot import is intentional for concise Tk widget DSL builders.
	. "modernc.org/tk9.0"
)

// RootView composes the top-level application layout and wires UI callbacks.
// It owns the subviews and satisfies presenter.ViewerView.
type RootView struct {
	cfg     *config.Config
	cfgPath string
	logger  *slog.Logger

	// Subviews
	Viewport ViewportView
	Settings ConfigPanel

	// Widgets
	StatusLabel *TLabelWidget
	showsError  bool
}

// Actions are the toolbar and keyboard callbacks supplied by the app.
type Actions struct {
	Open       func(path string)
	Screenshot func()
	SetColor   func(color string)
	Copy       func()
	Key        func(keysym string)
	Applied    func(cfg *config.Config)
	Palette    func(p theme.PaletteSnapshot)
	Exit       func()
}

func NewRootView(cfg *config.Config, cfgPath string, logger *slog.Logger) *RootView {
	return &RootView{cfg: cfg, cfgPath: cfgPath, logger: logger}
}

// Build constructs the layout: toolbar, status line and viewport.
func (rv *RootView) Build(actions Actions, handlers ViewportHandlers) {
	if rv == nil {
		return
	}
	// Row 0: toolbar
	bar := Frame()
	Grid(bar, Row(0), Column(0), Columnspan(2), Sticky("we"), Padx("0.3m"), Pady("0.3m"))
	col := 0
	add := func(w Widget) {
		Grid(w, In(bar), Row(0), Column(col), Sticky("we"), Padx("0.2m"), Pady("0.2m"))
		col++
	}
	openFile := func() {
		if actions.Open == nil {
			return
		}
		if files := GetOpenFile(Title("Open image")); len(files) > 0 && files[0] != "" {
			actions.Open(files[0])
		}
	}
	add(TButton(Txt("Open…"), Style(theme.StylePrimaryButton), Command(openFile)))
	if actions.Screenshot != nil {
		add(TButton(Txt("Screenshot"), Command(actions.Screenshot)))
	}
	for _, preset := range theme.AnnotationPresets {
		c := preset.Color
		add(TButton(Txt(preset.Name), Style(theme.SwatchStyle(c)), Command(func() {
			if actions.SetColor != nil {
				actions.SetColor(c)
			}
		})))
	}
	if actions.Copy != nil {
		add(TButton(Txt("Copy boxes"), Command(actions.Copy)))
	}
	rv.Settings = NewConfigPanel(rv.cfg, rv.cfgPath, rv.logger, actions.Applied)
	add(TButton(Txt("Settings"), Command(rv.Settings.OpenOrFocus)))
	var dark *TButtonWidget
	dark = TButton(Txt(darkLabel()), Command(func() {
		theme.ToggleDark()
		dark.Configure(Txt(darkLabel()))
		p := theme.CurrentPalette()
		if rv.Viewport != nil {
			rv.Viewport.SetBackground(p.Viewport)
		}
		if actions.Palette != nil {
			actions.Palette(p)
		}
	}))
	add(dark)
	if actions.Exit != nil {
		add(TButton(Txt("Quit"), Command(actions.Exit)))
	}

	// Row 1: status line
	rv.StatusLabel = TLabel(Txt(""), Style(theme.StyleStatusLabel), Anchor("w"))
	Grid(rv.StatusLabel, Row(1), Column(0), Columnspan(2), Sticky("we"), Padx("0.3m"))

	// Row 2: viewport; button 3 opens the file dialog.
	if handlers.Context == nil {
		handlers.Context = openFile
	}
	rv.Viewport = NewViewportView(2, handlers)

	if actions.Key != nil {
		Bind(App, "<KeyPress>", Command(func(e *Event) { actions.Key(e.Keysym) }))
	}
}

func darkLabel() string {
	if theme.IsDark() {
		return "Light"
	}
	return "Dark"
}

// ShowViewport proxies to the viewport view.
func (rv *RootView) ShowViewport(img image.Image) {
	if rv != nil && rv.Viewport != nil {
		rv.Viewport.Show(img)
	}
}

// SetScroll proxies to the viewport view.
func (rv *RootView) SetScroll(x, y presenter.ScrollRange) {
	if rv != nil && rv.Viewport != nil {
		rv.Viewport.SetScroll(x, y)
	}
}

// SetStatus updates the status line. A pending error stays visible until the
// next status change.
func (rv *RootView) SetStatus(text string) {
	if rv == nil || rv.StatusLabel == nil {
		return
	}
	if rv.showsError {
		rv.showsError = false
		rv.StatusLabel.Configure(Style(theme.StyleStatusLabel))
	}
	rv.StatusLabel.Configure(Txt(text))
}

// ShowError shows err on the status line.
func (rv *RootView) ShowError(err error) {
	if rv == nil || rv.StatusLabel == nil || err == nil {
		return
	}
	rv.showsError = true
	rv.StatusLabel.Configure(Style(theme.StyleErrorLabel), Txt("Error: "+err.Error()))
}
