package app

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	//lint:ignore ST1001 Dot import is intentional for concise Tk widget DSL builders.
	. "modernc.org/tk9.0"

	"github.com/soocke/yaat-go/config"
	"github.com/soocke/yaat-go/debug"
	"github.com/soocke/yaat-go/domain/annotation"
	"github.com/soocke/yaat-go/domain/viewport"
	"github.com/soocke/yaat-go/ui/theme"
	"github.com/soocke/yaat-go/ui/view"
)

// tick is the repaint cadence of the viewport.
const tick = 16 * time.Millisecond

type app struct {
	c       *AppContainer
	afterID string
	cancel  context.CancelFunc
}

// NewApp builds the container and configures the main window.
func NewApp(title string, cfg *config.Config, cfgPath string, logger *slog.Logger) *app {
	a := &app{c: BuildContainer(cfg, cfgPath, logger)}

	App.WmTitle(title)
	WmProtocol(App, "WM_DELETE_WINDOW", a.exitHandler)
	WmGeometry(App, fmt.Sprintf("%dx%d+100+100", cfg.WindowWidth, cfg.WindowHeight))
	return a
}

// Start builds the UI, optionally loads initialPath and enters the Tk loop.
func (a *app) Start(initialPath string) {
	c := a.c
	ctx, cancel := context.WithCancel(context.Background())
	a.cancel = cancel
	if c.Config.Debug {
		debug.StartGoroutineLogger(ctx, 5*time.Second, c.Logger)
		debug.StartMemLogger(ctx, 5*time.Second, c.Logger)
	}

	theme.InitStyles()
	v := c.Viewer
	c.RootView.Build(view.Actions{
		Open:       v.Load,
		Screenshot: v.LoadScreenshot,
		SetColor:   v.SetColor,
		Copy:       v.CopyAnnotations,
		Key:        v.OnKey,
		Applied:    func(cfg *config.Config) { v.SetColor(cfg.AnnotationColor) },
		Palette:    func(p theme.PaletteSnapshot) { v.SetFill(annotation.Color(p.Viewport).RGBA()) },
		Exit:       a.exitHandler,
	}, view.ViewportHandlers{
		Press:   v.OnPress,
		Drag:    v.OnDrag,
		Release: v.OnRelease,
		Wheel: func(up bool, x, y int) {
			dir := viewport.ZoomOut
			if up {
				dir = viewport.ZoomIn
			}
			v.OnWheel(dir, x, y)
		},
		Motion: v.OnMotion,
		Leave:  v.OnLeave,
		Resize: v.OnResize,
		Scroll: v.OnScroll,
	})

	if initialPath != "" {
		v.Load(initialPath)
	}

	c.Loop.Schedule = a.scheduleUpdate
	a.scheduleUpdate()

	App.Wait()
}

func (a *app) update() { a.c.Loop.Tick() }

func (a *app) scheduleUpdate() {
	// Schedule the next update using TclAfter to stay on Tk's event loop thread.
	a.afterID = TclAfter(tick, func() { a.update() })
}

func (a *app) exitHandler() {
	if a.afterID != "" {
		TclAfterCancel(a.afterID)
	}
	if a.cancel != nil {
		a.cancel()
	}
	a.c.Logger.Info("app.exit", "annotations", a.c.Layer.Len(), "images", a.c.Session.Images())
	Destroy(App)
}
