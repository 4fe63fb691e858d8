package app

import (
	"log/slog"

	"github.com/soocke/yaat-go/capture"
	"github.com/soocke/yaat-go/config"
	"github.com/soocke/yaat-go/domain/annotation"
	"github.com/soocke/yaat-go/domain/viewport"
	"github.com/soocke/yaat-go/ui/model"
	"github.com/soocke/yaat-go/ui/presenter"
	"github.com/soocke/yaat-go/ui/view"
)

// AppContainer assembles the engine, annotation layer, presenters and the
// root view.
type AppContainer struct {
	Config   *config.Config
	CfgPath  string
	Logger   *slog.Logger
	Engine   *viewport.Engine
	Layer    *annotation.Layer
	Session  *model.SessionModel
	RootView *view.RootView

	// Presenters
	Viewer *presenter.ViewerPresenter
	Loop   *presenter.Loop
}

// EngineOptions maps the viewport section of cfg onto engine options.
func EngineOptions(cfg *config.Config) viewport.Options {
	return viewport.Options{
		InitialScale:      cfg.InitialScale,
		ZoomStep:          cfg.ZoomStep,
		MinPixelThreshold: cfg.MinPixelThreshold,
		TileCacheSize:     cfg.TileCacheSize,
		Filter:            viewport.FilterByName(cfg.ResampleFilter),
	}
}

// BuildContainer constructs all components without touching Tk. The loop's
// scheduler is attached by the app once the event loop exists.
func BuildContainer(cfg *config.Config, cfgPath string, logger *slog.Logger) *AppContainer {
	c := &AppContainer{Config: cfg, CfgPath: cfgPath, Logger: logger}
	c.Engine = viewport.NewEngine(EngineOptions(cfg), logger)
	c.Layer = annotation.NewLayer(c.Engine, annotation.Color(cfg.AnnotationColor), logger)
	c.Engine.AddZoomListener(c.Layer.Rescale)
	c.Session = model.NewSessionModel()
	c.RootView = view.NewRootView(cfg, cfgPath, logger)
	c.Viewer = presenter.NewViewerPresenter(c.Engine, c.Layer, c.RootView, c.Session, logger)
	c.Viewer.Clipboard = &systemClipboard{}
	c.Viewer.Screen = capture.Grabber(logger)
	c.Loop = presenter.NewLoop(c.Viewer, nil)
	return c
}
