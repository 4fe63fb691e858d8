package view

import (
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/soocke/yaat-go/config"

	//lint:ignore ST1001 Dot import is intentional for concise Tk widget DSL builders.
	. "modernc.org/tk9.0"
)

// ConfigPanel is the settings window. It owns its widgets and writes back
// into *config.Config on ApplyChanges.
type ConfigPanel interface {
	OpenOrFocus()
	ApplyChanges() // parses widget text into the config, persists and notifies
}

type configPanel struct {
	cfg       *config.Config
	cfgPath   string
	logger    *slog.Logger
	onApplied func(*config.Config)
	win       *ToplevelWidget
	widgets   map[string]*TextWidget // keyed by internal field id
}

// NewConfigPanel creates the view bound to cfg. onApplied may be nil.
func NewConfigPanel(cfg *config.Config, cfgPath string, logger *slog.Logger, onApplied func(*config.Config)) ConfigPanel {
	return &configPanel{cfg: cfg, cfgPath: cfgPath, logger: logger, onApplied: onApplied, widgets: make(map[string]*TextWidget)}
}

func (v *configPanel) OpenOrFocus() {
	if v.win != nil {
		return
	}
	c := v.cfg
	win := App.Toplevel(Borderwidth(2))
	win.WmTitle("Settings")
	WmProtocol(win.Window, "WM_DELETE_WINDOW", v.destroy)
	v.win = win
	row := 0
	makeRow := func(id, label, value string) {
		lbl := win.Label(Txt(label), Anchor("w"))
		Grid(lbl, Row(row), Column(0), Sticky("w"), Padx("0.4m"), Pady("0.15m"))
		w := win.Text(Height(1), Width(16))
		Grid(w, Row(row), Column(1), Sticky("we"), Padx("0.4m"), Pady("0.15m"))
		w.Delete("1.0", END)
		w.Insert("1.0", value)
		v.widgets[id] = w
		row++
	}
	makeRow("initialScale", "Initial Scale", fmt.Sprintf("%.2f", c.InitialScale))
	makeRow("zoomStep", "Zoom Step", fmt.Sprintf("%.3f", c.ZoomStep))
	makeRow("minPixelThreshold", "Min Pixel Threshold", fmt.Sprintf("%d", c.MinPixelThreshold))
	makeRow("tileCacheSize", "Tile Cache Size", fmt.Sprintf("%d", c.TileCacheSize))
	makeRow("resampleFilter", "Resample (nearest/linear/lanczos)", c.ResampleFilter)
	makeRow("annotationColor", "Annotation Color (#RRGGBB)", c.AnnotationColor)
	makeRow("debug", "Debug (true/false)", fmt.Sprintf("%t", c.Debug))
	note := win.Label(Txt("Viewport settings apply to the next launch."), Anchor("w"))
	Grid(note, Row(row), Column(0), Columnspan(2), Sticky("w"), Padx("0.4m"))
	row++
	apply := win.Button(Txt("Apply Changes"), Command(func() { v.ApplyChanges() }))
	Grid(apply, Row(row), Column(0), Columnspan(2), Sticky("we"), Padx("0.4m"), Pady("0.3m"))
	Bind(win, "<Escape>", Command(v.destroy))
}

func (v *configPanel) destroy() {
	if v.win != nil {
		Destroy(v.win)
		v.win = nil
		v.widgets = make(map[string]*TextWidget)
	}
}

func (v *configPanel) text(id string) (string, bool) {
	w := v.widgets[id]
	if w == nil {
		return "", false
	}
	return strings.TrimSpace(strings.Join(w.Get("1.0", END), "")), true
}

func (v *configPanel) ApplyChanges() {
	if v.cfg == nil {
		return
	}
	cfg := *v.cfg // copy
	assignFloat := func(id string, dst *float64) {
		if s, ok := v.text(id); ok {
			if f, ok := parseFloatField(s); ok {
				*dst = f
			}
		}
	}
	assignInt := func(id string, dst *int) {
		if s, ok := v.text(id); ok {
			if i, ok := parseIntField(s); ok {
				*dst = i
			}
		}
	}
	assignString := func(id string, dst *string) {
		if s, ok := v.text(id); ok && s != "" {
			*dst = s
		}
	}
	assignFloat("initialScale", &cfg.InitialScale)
	assignFloat("zoomStep", &cfg.ZoomStep)
	assignInt("minPixelThreshold", &cfg.MinPixelThreshold)
	assignInt("tileCacheSize", &cfg.TileCacheSize)
	assignString("resampleFilter", &cfg.ResampleFilter)
	assignString("annotationColor", &cfg.AnnotationColor)
	if s, ok := v.text("debug"); ok {
		if b, ok := parseBoolLoose(s); ok {
			cfg.Debug = b
		}
	}
	applyConfig(v.cfg, &cfg, v.cfgPath, v.logger)
	if v.onApplied != nil {
		v.onApplied(v.cfg)
	}
	v.destroy()
}

// applyConfig validates next, copies it into cfg and persists it to path.
func applyConfig(cfg, next *config.Config, path string, logger *slog.Logger) {
	_ = next.Validate()
	*cfg = *next
	if path == "" {
		return
	}
	if err := cfg.Save(path); err != nil {
		if logger != nil {
			logger.Error("config save failed", "error", err)
		}
	} else if logger != nil {
		logger.Info("config saved", "path", path)
	}
}

// parsing helpers (unexported)
func parseFloatField(s string) (float64, bool) {
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, false
	}
	return f, true
}
func parseIntField(s string) (int, bool) {
	i, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, false
	}
	return i, true
}
func parseBoolLoose(s string) (bool, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "true", "1", "yes", "y", "on", "t":
		return true, true
	case "false", "0", "no", "n", "off", "f":
		return false, true
	default:
		return false, false
	}
}
