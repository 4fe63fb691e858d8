package theme

// Palette and ttk style setup for the annotation viewer. InitStyles activates
// the base theme and configures the semantic styles used by the views.

import (
	//lint:ignore ST1001 Dot import is intentional for concise Tk widget DSL builders.
	. "modernc.org/tk9.0"
)

// Palette defines core semantic colors used across widgets.
const (
	ColorBg        = "#f7f9fb" // app background
	ColorSurface   = "#ffffff" // toolbar, panels
	ColorBorder    = "#d0d7de"
	ColorPrimary   = "#2563eb"
	ColorDanger    = "#dc2626"
	ColorText      = "#1e293b"
	ColorTextMuted = "#64748b"
	ColorViewport  = "#202024" // empty viewport area
)

// Annotation outline presets offered by the toolbar.
const (
	AnnotationRed   = "#e74c3c"
	AnnotationGreen = "#52be80"
	AnnotationBlue  = "#5dade2"
)

// AnnotationPresets lists the toolbar color choices in display order.
var AnnotationPresets = []struct{ Name, Color string }{
	{"Red", AnnotationRed},
	{"Green", AnnotationGreen},
	{"Blue", AnnotationBlue},
}

// PaletteSnapshot represents resolved colors for the active mode.
type PaletteSnapshot struct {
	AppBg     string
	Surface   string
	Border    string
	Primary   string
	Danger    string
	Text      string
	TextMuted string
	Viewport  string
}

// CurrentPalette returns colors for the current dark/light mode.
func CurrentPalette() PaletteSnapshot {
	if darkMode {
		return PaletteSnapshot{
			AppBg:     "#0f172a",
			Surface:   "#1e293b",
			Border:    "#334155",
			Primary:   "#3b82f6",
			Danger:    "#ef4444",
			Text:      "#f1f5f9",
			TextMuted: "#94a3b8",
			Viewport:  "#111115",
		}
	}
	return PaletteSnapshot{
		AppBg:     ColorBg,
		Surface:   ColorSurface,
		Border:    ColorBorder,
		Primary:   ColorPrimary,
		Danger:    ColorDanger,
		Text:      ColorText,
		TextMuted: ColorTextMuted,
		Viewport:  ColorViewport,
	}
}

// style names used with Style("primary.TButton") etc.
const (
	StylePrimaryButton = "primary.TButton"
	StyleStatusLabel   = "status.TLabel"
	StyleErrorLabel    = "error.TLabel"
)

// SwatchStyle returns the button style name for an annotation preset color.
func SwatchStyle(color string) string { return color[1:] + ".swatch.TButton" }

var darkMode bool

// InitStyles (re)applies styles for the current darkMode value.
func InitStyles() { applyStyles(darkMode) }

// ToggleDark flips dark mode and reapplies styles. Returns new mode value.
func ToggleDark() bool {
	darkMode = !darkMode
	applyStyles(darkMode)
	return darkMode
}

// IsDark reports current mode.
func IsDark() bool { return darkMode }

func applyStyles(dark bool) {
	_ = ActivateTheme("azure light")
	p := CurrentPalette()
	App.Configure(Background(p.AppBg))

	StyleConfigure(StylePrimaryButton,
		Background(p.Primary),
		Foreground("white"),
		Padding("4p 3p"),
		Borderwidth(1),
		Relief("ridge"),
	)
	StyleConfigure(StyleStatusLabel,
		Foreground(p.TextMuted),
		Background(p.Surface),
		Padding("4p 2p"),
	)
	StyleConfigure(StyleErrorLabel,
		Foreground("white"),
		Background(p.Danger),
		Padding("4p 2p"),
	)
	for _, preset := range AnnotationPresets {
		StyleConfigure(SwatchStyle(preset.Color),
			Background(preset.Color),
			Foreground("white"),
			Padding("4p 3p"),
			Borderwidth(1),
			Relief("ridge"),
		)
	}
}
