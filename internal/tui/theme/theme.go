// Package theme holds the color palettes of the moneymate dashboard.
package theme

import "github.com/charmbracelet/lipgloss"

// Theme maps the dashboard's color roles to concrete colors.
type Theme struct {
	Name string

	// Layers, from the app background up to emphasized panels.
	Background    lipgloss.Color
	Surface       lipgloss.Color
	SurfaceHover  lipgloss.Color // selected row, active tab
	SurfaceBright lipgloss.Color
	Border        lipgloss.Color
	BorderAccent  lipgloss.Color // focused card

	TextDim     lipgloss.Color // hints, disabled
	TextMuted   lipgloss.Color // labels
	TextPrimary lipgloss.Color

	Accent       lipgloss.Color
	AccentBright lipgloss.Color

	// Budget states: well under a limit, getting there, nearing, over.
	Good       lipgloss.Color
	GoodBright lipgloss.Color
	Caution    lipgloss.Color
	Warn       lipgloss.Color
	Danger     lipgloss.Color

	Chart     lipgloss.Color // daily spend bars
	Highlight lipgloss.Color // key hints, goal bars
}

// Active is the currently selected theme.
var Active = FlexokiDark

// FlexokiDark is the default: warm, paper-inspired, dark.
var FlexokiDark = Theme{
	Name:          "flexoki-dark",
	Background:    "#100F0F",
	Surface:       "#1C1B1A",
	SurfaceHover:  "#282726",
	SurfaceBright: "#343331",
	Border:        "#403E3C",
	BorderAccent:  "#3AA99F",
	TextDim:       "#575653",
	TextMuted:     "#878580",
	TextPrimary:   "#FFFCF0",
	Accent:        "#3AA99F",
	AccentBright:  "#5BC8BE",
	Good:          "#879A39",
	GoodBright:    "#A3B859",
	Caution:       "#D0A215",
	Warn:          "#DA702C",
	Danger:        "#D14D41",
	Chart:         "#4385BE",
	Highlight:     "#24837B",
}

// CatppuccinMocha is a soft pastel palette.
var CatppuccinMocha = Theme{
	Name:          "catppuccin-mocha",
	Background:    "#1E1E2E",
	Surface:       "#313244",
	SurfaceHover:  "#45475A",
	SurfaceBright: "#585B70",
	Border:        "#585B70",
	BorderAccent:  "#89B4FA",
	TextDim:       "#6C7086",
	TextMuted:     "#A6ADC8",
	TextPrimary:   "#CDD6F4",
	Accent:        "#89B4FA",
	AccentBright:  "#B4D0FB",
	Good:          "#A6E3A1",
	GoodBright:    "#C6F6C1",
	Caution:       "#F9E2AF",
	Warn:          "#FAB387",
	Danger:        "#F38BA8",
	Chart:         "#89B4FA",
	Highlight:     "#94E2D5",
}

// TokyoNight is a cool blue and purple palette.
var TokyoNight = Theme{
	Name:          "tokyo-night",
	Background:    "#1A1B26",
	Surface:       "#24283B",
	SurfaceHover:  "#343A52",
	SurfaceBright: "#414868",
	Border:        "#565F89",
	BorderAccent:  "#7AA2F7",
	TextDim:       "#565F89",
	TextMuted:     "#A9B1D6",
	TextPrimary:   "#C0CAF5",
	Accent:        "#7AA2F7",
	AccentBright:  "#A9C1FF",
	Good:          "#9ECE6A",
	GoodBright:    "#B9E87A",
	Caution:       "#E0AF68",
	Warn:          "#FF9E64",
	Danger:        "#F7768E",
	Chart:         "#7AA2F7",
	Highlight:     "#7DCFFF",
}

// Terminal sticks to the 16 ANSI colors.
var Terminal = Theme{
	Name:          "terminal",
	Background:    "0",
	Surface:       "0",
	SurfaceHover:  "8",
	SurfaceBright: "8",
	Border:        "8",
	BorderAccent:  "6",
	TextDim:       "8",
	TextMuted:     "7",
	TextPrimary:   "15",
	Accent:        "6",
	AccentBright:  "14",
	Good:          "2",
	GoodBright:    "10",
	Caution:       "3",
	Warn:          "11",
	Danger:        "1",
	Chart:         "4",
	Highlight:     "6",
}

// All lists the themes in the order the settings tab cycles through them.
var All = []Theme{FlexokiDark, CatppuccinMocha, TokyoNight, Terminal}

// ByName returns the named theme, or FlexokiDark for an unknown name.
func ByName(name string) Theme {
	if i := index(name); i >= 0 {
		return All[i]
	}
	return FlexokiDark
}

// SetActive switches the active theme.
func SetActive(name string) {
	Active = ByName(name)
}

// Names lists the theme names in display order.
func Names() []string {
	names := make([]string, len(All))
	for i, t := range All {
		names[i] = t.Name
	}
	return names
}

// Valid reports whether name is a known theme.
func Valid(name string) bool {
	return index(name) >= 0
}

func index(name string) int {
	for i, t := range All {
		if t.Name == name {
			return i
		}
	}
	return -1
}
