package pdf

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// Color is an RGB triple in the 0-255 range
type Color struct {
	R, G, B int
}

// Theme is the visual variant of the invoice layout
type Theme struct {
	Name       string
	Font       string
	Primary    Color
	Text       Color
	Muted      Color
	Rule       Color
	RuleWidth  float64
	HeaderBand bool  // fill the header area with Primary
	HeaderText Color // text color on the header band

	TableHeaderFill Color
	TableHeaderText Color
	StripeFill      *Color
	Grid            Color

	TotalFill   Color
	TotalText   Color
	BalanceFill Color
	BalanceText Color

	Paid   Color
	Unpaid Color
}

// ErrUnknownTheme is returned for theme names that are not registered
var ErrUnknownTheme = errors.New("unknown theme")

// DefaultThemeName is used when no theme is configured
const DefaultThemeName = "plain"

var themes = map[string]Theme{
	"plain": {
		Name:            "plain",
		Font:            "Helvetica",
		Primary:         Color{0, 0, 0},
		Text:            Color{0, 0, 0},
		Muted:           Color{90, 90, 90},
		Rule:            Color{160, 160, 160},
		RuleWidth:       0.2,
		TableHeaderFill: Color{230, 230, 230},
		TableHeaderText: Color{0, 0, 0},
		Grid:            Color{210, 210, 210},
		TotalFill:       Color{230, 230, 230},
		TotalText:       Color{0, 0, 0},
		BalanceFill:     Color{200, 200, 200},
		BalanceText:     Color{0, 0, 0},
		Paid:            Color{22, 128, 61},
		Unpaid:          Color{185, 28, 28},
	},
	"clean": {
		Name:            "clean",
		Font:            "Helvetica",
		Primary:         Color{31, 41, 55},
		Text:            Color{31, 41, 55},
		Muted:           Color{107, 114, 128},
		Rule:            Color{16, 185, 129},
		RuleWidth:       0.8,
		TableHeaderFill: Color{31, 41, 55},
		TableHeaderText: Color{255, 255, 255},
		StripeFill:      &Color{248, 249, 250},
		Grid:            Color{229, 231, 235},
		TotalFill:       Color{16, 185, 129},
		TotalText:       Color{255, 255, 255},
		BalanceFill:     Color{31, 41, 55},
		BalanceText:     Color{255, 255, 255},
		Paid:            Color{16, 185, 129},
		Unpaid:          Color{220, 38, 38},
	},
	"blue": {
		Name:            "blue",
		Font:            "Helvetica",
		Primary:         Color{37, 99, 235},
		Text:            Color{17, 24, 39},
		Muted:           Color{75, 85, 99},
		Rule:            Color{37, 99, 235},
		RuleWidth:       0.4,
		HeaderBand:      true,
		HeaderText:      Color{255, 255, 255},
		TableHeaderFill: Color{37, 99, 235},
		TableHeaderText: Color{255, 255, 255},
		StripeFill:      &Color{239, 246, 255},
		Grid:            Color{191, 219, 254},
		TotalFill:       Color{37, 99, 235},
		TotalText:       Color{255, 255, 255},
		BalanceFill:     Color{30, 64, 175},
		BalanceText:     Color{255, 255, 255},
		Paid:            Color{255, 255, 255},
		Unpaid:          Color{254, 226, 226},
	},
}

// ThemeByName looks up a theme; an empty name selects the default
func ThemeByName(name string) (Theme, error) {
	key := strings.ToLower(strings.TrimSpace(name))
	if key == "" {
		key = DefaultThemeName
	}
	theme, ok := themes[key]
	if !ok {
		return Theme{}, fmt.Errorf("%w %q (available: %s)", ErrUnknownTheme, name, strings.Join(ThemeNames(), ", "))
	}
	return theme, nil
}

// ThemeNames lists the available themes in sorted order
func ThemeNames() []string {
	names := make([]string, 0, len(themes))
	for name := range themes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
