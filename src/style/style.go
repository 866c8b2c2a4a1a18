// Package style carries every visual choice a chart makes: palette, theme preset, fonts and DPI.
//
// A *Style is passed explicitly to the figure builders and the renderer; nothing is read from
// package globals, so tests can hand in Stub() and never touch the network.
package style

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/golang/freetype/truetype"
	"github.com/wcharczuk/go-chart/v2/drawing"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/gomedium"
	"golang.org/x/image/font/gofont/goregular"

	"github.com/iafilius/DataVizDesign/src/resource"
	"github.com/iafilius/DataVizDesign/src/vizerr"
	"github.com/iafilius/DataVizDesign/src/vizlog"
)

// FontRole names a typeface slot.
type FontRole string

const (
	FontTitle    FontRole = "title"    // figure title
	FontSubtitle FontRole = "subtitle" // subtitle, caption
	FontBody     FontRole = "body"     // legends, tick labels, annotations
	FontStrong   FontRole = "strong"   // panel titles
)

// FontRoles lists the roles in load order.
var FontRoles = []FontRole{FontTitle, FontSubtitle, FontBody, FontStrong}

// Default font locations: Cabin Condensed from the Google Fonts repository.
const (
	CabinSemiBoldURL = "https://github.com/google/fonts/blob/main/ofl/cabincondensed/CabinCondensed-SemiBold.ttf?raw=true"
	CabinRegularURL  = "https://github.com/google/fonts/blob/main/ofl/cabincondensed/CabinCondensed-Regular.ttf?raw=true"
	CabinMediumURL   = "https://github.com/google/fonts/blob/main/ofl/cabincondensed/CabinCondensed-Medium.ttf?raw=true"
)

// FontSources maps roles to font locations (URL, file:// URL or path).
type FontSources map[FontRole]string

// DefaultFontSources returns the Cabin Condensed set.
func DefaultFontSources() FontSources {
	return FontSources{
		FontTitle:    CabinSemiBoldURL,
		FontSubtitle: CabinRegularURL,
		FontBody:     CabinRegularURL,
		FontStrong:   CabinMediumURL,
	}
}

// Palette holds the named colors.
type Palette struct {
	Background drawing.Color
	Text       drawing.Color // panel titles, caption
	Muted      drawing.Color // tick labels
	Grid       drawing.Color
	Title      drawing.Color
	Subtitle   drawing.Color
	Line       drawing.Color // single-series charts
	Marker     drawing.Color
}

// Theme is a named preset of axis decoration.
type Theme struct {
	Name string
	// Spines lists the axis lines that stay visible.
	LeftSpine, BottomSpine bool
	TickMarks              bool
	GridAlpha              float64
	GridWidth              float64
}

// Style is the complete styling configuration for one figure.
type Style struct {
	Palette Palette
	Theme   Theme
	Fonts   map[FontRole]*truetype.Font
	DPI     float64
}

// Font returns the handle for role, or nil when that role was never loaded.
func (s *Style) Font(role FontRole) *truetype.Font {
	if s == nil || s.Fonts == nil {
		return nil
	}
	return s.Fonts[role]
}

// Validate checks that every role has a font.
func (s *Style) Validate() error {
	if s == nil {
		return fmt.Errorf("style is nil")
	}
	for _, r := range FontRoles {
		if s.Font(r) == nil {
			return fmt.Errorf("style has no %s font", r)
		}
	}
	if s.DPI <= 0 {
		return fmt.Errorf("style dpi must be > 0, got %v", s.DPI)
	}
	return nil
}

// DefaultPalette holds the greys and blues used by the built-in charts.
func DefaultPalette() Palette {
	return Palette{
		Background: drawing.ColorWhite,
		Text:       MustColor("#333333"),
		Muted:      MustColor("#666666"),
		Grid:       MustColor("#B0B0B0"),
		Title:      MustColor("#2C3E50"),
		Subtitle:   MustColor("#7F8C8D"),
		Line:       MustColor("#2E86AB"),
		Marker:     MustColor("#B2182B"),
	}
}

// Theme presets.
var (
	// ThemeMinimal drops every spine and tick mark and keeps a faint grid.
	ThemeMinimal = Theme{Name: "minimal", GridAlpha: 0.4, GridWidth: 0.8}
	// ThemeClassic keeps the left and bottom spines.
	ThemeClassic = Theme{Name: "classic", LeftSpine: true, BottomSpine: true, TickMarks: true, GridAlpha: 0.3, GridWidth: 0.8}
)

// ThemeByName returns a preset; the empty name is minimal.
func ThemeByName(name string) (Theme, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "minimal":
		return ThemeMinimal, nil
	case "classic":
		return ThemeClassic, nil
	default:
		return Theme{}, fmt.Errorf("unknown theme %q", name)
	}
}

// Load fetches and parses every font in sources, in FontRoles order. Locations shared by
// several roles are fetched once. Any failure is a ResourceError.
func Load(ctx context.Context, f *resource.Fetcher, sources FontSources, palette Palette, theme Theme, dpi float64) (*Style, error) {
	st := &Style{Palette: palette, Theme: theme, Fonts: map[FontRole]*truetype.Font{}, DPI: dpi}
	parsed := map[string]*truetype.Font{}
	for _, role := range FontRoles {
		loc := strings.TrimSpace(sources[role])
		if loc == "" {
			return nil, &vizerr.ResourceError{URL: string(role), Err: fmt.Errorf("no font configured for role %s", role)}
		}
		if ft, ok := parsed[loc]; ok {
			st.Fonts[role] = ft
			continue
		}
		b, err := f.Fetch(ctx, loc)
		if err != nil {
			return nil, fmt.Errorf("font %s: %w", role, err)
		}
		ft, err := truetype.Parse(b)
		if err != nil {
			return nil, &vizerr.ResourceError{URL: loc, Err: fmt.Errorf("parse font: %w", err)}
		}
		vizlog.Debugf("[style] loaded %s font from %s (%d bytes)", role, loc, len(b))
		parsed[loc] = ft
		st.Fonts[role] = ft
	}
	return st, nil
}

// Stub returns a complete style built from the embedded Go fonts. It never touches the network.
func Stub() *Style {
	regular, _ := truetype.Parse(goregular.TTF)
	bold, _ := truetype.Parse(gobold.TTF)
	medium, _ := truetype.Parse(gomedium.TTF)
	return &Style{
		Palette: DefaultPalette(),
		Theme:   ThemeMinimal,
		Fonts: map[FontRole]*truetype.Font{
			FontTitle:    bold,
			FontSubtitle: regular,
			FontBody:     regular,
			FontStrong:   medium,
		},
		DPI: 100,
	}
}

// ParseColor parses #RGB, #RRGGBB or #RRGGBBAA.
func ParseColor(s string) (drawing.Color, error) {
	h := strings.TrimPrefix(strings.TrimSpace(s), "#")
	switch len(h) {
	case 3, 6:
		if _, err := strconv.ParseUint(h, 16, 32); err != nil {
			return drawing.Color{}, fmt.Errorf("invalid color %q", s)
		}
		return drawing.ColorFromHex(h), nil
	case 8:
		if _, err := strconv.ParseUint(h, 16, 32); err != nil {
			return drawing.Color{}, fmt.Errorf("invalid color %q", s)
		}
		a, _ := strconv.ParseUint(h[6:], 16, 8)
		return drawing.ColorFromHex(h[:6]).WithAlpha(uint8(a)), nil
	default:
		return drawing.Color{}, fmt.Errorf("invalid color %q", s)
	}
}

// MustColor is ParseColor for constants.
func MustColor(s string) drawing.Color {
	c, err := ParseColor(s)
	if err != nil {
		panic(err)
	}
	return c
}

// WithOpacity scales c's alpha by a factor in [0,1].
func WithOpacity(c drawing.Color, opacity float64) drawing.Color {
	if opacity < 0 {
		opacity = 0
	}
	if opacity > 1 {
		opacity = 1
	}
	return c.WithAlpha(uint8(float64(c.A)*opacity + 0.5))
}
