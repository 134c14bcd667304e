package plot

import (
	"image/color"
	"time"

	"github.com/sirupsen/logrus"
)

// NamedColor is one entry of a Palette.
type NamedColor struct {
	Name  string
	Color color.NRGBA
}

// Palette is an ordered set of named colors.
type Palette []NamedColor

// DefaultPalette is used when a Config does not provide one.
var DefaultPalette = Palette{
	{Name: "rust", Color: color.NRGBA{R: 0xa4, G: 0x63, B: 0x3a, A: 0xff}},
	{Name: "olive", Color: color.NRGBA{R: 0x85, G: 0x76, B: 0x25, A: 0xff}},
	{Name: "green", Color: color.NRGBA{R: 0x51, G: 0x85, B: 0x4d, A: 0xff}},
	{Name: "blue", Color: color.NRGBA{R: 0x2b, G: 0x7f, B: 0xa8, A: 0xff}},
	{Name: "violet", Color: color.NRGBA{R: 0x72, G: 0x6c, B: 0xae, A: 0xff}},
	{Name: "plum", Color: color.NRGBA{R: 0x97, G: 0x5f, B: 0x91, A: 0xff}},
	{Name: "red", Color: color.NRGBA{R: 0xff, A: 0xff}},
	{Name: "lime", Color: color.NRGBA{G: 0xff, A: 0xff}},
	{Name: "pure-blue", Color: color.NRGBA{B: 0xff, A: 0xff}},
	{Name: "yellow", Color: color.NRGBA{R: 0xf0, G: 0xf0, A: 0xff}},
}

// Lookup finds a color by name.
func (p Palette) Lookup(name string) (color.NRGBA, bool) {
	for _, c := range p {
		if c.Name == name {
			return c.Color, true
		}
	}
	return color.NRGBA{}, false
}

// At returns the i'th color, wrapping around the end of the palette.
func (p Palette) At(i int) color.NRGBA {
	if len(p) == 0 {
		return color.NRGBA{A: 0xff}
	}
	if i < 0 {
		i = -i
	}
	return p[i%len(p)].Color
}

// Config controls a Chart.
type Config struct {
	Palette Palette
	// DefaultRange is shown until the first explicit series arrives.
	DefaultRange VisibleRange
	// MinZoom is the smallest zoom level ZoomIn will reach.
	MinZoom  float64
	ZoomStep float64
	// Samples is the number of regularly spaced x values each derived series
	// is evaluated at, in addition to the x values of the series it reads.
	Samples   int
	PointSize int
	// Margin is the width in pixels of the label gutter on the left and
	// bottom of the plot.
	Margin   int
	Location *time.Location
	Logger   logrus.FieldLogger
}

func DefaultConfig() Config {
	return Config{
		Palette:      DefaultPalette,
		DefaultRange: NewVisibleRange(-10, 10, -10, 10, false),
		MinZoom:      0.1,
		ZoomStep:     0.1,
		Samples:      200,
		PointSize:    4,
		Margin:       40,
		Location:     time.Local,
		Logger:       logrus.StandardLogger(),
	}
}

// withDefaults fills zero fields from DefaultConfig.
func (c Config) withDefaults() Config {
	d := DefaultConfig()
	if len(c.Palette) == 0 {
		c.Palette = d.Palette
	}
	if !c.DefaultRange.Valid() {
		c.DefaultRange = d.DefaultRange
	}
	if c.MinZoom <= 0 {
		c.MinZoom = d.MinZoom
	}
	if c.ZoomStep <= 0 {
		c.ZoomStep = d.ZoomStep
	}
	if c.Samples < 2 {
		c.Samples = d.Samples
	}
	if c.PointSize < minPointSize {
		c.PointSize = d.PointSize
	}
	if c.Margin < 0 {
		c.Margin = 0
	}
	if c.Location == nil {
		c.Location = d.Location
	}
	if c.Logger == nil {
		c.Logger = d.Logger
	}
	return c
}
