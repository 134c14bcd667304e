// Package export renders chart frames to image, vector and JSON files.
package export

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"git.sr.ht/~whereswaldon/simple-plotter/plot"
	gplot "gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
)

type Format string

const (
	PNG  Format = "png"
	SVG  Format = "svg"
	PDF  Format = "pdf"
	JSON Format = "json"
)

var ErrUnknownFormat = errors.New("unknown output format")

// ParseFormat accepts a format name with or without a leading dot.
func ParseFormat(name string) (Format, error) {
	f := Format(strings.ToLower(strings.TrimPrefix(name, ".")))
	switch f {
	case PNG, SVG, PDF, JSON:
		return f, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownFormat, name)
}

// FormatFromPath picks the format from the extension of path.
func FormatFromPath(path string) (Format, error) {
	return ParseFormat(filepath.Ext(path))
}

// pixelsPerInch matches the resolution gonum uses for raster output.
const pixelsPerInch = 96

// Pixels converts a pixel count to a length at the raster resolution.
func Pixels(px int) vg.Length {
	return vg.Length(px) * vg.Inch / pixelsPerInch
}

type Options struct {
	Width, Height vg.Length
	Title         string
	// XLabel and YLabel name the axes.
	XLabel, YLabel string
	// Location is used for time axis labels. Defaults to time.Local.
	Location *time.Location
}

// Render builds a gonum plot showing the frame's visible series over its
// range.
func Render(f plot.Frame, opts Options) (*gplot.Plot, error) {
	loc := opts.Location
	if loc == nil {
		loc = time.Local
	}
	p := gplot.New()
	p.Title.Text = opts.Title
	p.X.Label.Text = opts.XLabel
	p.Y.Label.Text = opts.YLabel
	p.Legend.Top = true

	if f.ShowGrid {
		p.Add(plotter.NewGrid())
	}
	for _, s := range f.Series {
		if len(s.Points) == 0 {
			continue
		}
		xys := make(plotter.XYs, len(s.Points))
		for i, pt := range s.Points {
			xys[i].X, xys[i].Y = pt.Data.X, pt.Data.Y
		}
		scatter, err := plotter.NewScatter(xys)
		if err != nil {
			return nil, fmt.Errorf("failed plotting series %s: %w", s.Name, err)
		}
		scatter.GlyphStyle.Color = s.Color
		scatter.GlyphStyle.Shape = draw.CircleGlyph{}
		scatter.GlyphStyle.Radius = vg.Points(float64(s.PointSize) / 2)
		p.Add(scatter)
		if !f.ShowLines {
			p.Legend.Add(s.Name, scatter)
			continue
		}
		line, err := plotter.NewLine(xys)
		if err != nil {
			return nil, fmt.Errorf("failed plotting series %s: %w", s.Name, err)
		}
		line.LineStyle.Color = s.Color
		line.LineStyle.Width = vg.Points(1)
		p.Add(line)
		p.Legend.Add(s.Name, scatter, line)
	}

	// Add widens the axes to fit the data, so the range is applied last.
	p.X.Min, p.X.Max = f.Range.LeftX, f.Range.RightX
	p.Y.Min, p.Y.Max = f.Range.BottomY, f.Range.TopY
	if f.Range.TimeBased {
		p.X.Tick.Marker = gplot.TimeTicks{
			Format: plot.TimeLayout(f.Range.XSpan()),
			Time:   gplot.UnixTimeIn(loc),
		}
	}
	return p, nil
}

// Write encodes the frame in format.
func Write(w io.Writer, f plot.Frame, format Format, opts Options) error {
	if format == JSON {
		return WriteJSON(w, f)
	}
	p, err := Render(f, opts)
	if err != nil {
		return err
	}
	wt, err := p.WriterTo(opts.Width, opts.Height, string(format))
	if err != nil {
		return fmt.Errorf("failed preparing %s output: %w", format, err)
	}
	if _, err := wt.WriteTo(w); err != nil {
		return fmt.Errorf("failed writing %s output: %w", format, err)
	}
	return nil
}

// WriteFile writes the frame to path, creating or truncating it.
func WriteFile(path string, f plot.Frame, format Format, opts Options) (err error) {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed creating %s: %w", path, err)
	}
	defer func() {
		err = errors.Join(err, file.Close())
	}()
	return Write(file, f, format, opts)
}

type frameJSON struct {
	plot.Frame
	Errors []string `json:"errors,omitempty"`
}

// WriteJSON encodes the frame as indented JSON. Evaluation errors are
// encoded as their messages.
func WriteJSON(w io.Writer, f plot.Frame) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(frameJSON{Frame: f, Errors: f.ErrorStrings()}); err != nil {
		return fmt.Errorf("failed encoding frame: %w", err)
	}
	return nil
}
