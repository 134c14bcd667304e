// Command simpleplot-export renders CSV data and derived series to an image,
// vector or JSON file without opening a window.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"git.sr.ht/~whereswaldon/simple-plotter/export"
	"git.sr.ht/~whereswaldon/simple-plotter/plot"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var (
	files       []string
	columns     string
	definitions []string
	rangeSpec   string
	width       int
	height      int
	format      string
	outputPath  string
	samples     int
	title       string
	grid        bool
	lines       bool
	verbose     bool
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "simpleplot-export -f data.csv [-d 'name = expr']... -o out.png",
		Short: "Render CSV data and derived series to a file",
		Long: `simpleplot-export loads CSV files, evaluates derived series defined as
"name = expression" over the visible range, and writes the chart as PNG, SVG,
PDF or JSON.`,
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE:         run,
	}

	flags := rootCmd.Flags()
	flags.StringSliceVarP(&files, "file", "f", nil, "CSV files to load")
	flags.StringVarP(&columns, "columns", "c", "", "Comma separated column names for headerless files")
	flags.StringArrayVarP(&definitions, "define", "d", nil, "Derived series as 'name = expression' (repeatable)")
	flags.StringVar(&rangeSpec, "range", "", "Visible range as left,right,bottom,top (default: fit the data)")
	flags.IntVar(&width, "width", 800, "Output width in pixels")
	flags.IntVar(&height, "height", 600, "Output height in pixels")
	flags.StringVar(&format, "format", "", "Output format: png, svg, pdf, json (default: from the output extension)")
	flags.StringVarP(&outputPath, "output", "o", "", "Output file path (default: stdout)")
	flags.IntVar(&samples, "samples", plot.DefaultConfig().Samples, "Sample count for derived series")
	flags.StringVar(&title, "title", "", "Chart title")
	flags.BoolVar(&grid, "grid", true, "Draw grid lines")
	flags.BoolVar(&lines, "lines", false, "Connect consecutive points")
	flags.BoolVarP(&verbose, "verbose", "v", false, "Log skipped rows and evaluation details")

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func outputFormat() (export.Format, error) {
	switch {
	case format != "":
		return export.ParseFormat(format)
	case outputPath != "":
		return export.FormatFromPath(outputPath)
	}
	return export.JSON, nil
}

func run(cmd *cobra.Command, args []string) error {
	log := logrus.New()
	log.SetOutput(cmd.ErrOrStderr())
	if verbose {
		log.SetLevel(logrus.DebugLevel)
	}
	if len(files) == 0 && len(definitions) == 0 {
		return fmt.Errorf("nothing to plot: pass --file or --define")
	}
	if width <= 0 || height <= 0 {
		return fmt.Errorf("invalid size %dx%d", width, height)
	}
	outFormat, err := outputFormat()
	if err != nil {
		return err
	}

	cfg := plot.DefaultConfig()
	cfg.Samples = samples
	cfg.Logger = log
	job := export.Job{
		Files:       files,
		Definitions: definitions,
		Config:      cfg,
		Width:       width,
		Height:      height,
	}
	if columns != "" {
		job.Columns = strings.Split(columns, ",")
	}
	if rangeSpec != "" {
		r, err := export.ParseRange(rangeSpec)
		if err != nil {
			return err
		}
		job.Range = &r
	}

	chart, err := job.Chart()
	if err != nil {
		return fmt.Errorf("failed building chart: %w", err)
	}
	if !grid {
		chart.ToggleGrid()
	}
	if lines {
		chart.ToggleLines()
	}
	frame := chart.Frame()
	for _, err := range frame.Errors {
		log.WithError(err).Warn("series could not be evaluated")
	}

	opts := export.Options{
		Width:    export.Pixels(width),
		Height:   export.Pixels(height),
		Title:    title,
		Location: cfg.Location,
	}
	if len(files) == 1 {
		opts.XLabel = filepath.Base(files[0])
	}
	if outputPath == "" {
		return export.Write(cmd.OutOrStdout(), frame, outFormat, opts)
	}
	if err := export.WriteFile(outputPath, frame, outFormat, opts); err != nil {
		return err
	}
	log.WithFields(logrus.Fields{
		"output": outputPath,
		"format": outFormat,
		"series": len(frame.Series),
	}).Info("wrote chart")
	return nil
}
