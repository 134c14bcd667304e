package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"time"

	"gioui.org/app"
	"gioui.org/op"
	"gioui.org/x/explorer"
	"git.sr.ht/~whereswaldon/simple-plotter/backend"
	"git.sr.ht/~whereswaldon/simple-plotter/plot"
	"github.com/sirupsen/logrus"
)

func usage() {
	fmt.Fprintf(flag.CommandLine.Output(), `%[1]s: plot CSV data and derived expressions

Usage:

	%[1]s [flags]

Every numeric column of each file becomes a series plotted against the
"x" column (or the first column). Derived series are defined as
"name = expression" and may read x, constants and other series by name:

	%[1]s -f trace.csv -d "total = cpu + gpu" -d "avg = total / 2"

Flags:

`, os.Args[0])
	flag.PrintDefaults()
}

// definitions collects repeated -d flags.
type definitions []string

func (d *definitions) String() string {
	return strings.Join(*d, "; ")
}

func (d *definitions) Set(s string) error {
	*d = append(*d, s)
	return nil
}

// splitList splits a comma-separated flag value, dropping empty entries.
func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// options are the command line settings of the viewer.
type options struct {
	files   []string
	columns []string
	defs    definitions
	follow  bool
	verbose bool
}

func parseFlags(fs *flag.FlagSet, args []string) (options, error) {
	var opts options
	files := fs.String("f", "", "Comma-separated CSV files to plot")
	columns := fs.String("c", "", "Comma-separated column names for CSV files without a header row (default: read the header)")
	fs.Var(&opts.defs, "d", "Derived series definition \"name = expression\" (repeatable)")
	fs.BoolVar(&opts.follow, "follow", false, "Reload files when they change on disk")
	fs.BoolVar(&opts.verbose, "v", false, "Enable debug logging")
	if err := fs.Parse(args); err != nil {
		return opts, err
	}
	opts.files = splitList(*files)
	opts.columns = splitList(*columns)
	return opts, nil
}

func main() {
	flag.Usage = usage
	opts, err := parseFlags(flag.CommandLine, os.Args[1:])
	if err != nil {
		os.Exit(2)
	}

	log := logrus.New()
	log.SetOutput(os.Stderr)
	if opts.verbose {
		log.SetLevel(logrus.DebugLevel)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	ds, err := backend.NewDatasource(ctx, backend.Options{
		Columns:  opts.columns,
		Follow:   opts.follow,
		Location: time.Local,
		Logger:   log,
	})
	if err != nil {
		log.WithError(err).Fatal("failed starting datasource")
	}
	bundle := backend.NewBundle(ds)

	go func() {
		w := app.NewWindow(app.Title("simple-plotter"))
		err := loop(ctx, w, bundle, log, opts.files, opts.defs)
		cancel()
		if cerr := ds.Close(); cerr != nil {
			log.WithError(cerr).Warn("failed closing datasource")
		}
		if err != nil {
			log.WithError(err).Fatal("window closed with error")
		}
		os.Exit(0)
	}()
	app.Main()
}

func loop(ctx context.Context, w *app.Window, bundle backend.Bundle, log logrus.FieldLogger, paths, defs []string) error {
	ws := backend.NewWindowState(ctx, bundle, w)
	expl := explorer.NewExplorer(w)
	chart := plot.NewChart(plot.Config{
		Location: time.Local,
		Logger:   log,
	})
	ui := NewUI(ws, expl, chart, defs, len(paths) > 0)
	bundle.Datasource.Load(paths...)
	var ops op.Ops
	for {
		ev := w.NextEvent()
		expl.ListenEvents(ev)
		switch ev := ev.(type) {
		case app.DestroyEvent:
			return ev.Err
		case app.FrameEvent:
			gtx := app.NewContext(&ops, ev)
			ui.Layout(gtx)
			ev.Frame(gtx.Ops)
		}
	}
}
