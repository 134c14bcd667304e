package backend

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"slices"
	"strconv"
	"strings"
	"time"

	"git.sr.ht/~whereswaldon/simple-plotter/plot"
	"github.com/sirupsen/logrus"
)

// ErrNoColumns is returned for CSV data without at least one column besides
// the x column.
var ErrNoColumns = errors.New("csv has no data columns")

// timeLayouts are tried in order on x values that are not numbers.
var timeLayouts = []string{time.RFC3339Nano, time.DateTime}

type CSVOptions struct {
	// Columns names the columns of data that has no header row. When empty
	// the first row is read as the header.
	Columns []string
	// Partial leaves an unterminated final line unread, for files that are
	// still being written.
	Partial bool
	// Location is used for timestamps without a zone. Defaults to
	// time.Local.
	Location *time.Location
	Logger   logrus.FieldLogger
}

// ReadFile reads the CSV file at path.
func ReadFile(path string, opts CSVOptions) (Dataset, error) {
	f, err := os.Open(path)
	if err != nil {
		return Dataset{}, fmt.Errorf("failed opening %s: %w", path, err)
	}
	defer f.Close()
	if opts.Logger == nil {
		opts.Logger = logrus.StandardLogger()
	}
	opts.Logger = opts.Logger.WithField("file", path)
	ds, err := ReadCSV(f, opts)
	if err != nil {
		return Dataset{}, fmt.Errorf("failed reading %s: %w", path, err)
	}
	ds.Path = path
	return ds, nil
}

// ReadCSV parses CSV data into a Dataset. The column headed "x", or else
// the first column, holds the x values; every other column becomes a
// series named after its heading. X values are numbers or, when the first
// one is not a number, RFC 3339 or "2006-01-02 15:04:05" timestamps.
// Empty cells are skipped. Malformed rows and cells are logged and skipped.
func ReadCSV(r io.Reader, opts CSVOptions) (Dataset, error) {
	log := opts.Logger
	if log == nil {
		log = logrus.StandardLogger()
	}
	loc := opts.Location
	if loc == nil {
		loc = time.Local
	}
	if !opts.Partial {
		r = io.MultiReader(r, strings.NewReader("\n"))
	}
	csvReader := csv.NewReader(NewLineReader(r))
	csvReader.TrimLeadingSpace = true
	csvReader.FieldsPerRecord = -1
	csvReader.Comment = '#'

	headings := slices.Clone(opts.Columns)
	if len(headings) == 0 {
		var err error
		headings, err = csvReader.Read()
		if errors.Is(err, io.EOF) {
			return Dataset{}, ErrNoColumns
		} else if err != nil {
			return Dataset{}, fmt.Errorf("failed reading csv headings: %w", err)
		}
	}
	for i := range headings {
		headings[i] = strings.TrimSpace(headings[i])
	}
	xIdx := max(slices.Index(headings, plot.VarX), 0)

	ds := Dataset{XName: headings[xIdx]}
	var (
		columns []int
		names   []string
	)
	for i, h := range headings {
		if i == xIdx {
			continue
		}
		if h == "" {
			h = "column" + strconv.Itoa(i+1)
		}
		columns = append(columns, i)
		names = append(names, h)
	}
	if len(columns) == 0 {
		return Dataset{}, ErrNoColumns
	}
	ds.SetHeadings(names)

	sawX := false
	for {
		rec, err := csvReader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		var parseErr *csv.ParseError
		if errors.As(err, &parseErr) {
			log.WithError(err).WithField("line", parseErr.Line).Warn("skipping malformed row")
			continue
		} else if err != nil {
			return Dataset{}, fmt.Errorf("failed reading csv: %w", err)
		}
		line, _ := csvReader.FieldPos(0)
		rowLog := log.WithField("line", line)

		xCell := cell(rec, xIdx)
		if xCell == "" {
			continue
		}
		if !sawX {
			sawX = true
			if _, err := strconv.ParseFloat(xCell, 64); err != nil {
				_, timeErr := parseTime(xCell, loc)
				ds.TimeBased = timeErr == nil
			}
		}
		x, err := parseX(xCell, ds.TimeBased, loc)
		if err != nil {
			rowLog.WithError(err).Warn("skipping row with malformed x")
			continue
		}
		for i, col := range columns {
			v := cell(rec, col)
			if v == "" {
				continue
			}
			y, err := strconv.ParseFloat(v, 64)
			if err != nil {
				rowLog.WithError(err).WithField("column", names[i]).Warn("skipping malformed cell")
				continue
			}
			if !ds.Insert(i, plot.Point{X: x, Y: y}) {
				rowLog.WithField("column", names[i]).Debug("skipping non-finite value")
			}
		}
	}
	return ds, nil
}

func cell(rec []string, i int) string {
	if i >= len(rec) {
		return ""
	}
	return strings.TrimSpace(rec[i])
}

func parseX(s string, timeBased bool, loc *time.Location) (float64, error) {
	if !timeBased {
		return strconv.ParseFloat(s, 64)
	}
	t, err := parseTime(s, loc)
	if err != nil {
		return 0, err
	}
	return float64(t.UnixNano()) / 1e9, nil
}

func parseTime(s string, loc *time.Location) (time.Time, error) {
	var errs []error
	for _, layout := range timeLayouts {
		t, err := time.ParseInLocation(layout, s, loc)
		if err == nil {
			return t, nil
		}
		errs = append(errs, err)
	}
	return time.Time{}, fmt.Errorf("failed parsing timestamp %q: %w", s, errors.Join(errs...))
}
