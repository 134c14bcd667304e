package backend

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"gioui.org/x/explorer"
	"github.com/fsnotify/fsnotify"
	"github.com/sirupsen/logrus"
)

// reloadDelay coalesces the burst of write events a single save produces.
const reloadDelay = 100 * time.Millisecond

type RWBox[T any] struct {
	t    T
	lock sync.RWMutex
}

func (r *RWBox[T]) Read(f func(*T)) {
	r.lock.RLock()
	defer r.lock.RUnlock()
	f(&r.t)
}

func (r *RWBox[T]) Write(f func(*T)) {
	r.lock.Lock()
	defer r.lock.Unlock()
	f(&r.t)
}

// Load is the result of reading one source.
type Load struct {
	// Path identifies the source. Loads of the same path replace each other.
	Path    string
	Dataset Dataset
	Err     error
	// Seq increases with every load published by a Datasource.
	Seq uint64
	// Reload is set when a change to a followed file triggered the load.
	Reload bool
}

type Options struct {
	// Columns names the columns of headerless files.
	Columns []string
	// Follow re-reads loaded files whenever they change.
	Follow   bool
	Location *time.Location
	Logger   logrus.FieldLogger
}

type sourceState struct {
	loads map[string]Load
	// changed is closed and replaced whenever loads changes.
	changed chan struct{}
}

// Datasource reads CSV files in the background and publishes the latest
// Load of each one.
type Datasource struct {
	opts    Options
	log     logrus.FieldLogger
	watcher *fsnotify.Watcher
	appCtx  context.Context
	seq     atomic.Uint64

	state    RWBox[sourceState]
	followed RWBox[map[string]*time.Timer]
}

func NewDatasource(appCtx context.Context, opts Options) (*Datasource, error) {
	if opts.Logger == nil {
		opts.Logger = logrus.StandardLogger()
	}
	d := &Datasource{
		opts:   opts,
		log:    opts.Logger,
		appCtx: appCtx,
	}
	d.state.Write(func(s *sourceState) {
		s.loads = make(map[string]Load)
		s.changed = make(chan struct{})
	})
	d.followed.Write(func(m *map[string]*time.Timer) {
		*m = make(map[string]*time.Timer)
	})
	if opts.Follow {
		watcher, err := fsnotify.NewWatcher()
		if err != nil {
			return nil, fmt.Errorf("failed creating file watcher: %w", err)
		}
		d.watcher = watcher
		go d.watch()
	}
	return d, nil
}

// Close stops following files.
func (d *Datasource) Close() error {
	if d.watcher == nil {
		return nil
	}
	return d.watcher.Close()
}

func (d *Datasource) csvOptions() CSVOptions {
	return CSVOptions{
		Columns:  d.opts.Columns,
		Location: d.opts.Location,
		Logger:   d.log,
	}
}

// Load reads each path in the background.
func (d *Datasource) Load(paths ...string) {
	for _, path := range paths {
		if abs, err := filepath.Abs(path); err == nil {
			path = abs
		}
		go d.loadPath(path, false)
		d.follow(path)
	}
}

// LoadFromFile asks the user to choose a CSV file and reads it in the
// background.
func (d *Datasource) LoadFromFile(expl *explorer.Explorer) {
	go func() {
		file, err := expl.ChooseFile("csv")
		if err != nil {
			if !errors.Is(err, explorer.ErrUserDecline) {
				d.log.WithError(err).Error("failed choosing file")
			}
			return
		}
		named, ok := file.(interface{ Name() string })
		if !ok {
			d.loadStream("chosen file", file)
			return
		}
		_ = file.Close()
		d.Load(named.Name())
	}()
}

func (d *Datasource) loadStream(name string, file io.ReadCloser) {
	defer file.Close()
	ds, err := ReadCSV(file, d.csvOptions())
	if err != nil {
		err = fmt.Errorf("failed reading %s: %w", name, err)
	}
	ds.Path = name
	d.publish(Load{Path: name, Dataset: ds, Err: err})
}

// loadPath reads the file at path. Reloads leave an unterminated final line
// for the next write event.
func (d *Datasource) loadPath(path string, reload bool) {
	opts := d.csvOptions()
	opts.Partial = reload
	ds, err := ReadFile(path, opts)
	if err != nil {
		d.log.WithError(err).WithField("file", path).Warn("failed loading file")
	}
	d.publish(Load{Path: path, Dataset: ds, Err: err, Reload: reload})
}

func (d *Datasource) publish(l Load) {
	l.Seq = d.seq.Add(1)
	d.state.Write(func(s *sourceState) {
		s.loads[l.Path] = l
		close(s.changed)
		s.changed = make(chan struct{})
	})
}

// Snapshot returns the latest load of every source, sorted by path.
func (d *Datasource) Snapshot() []Load {
	var out []Load
	d.state.Read(func(s *sourceState) {
		out = make([]Load, 0, len(s.loads))
		for _, l := range s.loads {
			out = append(out, l)
		}
	})
	sort.Slice(out, func(i, j int) bool {
		return out[i].Path < out[j].Path
	})
	return out
}

// Loads emits a fresh Snapshot each time a source is loaded, until ctx is
// done.
func (d *Datasource) Loads(ctx context.Context) <-chan []Load {
	out := make(chan []Load, 1)
	go func() {
		defer close(out)
		for {
			var changed chan struct{}
			d.state.Read(func(s *sourceState) {
				changed = s.changed
			})
			if snapshot := d.Snapshot(); len(snapshot) > 0 {
				select {
				case out <- snapshot:
				case <-ctx.Done():
					return
				}
			}
			select {
			case <-changed:
			case <-ctx.Done():
				return
			}
		}
	}()
	return out
}

func (d *Datasource) follow(path string) {
	if d.watcher == nil {
		return
	}
	added := false
	d.followed.Write(func(m *map[string]*time.Timer) {
		if _, ok := (*m)[path]; ok {
			return
		}
		(*m)[path] = nil
		added = true
	})
	if !added {
		return
	}
	// Watch the directory so that files replaced by a rename are still seen.
	if err := d.watcher.Add(filepath.Dir(path)); err != nil {
		d.log.WithError(err).WithField("file", path).Warn("failed following file")
	}
}

func (d *Datasource) watch() {
	for {
		select {
		case <-d.appCtx.Done():
			return
		case ev, ok := <-d.watcher.Events:
			if !ok {
				return
			}
			if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) {
				continue
			}
			d.scheduleReload(filepath.Clean(ev.Name))
		case err, ok := <-d.watcher.Errors:
			if !ok {
				return
			}
			d.log.WithError(err).Warn("file watcher failed")
		}
	}
}

func (d *Datasource) scheduleReload(path string) {
	d.followed.Write(func(m *map[string]*time.Timer) {
		timer, ok := (*m)[path]
		if !ok {
			return
		}
		if timer != nil {
			timer.Reset(reloadDelay)
			return
		}
		(*m)[path] = time.AfterFunc(reloadDelay, func() {
			d.log.WithField("file", path).Debug("reloading")
			d.loadPath(path, true)
		})
	})
}
