// Package watch reports debounced changes to a single data file.
package watch

import (
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/litescript/ls-cluster/internal/logging"
)

// DefaultDebounce is how long a file must be quiet before a change is
// reported.
const DefaultDebounce = 100 * time.Millisecond

// ChangeKind describes the type of file change detected.
type ChangeKind int

const (
	ChangeModified ChangeKind = iota // written or recreated
	ChangeRemoved                    // deleted or renamed away
)

func (k ChangeKind) String() string {
	if k == ChangeRemoved {
		return "removed"
	}
	return "modified"
}

// Change is a debounced change to the watched file.
type Change struct {
	Kind ChangeKind
	File string
	At   time.Time
}

// Watcher monitors one file by watching its directory, so that editors which
// replace the file on save are still seen.
type Watcher struct {
	File    string
	Changes <-chan Change // Read-only external channel

	dir      string
	debounce time.Duration
	logger   *logging.Logger

	changes chan Change // Internal write channel
	quit    chan struct{}
	done    chan struct{}
	watcher *fsnotify.Watcher
}

// Option configures a Watcher.
type Option func(*Watcher)

// WithDebounce sets the quiet period before a change is reported.
func WithDebounce(d time.Duration) Option {
	return func(w *Watcher) {
		if d > 0 {
			w.debounce = d
		}
	}
}

// WithLogger sets the logger for watch errors.
func WithLogger(l *logging.Logger) Option {
	return func(w *Watcher) {
		w.logger = l
	}
}

// NewWatcher creates a watcher for the given file.
func NewWatcher(file string, opts ...Option) (*Watcher, error) {
	abs, err := filepath.Abs(file)
	if err != nil {
		return nil, err
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	ch := make(chan Change, 16)
	w := &Watcher{
		File:     abs,
		Changes:  ch,
		dir:      filepath.Dir(abs),
		debounce: DefaultDebounce,
		logger:   logging.Discard(),
		changes:  ch,
		quit:     make(chan struct{}),
		done:     make(chan struct{}),
		watcher:  fw,
	}
	for _, opt := range opts {
		opt(w)
	}
	return w, nil
}

// Start begins watching.
func (w *Watcher) Start() error {
	if err := w.watcher.Add(w.dir); err != nil {
		return err
	}

	go w.loop()
	return nil
}

// Stop closes the watcher and the Changes channel.
func (w *Watcher) Stop() {
	close(w.quit)
	w.watcher.Close()
	<-w.done // Wait for loop to exit
	close(w.changes)
}

func (w *Watcher) loop() {
	defer close(w.done)

	var pending time.Time
	ticker := time.NewTicker(w.debounce / 2)
	defer ticker.Stop()

	for {
		select {
		case <-w.quit:
			return

		case event, ok := <-w.watcher.Events:
			if !ok {
				if !pending.IsZero() {
					w.emitChange()
				}
				return
			}

			if filepath.Clean(event.Name) != w.File {
				continue
			}

			if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) ||
				event.Has(fsnotify.Remove) || event.Has(fsnotify.Rename) {
				pending = time.Now()
			}

		case <-ticker.C:
			if !pending.IsZero() && time.Since(pending) >= w.debounce {
				w.emitChange()
				pending = time.Time{}
			}

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Warn("Watch error on %s: %v", w.dir, err)
		}
	}
}

func (w *Watcher) emitChange() {
	c := Change{Kind: ChangeModified, File: w.File, At: time.Now()}
	if _, err := os.Stat(w.File); err != nil {
		c.Kind = ChangeRemoved
	}

	select {
	case w.changes <- c:
	case <-w.quit:
	}
}
