package chunks

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// settle is how long a script must stay unchanged before it is reloaded.
const settle = 100 * time.Millisecond

// Reload is the outcome of re-running a source after its script changed.
// Err is set when the script failed to load, compile, or run.
type Reload struct {
	Path   string
	Chunks []Chunk
	Err    error
}

// Watcher re-runs a ScriptSource whenever its script changes under the
// source's directory and reports each result on Reloads.
type Watcher struct {
	source  *ScriptSource
	watcher *fsnotify.Watcher
	Reloads chan Reload
	Errors  chan error

	cancel context.CancelFunc
	ctx    context.Context
	doneCh chan struct{}
	once   sync.Once
}

// NewWatcher watches source.Dir, which must be set.
func NewWatcher(source *ScriptSource) (*Watcher, error) {
	if source == nil || source.Dir == "" {
		return nil, errors.New("chunks: watcher needs a script source with a directory")
	}
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := w.Add(source.Dir); err != nil {
		_ = w.Close()
		return nil, err
	}

	ctx, cancel := context.WithCancel(context.Background())
	watcher := &Watcher{
		source:  source,
		watcher: w,
		Reloads: make(chan Reload, 4),
		Errors:  make(chan error, 1),
		ctx:     ctx,
		cancel:  cancel,
		doneCh:  make(chan struct{}),
	}
	go watcher.run()
	return watcher, nil
}

func (w *Watcher) Close() error {
	var err error
	w.once.Do(func() {
		w.cancel()
		err = w.watcher.Close()
		<-w.doneCh
		close(w.Reloads)
		close(w.Errors)
	})
	return err
}

// watches reports whether path is the source's script.
func (w *Watcher) watches(path string) bool {
	return isScriptFile(path) && filepath.Base(path) == scriptName(w.source.Script)
}

func (w *Watcher) run() {
	defer close(w.doneCh)

	// A reload fires once the script has been quiet for settle, so an editor
	// that writes a file in several steps triggers a single run.
	var (
		pending string
		timer   <-chan time.Time
	)
	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 || !w.watches(event.Name) {
				continue
			}
			pending = event.Name
			timer = time.After(settle)
		case <-timer:
			timer = nil
			chunks, err := w.source.Chunks(w.ctx)
			select {
			case w.Reloads <- Reload{Path: pending, Chunks: chunks, Err: err}:
			case <-w.ctx.Done():
				return
			}
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			select {
			case w.Errors <- err:
			default:
			}
		case <-w.ctx.Done():
			return
		}
	}
}

func isScriptFile(path string) bool {
	return strings.ToLower(filepath.Ext(path)) == ".tengo"
}
