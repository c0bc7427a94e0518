// Package watch observes a drop directory for newly added bill documents so
// the intake view can offer them as upload candidates without the user
// typing a path.
package watch

import (
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Candidate is a file spotted in the drop directory.
type Candidate struct {
	Path   string
	Name   string
	SeenAt time.Time
}

// Document extensions the extractor understands.
var billExtensions = map[string]bool{
	".pdf":  true,
	".png":  true,
	".jpg":  true,
	".jpeg": true,
	".webp": true,
}

// Watcher watches one drop directory for new bill documents.
type Watcher struct {
	watcher *fsnotify.Watcher
	dir     string

	// Most recent candidates, newest first.
	candidates []Candidate

	// Callback for new candidate notifications.
	onCandidate func(Candidate)

	mu     sync.RWMutex
	stopCh chan struct{}
}

// New creates a watcher for the given drop directory.
func New(dir string) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := fsw.Add(dir); err != nil {
		_ = fsw.Close()
		return nil, err
	}

	return &Watcher{
		watcher:    fsw,
		dir:        dir,
		candidates: make([]Candidate, 0),
		stopCh:     make(chan struct{}),
	}, nil
}

// SetCandidateCallback sets the callback for newly spotted documents.
func (w *Watcher) SetCandidateCallback(cb func(Candidate)) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.onCandidate = cb
}

// Start begins watching for new documents.
func (w *Watcher) Start() {
	go w.watchLoop()
}

// Stop stops the watcher and cleans up resources.
func (w *Watcher) Stop() {
	close(w.stopCh)
	_ = w.watcher.Close()
}

// Candidates returns a copy of the current candidate list, newest first.
func (w *Watcher) Candidates() []Candidate {
	w.mu.RLock()
	defer w.mu.RUnlock()
	out := make([]Candidate, len(w.candidates))
	copy(out, w.candidates)
	return out
}

// watchLoop processes filesystem events. Events are debounced because many
// file managers emit several events per copy.
func (w *Watcher) watchLoop() {
	debounceTimer := time.NewTimer(0)
	<-debounceTimer.C // drain initial timer

	pending := make(map[string]struct{})
	var pendingMu sync.Mutex

	for {
		select {
		case <-w.stopCh:
			return

		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if event.Op&(fsnotify.Create|fsnotify.Write) == 0 {
				continue
			}
			if !isBillDocument(event.Name) {
				continue
			}

			pendingMu.Lock()
			pending[event.Name] = struct{}{}
			pendingMu.Unlock()

			debounceTimer.Reset(200 * time.Millisecond)

		case <-debounceTimer.C:
			pendingMu.Lock()
			paths := pending
			pending = make(map[string]struct{})
			pendingMu.Unlock()

			for path := range paths {
				w.addCandidate(path)
			}

		case _, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
		}
	}
}

func (w *Watcher) addCandidate(path string) {
	w.mu.Lock()

	for _, c := range w.candidates {
		if c.Path == path {
			w.mu.Unlock()
			return
		}
	}

	cand := Candidate{
		Path:   path,
		Name:   filepath.Base(path),
		SeenAt: time.Now(),
	}
	w.candidates = append([]Candidate{cand}, w.candidates...)
	cb := w.onCandidate
	w.mu.Unlock()

	if cb != nil {
		cb(cand)
	}
}

func isBillDocument(path string) bool {
	name := filepath.Base(path)
	if strings.HasPrefix(name, ".") {
		return false
	}
	return billExtensions[strings.ToLower(filepath.Ext(name))]
}
