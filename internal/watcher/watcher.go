// Package watcher implements the strategy-adaptive filesystem watcher:
// full/selective/hybrid recursive-vs-targeted fsnotify watches, event
// debouncing, and known-files-cache-based created/modified/deleted
// classification. The debounce-ticker/pending-map shape is carried
// from the teacher's code-reindex watcher, repurposed here to emit
// classified events instead of triggering a reindex.
package watcher

import (
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/ternarybob/syntari-kernel/internal/kernelerrors"
	"github.com/ternarybob/syntari-kernel/internal/logger"
	"github.com/ternarybob/syntari-kernel/internal/pathsec"
)

// EventKind classifies a debounced change notification.
type EventKind string

const (
	EventCreated  EventKind = "created"
	EventModified EventKind = "modified"
	EventDeleted  EventKind = "deleted"
)

// Event is delivered on both the file-system-change and (for
// deletions) file-deleted streams.
type Event struct {
	Kind        EventKind
	Path        string
	IsDirectory bool
	Timestamp   time.Time
}

// Notification is a one-shot informational event, e.g. the strategy
// chosen when a watch starts, delivered on the project-watch-notification
// stream.
type Notification struct {
	Path      string
	Strategy  Strategy
	Message   string
	Timestamp time.Time
}

// watch is one active watch target.
type watch struct {
	root       string
	strategy   Strategy
	fsw        *fsnotify.Watcher
	cache      *knownFilesCache
	stopCh     chan struct{}
	pending    map[string]time.Time
	pendingMu  sync.Mutex
	eventCount int
	lastLog    time.Time
}

// Holder is the process-wide mutex-guarded singleton that owns all
// active watches, keyed by canonicalized root path.
type Holder struct {
	mu       sync.Mutex
	watches  map[string]*watch
	changeCh chan Event
	deleteCh chan Event
	notifyCh chan Notification
}

// NewHolder returns an empty Holder. changeBuffer/deleteBuffer size
// the broadcast channels the dispatcher's SSE transport drains from.
// The notification stream is low-volume (one send per watch start) and
// does not need a configurable buffer.
func NewHolder(changeBuffer, deleteBuffer int) *Holder {
	return &Holder{
		watches:  make(map[string]*watch),
		changeCh: make(chan Event, changeBuffer),
		deleteCh: make(chan Event, deleteBuffer),
		notifyCh: make(chan Notification, 32),
	}
}

// Changes returns the file-system-change event stream.
func (h *Holder) Changes() <-chan Event { return h.changeCh }

// Deletes returns the file-deleted event stream.
func (h *Holder) Deletes() <-chan Event { return h.deleteCh }

// Notifications returns the project-watch-notification stream.
func (h *Holder) Notifications() <-chan Notification { return h.notifyCh }

// EmitDeleted publishes path as deleted on both the file-system-change
// and file-deleted streams, for callers (e.g. an explicit delete_file
// command) that remove a file directly rather than through an
// observed fsnotify event.
func (h *Holder) EmitDeleted(path string, isDirectory bool) {
	ev := Event{Kind: EventDeleted, Path: path, IsDirectory: isDirectory, Timestamp: time.Now()}
	nonBlockingSend(h.changeCh, ev)
	nonBlockingSend(h.deleteCh, ev)
}

func (h *Holder) notify(path string, strategy Strategy, message string) {
	select {
	case h.notifyCh <- Notification{Path: path, Strategy: strategy, Message: message, Timestamp: time.Now()}:
	default:
	}
}

// Start begins watching path, choosing a strategy by sampling its
// tree. Starting an already-watched path is idempotent and returns
// the existing id. Problematic directories are accepted (the path is
// returned as the id) but never actually watched.
func (h *Holder) Start(path string) (id string, strategyUsed Strategy, err error) {
	canonical, verr := pathsec.Validate(path)
	if verr != nil {
		return "", "", verr
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	if existing, ok := h.watches[canonical]; ok {
		h.notify(canonical, existing.strategy, "already watching with strategy "+string(existing.strategy))
		return canonical, existing.strategy, nil
	}

	if isProblematic(canonical) {
		h.watches[canonical] = &watch{root: canonical, strategy: StrategyHybrid}
		h.notify(canonical, StrategyHybrid, "problematic directory, accepted but not watched")
		return canonical, StrategyHybrid, nil
	}

	strategy := ChooseStrategy(canonical)
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return "", "", kernelerrors.Wrap(kernelerrors.Internal, kernelerrors.CodeWatchLimit,
			"cannot create filesystem watcher; raise the host's inotify instance/watch limits (e.g. fs.inotify.max_user_watches)", err)
	}

	w := &watch{
		root:     canonical,
		strategy: strategy,
		fsw:      fsw,
		cache:    newKnownFilesCache(),
		stopCh:   make(chan struct{}),
		pending:  make(map[string]time.Time),
	}
	w.cache.seed(canonical)

	if err := addWatchPaths(fsw, canonical, strategy); err != nil {
		fsw.Close()
		return "", "", err
	}

	h.watches[canonical] = w
	go h.runEventLoop(w)
	go h.runDebounceLoop(w)

	logger.GetLogger().Info().Msgf("watcher started root=%s strategy=%s", canonical, strategy)
	h.notify(canonical, strategy, "watching with strategy "+string(strategy))
	return canonical, strategy, nil
}

func addWatchPaths(fsw *fsnotify.Watcher, root string, strategy Strategy) error {
	switch strategy {
	case StrategyFull:
		return addRecursive(fsw, root)
	case StrategySelective:
		if err := fsw.Add(root); err != nil {
			return kernelerrors.Wrap(kernelerrors.Internal, kernelerrors.CodeWatchLimit, "cannot watch root", err).WithPath(root)
		}
		for _, d := range existingConventionalDirs(root) {
			if err := addRecursive(fsw, filepath.Join(root, d)); err != nil {
				logger.GetLogger().Warn().Msgf("watcher: skipping subdirectory %s: %v", d, err)
			}
		}
		return nil
	case StrategyHybrid:
		if err := fsw.Add(root); err != nil {
			return kernelerrors.Wrap(kernelerrors.Internal, kernelerrors.CodeWatchLimit, "cannot watch root", err).WithPath(root)
		}
		return nil
	default:
		return nil
	}
}

func addRecursive(fsw *fsnotify.Watcher, root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if d.IsDir() {
			name := d.Name()
			if name != filepath.Base(root) && shouldSkipDirName(name) {
				return filepath.SkipDir
			}
			_ = fsw.Add(path)
		}
		return nil
	})
}

// shouldSkipDirName mirrors the scanner's default skip list for the
// purpose of deciding which subdirectories get a recursive watch.
func shouldSkipDirName(name string) bool {
	switch name {
	case ".git", "node_modules", "target", ".next", "dist", "build":
		return true
	}
	return false
}

// Stop stops watching id (the canonicalized root returned by Start)
// and evicts its known-files cache entries.
func (h *Holder) Stop(id string) error {
	h.mu.Lock()
	w, ok := h.watches[id]
	if !ok {
		h.mu.Unlock()
		return kernelerrors.New(kernelerrors.Validation, kernelerrors.CodeNotFound, "watcher not found").WithPath(id)
	}
	delete(h.watches, id)
	h.mu.Unlock()

	if w.fsw != nil {
		close(w.stopCh)
		w.fsw.Close()
		w.cache.evictUnder(id)
	}
	return nil
}

// Stats summarizes the holder's current state for get_file_watcher_stats.
type Stats struct {
	ActiveWatches int
	Strategies    map[string]string
}

func (h *Holder) Stats() Stats {
	h.mu.Lock()
	defer h.mu.Unlock()
	s := Stats{ActiveWatches: len(h.watches), Strategies: make(map[string]string, len(h.watches))}
	for root, w := range h.watches {
		s.Strategies[root] = string(w.strategy)
	}
	return s
}

func (h *Holder) runEventLoop(w *watch) {
	for {
		select {
		case <-w.stopCh:
			return
		case ev, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			if isNoise(ev.Name) {
				continue
			}
			w.pendingMu.Lock()
			w.pending[ev.Name] = time.Now()
			w.pendingMu.Unlock()
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			logger.GetLogger().Warn().Msgf("watcher error on %s: %v", w.root, err)
		}
	}
}

func (h *Holder) runDebounceLoop(w *watch) {
	debounceMs := debounceFor(w.strategy)
	ticker := time.NewTicker(20 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-w.stopCh:
			return
		case <-ticker.C:
			h.flushDebounced(w, time.Duration(debounceMs)*time.Millisecond)
		}
	}
}

func (h *Holder) flushDebounced(w *watch, debounce time.Duration) {
	now := time.Now()
	var ready []string

	w.pendingMu.Lock()
	for path, ts := range w.pending {
		if now.Sub(ts) >= debounce {
			ready = append(ready, path)
			delete(w.pending, path)
		}
	}
	w.pendingMu.Unlock()

	for _, path := range ready {
		h.classifyAndEmit(w, path)
	}

	if len(ready) > 0 {
		w.eventCount += len(ready)
		if now.Sub(w.lastLog) >= 5*time.Second {
			logger.GetLogger().Info().Msgf("watcher %s: %d events in the last interval", w.root, w.eventCount)
			w.eventCount = 0
			w.lastLog = now
		}
	}
}

func (h *Holder) classifyAndEmit(w *watch, path string) {
	exists, isDir := pathExists(path)

	var kind EventKind
	if exists {
		if w.cache.has(path) {
			kind = EventModified
		} else {
			kind = EventCreated
			w.cache.add(path)
		}
	} else {
		kind = EventDeleted
		w.cache.remove(path)
	}

	ev := Event{Kind: kind, Path: path, IsDirectory: isDir, Timestamp: time.Now()}
	nonBlockingSend(h.changeCh, ev)
	if kind == EventDeleted {
		nonBlockingSend(h.deleteCh, ev)
	}
}

func nonBlockingSend(ch chan Event, ev Event) {
	select {
	case ch <- ev:
	default:
	}
}

func pathExists(path string) (exists bool, isDir bool) {
	info, err := os.Stat(path)
	if err != nil {
		return false, false
	}
	return true, info.IsDir()
}

