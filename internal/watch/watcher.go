// Package watch tails the request stream and announces newly submitted
// attestation requests. Used by reviewer consoles that want to react to
// submissions without polling the MCP surface.
package watch

import (
	"context"
	"encoding/json"
	"log/slog"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/signoff-dev/signoff/internal/attest"
	"github.com/signoff-dev/signoff/internal/logstore"
)

// debounceDefault is the default debounce interval for file events. Appends
// often land in bursts; one flush per burst is enough.
const debounceDefault = 200 * time.Millisecond

// pollDefault is the default polling interval when fsnotify is unavailable.
const pollDefault = 5 * time.Second

// Watcher watches the request stream file and invokes the handler for each
// record appended after the watch began.
type Watcher struct {
	path     string
	handler  func(attest.Request)
	debounce time.Duration
	logger   *slog.Logger

	mu   sync.Mutex
	seen int
}

// New creates a watcher over the given request stream file.
func New(path string, handler func(attest.Request)) *Watcher {
	return &Watcher{
		path:     path,
		handler:  handler,
		debounce: debounceDefault,
		logger:   slog.Default(),
	}
}

// Run watches the stream for appends. Records already present when the
// watch starts are skipped. Blocks until ctx is cancelled.
func (w *Watcher) Run(ctx context.Context) error {
	records, err := logstore.ReadAll(w.path)
	if err != nil {
		return err
	}
	w.mu.Lock()
	w.seen = len(records)
	w.mu.Unlock()

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer func() { _ = watcher.Close() }()

	// Watch the directory, not the file: the stream may not exist yet, and
	// watching the parent survives rotation-style replacement.
	if err := watcher.Add(filepath.Dir(w.path)); err != nil {
		return err
	}

	// Single debounce timer, reset on each event. Initialized as stopped;
	// the first event starts it.
	debounceTimer := time.NewTimer(w.debounce)
	debounceTimer.Stop()
	defer debounceTimer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil

		case <-debounceTimer.C:
			w.emit()

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Name != w.path {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}

			if !debounceTimer.Stop() {
				select {
				case <-debounceTimer.C:
				default:
				}
			}
			debounceTimer.Reset(w.debounce)

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("watch error", "path", w.path, "error", err)
		}
	}
}

// emit delivers every record appended since the last emit.
func (w *Watcher) emit() {
	records, err := logstore.ReadAll(w.path)
	if err != nil {
		w.logger.Warn("read stream", "path", w.path, "error", err)
		return
	}

	w.mu.Lock()
	start := w.seen
	if start > len(records) {
		start = len(records)
	}
	w.seen = len(records)
	w.mu.Unlock()

	for _, rec := range records[start:] {
		var req attest.Request
		if err := json.Unmarshal(rec.Body, &req); err != nil {
			continue
		}
		w.handler(req)
	}
}

// Poller announces new records by polling. Fallback for filesystems where
// fsnotify does not deliver events (e.g. NFS).
type Poller struct {
	path     string
	handler  func(attest.Request)
	interval time.Duration
	logger   *slog.Logger
	seen     int
}

// NewPoller creates a polling-based watcher.
func NewPoller(path string, handler func(attest.Request), interval time.Duration) *Poller {
	if interval == 0 {
		interval = pollDefault
	}
	return &Poller{
		path:     path,
		handler:  handler,
		interval: interval,
		logger:   slog.Default(),
	}
}

// Run polls the stream. Blocks until ctx is cancelled.
func (p *Poller) Run(ctx context.Context) error {
	records, err := logstore.ReadAll(p.path)
	if err != nil {
		return err
	}
	p.seen = len(records)

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			p.scan()
		}
	}
}

func (p *Poller) scan() {
	records, err := logstore.ReadAll(p.path)
	if err != nil {
		p.logger.Warn("read stream", "path", p.path, "error", err)
		return
	}
	if p.seen > len(records) {
		p.seen = len(records)
	}
	for _, rec := range records[p.seen:] {
		var req attest.Request
		if err := json.Unmarshal(rec.Body, &req); err != nil {
			continue
		}
		p.handler(req)
	}
	p.seen = len(records)
}
