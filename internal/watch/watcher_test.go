package watch

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/signoff-dev/signoff/internal/attest"
	"github.com/signoff-dev/signoff/internal/logstore"
)

func writeRequests(t *testing.T, path string, titles ...string) {
	t.Helper()
	l, err := logstore.Open(path)
	if err != nil {
		t.Fatalf("open stream: %v", err)
	}
	defer l.Close()
	for _, title := range titles {
		err := l.Append(attest.Request{
			ID:        attest.NewRequestID(),
			CreatedAt: time.Now().UTC(),
			Kind:      attest.KindDeploy,
			Title:     title,
			Summary:   "s",
			Status:    attest.StatusPending,
		})
		if err != nil {
			t.Fatalf("append: %v", err)
		}
	}
}

func TestWatcherEmitsOnlyNewRecords(t *testing.T) {
	path := filepath.Join(t.TempDir(), "request.log")
	writeRequests(t, path, "old-1", "old-2")

	var got []string
	w := New(path, func(req attest.Request) {
		got = append(got, req.Title)
	})

	// Simulate Run's startup positioning, then an append and a flush.
	records, err := logstore.ReadAll(path)
	if err != nil {
		t.Fatalf("ReadAll: %v", err)
	}
	w.seen = len(records)

	writeRequests(t, path, "new-1", "new-2")
	w.emit()

	if len(got) != 2 || got[0] != "new-1" || got[1] != "new-2" {
		t.Fatalf("expected only new records, got %v", got)
	}

	// A second flush with nothing appended emits nothing
	w.emit()
	if len(got) != 2 {
		t.Fatalf("expected no further records, got %v", got)
	}
}

func TestWatcherSkipsCorruptRecords(t *testing.T) {
	path := filepath.Join(t.TempDir(), "request.log")
	if err := os.WriteFile(path, []byte("{not json\n"), 0600); err != nil {
		t.Fatalf("seed corrupt line: %v", err)
	}

	var got []string
	w := New(path, func(req attest.Request) {
		got = append(got, req.Title)
	})

	writeRequests(t, path, "good")
	w.emit()

	if len(got) != 1 || got[0] != "good" {
		t.Fatalf("expected only the good record, got %v", got)
	}
}

func TestWatcherLogsReadFailures(t *testing.T) {
	// A directory in place of the stream makes every read fail; the
	// failure must be logged rather than swallowed.
	dir := t.TempDir()

	var buf bytes.Buffer
	w := New(dir, func(attest.Request) {
		t.Fatal("handler must not fire when the stream is unreadable")
	})
	w.logger = slog.New(slog.NewTextHandler(&buf, nil))

	w.emit()

	if !strings.Contains(buf.String(), "read stream") {
		t.Fatalf("expected read failure to be logged, got %q", buf.String())
	}
}

func TestPollerScan(t *testing.T) {
	path := filepath.Join(t.TempDir(), "request.log")
	writeRequests(t, path, "before")

	var got []string
	p := NewPoller(path, func(req attest.Request) {
		got = append(got, req.Title)
	}, time.Second)

	records, err := logstore.ReadAll(path)
	if err != nil {
		t.Fatalf("ReadAll: %v", err)
	}
	p.seen = len(records)

	writeRequests(t, path, "after")
	p.scan()

	if len(got) != 1 || got[0] != "after" {
		t.Fatalf("expected only the new record, got %v", got)
	}

	p.scan()
	if len(got) != 1 {
		t.Fatalf("expected no duplicates on rescan, got %v", got)
	}
}

func TestPollerMissingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "request.log")

	p := NewPoller(path, func(attest.Request) {
		t.Fatal("handler must not fire for a missing stream")
	}, time.Second)
	p.scan()
}
