package logstore

import (
	"bufio"
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// GenesisHash is the prev_hash for the first record in a new stream.
const GenesisHash = "sha256:0000000000000000000000000000000000000000000000000000000000000000"

// TimestampFormat is the layout used in record envelope timestamps.
const TimestampFormat = "2006-01-02T15:04:05.000Z"

// Record is one line in a stream: chain metadata wrapped around the domain
// payload. Records are immutable once written; there is no update or delete.
type Record struct {
	Timestamp string          `json:"ts"`
	PrevHash  string          `json:"prev_hash"`
	Body      json.RawMessage `json:"body"`
}

// Stream is the append/scan contract the lifecycle engine depends on.
// The file-backed Log is the production implementation; Memory backs tests.
type Stream interface {
	// Append durably writes one record. The write is all-or-nothing at
	// record granularity: a concurrent reader never observes a partial
	// record.
	Append(body any) error
	// ReadAll returns every successfully written record in append order.
	// Corrupt lines are skipped; a missing stream reads as empty.
	ReadAll() ([]Record, error)
}

// Log is an append-only JSONL stream with SHA-256 hash chaining. Each
// record's prev_hash is the hash of the previous line, making the stream
// tamper-evident.
type Log struct {
	path     string
	file     *os.File
	prevHash string
	mu       sync.Mutex
}

// Open opens (or creates) a stream file for appending. The parent directory
// is created if absent. If the file already exists, the last line is read
// back to recover the chain tail.
func Open(path string) (*Log, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return nil, fmt.Errorf("logstore: create directory: %w", err)
	}

	prevHash := GenesisHash

	if info, err := os.Stat(path); err == nil && info.Size() > 0 {
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("logstore: read existing stream: %w", err)
		}
		var lastLine []byte
		scanErr := scanLines(f, func(line []byte) bool {
			lastLine = line
			return true
		})
		f.Close()
		if scanErr != nil {
			return nil, fmt.Errorf("logstore: scan existing stream: %w", scanErr)
		}
		if len(lastLine) > 0 {
			prevHash = HashLine(lastLine)
		}
	}

	file, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0600)
	if err != nil {
		return nil, fmt.Errorf("logstore: open stream: %w", err)
	}

	return &Log{
		path:     path,
		file:     file,
		prevHash: prevHash,
	}, nil
}

// Append wraps body in a Record, writes the line in a single write, and
// syncs to disk. A failed append is surfaced to the caller; the stream is
// never left claiming a write that did not land.
func (l *Log) Append(body any) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("logstore: marshal body: %w", err)
	}

	rec := Record{
		Timestamp: time.Now().UTC().Format(TimestampFormat),
		PrevHash:  l.prevHash,
		Body:      payload,
	}

	line, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("logstore: marshal record: %w", err)
	}

	if _, err := l.file.Write(append(line, '\n')); err != nil {
		return fmt.Errorf("logstore: write record: %w", err)
	}

	if err := l.file.Sync(); err != nil {
		return fmt.Errorf("logstore: sync: %w", err)
	}

	l.prevHash = HashLine(line)
	return nil
}

// ReadAll re-reads the stream from disk so a scan sees every append that
// completed before the read began, including those from other writers.
func (l *Log) ReadAll() ([]Record, error) {
	return ReadAll(l.path)
}

// Path returns the stream's file path.
func (l *Log) Path() string {
	return l.path
}

// Close flushes and closes the underlying file.
func (l *Log) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.file.Close()
}

// ReadAll reads every record from a stream file in append order. Lines that
// fail to parse are skipped so one corrupt record cannot make the rest of
// the stream unreadable. A missing file reads as an empty stream.
func ReadAll(path string) ([]Record, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("logstore: open stream: %w", err)
	}
	defer f.Close()

	var records []Record
	if err := scanLines(f, func(line []byte) bool {
		var rec Record
		if err := json.Unmarshal(line, &rec); err != nil {
			return true // skip malformed lines
		}
		records = append(records, rec)
		return true
	}); err != nil {
		return nil, fmt.Errorf("logstore: scan stream: %w", err)
	}

	return records, nil
}

// scanLines invokes fn for each line of f with the trailing newline
// stripped, stopping early if fn returns false. Lines are read with no
// length limit, so a single large record cannot abort the scan the way a
// bufio.Scanner token limit would. Each line is a fresh allocation; fn may
// retain it.
func scanLines(f *os.File, fn func(line []byte) bool) error {
	r := bufio.NewReader(f)
	for {
		line, err := r.ReadBytes('\n')
		if len(line) > 0 {
			if !fn(bytes.TrimSuffix(line, []byte{'\n'})) {
				return nil
			}
		}
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
	}
}

// HashLine returns "sha256:<hex>" of the given bytes.
func HashLine(line []byte) string {
	h := sha256.Sum256(line)
	return "sha256:" + hex.EncodeToString(h[:])
}
