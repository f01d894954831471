package logstore

import (
	"encoding/json"
	"fmt"
	"sync"
	"time"
)

// Memory is an in-memory Stream for tests and ephemeral use. It keeps the
// same envelope and chaining behavior as the file-backed Log.
type Memory struct {
	mu       sync.Mutex
	records  []Record
	prevHash string
	failNext error
}

// NewMemory returns an empty in-memory stream.
func NewMemory() *Memory {
	return &Memory{prevHash: GenesisHash}
}

// Append marshals body and records it with chain metadata.
func (m *Memory) Append(body any) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.failNext != nil {
		err := m.failNext
		m.failNext = nil
		return err
	}

	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("logstore: marshal body: %w", err)
	}

	rec := Record{
		Timestamp: time.Now().UTC().Format(TimestampFormat),
		PrevHash:  m.prevHash,
		Body:      payload,
	}

	line, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("logstore: marshal record: %w", err)
	}

	m.records = append(m.records, rec)
	m.prevHash = HashLine(line)
	return nil
}

// ReadAll returns a copy of the recorded stream in append order.
func (m *Memory) ReadAll() ([]Record, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]Record, len(m.records))
	copy(out, m.records)
	return out, nil
}

// FailNextAppend makes the next Append return err, simulating a storage
// failure.
func (m *Memory) FailNextAppend(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failNext = err
}

// Len returns the number of recorded entries.
func (m *Memory) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.records)
}
