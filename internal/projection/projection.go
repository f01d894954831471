// Package projection materializes derived views over the two append-only
// streams. It is the single place that interprets log order and filtering:
// the lifecycle engine never scans a stream inline, so "latest submission
// wins" and "first decision wins" are applied identically everywhere.
package projection

import (
	"encoding/json"

	"github.com/signoff-dev/signoff/internal/attest"
	"github.com/signoff-dev/signoff/internal/logstore"
)

const (
	// DefaultLimit is the pending listing size when the caller does not ask
	// for one.
	DefaultLimit = 25
	// MaxLimit caps the pending listing size.
	MaxLimit = 100
)

// LatestReceipt returns the most recent receipt whose attestation_request_id
// matches, or nil if none exists. Scanning from the end of an append-only
// stream makes the last write for an id authoritative; since review appends
// at most one receipt per id, this is exact lookup in practice. The scan is
// O(n); an id-to-offset index can be layered on if throughput ever demands
// it, without changing these semantics.
func LatestReceipt(s logstore.Stream, requestID string) (*attest.Receipt, error) {
	records, err := s.ReadAll()
	if err != nil {
		return nil, err
	}

	for i := len(records) - 1; i >= 0; i-- {
		var rcpt attest.Receipt
		if err := json.Unmarshal(records[i].Body, &rcpt); err != nil {
			continue // skip records that do not decode as receipts
		}
		if rcpt.AttestationRequestID == requestID {
			return &rcpt, nil
		}
	}
	return nil, nil
}

// LatestRequest returns the most recent request record with the given id,
// or nil if none exists. An id should never legitimately appear twice, but
// scanning from the end tolerates a future re-append/correction pattern
// without in-place updates.
func LatestRequest(s logstore.Stream, id string) (*attest.Request, error) {
	records, err := s.ReadAll()
	if err != nil {
		return nil, err
	}

	for i := len(records) - 1; i >= 0; i-- {
		var req attest.Request
		if err := json.Unmarshal(records[i].Body, &req); err != nil {
			continue
		}
		if req.ID == id {
			return &req, nil
		}
	}
	return nil, nil
}

// Pending returns up to limit summaries of requests whose intrinsic status
// is pending, most recently submitted first. The receipt log is deliberately
// not consulted: the listing reflects the queue as submitted, and effective
// status is a separate query.
func Pending(s logstore.Stream, limit int) ([]attest.Summary, error) {
	limit = ClampLimit(limit)

	records, err := s.ReadAll()
	if err != nil {
		return nil, err
	}

	summaries := make([]attest.Summary, 0, limit)
	for i := len(records) - 1; i >= 0 && len(summaries) < limit; i-- {
		var req attest.Request
		if err := json.Unmarshal(records[i].Body, &req); err != nil {
			continue
		}
		if req.Status != attest.StatusPending {
			continue
		}
		summaries = append(summaries, attest.Summarize(&req))
	}
	return summaries, nil
}

// ClampLimit maps a requested listing size into [1, MaxLimit]. Zero and
// negative values mean "not specified" and take the default.
func ClampLimit(limit int) int {
	if limit <= 0 {
		return DefaultLimit
	}
	if limit > MaxLimit {
		return MaxLimit
	}
	return limit
}
