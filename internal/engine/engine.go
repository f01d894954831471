// Package engine implements the attestation lifecycle: submission
// validation, identity assignment, derived status, and idempotent decision
// recording over two append-only streams.
package engine

import (
	"fmt"
	"sync"
	"time"

	"github.com/signoff-dev/signoff/internal/attest"
	"github.com/signoff-dev/signoff/internal/logstore"
	"github.com/signoff-dev/signoff/internal/policy"
	"github.com/signoff-dev/signoff/internal/projection"
)

// StatusNeedsInfo marks validation failures and not-found outcomes. These
// are reported business results, not errors.
const StatusNeedsInfo = "needs_info"

// Engine wires the two streams and the policy catalog. Records are
// immutable, so reads need no locking; the one piece of shared-mutable
// discipline is the review mutex below.
type Engine struct {
	requests logstore.Stream
	receipts logstore.Stream
	catalog  *policy.Catalog

	// reviewMu serializes review's check-then-append so "first decision
	// wins" holds under concurrent reviewers. Without it two reviewers
	// could both pass the idempotency check and both append.
	reviewMu sync.Mutex

	// overridable in tests
	now          func() time.Time
	newRequestID func() string
	newReceiptID func() string
}

// New creates an engine over the given streams and catalog.
func New(requests, receipts logstore.Stream, catalog *policy.Catalog) *Engine {
	if catalog == nil {
		catalog = policy.Default()
	}
	return &Engine{
		requests:     requests,
		receipts:     receipts,
		catalog:      catalog,
		now:          func() time.Time { return time.Now().UTC() },
		newRequestID: attest.NewRequestID,
		newReceiptID: attest.NewReceiptID,
	}
}

// SubmitResult is the outcome of a submission: either a fresh pending id or
// the full set of field violations.
type SubmitResult struct {
	ID         string             `json:"id,omitempty"`
	Status     string             `json:"status"`
	Violations []attest.Violation `json:"violations,omitempty"`
}

// Submit validates the payload, assigns identity, and appends a pending
// request. Validation failures enumerate every violated field and come back
// with needs_info status. Only storage failures surface as errors.
func (e *Engine) Submit(in attest.SubmitInput) (SubmitResult, error) {
	req, violations := attest.ValidateSubmit(in)
	if len(violations) > 0 {
		return SubmitResult{Status: StatusNeedsInfo, Violations: violations}, nil
	}

	req.ID = e.newRequestID()
	req.CreatedAt = e.now()
	req.Status = attest.StatusPending

	if err := e.requests.Append(req); err != nil {
		return SubmitResult{}, fmt.Errorf("append request: %w", err)
	}

	return SubmitResult{ID: req.ID, Status: attest.StatusPending}, nil
}

// StatusResult is the derived status of a request, with the deciding
// receipt attached when one exists.
type StatusResult struct {
	Status     string             `json:"status"`
	Receipt    *attest.Receipt    `json:"receipt,omitempty"`
	Violations []attest.Violation `json:"violations,omitempty"`
}

// Status derives the effective status of an id: the latest matching
// receipt's decision, else pending. No request lookup is performed, so an
// id that was never submitted reads as pending; see the design notes before
// changing that.
func (e *Engine) Status(id string) (StatusResult, error) {
	if id == "" {
		return StatusResult{
			Status:     StatusNeedsInfo,
			Violations: []attest.Violation{{Field: "attestation_request_id", Reason: "must not be empty"}},
		}, nil
	}

	rcpt, err := projection.LatestReceipt(e.receipts, id)
	if err != nil {
		return StatusResult{}, fmt.Errorf("scan receipts: %w", err)
	}
	if rcpt == nil {
		return StatusResult{Status: attest.StatusPending}, nil
	}
	return StatusResult{Status: string(rcpt.Decision), Receipt: rcpt}, nil
}

// DetailsResult carries the full request record, or a needs_info outcome
// when the id is unknown.
type DetailsResult struct {
	Status  string          `json:"status,omitempty"`
	Reason  string          `json:"reason,omitempty"`
	Request *attest.Request `json:"request,omitempty"`
}

// PendingDetails returns the most recent request record with the given id,
// regardless of whether a decision was later recorded.
func (e *Engine) PendingDetails(id string) (DetailsResult, error) {
	if id == "" {
		return DetailsResult{Status: StatusNeedsInfo, Reason: "attestation_request_id must not be empty"}, nil
	}

	req, err := projection.LatestRequest(e.requests, id)
	if err != nil {
		return DetailsResult{}, fmt.Errorf("scan requests: %w", err)
	}
	if req == nil {
		return DetailsResult{
			Status: StatusNeedsInfo,
			Reason: fmt.Sprintf("no attestation request found with id %q", id),
		}, nil
	}
	return DetailsResult{Request: req}, nil
}

// ListPending returns up to limit summaries of intrinsically pending
// requests, most recently submitted first.
func (e *Engine) ListPending(limit int) ([]attest.Summary, error) {
	summaries, err := projection.Pending(e.requests, limit)
	if err != nil {
		return nil, fmt.Errorf("scan requests: %w", err)
	}
	return summaries, nil
}

// Policy returns the active catalog.
func (e *Engine) Policy() *policy.Catalog {
	return e.catalog
}

// ReviewInput carries a reviewer's decision on a request.
type ReviewInput struct {
	RequestID  string
	Decision   string
	Scope      string
	Notes      string
	ReviewedBy string
}

// ReviewResult is the outcome of recording (or replaying) a decision.
type ReviewResult struct {
	Status     string             `json:"status"`
	Receipt    *attest.Receipt    `json:"receipt,omitempty"`
	Reason     string             `json:"reason,omitempty"`
	Violations []attest.Violation `json:"violations,omitempty"`
}

// Review records a human decision. If a receipt already exists for the id,
// that receipt is returned unchanged and nothing is appended: repeated
// reviews converge to the first decision ever recorded. The check and the
// append run under reviewMu so the rule holds for concurrent reviewers.
func (e *Engine) Review(in ReviewInput) (ReviewResult, error) {
	if violations := attest.ValidateReview(in.RequestID, in.Decision); len(violations) > 0 {
		return ReviewResult{Status: StatusNeedsInfo, Violations: violations}, nil
	}

	e.reviewMu.Lock()
	defer e.reviewMu.Unlock()

	existing, err := projection.LatestReceipt(e.receipts, in.RequestID)
	if err != nil {
		return ReviewResult{}, fmt.Errorf("scan receipts: %w", err)
	}
	if existing != nil {
		return ReviewResult{Status: string(existing.Decision), Receipt: existing}, nil
	}

	req, err := projection.LatestRequest(e.requests, in.RequestID)
	if err != nil {
		return ReviewResult{}, fmt.Errorf("scan requests: %w", err)
	}
	if req == nil {
		return ReviewResult{
			Status: StatusNeedsInfo,
			Reason: fmt.Sprintf("no attestation request found with id %q", in.RequestID),
		}, nil
	}

	reviewedBy := in.ReviewedBy
	if reviewedBy == "" {
		reviewedBy = "unattributed"
	}
	scope := in.Scope
	if scope == "" {
		scope = string(req.Kind)
	}

	rcpt := attest.Receipt{
		AttestationID:        e.newReceiptID(),
		AttestationRequestID: req.ID,
		Decision:             attest.Decision(in.Decision),
		ReviewedBy:           reviewedBy,
		Timestamp:            e.now(),
		Scope:                scope,
		Notes:                in.Notes,
		PolicyVersion:        e.catalog.Version,
		Request:              attest.Snap(req),
	}

	if err := e.receipts.Append(rcpt); err != nil {
		return ReviewResult{}, fmt.Errorf("append receipt: %w", err)
	}

	return ReviewResult{Status: string(rcpt.Decision), Receipt: &rcpt}, nil
}
