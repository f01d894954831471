package attest

import (
	"encoding/hex"
	"time"

	"github.com/google/uuid"
)

// Kind categorizes the action awaiting human attestation.
type Kind string

const (
	KindContract             Kind = "contract"
	KindFiling               Kind = "filing"
	KindComplianceAction     Kind = "compliance_action"
	KindFinancialInstruction Kind = "financial_instruction"
	KindDeploy               Kind = "deploy"
	KindAccess               Kind = "access"
)

// Kinds lists every valid request kind.
var Kinds = []Kind{
	KindContract,
	KindFiling,
	KindComplianceAction,
	KindFinancialInstruction,
	KindDeploy,
	KindAccess,
}

// RiskLevel is the submitter's risk classification of the action.
type RiskLevel string

const (
	RiskLow    RiskLevel = "low"
	RiskMedium RiskLevel = "medium"
	RiskHigh   RiskLevel = "high"
)

// Decision is a terminal human verdict on a request.
type Decision string

const (
	DecisionApproved  Decision = "approved"
	DecisionDenied    Decision = "denied"
	DecisionNeedsInfo Decision = "needs_info"
)

// Action is the outcome the submitter is asking for. Advisory only.
type Action string

const (
	ActionApprove   Action = "approve"
	ActionDeny      Action = "deny"
	ActionNeedsInfo Action = "needs_info"
)

// StatusPending is the intrinsic status stamped on every request at
// submission. It is never updated in place; effective status is derived
// from the receipt log.
const StatusPending = "pending"

// Request is one submitted action awaiting human judgment. Immutable once
// appended to the request log.
type Request struct {
	ID              string    `json:"id"`
	CreatedAt       time.Time `json:"created_at"`
	Kind            Kind      `json:"kind"`
	Title           string    `json:"title"`
	Summary         string    `json:"summary"`
	RiskLevel       RiskLevel `json:"risk_level"`
	Links           []string  `json:"links"`
	Evidence        []string  `json:"evidence"`
	RequestedAction Action    `json:"requested_action"`
	SpendUSD        *float64  `json:"spend_usd,omitempty"`
	Currency        string    `json:"currency"`
	Status          string    `json:"status"`
}

// Snapshot is the denormalized copy of a request's key fields embedded in
// a receipt at decision time. It survives any later change to the request
// representation.
type Snapshot struct {
	Kind      Kind      `json:"kind"`
	Title     string    `json:"title"`
	Summary   string    `json:"summary"`
	RiskLevel RiskLevel `json:"risk_level"`
	Links     []string  `json:"links"`
	Evidence  []string  `json:"evidence"`
	SpendUSD  *float64  `json:"spend_usd,omitempty"`
	Currency  string    `json:"currency"`
}

// Receipt is an immutable record of one human decision on one request.
type Receipt struct {
	AttestationID        string    `json:"attestation_id"`
	AttestationRequestID string    `json:"attestation_request_id"`
	Decision             Decision  `json:"decision"`
	ReviewedBy           string    `json:"reviewed_by"`
	Timestamp            time.Time `json:"timestamp"`
	Scope                string    `json:"scope"`
	Notes                string    `json:"notes,omitempty"`
	PolicyVersion        string    `json:"policy_version"`
	Request              Snapshot  `json:"request"`
}

// Summary is the listing view of a pending request. Evidence is deliberately
// omitted; it is available through the details lookup.
type Summary struct {
	ID        string    `json:"id"`
	CreatedAt time.Time `json:"created_at"`
	Kind      Kind      `json:"kind"`
	RiskLevel RiskLevel `json:"risk_level"`
	Title     string    `json:"title"`
	Summary   string    `json:"summary"`
	Links     []string  `json:"links"`
	SpendUSD  *float64  `json:"spend_usd,omitempty"`
	Currency  string    `json:"currency"`
}

// Snap captures the receipt-embedded copy of a request.
func Snap(r *Request) Snapshot {
	return Snapshot{
		Kind:      r.Kind,
		Title:     r.Title,
		Summary:   r.Summary,
		RiskLevel: r.RiskLevel,
		Links:     r.Links,
		Evidence:  r.Evidence,
		SpendUSD:  r.SpendUSD,
		Currency:  r.Currency,
	}
}

// Summarize builds the listing view of a request.
func Summarize(r *Request) Summary {
	return Summary{
		ID:        r.ID,
		CreatedAt: r.CreatedAt,
		Kind:      r.Kind,
		RiskLevel: r.RiskLevel,
		Title:     r.Title,
		Summary:   r.Summary,
		Links:     r.Links,
		SpendUSD:  r.SpendUSD,
		Currency:  r.Currency,
	}
}

// NewRequestID returns a fresh request identifier ("attreq_" + 32 hex chars).
func NewRequestID() string {
	return "attreq_" + hexID()
}

// NewReceiptID returns a fresh receipt identifier ("att_" + 32 hex chars).
func NewReceiptID() string {
	return "att_" + hexID()
}

func hexID() string {
	u := uuid.New()
	return hex.EncodeToString(u[:])
}

// ValidKind reports whether k names a known request kind.
func ValidKind(k Kind) bool {
	for _, known := range Kinds {
		if k == known {
			return true
		}
	}
	return false
}

// ValidRiskLevel reports whether r names a known risk level.
func ValidRiskLevel(r RiskLevel) bool {
	return r == RiskLow || r == RiskMedium || r == RiskHigh
}

// ValidDecision reports whether d names a terminal decision.
func ValidDecision(d Decision) bool {
	return d == DecisionApproved || d == DecisionDenied || d == DecisionNeedsInfo
}

// ValidAction reports whether a names a requestable action.
func ValidAction(a Action) bool {
	return a == ActionApprove || a == ActionDeny || a == ActionNeedsInfo
}
