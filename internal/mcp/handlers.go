package mcp

import (
	"context"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/signoff-dev/signoff/internal/attest"
	"github.com/signoff-dev/signoff/internal/engine"
)

// --- Input/Output types ---

// SubmitInput defines parameters for the signoff_submit tool.
type SubmitInput struct {
	Title           string   `json:"title" jsonschema:"short title of the action awaiting attestation"`
	Summary         string   `json:"summary" jsonschema:"what is being done and why"`
	Kind            string   `json:"kind,omitempty" jsonschema:"one of contract/filing/compliance_action/financial_instruction/deploy/access"`
	RiskLevel       string   `json:"risk_level,omitempty" jsonschema:"one of low/medium/high"`
	Links           []string `json:"links,omitempty" jsonschema:"URLs supporting the request (PR, invoice, ticket)"`
	Evidence        []string `json:"evidence,omitempty" jsonschema:"free-text evidence references"`
	RequestedAction string   `json:"requested_action,omitempty" jsonschema:"advisory outcome: approve/deny/needs_info"`
	SpendUSD        *float64 `json:"spend_usd,omitempty" jsonschema:"spend amount in USD, if any"`
	Currency        string   `json:"currency,omitempty" jsonschema:"currency code, default USD"`
}

// SubmitOutput reports the new pending id or the violated fields.
type SubmitOutput struct {
	ID         string             `json:"id,omitempty"`
	Status     string             `json:"status"`
	Violations []attest.Violation `json:"violations,omitempty"`
}

// StatusInput defines parameters for the signoff_status tool.
type StatusInput struct {
	AttestationRequestID string `json:"attestation_request_id" jsonschema:"id returned by signoff_submit"`
}

// StatusOutput carries the derived status and the deciding receipt, if any.
type StatusOutput struct {
	Status     string             `json:"status"`
	Receipt    *attest.Receipt    `json:"receipt,omitempty"`
	Violations []attest.Violation `json:"violations,omitempty"`
}

// PolicyInput is empty — no parameters needed.
type PolicyInput struct{}

// PolicyOutput is the active catalog snapshot.
type PolicyOutput struct {
	PolicyVersion                string   `json:"policy_version"`
	PolicyHash                   string   `json:"policy_hash"`
	DefaultMonthlyApprovalCapUSD float64  `json:"default_monthly_approval_cap_usd"`
	Decisions                    []string `json:"decisions"`
	Guidance                     []string `json:"guidance"`
}

// PendingInput defines parameters for the signoff_pending tool.
type PendingInput struct {
	Limit int `json:"limit,omitempty" jsonschema:"maximum entries to return (1-100, default 25)"`
}

// PendingOutput lists pending request summaries, most recent first.
type PendingOutput struct {
	Requests []attest.Summary `json:"requests"`
	Count    int              `json:"count"`
}

// DetailsInput defines parameters for the signoff_details tool.
type DetailsInput struct {
	AttestationRequestID string `json:"attestation_request_id" jsonschema:"id returned by signoff_submit"`
}

// DetailsOutput carries the full request record or a not-found outcome.
type DetailsOutput struct {
	Status  string          `json:"status,omitempty"`
	Reason  string          `json:"reason,omitempty"`
	Request *attest.Request `json:"request,omitempty"`
}

// ReviewInput defines parameters for the signoff_review tool.
type ReviewInput struct {
	AttestationRequestID string `json:"attestation_request_id" jsonschema:"id of the request being decided"`
	Decision             string `json:"decision" jsonschema:"one of approved/denied/needs_info"`
	Scope                string `json:"scope,omitempty" jsonschema:"what the decision covers, e.g. deploy_release"`
	Notes                string `json:"notes,omitempty" jsonschema:"reviewer notes"`
	ReviewedBy           string `json:"reviewed_by,omitempty" jsonschema:"reviewer identity"`
}

// ReviewOutput carries the effective receipt: freshly recorded, or the one
// that already existed for this id.
type ReviewOutput struct {
	Status     string             `json:"status"`
	Receipt    *attest.Receipt    `json:"receipt,omitempty"`
	Reason     string             `json:"reason,omitempty"`
	Violations []attest.Violation `json:"violations,omitempty"`
}

// --- Handlers ---

func (s *Server) handleSubmit(ctx context.Context, req *mcpsdk.CallToolRequest, input SubmitInput) (*mcpsdk.CallToolResult, SubmitOutput, error) {
	result, err := s.eng.Submit(attest.SubmitInput{
		Title:           input.Title,
		Summary:         input.Summary,
		Kind:            input.Kind,
		RiskLevel:       input.RiskLevel,
		Links:           input.Links,
		Evidence:        input.Evidence,
		RequestedAction: input.RequestedAction,
		SpendUSD:        input.SpendUSD,
		Currency:        input.Currency,
	})
	if err != nil {
		return nil, SubmitOutput{}, err
	}

	s.logger.Info("submit", "id", result.ID, "status", result.Status)
	return nil, SubmitOutput{
		ID:         result.ID,
		Status:     result.Status,
		Violations: result.Violations,
	}, nil
}

func (s *Server) handleStatus(ctx context.Context, req *mcpsdk.CallToolRequest, input StatusInput) (*mcpsdk.CallToolResult, StatusOutput, error) {
	result, err := s.eng.Status(input.AttestationRequestID)
	if err != nil {
		return nil, StatusOutput{}, err
	}

	return nil, StatusOutput{
		Status:     result.Status,
		Receipt:    result.Receipt,
		Violations: result.Violations,
	}, nil
}

func (s *Server) handlePolicy(ctx context.Context, req *mcpsdk.CallToolRequest, input PolicyInput) (*mcpsdk.CallToolResult, PolicyOutput, error) {
	cat := s.eng.Policy()
	return nil, PolicyOutput{
		PolicyVersion:                cat.Version,
		PolicyHash:                   s.policyHash,
		DefaultMonthlyApprovalCapUSD: cat.DefaultMonthlyApprovalCapUSD,
		Decisions:                    cat.Decisions,
		Guidance:                     cat.Guidance,
	}, nil
}

func (s *Server) handlePending(ctx context.Context, req *mcpsdk.CallToolRequest, input PendingInput) (*mcpsdk.CallToolResult, PendingOutput, error) {
	summaries, err := s.eng.ListPending(input.Limit)
	if err != nil {
		return nil, PendingOutput{}, err
	}

	return nil, PendingOutput{Requests: summaries, Count: len(summaries)}, nil
}

func (s *Server) handleDetails(ctx context.Context, req *mcpsdk.CallToolRequest, input DetailsInput) (*mcpsdk.CallToolResult, DetailsOutput, error) {
	result, err := s.eng.PendingDetails(input.AttestationRequestID)
	if err != nil {
		return nil, DetailsOutput{}, err
	}

	return nil, DetailsOutput{
		Status:  result.Status,
		Reason:  result.Reason,
		Request: result.Request,
	}, nil
}

func (s *Server) handleReview(ctx context.Context, req *mcpsdk.CallToolRequest, input ReviewInput) (*mcpsdk.CallToolResult, ReviewOutput, error) {
	result, err := s.eng.Review(engine.ReviewInput{
		RequestID:  input.AttestationRequestID,
		Decision:   input.Decision,
		Scope:      input.Scope,
		Notes:      input.Notes,
		ReviewedBy: input.ReviewedBy,
	})
	if err != nil {
		return nil, ReviewOutput{}, err
	}

	s.logger.Info("review", "id", input.AttestationRequestID, "status", result.Status)
	return nil, ReviewOutput{
		Status:     result.Status,
		Receipt:    result.Receipt,
		Reason:     result.Reason,
		Violations: result.Violations,
	}, nil
}
