package mcp

import (
	"context"
	"testing"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()
	s, err := New(Config{DataDir: t.TempDir()})
	if err != nil {
		t.Fatalf("failed to create MCP server: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestSubmitTool(t *testing.T) {
	s := newTestServer(t)
	ctx := context.Background()

	_, out, err := s.handleSubmit(ctx, &mcpsdk.CallToolRequest{}, SubmitInput{
		Title:     "Deploy v1.2.3",
		Summary:   "Ship release",
		Kind:      "deploy",
		RiskLevel: "medium",
		Links:     []string{"https://example.com/pr/123"},
	})
	require.NoError(t, err)
	assert.Equal(t, "pending", out.Status)
	assert.Regexp(t, `^attreq_`, out.ID)
	assert.Empty(t, out.Violations)
}

func TestSubmitToolReportsViolations(t *testing.T) {
	s := newTestServer(t)
	ctx := context.Background()

	_, out, err := s.handleSubmit(ctx, &mcpsdk.CallToolRequest{}, SubmitInput{
		Title:   "",
		Summary: "x",
	})
	require.NoError(t, err, "validation failure is a reported outcome, not a transport error")
	assert.Equal(t, "needs_info", out.Status)
	require.Len(t, out.Violations, 1)
	assert.Equal(t, "title", out.Violations[0].Field)
}

func TestStatusToolLifecycle(t *testing.T) {
	s := newTestServer(t)
	ctx := context.Background()

	_, submitted, err := s.handleSubmit(ctx, &mcpsdk.CallToolRequest{}, SubmitInput{
		Title:   "Grant prod access",
		Summary: "On-call rotation",
		Kind:    "access",
	})
	require.NoError(t, err)

	_, status, err := s.handleStatus(ctx, &mcpsdk.CallToolRequest{}, StatusInput{
		AttestationRequestID: submitted.ID,
	})
	require.NoError(t, err)
	assert.Equal(t, "pending", status.Status)
	assert.Nil(t, status.Receipt)

	_, reviewed, err := s.handleReview(ctx, &mcpsdk.CallToolRequest{}, ReviewInput{
		AttestationRequestID: submitted.ID,
		Decision:             "approved",
		ReviewedBy:           "alice",
	})
	require.NoError(t, err)
	assert.Equal(t, "approved", reviewed.Status)
	require.NotNil(t, reviewed.Receipt)
	assert.Equal(t, "alice", reviewed.Receipt.ReviewedBy)

	_, status, err = s.handleStatus(ctx, &mcpsdk.CallToolRequest{}, StatusInput{
		AttestationRequestID: submitted.ID,
	})
	require.NoError(t, err)
	assert.Equal(t, "approved", status.Status)
	require.NotNil(t, status.Receipt)
	assert.Equal(t, reviewed.Receipt.AttestationID, status.Receipt.AttestationID)
}

func TestStatusToolUnknownIDPending(t *testing.T) {
	s := newTestServer(t)
	ctx := context.Background()

	_, out, err := s.handleStatus(ctx, &mcpsdk.CallToolRequest{}, StatusInput{
		AttestationRequestID: "attreq_never_submitted",
	})
	require.NoError(t, err)
	assert.Equal(t, "pending", out.Status)
}

func TestPolicyTool(t *testing.T) {
	s := newTestServer(t)
	ctx := context.Background()

	_, out, err := s.handlePolicy(ctx, &mcpsdk.CallToolRequest{}, PolicyInput{})
	require.NoError(t, err)
	assert.NotEmpty(t, out.PolicyVersion)
	assert.NotEmpty(t, out.PolicyHash)
	assert.Equal(t, []string{"approved", "denied", "needs_info"}, out.Decisions)
	assert.Greater(t, out.DefaultMonthlyApprovalCapUSD, 0.0)
}

func TestPendingToolLimit(t *testing.T) {
	s := newTestServer(t)
	ctx := context.Background()

	for i := 0; i < 4; i++ {
		_, _, err := s.handleSubmit(ctx, &mcpsdk.CallToolRequest{}, SubmitInput{
			Title:   "Request",
			Summary: "s",
		})
		require.NoError(t, err)
	}

	_, out, err := s.handlePending(ctx, &mcpsdk.CallToolRequest{}, PendingInput{Limit: 2})
	require.NoError(t, err)
	assert.Equal(t, 2, out.Count)
	assert.Len(t, out.Requests, 2)
}

func TestDetailsTool(t *testing.T) {
	s := newTestServer(t)
	ctx := context.Background()

	_, submitted, err := s.handleSubmit(ctx, &mcpsdk.CallToolRequest{}, SubmitInput{
		Title:    "File quarterly report",
		Summary:  "Q3 filing",
		Kind:     "filing",
		Evidence: []string{"draft-v2"},
	})
	require.NoError(t, err)

	_, out, err := s.handleDetails(ctx, &mcpsdk.CallToolRequest{}, DetailsInput{
		AttestationRequestID: submitted.ID,
	})
	require.NoError(t, err)
	require.NotNil(t, out.Request)
	assert.Equal(t, []string{"draft-v2"}, out.Request.Evidence)

	_, out, err = s.handleDetails(ctx, &mcpsdk.CallToolRequest{}, DetailsInput{
		AttestationRequestID: "attreq_nope",
	})
	require.NoError(t, err)
	assert.Equal(t, "needs_info", out.Status)
	assert.Nil(t, out.Request)
}

func TestReviewToolIdempotent(t *testing.T) {
	s := newTestServer(t)
	ctx := context.Background()

	_, submitted, err := s.handleSubmit(ctx, &mcpsdk.CallToolRequest{}, SubmitInput{
		Title:   "Deploy v2.0.0",
		Summary: "Major release",
		Kind:    "deploy",
	})
	require.NoError(t, err)

	_, first, err := s.handleReview(ctx, &mcpsdk.CallToolRequest{}, ReviewInput{
		AttestationRequestID: submitted.ID,
		Decision:             "denied",
	})
	require.NoError(t, err)

	_, second, err := s.handleReview(ctx, &mcpsdk.CallToolRequest{}, ReviewInput{
		AttestationRequestID: submitted.ID,
		Decision:             "approved",
	})
	require.NoError(t, err)
	assert.Equal(t, "denied", second.Status)
	assert.Equal(t, first.Receipt.AttestationID, second.Receipt.AttestationID)
}
