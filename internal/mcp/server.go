// Package mcp exposes the attestation lifecycle as MCP tools over stdio.
// The transport is a thin adapter: every tool maps one-to-one onto an
// engine operation and serializes its result.
package mcp

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/signoff-dev/signoff/internal/engine"
	"github.com/signoff-dev/signoff/internal/logstore"
	"github.com/signoff-dev/signoff/internal/policy"
)

// Config holds MCP server configuration.
type Config struct {
	DataDir    string
	PolicyPath string
}

// Server wraps the MCP SDK server around the lifecycle engine.
type Server struct {
	mcpServer  *mcpsdk.Server
	eng        *engine.Engine
	requests   *logstore.Log
	receipts   *logstore.Log
	policyHash string
	logger     *slog.Logger
}

// New opens the two streams, loads the policy catalog, and registers the
// six attestation tools.
func New(cfg Config) (*Server, error) {
	catalog, policyHash, err := policy.LoadWithHash(cfg.PolicyPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load policy catalog: %w", err)
	}

	requests, err := logstore.Open(filepath.Join(cfg.DataDir, "request.log"))
	if err != nil {
		return nil, fmt.Errorf("failed to open request log: %w", err)
	}

	receipts, err := logstore.Open(filepath.Join(cfg.DataDir, "receipt.log"))
	if err != nil {
		requests.Close()
		return nil, fmt.Errorf("failed to open receipt log: %w", err)
	}

	s := &Server{
		eng:        engine.New(requests, receipts, catalog),
		requests:   requests,
		receipts:   receipts,
		policyHash: policyHash,
		logger:     slog.New(slog.NewTextHandler(os.Stderr, nil)),
	}

	s.mcpServer = mcpsdk.NewServer(
		&mcpsdk.Implementation{
			Name:    "signoff",
			Version: "0.1.0",
		},
		nil,
	)

	s.registerTools()
	return s, nil
}

// Run starts the MCP server on stdio transport. Blocks until ctx is cancelled.
func (s *Server) Run(ctx context.Context) error {
	s.logger.Info("signoff MCP server running on stdio",
		"policy_version", s.eng.Policy().Version,
		"request_log", s.requests.Path(),
		"receipt_log", s.receipts.Path(),
	)
	return s.mcpServer.Run(ctx, &mcpsdk.StdioTransport{})
}

// Close closes both stream files.
func (s *Server) Close() error {
	if err := s.requests.Close(); err != nil {
		s.receipts.Close()
		return err
	}
	return s.receipts.Close()
}

// registerTools adds the six attestation tools to the MCP server.
func (s *Server) registerTools() {
	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "signoff_submit",
		Description: "Submit a sensitive action for human attestation. Returns a pending request id, or field-level violations with needs_info status.",
	}, s.handleSubmit)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "signoff_status",
		Description: "Get the current status of an attestation request: pending, or the recorded decision with its receipt.",
	}, s.handleStatus)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "signoff_policy",
		Description: "Get the active approval policy: version, spend cap, decision vocabulary, and evidence guidance.",
	}, s.handlePolicy)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "signoff_pending",
		Description: "List pending attestation requests, most recently submitted first.",
	}, s.handlePending)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "signoff_details",
		Description: "Get the full record of a submitted attestation request, including evidence.",
	}, s.handleDetails)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "signoff_review",
		Description: "Record a human decision on an attestation request. Repeated reviews return the first recorded receipt unchanged.",
	}, s.handleReview)
}
