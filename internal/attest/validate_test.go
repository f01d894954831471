package attest

import (
	"strings"
	"testing"
)

func violationFor(violations []Violation, field string) *Violation {
	for i := range violations {
		if violations[i].Field == field {
			return &violations[i]
		}
	}
	return nil
}

func TestValidSubmissionAppliesDefaults(t *testing.T) {
	req, violations := ValidateSubmit(SubmitInput{
		Title:   "Deploy v1.2.3",
		Summary: "Ship release",
	})
	if len(violations) != 0 {
		t.Fatalf("expected no violations, got %v", violations)
	}
	if req.Kind != KindComplianceAction {
		t.Errorf("expected default kind compliance_action, got %s", req.Kind)
	}
	if req.RiskLevel != RiskMedium {
		t.Errorf("expected default risk medium, got %s", req.RiskLevel)
	}
	if req.RequestedAction != ActionApprove {
		t.Errorf("expected default requested_action approve, got %s", req.RequestedAction)
	}
	if req.Currency != "USD" {
		t.Errorf("expected default currency USD, got %s", req.Currency)
	}
}

func TestEmptyTitleReported(t *testing.T) {
	_, violations := ValidateSubmit(SubmitInput{Title: "", Summary: "x"})
	if v := violationFor(violations, "title"); v == nil {
		t.Fatalf("expected violation for title, got %v", violations)
	}
}

func TestWhitespaceTitleReported(t *testing.T) {
	_, violations := ValidateSubmit(SubmitInput{Title: "   ", Summary: "x"})
	if violationFor(violations, "title") == nil {
		t.Fatalf("expected violation for whitespace title, got %v", violations)
	}
}

func TestAllViolationsReportedAtOnce(t *testing.T) {
	spend := -5.0
	_, violations := ValidateSubmit(SubmitInput{
		Title:           "",
		Summary:         "",
		Kind:            "unheard_of",
		RiskLevel:       "extreme",
		RequestedAction: "maybe",
		Links:           []string{"not a url"},
		SpendUSD:        &spend,
	})

	for _, field := range []string{"title", "summary", "kind", "risk_level", "requested_action", "links[0]", "spend_usd"} {
		if violationFor(violations, field) == nil {
			t.Errorf("expected violation for %s, got %v", field, violations)
		}
	}
}

func TestLinkValidation(t *testing.T) {
	cases := []struct {
		link string
		ok   bool
	}{
		{"https://example.com/pr/123", true},
		{"http://internal/build/77", true},
		{"example.com/no-scheme", false},
		{"https://", false},
		{"::bad::", false},
	}
	for _, tc := range cases {
		_, violations := ValidateSubmit(SubmitInput{
			Title:   "t",
			Summary: "s",
			Links:   []string{tc.link},
		})
		got := violationFor(violations, "links[0]") == nil
		if got != tc.ok {
			t.Errorf("link %q: expected ok=%v, got violations %v", tc.link, tc.ok, violations)
		}
	}
}

func TestZeroSpendAllowed(t *testing.T) {
	spend := 0.0
	_, violations := ValidateSubmit(SubmitInput{Title: "t", Summary: "s", SpendUSD: &spend})
	if len(violations) != 0 {
		t.Fatalf("expected zero spend to be valid, got %v", violations)
	}
}

func TestValidateReview(t *testing.T) {
	if v := ValidateReview("", "approved"); violationFor(v, "attestation_request_id") == nil {
		t.Error("expected violation for empty id")
	}
	if v := ValidateReview("attreq_x", ""); violationFor(v, "decision") == nil {
		t.Error("expected violation for empty decision")
	}
	if v := ValidateReview("attreq_x", "rejected"); violationFor(v, "decision") == nil {
		t.Error("expected violation for unknown decision")
	}
	if v := ValidateReview("attreq_x", "denied"); len(v) != 0 {
		t.Errorf("expected valid review input, got %v", v)
	}
}

func TestIDPrefixes(t *testing.T) {
	reqID := NewRequestID()
	if !strings.HasPrefix(reqID, "attreq_") || len(reqID) != len("attreq_")+32 {
		t.Errorf("unexpected request id format: %s", reqID)
	}
	rcptID := NewReceiptID()
	if !strings.HasPrefix(rcptID, "att_") || len(rcptID) != len("att_")+32 {
		t.Errorf("unexpected receipt id format: %s", rcptID)
	}
	if NewRequestID() == NewRequestID() {
		t.Error("expected fresh ids to differ")
	}
}
