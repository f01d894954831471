package attest

import (
	"fmt"
	"net/url"
	"strings"
)

// Violation describes one field-level problem with a submission. Violations
// are reported as data, never as errors: a rejected submission is a normal
// business outcome.
type Violation struct {
	Field  string `json:"field"`
	Reason string `json:"reason"`
}

// SubmitInput carries the raw fields of a submission before validation.
// Enum fields are plain strings so a bad value is reported as a violation
// rather than silently coerced.
type SubmitInput struct {
	Title           string
	Summary         string
	Kind            string
	RiskLevel       string
	Links           []string
	Evidence        []string
	RequestedAction string
	SpendUSD        *float64
	Currency        string
}

// ValidateSubmit checks every field of a submission and reports all
// violations at once. On success it returns a Request with defaults applied;
// identity, creation time, and intrinsic status are left for the engine to
// stamp.
func ValidateSubmit(in SubmitInput) (Request, []Violation) {
	var violations []Violation

	if strings.TrimSpace(in.Title) == "" {
		violations = append(violations, Violation{Field: "title", Reason: "must not be empty"})
	}
	if strings.TrimSpace(in.Summary) == "" {
		violations = append(violations, Violation{Field: "summary", Reason: "must not be empty"})
	}

	kind := KindComplianceAction
	if in.Kind != "" {
		kind = Kind(in.Kind)
		if !ValidKind(kind) {
			violations = append(violations, Violation{
				Field:  "kind",
				Reason: fmt.Sprintf("%q is not one of %s", in.Kind, joinKinds()),
			})
		}
	}

	risk := RiskMedium
	if in.RiskLevel != "" {
		risk = RiskLevel(in.RiskLevel)
		if !ValidRiskLevel(risk) {
			violations = append(violations, Violation{
				Field:  "risk_level",
				Reason: fmt.Sprintf("%q is not one of low, medium, high", in.RiskLevel),
			})
		}
	}

	action := ActionApprove
	if in.RequestedAction != "" {
		action = Action(in.RequestedAction)
		if !ValidAction(action) {
			violations = append(violations, Violation{
				Field:  "requested_action",
				Reason: fmt.Sprintf("%q is not one of approve, deny, needs_info", in.RequestedAction),
			})
		}
	}

	for i, link := range in.Links {
		if !wellFormedURL(link) {
			violations = append(violations, Violation{
				Field:  fmt.Sprintf("links[%d]", i),
				Reason: fmt.Sprintf("%q is not a well-formed URL", link),
			})
		}
	}

	if in.SpendUSD != nil && *in.SpendUSD < 0 {
		violations = append(violations, Violation{Field: "spend_usd", Reason: "must not be negative"})
	}

	currency := in.Currency
	if currency == "" {
		currency = "USD"
	}

	if len(violations) > 0 {
		return Request{}, violations
	}

	return Request{
		Kind:            kind,
		Title:           in.Title,
		Summary:         in.Summary,
		RiskLevel:       risk,
		Links:           in.Links,
		Evidence:        in.Evidence,
		RequestedAction: action,
		SpendUSD:        in.SpendUSD,
		Currency:        currency,
	}, nil
}

// ValidateReview checks the two required review fields. The request itself
// is looked up separately; an unknown id is a not-found outcome, not a
// validation failure.
func ValidateReview(requestID, decision string) []Violation {
	var violations []Violation
	if strings.TrimSpace(requestID) == "" {
		violations = append(violations, Violation{Field: "attestation_request_id", Reason: "must not be empty"})
	}
	if decision == "" {
		violations = append(violations, Violation{Field: "decision", Reason: "must not be empty"})
	} else if !ValidDecision(Decision(decision)) {
		violations = append(violations, Violation{
			Field:  "decision",
			Reason: fmt.Sprintf("%q is not one of approved, denied, needs_info", decision),
		})
	}
	return violations
}

func wellFormedURL(raw string) bool {
	u, err := url.Parse(raw)
	if err != nil {
		return false
	}
	return u.Scheme != "" && u.Host != ""
}

func joinKinds() string {
	names := make([]string, len(Kinds))
	for i, k := range Kinds {
		names[i] = string(k)
	}
	return strings.Join(names, ", ")
}
