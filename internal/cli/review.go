package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/signoff-dev/signoff/internal/engine"
)

var (
	reviewDecision string
	reviewScope    string
	reviewNotes    string
	reviewBy       string
)

func init() {
	rootCmd.AddCommand(reviewCmd)
	reviewCmd.Flags().StringVar(&reviewDecision, "decision", "", "Decision: approved, denied, needs_info (required)")
	reviewCmd.Flags().StringVar(&reviewScope, "scope", "", "What the decision covers, e.g. deploy_release")
	reviewCmd.Flags().StringVar(&reviewNotes, "notes", "", "Reviewer notes")
	reviewCmd.Flags().StringVar(&reviewBy, "by", "", "Reviewer identity (default $SIGNOFF_REVIEWER)")
}

var reviewCmd = &cobra.Command{
	Use:   "review <attestation_request_id>",
	Short: "Record a human decision on a request",
	Long:  "Appends a receipt for the request and prints it. If the request already has\na receipt, the existing one is returned unchanged: the first decision wins.",
	Args:  cobra.ExactArgs(1),
	RunE:  runReview,
}

func runReview(cmd *cobra.Command, args []string) error {
	eng, done, cfg, err := openEngine()
	if err != nil {
		return err
	}
	defer done()

	reviewedBy := reviewBy
	if reviewedBy == "" {
		reviewedBy = cfg.Reviewer
	}

	result, err := eng.Review(engine.ReviewInput{
		RequestID:  args[0],
		Decision:   reviewDecision,
		Scope:      reviewScope,
		Notes:      reviewNotes,
		ReviewedBy: reviewedBy,
	})
	if err != nil {
		return err
	}

	out, _ := json.MarshalIndent(result, "", "  ")
	fmt.Println(string(out))
	return nil
}
