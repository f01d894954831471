package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/signoff-dev/signoff/internal/attest"
)

var (
	submitTitle    string
	submitSummary  string
	submitKind     string
	submitRisk     string
	submitLinks    []string
	submitEvidence []string
	submitAction   string
	submitSpend    float64
	submitCurrency string
)

func init() {
	rootCmd.AddCommand(submitCmd)
	submitCmd.Flags().StringVar(&submitTitle, "title", "", "Short title of the action (required)")
	submitCmd.Flags().StringVar(&submitSummary, "summary", "", "What is being done and why (required)")
	submitCmd.Flags().StringVar(&submitKind, "kind", "", "Action kind: contract, filing, compliance_action, financial_instruction, deploy, access")
	submitCmd.Flags().StringVar(&submitRisk, "risk", "", "Risk level: low, medium, high")
	submitCmd.Flags().StringArrayVar(&submitLinks, "link", nil, "Supporting URL (repeatable)")
	submitCmd.Flags().StringArrayVar(&submitEvidence, "evidence", nil, "Evidence reference (repeatable)")
	submitCmd.Flags().StringVar(&submitAction, "requested-action", "", "Advisory outcome: approve, deny, needs_info")
	submitCmd.Flags().Float64Var(&submitSpend, "spend-usd", -1, "Spend amount in USD")
	submitCmd.Flags().StringVar(&submitCurrency, "currency", "", "Currency code (default USD)")
}

var submitCmd = &cobra.Command{
	Use:   "submit",
	Short: "Submit an action for human attestation",
	Long:  "Appends a pending attestation request to the request log and prints its id.\nValidation failures are printed field by field with needs_info status.",
	RunE:  runSubmit,
}

func runSubmit(cmd *cobra.Command, args []string) error {
	eng, done, _, err := openEngine()
	if err != nil {
		return err
	}
	defer done()

	in := attest.SubmitInput{
		Title:           submitTitle,
		Summary:         submitSummary,
		Kind:            submitKind,
		RiskLevel:       submitRisk,
		Links:           submitLinks,
		Evidence:        submitEvidence,
		RequestedAction: submitAction,
		Currency:        submitCurrency,
	}
	if cmd.Flags().Changed("spend-usd") {
		in.SpendUSD = &submitSpend
	}

	result, err := eng.Submit(in)
	if err != nil {
		return err
	}

	out, _ := json.MarshalIndent(result, "", "  ")
	fmt.Println(string(out))
	return nil
}
