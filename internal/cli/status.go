package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(detailsCmd)
}

var statusCmd = &cobra.Command{
	Use:   "status <attestation_request_id>",
	Short: "Show the derived status of a request",
	Long:  "Prints the effective status: the latest receipt's decision, else pending.",
	Args:  cobra.ExactArgs(1),
	RunE:  runStatus,
}

var detailsCmd = &cobra.Command{
	Use:   "details <attestation_request_id>",
	Short: "Show the full record of a submitted request",
	Args:  cobra.ExactArgs(1),
	RunE:  runDetails,
}

func runStatus(cmd *cobra.Command, args []string) error {
	eng, done, _, err := openEngine()
	if err != nil {
		return err
	}
	defer done()

	result, err := eng.Status(args[0])
	if err != nil {
		return err
	}

	out, _ := json.MarshalIndent(result, "", "  ")
	fmt.Println(string(out))
	return nil
}

func runDetails(cmd *cobra.Command, args []string) error {
	eng, done, _, err := openEngine()
	if err != nil {
		return err
	}
	defer done()

	result, err := eng.PendingDetails(args[0])
	if err != nil {
		return err
	}

	out, _ := json.MarshalIndent(result, "", "  ")
	fmt.Println(string(out))
	return nil
}
