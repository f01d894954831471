package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var pendingLimit int

func init() {
	rootCmd.AddCommand(pendingCmd)
	pendingCmd.Flags().IntVarP(&pendingLimit, "limit", "n", 0, "Maximum entries to show (1-100, default 25)")
}

var pendingCmd = &cobra.Command{
	Use:   "pending",
	Short: "List pending attestation requests",
	Long:  "Shows requests awaiting review, most recently submitted first.",
	RunE:  runPending,
}

func runPending(cmd *cobra.Command, args []string) error {
	eng, done, _, err := openEngine()
	if err != nil {
		return err
	}
	defer done()

	summaries, err := eng.ListPending(pendingLimit)
	if err != nil {
		return err
	}

	if len(summaries) == 0 {
		fmt.Println("No pending requests.")
		return nil
	}

	fmt.Printf("%-40s %-22s %-8s %-40s %s\n", "ID", "KIND", "RISK", "TITLE", "CREATED")
	for _, s := range summaries {
		fmt.Printf("%-40s %-22s %-8s %-40s %s\n",
			s.ID,
			s.Kind,
			s.RiskLevel,
			truncate(s.Title, 40),
			s.CreatedAt.Format("2006-01-02 15:04:05"),
		)
	}
	return nil
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max-3] + "..."
}
