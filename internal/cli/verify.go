package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/signoff-dev/signoff/internal/logstore"
)

func init() {
	rootCmd.AddCommand(verifyCmd)
}

var verifyCmd = &cobra.Command{
	Use:   "verify",
	Short: "Verify hash chain integrity of both logs",
	Long:  "Walks the request and receipt logs and validates that every record's\nprev_hash matches the SHA-256 of the previous line. Exits 0 if both chains\nare intact, 1 if either is tampered.",
	RunE:  runVerify,
}

func runVerify(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	failed := false
	for _, stream := range []struct {
		name string
		path string
	}{
		{"request log", cfg.RequestLogPath()},
		{"receipt log", cfg.ReceiptLogPath()},
	} {
		result := logstore.Verify(stream.path)
		if result.Valid {
			fmt.Printf("OK: %s: %d records verified\n", stream.name, result.Lines)
			continue
		}
		failed = true
		fmt.Printf("FAIL: %s: line %d: %s\n", stream.name, result.ErrorLine, result.Error)
	}

	if failed {
		return fmt.Errorf("hash chain verification failed")
	}
	return nil
}
