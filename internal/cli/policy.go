package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/signoff-dev/signoff/internal/policy"
)

func init() {
	rootCmd.AddCommand(policyCmd)
}

var policyCmd = &cobra.Command{
	Use:   "policy",
	Short: "Show the active policy catalog",
	Long:  "Prints the policy version, approval cap, decision vocabulary, and guidance.\nThe version shown here is stamped onto every receipt recorded while active.",
	RunE:  runPolicy,
}

func runPolicy(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	catalog, hash, err := policy.LoadWithHash(cfg.PolicyPath)
	if err != nil {
		return err
	}

	out, _ := json.MarshalIndent(struct {
		*policy.Catalog
		PolicyHash string `json:"policy_hash"`
	}{catalog, hash}, "", "  ")
	fmt.Println(string(out))
	return nil
}
