package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/signoff-dev/signoff/internal/config"
	"github.com/signoff-dev/signoff/internal/engine"
	"github.com/signoff-dev/signoff/internal/logstore"
	"github.com/signoff-dev/signoff/internal/policy"
)

var (
	flagDataDir    string
	flagPolicyPath string
)

var rootCmd = &cobra.Command{
	Use:   "signoff",
	Short: "Human attestation gateway for agent actions",
	Long:  "Agents submit sensitive actions — deployments, spend, access grants, filings —\nfor human sign-off. Reviewers record terminal decisions; every record is an\nimmutable line in an append-only, hash-chained log.",
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagDataDir, "data-dir", "", "Directory holding the request/receipt logs (default $SIGNOFF_DATA_DIR or ~/.signoff)")
	rootCmd.PersistentFlags().StringVar(&flagPolicyPath, "policy", "", "Path to policy catalog YAML (default $SIGNOFF_POLICY_PATH)")
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// loadConfig resolves environment configuration with flag overrides.
func loadConfig() (config.Config, error) {
	cfg, err := config.FromEnv()
	if err != nil {
		return config.Config{}, err
	}
	if flagDataDir != "" {
		cfg.DataDir = flagDataDir
	}
	if flagPolicyPath != "" {
		cfg.PolicyPath = flagPolicyPath
	}
	return cfg, nil
}

// openEngine builds a file-backed engine for one-shot commands. The caller
// must invoke the returned closer when done.
func openEngine() (*engine.Engine, func(), config.Config, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, nil, config.Config{}, err
	}

	catalog, err := policy.Load(cfg.PolicyPath)
	if err != nil {
		return nil, nil, config.Config{}, err
	}

	requests, err := logstore.Open(cfg.RequestLogPath())
	if err != nil {
		return nil, nil, config.Config{}, fmt.Errorf("failed to open request log: %w", err)
	}
	receipts, err := logstore.Open(cfg.ReceiptLogPath())
	if err != nil {
		requests.Close()
		return nil, nil, config.Config{}, fmt.Errorf("failed to open receipt log: %w", err)
	}

	closer := func() {
		requests.Close()
		receipts.Close()
	}
	return engine.New(requests, receipts, catalog), closer, cfg, nil
}
