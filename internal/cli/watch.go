package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/signoff-dev/signoff/internal/attest"
	"github.com/signoff-dev/signoff/internal/watch"
)

var watchPoll time.Duration

func init() {
	rootCmd.AddCommand(watchCmd)
	watchCmd.Flags().DurationVar(&watchPoll, "poll", 0, "Poll interval instead of fsnotify (e.g. 5s); use on NFS")
}

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Announce new attestation requests as they arrive",
	Long:  "Tails the request log and prints each newly submitted request.\nIntended for a reviewer terminal sitting next to an agent session.",
	RunE:  runWatch,
}

func runWatch(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		cancel()
	}()

	handler := func(req attest.Request) {
		spend := "-"
		if req.SpendUSD != nil {
			spend = fmt.Sprintf("%.2f %s", *req.SpendUSD, req.Currency)
		}
		fmt.Printf("[%s] %-40s %-22s risk=%-6s spend=%-12s %s\n",
			req.CreatedAt.Format("15:04:05"),
			req.ID,
			req.Kind,
			req.RiskLevel,
			spend,
			req.Title,
		)
	}

	fmt.Fprintf(os.Stderr, "watching %s\n", cfg.RequestLogPath())
	if watchPoll > 0 {
		return watch.NewPoller(cfg.RequestLogPath(), handler, watchPoll).Run(ctx)
	}
	return watch.New(cfg.RequestLogPath(), handler).Run(ctx)
}
