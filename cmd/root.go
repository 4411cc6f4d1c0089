package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/nwis-lookups/internal/config"
	"github.com/sells-group/nwis-lookups/internal/fetcher"
)

var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "nwis-lookups",
	Short: "Generate NWIS code lookup files",
	Long: `Fetches NWIS code tables and WQP state/county codes, reshapes them into
code-keyed lookups, and writes nwis_lookup.json and nwis_country_state_lookup.json
for the site information service.

With no subcommand both files are written.`,
	Args:         cobra.NoArgs,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		c, err := config.Load()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		cfg = c

		if err := config.InitLogger(cfg.Log); err != nil {
			return fmt.Errorf("init logger: %w", err)
		}
		zap.ReplaceGlobals(zap.L().With(zap.String("run_id", uuid.NewString())))

		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = zap.L().Sync()
	},
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		f := newFetcher(cfg)
		if err := runCodes(ctx, f, cfg, cfg.NWIS.Output); err != nil {
			return err
		}
		return runGeo(ctx, f, cfg, cfg.WQP.Output)
	},
}

// newFetcher builds the HTTP fetcher shared by both pipelines.
func newFetcher(c *config.Config) *fetcher.HTTPFetcher {
	return fetcher.NewHTTPFetcher(fetcher.HTTPOptions{
		UserAgent:  c.Fetch.UserAgent,
		Timeout:    c.Fetch.Timeout(),
		MaxRetries: c.Fetch.MaxRetries,
		RatePerSec: c.Fetch.RatePerSec,
	})
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
