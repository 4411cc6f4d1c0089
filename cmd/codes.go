package main

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/nwis-lookups/internal/config"
	"github.com/sells-group/nwis-lookups/internal/fetcher"
	"github.com/sells-group/nwis-lookups/internal/lookup"
	"github.com/sells-group/nwis-lookups/internal/output"
)

var codesOut string

var codesCmd = &cobra.Command{
	Use:   "codes",
	Short: "Write the NWIS code lookup file",
	Long:  "Fetches each configured NWIS code table (RDB) and writes the code lookups keyed by site field, e.g. agency_cd and nat_aqfr_cd.",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		out := cfg.NWIS.Output
		if codesOut != "" {
			out = codesOut
		}
		return runCodes(ctx, newFetcher(cfg), cfg, out)
	},
}

func init() {
	codesCmd.Flags().StringVar(&codesOut, "out", "", "output path (default nwis.output)")
	rootCmd.AddCommand(codesCmd)
}

// runCodes builds the NWIS code lookups and writes them to path.
func runCodes(ctx context.Context, f fetcher.Fetcher, c *config.Config, path string) error {
	log := zap.L().With(zap.String("command", "codes"))

	tables, err := lookup.LoadTables(c.NWIS.TablesFile)
	if err != nil {
		return eris.Wrap(err, "codes")
	}

	log.Info("building code lookups",
		zap.String("endpoint", c.NWIS.CodeEndpoint),
		zap.Int("tables", len(tables.Flat)),
		zap.Int("grouped_tables", len(tables.Grouped)),
	)

	lookups, err := lookup.Generate(ctx, f, c.NWIS.CodeEndpoint, tables)
	if err != nil {
		return eris.Wrap(err, "codes")
	}

	if _, err := output.WriteJSON(path, lookups); err != nil {
		return eris.Wrap(err, "codes")
	}
	return nil
}
