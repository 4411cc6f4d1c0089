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
	"github.com/sells-group/nwis-lookups/internal/geo"
	"github.com/sells-group/nwis-lookups/internal/output"
)

var geoOut string

var geoCmd = &cobra.Command{
	Use:   "geo",
	Short: "Write the country/state/county lookup file",
	Long: `Fetches WQP state codes for each configured country and the full county
code list, then writes country -> state_cd -> county_cd lookups. Counties are
attached only for wqp.county_countries (US by default).`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		out := cfg.WQP.Output
		if geoOut != "" {
			out = geoOut
		}
		return runGeo(ctx, newFetcher(cfg), cfg, out)
	},
}

func init() {
	geoCmd.Flags().StringVar(&geoOut, "out", "", "output path (default wqp.output)")
	rootCmd.AddCommand(geoCmd)
}

// geoOptions maps WQP settings onto a geo build.
func geoOptions(c *config.Config) geo.Options {
	params := make(map[string]string)
	if c.WQP.MimeType != "" {
		params["mimeType"] = c.WQP.MimeType
	}
	return geo.Options{
		Endpoint:        c.WQP.Endpoint,
		Countries:       c.WQP.Countries,
		CountyCountries: c.WQP.CountyCountries,
		Params:          params,
	}
}

// runGeo builds the country/state/county lookup and writes it to path.
func runGeo(ctx context.Context, f fetcher.Fetcher, c *config.Config, path string) error {
	log := zap.L().With(zap.String("command", "geo"))
	log.Info("building geo lookup",
		zap.String("endpoint", c.WQP.Endpoint),
		zap.Strings("countries", c.WQP.Countries),
		zap.Strings("county_countries", c.WQP.CountyCountries),
	)

	lookup, err := geo.Build(ctx, f, geoOptions(c))
	if err != nil {
		return eris.Wrap(err, "geo")
	}

	if _, err := output.WriteJSON(path, lookup); err != nil {
		return eris.Wrap(err, "geo")
	}
	return nil
}
