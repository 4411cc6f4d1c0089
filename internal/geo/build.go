package geo

import (
	"context"
	"maps"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/nwis-lookups/internal/fetcher"
)

// Options configures a geo lookup build.
type Options struct {
	// Endpoint is the WQP Codes base URL.
	Endpoint string
	// Countries whose state codes are fetched.
	Countries []string
	// CountyCountries are the country prefixes whose counties are merged into
	// the state lookup. Empty means no counties are attached.
	CountyCountries []string
	// Params are sent with every request (e.g. mimeType=json).
	Params map[string]string
	// ListField is the response field holding the code array.
	ListField string
	Fields    Fields
}

func (o Options) url(service string) string {
	return strings.TrimRight(o.Endpoint, "/") + "/" + service
}

func (o Options) params(extra map[string]string) map[string]string {
	out := make(map[string]string, len(o.Params)+len(extra))
	maps.Copy(out, o.Params)
	maps.Copy(out, extra)
	return out
}

// Build fetches state codes per country, then the full county list, and
// merges the counties of each county country into its states.
func Build(ctx context.Context, f fetcher.Fetcher, opts Options) (Lookup, error) {
	log := zap.L().With(zap.String("component", "geo.build"))
	if opts.ListField == "" {
		opts.ListField = "codes"
	}
	if opts.Fields == (Fields{}) {
		opts.Fields = DefaultFields()
	}

	lookup := make(Lookup, len(opts.Countries))
	for _, country := range opts.Countries {
		records, err := fetcher.FetchJSONCodes(ctx, f, opts.url("statecode"),
			opts.params(map[string]string{"countrycode": country}), opts.ListField)
		if err != nil {
			return nil, eris.Wrapf(err, "geo: state codes for %s", country)
		}
		states, err := StateLookup(records, opts.Fields)
		if err != nil {
			return nil, eris.Wrapf(err, "geo: state codes for %s", country)
		}
		lookup[country] = &Country{States: states}
		log.Info("built state lookup", zap.String("country", country), zap.Int("states", len(states)))
	}

	if len(opts.CountyCountries) == 0 {
		log.Info("no county countries configured, skipping county codes")
		return lookup, nil
	}

	records, err := fetcher.FetchJSONCodes(ctx, f, opts.url("countycode"), opts.params(nil), opts.ListField)
	if err != nil {
		return nil, eris.Wrap(err, "geo: county codes")
	}

	for _, country := range opts.CountyCountries {
		filtered, err := FilterCounties(records, opts.Fields, country)
		if err != nil {
			return nil, err
		}
		counties, err := CountyLookup(filtered, opts.Fields)
		if err != nil {
			return nil, err
		}
		if err := Merge(lookup, country, counties); err != nil {
			return nil, err
		}
		log.Info("merged county lookup",
			zap.String("country", country),
			zap.Int("states", len(counties)),
			zap.Int("counties", len(filtered)),
		)
	}

	return lookup, nil
}
