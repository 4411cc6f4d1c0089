package lookup

import (
	"context"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/nwis-lookups/internal/fetcher"
)

// Generate fetches every table in order and returns the lookups keyed by
// site key. endpoint is the NWIS code service base URL.
func Generate(ctx context.Context, f fetcher.Fetcher, endpoint string, tables *Tables) (Lookups, error) {
	log := zap.L().With(zap.String("component", "lookup.generate"))
	lookups := make(Lookups, len(tables.Flat)+len(tables.Grouped))

	for _, tbl := range tables.Flat {
		records, err := fetcher.FetchRDB(ctx, f, tbl.Endpoint(endpoint), tbl.Params)
		if err != nil {
			return nil, eris.Wrapf(err, "lookup: table %s", tbl.SiteKey)
		}
		codes, err := Translate(records, tbl.CodeKey, tbl.NameKey, tbl.DescKey)
		if err != nil {
			return nil, eris.Wrapf(err, "lookup: table %s", tbl.SiteKey)
		}
		lookups[tbl.SiteKey] = codes
		log.Info("built lookup", zap.String("site_key", tbl.SiteKey), zap.Int("codes", len(codes)))
	}

	for _, tbl := range tables.Grouped {
		records, err := fetcher.FetchRDB(ctx, f, tbl.Endpoint(endpoint), tbl.Params)
		if err != nil {
			return nil, eris.Wrapf(err, "lookup: grouped table %s", tbl.SiteKey)
		}
		groups, err := TranslateGrouped(records, tbl.GroupKey, tbl.CodeKey, tbl.NameKey)
		if err != nil {
			return nil, eris.Wrapf(err, "lookup: grouped table %s", tbl.SiteKey)
		}
		lookups[tbl.SiteKey] = groups
		log.Info("built grouped lookup",
			zap.String("site_key", tbl.SiteKey),
			zap.String("group_key", tbl.GroupKey),
			zap.Int("groups", len(groups)),
		)
	}

	return lookups, nil
}
