package fetcher

import (
	"context"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
)

// FetchRDB downloads an RDB code table and parses it into records.
func FetchRDB(ctx context.Context, f Fetcher, rawURL string, params map[string]string) ([]Record, error) {
	target, err := WithQuery(rawURL, params)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	body, err := f.Download(ctx, target)
	if err != nil {
		return nil, eris.Wrapf(err, "fetch rdb %s", target)
	}
	defer body.Close() //nolint:errcheck

	records, err := ReadRDB(ctx, body)
	if err != nil {
		return nil, eris.Wrapf(err, "parse rdb %s", target)
	}

	zap.L().Debug("fetched rdb table",
		zap.String("url", target),
		zap.Int("records", len(records)),
		zap.Duration("elapsed", time.Since(start)),
	)
	return records, nil
}

// FetchJSONCodes downloads a JSON code list and returns the records held in
// its field array.
func FetchJSONCodes(ctx context.Context, f Fetcher, rawURL string, params map[string]string, field string) ([]Record, error) {
	target, err := WithQuery(rawURL, params)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	body, err := f.Download(ctx, target)
	if err != nil {
		return nil, eris.Wrapf(err, "fetch json %s", target)
	}
	defer body.Close() //nolint:errcheck

	records, err := ReadJSONCodes(ctx, body, field)
	if err != nil {
		return nil, eris.Wrapf(err, "parse json %s", target)
	}

	zap.L().Debug("fetched json codes",
		zap.String("url", target),
		zap.Int("records", len(records)),
		zap.Duration("elapsed", time.Since(start)),
	)
	return records, nil
}
