package fetcher

import (
	"bufio"
	"bytes"
	"context"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/rotisserie/eris"
	"golang.org/x/text/encoding/charmap"
)

const maxRDBLine = 1024 * 1024

// StreamRDB reads a USGS RDB body and sends one Record per data row.
//
// Lines starting with '#' are comments. The first remaining line holds the
// tab-separated field names; the line after it describes column widths and
// types (e.g. "5s\t15s") and is skipped. Rows shorter than the header get
// empty strings for the missing fields.
//
// Both channels are closed when processing completes.
func StreamRDB(ctx context.Context, r io.Reader) (<-chan Record, <-chan error) {
	rowCh := make(chan Record, 64)
	errCh := make(chan error, 1)

	go func() {
		defer close(rowCh)
		defer close(errCh)

		scanner := bufio.NewScanner(r)
		scanner.Buffer(make([]byte, 0, 64*1024), maxRDBLine)

		var header []string
		formatSkipped := false
		for scanner.Scan() {
			if ctx.Err() != nil {
				errCh <- eris.Wrap(ctx.Err(), "rdb: context cancelled")
				return
			}

			line := strings.TrimRight(scanner.Text(), "\r")
			if line == "" || strings.HasPrefix(line, "#") {
				continue
			}

			fields := strings.Split(line, "\t")
			if header == nil {
				header = fields
				continue
			}
			if !formatSkipped {
				formatSkipped = true
				continue
			}

			rec := make(Record, len(header))
			for i, name := range header {
				if i < len(fields) {
					rec[name] = fields[i]
				} else {
					rec[name] = ""
				}
			}

			select {
			case rowCh <- rec:
			case <-ctx.Done():
				errCh <- eris.Wrap(ctx.Err(), "rdb: context cancelled")
				return
			}
		}
		if err := scanner.Err(); err != nil {
			errCh <- eris.Wrap(err, "rdb: read line")
		}
	}()

	return rowCh, errCh
}

// ReadRDB reads a whole RDB body into memory and parses it. Bodies that are
// not valid UTF-8 are decoded as ISO-8859-1.
func ReadRDB(ctx context.Context, r io.Reader) ([]Record, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, eris.Wrap(err, "rdb: read body")
	}

	var body io.Reader = bytes.NewReader(raw)
	if !utf8.Valid(raw) {
		body = charmap.ISO8859_1.NewDecoder().Reader(body)
	}

	return collect(StreamRDB(ctx, body))
}

// collect drains a record stream, returning the first error seen.
func collect(rowCh <-chan Record, errCh <-chan error) ([]Record, error) {
	var records []Record
	for rec := range rowCh {
		records = append(records, rec)
	}
	for err := range errCh {
		if err != nil {
			return records, err
		}
	}
	return records, nil
}
