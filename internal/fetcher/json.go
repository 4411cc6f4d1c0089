package fetcher

import (
	"context"
	"encoding/json"
	"io"
	"strconv"

	"github.com/rotisserie/eris"
)

// StreamJSONField decodes the array stored under field of a top-level JSON
// object, sending each element to a channel. Other fields are skipped. A
// missing field produces no elements.
// Expects input in the form {"field":[{...},{...}], ...}.
// Both channels are closed when processing completes.
func StreamJSONField[T any](ctx context.Context, r io.Reader, field string) (<-chan T, <-chan error) {
	outCh := make(chan T, 64)
	errCh := make(chan error, 1)

	go func() {
		defer close(outCh)
		defer close(errCh)

		decoder := json.NewDecoder(r)
		decoder.UseNumber()

		if err := expectDelim(decoder, '{'); err != nil {
			errCh <- err
			return
		}

		for decoder.More() {
			tok, err := decoder.Token()
			if err != nil {
				errCh <- eris.Wrap(err, "json: read object key")
				return
			}
			key, _ := tok.(string)

			if key != field {
				var skip json.RawMessage
				if err := decoder.Decode(&skip); err != nil {
					errCh <- eris.Wrapf(err, "json: skip field %q", key)
					return
				}
				continue
			}

			if err := expectDelim(decoder, '['); err != nil {
				errCh <- eris.Wrapf(err, "json: field %q", field)
				return
			}

			for decoder.More() {
				if ctx.Err() != nil {
					errCh <- eris.Wrap(ctx.Err(), "json: context cancelled")
					return
				}

				var item T
				if err := decoder.Decode(&item); err != nil {
					errCh <- eris.Wrap(err, "json: decode element")
					return
				}

				select {
				case outCh <- item:
				case <-ctx.Done():
					errCh <- eris.Wrap(ctx.Err(), "json: context cancelled")
					return
				}
			}

			// Consume closing bracket
			if _, err := decoder.Token(); err != nil {
				errCh <- eris.Wrap(err, "json: read closing token")
				return
			}
		}

		if _, err := decoder.Token(); err != nil && err != io.EOF {
			errCh <- eris.Wrap(err, "json: read closing token")
		}
	}()

	return outCh, errCh
}

func expectDelim(decoder *json.Decoder, want json.Delim) error {
	tok, err := decoder.Token()
	if err != nil {
		return eris.Wrapf(err, "json: expected '%v'", want)
	}
	delim, ok := tok.(json.Delim)
	if !ok || delim != want {
		return eris.Errorf("json: expected '%v', got %v", want, tok)
	}
	return nil
}

// ReadJSONCodes parses a code-list response and returns the elements of the
// named array field as records. Scalar values are rendered as text; nested
// values are kept as compact JSON.
func ReadJSONCodes(ctx context.Context, r io.Reader, field string) ([]Record, error) {
	itemCh, errCh := StreamJSONField[map[string]any](ctx, r, field)

	var records []Record
	for item := range itemCh {
		rec := make(Record, len(item))
		for k, v := range item {
			s, err := stringify(v)
			if err != nil {
				// Keep draining so the decoder goroutine can exit.
				for range itemCh {
				}
				return nil, eris.Wrapf(err, "json: field %q", k)
			}
			rec[k] = s
		}
		records = append(records, rec)
	}
	for err := range errCh {
		if err != nil {
			return records, err
		}
	}
	return records, nil
}

func stringify(v any) (string, error) {
	switch t := v.(type) {
	case nil:
		return "", nil
	case string:
		return t, nil
	case json.Number:
		return t.String(), nil
	case bool:
		return strconv.FormatBool(t), nil
	default:
		b, err := json.Marshal(t)
		if err != nil {
			return "", err
		}
		return string(b), nil
	}
}
