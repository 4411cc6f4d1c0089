// Package output writes lookup mappings to disk.
package output

import (
	"bytes"
	"encoding/json"
	"os"

	"github.com/dustin/go-humanize"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"
)

// Indent is the indentation used for every written file.
const Indent = "    "

// Marshal renders v as indented JSON. Map keys are sorted, so equal inputs
// always produce identical bytes.
func Marshal(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", Indent)
	if err := enc.Encode(v); err != nil {
		return nil, eris.Wrap(err, "output: encode json")
	}
	return buf.Bytes(), nil
}

// WriteJSON writes v to path as indented JSON, replacing any existing file.
// Returns bytes written.
func WriteJSON(path string, v any) (int64, error) {
	data, err := Marshal(v)
	if err != nil {
		return 0, err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return 0, eris.Wrapf(err, "output: write %s", path)
	}

	zap.L().Info("wrote lookup file",
		zap.String("path", path),
		zap.String("size", humanize.Bytes(uint64(len(data)))),
	)
	return int64(len(data)), nil
}
