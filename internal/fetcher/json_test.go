package fetcher

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const stateCodesJSON = `{
  "codes": [
    {"value": "US:01", "desc": "US, Alabama", "providers": "NWIS STORET"},
    {"value": "US:06", "desc": "US, California", "providers": "NWIS STORET"}
  ],
  "recordCount": 2
}`

func TestReadJSONCodes(t *testing.T) {
	records, err := ReadJSONCodes(context.Background(), strings.NewReader(stateCodesJSON), "codes")
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, Record{"value": "US:01", "desc": "US, Alabama", "providers": "NWIS STORET"}, records[0])
	assert.Equal(t, "US, California", records[1]["desc"])
}

func TestReadJSONCodes_FieldAfterOtherKeys(t *testing.T) {
	input := `{"recordCount": 1, "meta": {"nested": [1, 2]}, "codes": [{"value": "CA:24", "desc": "CA, Quebec"}]}`
	records, err := ReadJSONCodes(context.Background(), strings.NewReader(input), "codes")
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "CA:24", records[0]["value"])
}

func TestReadJSONCodes_ScalarRendering(t *testing.T) {
	input := `{"codes": [{"n": 12, "f": 1.5, "b": true, "z": null, "o": {"k": "v"}}]}`
	records, err := ReadJSONCodes(context.Background(), strings.NewReader(input), "codes")
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, Record{"n": "12", "f": "1.5", "b": "true", "z": "", "o": `{"k":"v"}`}, records[0])
}

func TestReadJSONCodes_MissingField(t *testing.T) {
	records, err := ReadJSONCodes(context.Background(), strings.NewReader(`{"recordCount": 0}`), "codes")
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestReadJSONCodes_NotObject(t *testing.T) {
	_, err := ReadJSONCodes(context.Background(), strings.NewReader(`[{"value": "US"}]`), "codes")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "expected '{'")
}

func TestReadJSONCodes_FieldNotArray(t *testing.T) {
	_, err := ReadJSONCodes(context.Background(), strings.NewReader(`{"codes": "nope"}`), "codes")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `field "codes"`)
}

func TestReadJSONCodes_Truncated(t *testing.T) {
	_, err := ReadJSONCodes(context.Background(), strings.NewReader(`{"codes": [{"value": "US:01"`), "codes")
	require.Error(t, err)
}

func TestReadJSONCodes_Empty(t *testing.T) {
	_, err := ReadJSONCodes(context.Background(), strings.NewReader(""), "codes")
	require.Error(t, err)
}

type testCode struct {
	Value string `json:"value"`
	Desc  string `json:"desc"`
}

func TestStreamJSONField_Typed(t *testing.T) {
	ch, errCh := StreamJSONField[testCode](context.Background(), strings.NewReader(stateCodesJSON), "codes")

	var codes []testCode
	for c := range ch {
		codes = append(codes, c)
	}
	for err := range errCh {
		require.NoError(t, err)
	}
	require.Len(t, codes, 2)
	assert.Equal(t, testCode{Value: "US:06", Desc: "US, California"}, codes[1])
}

func TestStreamJSONField_ContextAlreadyCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	ch, errCh := StreamJSONField[testCode](ctx, strings.NewReader(stateCodesJSON), "codes")
	for range ch {
	}
	var gotErr error
	for err := range errCh {
		if err != nil {
			gotErr = err
		}
	}
	require.Error(t, gotErr)
	assert.Contains(t, gotErr.Error(), "context")
}
