package writer

import (
	"bytes"
	"compress/gzip"
	"encoding/json"
	"io"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/colocation-mining/pkg/model"
)

func sampleResult() *model.MiningResult {
	return &model.MiningResult{
		RunUUID: "run-1",
		Patterns: []model.PrevalentPattern{
			{Pattern: model.NewPattern("A", "B"), PI: 0.75},
		},
	}
}

func TestJSONWriter_RoundTrip(t *testing.T) {
	var buf bytes.Buffer
	w := NewJSONWriter[*model.MiningResult]()
	require.NoError(t, w.Write(sampleResult(), &buf))

	var decoded model.MiningResult
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, "run-1", decoded.RunUUID)
	require.Len(t, decoded.Patterns, 1)
	assert.Equal(t, 0.75, decoded.Patterns[0].PI)
}

func TestPrettyJSONWriter_Indents(t *testing.T) {
	var buf bytes.Buffer
	w := NewPrettyJSONWriter[*model.MiningResult]()
	require.NoError(t, w.Write(sampleResult(), &buf))
	assert.Contains(t, buf.String(), "\n  ")
}

func TestJSONWriter_WriteToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "result.json")
	w := NewJSONWriter[*model.MiningResult]()
	require.NoError(t, w.WriteToFile(sampleResult(), path))

	var buf bytes.Buffer
	w2 := NewJSONWriter[*model.MiningResult]()
	require.NoError(t, w2.Write(sampleResult(), &buf))
}

func TestGzipWriter_RoundTrip(t *testing.T) {
	var buf bytes.Buffer
	w := NewGzipWriter[*model.MiningResult]()
	require.NoError(t, w.Write(sampleResult(), &buf))

	gz, err := gzip.NewReader(&buf)
	require.NoError(t, err)
	raw, err := io.ReadAll(gz)
	require.NoError(t, err)

	var decoded model.MiningResult
	require.NoError(t, json.Unmarshal(raw, &decoded))
	assert.Equal(t, "run-1", decoded.RunUUID)
}
