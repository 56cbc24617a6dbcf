package logger_test

import (
	"bytes"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/facet/internal/adapters/logger"
	"go.trai.ch/facet/internal/core/domain"
	"go.trai.ch/zerr"
)

func newBufferedLogger() (*logger.Logger, *bytes.Buffer) {
	var buf bytes.Buffer
	lg := logger.New()
	lg.SetOutput(&buf)
	return lg, &buf
}

func TestLogger_Levels(t *testing.T) {
	lg, buf := newBufferedLogger()

	lg.Debug("hidden")
	lg.Info("some message")
	lg.Warn("some warning")

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "level=INFO")
	assert.Contains(t, out, "some message")
	assert.Contains(t, out, "level=WARN")
	assert.Contains(t, out, "some warning")
}

func TestLogger_SetLevel(t *testing.T) {
	lg, buf := newBufferedLogger()

	lg.SetLevel(domain.LogLevelDebug)
	lg.Debug("visible")
	assert.Contains(t, buf.String(), "visible")

	buf.Reset()
	lg.SetLevel(domain.LogLevelError)
	lg.Warn("dropped")
	assert.Empty(t, buf.String())
}

func TestLogger_ErrorText(t *testing.T) {
	lg, buf := newBufferedLogger()

	lg.Error(zerr.With(zerr.New("object missing"), "ref", "abc"))
	lg.Error(nil)

	out := buf.String()
	assert.Contains(t, out, "level=ERROR")
	assert.Contains(t, out, "object missing")
	assert.Contains(t, out, "ref: abc")
}

func TestLogger_ErrorJSON(t *testing.T) {
	lg, buf := newBufferedLogger()
	lg.SetJSON(true)

	lg.Error(zerr.With(zerr.New("object missing"), "ref", "abc"))

	var record map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &record))
	assert.Equal(t, "ERROR", record["level"])
	assert.Equal(t, "operation failed", record["msg"])
	assert.Equal(t, "abc", record["ref"])
	assert.Contains(t, record["error"], "object missing")
}

func TestLogger_SetOutputKeepsJSON(t *testing.T) {
	lg := logger.New()
	lg.SetJSON(true)

	var buf bytes.Buffer
	lg.SetOutput(&buf)
	lg.Info("hello")

	assert.True(t, json.Valid(buf.Bytes()))
}

func TestCollectErrorEntries(t *testing.T) {
	entries := logger.CollectErrorEntries(errors.New("simple error"))
	require.Len(t, entries, 1)
	assert.Equal(t, "simple error", entries[0].Message)
	assert.Nil(t, entries[0].Metadata)

	chain := zerr.Wrap(zerr.Wrap(errors.New("root cause"), "middle layer"), "outer layer")
	entries = logger.CollectErrorEntries(chain)
	require.Len(t, entries, 3)
	assert.Equal(t, "outer layer", entries[0].Message)
	assert.Equal(t, "middle layer", entries[1].Message)
	assert.Equal(t, "root cause", entries[2].Message)

	withMeta := zerr.With(zerr.With(zerr.New("base error"), "key1", "value1"), "key2", 42)
	entries = logger.CollectErrorEntries(withMeta)
	require.Len(t, entries, 1)
	assert.Equal(t, "value1", entries[0].Metadata["key1"])
	assert.Equal(t, 42, entries[0].Metadata["key2"])

	assert.Empty(t, logger.CollectErrorEntries(nil))
}

func TestFormatErrorEntries(t *testing.T) {
	tests := []struct {
		name    string
		entries []logger.ErrorEntry
		want    string
	}{
		{
			name:    "single entry",
			entries: []logger.ErrorEntry{{Message: "single error"}},
			want:    "Error: single error",
		},
		{
			name:    "three entries",
			entries: []logger.ErrorEntry{{Message: "first"}, {Message: "second"}, {Message: "third"}},
			want:    "Error: first\n\n  Caused by:\n    → second\n    → third",
		},
		{
			name: "metadata sorted",
			entries: []logger.ErrorEntry{
				{Message: "error", Metadata: map[string]any{"zebra": "z", "alpha": "a"}},
			},
			want: "Error: error\n       alpha: a\n       zebra: z",
		},
		{
			name: "metadata on cause",
			entries: []logger.ErrorEntry{
				{Message: "main"},
				{Message: "cause", Metadata: map[string]any{"ref": 7}},
			},
			want: "Error: main\n\n  Caused by:\n    → cause\n      ref: 7",
		},
		{
			name:    "multiline message",
			entries: []logger.ErrorEntry{{Message: "line1\nline2"}},
			want:    "Error: line1\n       line2",
		},
		{
			name:    "empty",
			entries: nil,
			want:    "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, logger.FormatErrorEntries(tt.entries))
		})
	}
}
