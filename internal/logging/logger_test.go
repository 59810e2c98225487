package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	l, err := ParseLevel(" debug ")
	require.NoError(t, err)
	assert.Equal(t, LevelDebug, l)

	_, err = ParseLevel("verbose")
	require.Error(t, err)
}

func TestNewJSON(t *testing.T) {
	var buf bytes.Buffer
	l := New(&buf, Config{Level: LevelWarn, Format: "json"})
	l.Info("dropped")
	l.Warn("kept", "rows", 3)

	var rec map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &rec))
	assert.Equal(t, "kept", rec["msg"])
	assert.EqualValues(t, 3, rec["rows"])
}

func TestContextLogger(t *testing.T) {
	var buf bytes.Buffer
	l := New(&buf, Config{Level: LevelDebug})
	ctx := WithContext(context.Background(), l)
	assert.Same(t, l, FromContext(ctx))
	assert.NotNil(t, FromContext(context.Background()))
}

func TestInitToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "flow.log")
	require.NoError(t, Init(Config{Level: LevelInfo, OutputPath: path, Format: "text"}))
	t.Cleanup(func() { _ = Close() })

	WithComponent("test").Info("hello")

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "component=test")
	assert.Contains(t, string(data), "hello")
}
