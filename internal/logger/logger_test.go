package logger

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

func capture(opts *slog.HandlerOptions) *bytes.Buffer {
	var buf bytes.Buffer
	log = New(NewJSONHandler(&buf, opts))
	return &buf
}

func TestInit(t *testing.T) {
	Init("debug")
	assert.NotNil(t, log)
	assert.True(t, log.Enabled(context.Background(), slog.LevelDebug))

	Init()
	assert.False(t, log.Enabled(context.Background(), slog.LevelDebug))
}

func TestInfoWithAttrs(t *testing.T) {
	buf := capture(nil)

	Info("availability replaced", "space_id", "abc", "slots", 3)

	out := buf.String()
	assert.Contains(t, out, "availability replaced")
	assert.Contains(t, out, `"space_id":"abc"`)
	assert.Contains(t, out, `"slots":3`)
}

func TestErrorf(t *testing.T) {
	buf := capture(nil)

	Errorf("booking %s failed", "b-1")

	assert.Contains(t, buf.String(), "booking b-1 failed")
	assert.Contains(t, buf.String(), `"level":"ERROR"`)
}

func TestDebugRequiresLevel(t *testing.T) {
	buf := capture(nil)
	Debug("hidden")
	assert.Empty(t, buf.String())

	buf = capture(&slog.HandlerOptions{Level: slog.LevelDebug})
	Debugf("shown %d", 1)
	assert.Contains(t, buf.String(), "shown 1")
}

func TestWithError(t *testing.T) {
	buf := capture(nil)

	WithError(assert.AnError).Info("test with error")

	out := buf.String()
	assert.Contains(t, out, "test with error")
	assert.Contains(t, out, assert.AnError.Error())
}

func TestWithFields(t *testing.T) {
	buf := capture(nil)

	WithFields(map[string]interface{}{"key1": "value1", "key2": 123}).Info("test with fields")

	out := buf.String()
	assert.Contains(t, out, `"key1":"value1"`)
	assert.Contains(t, out, `"key2":123`)
}
