package logx

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLevelFromFlags(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, LevelFromFlags(true, false, false))
	assert.Equal(t, slog.LevelInfo, LevelFromFlags(false, true, true))
	assert.Equal(t, slog.LevelError, LevelFromFlags(false, false, true))
	assert.Equal(t, slog.LevelWarn, LevelFromFlags(false, false, false))
	assert.Equal(t, slog.LevelDebug, LevelFromFlags(true, true, true))
}

func TestHandler(t *testing.T) {
	var buf bytes.Buffer
	l := New(&buf, slog.LevelInfo, false)

	l.Debug("hidden")
	l.Info("scene built", "scene", "bounce", "static", 4)
	l.Warn("physics: collision iteration cap reached", "err", errors.New("two words"))

	assert.Equal(t,
		"INFO  scene built scene=bounce static=4\n"+
			"WARN  physics: collision iteration cap reached err=\"two words\"\n",
		buf.String())
}

func TestHandlerGroups(t *testing.T) {
	var buf bytes.Buffer
	l := New(&buf, slog.LevelDebug, false).With("run", 1).WithGroup("stats")

	l.Debug("frame", "substeps", 2, slog.Group("cap", "hits", 0))
	assert.Equal(t, "DEBUG frame run=1 stats.substeps=2 stats.cap.hits=0\n", buf.String())
}

func TestHandlerEmptyValue(t *testing.T) {
	var buf bytes.Buffer
	New(&buf, slog.LevelInfo, false).Error("failed", "file", "")
	assert.Equal(t, "ERROR failed file=\"\"\n", buf.String())
}

func TestHandlerColor(t *testing.T) {
	var buf bytes.Buffer
	h := NewHandler(&buf, &Options{Level: slog.LevelInfo, Color: true})
	assert.True(t, h.Enabled(context.Background(), slog.LevelWarn))
	assert.False(t, h.Enabled(context.Background(), slog.LevelDebug))

	slog.New(h).Info("plain")
	assert.Contains(t, buf.String(), "plain")
}
