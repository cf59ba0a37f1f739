package instrument

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCorrelationID(t *testing.T) {
	assert.Empty(t, GetCorrelationID(t.Context()))

	ctx := SetCorrelationID(t.Context(), "cid-1")
	assert.Equal(t, "cid-1", GetCorrelationID(ctx))
}

func TestMaskAttr(t *testing.T) {
	keys := buildMaskKeys([]string{" Password ", "", "otp"})

	assert.Equal(t, "***", maskAttr(slog.String("password", "secret"), keys).Value.String())
	assert.Equal(t, "a@b.c", maskAttr(slog.String("email", "a@b.c"), keys).Value.String())
	assert.JSONEq(t, `{"email":"a@b.c","otp":"***"}`,
		maskAttr(slog.String("body", `{"email":"a@b.c","otp":"123456"}`), keys).Value.String())
}

func TestLogging_Handler(t *testing.T) {
	var buf bytes.Buffer
	h := logSetup{
		service: "twostep",
		level:   parseLevel("warn"),
		mask:    buildMaskKeys([]string{"code"}),
		out:     &buf,
	}.handler(nil)
	log := slog.New(h)

	log.InfoContext(t.Context(), "dropped")
	assert.Zero(t, buf.Len())

	ctx := SetCorrelationID(t.Context(), "cid-9")
	log.With("code", "123456").WarnContext(ctx, "otp sent", "payload", map[string]any{"code": "654321", "channel": "email"})

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "WARN", line["severity"])
	assert.Equal(t, "cid-9", line["_cID"])
	assert.Equal(t, "twostep", line["service"])
	assert.Equal(t, "***", line["code"])
	assert.Equal(t, map[string]any{"code": "***", "channel": "email"}, line["payload"])
	assert.Contains(t, line["file"], "internal/pkg/instrument/")
	assert.Contains(t, line, "ts")
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, slog.LevelInfo, parseLevel(""))
	assert.Equal(t, slog.LevelInfo, parseLevel("loud"))
	assert.Equal(t, slog.LevelDebug, parseLevel("DEBUG"))
	assert.Equal(t, 0.0, clampRatio(-1))
	assert.Equal(t, 1.0, clampRatio(3))
}

func TestNew_Disabled(t *testing.T) {
	prev := slog.Default()
	t.Cleanup(func() { slog.SetDefault(prev) })

	ins, err := New(t.Context(), &Config{ServiceName: "twostep"})
	require.NoError(t, err)
	assert.NoError(t, ins.Shutdown(t.Context()))
	_, span := ins.Tracer("x").Start(t.Context(), "y")
	assert.False(t, span.SpanContext().IsValid())
}
