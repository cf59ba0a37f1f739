package instrument

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"go.opentelemetry.io/contrib/bridges/otelslog"
	sdklog "go.opentelemetry.io/otel/sdk/log"
)

type logSetup struct {
	service string
	level   slog.Level
	mask    map[string]struct{}
	out     io.Writer
}

func parseLevel(s string) slog.Level {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(strings.TrimSpace(s))); err != nil {
		return slog.LevelInfo
	}
	return lvl
}

// install replaces the default slog logger. With lp set, records also go to
// the OTLP log pipeline.
func (s logSetup) install(lp *sdklog.LoggerProvider) {
	slog.SetDefault(slog.New(s.handler(lp)))
}

func (s logSetup) handler(lp *sdklog.LoggerProvider) slog.Handler {
	out := s.out
	if out == nil {
		out = os.Stdout
	}

	var h slog.Handler = slog.NewJSONHandler(out, &slog.HandlerOptions{
		Level:       s.level,
		AddSource:   true,
		ReplaceAttr: renameAttr,
	})
	if lp != nil {
		h = fanout{h, otelslog.NewHandler(s.service, otelslog.WithLoggerProvider(lp))}
	}
	if len(s.mask) > 0 {
		h = maskHandler{next: h, keys: s.mask}
	}
	return serviceHandler{Handler: h, service: s.service}
}

// renameAttr shortens the built-in keys and trims source paths to the
// repository-relative internal/ path. Sources outside internal/ are dropped.
func renameAttr(_ []string, a slog.Attr) slog.Attr {
	switch a.Key {
	case slog.TimeKey:
		a.Key = "ts"
	case slog.LevelKey:
		a.Key = "severity"
	case slog.SourceKey:
		src, ok := a.Value.Any().(*slog.Source)
		if !ok {
			return a
		}
		_, rel, found := strings.Cut(src.File, "/internal/")
		if !found {
			return slog.Attr{}
		}
		return slog.String("file", "internal/"+rel+":"+strconv.Itoa(src.Line))
	}
	return a
}

type serviceHandler struct {
	slog.Handler
	service string
}

func (h serviceHandler) Handle(ctx context.Context, r slog.Record) error {
	if cid := GetCorrelationID(ctx); cid != "" {
		r.AddAttrs(slog.String("_cID", cid))
	}
	r.AddAttrs(slog.String("service", h.service))
	return h.Handler.Handle(ctx, r)
}

func (h serviceHandler) WithAttrs(as []slog.Attr) slog.Handler {
	return serviceHandler{Handler: h.Handler.WithAttrs(as), service: h.service}
}

func (h serviceHandler) WithGroup(name string) slog.Handler {
	return serviceHandler{Handler: h.Handler.WithGroup(name), service: h.service}
}

type fanout []slog.Handler

func (f fanout) Enabled(ctx context.Context, l slog.Level) bool {
	for _, h := range f {
		if h.Enabled(ctx, l) {
			return true
		}
	}
	return false
}

func (f fanout) Handle(ctx context.Context, r slog.Record) error {
	var errs []error
	for _, h := range f {
		if h.Enabled(ctx, r.Level) {
			errs = append(errs, h.Handle(ctx, r.Clone()))
		}
	}
	return errors.Join(errs...)
}

func (f fanout) WithAttrs(as []slog.Attr) slog.Handler {
	out := make(fanout, len(f))
	for i, h := range f {
		out[i] = h.WithAttrs(as)
	}
	return out
}

func (f fanout) WithGroup(name string) slog.Handler {
	out := make(fanout, len(f))
	for i, h := range f {
		out[i] = h.WithGroup(name)
	}
	return out
}
