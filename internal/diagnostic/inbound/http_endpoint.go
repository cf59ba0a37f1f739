package inbound

import (
	"encoding/json"
	"io"
	"log/slog"

	"github.com/shandysiswandi/twostep/internal/diagnostic/usecase"
	"github.com/shandysiswandi/twostep/internal/pkg/router"
)

// maxBodyBytes leaves room for a full stack plus JSON escaping.
const maxBodyBytes = 64 << 10

type HTTPEndpoint struct {
	uc uc
}

// ReportClientError always answers 204. Bodies that are not a JSON object are
// reported with defaults.
func (h *HTTPEndpoint) ReportClientError(r *router.Request) (any, error) {
	var body map[string]any
	if r.Body != nil {
		raw, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
		if err != nil {
			slog.WarnContext(r.Context(), "failed to read client error report", "error", err)
		} else if len(raw) > 0 {
			if err := json.Unmarshal(raw, &body); err != nil {
				slog.DebugContext(r.Context(), "client error report is not a json object", "error", err)
			}
		}
	}

	h.uc.ReportClientError(r.Context(), usecase.ReportClientErrorInput{
		Message:   stringField(body, "message"),
		Stack:     stringField(body, "stack"),
		Digest:    stringField(body, "digest"),
		Source:    stringField(body, "source"),
		IP:        r.RemoteAddr,
		UserAgent: r.UserAgent(),
	})

	return nil, nil
}

func stringField(body map[string]any, key string) *string {
	s, ok := body[key].(string)
	if !ok {
		return nil
	}
	return &s
}
