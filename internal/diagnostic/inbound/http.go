package inbound

import (
	"context"

	"github.com/shandysiswandi/twostep/internal/diagnostic/entity"
	"github.com/shandysiswandi/twostep/internal/diagnostic/usecase"
	"github.com/shandysiswandi/twostep/internal/pkg/router"
)

type uc interface {
	ReportClientError(ctx context.Context, in usecase.ReportClientErrorInput) entity.ClientErrorReport
}

func RegisterHTTPEndpoint(r *router.Router, uc uc) {
	end := &HTTPEndpoint{uc: uc}

	r.POST("/api/v1/client-errors", end.ReportClientError)
}
