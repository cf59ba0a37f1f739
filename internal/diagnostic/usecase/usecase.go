package usecase

import (
	"context"

	"github.com/shandysiswandi/twostep/internal/diagnostic/entity"
	"github.com/shandysiswandi/twostep/internal/pkg/clock"
	"github.com/shandysiswandi/twostep/internal/pkg/config"
	"github.com/shandysiswandi/twostep/internal/pkg/instrument"
	"github.com/shandysiswandi/twostep/internal/pkg/uid"
	"go.opentelemetry.io/otel/trace"
)

type repoArchive interface {
	SaveClientError(ctx context.Context, r entity.ClientErrorReport) (string, error)
}

type Usecase struct {
	repoArchive repoArchive
	cfg         config.Config
	uuid        uid.StringID
	clock       clock.Clocker
	ins         instrument.Instrumentation
}

type Dependency struct {
	// RepoArchive may be nil when archiving is not configured.
	RepoArchive repoArchive
	Config      config.Config
	UUID        uid.StringID
	Clock       clock.Clocker
	Instrument  instrument.Instrumentation
}

func New(dep Dependency) *Usecase {
	return &Usecase{
		repoArchive: dep.RepoArchive,
		cfg:         dep.Config,
		uuid:        dep.UUID,
		clock:       dep.Clock,
		ins:         dep.Instrument,
	}
}

func (s *Usecase) startSpan(ctx context.Context, name string) (context.Context, trace.Span) {
	return s.ins.Tracer("diagnostic.usecase").Start(ctx, name)
}

func (s *Usecase) archiveEnabled() bool {
	return s.repoArchive != nil && s.cfg.GetBool("modules.diagnostic.archive.enabled")
}
