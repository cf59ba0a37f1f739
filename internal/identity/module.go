package identity

import (
	"context"
	"log/slog"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shandysiswandi/twostep/internal/identity/inbound"
	"github.com/shandysiswandi/twostep/internal/identity/outbound/authority"
	"github.com/shandysiswandi/twostep/internal/identity/outbound/db"
	"github.com/shandysiswandi/twostep/internal/identity/outbound/pending"
	"github.com/shandysiswandi/twostep/internal/identity/usecase"
	"github.com/shandysiswandi/twostep/internal/pkg/clock"
	"github.com/shandysiswandi/twostep/internal/pkg/config"
	"github.com/shandysiswandi/twostep/internal/pkg/hash"
	"github.com/shandysiswandi/twostep/internal/pkg/instrument"
	"github.com/shandysiswandi/twostep/internal/pkg/otp"
	"github.com/shandysiswandi/twostep/internal/pkg/pendingtoken"
	"github.com/shandysiswandi/twostep/internal/pkg/router"
	"github.com/shandysiswandi/twostep/internal/pkg/uid"
	"github.com/shandysiswandi/twostep/internal/pkg/validator"

	authorityuc "github.com/shandysiswandi/twostep/internal/authority/usecase"
)

type Dependency struct {
	DBConn       *pgxpool.Pool              `validate:"required"`
	Router       *router.Router             `validate:"required"`
	Authority    *authorityuc.Usecase       `validate:"required"`
	PendingCodec *pendingtoken.Codec        `validate:"required"`
	Config       config.Config              `validate:"required"`
	Instrument   instrument.Instrumentation `validate:"required"`
	UID          uid.NumberID               `validate:"required"`
	UUID         uid.StringID               `validate:"required"`
	Password     hash.Hash                  `validate:"required"`
	OTP          otp.Generator              `validate:"required"`
	Clock        clock.Clocker              `validate:"required"`
	Validator    validator.Validator        `validate:"required"`
}

func New(ctx context.Context, dep Dependency) error {
	if err := dep.Validator.Validate(dep); err != nil {
		return err
	}

	repoPending := pending.New(pending.Config{
		Codec:        dep.PendingCodec,
		Clock:        dep.Clock,
		Instrument:   dep.Instrument,
		CookiePrefix: dep.Config.GetString("app.cookie_prefix"),
		TTL:          dep.Config.GetSecond("modules.identity.pending_ttl_seconds"),
		Secure:       strings.EqualFold(dep.Config.GetString("app.env"), "production"),
	})

	uc := usecase.New(usecase.Dependency{
		RepoDB:        db.NewDB(dep.DBConn, dep.Instrument),
		RepoPending:   repoPending,
		RepoAuthority: authority.New(dep.Authority),
		Validator:     dep.Validator,
		Config:        dep.Config,
		Password:      dep.Password,
		OTP:           dep.OTP,
		UID:           dep.UID,
		UUID:          dep.UUID,
		Clock:         dep.Clock,
		Instrument:    dep.Instrument,
	})

	if dep.Config.GetBool("modules.identity.seed.enabled") {
		if _, err := uc.SeedUsers(ctx, dep.Config.GetArray("modules.identity.seed.users")); err != nil {
			slog.ErrorContext(ctx, "failed to seed users", "error", err)
			return err
		}
	}

	inbound.RegisterHTTPEndpoint(dep.Router, uc)

	return nil
}
