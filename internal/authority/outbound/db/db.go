package db

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/shandysiswandi/twostep/internal/authority/entity"
	"github.com/shandysiswandi/twostep/internal/pkg/goerror"
	"github.com/shandysiswandi/twostep/internal/pkg/instrument"
	"go.opentelemetry.io/otel/codes"
)

type conn interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

type DB struct {
	conn conn
	ins  instrument.Instrumentation
}

func NewDB(conn conn, ins instrument.Instrumentation) *DB {
	return &DB{conn: conn, ins: ins}
}

const queryFindUserByEmail = `
SELECT id, email, name
FROM identity_users
WHERE email = $1
LIMIT 1`

func (s *DB) FindUserByEmail(ctx context.Context, email string) (*entity.User, error) {
	ctx, span := s.ins.Tracer("authority.outbound.db").Start(ctx, "FindUserByEmail")
	defer span.End()

	var u entity.User
	err := s.conn.QueryRow(ctx, queryFindUserByEmail, email).Scan(&u.ID, &u.Email, &u.Name)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, goerror.ErrNotFound
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	return &u, nil
}
