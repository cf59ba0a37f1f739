package db

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/shandysiswandi/twostep/internal/identity/entity"
)

// ReplaceVerification deletes every record for v.Identifier and inserts v, in
// one transaction, so at most one code is live per identifier.
func (s *DB) ReplaceVerification(ctx context.Context, v entity.Verification) (err error) {
	ctx, span := s.startSpan(ctx, "ReplaceVerification")
	defer func() { s.endSpan(span, err) }()

	err = s.withTx(ctx, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx,
			`DELETE FROM identity_verifications WHERE identifier = $1`,
			v.Identifier,
		); err != nil {
			return err
		}

		_, err := tx.Exec(ctx,
			`INSERT INTO identity_verifications (id, identifier, value, expires_at, created_at) VALUES ($1, $2, $3, $4, $5)`,
			v.ID, v.Identifier, v.Value, v.ExpiresAt, v.CreatedAt,
		)
		return err
	})

	return s.mapError(err)
}

const queryFindLatestVerification = `
SELECT id, identifier, value, expires_at, created_at
FROM identity_verifications
WHERE identifier = $1
ORDER BY created_at DESC
LIMIT 1`

func (s *DB) FindLatestVerification(ctx context.Context, identifier string) (_ *entity.Verification, err error) {
	ctx, span := s.startSpan(ctx, "FindLatestVerification")
	defer func() { s.endSpan(span, err) }()

	var v entity.Verification
	err = s.conn.QueryRow(ctx, queryFindLatestVerification, identifier).
		Scan(&v.ID, &v.Identifier, &v.Value, &v.ExpiresAt, &v.CreatedAt)
	if err != nil {
		return nil, s.mapError(err)
	}

	return &v, nil
}

func (s *DB) DeleteVerification(ctx context.Context, id string) (err error) {
	ctx, span := s.startSpan(ctx, "DeleteVerification")
	defer func() { s.endSpan(span, err) }()

	_, err = s.conn.Exec(ctx, `DELETE FROM identity_verifications WHERE id = $1`, id)
	return s.mapError(err)
}
