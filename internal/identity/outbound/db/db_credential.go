package db

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/shandysiswandi/twostep/internal/identity/entity"
)

const queryFindCredentialByEmail = `
SELECT u.id, u.email, COALESCE(c.password_hash, '')
FROM identity_users u
LEFT JOIN identity_user_credentials c ON c.user_id = u.id
WHERE u.email = $1
LIMIT 1`

func (s *DB) FindCredentialByEmail(ctx context.Context, email string) (_ *entity.Credential, err error) {
	ctx, span := s.startSpan(ctx, "FindCredentialByEmail")
	defer func() { s.endSpan(span, err) }()

	var c entity.Credential
	err = s.conn.QueryRow(ctx, queryFindCredentialByEmail, email).Scan(&c.UserID, &c.Email, &c.PasswordHash)
	if err != nil {
		return nil, s.mapError(err)
	}

	return &c, nil
}

func (s *DB) CreateUser(ctx context.Context, user entity.NewUser, hash string) (err error) {
	ctx, span := s.startSpan(ctx, "CreateUser")
	defer func() { s.endSpan(span, err) }()

	err = s.withTx(ctx, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx,
			`INSERT INTO identity_users (id, email, name) VALUES ($1, $2, $3)`,
			user.ID, user.Email, user.Name,
		); err != nil {
			return err
		}

		_, err := tx.Exec(ctx,
			`INSERT INTO identity_user_credentials (user_id, password_hash) VALUES ($1, $2)`,
			user.ID, hash,
		)
		return err
	})

	return s.mapError(err)
}
