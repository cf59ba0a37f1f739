package jwt

import (
	"errors"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/shandysiswandi/twostep/internal/pkg/clock"
	"github.com/shandysiswandi/twostep/internal/pkg/uid"
)

const minHS512KeyLen = 64

// Symmetric signs with a shared HS512 key.
type Symmetric struct {
	cfg    Config
	parser *jwt.Parser
}

// NewHS512 falls back to the system clock and UUID ids when Clock or UUID
// is nil.
func NewHS512(cfg Config) (*Symmetric, error) {
	if len(cfg.Secret) < minHS512KeyLen {
		return nil, ErrSigningKeyTooShort
	}
	if cfg.Clock == nil {
		cfg.Clock = clock.New()
	}
	if cfg.UUID == nil {
		cfg.UUID = uid.NewUUID()
	}

	s := &Symmetric{cfg: cfg}
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS512.Alg()}),
		jwt.WithIssuedAt(),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(func() time.Time { return s.cfg.Clock.Now() }),
	}
	if cfg.Issuer != "" {
		opts = append(opts, jwt.WithIssuer(cfg.Issuer))
	}
	if len(cfg.Audiences) > 0 {
		opts = append(opts, jwt.WithAudience(cfg.Audiences...))
	}

	s.parser = jwt.NewParser(opts...)
	return s, nil
}

// Generate returns a token for userID valid for the configured TTL from now.
func (s *Symmetric) Generate(userID int64, email string) (string, error) {
	now := s.cfg.Clock.Now()
	clm := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        s.cfg.UUID.Generate(),
			Subject:   strconv.FormatInt(userID, 10),
			Issuer:    s.cfg.Issuer,
			Audience:  s.cfg.Audiences,
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.cfg.TTL)),
		},
		UserID:    userID,
		UserEmail: email,
	}

	return jwt.NewWithClaims(jwt.SigningMethodHS512, clm).SignedString(s.cfg.Secret)
}

func (s *Symmetric) Verify(token string) (Claims, error) {
	var clm Claims
	_, err := s.parser.ParseWithClaims(token, &clm, func(*jwt.Token) (any, error) {
		return s.cfg.Secret, nil
	})
	switch {
	case errors.Is(err, jwt.ErrTokenExpired):
		return Claims{}, ErrTokenExpired
	case err != nil:
		return Claims{}, errors.Join(ErrInvalidToken, err)
	}

	return clm, nil
}
