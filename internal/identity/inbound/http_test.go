package inbound

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/shandysiswandi/twostep/internal/identity/entity"
	"github.com/shandysiswandi/twostep/internal/identity/outbound/pending"
	"github.com/shandysiswandi/twostep/internal/identity/usecase"
	"github.com/shandysiswandi/twostep/internal/pkg/clock"
	"github.com/shandysiswandi/twostep/internal/pkg/config"
	"github.com/shandysiswandi/twostep/internal/pkg/goerror"
	"github.com/shandysiswandi/twostep/internal/pkg/hash"
	"github.com/shandysiswandi/twostep/internal/pkg/instrument"
	"github.com/shandysiswandi/twostep/internal/pkg/jwt"
	"github.com/shandysiswandi/twostep/internal/pkg/otp"
	"github.com/shandysiswandi/twostep/internal/pkg/pendingtoken"
	"github.com/shandysiswandi/twostep/internal/pkg/router"
	"github.com/shandysiswandi/twostep/internal/pkg/uid"
	"github.com/shandysiswandi/twostep/internal/pkg/validator"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

const pendingCookie = "twostep.pending_2step"

type memDB struct {
	creds map[string]*entity.Credential
	codes map[string]entity.Verification
}

func (m *memDB) FindCredentialByEmail(_ context.Context, email string) (*entity.Credential, error) {
	c, ok := m.creds[email]
	if !ok {
		return nil, goerror.ErrNotFound
	}
	return c, nil
}

func (m *memDB) CreateUser(_ context.Context, u entity.NewUser, h string) error {
	if _, ok := m.creds[u.Email]; ok {
		return goerror.ErrConflict
	}
	m.creds[u.Email] = &entity.Credential{UserID: u.ID, Email: u.Email, PasswordHash: h}
	return nil
}

func (m *memDB) ReplaceVerification(_ context.Context, v entity.Verification) error {
	m.codes[v.Identifier] = v
	return nil
}

func (m *memDB) FindLatestVerification(_ context.Context, identifier string) (*entity.Verification, error) {
	v, ok := m.codes[identifier]
	if !ok {
		return nil, goerror.ErrNotFound
	}
	return &v, nil
}

func (m *memDB) DeleteVerification(_ context.Context, id string) error {
	for k, v := range m.codes {
		if v.ID == id {
			delete(m.codes, k)
		}
	}
	return nil
}

type noAuthority struct{}

func (noAuthority) SendOTP(context.Context, string, string) (bool, error) { return true, nil }

func (noAuthority) CheckOTP(context.Context, string, string, string) (bool, error) {
	return false, nil
}

func newServer(t *testing.T) (http.Handler, *memDB) {
	t.Helper()

	cfg, err := config.NewViperFromBytes("yaml", []byte("app:\n  name: test\n"))
	require.NoError(t, err)
	v, err := validator.NewV10Validator()
	require.NoError(t, err)
	sf, err := uid.NewSnowflake(1)
	require.NoError(t, err)

	clk := clock.New()
	j, err := jwt.NewHS512(jwt.Config{
		Secret: []byte(strings.Repeat("s", 64)),
		TTL:    time.Hour,
		Clock:  clk,
		UUID:   uid.NewUUID(),
	})
	require.NoError(t, err)

	codec, err := pendingtoken.NewCodec([]byte(strings.Repeat("p", 32)), clk)
	require.NoError(t, err)

	pwd := hash.NewPassword(bcrypt.MinCost, "")
	hashed, err := pwd.Hash("correct-horse")
	require.NoError(t, err)

	db := &memDB{
		creds: map[string]*entity.Credential{
			"alice@example.com": {UserID: 1, Email: "alice@example.com", PasswordHash: string(hashed)},
		},
		codes: map[string]entity.Verification{},
	}

	r := router.NewRouter(router.Config{
		Config:     cfg,
		UUID:       uid.NewUUID(),
		JWT:        j,
		Instrument: instrument.NewNoop(),
	})
	RegisterHTTPEndpoint(r, usecase.New(usecase.Dependency{
		RepoDB: db,
		RepoPending: pending.New(pending.Config{
			Codec:        codec,
			Clock:        clk,
			Instrument:   instrument.NewNoop(),
			CookiePrefix: "twostep",
		}),
		RepoAuthority: noAuthority{},
		Validator:     v,
		Config:        cfg,
		Password:      pwd,
		OTP:           otp.NewNumeric(otp.DefaultDigits),
		UID:           sf,
		UUID:          uid.NewUUID(),
		Clock:         clk,
		Instrument:    instrument.NewNoop(),
	}))

	return r, db
}

type result struct {
	code    int
	env     map[string]any
	cookies []*http.Cookie
}

func (r result) data() map[string]any {
	d, _ := r.env["data"].(map[string]any)
	return d
}

func do(t *testing.T, h http.Handler, method, path, body string, cookies ...*http.Cookie) result {
	t.Helper()

	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	for _, c := range cookies {
		if c != nil {
			req.AddCookie(c)
		}
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)

	res := result{code: w.Code, cookies: w.Result().Cookies()}
	if w.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res.env))
	}
	return res
}

func findCookie(cookies []*http.Cookie, name string) *http.Cookie {
	for _, c := range cookies {
		if c.Name == name {
			return c
		}
	}
	return nil
}

func TestTwoStepLogin_SMS(t *testing.T) {
	h, db := newServer(t)

	res := do(t, h, http.MethodPost, "/api/v1/identity/login/credentials", `{"email":"alice@example.com","password":"correct-horse"}`)
	require.Equal(t, http.StatusOK, res.code)
	assert.Equal(t, true, res.data()["two_step"])
	pc := findCookie(res.cookies, pendingCookie)
	require.NotNil(t, pc)
	assert.True(t, pc.HttpOnly)
	assert.Equal(t, 600, pc.MaxAge)

	res = do(t, h, http.MethodGet, "/api/v1/identity/login/pending", "", pc)
	require.Equal(t, http.StatusOK, res.code)
	assert.Equal(t, true, res.data()["pending"])
	assert.Equal(t, "alice@example.com", res.data()["email"])
	assert.Empty(t, res.cookies)

	res = do(t, h, http.MethodPost, "/api/v1/identity/login/otp/send", `{"channel":"sms"}`, pc)
	require.Equal(t, http.StatusOK, res.code)
	v, ok := db.codes[entity.SMSIdentifier("alice@example.com")]
	require.True(t, ok)

	res = do(t, h, http.MethodPost, "/api/v1/identity/login/otp/verify", `{"code":"`+v.Code()+`","channel":"sms"}`, pc)
	require.Equal(t, http.StatusOK, res.code)
	assert.Equal(t, true, res.data()["verified"])
	assert.Equal(t, "sms", res.data()["channel"])
	cleared := findCookie(res.cookies, pendingCookie)
	require.NotNil(t, cleared)
	assert.Equal(t, -1, cleared.MaxAge)
	assert.Empty(t, db.codes)
}

func TestLoginCredentials_SameMessage(t *testing.T) {
	h, _ := newServer(t)

	bodies := []string{
		`{"email":"alice@example.com","password":"wrong"}`,
		`{"email":"nobody@example.com","password":"correct-horse"}`,
		`{"email":"","password":""}`,
	}
	for _, body := range bodies {
		res := do(t, h, http.MethodPost, "/api/v1/identity/login/credentials", body)
		assert.Equal(t, http.StatusUnauthorized, res.code, body)
		assert.Equal(t, usecase.MsgInvalidCredentials, res.env["message"], body)
		assert.Nil(t, findCookie(res.cookies, pendingCookie), body)
	}
}

func TestLoginOTP_WithoutPending(t *testing.T) {
	h, _ := newServer(t)

	res := do(t, h, http.MethodPost, "/api/v1/identity/login/otp/send", `{"channel":"sms"}`)
	assert.Equal(t, http.StatusUnauthorized, res.code)
	assert.Equal(t, usecase.MsgSessionExpired, res.env["message"])

	res = do(t, h, http.MethodPost, "/api/v1/identity/login/otp/verify", `{"code":"000000","channel":"sms"}`)
	assert.Equal(t, http.StatusUnauthorized, res.code)
	assert.Equal(t, usecase.MsgSessionExpired, res.env["message"])

	res = do(t, h, http.MethodPost, "/api/v1/identity/login/otp/send", `{"channel":"fax"}`)
	assert.Equal(t, http.StatusUnprocessableEntity, res.code)
}

func TestLoginOTPVerify_ShortCode(t *testing.T) {
	h, _ := newServer(t)

	res := do(t, h, http.MethodPost, "/api/v1/identity/login/credentials", `{"email":"alice@example.com","password":"correct-horse"}`)
	pc := findCookie(res.cookies, pendingCookie)
	require.NotNil(t, pc)

	res = do(t, h, http.MethodPost, "/api/v1/identity/login/otp/verify", `{"code":"12345","channel":"sms"}`, pc)
	assert.Equal(t, http.StatusBadRequest, res.code)
	assert.Equal(t, usecase.MsgCodeRequired, res.env["message"])
}

func TestLoginReset(t *testing.T) {
	h, _ := newServer(t)

	res := do(t, h, http.MethodPost, "/api/v1/identity/login/reset", "")
	require.Equal(t, http.StatusOK, res.code)
	assert.Equal(t, false, res.data()["had_pending_session"])

	res = do(t, h, http.MethodPost, "/api/v1/identity/login/credentials", `{"email":"alice@example.com","password":"correct-horse"}`)
	pc := findCookie(res.cookies, pendingCookie)

	res = do(t, h, http.MethodPost, "/api/v1/identity/login/reset", "", pc)
	require.Equal(t, http.StatusOK, res.code)
	assert.Equal(t, true, res.data()["had_pending_session"])
	assert.Equal(t, -1, findCookie(res.cookies, pendingCookie).MaxAge)

	res = do(t, h, http.MethodGet, "/api/v1/identity/login/pending", "")
	assert.Equal(t, false, res.data()["pending"])
}

func TestRegister(t *testing.T) {
	h, db := newServer(t)

	res := do(t, h, http.MethodPost, "/api/v1/identity/register", `{"name":"Bob","email":"bob@example.com","password":"s3cret-pass"}`)
	assert.Equal(t, http.StatusCreated, res.code)
	assert.Contains(t, db.creds, "bob@example.com")

	res = do(t, h, http.MethodPost, "/api/v1/identity/register", `{"email":"bob@example.com","password":"s3cret-pass"}`)
	assert.Equal(t, http.StatusConflict, res.code)
	assert.Equal(t, usecase.MsgRegisterFailed, res.env["message"])

	res = do(t, h, http.MethodPost, "/api/v1/identity/register", `{"email":"x","password":"1"}`)
	assert.Equal(t, http.StatusUnprocessableEntity, res.code)
}
