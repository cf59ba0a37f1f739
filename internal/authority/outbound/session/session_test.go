package session

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/shandysiswandi/twostep/internal/pkg/cookie"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCookie(t *testing.T) {
	r := httptest.NewRequest(http.MethodPost, "/", nil)
	w := httptest.NewRecorder()
	ctx := cookie.NewContext(t.Context(), cookie.NewJar(r, w, true))

	c := NewCookie("app", true)
	assert.Equal(t, "app.session_token", c.Name())

	require.NoError(t, c.Set(ctx, "tok", time.Hour))
	require.NoError(t, c.Clear(ctx))

	cookies := w.Result().Cookies()
	require.Len(t, cookies, 2)

	assert.Equal(t, "tok", cookies[0].Value)
	assert.Equal(t, 3600, cookies[0].MaxAge)
	assert.True(t, cookies[0].HttpOnly)
	assert.True(t, cookies[0].Secure)
	assert.Equal(t, http.SameSiteLaxMode, cookies[0].SameSite)
	assert.Equal(t, "/", cookies[0].Path)

	assert.Empty(t, cookies[1].Value)
	assert.Equal(t, -1, cookies[1].MaxAge)
}

func TestCookie_NoJar(t *testing.T) {
	c := NewCookie("app", false)
	assert.ErrorIs(t, c.Set(t.Context(), "tok", time.Hour), cookie.ErrNoJar)
	assert.ErrorIs(t, c.Clear(t.Context()), cookie.ErrNoJar)
}
