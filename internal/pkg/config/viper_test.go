package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testYAML = `
app:
  name: twostep
  env: production
modules:
  identity:
    pending_ttl: 600
    otp_ttl: 5
    pending_secret: "c2VjcmV0"
    seed:
      users:
        - "ada@example.com|password1|Ada"
        - "bob@example.com|password2|Bob"
  router:
    mask: " password , otp,,"
    labels: "a:1,b:2"
`

func TestViper_Getters(t *testing.T) {
	cfg, err := NewViperFromBytes("yaml", []byte(testYAML))
	require.NoError(t, err)
	t.Cleanup(func() { _ = cfg.Close() })

	assert.Equal(t, "twostep", cfg.GetString("app.name"))
	assert.Equal(t, 600*time.Second, cfg.GetSecond("modules.identity.pending_ttl"))
	assert.Equal(t, 5*time.Minute, cfg.GetMinute("modules.identity.otp_ttl"))
	assert.Equal(t, []byte("secret"), cfg.GetBinary("modules.identity.pending_secret"))
	assert.Equal(t, []string{"password", "otp"}, cfg.GetArray("modules.router.mask"))
	assert.Equal(t, []string{"ada@example.com|password1|Ada", "bob@example.com|password2|Bob"},
		cfg.GetArray("modules.identity.seed.users"))
	assert.Empty(t, cfg.GetArray("missing.key"))
	assert.Equal(t, map[string]string{"a": "1", "b": "2"}, cfg.GetMap("modules.router.labels"))
}

func TestNewViperFromBytes_NoType(t *testing.T) {
	_, err := NewViperFromBytes(" ", []byte("a: 1"))
	assert.ErrorIs(t, err, ErrConfigTypeRequired)
}

func TestViper_Numbers(t *testing.T) {
	cfg, err := NewViperFromBytes("yaml", []byte("db:\n  max: 20\n  ratio: 0.25\n  on: true\n"))
	require.NoError(t, err)

	assert.Equal(t, 20, cfg.GetInt("db.max"))
	assert.Equal(t, int32(20), cfg.GetInt32("db.max"))
	assert.Equal(t, int64(20), cfg.GetInt64("db.max"))
	assert.InDelta(t, 0.25, cfg.GetFloat64("db.ratio"), 1e-9)
	assert.True(t, cfg.GetBool("db.on"))
	assert.Zero(t, cfg.GetInt("db.missing"))
}

func TestViper_EnvOverride(t *testing.T) {
	t.Setenv("TWOSTEP_JWT_SECRET", "from-env")

	cfg, err := NewViperFromBytes("yaml", []byte("jwt:\n  secret: from-file\n"))
	require.NoError(t, err)
	assert.Equal(t, "from-env", cfg.GetString("jwt.secret"))
}

func TestViper_BinaryInvalid(t *testing.T) {
	cfg, err := NewViperFromBytes("yaml", []byte("k: \"%%%\"\n"))
	require.NoError(t, err)
	assert.Nil(t, cfg.GetBinary("k"))
}
