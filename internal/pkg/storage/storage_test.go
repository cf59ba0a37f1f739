package storage

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemory_Put(t *testing.T) {
	m := NewMemory("archive")

	info, err := m.Put(t.Context(), "a/b.json", strings.NewReader(`{"x":1}`), PutOptions{ContentType: "application/json"})
	require.NoError(t, err)
	assert.Equal(t, "archive", info.Bucket)
	assert.Equal(t, int64(7), info.Size)
	assert.NotEmpty(t, info.ETag)

	got, ok := m.Object("a/b.json")
	require.True(t, ok)
	assert.JSONEq(t, `{"x":1}`, string(got))
	assert.Equal(t, []string{"a/b.json"}, m.Keys())

	_, ok = m.Object("missing")
	assert.False(t, ok)
}

func TestNewFromDriver(t *testing.T) {
	s, err := NewFromDriver(t.Context(), " Memory ", FactoryOptions{})
	require.NoError(t, err)
	assert.IsType(t, &Memory{}, s)

	_, err = NewFromDriver(t.Context(), DriverS3, FactoryOptions{})
	require.ErrorIs(t, err, ErrEmptyBucket)

	_, err = NewFromDriver(t.Context(), "ftp", FactoryOptions{Bucket: "b"})
	require.ErrorIs(t, err, ErrUnknownDriver)
}

func TestNewMinIO(t *testing.T) {
	m, err := NewMinIO("archive", MinIOOptions{Endpoint: "localhost:9000", AccessKey: "a", SecretKey: "b"})
	require.NoError(t, err)
	assert.NoError(t, m.Close())
}
