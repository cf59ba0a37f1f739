package usecase

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/shandysiswandi/twostep/internal/diagnostic/entity"
	"github.com/shandysiswandi/twostep/internal/pkg/config"
	"github.com/shandysiswandi/twostep/internal/pkg/instrument"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixedClock struct{ now time.Time }

func (c fixedClock) Now() time.Time { return c.now }

type fixedID string

func (f fixedID) Generate() string { return string(f) }

type fakeArchive struct {
	saved []entity.ClientErrorReport
	err   error
}

func (f *fakeArchive) SaveClientError(_ context.Context, r entity.ClientErrorReport) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	f.saved = append(f.saved, r)
	return "client-errors/" + r.ID + ".json", nil
}

func newUsecase(t *testing.T, archive bool) (*Usecase, *fakeArchive) {
	t.Helper()

	yaml := "modules:\n  diagnostic:\n    archive:\n      enabled: false\n"
	if archive {
		yaml = "modules:\n  diagnostic:\n    archive:\n      enabled: true\n"
	}
	cfg, err := config.NewViperFromBytes("yaml", []byte(yaml))
	require.NoError(t, err)

	fa := &fakeArchive{}
	return New(Dependency{
		RepoArchive: fa,
		Config:      cfg,
		UUID:        fixedID("r-1"),
		Clock:       fixedClock{now: time.Date(2026, 5, 4, 3, 2, 1, 0, time.UTC)},
		Instrument:  instrument.NewNoop(),
	}), fa
}

func ptr(s string) *string { return &s }

func TestReportClientError(t *testing.T) {
	t.Run("Defaults", func(t *testing.T) {
		uc, fa := newUsecase(t, false)

		r := uc.ReportClientError(t.Context(), ReportClientErrorInput{})
		assert.Equal(t, "r-1", r.ID)
		assert.Equal(t, entity.DefaultMessage, r.Message)
		assert.Equal(t, entity.DefaultSource, r.Source)
		assert.Empty(t, r.Stack)
		assert.Empty(t, fa.saved)
	})

	t.Run("TruncatesAndArchives", func(t *testing.T) {
		uc, fa := newUsecase(t, true)

		r := uc.ReportClientError(t.Context(), ReportClientErrorInput{
			Message: ptr(strings.Repeat("m", 2500)),
			Stack:   ptr(strings.Repeat("s", 12000)),
			Digest:  ptr(strings.Repeat("d", 300)),
			Source:  ptr("error-boundary"),
		})
		assert.Len(t, r.Message, entity.MaxMessageLen)
		assert.Len(t, r.Stack, entity.MaxStackLen)
		assert.Len(t, r.Digest, entity.MaxDigestLen)
		assert.Equal(t, "error-boundary", r.Source)
		require.Len(t, fa.saved, 1)
		assert.Equal(t, r, fa.saved[0])
	})

	t.Run("ArchiveFailureIsSwallowed", func(t *testing.T) {
		uc, fa := newUsecase(t, true)
		fa.err = errors.New("bucket gone")

		r := uc.ReportClientError(t.Context(), ReportClientErrorInput{Message: ptr("boom")})
		assert.Equal(t, "boom", r.Message)
	})

	t.Run("NoArchiveConfigured", func(t *testing.T) {
		uc, _ := newUsecase(t, true)
		uc.repoArchive = nil

		r := uc.ReportClientError(t.Context(), ReportClientErrorInput{Message: ptr("")})
		assert.Empty(t, r.Message)
	})
}
