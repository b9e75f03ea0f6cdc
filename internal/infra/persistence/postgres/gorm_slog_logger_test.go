package postgres

import (
	"bytes"
	"context"
	"log/slog"
	"testing"
	"time"

	"reviewdesk/config"
	"reviewdesk/internal/domain/entity"
	"reviewdesk/internal/domain/repository"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	"gorm.io/gorm/utils/tests"
)

func newBufferedGormLogger(debug bool) (logger.Interface, *bytes.Buffer) {
	var buf bytes.Buffer
	base := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	cfg := &config.Config{}
	cfg.Env.Debug = debug

	return newGormSlogLogger(base, cfg), &buf
}

func TestGormSlogLogger_ParamsFilterDropsValues(t *testing.T) {
	l, _ := newBufferedGormLogger(true)
	filter, ok := l.(gorm.ParamsFilter)
	require.True(t, ok)

	sql, params := filter.ParamsFilter(context.Background(), "UPDATE tenants SET google_tokens_encrypted=$1", "sealed-grant")
	assert.Equal(t, "UPDATE tenants SET google_tokens_encrypted=$1", sql)
	assert.Empty(t, params)
}

func TestGormSlogLogger_StatementsNeverCarryTokensOrReplies(t *testing.T) {
	l, buf := newBufferedGormLogger(true)
	db, err := gorm.Open(tests.DummyDialector{}, &gorm.Config{DryRun: true, Logger: l})
	require.NoError(t, err)

	ctx := context.Background()
	tenantID := uuid.New()

	err = NewTenantRepository(db).UpdateTokens(ctx, tenantID, "sealed-grant-secret")
	assert.True(t, errors.Is(err, repository.ErrTenantNotFound))

	reply := "Thank you for the lovely visit"
	at := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	_ = NewReviewRepository(db).UpdateReply(ctx, &entity.CachedReview{
		ID:             uuid.New(),
		TenantID:       tenantID,
		ReplyText:      &reply,
		ReplyUpdatedAt: &at,
		ReplySource:    entity.ReplySourceThisSystem,
	})

	out := buf.String()
	assert.Contains(t, out, "GORM query")
	assert.Contains(t, out, "google_tokens_encrypted")
	assert.NotContains(t, out, "sealed-grant-secret")
	assert.NotContains(t, out, reply)
}

func TestGormSlogLogger_Levels(t *testing.T) {
	ctx := context.Background()
	statement := func() (string, int64) { return "SELECT * FROM cached_reviews", 3 }

	t.Run("successful queries only in debug", func(t *testing.T) {
		l, buf := newBufferedGormLogger(false)
		l.Trace(ctx, time.Now(), statement, nil)
		assert.Empty(t, buf.String())

		l, buf = newBufferedGormLogger(true)
		l.Trace(ctx, time.Now(), statement, nil)
		assert.Contains(t, buf.String(), "rows=3")
	})

	t.Run("missing rows are not errors", func(t *testing.T) {
		l, buf := newBufferedGormLogger(false)
		l.Trace(ctx, time.Now(), statement, gorm.ErrRecordNotFound)
		assert.Empty(t, buf.String())
	})

	t.Run("failures and slow queries", func(t *testing.T) {
		l, buf := newBufferedGormLogger(false)
		l.Trace(ctx, time.Now(), statement, errors.New("deadlock detected"))
		assert.Contains(t, buf.String(), "GORM query failed")

		buf.Reset()
		l.Trace(ctx, time.Now().Add(-time.Second), statement, nil)
		assert.Contains(t, buf.String(), "GORM slow query")
	})

	t.Run("silent", func(t *testing.T) {
		l, buf := newBufferedGormLogger(true)
		l.LogMode(logger.Silent).Trace(ctx, time.Now(), statement, errors.New("boom"))
		assert.Empty(t, buf.String())
	})
}
