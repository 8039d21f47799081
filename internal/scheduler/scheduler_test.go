package scheduler

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/fx/fxtest"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"linkbio/internal/config"
	"linkbio/internal/repositories"
	"linkbio/pkg/clock"
)

func newMockSweeper(t *testing.T) (*Sweeper, sqlmock.Sqlmock) {
	t.Helper()
	conn, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })

	db, err := gorm.Open(postgres.New(postgres.Config{Conn: conn}), &gorm.Config{
		SkipDefaultTransaction: true,
		Logger:                 gormlogger.Discard,
	})
	require.NoError(t, err)

	clk := clock.NewFakeClock(time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC))
	sweeper := NewSweeper(repositories.NewLinkRepository(db), repositories.NewVerificationTokenRepository(db), clk, zap.NewNop())
	return sweeper, mock
}

func TestRunOnceExecutesEveryStep(t *testing.T) {
	sweeper, mock := newMockSweeper(t)

	mock.ExpectExec(`UPDATE "links" SET "is_active"=\$1.*scheduled_at IS NOT NULL AND scheduled_at <=.*expires_at IS NULL OR expires_at >`).
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectExec(`UPDATE "links" SET "is_active"=\$1.*expires_at IS NOT NULL AND expires_at <=`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`DELETE FROM "verification_tokens" WHERE expires_at <=`).
		WillReturnResult(sqlmock.NewResult(0, 3))

	require.NoError(t, sweeper.RunOnce(context.Background()))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRunOnceContinuesAfterFailedStep(t *testing.T) {
	sweeper, mock := newMockSweeper(t)

	mock.ExpectExec(`UPDATE "links"`).WillReturnError(errors.New("connection reset"))
	mock.ExpectExec(`UPDATE "links"`).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(`DELETE FROM "verification_tokens"`).WillReturnResult(sqlmock.NewResult(0, 0))

	err := sweeper.RunOnce(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "activate_scheduled")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRegisterValidatesSchedule(t *testing.T) {
	sweeper, _ := newMockSweeper(t)

	err := Register(fxtest.NewLifecycle(t), config.Config{SweepSchedule: "whenever"}, sweeper, zap.NewNop())
	assert.Error(t, err)

	lc := fxtest.NewLifecycle(t)
	require.NoError(t, Register(lc, config.Config{SweepSchedule: "@every 1h"}, sweeper, zap.NewNop()))
	lc.RequireStart().RequireStop()
}
