package services

import (
	"fmt"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"linkbio/internal/models/db_models"
	"linkbio/internal/repositories"
	"linkbio/pkg/clock"
	"linkbio/pkg/identity"
)

// newTestDB opens a private in-memory database with the full schema.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared&_pragma=foreign_keys(1)", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: gormlogger.Discard})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(db_models.All()...))

	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })
	return db
}

func seedUser(t *testing.T, db *gorm.DB, role string) *db_models.User {
	t.Helper()
	email := uuid.NewString()[:8] + "@example.com"
	user := &db_models.User{Name: "Ana", Email: &email, Role: role, EmailVerified: true}
	require.NoError(t, db.Create(user).Error)
	return user
}

func seedPage(t *testing.T, db *gorm.DB, userID uuid.UUID, slug string) *db_models.Page {
	t.Helper()
	page := newPage(userID, slug, slug)
	require.NoError(t, db.Create(page).Error)
	return page
}

func callerOf(u *db_models.User) identity.Identity {
	return identity.Identity{UserID: u.ID, Name: u.Name, Role: u.Role}
}

// pageStack wires the page-scoped services against one database.
type pageStack struct {
	db     *gorm.DB
	pages  PageServiceInterface
	links  LinkServiceInterface
	audios AudioServiceInterface
	blocks BlockServiceInterface
}

func newPageStack(t *testing.T) pageStack {
	t.Helper()
	db := newTestDB(t)
	log := zap.NewNop()
	pages := NewPageService(repositories.NewPageRepository(db), log)
	return pageStack{
		db:     db,
		pages:  pages,
		links:  NewLinkService(repositories.NewLinkRepository(db), pages, testClock(), log),
		audios: NewAudioService(repositories.NewAudioRepository(db), repositories.NewUserRepository(db), pages, log),
		blocks: NewBlockService(repositories.NewBlockRepository(db), pages, log),
	}
}

func testClock() *clock.FakeClock {
	return clock.NewFakeClock(time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC))
}
