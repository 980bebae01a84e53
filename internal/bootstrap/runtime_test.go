package bootstrap

import (
	"context"
	"testing"

	"chirp/internal/config"
	"chirp/internal/database"
	"chirp/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := database.OpenSQLite("file::memory:")
	require.NoError(t, err)
	require.NoError(t, database.ApplySchema(context.Background(), db, &config.Config{Env: "test"}))
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return db
}

func countUsers(t *testing.T, db *gorm.DB) int64 {
	t.Helper()
	var n int64
	require.NoError(t, db.Model(&models.User{}).Count(&n).Error)
	return n
}

func TestPrepare_SeedsFixturesOnce(t *testing.T) {
	db := openTestDB(t)
	cfg := &config.Config{Env: "test"}
	ctx := context.Background()

	require.NoError(t, Prepare(ctx, cfg, db, Options{SeedFixtures: true}))
	assert.Equal(t, int64(5), countUsers(t, db))

	// second run sees existing users and leaves them alone
	require.NoError(t, Prepare(ctx, cfg, db, Options{SeedFixtures: true}))
	assert.Equal(t, int64(5), countUsers(t, db))
}

func TestPrepare_DefaultActorInDevelopment(t *testing.T) {
	db := openTestDB(t)
	cfg := &config.Config{Env: "development", DefaultActorName: "nina"}

	require.NoError(t, Prepare(context.Background(), cfg, db, Options{}))
	require.NoError(t, Prepare(context.Background(), cfg, db, Options{}))

	var users []models.User
	require.NoError(t, db.Find(&users).Error)
	require.Len(t, users, 1)
	assert.Equal(t, "nina", users[0].Name)
}

func TestPrepare_NoDefaultActorOutsideDevelopment(t *testing.T) {
	db := openTestDB(t)
	cfg := &config.Config{Env: "test", DefaultActorName: "nina"}

	require.NoError(t, Prepare(context.Background(), cfg, db, Options{}))
	assert.Zero(t, countUsers(t, db))
}
