package repository

import (
	"context"
	"testing"

	"chirp/internal/config"
	"chirp/internal/database"
	"chirp/internal/models"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func setupMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	gormDB, err := gorm.Open(postgres.New(postgres.Config{
		Conn: db,
	}), &gorm.Config{TranslateError: true})
	require.NoError(t, err)

	return gormDB, mock
}

// openTestDB returns a fresh in-memory SQLite database with the full schema.
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

func countRows(t *testing.T, db *gorm.DB, model any, query string, args ...any) int64 {
	t.Helper()
	var n int64
	q := db.Model(model)
	if query != "" {
		q = q.Where(query, args...)
	}
	require.NoError(t, q.Count(&n).Error)
	return n
}

func createUsers(t *testing.T, db *gorm.DB, names ...string) []models.User {
	t.Helper()
	users := make([]models.User, 0, len(names))
	for _, name := range names {
		u := models.User{Name: name}
		require.NoError(t, db.Create(&u).Error)
		users = append(users, u)
	}
	return users
}
