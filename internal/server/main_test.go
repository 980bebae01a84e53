package server

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"chirp/internal/config"
	"chirp/internal/database"
	"chirp/internal/seed"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
)

const testAPIKey = "tests"

func testConfig() *config.Config {
	return &config.Config{
		Env:              "test",
		DefaultActorName: "sergey",
		MediaContentType: "image/webp",
		BodyLimitMB:      1,
	}
}

// newTestApp builds the full middleware and route stack over an in-memory
// database loaded with the fixture dataset.
func newTestApp(t *testing.T, cfg *config.Config, rdb *redis.Client) (*fiber.App, *Server) {
	t.Helper()
	db, err := database.OpenSQLite("file::memory:")
	require.NoError(t, err)
	require.NoError(t, database.ApplySchema(context.Background(), db, cfg))
	require.NoError(t, seed.ApplyFixtures(context.Background(), db, false))
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})

	srv, err := NewServerWithDeps(cfg, db, rdb)
	require.NoError(t, err)

	app := srv.NewApp()
	srv.SetupMiddleware(app)
	srv.SetupRoutes(app)
	return app, srv
}

// doJSON sends a request with the Api-Key header and an optional JSON body.
func doJSON(t *testing.T, app *fiber.App, method, path string, body any) *http.Response {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Api-Key", testAPIKey)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	t.Cleanup(func() { _ = resp.Body.Close() })
	return resp
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	var out T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return out
}
