package server

import (
	"bytes"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"chirp/internal/models"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAPIKeyRequiredOnMutations(t *testing.T) {
	app, _ := newTestApp(t, testConfig(), nil)

	req := httptest.NewRequest(http.MethodPost, "/api/tweets/1/likes", nil)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()

	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	body := decode[models.ErrorResponse](t, resp)
	assert.False(t, body.Result)
	assert.Equal(t, models.ErrTypeUnauthorized, body.ErrorType)

	// reads stay open
	getReq := httptest.NewRequest(http.MethodGet, "/api/tweets", nil)
	getResp, err := app.Test(getReq, -1)
	require.NoError(t, err)
	defer func() { _ = getResp.Body.Close() }()
	assert.Equal(t, http.StatusOK, getResp.StatusCode)
}

func TestErrorStatusMapping(t *testing.T) {
	app, _ := newTestApp(t, testConfig(), nil)

	tests := []struct {
		name      string
		method    string
		path      string
		body      any
		wantCode  int
		wantError string
	}{
		{"bad id", http.MethodDelete, "/api/tweets/abc", nil, http.StatusUnprocessableEntity, models.ErrTypeValidation},
		{"zero id", http.MethodGet, "/api/users/0", nil, http.StatusUnprocessableEntity, models.ErrTypeValidation},
		{"unknown user", http.MethodGet, "/api/users/99", nil, http.StatusNotFound, models.ErrTypeNotFound},
		{"unknown actor", http.MethodGet, "/api/tweets?user_name=nobody", nil, http.StatusNotFound, models.ErrTypeNotFound},
		{"unknown tweet like", http.MethodPost, "/api/tweets/99/likes", nil, http.StatusNotFound, models.ErrTypeNotFound},
		{"delete someone else's tweet", http.MethodDelete, "/api/tweets/1?user_name=pavel", nil, http.StatusNotFound, models.ErrTypeNotFound},
		{"self follow", http.MethodPost, "/api/users/1/follow", nil, http.StatusUnprocessableEntity, models.ErrTypeValidation},
		{"follow unknown user", http.MethodPost, "/api/users/99/follow", nil, http.StatusNotFound, models.ErrTypeNotFound},
		{"duplicate user", http.MethodPost, "/api/user", map[string]string{"name": "sergey"}, http.StatusConflict, models.ErrTypeConstraintViolation},
		{"blank user name", http.MethodPost, "/api/user", map[string]string{"name": "  "}, http.StatusUnprocessableEntity, models.ErrTypeValidation},
		{"missing tweet_data", http.MethodPost, "/api/tweets", map[string]any{"tweet_media_ids": []uint{}}, http.StatusUnprocessableEntity, models.ErrTypeValidation},
		{"unknown media", http.MethodGet, "/api/medias/99", nil, http.StatusNotFound, models.ErrTypeNotFound},
		{"unknown route", http.MethodGet, "/api/nothing-here", nil, http.StatusNotFound, models.ErrTypeNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := doJSON(t, app, tt.method, tt.path, tt.body)
			require.Equal(t, tt.wantCode, resp.StatusCode)
			body := decode[models.ErrorResponse](t, resp)
			assert.False(t, body.Result)
			assert.Equal(t, tt.wantError, body.ErrorType)
			assert.NotEmpty(t, body.ErrorMessage)
		})
	}
}

func TestLegacySilentNoop(t *testing.T) {
	cfg := testConfig()
	cfg.FeatureFlags = "legacy_silent_noop=on"
	app, _ := newTestApp(t, cfg, nil)

	resp := doJSON(t, app, http.MethodPost, "/api/tweets?user_name=nobody", map[string]any{"tweet_data": "ghost"})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.JSONEq(t, `{"result":true,"tweet_id":null}`, string(raw))

	resp = doJSON(t, app, http.MethodPost, "/api/tweets/99/likes", nil)
	assert.Equal(t, http.StatusCreated, resp.StatusCode)

	resp = doJSON(t, app, http.MethodGet, "/api/tweets?user_name=nobody", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	timeline := decode[TimelineResponse](t, resp)
	assert.Empty(t, timeline.Tweets)
}

func uploadRequest(t *testing.T, field, filename string, content []byte) *http.Request {
	t.Helper()
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	part, err := writer.CreateFormFile(field, filename)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/medias", &body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	req.Header.Set("Api-Key", testAPIKey)
	return req
}

func TestUploadAndServeMedia(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	app, _ := newTestApp(t, testConfig(), rdb)

	resp, err := app.Test(uploadRequest(t, "file", "dog.png", []byte("woof")), -1)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	uploaded := decode[MediaUploadResponse](t, resp)
	assert.True(t, uploaded.Result)
	assert.Equal(t, uint(3), uploaded.MediaID)

	for i := 0; i < 2; i++ {
		getResp := doJSON(t, app, http.MethodGet, "/api/medias/3", nil)
		require.Equal(t, http.StatusOK, getResp.StatusCode)
		assert.Equal(t, "image/webp", getResp.Header.Get("Content-Type"))
		raw, err := io.ReadAll(getResp.Body)
		require.NoError(t, err)
		assert.Equal(t, "woof", string(raw))
	}
	assert.True(t, mr.Exists("media:3"))
}

func TestUploadMediaMissingFile(t *testing.T) {
	app, _ := newTestApp(t, testConfig(), nil)

	resp, err := app.Test(uploadRequest(t, "image", "dog.png", []byte("woof")), -1)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()
	require.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	body := decode[models.ErrorResponse](t, resp)
	assert.Equal(t, models.ErrTypeValidation, body.ErrorType)
}

func TestHealthChecks(t *testing.T) {
	app, _ := newTestApp(t, testConfig(), nil)

	resp := doJSON(t, app, http.MethodGet, "/health/live", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp = doJSON(t, app, http.MethodGet, "/health/ready", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	body := decode[map[string]any](t, resp)
	assert.Equal(t, "healthy", body["status"])
	checks, ok := body["checks"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "disabled", checks["redis"])
}

func TestMutationsAreRateLimited(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	cfg := testConfig()
	cfg.Env = "production"
	cfg.RateLimitPerMinute = 1
	app, _ := newTestApp(t, cfg, rdb)

	resp := doJSON(t, app, http.MethodPost, "/api/tweets/1/likes?user_name=oleg", nil)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp = doJSON(t, app, http.MethodPost, "/api/tweets/2/likes?user_name=oleg", nil)
	require.Equal(t, http.StatusTooManyRequests, resp.StatusCode)
	body := decode[models.ErrorResponse](t, resp)
	assert.Equal(t, models.ErrTypeRateLimited, body.ErrorType)

	resp = doJSON(t, app, http.MethodGet, "/api/tweets?user_name=oleg", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}
