package server

import (
	"io"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestAPIScenario walks the public API over the fixture dataset in the order
// a client would: sign up, post, edit, like, follow and read back.
func TestAPIScenario(t *testing.T) {
	app, _ := newTestApp(t, testConfig(), nil)

	readBody := func(t *testing.T, resp *http.Response) string {
		t.Helper()
		raw, err := io.ReadAll(resp.Body)
		require.NoError(t, err)
		return string(raw)
	}

	t.Run("create user", func(t *testing.T) {
		resp := doJSON(t, app, http.MethodPost, "/api/user", map[string]string{"name": "slava"})
		require.Equal(t, http.StatusOK, resp.StatusCode)
		assert.JSONEq(t, `{"id":6,"name":"slava"}`, readBody(t, resp))
		assert.Equal(t, testAPIKey, resp.Header.Get("Api-Key"))
	})

	t.Run("create tweet", func(t *testing.T) {
		resp := doJSON(t, app, http.MethodPost, "/api/tweets", map[string]any{
			"tweet_data":      "tweet_3",
			"tweet_media_ids": []uint{2},
		})
		require.Equal(t, http.StatusCreated, resp.StatusCode)
		assert.JSONEq(t, `{"result":true,"tweet_id":3}`, readBody(t, resp))
	})

	t.Run("delete tweet", func(t *testing.T) {
		resp := doJSON(t, app, http.MethodDelete, "/api/tweets/2", nil)
		require.Equal(t, http.StatusAccepted, resp.StatusCode)
		assert.JSONEq(t, `{"result":true}`, readBody(t, resp))
	})

	t.Run("patch tweet", func(t *testing.T) {
		resp := doJSON(t, app, http.MethodPatch, "/api/tweets/1", map[string]any{"tweet_data": "tweet_1_edited"})
		require.Equal(t, http.StatusCreated, resp.StatusCode)
		assert.JSONEq(t, `{"result":true}`, readBody(t, resp))
	})

	t.Run("like and unlike", func(t *testing.T) {
		resp := doJSON(t, app, http.MethodPost, "/api/tweets/3/likes", nil)
		require.Equal(t, http.StatusCreated, resp.StatusCode)

		resp = doJSON(t, app, http.MethodPost, "/api/tweets/3/likes", nil)
		require.Equal(t, http.StatusCreated, resp.StatusCode, "repeated like is idempotent")

		resp = doJSON(t, app, http.MethodDelete, "/api/tweets/3/likes", nil)
		require.Equal(t, http.StatusAccepted, resp.StatusCode)
		assert.JSONEq(t, `{"result":true}`, readBody(t, resp))
	})

	t.Run("follow and unfollow", func(t *testing.T) {
		resp := doJSON(t, app, http.MethodPost, "/api/users/3/follow", nil)
		require.Equal(t, http.StatusCreated, resp.StatusCode)

		resp = doJSON(t, app, http.MethodDelete, "/api/users/3/follow", nil)
		require.Equal(t, http.StatusAccepted, resp.StatusCode)
		assert.JSONEq(t, `{"result":true}`, readBody(t, resp))
	})

	t.Run("timeline", func(t *testing.T) {
		resp := doJSON(t, app, http.MethodGet, "/api/tweets", nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		assert.JSONEq(t, `{
			"result": true,
			"tweets": [
				{"id":1,"content":"tweet_1_edited","attachments":["/api/medias/1"],
				 "author":{"id":1,"name":"sergey"},"likes":[{"user_id":2,"name":"pavel"}]},
				{"id":3,"content":"tweet_3","attachments":["/api/medias/2"],
				 "author":{"id":1,"name":"sergey"},"likes":[]}
			]
		}`, readBody(t, resp))
	})

	t.Run("my profile", func(t *testing.T) {
		resp := doJSON(t, app, http.MethodGet, "/api/users/me", nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		assert.JSONEq(t, `{
			"result": true,
			"user": {
				"id": 1, "name": "sergey",
				"followers": [{"id":4,"name":"ivan"}],
				"following": [{"id":2,"name":"pavel"},{"id":3,"name":"oleg"}]
			}
		}`, readBody(t, resp))
	})

	t.Run("profile by id", func(t *testing.T) {
		resp := doJSON(t, app, http.MethodGet, "/api/users/2", nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		assert.JSONEq(t, `{
			"result": true,
			"user": {
				"id": 2, "name": "pavel",
				"followers": [{"id":1,"name":"sergey"}],
				"following": [{"id":4,"name":"ivan"}]
			}
		}`, readBody(t, resp))
	})

	t.Run("profile as another actor", func(t *testing.T) {
		resp := doJSON(t, app, http.MethodGet, "/api/users/me?user_name=slava", nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		assert.JSONEq(t, `{"result":true,"user":{"id":6,"name":"slava","followers":[],"following":[]}}`,
			readBody(t, resp))
	})

	t.Run("media", func(t *testing.T) {
		resp := doJSON(t, app, http.MethodGet, "/api/medias/1", nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Equal(t, "image/webp", resp.Header.Get("Content-Type"))
		assert.Equal(t, "cat-1", readBody(t, resp))
	})
}
