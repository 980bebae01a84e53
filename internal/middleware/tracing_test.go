package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"chirp/internal/observability"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func recordSpans(t *testing.T) *tracetest.SpanRecorder {
	t.Helper()
	rec := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(rec))
	prev := observability.Tracer
	observability.Tracer = tp.Tracer("chirp-test")
	t.Cleanup(func() { observability.Tracer = prev })
	return rec
}

func spanAttrs(s sdktrace.ReadOnlySpan) map[attribute.Key]attribute.Value {
	out := make(map[attribute.Key]attribute.Value)
	for _, kv := range s.Attributes() {
		out[kv.Key] = kv.Value
	}
	return out
}

func TestTracingMiddleware(t *testing.T) {
	rec := recordSpans(t)

	app := fiber.New()
	app.Use(TracingMiddleware(), ActorResolver("sergey"))
	app.Post("/api/tweets/:id/likes", func(c *fiber.Ctx) error { return c.SendStatus(fiber.StatusCreated) })
	app.Get("/api/medias/:id", func(c *fiber.Ctx) error { return c.SendStatus(fiber.StatusInternalServerError) })

	req := httptest.NewRequest(http.MethodPost, "/api/tweets/7/likes?user_name=oleg", nil)
	req.Header.Set(APIKeyHeader, "tests")
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	_ = resp.Body.Close()
	assert.NotEmpty(t, resp.Header.Get("X-Trace-ID"))

	resp, err = app.Test(httptest.NewRequest(http.MethodGet, "/api/medias/3", nil), -1)
	require.NoError(t, err)
	_ = resp.Body.Close()

	spans := rec.Ended()
	require.Len(t, spans, 2)

	like := spans[0]
	assert.Equal(t, "POST /api/tweets/:id/likes", like.Name())
	attrs := spanAttrs(like)
	assert.Equal(t, "7", attrs["chirp.tweet.id"].AsString())
	assert.Equal(t, "oleg", attrs["chirp.actor"].AsString())
	assert.True(t, attrs["chirp.api_key_present"].AsBool())
	assert.Equal(t, int64(http.StatusCreated), attrs["http.status_code"].AsInt64())
	assert.Equal(t, codes.Unset, like.Status().Code)

	media := spans[1]
	assert.Equal(t, "GET /api/medias/:id", media.Name())
	mediaAttrs := spanAttrs(media)
	assert.Equal(t, "3", mediaAttrs["chirp.media.id"].AsString())
	assert.Equal(t, "sergey", mediaAttrs["chirp.actor"].AsString())
	assert.False(t, mediaAttrs["chirp.api_key_present"].AsBool())
	assert.Equal(t, codes.Error, media.Status().Code)
}

func TestRouteResource(t *testing.T) {
	assert.Equal(t, "chirp.tweet", routeResource("/api/tweets/:id"))
	assert.Equal(t, "chirp.user", routeResource("/api/users/:id/follow"))
	assert.Equal(t, "chirp.media", routeResource("/api/medias/:id"))
	assert.Equal(t, "chirp.resource", routeResource("/"))
}
