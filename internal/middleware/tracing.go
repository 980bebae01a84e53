package middleware

import (
	"fmt"
	"strings"

	"chirp/internal/observability"

	"github.com/gofiber/fiber/v2"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"
)

// TracingMiddleware opens a server span per request. The span is named after
// the matched route template ("POST /api/tweets/:id/likes") once routing is
// done, and carries the acting user and the path id the route addressed.
func TracingMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctx := otel.GetTextMapPropagator().Extract(c.UserContext(), propagation.HeaderCarrier(c.GetReqHeaders()))

		ctx, span := observability.Tracer.Start(ctx, c.Method()+" "+c.Path(),
			trace.WithSpanKind(trace.SpanKindServer),
			trace.WithAttributes(
				attribute.String("http.method", c.Method()),
				attribute.String("http.path", c.Path()),
				attribute.String("http.ip", c.IP()),
				attribute.Bool("chirp.api_key_present", c.Get(APIKeyHeader) != ""),
			),
		)
		defer span.End()

		traceID := span.SpanContext().TraceID().String()
		c.Locals("traceID", traceID)
		c.Locals("spanID", span.SpanContext().SpanID().String())
		if requestID := c.Locals("requestid"); requestID != nil {
			span.SetAttributes(attribute.String("request.id", fmt.Sprintf("%v", requestID)))
		}
		c.Set("X-Trace-ID", traceID)
		c.SetUserContext(ctx)

		err := c.Next()

		route := c.Route().Path
		if strings.HasPrefix(route, "/api") {
			span.SetName(c.Method() + " " + route)
			span.SetAttributes(attribute.String("http.route", route))
		}
		if id := c.Params("id"); id != "" {
			span.SetAttributes(attribute.String(routeResource(route)+".id", id))
		}
		if actor := ActorName(c); actor != "" {
			span.SetAttributes(attribute.String("chirp.actor", actor))
		}

		status := c.Response().StatusCode()
		span.SetAttributes(attribute.Int("http.status_code", status))
		if err != nil {
			span.RecordError(err)
		}
		if err != nil || status >= fiber.StatusInternalServerError {
			span.SetStatus(codes.Error, fmt.Sprintf("status %d", status))
		}
		return err
	}
}

// routeResource maps "/api/tweets/:id/likes" to "chirp.tweet".
func routeResource(route string) string {
	switch {
	case strings.HasPrefix(route, "/api/tweets"):
		return "chirp.tweet"
	case strings.HasPrefix(route, "/api/users"):
		return "chirp.user"
	case strings.HasPrefix(route, "/api/medias"):
		return "chirp.media"
	default:
		return "chirp.resource"
	}
}
