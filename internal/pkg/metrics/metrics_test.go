package metrics

import (
	"io"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func scrape(t *testing.T, m *Metrics) string {
	t.Helper()
	rec := httptest.NewRecorder()
	m.handler.ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	require.Equal(t, 200, rec.Code)
	return rec.Body.String()
}

func TestMiddlewareCountsRoutes(t *testing.T) {
	m := New()
	app := fiber.New()
	app.Use(m.Middleware())
	app.Get("/items/:id", func(c *fiber.Ctx) error { return c.SendString("ok") })
	app.Get("/metrics", m.Handler())

	for i := 0; i < 2; i++ {
		resp, err := app.Test(httptest.NewRequest("GET", "/items/42", nil))
		require.NoError(t, err)
		assert.Equal(t, 200, resp.StatusCode)
	}

	assert.Contains(t, scrape(t, m), `employee_portal_http_requests_total{code="200",method="GET",route="/items/:id"} 2`)

	resp, err := app.Test(httptest.NewRequest("GET", "/metrics", nil))
	require.NoError(t, err)
	body, _ := io.ReadAll(resp.Body)
	assert.Contains(t, string(body), "employee_portal_http_request_duration_seconds")
}

func TestAuthAttempt(t *testing.T) {
	m := New()
	m.AuthAttempt("claim", "success")
	m.AuthAttempt("claim", "success")
	m.AuthAttempt("employee_login", "invalid_credentials")

	out := scrape(t, m)
	assert.Contains(t, out, `employee_portal_auth_attempts_total{flow="claim",outcome="success"} 2`)
	assert.Contains(t, out, `employee_portal_auth_attempts_total{flow="employee_login",outcome="invalid_credentials"} 1`)
}

func TestNilMetricsIsNoop(t *testing.T) {
	var m *Metrics
	m.AuthAttempt("claim", "success")

	app := fiber.New()
	app.Use(m.Middleware())
	app.Get("/metrics", m.Handler())

	resp, err := app.Test(httptest.NewRequest("GET", "/metrics", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusServiceUnavailable, resp.StatusCode)
}
