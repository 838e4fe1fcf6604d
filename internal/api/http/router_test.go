package http

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/spec-kit/decor-manager/internal/api/http/handlers"
	"github.com/spec-kit/decor-manager/internal/auth"
	"github.com/spec-kit/decor-manager/internal/clock"
	"github.com/spec-kit/decor-manager/internal/config"
	"github.com/spec-kit/decor-manager/internal/events"
	"github.com/spec-kit/decor-manager/internal/observability"
	"github.com/spec-kit/decor-manager/internal/persistence"
	"github.com/spec-kit/decor-manager/internal/repository"
	"github.com/spec-kit/decor-manager/internal/service"
)

type testServer struct {
	app *fiber.App
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	ctx := context.Background()
	logger := zap.NewNop()
	metrics := observability.NewMetrics()
	clk := clock.NewFake(time.Date(2026, 6, 15, 9, 0, 0, 0, time.UTC))
	directory := repository.NewMemoryDirectory(repository.DemoIdentities())
	shared := persistence.NewMemoryStore(0)
	dispatcher := events.NewInMemoryDispatcher()

	sessions := service.NewSessionService(config.AuthConfig{
		DemoOTPCode:           "123456",
		DemoPassword:          "password123",
		OTPTTLSeconds:         300,
		OTPMaxAttempts:        3,
		ResendCooldownSeconds: 60,
		MinPasswordLength:     6,
	}, service.SessionDependencies{Directory: directory, Clock: clk, Logger: logger, Metrics: metrics})

	notifications := service.NewNotificationService(ctx, config.NotificationConfig{Timezone: "UTC"}, service.NotificationDependencies{
		Store:      persistence.Scoped(shared, "service:"),
		Dispatcher: dispatcher,
		Clock:      clk,
		Logger:     logger,
		Metrics:    metrics,
	})
	notifications.RegisterHandlers()
	notifications.Init(nil)

	tokens := auth.NewTokenManager("test-secret", "decor-manager", 60)
	stores := func(clientID string) service.SessionStores {
		return service.SessionStores{
			Client:  clientID,
			Durable: persistence.Scoped(shared, "client:"+clientID+":local:"),
			Session: persistence.Scoped(shared, "client:"+clientID+":session:"),
		}
	}

	app := fiber.New()
	RegisterMiddlewares(app, logger, metrics, time.Second)
	RegisterRoutes(app, RouteConfig{
		Health:         handlers.NewHealthHandler("decor-manager", "test", nil),
		Auth:           handlers.NewAuthHandler(sessions, stores, tokens),
		Notifications:  handlers.NewNotificationsHandler(notifications),
		Enquiries:      handlers.NewEnquiriesHandler(dispatcher),
		AuthMiddleware: auth.NewAuthMiddleware(tokens, directory),
		Metrics:        metrics,
	})
	return &testServer{app: app}
}

type client struct {
	t      *testing.T
	srv    *testServer
	sid    *http.Cookie
	bearer string
}

func (c *client) do(method, path string, body any) (int, map[string]any) {
	c.t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(c.t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.sid != nil {
		req.AddCookie(c.sid)
	}
	if c.bearer != "" {
		req.Header.Set("Authorization", "Bearer "+c.bearer)
	}
	resp, err := c.srv.app.Test(req, -1)
	require.NoError(c.t, err)
	defer resp.Body.Close()
	for _, cookie := range resp.Cookies() {
		if cookie.Name == auth.ClientCookie {
			c.sid = cookie
		}
	}
	raw, err := io.ReadAll(resp.Body)
	require.NoError(c.t, err)
	out := map[string]any{}
	if len(raw) > 0 && strings.HasPrefix(resp.Header.Get("Content-Type"), "application/json") {
		require.NoError(c.t, json.Unmarshal(raw, &out))
	}
	return resp.StatusCode, out
}

func errorCode(body map[string]any) string {
	errBody, _ := body["error"].(map[string]any)
	code, _ := errBody["code"].(string)
	return code
}

func errorReason(body map[string]any) string {
	errBody, _ := body["error"].(map[string]any)
	reason, _ := errBody["reason"].(string)
	return reason
}

func TestOTPLoginFlowOverHTTP(t *testing.T) {
	srv := newTestServer(t)
	c := &client{t: t, srv: srv}

	status, body := c.do(http.MethodPost, "/auth/otp/send", map[string]string{"phone": "12"})
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "invalid_phone", errorReason(body))
	require.NotNil(t, c.sid)

	status, _ = c.do(http.MethodPost, "/auth/otp/send", map[string]string{"phone": "+91 87654 32109"})
	require.Equal(t, http.StatusAccepted, status)

	status, body = c.do(http.MethodPost, "/auth/otp/resend", nil)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "resend_cooldown", errorReason(body))

	status, body = c.do(http.MethodPost, "/auth/otp/verify", map[string]any{"code": "999999"})
	assert.Equal(t, http.StatusUnauthorized, status)
	data := body["data"].(map[string]any)
	assert.Equal(t, float64(2), data["attemptsRemaining"])

	status, body = c.do(http.MethodPost, "/auth/otp/verify", map[string]any{"code": "123456", "remember": true})
	require.Equal(t, http.StatusOK, status)
	data = body["data"].(map[string]any)
	user := data["user"].(map[string]any)
	assert.Equal(t, "Rajesh Kumar", user["name"])
	authBody := data["auth"].(map[string]any)
	c.bearer = authBody["token"].(string)

	status, body = c.do(http.MethodGet, "/auth/me", nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "MANAGER", body["data"].(map[string]any)["user"].(map[string]any)["role"])

	status, body = c.do(http.MethodGet, "/auth/permissions/view_all", nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, true, body["data"].(map[string]any)["granted"])

	status, _ = c.do(http.MethodPost, "/auth/logout", nil)
	assert.Equal(t, http.StatusNoContent, status)
	status, body = c.do(http.MethodGet, "/auth/me", nil)
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Equal(t, "UNAUTHORIZED", errorCode(body))
}

func TestNotificationsOverHTTP(t *testing.T) {
	srv := newTestServer(t)
	c := &client{t: t, srv: srv}

	status, body := c.do(http.MethodGet, "/notifications", nil)
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Equal(t, "UNAUTHORIZED", errorCode(body))

	status, body = c.do(http.MethodPost, "/auth/login", map[string]any{"email": "admin@weddingdecor.com", "password": "password123"})
	require.Equal(t, http.StatusOK, status)
	c.bearer = body["data"].(map[string]any)["auth"].(map[string]any)["token"].(string)

	status, _ = c.do(http.MethodPut, "/enquiries", map[string]any{"enquiries": []map[string]string{
		{"id": "e1", "client_name": "Meera", "manager": "Priya Sharma", "followup_date": "2026-06-14"},
	}})
	require.Equal(t, http.StatusNoContent, status)

	status, body = c.do(http.MethodPost, "/notifications/check", nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, float64(1), body["data"].(map[string]any)["created"])

	status, _ = c.do(http.MethodPost, "/enquiries/events/created", map[string]any{"enquiry": map[string]string{"id": "e2", "client_name": "Zoya", "manager": "Rajesh Kumar"}})
	require.Equal(t, http.StatusAccepted, status)

	status, body = c.do(http.MethodGet, "/notifications", nil)
	require.Equal(t, http.StatusOK, status)
	data := body["data"].(map[string]any)
	list := data["notifications"].([]any)
	require.Len(t, list, 2)
	assert.Equal(t, float64(2), data["unread"])
	newest := list[0].(map[string]any)
	assert.Equal(t, "new-enquiry", newest["type"])

	status, _ = c.do(http.MethodPost, "/notifications/"+newest["id"].(string)+"/read", nil)
	assert.Equal(t, http.StatusNoContent, status)
	status, body = c.do(http.MethodPost, "/notifications/nope/read", nil)
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, "NOT_FOUND", errorCode(body))

	status, body = c.do(http.MethodGet, "/notifications/stats", nil)
	require.Equal(t, http.StatusOK, status)
	stats := body["data"].(map[string]any)
	assert.Equal(t, float64(2), stats["total"])
	assert.Equal(t, float64(1), stats["unread"])
	assert.Equal(t, true, stats["isEnabled"])

	status, body = c.do(http.MethodDelete, "/notifications", nil)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "confirmation_required", errorReason(body))
	status, _ = c.do(http.MethodDelete, "/notifications?confirm=true", nil)
	assert.Equal(t, http.StatusNoContent, status)

	status, body = c.do(http.MethodPut, "/notifications/settings", map[string]any{"sound": false})
	require.Equal(t, http.StatusOK, status)
	settings := body["data"].(map[string]any)
	assert.Equal(t, false, settings["sound"])
	assert.Equal(t, true, settings["overdue"])

	status, body = c.do(http.MethodPost, "/enquiries/access", map[string]string{"id": "e9", "manager": "Someone"})
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, true, body["data"].(map[string]any)["allowed"])
}

func TestUnknownRouteAndHealth(t *testing.T) {
	srv := newTestServer(t)
	c := &client{t: t, srv: srv}

	status, body := c.do(http.MethodGet, "/nowhere", nil)
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, "NOT_FOUND", errorCode(body))

	status, body = c.do(http.MethodGet, "/health/ready", nil)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "ready", body["status"])

	status, _ = c.do(http.MethodGet, "/metrics", nil)
	assert.Equal(t, http.StatusOK, status)
}
