package controllers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bagbanter-api/src/apperrors"
	"bagbanter-api/src/controllers/middleware"
	"bagbanter-api/src/infrastructure/log"
	"bagbanter-api/src/services/auth"
	"bagbanter-api/src/services/inventory"
	"bagbanter-api/src/services/order/domain"
)

const (
	adminEmail    = "admin@bagbantergh.com"
	adminPassword = "hunter2"
)

type testApp struct {
	app       *fiber.App
	orders    *fakeOrderService
	inventory *fakeInventoryService
	stats     *fakeStatsService
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()
	logger := log.NewLoggerWithWriter("panic", io.Discard)
	authenticator := auth.NewAuthenticator(logger, auth.Identity{
		Email:    adminEmail,
		Password: adminPassword,
		Secret:   "test-secret",
		TTL:      time.Hour,
	}, &memoryRevocations{revoked: map[string]bool{}})

	ta := &testApp{
		orders: newFakeOrderService(domain.Order{
			ID:     "o-1",
			Status: domain.StatusPending,
			Items:  []domain.Item{{ProductID: "p-1", Quantity: 2}},
		}),
		inventory: &fakeInventoryService{products: map[string]inventory.Product{
			"p-1": {ID: "p-1", Name: "Tote", Category: "bags", StockCount: 4},
		}},
		stats: &fakeStatsService{},
	}

	app := fiber.New(fiber.Config{ErrorHandler: middleware.ErrorHandler(logger)})
	app.Use(middleware.RequestLogger(logger))
	app.Use(recover.New())

	requireAdmin := middleware.RequireAdmin(authenticator, logger)
	NewAuthController(authenticator, logger, false).Route(app, requireAdmin)
	NewOrderController(ta.orders, logger).Route(app, requireAdmin)
	NewInventoryController(ta.inventory, logger).Route(app, requireAdmin)
	NewStatsController(ta.stats, logger).Route(app, requireAdmin)
	app.Get("/panic", func(*fiber.Ctx) error { panic("boom") })

	ta.app = app
	return ta
}

func (ta *testApp) do(t *testing.T, method, path string, body any, token string) (*http.Response, map[string]any) {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := ta.app.Test(req, -1)
	require.NoError(t, err)

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	var decoded map[string]any
	if len(raw) > 0 && raw[0] == '{' {
		require.NoError(t, json.Unmarshal(raw, &decoded))
	}
	return resp, decoded
}

func (ta *testApp) login(t *testing.T) string {
	t.Helper()
	resp, body := ta.do(t, http.MethodPost, "/api/auth/login", map[string]string{"email": adminEmail, "password": adminPassword}, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	token, _ := body["token"].(string)
	require.NotEmpty(t, token)
	return token
}

func TestLogin_SetsSessionCookie(t *testing.T) {
	ta := newTestApp(t)

	resp, body := ta.do(t, http.MethodPost, "/api/auth/login", map[string]string{"email": adminEmail, "password": adminPassword}, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "admin-id", body["id"])
	assert.Equal(t, "admin", body["role"])

	var session *http.Cookie
	for _, c := range resp.Cookies() {
		if c.Name == middleware.SessionCookie {
			session = c
		}
	}
	require.NotNil(t, session)
	assert.True(t, session.HttpOnly)
	assert.Equal(t, body["token"], session.Value)

	req := httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)
	req.AddCookie(&http.Cookie{Name: middleware.SessionCookie, Value: session.Value})
	me, err := ta.app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, me.StatusCode)
}

func TestLogin_WrongPassword(t *testing.T) {
	ta := newTestApp(t)

	resp, body := ta.do(t, http.MethodPost, "/api/auth/login", map[string]string{"email": adminEmail, "password": "nope"}, "")
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "Invalid email or password", body["message"])
}

func TestRegisterIsDisabled(t *testing.T) {
	ta := newTestApp(t)

	resp, body := ta.do(t, http.MethodPost, "/api/auth/register", map[string]string{"email": "x@y.z"}, "")
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	assert.Equal(t, "Registration is disabled.", body["message"])
}

func TestLogout_RevokesSession(t *testing.T) {
	ta := newTestApp(t)
	token := ta.login(t)

	resp, _ := ta.do(t, http.MethodGet, "/api/auth/me", nil, token)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, body := ta.do(t, http.MethodPost, "/api/auth/logout", nil, token)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "Logged out", body["message"])

	resp, _ = ta.do(t, http.MethodGet, "/api/auth/me", nil, token)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestUnauthenticatedTransitionLeavesOrderUntouched(t *testing.T) {
	ta := newTestApp(t)

	for _, token := range []string{"", "authenticated", "eyJhbGciOiJIUzI1NiJ9.e30.x"} {
		resp, _ := ta.do(t, http.MethodPut, "/api/admin/orders/o-1/status", map[string]string{"status": "delivered"}, token)
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	}

	assert.Equal(t, 0, ta.orders.transitions)
	assert.Equal(t, domain.StatusPending, ta.orders.orders["o-1"].Status)
}

func TestAdminRoutesRequireSession(t *testing.T) {
	ta := newTestApp(t)

	routes := []struct{ method, path string }{
		{http.MethodGet, "/api/admin/orders"},
		{http.MethodGet, "/api/admin/orders/o-1"},
		{http.MethodPost, "/api/admin/orders/o-1/reconcile"},
		{http.MethodDelete, "/api/admin/orders/o-1"},
		{http.MethodPost, "/api/admin/orders/replay-failed-events"},
		{http.MethodGet, "/api/admin/products"},
		{http.MethodPost, "/api/admin/products"},
		{http.MethodDelete, "/api/admin/products/p-1"},
		{http.MethodGet, "/api/admin/products/low-stock/5"},
		{http.MethodGet, "/api/admin/stats"},
		{http.MethodGet, "/api/auth/me"},
	}
	for _, r := range routes {
		t.Run(r.method+" "+r.path, func(t *testing.T) {
			resp, _ := ta.do(t, r.method, r.path, nil, "")
			assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
		})
	}
	_, ok := ta.orders.orders["o-1"]
	assert.True(t, ok)
}

func TestUpdateStatus(t *testing.T) {
	ta := newTestApp(t)
	token := ta.login(t)

	resp, body := ta.do(t, http.MethodPut, "/api/admin/orders/o-1/status", map[string]string{"status": "delivered"}, token)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "delivered", body["status"])

	resp, body = ta.do(t, http.MethodPut, "/api/admin/orders/o-1/status", map[string]string{"status": "shipped"}, token)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Contains(t, body["message"], "shipped")

	resp, _ = ta.do(t, http.MethodPut, "/api/admin/orders/missing/status", map[string]string{"status": "delivered"}, token)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestUpdateStatus_ErrorMapping(t *testing.T) {
	tests := []struct {
		err     error
		status  int
		message string
	}{
		{err: fmt.Errorf("%w: cannot move order from delivered to cancelled", apperrors.ErrInvalidTransition), status: http.StatusConflict, message: "cannot move order from delivered to cancelled"},
		{err: fmt.Errorf("%w: order o-1 kept changing, try again", apperrors.ErrConflict), status: http.StatusConflict},
		{err: apperrors.Unavailable("update order status", fmt.Errorf("server selection error: secret-host:27017")), status: http.StatusServiceUnavailable, message: "Service unavailable, please try again"},
		{err: fmt.Errorf("unexpected"), status: http.StatusInternalServerError, message: "Internal server error"},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprint(tt.status), func(t *testing.T) {
			ta := newTestApp(t)
			token := ta.login(t)
			ta.orders.err = tt.err

			resp, body := ta.do(t, http.MethodPut, "/api/admin/orders/o-1/status", map[string]string{"status": "cancelled"}, token)
			assert.Equal(t, tt.status, resp.StatusCode)
			if tt.message != "" {
				assert.Equal(t, tt.message, body["message"])
			}
			assert.NotContains(t, body["message"], "secret-host")
		})
	}
}

func TestCreateOrder_AcceptsLegacyItemID(t *testing.T) {
	ta := newTestApp(t)

	resp, body := ta.do(t, http.MethodPost, "/api/orders", map[string]any{
		"customer": map[string]string{"name": "Ama", "phone": "0240000000"},
		"items":    []map[string]any{{"id": "p-1", "name": "Tote", "price": 50, "quantity": 2}},
		"total":    100,
	}, "")
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.Equal(t, "pending", body["status"])

	require.Len(t, ta.orders.created, 1)
	assert.Equal(t, "p-1", ta.orders.created[0].Items[0].ProductID)
}

func TestCreateOrder_Invalid(t *testing.T) {
	ta := newTestApp(t)

	resp, body := ta.do(t, http.MethodPost, "/api/orders", map[string]any{
		"customer": map[string]string{"name": "Ama"},
		"items":    []map[string]any{{"productId": "p-1", "quantity": 1}},
	}, "")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "customer phone is required", body["message"])
}

func TestProducts(t *testing.T) {
	ta := newTestApp(t)

	resp, body := ta.do(t, http.MethodGet, "/api/products/p-1", nil, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "Tote", body["name"])

	resp, _ = ta.do(t, http.MethodGet, "/api/products/nope", nil, "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	token := ta.login(t)
	resp, _ = ta.do(t, http.MethodGet, "/api/admin/products/low-stock/abc", nil, token)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, body = ta.do(t, http.MethodPost, "/api/admin/products", map[string]any{"name": "Clutch", "price": 80}, token)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "product category is required", body["message"])

	resp, body = ta.do(t, http.MethodPost, "/api/admin/products", map[string]any{"name": "Clutch", "price": 80, "category": "bags"}, token)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.Equal(t, "p-new", body["id"])
}

func TestStats(t *testing.T) {
	ta := newTestApp(t)
	token := ta.login(t)

	resp, body := ta.do(t, http.MethodGet, "/api/admin/stats", nil, token)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, 120.0, body["totalRevenue"])

	ta.stats.err = apperrors.Unavailable("load stats", fmt.Errorf("timeout"))
	resp, _ = ta.do(t, http.MethodGet, "/api/admin/stats", nil, token)
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
}

func TestCorrelationHeader(t *testing.T) {
	ta := newTestApp(t)

	req := httptest.NewRequest(http.MethodGet, "/api/products", nil)
	req.Header.Set(middleware.HeaderCorrelationID, "req-77")
	resp, err := ta.app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, "req-77", resp.Header.Get(middleware.HeaderCorrelationID))

	req = httptest.NewRequest(http.MethodGet, "/api/products", nil)
	resp, err = ta.app.Test(req, -1)
	require.NoError(t, err)
	assert.NotEmpty(t, resp.Header.Get(middleware.HeaderCorrelationID))
}

func TestPanicBecomes500(t *testing.T) {
	ta := newTestApp(t)

	resp, body := ta.do(t, http.MethodGet, "/panic", nil, "")
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	assert.Equal(t, "Internal server error", body["message"])
}
