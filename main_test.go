package main

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"livemart/internal/config"
	"livemart/pkg/logging"
)

func newSmokeApp(t *testing.T) *fiber.App {
	t.Helper()

	cfg := config.Config{
		AppPort:              ":0",
		DatabaseDriver:       "sqlite",
		DatabaseDSN:          "file:main_test?mode=memory&cache=shared",
		JWTSecret:            "smoke-secret",
		TokenTTL:             time.Hour,
		StoreTimeout:         time.Second,
		DefaultPaymentMethod: "online",
	}

	db, err := openDatabase(cfg)
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	app, _ := newApp(cfg, db, nil, logging.Nop())
	return app
}

func TestHealthEndpoint(t *testing.T) {
	app := newSmokeApp(t)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/health", nil), -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(raw, &body))
	assert.Equal(t, "healthy", body["status"])
}

func TestRoutesAreRegistered(t *testing.T) {
	app := newSmokeApp(t)

	// Public routes respond without auth.
	for _, path := range []string{"/api/products", "/api/categories"} {
		resp, err := app.Test(httptest.NewRequest(http.MethodGet, path, nil), -1)
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, resp.StatusCode, path)
	}

	// Protected routes demand a token.
	for _, path := range []string{"/api/cart/u-1", "/api/orders/u-1", "/api/dashboard/retailer?user_id=u-1"} {
		resp, err := app.Test(httptest.NewRequest(http.MethodGet, path, nil), -1)
		require.NoError(t, err)
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode, path)
	}

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/nope", nil), -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestRegisterThroughWiredApp(t *testing.T) {
	app := newSmokeApp(t)

	payload, err := json.Marshal(map[string]interface{}{
		"name":     "Smoke Tester",
		"email":    "smoke@example.com",
		"password": "password123",
		"phone":    "555-0100",
		"role":     "consumer",
	})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/api/auth/register", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
}

func TestOpenDatabaseRejectsUnknownDriver(t *testing.T) {
	_, err := openDatabase(config.Config{DatabaseDriver: "oracle"})
	require.Error(t, err)
}
