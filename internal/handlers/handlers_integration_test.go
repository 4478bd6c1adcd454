package handlers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"livemart/internal/middleware"
	"livemart/internal/models"
	"livemart/internal/repositories"
	"livemart/internal/services"
	"livemart/pkg/logging"
)

var testDBCounter int
var testDBMu sync.Mutex

func newTestApp(t *testing.T) *fiber.App {
	t.Helper()

	testDBMu.Lock()
	testDBCounter++
	dsn := fmt.Sprintf("file:handlers_test_%d?mode=memory&cache=shared", testDBCounter)
	testDBMu.Unlock()

	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.Category{},
		&models.Product{},
		&models.Cart{},
		&models.CartItem{},
		&models.Order{},
		&models.OrderItem{},
		&models.Purchase{},
		&models.Feedback{},
	))

	log := logging.Nop()
	userRepo := repositories.NewGORMUserRepository(db)
	categoryRepo := repositories.NewGORMCategoryRepository(db)
	productRepo := repositories.NewGORMProductRepository(db)
	cartRepo := repositories.NewGORMCartRepository(db)
	orderRepo := repositories.NewGORMOrderRepository(db)
	purchaseRepo := repositories.NewGORMPurchaseRepository(db)
	feedbackRepo := repositories.NewGORMFeedbackRepository(db)

	authService := services.NewAuthService(userRepo, "integration-secret", time.Hour, log)
	productService := services.NewProductService(productRepo)
	categoryService := services.NewCategoryService(categoryRepo)
	cartService := services.NewCartService(cartRepo, productRepo)
	checkoutService := services.NewCheckoutService(
		orderRepo, productRepo, cartRepo, userRepo, purchaseRepo,
		nil, "online", time.Second, log,
	)
	dashboardService := services.NewDashboardService(productRepo, orderRepo, purchaseRepo)
	feedbackService := services.NewFeedbackService(feedbackRepo, productRepo, userRepo)
	seedService := services.NewSeedService(userRepo, categoryRepo, productRepo, log)

	app := fiber.New()
	api := app.Group("/api")
	protected := app.Group("/api", middleware.Protected(authService))

	NewAuthHandler(authService).RegisterRoutes(api)
	NewSeedHandler(seedService).RegisterRoutes(api)
	NewProductHandler(productService).RegisterRoutes(api, protected)
	NewCategoryHandler(categoryService).RegisterRoutes(api, protected)
	NewFeedbackHandler(feedbackService).RegisterRoutes(api, protected)
	NewCartHandler(cartService).RegisterRoutes(protected)
	NewOrderHandler(checkoutService).RegisterRoutes(protected)
	NewDashboardHandler(dashboardService).RegisterRoutes(protected)

	return app
}

func doJSON(t *testing.T, app *fiber.App, method, path, token string, body interface{}) (*http.Response, map[string]interface{}) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := app.Test(req, -1)
	require.NoError(t, err)

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	var decoded map[string]interface{}
	if len(raw) > 0 && raw[0] == '{' {
		require.NoError(t, json.Unmarshal(raw, &decoded))
	}
	return resp, decoded
}

func doJSONList(t *testing.T, app *fiber.App, method, path, token string) (*http.Response, []map[string]interface{}) {
	t.Helper()

	req := httptest.NewRequest(method, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	var decoded []map[string]interface{}
	require.NoError(t, json.Unmarshal(raw, &decoded))
	return resp, decoded
}

// assertMoney compares a JSON money field (serialized as a quoted decimal)
// by value, since "180", "180.0", and "180.00" are the same amount.
func assertMoney(t *testing.T, expected string, actual interface{}) {
	t.Helper()
	s, ok := actual.(string)
	require.True(t, ok, "expected decimal string, got %T (%v)", actual, actual)
	got, err := decimal.NewFromString(s)
	require.NoError(t, err)
	want := decimal.RequireFromString(expected)
	assert.True(t, want.Equal(got), "expected %s, got %s", expected, s)
}

func registerUser(t *testing.T, app *fiber.App, email, role string) (token, userID string) {
	t.Helper()

	resp, body := doJSON(t, app, http.MethodPost, "/api/auth/register", "", map[string]interface{}{
		"name":     "Test " + role,
		"email":    email,
		"password": "password123",
		"phone":    "555-0100",
		"role":     role,
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	token, _ = body["access_token"].(string)
	require.NotEmpty(t, token)
	user, _ := body["user"].(map[string]interface{})
	require.NotNil(t, user)
	userID, _ = user["id"].(string)
	require.NotEmpty(t, userID)
	return token, userID
}

func createProduct(t *testing.T, app *fiber.App, token string, product map[string]interface{}) string {
	t.Helper()

	resp, body := doJSON(t, app, http.MethodPost, "/api/products", token, product)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	id, _ := body["id"].(string)
	require.NotEmpty(t, id)
	return id
}

func TestRegisterLoginFlow(t *testing.T) {
	app := newTestApp(t)

	token, _ := registerUser(t, app, "alice@example.com", models.RoleConsumer)
	assert.NotEmpty(t, token)

	// Duplicate registration conflicts.
	resp, _ := doJSON(t, app, http.MethodPost, "/api/auth/register", "", map[string]interface{}{
		"name":     "Alice Again",
		"email":    "alice@example.com",
		"password": "password123",
		"phone":    "555-0100",
		"role":     models.RoleConsumer,
	})
	assert.Equal(t, http.StatusConflict, resp.StatusCode)

	resp, body := doJSON(t, app, http.MethodPost, "/api/auth/login", "", map[string]interface{}{
		"email":    "alice@example.com",
		"password": "password123",
	})
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "bearer", body["token_type"])
	assert.NotEmpty(t, body["access_token"])

	resp, _ = doJSON(t, app, http.MethodPost, "/api/auth/login", "", map[string]interface{}{
		"email":    "alice@example.com",
		"password": "wrong",
	})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestRegisterValidation(t *testing.T) {
	app := newTestApp(t)

	resp, _ := doJSON(t, app, http.MethodPost, "/api/auth/register", "", map[string]interface{}{
		"name":  "No Email",
		"role":  "consumer",
		"phone": "555-0100",
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, _ = doJSON(t, app, http.MethodPost, "/api/auth/register", "", map[string]interface{}{
		"name":     "Bad Role",
		"email":    "bob@example.com",
		"password": "password123",
		"phone":    "555-0100",
		"role":     "admin",
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestCheckoutOverHTTP(t *testing.T) {
	app := newTestApp(t)

	sellerToken, sellerID := registerUser(t, app, "wh@example.com", models.RoleWholesaler)
	buyerToken, buyerID := registerUser(t, app, "alice@example.com", models.RoleConsumer)

	appleID := createProduct(t, app, sellerToken, map[string]interface{}{
		"name":      "Fresh Apples",
		"price":     "70.0",
		"stock":     500,
		"seller_id": sellerID,
	})
	milkID := createProduct(t, app, sellerToken, map[string]interface{}{
		"name":      "Organic Milk",
		"price":     "40.0",
		"stock":     300,
		"seller_id": sellerID,
	})

	// Build the cart over the API.
	resp, body := doJSON(t, app, http.MethodPost, "/api/cart/"+buyerID, buyerToken, map[string]interface{}{
		"product_id": appleID,
		"quantity":   2,
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp, body = doJSON(t, app, http.MethodPost, "/api/cart/"+buyerID, buyerToken, map[string]interface{}{
		"product_id": milkID,
		"quantity":   1,
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	items, _ := body["items"].([]interface{})
	assert.Len(t, items, 2)

	// Checkout.
	resp, body = doJSON(t, app, http.MethodPost, "/api/orders/"+buyerID, buyerToken, map[string]interface{}{
		"items": []map[string]interface{}{
			{"product_id": appleID, "quantity": 2},
			{"product_id": milkID, "quantity": 1},
		},
		"delivery_address": "12 Main St",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	assertMoney(t, "180", body["total_amount"])
	assert.Equal(t, "pending", body["payment_status"])
	assert.Equal(t, "placed", body["order_status"])
	assert.Equal(t, "online", body["payment_method"])
	orderID, _ := body["id"].(string)
	require.NotEmpty(t, orderID)

	// Stock visibly debited.
	resp, body = doJSON(t, app, http.MethodGet, "/api/products/"+appleID, "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, float64(498), body["stock"])

	// Cart cleared by the successful checkout.
	resp, body = doJSON(t, app, http.MethodGet, "/api/cart/"+buyerID, buyerToken, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	items, _ = body["items"].([]interface{})
	assert.Empty(t, items)

	// Order listing and detail.
	resp, orders := doJSONList(t, app, http.MethodGet, "/api/orders/"+buyerID, buyerToken)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Len(t, orders, 1)
	assert.Equal(t, orderID, orders[0]["id"])

	resp, body = doJSON(t, app, http.MethodGet, "/api/orders/detail/"+orderID, buyerToken, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	orderItems, _ := body["items"].([]interface{})
	assert.Len(t, orderItems, 2)
}

func TestCheckoutErrorStatuses(t *testing.T) {
	app := newTestApp(t)

	sellerToken, sellerID := registerUser(t, app, "wh@example.com", models.RoleWholesaler)
	buyerToken, buyerID := registerUser(t, app, "alice@example.com", models.RoleConsumer)

	productID := createProduct(t, app, sellerToken, map[string]interface{}{
		"name":      "Bread",
		"price":     "35.0",
		"stock":     2,
		"seller_id": sellerID,
	})

	// Asking for more than stock is a 400 with the insufficient-stock code.
	resp, body := doJSON(t, app, http.MethodPost, "/api/orders/"+buyerID, buyerToken, map[string]interface{}{
		"items":            []map[string]interface{}{{"product_id": productID, "quantity": 3}},
		"delivery_address": "12 Main St",
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "INSUFFICIENT_STOCK", body["code"])

	// Unknown product is a 404.
	resp, _ = doJSON(t, app, http.MethodPost, "/api/orders/"+buyerID, buyerToken, map[string]interface{}{
		"items":            []map[string]interface{}{{"product_id": "ghost", "quantity": 1}},
		"delivery_address": "12 Main St",
	})
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	// Empty body is a 400.
	resp, _ = doJSON(t, app, http.MethodPost, "/api/orders/"+buyerID, buyerToken, map[string]interface{}{})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	// No oversold stock after all the failures.
	resp, body = doJSON(t, app, http.MethodGet, "/api/products/"+productID, "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, float64(2), body["stock"])
}

func TestAuthBoundaries(t *testing.T) {
	app := newTestApp(t)

	aliceToken, aliceID := registerUser(t, app, "alice@example.com", models.RoleConsumer)
	bobToken, bobID := registerUser(t, app, "bob@example.com", models.RoleConsumer)

	// No token at all.
	resp, _ := doJSON(t, app, http.MethodGet, "/api/cart/"+aliceID, "", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	// Garbage token.
	resp, _ = doJSON(t, app, http.MethodGet, "/api/cart/"+aliceID, "not-a-token", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	// Bob cannot read Alice's cart.
	resp, _ = doJSON(t, app, http.MethodGet, "/api/cart/"+aliceID, bobToken, nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	// Everyone stays in their own lane.
	resp, _ = doJSON(t, app, http.MethodGet, "/api/cart/"+aliceID, aliceToken, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	resp, _ = doJSON(t, app, http.MethodGet, "/api/cart/"+bobID, bobToken, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestSeedDataAndCatalog(t *testing.T) {
	app := newTestApp(t)

	resp, _ := doJSON(t, app, http.MethodPost, "/api/seed-data", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	// Seeding twice is safe.
	resp, _ = doJSON(t, app, http.MethodPost, "/api/seed-data", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, products := doJSONList(t, app, http.MethodGet, "/api/products", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Len(t, products, 4)

	resp, categories := doJSONList(t, app, http.MethodGet, "/api/categories", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Len(t, categories, 3)

	// Search narrows by substring.
	resp, products = doJSONList(t, app, http.MethodGet, "/api/products?search=milk", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Len(t, products, 1)
	assert.Equal(t, "Milk (WH)", products[0]["name"])
}

func TestFeedbackOverHTTP(t *testing.T) {
	app := newTestApp(t)

	sellerToken, sellerID := registerUser(t, app, "wh@example.com", models.RoleWholesaler)
	userToken, userID := registerUser(t, app, "alice@example.com", models.RoleConsumer)

	productID := createProduct(t, app, sellerToken, map[string]interface{}{
		"name":      "Bread",
		"price":     "35.0",
		"stock":     10,
		"seller_id": sellerID,
	})

	resp, body := doJSON(t, app, http.MethodPost, "/api/feedback/"+userID, userToken, map[string]interface{}{
		"product_id": productID,
		"rating":     4,
		"comment":    "fresh and tasty",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.Equal(t, float64(4), body["rating"])

	// Out-of-range ratings are rejected.
	resp, _ = doJSON(t, app, http.MethodPost, "/api/feedback/"+userID, userToken, map[string]interface{}{
		"product_id": productID,
		"rating":     6,
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, list := doJSONList(t, app, http.MethodGet, "/api/feedback/product/"+productID, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Len(t, list, 1)
	assert.Equal(t, "fresh and tasty", list[0]["comment"])
}

func TestDashboardsOverHTTP(t *testing.T) {
	app := newTestApp(t)

	whToken, whID := registerUser(t, app, "wh@example.com", models.RoleWholesaler)
	retToken, retID := registerUser(t, app, "ret@example.com", models.RoleRetailer)

	productID := createProduct(t, app, whToken, map[string]interface{}{
		"name":      "Fresh Apples",
		"price":     "70.0",
		"stock":     500,
		"seller_id": whID,
	})

	// The retailer restocks from the wholesaler.
	resp, _ := doJSON(t, app, http.MethodPost, "/api/orders/"+retID, retToken, map[string]interface{}{
		"items":            []map[string]interface{}{{"product_id": productID, "quantity": 10}},
		"delivery_address": "Shop 4, Market Rd",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp, body := doJSON(t, app, http.MethodGet, "/api/dashboard/wholesaler?user_id="+whID, whToken, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, float64(1), body["products_count"])
	assertMoney(t, "700", body["total_revenue"])

	resp, body = doJSON(t, app, http.MethodGet, "/api/dashboard/retailer?user_id="+retID, retToken, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, float64(1), body["orders_count"])

	// user_id is mandatory.
	resp, _ = doJSON(t, app, http.MethodGet, "/api/dashboard/retailer", retToken, nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}
