package handlers_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/SaiPrasanth27/sweet-shop-management-system/internal/app"
	"github.com/SaiPrasanth27/sweet-shop-management-system/internal/model"
)

func newTestServer(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	name := strings.ReplaceAll(t.Name(), "/", "_")
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", name)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&model.User{},
		&model.Sweet{},
		&model.CartItem{},
		&model.Order{},
		&model.OrderItem{},
	))

	cfg := app.Config{
		Env:         "dev",
		JWTSecret:   "test-secret",
		JWTTTL:      time.Hour,
		BcryptCost:  bcrypt.MinCost,
		CORSOrigins: []string{"*"},
	}
	return app.NewRouter(cfg, db)
}

func do(t *testing.T, r *gin.Engine, method, path, token string, body any) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var parsed map[string]any
	if w.Body.Len() > 0 {
		_ = json.Unmarshal(w.Body.Bytes(), &parsed)
	}
	return w, parsed
}

func registerUser(t *testing.T, r *gin.Engine, email, role string) string {
	t.Helper()
	w, body := do(t, r, http.MethodPost, "/api/auth/register", "", gin.H{
		"username": "tester",
		"email":    email,
		"password": "secret1",
		"role":     role,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	return body["token"].(string)
}

func createSweet(t *testing.T, r *gin.Engine, adminToken string, name string, price float64, category string, qty int) uint {
	t.Helper()
	w, body := do(t, r, http.MethodPost, "/api/Sweet", adminToken, gin.H{
		"name":        name,
		"description": name + " description",
		"price":       price,
		"category":    category,
		"quantity":    qty,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	sweet := body["sweet"].(map[string]any)
	return uint(sweet["id"].(float64))
}

func TestHealth(t *testing.T) {
	r := newTestServer(t)
	w, body := do(t, r, http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "OK", body["status"])
}

func TestRegister_DuplicateEmail(t *testing.T) {
	r := newTestServer(t)
	registerUser(t, r, "alice@example.com", "")

	w, body := do(t, r, http.MethodPost, "/api/auth/register", "", gin.H{
		"username": "someone-else",
		"email":    "Alice@Example.COM",
		"password": "secret1",
	})
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "Email already exists", body["error"])
}

func TestRegister_ValidationDetails(t *testing.T) {
	r := newTestServer(t)
	w, body := do(t, r, http.MethodPost, "/api/auth/register", "", gin.H{
		"username": "ab",
		"email":    "nope",
		"password": "123",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Validation failed", body["error"])
	assert.NotEmpty(t, body["details"])
}

func TestLogin_GenericFailure(t *testing.T) {
	r := newTestServer(t)
	registerUser(t, r, "alice@example.com", "")

	w, body := do(t, r, http.MethodPost, "/api/auth/login", "", gin.H{
		"email": "alice@example.com", "password": "wrong",
	})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w2, body2 := do(t, r, http.MethodPost, "/api/auth/login", "", gin.H{
		"email": "unknown@example.com", "password": "secret1",
	})
	assert.Equal(t, http.StatusUnauthorized, w2.Code)
	assert.Equal(t, body["error"], body2["error"], "identical message either way")
}

func TestMe(t *testing.T) {
	r := newTestServer(t)
	token := registerUser(t, r, "alice@example.com", "")

	w, body := do(t, r, http.MethodGet, "/api/auth/me", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	user := body["user"].(map[string]any)
	assert.Equal(t, "alice@example.com", user["email"])
	_, hasPassword := user["password"]
	assert.False(t, hasPassword, "password never serialized")

	w, _ = do(t, r, http.MethodGet, "/api/auth/me", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAdminEndpoints_ForbiddenForCustomers(t *testing.T) {
	r := newTestServer(t)
	admin := registerUser(t, r, "admin@example.com", "admin")
	customer := registerUser(t, r, "alice@example.com", "")
	id := createSweet(t, r, admin, "Truffle", 3, "Chocolate", 10)

	calls := []struct {
		method, path string
		body         any
	}{
		{http.MethodPost, "/api/Sweet", gin.H{"name": "X", "description": "X", "price": 1, "category": "Other"}},
		{http.MethodPut, fmt.Sprintf("/api/Sweet/%d", id), gin.H{"price": 2}},
		{http.MethodDelete, fmt.Sprintf("/api/Sweet/%d", id), nil},
		{http.MethodPost, fmt.Sprintf("/api/Sweet/%d/restock", id), gin.H{"quantity": 5}},
		{http.MethodPut, "/api/orders/1/status", gin.H{"status": "received"}},
		{http.MethodPost, "/api/admin/seed", nil},
	}
	for _, call := range calls {
		w, _ := do(t, r, call.method, call.path, customer, call.body)
		assert.Equal(t, http.StatusForbidden, w.Code, "%s %s", call.method, call.path)
	}
}

func TestSweetCRUDAndFilters(t *testing.T) {
	r := newTestServer(t)
	admin := registerUser(t, r, "admin@example.com", "admin")
	createSweet(t, r, admin, "Truffle", 3, "Chocolate", 10)
	createSweet(t, r, admin, "Gummy Bear", 1, "Gummy", 10)
	id := createSweet(t, r, admin, "Choc Bar", 2, "Chocolate", 10)

	// Category filter is an exact match.
	w, body := do(t, r, http.MethodGet, "/api/Sweet?category=Chocolate", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, body["sweets"], 2)
	assert.EqualValues(t, 2, body["total"])

	// Search hits name or description, case-insensitively.
	w, body = do(t, r, http.MethodGet, "/api/Sweet?search=bar", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, body["sweets"], 1)

	// Invalid category on create is rejected before persistence.
	w, _ = do(t, r, http.MethodPost, "/api/Sweet", admin, gin.H{
		"name": "X", "description": "X", "price": 1, "category": "Savory",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// Partial update.
	w, body = do(t, r, http.MethodPut, fmt.Sprintf("/api/Sweet/%d", id), admin, gin.H{"price": 2.5})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 2.5, body["sweet"].(map[string]any)["price"])

	// Delete, then 404.
	w, _ = do(t, r, http.MethodDelete, fmt.Sprintf("/api/Sweet/%d", id), admin, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	w, _ = do(t, r, http.MethodGet, fmt.Sprintf("/api/Sweet/%d", id), "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestPurchaseCancelScenario(t *testing.T) {
	r := newTestServer(t)
	admin := registerUser(t, r, "admin@example.com", "admin")
	customer := registerUser(t, r, "alice@example.com", "")
	id := createSweet(t, r, admin, "Choc Cake", 20, "Cakes", 5)

	// Over-purchase rejected, stock unchanged.
	w, _ := do(t, r, http.MethodPost, fmt.Sprintf("/api/Sweet/%d/purchase", id), customer, gin.H{"quantity": 6})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	w, body := do(t, r, http.MethodGet, fmt.Sprintf("/api/Sweet/%d", id), "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.EqualValues(t, 5, body["sweet"].(map[string]any)["quantity"])

	// Purchase 2: stock 3, one order of 40.
	w, body = do(t, r, http.MethodPost, fmt.Sprintf("/api/Sweet/%d/purchase", id), customer, gin.H{"quantity": 2})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	order := body["order"].(map[string]any)
	assert.EqualValues(t, 40, order["totalAmount"])
	assert.Equal(t, "ordered", order["status"])
	assert.EqualValues(t, 3, body["sweet"].(map[string]any)["quantity"])
	orderID := uint(order["id"].(float64))
	orderNumber := order["orderNumber"].(string)

	// Lookup by order number resolves the same order.
	w, body = do(t, r, http.MethodGet, "/api/orders/"+orderNumber, customer, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.EqualValues(t, orderID, body["order"].(map[string]any)["id"])

	// Owner's order list includes it.
	w, body = do(t, r, http.MethodGet, "/api/orders", customer, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.EqualValues(t, 1, body["count"])
	assert.EqualValues(t, 40, body["totalSpent"])

	// Cancel: stock back to 5, total zeroed.
	w, body = do(t, r, http.MethodPut, fmt.Sprintf("/api/orders/%d/cancel", orderID), customer, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	cancelled := body["order"].(map[string]any)
	assert.Equal(t, "cancelled", cancelled["status"])
	assert.EqualValues(t, 0, cancelled["totalAmount"])

	w, body = do(t, r, http.MethodGet, fmt.Sprintf("/api/Sweet/%d", id), "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.EqualValues(t, 5, body["sweet"].(map[string]any)["quantity"])

	// Cancelling again is rejected.
	w, _ = do(t, r, http.MethodPut, fmt.Sprintf("/api/orders/%d/cancel", orderID), customer, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCartFlow(t *testing.T) {
	r := newTestServer(t)
	admin := registerUser(t, r, "admin@example.com", "admin")
	customer := registerUser(t, r, "alice@example.com", "")
	id := createSweet(t, r, admin, "Truffle", 2.5, "Chocolate", 10)

	w, body := do(t, r, http.MethodPost, "/api/cart/add", customer, gin.H{"sweetId": id, "quantity": 2})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.EqualValues(t, 5, body["totalAmount"])
	assert.EqualValues(t, 2, body["itemCount"])

	// Checkout from cart.
	w, body = do(t, r, http.MethodPost, "/api/orders", customer, nil)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.EqualValues(t, 5, body["order"].(map[string]any)["totalAmount"])

	// Cart is cleared afterward.
	w, body = do(t, r, http.MethodGet, "/api/cart", customer, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.EqualValues(t, 0, body["itemCount"])

	// Empty-cart checkout rejected.
	w, _ = do(t, r, http.MethodPost, "/api/orders", customer, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRestock(t *testing.T) {
	r := newTestServer(t)
	admin := registerUser(t, r, "admin@example.com", "admin")
	id := createSweet(t, r, admin, "Truffle", 2.5, "Chocolate", 4)

	w, body := do(t, r, http.MethodPost, fmt.Sprintf("/api/Sweet/%d/restock", id), admin, gin.H{"quantity": 6})
	require.Equal(t, http.StatusOK, w.Code)
	assert.EqualValues(t, 10, body["newQuantity"])

	w, _ = do(t, r, http.MethodPost, fmt.Sprintf("/api/Sweet/%d/restock", id), admin, gin.H{"quantity": 0})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestUnknownAPIRouteIs404JSON(t *testing.T) {
	r := newTestServer(t)
	w, body := do(t, r, http.MethodGet, "/api/nope", "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "Route not found", body["error"])
}
