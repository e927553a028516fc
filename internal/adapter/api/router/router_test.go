package router

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	gorillaws "github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"foodstore/internal/adapter/api"
	"foodstore/internal/adapter/api/handler"
	"foodstore/internal/adapter/api/middleware"
	"foodstore/internal/domain/entity"
	"foodstore/internal/infrastructure/token"
	"foodstore/internal/infrastructure/websocket"
	"foodstore/internal/session"
	"foodstore/internal/usecase"
	"foodstore/pkg/logger"
	"foodstore/pkg/response"
)

type fixture struct {
	e        *echo.Echo
	products *productStore
	hub      *websocket.Hub
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	logger.SetOutput(io.Discard)

	products := &productStore{}
	for i, p := range []struct {
		id, title, category string
		price               float64
	}{
		{"p1", "Apple Pie", "desserts", 9},
		{"p2", "Beef Stew", "mains", 14},
		{"p3", "Carrot Cake", "desserts", 7},
		{"p4", "Duck Confit", "mains", 22},
		{"p5", "Eclair", "desserts", 4},
	} {
		products.products = append(products.products, &entity.Product{
			ID:       p.id,
			Title:    p.title,
			Category: p.category,
			Price:    p.price,
			Stock:    i + 1,
			Reviews:  []entity.Review{},
		})
	}
	categories := &categoryStore{categories: []*entity.Category{{ID: "desserts", Name: "Desserts", Slug: "desserts"}}}

	jwtService := token.NewJWTService("test-secret", time.Hour)
	hub := websocket.NewHub()

	handler.Setup(
		usecase.NewAuthUseCase(&userStore{}, stubIdentity{}, jwtService),
		usecase.NewProductUseCase(products, nil, usecase.ProductUseCaseConfig{DefaultPageSize: 20, MaxPageSize: 100, ExactTotals: true}),
		usecase.NewReviewUseCase(products, nil, hub),
		usecase.NewCategoryUseCase(categories, nil),
		hub,
	)
	handler.SetupHealthHandler(map[string]handler.HealthCheck{
		"store": func(context.Context) error { return nil },
	})

	e := echo.New()
	e.HTTPErrorHandler = response.HTTPErrorHandler
	e.Validator = api.NewValidator()
	Setup(e, middleware.NewAuthMiddleware(session.Chain{jwtService}), Options{})

	return &fixture{e: e, products: products, hub: hub}
}

func (f *fixture) do(t *testing.T, method, path, body, bearer string) (*httptest.ResponseRecorder, map[string]interface{}) {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	if bearer != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+bearer)
	}
	rec := httptest.NewRecorder()
	f.e.ServeHTTP(rec, req)

	var decoded map[string]interface{}
	if strings.HasPrefix(strings.TrimSpace(rec.Body.String()), "{") {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &decoded))
	}
	return rec, decoded
}

func (f *fixture) signup(t *testing.T, username string) string {
	t.Helper()
	body := `{"firstName":"Ada","lastName":"Lovelace","username":"` + username + `","email":"` + username + `@example.com","password":"secret1"}`
	rec, out := f.do(t, http.MethodPost, "/api/logPage/signup", body, "")
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	return out["token"].(string)
}

func TestListProductsPageShape(t *testing.T) {
	f := newFixture(t)

	rec, body := f.do(t, http.MethodGet, "/api/products?page=2&limit=2&seq=11", "", "")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, float64(2), body["currentPage"])
	assert.Equal(t, float64(5), body["totalItems"])
	assert.Equal(t, float64(3), body["totalPages"])
	assert.Equal(t, "11", body["seq"])
	items := body["products"].([]interface{})
	require.Len(t, items, 2)
	assert.Equal(t, "p3", items[0].(map[string]interface{})["id"])
}

func TestListProductsCategorySorted(t *testing.T) {
	f := newFixture(t)

	_, body := f.do(t, http.MethodGet, "/api/products?category=desserts&sortBy=price&order=desc", "", "")

	items := body["products"].([]interface{})
	require.Len(t, items, 3)
	var ids []string
	for _, it := range items {
		ids = append(ids, it.(map[string]interface{})["id"].(string))
	}
	assert.Equal(t, []string{"p1", "p3", "p5"}, ids)
	assert.Equal(t, float64(3), body["totalItems"])
}

func TestListProductsSearch(t *testing.T) {
	f := newFixture(t)

	_, body := f.do(t, http.MethodGet, "/api/products?search=CAKE", "", "")

	items := body["products"].([]interface{})
	require.Len(t, items, 1)
	assert.Equal(t, "Carrot Cake", items[0].(map[string]interface{})["title"])
	assert.Equal(t, float64(1), body["totalPages"])
}

func TestListProductsStoreFailure(t *testing.T) {
	f := newFixture(t)
	f.products.err = errors.New("deadline exceeded")

	rec, body := f.do(t, http.MethodGet, "/api/products", "", "")

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.NotEmpty(t, body["error"])
	assert.Contains(t, body, "details")
	assert.NotContains(t, rec.Body.String(), "deadline")
}

func TestGetProduct(t *testing.T) {
	f := newFixture(t)

	rec, body := f.do(t, http.MethodGet, "/api/products/p2", "", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Beef Stew", body["title"])

	rec, body = f.do(t, http.MethodGet, "/api/products/nope", "", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Product not found", body["message"])
}

func TestAddReviewRequiresAllFields(t *testing.T) {
	f := newFixture(t)

	rec, body := f.do(t, http.MethodPost, "/api/products/p1/reviews", `{"reviewerName":"Bo","rating":4}`, "")

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "All fields are required", body["message"])
}

func TestAddReviewRejectsOutOfRangeRating(t *testing.T) {
	f := newFixture(t)

	rec, _ := f.do(t, http.MethodPost, "/api/products/p1/reviews", `{"reviewerName":"Bo","rating":6,"comment":"wow"}`, "")

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestReviewLifecycle(t *testing.T) {
	f := newFixture(t)
	ada := f.signup(t, "ada")
	bob := f.signup(t, "bob")

	rec, _ := f.do(t, http.MethodPost, "/api/products/p1/reviews", `{"reviewerName":"Anon","rating":3,"comment":"fine"}`, "")
	require.Equal(t, http.StatusCreated, rec.Code)

	rec, product := f.do(t, http.MethodPost, "/api/products/p1/reviews", `{"reviewerName":"Ada","rating":5,"comment":"great"}`, ada)
	require.Equal(t, http.StatusCreated, rec.Code)
	reviews := product["reviews"].([]interface{})
	require.Len(t, reviews, 2)
	mine := reviews[1].(map[string]interface{})
	assert.Equal(t, "uid-ada@example.com", mine["authorId"])
	reviewID := mine["id"].(string)

	rec, body := f.do(t, http.MethodPut, "/api/products/p1/reviews/"+reviewID, `{"rating":2,"comment":"changed my mind"}`, bob)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "FORBIDDEN", body["code"])

	rec, body = f.do(t, http.MethodPut, "/api/products/p1/reviews/"+reviewID, `{"rating":2,"comment":"changed my mind"}`, ada)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, float64(2), body["review"].(map[string]interface{})["rating"])

	rec, _ = f.do(t, http.MethodPut, "/api/products/p1/reviews/missing", `{"rating":2,"comment":"x"}`, ada)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec, body = f.do(t, http.MethodDelete, "/api/products/p1/reviews", "", ada)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, float64(1), body["removed"])
	left := body["product"].(map[string]interface{})["reviews"].([]interface{})
	require.Len(t, left, 1)
	assert.Equal(t, "Anon", left[0].(map[string]interface{})["reviewerName"])
}

func TestReviewMutationsRequireToken(t *testing.T) {
	f := newFixture(t)

	rec, _ := f.do(t, http.MethodDelete, "/api/products/p1/reviews", "", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec, _ = f.do(t, http.MethodDelete, "/api/products/p1/reviews", "", "forged")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec, _ = f.do(t, http.MethodPut, "/api/products/p1/reviews/r1", `{"rating":2,"comment":"x"}`, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestSignupAndLogin(t *testing.T) {
	f := newFixture(t)
	f.signup(t, "ada")

	rec, body := f.do(t, http.MethodPost, "/api/logPage/signup",
		`{"firstName":"A","lastName":"B","username":"ada","email":"other@example.com","password":"secret1"}`, "")
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "Username already taken", body["message"])

	rec, _ = f.do(t, http.MethodPost, "/api/logPage/signup", `{"username":"x"}`, "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec, body = f.do(t, http.MethodPost, "/api/logPage/login", `{"username":"ada","password":"secret1"}`, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Login successful", body["message"])
	assert.NotEmpty(t, body["token"])
	user := body["user"].(map[string]interface{})
	assert.NotContains(t, user, "password")
	assert.NotContains(t, user, "PasswordHash")

	rec, body = f.do(t, http.MethodPost, "/api/logPage/login", `{"username":"ada","password":"wrong"}`, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "Invalid password", body["message"])

	rec, body = f.do(t, http.MethodPost, "/api/logPage/login", `{"username":"zed","password":"secret1"}`, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "User not found", body["message"])
}

func TestCategoriesAndHealth(t *testing.T) {
	f := newFixture(t)

	req := httptest.NewRequest(http.MethodGet, "/api/categories", nil)
	rec := httptest.NewRecorder()
	f.e.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	var categories []entity.Category
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &categories))
	require.Len(t, categories, 1)
	assert.Equal(t, "desserts", categories[0].Slug)

	rec, body := f.do(t, http.MethodGet, "/health", "", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", body["status"])
}

func TestUnknownRouteIsStructured(t *testing.T) {
	f := newFixture(t)

	rec, body := f.do(t, http.MethodGet, "/api/nowhere", "", "")

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.NotEmpty(t, body["message"])
}

func TestLiveReviewFeed(t *testing.T) {
	f := newFixture(t)
	srv := httptest.NewServer(f.e)
	defer srv.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/api/products/p1/reviews/live"
	conn, _, err := gorillaws.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer conn.Close()

	require.Eventually(t, func() bool { return f.hub.Subscribers("p1") == 1 }, time.Second, 10*time.Millisecond)

	rec, _ := f.do(t, http.MethodPost, "/api/products/p1/reviews", `{"reviewerName":"Cy","rating":4,"comment":"tasty"}`, "")
	require.Equal(t, http.StatusCreated, rec.Code)

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	var event entity.ReviewEvent
	require.NoError(t, conn.ReadJSON(&event))
	assert.Equal(t, entity.ReviewAdded, event.Type)
	assert.Equal(t, "p1", event.ProductID)
	require.Len(t, event.Reviews, 1)
	assert.Equal(t, "Cy", event.Reviews[0].ReviewerName)

	conn.Close()
	require.Eventually(t, func() bool { return f.hub.Subscribers("p1") == 0 }, 2*time.Second, 10*time.Millisecond)
}
