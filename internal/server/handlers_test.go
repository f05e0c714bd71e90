// internal/server/handlers_test.go
package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"phoneshop-bot/internal/bot"
	"phoneshop-bot/internal/bot/formatter"
	"phoneshop-bot/internal/bot/matcher"
	"phoneshop-bot/internal/common/config"
	"phoneshop-bot/internal/common/logger"
	"phoneshop-bot/internal/common/observability"
	"phoneshop-bot/internal/convcache"
	"phoneshop-bot/internal/models"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
)

type stubInventory struct {
	phones []models.Phone
	err    error
}

func (s *stubInventory) Search(_ context.Context, _ models.InventoryQuery) ([]models.Phone, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.phones, nil
}

func newTestServer(t *testing.T, inv *stubInventory) *Server {
	cfg := &config.Config{}
	cfg.App.Name = "phoneshop-bot"
	cfg.App.Version = "test"
	cfg.Bot.SearchLimit = 20
	cfg.WhatsApp.ShopNumber = "919876543210"
	cfg.WhatsApp.ShopName = "Mobile Junction"

	log := logger.NewTestLogger(t)
	mr := miniredis.RunT(t)
	cache := convcache.New(redis.NewClient(&redis.Options{Addr: mr.Addr()}), time.Minute)

	return New(
		cfg,
		log,
		bot.NewPipeline(log),
		matcher.New(inv, matcher.Options{}, log),
		inv,
		formatter.New(cfg.WhatsApp.ShopNumber, cfg.WhatsApp.ShopName, ""),
		cache,
		&observability.Observability{},
	)
}

func postJSON(t *testing.T, handler http.Handler, path string, body interface{}) *httptest.ResponseRecorder {
	payload, err := json.Marshal(body)
	assert.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	var body map[string]interface{}
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestWebhook_Message(t *testing.T) {
	inv := &stubInventory{phones: []models.Phone{{Brand: "Apple", Model: "iPhone 13", Price: 45000, Condition: "A", Status: "available"}}}
	srv := newTestServer(t, inv)

	rec := postJSON(t, srv.Router(), "/webhook", map[string]interface{}{
		"type": "message",
		"data": map[string]interface{}{
			"from":    "919000000001",
			"name":    "Ravi",
			"message": "iPhone 13 under 50k available?",
		},
	})

	assert.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)

	assert.Equal(t, true, body["success"])
	assert.Equal(t, "919000000001", body["customerPhone"])
	assert.Equal(t, "Ravi", body["customerName"])
	assert.Equal(t, "check_availability", body["suggestedAction"])

	analysis := body["analysis"].(map[string]interface{})
	assert.Equal(t, "availability_check", analysis["intent"])
	assert.Equal(t, "Apple", analysis["brand"])
	assert.Equal(t, "iphone 13", analysis["model"])
	assert.Equal(t, float64(50000), analysis["budget"])

	assert.Equal(t, "/search?brand=Apple&limit=5&maxBudget=50000&query=iphone+13", body["apiEndpoint"])
}

func TestWebhook_GreetingHasNoEndpoint(t *testing.T) {
	srv := newTestServer(t, &stubInventory{})

	rec := postJSON(t, srv.Router(), "/webhook", map[string]interface{}{
		"type": "message",
		"data": map[string]interface{}{
			"from":    "919000000002",
			"message": "hello",
		},
	})

	assert.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, "greeting", body["analysis"].(map[string]interface{})["intent"])
	assert.Equal(t, "", body["apiEndpoint"])
}

func TestWebhook_StatusIgnored(t *testing.T) {
	srv := newTestServer(t, &stubInventory{})

	rec := postJSON(t, srv.Router(), "/webhook", map[string]interface{}{
		"type": "status",
		"data": map[string]interface{}{"messageId": "abc"},
	})

	assert.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, "ignored", body["action"])
}

func TestWebhook_InvalidJSON(t *testing.T) {
	srv := newTestServer(t, &stubInventory{})

	req := httptest.NewRequest(http.MethodPost, "/webhook", bytes.NewBufferString("{broken"))
	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestWebhook_UnknownType(t *testing.T) {
	srv := newTestServer(t, &stubInventory{})

	rec := postJSON(t, srv.Router(), "/webhook", map[string]interface{}{
		"type": "reaction",
	})

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestWebhook_EmptyMessage(t *testing.T) {
	srv := newTestServer(t, &stubInventory{})

	rec := postJSON(t, srv.Router(), "/webhook", map[string]interface{}{
		"type": "message",
		"data": map[string]interface{}{"from": "919000000003"},
	})

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSearch_GET(t *testing.T) {
	inv := &stubInventory{phones: []models.Phone{
		{Brand: "Apple", Model: "iPhone 13", Price: 45000, Condition: "A", Status: "available"},
		{Brand: "Apple", Model: "iPhone 12", Price: 32000, Condition: "B", Status: "available"},
	}}
	srv := newTestServer(t, inv)

	req := httptest.NewRequest(http.MethodGet, "/search?brand=Apple&maxBudget=50000&limit=5", nil)
	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, true, body["success"])
	assert.Equal(t, float64(2), body["count"])
	assert.Len(t, body["data"], 2)
	assert.Empty(t, body["suggestions"])
	assert.Contains(t, body["text"], "iPhone 13")
}

func TestSearch_POSTWithAliases(t *testing.T) {
	inv := &stubInventory{phones: []models.Phone{
		{Brand: "Xiaomi", Model: "Redmi Note 12", Price: 15000, Condition: "A", Status: "available"},
	}}
	srv := newTestServer(t, inv)

	rec := postJSON(t, srv.Router(), "/search", map[string]interface{}{
		"query":     "redmi",
		"maxBudget": 20000,
		"limit":     3,
	})

	assert.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, float64(1), body["count"])
}

func TestSearch_InvalidLimit(t *testing.T) {
	srv := newTestServer(t, &stubInventory{})

	req := httptest.NewRequest(http.MethodGet, "/search?limit=abc", nil)
	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSearch_StoreFailure(t *testing.T) {
	srv := newTestServer(t, &stubInventory{err: errors.New("db down")})

	req := httptest.NewRequest(http.MethodGet, "/search?brand=Apple", nil)
	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, "inventory search failed", body["error"])
}

func TestCatalog(t *testing.T) {
	inv := &stubInventory{phones: []models.Phone{
		{Brand: "Apple", Model: "iPhone 13", Price: 45000, Condition: "A", Status: "available"},
		{Brand: "Samsung", Model: "Galaxy S22", Price: 38000, Condition: "B+", Status: "available"},
	}}
	srv := newTestServer(t, inv)

	req := httptest.NewRequest(http.MethodGet, "/available-phones", nil)
	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, float64(2), body["count"])
	assert.Contains(t, body["text"], "Current Stock")

	summary := body["summary"].(map[string]interface{})
	assert.Equal(t, float64(2), summary["total_available"])
	assert.Equal(t, float64(2), summary["brands"])
}

func TestCatalog_Empty(t *testing.T) {
	srv := newTestServer(t, &stubInventory{})

	req := httptest.NewRequest(http.MethodGet, "/available-phones", nil)
	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, float64(0), body["count"])
	assert.Contains(t, body["text"], "no phones available right now")
}

func TestHealth(t *testing.T) {
	srv := newTestServer(t, &stubInventory{})

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, "ok", body["status"])
	assert.Equal(t, "phoneshop-bot", body["service"])
}
