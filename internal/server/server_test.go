package server

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/agri365/agri365/internal/config"
	"github.com/agri365/agri365/internal/core"
	"github.com/agri365/agri365/internal/core/catalog"
	"github.com/agri365/agri365/internal/core/model"
	"github.com/agri365/agri365/internal/market"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type stubFetcher struct {
	prices []model.Price
	err    error
}

func (f *stubFetcher) Fetch(ctx context.Context, filter model.PriceFilter) ([]model.Price, error) {
	return f.prices, f.err
}

func newTestServer(t *testing.T, f market.Fetcher, cfg *config.Config) *gin.Engine {
	t.Helper()
	if f == nil {
		f = &stubFetcher{}
	}
	m := core.NewMatcher(catalog.Default(), core.Options{}, nil)
	ms := market.NewService(f, time.Hour, model.PriceFilter{State: "Andhra Pradesh", Market: "Ongole"}, nil)
	return New(m, ms, cfg, zap.NewNop()).SetupRouter()
}

func do(r http.Handler, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, bytes.NewReader([]byte(body)))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	return out
}

func TestSearch(t *testing.T) {
	r := newTestServer(t, nil, nil)

	w := do(r, http.MethodPost, "/api/search", `{"query": "tomoto"}`)
	require.Equal(t, http.StatusOK, w.Code)

	var resp SearchResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.Equal(t, "Dice's Coefficient Fuzzy Search", resp.Algorithm)
	require.Len(t, resp.Data, 3)
	assert.Equal(t, "Late Blight", resp.Data[0].Name)
	assert.Equal(t, 1.0, resp.Data[0].Score)
	assert.Equal(t, []string{"tomoto", "blight", "fungus"}, resp.Data[0].Tags)

	// Entry fields are flattened next to the score.
	body := decode(t, w)
	first := body["data"].([]interface{})[0].(map[string]interface{})
	assert.Equal(t, "disease", first["type"])
	assert.Equal(t, "Tomato", first["target"])
	assert.Equal(t, 1.0, first["score"])
}

func TestSearch_NoMatches(t *testing.T) {
	r := newTestServer(t, nil, nil)

	w := do(r, http.MethodPost, "/api/search", `{"query": "zzzzqqqq"}`)
	require.Equal(t, http.StatusOK, w.Code)
	body := decode(t, w)
	assert.Equal(t, []interface{}{}, body["data"])
}

func TestSearch_BadRequests(t *testing.T) {
	r := newTestServer(t, nil, nil)

	for _, body := range []string{`{"query": ""}`, `{}`, `{"query": 12}`, `not json`} {
		w := do(r, http.MethodPost, "/api/search", body)
		assert.Equal(t, http.StatusBadRequest, w.Code, body)
		resp := decode(t, w)
		assert.Equal(t, false, resp["success"])
		assert.Equal(t, "Query required", resp["message"])
	}
}

func TestCatalogEndpoints(t *testing.T) {
	r := newTestServer(t, nil, nil)

	w := do(r, http.MethodGet, "/api/catalog", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode(t, w)["data"], 8)

	w = do(r, http.MethodGet, "/api/catalog?type=crop", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode(t, w)["data"], 4)

	w = do(r, http.MethodGet, "/api/catalog?type=fruit", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(r, http.MethodGet, "/api/pests", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode(t, w)["data"], 2)

	w = do(r, http.MethodGet, "/api/pests/spider%20mites", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Spider Mites", decode(t, w)["data"].(map[string]interface{})["name"])

	// Wheat exists but is not a pest.
	w = do(r, http.MethodGet, "/api/pests/Wheat", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "Pest not found", decode(t, w)["message"])
}

func TestGetPest_NameSharedWithCrop(t *testing.T) {
	c, err := catalog.New([]model.CatalogEntry{
		{Type: model.TypeCrop, Name: "Armyworm", Info: "Trap crop strip"},
		{Type: model.TypePest, Name: "Armyworm", Target: "Maize", Info: "Caterpillars feeding on leaves"},
	})
	require.NoError(t, err)
	ms := market.NewService(&stubFetcher{}, time.Hour, model.PriceFilter{}, nil)
	r := New(core.NewMatcher(c, core.Options{}, nil), ms, nil, zap.NewNop()).SetupRouter()

	w := do(r, http.MethodGet, "/api/pests/armyworm", "")
	require.Equal(t, http.StatusOK, w.Code)
	data := decode(t, w)["data"].(map[string]interface{})
	assert.Equal(t, "pest", data["type"])
	assert.Equal(t, "Maize", data["target"])
}

func TestMarketPrices(t *testing.T) {
	f := &stubFetcher{prices: []model.Price{{ID: "Cotton-Ongole", Name: "Cotton"}}}
	r := newTestServer(t, f, nil)

	w := do(r, http.MethodGet, "/api/market-prices", "")
	require.Equal(t, http.StatusOK, w.Code)
	body := decode(t, w)
	assert.Equal(t, true, body["success"])
	assert.Equal(t, market.SourceLive, body["source"])
	assert.Equal(t, 1.0, body["recordCount"])
	assert.NotContains(t, body, "cacheAge")

	w = do(r, http.MethodGet, "/api/market-prices", "")
	body = decode(t, w)
	assert.Equal(t, market.SourceCached, body["source"])
	assert.Contains(t, body, "cacheAge")
}

func TestMarketPrices_UpstreamDown(t *testing.T) {
	r := newTestServer(t, &stubFetcher{err: fmt.Errorf("dial tcp: refused")}, nil)

	w := do(r, http.MethodGet, "/api/market-prices?state=Telangana", "")
	require.Equal(t, http.StatusOK, w.Code)
	body := decode(t, w)
	assert.Equal(t, market.SourceError, body["source"])
	assert.Equal(t, "dial tcp: refused", body["error"])
	assert.Len(t, body["data"], 5)
}

func TestCommodityPrices(t *testing.T) {
	r := newTestServer(t, &stubFetcher{prices: []model.Price{{Name: "Turmeric"}}}, nil)
	w := do(r, http.MethodGet, "/api/market-prices/commodity/Turmeric?state=Telangana", "")
	require.Equal(t, http.StatusOK, w.Code)
	body := decode(t, w)
	assert.Equal(t, "Turmeric", body["commodity"])
	assert.Equal(t, "Telangana", body["state"])

	r = newTestServer(t, &stubFetcher{err: fmt.Errorf("timeout")}, nil)
	w = do(r, http.MethodGet, "/api/market-prices/commodity/Turmeric", "")
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "Failed to fetch commodity prices", decode(t, w)["message"])
}

func TestInfoHealthAndNotFound(t *testing.T) {
	r := newTestServer(t, nil, nil)

	w := do(r, http.MethodGet, "/", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Welcome to Agri365 API Server", decode(t, w)["message"])

	w = do(r, http.MethodGet, "/healthz", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 8.0, decode(t, w)["entries"])

	w = do(r, http.MethodGet, "/api/weather", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "Endpoint not found", decode(t, w)["message"])
}
