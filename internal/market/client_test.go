package market

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agri365/agri365/internal/core/model"
)

const sampleResponse = `{
	"records": [
		{"state": "Andhra Pradesh", "market": "Ongole", "commodity": "Cotton",
		 "min_price": "5000", "max_price": "5500", "modal_price": "5200", "arrival_date": "01/10/2026"},
		{"state": "", "market": "", "commodity": "Chilli",
		 "min_price": "n/a", "max_price": "900", "modal_price": "", "arrival_date": ""}
	]
}`

func TestAgmarknetClient_Fetch(t *testing.T) {
	var gotQuery map[string][]string
	var gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotQuery = r.URL.Query()
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(sampleResponse))
	}))
	defer srv.Close()

	c := NewAgmarknetClient(srv.URL+"/resource/", "res-1", "key", time.Second)
	prices, err := c.Fetch(context.Background(), model.PriceFilter{State: "Andhra Pradesh", Market: "Ongole"})
	require.NoError(t, err)

	assert.Equal(t, "/resource/res-1", gotPath)
	assert.Equal(t, []string{"key"}, gotQuery["api-key"])
	assert.Equal(t, []string{"json"}, gotQuery["format"])
	assert.Equal(t, []string{"100"}, gotQuery["limit"])
	assert.Equal(t, []string{"Andhra Pradesh"}, gotQuery["filters[state]"])
	assert.Equal(t, []string{"Ongole"}, gotQuery["filters[market]"])
	assert.NotContains(t, gotQuery, "filters[commodity]")

	require.Len(t, prices, 2)
	assert.Equal(t, model.Price{
		ID: "Cotton-Ongole", Name: "Cotton", Market: "Ongole", State: "Andhra Pradesh",
		MinPrice: 5000, MaxPrice: 5500, ModalPrice: 5200, AvgPrice: 5250,
		Unit: "₹/kg", LastUpdated: "01/10/2026", Trend: "stable",
	}, prices[0])

	chilli := prices[1]
	assert.Equal(t, "Ongole", chilli.Market)
	assert.Equal(t, "Andhra Pradesh", chilli.State)
	assert.Equal(t, 0.0, chilli.MinPrice)
	assert.Equal(t, 900.0, chilli.MaxPrice)
	assert.Equal(t, 0.0, chilli.AvgPrice)
	assert.NotEmpty(t, chilli.LastUpdated)
}

func TestAgmarknetClient_Commodity(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Turmeric", r.URL.Query().Get("filters[commodity]"))
		_, _ = w.Write([]byte(`{"records": [{"commodity": "", "market": "", "min_price": "60", "max_price": "70"}]}`))
	}))
	defer srv.Close()

	c := NewAgmarknetClient(srv.URL, "res", "key", time.Second)
	prices, err := c.Fetch(context.Background(), model.PriceFilter{State: "Telangana", Commodity: "Turmeric"})
	require.NoError(t, err)
	require.Len(t, prices, 1)
	assert.Equal(t, "Turmeric", prices[0].Name)
	assert.Equal(t, "Various", prices[0].Market)
	assert.Equal(t, "Telangana", prices[0].State)
	assert.Equal(t, 65.0, prices[0].AvgPrice)
	assert.Empty(t, prices[0].Trend)
}

func TestAgmarknetClient_Errors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("filters[state]") == "bad-json" {
			_, _ = w.Write([]byte("{"))
			return
		}
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	c := NewAgmarknetClient(srv.URL, "res", "key", time.Second)

	_, err := c.Fetch(context.Background(), model.PriceFilter{State: "x"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUpstream))
	assert.Contains(t, err.Error(), "502")

	_, err = c.Fetch(context.Background(), model.PriceFilter{State: "bad-json"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUpstream))
}
