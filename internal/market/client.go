// Package market serves commodity prices from the AGMARKNET open data API,
// with a time-bounded cache and a static fallback list.
package market

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/cockroachdb/errors"

	"github.com/agri365/agri365/internal/core/model"
)

var ErrUpstream = errors.New("market data upstream error")

const (
	unitPerKg  = "₹/kg"
	fetchLimit = 100
)

// Fetcher retrieves current prices matching a filter.
type Fetcher interface {
	Fetch(ctx context.Context, filter model.PriceFilter) ([]model.Price, error)
}

// AgmarknetClient queries the data.gov.in daily mandi price resource.
type AgmarknetClient struct {
	BaseURL    string
	ResourceID string
	APIKey     string
	HTTP       *http.Client
}

func NewAgmarknetClient(baseURL, resourceID, apiKey string, timeout time.Duration) *AgmarknetClient {
	return &AgmarknetClient{
		BaseURL:    strings.TrimRight(baseURL, "/"),
		ResourceID: resourceID,
		APIKey:     apiKey,
		HTTP:       &http.Client{Timeout: timeout},
	}
}

type agmarknetRecord struct {
	State       string `json:"state"`
	Market      string `json:"market"`
	Commodity   string `json:"commodity"`
	MinPrice    string `json:"min_price"`
	MaxPrice    string `json:"max_price"`
	ModalPrice  string `json:"modal_price"`
	ArrivalDate string `json:"arrival_date"`
}

type agmarknetResponse struct {
	Records []agmarknetRecord `json:"records"`
}

func (c *AgmarknetClient) Fetch(ctx context.Context, filter model.PriceFilter) ([]model.Price, error) {
	params := url.Values{}
	params.Set("api-key", c.APIKey)
	params.Set("format", "json")
	params.Set("limit", strconv.Itoa(fetchLimit))
	if filter.State != "" {
		params.Set("filters[state]", filter.State)
	}
	if filter.Market != "" {
		params.Set("filters[market]", filter.Market)
	}
	if filter.Commodity != "" {
		params.Set("filters[commodity]", filter.Commodity)
	}

	endpoint := fmt.Sprintf("%s/%s?%s", c.BaseURL, c.ResourceID, params.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, errors.Wrap(err, "build request")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return nil, errors.Mark(errors.Wrap(err, "request prices"), ErrUpstream)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, errors.Wrapf(ErrUpstream, "status %d", resp.StatusCode)
	}

	var body agmarknetResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, errors.Mark(errors.Wrap(err, "decode prices"), ErrUpstream)
	}

	prices := make([]model.Price, 0, len(body.Records))
	for _, r := range body.Records {
		prices = append(prices, recordToPrice(r, filter))
	}
	return prices, nil
}

// recordToPrice fills blanks from the filter. Unparseable prices become 0.
func recordToPrice(r agmarknetRecord, filter model.PriceFilter) model.Price {
	name := firstNonEmpty(r.Commodity, filter.Commodity, "Unknown")
	marketName := firstNonEmpty(r.Market, filter.Market, "Various")
	minPrice, minOK := parsePrice(r.MinPrice)
	maxPrice, maxOK := parsePrice(r.MaxPrice)
	modal, _ := parsePrice(r.ModalPrice)

	avg := 0.0
	if minOK && maxOK {
		avg = (minPrice + maxPrice) / 2
	}

	p := model.Price{
		ID:          fmt.Sprintf("%s-%s", r.Commodity, r.Market),
		Name:        name,
		Market:      marketName,
		State:       firstNonEmpty(r.State, filter.State),
		MinPrice:    minPrice,
		MaxPrice:    maxPrice,
		ModalPrice:  modal,
		AvgPrice:    avg,
		Unit:        unitPerKg,
		LastUpdated: r.ArrivalDate,
	}
	if filter.Commodity == "" {
		p.Trend = "stable"
	}
	if p.LastUpdated == "" {
		p.LastUpdated = time.Now().UTC().Format(time.RFC3339)
	}
	return p
}

func parsePrice(s string) (float64, bool) {
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, false
	}
	return f, true
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
