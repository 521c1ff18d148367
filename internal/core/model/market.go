package model

// Price is one commodity quote for a market.
type Price struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Market      string  `json:"market"`
	State       string  `json:"state"`
	MinPrice    float64 `json:"minPrice"`
	MaxPrice    float64 `json:"maxPrice"`
	ModalPrice  float64 `json:"modalPrice"`
	AvgPrice    float64 `json:"avgPrice"`
	Unit        string  `json:"unit"`
	LastUpdated string  `json:"lastUpdated"`
	Trend       string  `json:"trend,omitempty"`
}

type PriceFilter struct {
	State     string `json:"state"`
	Market    string `json:"market,omitempty"`
	Commodity string `json:"commodity,omitempty"`
}

// PriceReport is what the market-prices endpoint returns alongside the
// success flag.
type PriceReport struct {
	Data        []Price      `json:"data"`
	Source      string       `json:"source"`
	Timestamp   string       `json:"timestamp"`
	CacheAge    string       `json:"cacheAge,omitempty"`
	RecordCount *int         `json:"recordCount,omitempty"`
	Filters     *PriceFilter `json:"filters,omitempty"`
	Error       string       `json:"error,omitempty"`
}
