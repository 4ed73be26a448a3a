package models

// MarketPrice is one commodity quote at one market. Prices are rupees per
// Unit.
type MarketPrice struct {
	Commodity   string  `json:"commodity"`
	Variety     string  `json:"variety"`
	Market      string  `json:"market"`
	District    string  `json:"district"`
	State       string  `json:"state"`
	MinPrice    float64 `json:"minPrice"`
	MaxPrice    float64 `json:"maxPrice"`
	ModalPrice  float64 `json:"modalPrice"`
	Unit        string  `json:"unit"`
	ArrivalDate string  `json:"arrivalDate"`
	Trend       string  `json:"trend"`
	Change      float64 `json:"change"`
	Source      string  `json:"source"`
	Live        bool    `json:"apiData"`
}

type MarketTrend struct {
	Commodity   string  `json:"commodity"`
	Price       float64 `json:"currentPrice"`
	Change      float64 `json:"change"`
	Trend       string  `json:"trend"`
	Unit        string  `json:"unit"`
	MarketCount int     `json:"marketCount"`
	Source      string  `json:"source"`
	Live        bool    `json:"isLive"`
}
