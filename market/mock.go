package market

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"harvesthub/models"
)

type baseQuote struct {
	commodity string
	variety   string
	state     string
	district  string
	market    string
	basePrice float64
	trend     string
}

var baseQuotes = []baseQuote{
	{"Wheat", "Sharbati", "Madhya Pradesh", "Indore", "Indore Mandi", 2450, "up"},
	{"Rice", "Basmati", "Punjab", "Amritsar", "Amritsar Mandi", 4200, "up"},
	{"Cotton", "Kapas", "Gujarat", "Ahmedabad", "Ahmedabad Cotton Market", 6800, "down"},
	{"Sugarcane", "Commercial", "Uttar Pradesh", "Muzaffarnagar", "Muzaffarnagar Mandi", 350, "stable"},
	{"Onion", "Red", "Maharashtra", "Nashik", "Nashik Mandi", 1800, "up"},
	{"Tomato", "Hybrid", "Karnataka", "Bangalore", "KR Market", 2200, "down"},
	{"Soybean", "Commercial", "Madhya Pradesh", "Bhopal", "Bhopal Mandi", 4500, "up"},
	{"Maize", "Yellow", "Rajasthan", "Jaipur", "Jaipur Mandi", 1950, "stable"},
	{"Mustard", "Commercial", "Haryana", "Sirsa", "Sirsa Mandi", 5200, "up"},
	{"Groundnut", "Bold", "Gujarat", "Rajkot", "Rajkot Mandi", 6500, "stable"},
}

const mockSource = "Mock Data (Add DATA_GOV_IN_API_KEY for real data)"

// Mock moves each base price by up to 5% noise plus up to 3% in the
// direction of its trend.
type Mock struct {
	mu  sync.Mutex
	rnd *rand.Rand
	now func() time.Time
}

func NewMock(seed int64) *Mock {
	return &Mock{rnd: rand.New(rand.NewSource(seed)), now: time.Now}
}

func (m *Mock) Name() string { return mockSource }

func (m *Mock) Fetch(context.Context) ([]models.MarketPrice, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	date := m.now().UTC().Format("2006-01-02")
	out := make([]models.MarketPrice, 0, len(baseQuotes))
	for _, q := range baseQuotes {
		price := m.price(q.basePrice, q.trend)
		out = append(out, models.MarketPrice{
			Commodity:   q.commodity,
			Variety:     q.variety,
			Market:      q.market,
			District:    q.district,
			State:       q.state,
			MinPrice:    round(price * 0.95),
			MaxPrice:    round(price * 1.05),
			ModalPrice:  price,
			Unit:        defaultUnit,
			ArrivalDate: date,
			Trend:       q.trend,
			Change:      price - q.basePrice,
			Source:      mockSource,
		})
	}
	return out, nil
}

func (m *Mock) price(base float64, trend string) float64 {
	noise := (m.rnd.Float64() - 0.5) * base * 0.05
	mult := 1.0
	switch trend {
	case "up":
		mult = 1 + m.rnd.Float64()*0.03
	case "down":
		mult = 1 - m.rnd.Float64()*0.03
	default:
		mult = 1 + (m.rnd.Float64()-0.5)*0.01
	}
	return round(base*mult + noise)
}
