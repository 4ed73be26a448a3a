package market

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"harvesthub/cache"
	"harvesthub/config"
	"harvesthub/models"

	"github.com/julienschmidt/httprouter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/zap"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m, goleak.IgnoreTopFunction("net/http.(*persistConn).writeLoop"),
		goleak.IgnoreTopFunction("internal/poll.runtime_pollWait"))
}

type stubProvider struct {
	name   string
	prices []models.MarketPrice
	err    error
	delay  time.Duration
	calls  int32
}

func (p *stubProvider) Name() string { return p.name }

func (p *stubProvider) Fetch(ctx context.Context) ([]models.MarketPrice, error) {
	atomic.AddInt32(&p.calls, 1)
	if p.delay > 0 {
		select {
		case <-time.After(p.delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	return p.prices, p.err
}

func quote(commodity, state string, modal float64, source string) models.MarketPrice {
	return models.MarketPrice{Commodity: commodity, State: state, ModalPrice: modal, Source: source, Live: true}
}

var fixedNow = time.Date(2026, 10, 17, 9, 0, 0, 0, time.UTC)

func newService(providers []Provider) *Service {
	mock := NewMock(1)
	mock.now = func() time.Time { return fixedNow }
	svc := NewService(providers, mock, cache.NewMemory(), 5*time.Minute, zap.NewNop())
	svc.now = func() time.Time { return fixedNow }
	return svc
}

func TestMockPrices(t *testing.T) {
	m := NewMock(42)
	m.now = func() time.Time { return fixedNow }
	prices, err := m.Fetch(context.Background())
	require.NoError(t, err)
	require.Len(t, prices, len(baseQuotes))

	for i, p := range prices {
		base := baseQuotes[i].basePrice
		assert.Equal(t, baseQuotes[i].commodity, p.Commodity)
		assert.InDelta(t, base, p.ModalPrice, base*0.06, p.Commodity)
		assert.Equal(t, p.ModalPrice-base, p.Change)
		assert.Equal(t, "2026-10-17", p.ArrivalDate)
		assert.False(t, p.Live)
	}

	again := NewMock(42)
	again.now = m.now
	same, _ := again.Fetch(context.Background())
	assert.Equal(t, prices, same, "same seed, same board")
}

func TestSnapshotPriorityOrder(t *testing.T) {
	slow := &stubProvider{name: "first", prices: []models.MarketPrice{quote("Wheat", "Punjab", 2400, "first")}, delay: 20 * time.Millisecond}
	fast := &stubProvider{name: "second", prices: []models.MarketPrice{quote("Rice", "Punjab", 4100, "second")}}
	broken := &stubProvider{name: "broken", err: errors.New("503")}

	svc := newService([]Provider{broken, slow, fast})
	snap, err := svc.Snapshot(context.Background())
	require.NoError(t, err)
	assert.True(t, snap.Live)
	require.Len(t, snap.Prices, 1)
	assert.Equal(t, "first", snap.Prices[0].Source)
	assert.Equal(t, fixedNow, snap.FetchedAt)
}

func TestSnapshotFallsBackAndCaches(t *testing.T) {
	empty := &stubProvider{name: "empty"}
	svc := newService([]Provider{empty})

	snap, err := svc.Snapshot(context.Background())
	require.NoError(t, err)
	assert.False(t, snap.Live)
	assert.Len(t, snap.Prices, len(baseQuotes))
	assert.Equal(t, mockSource, snap.Prices[0].Source)

	again, err := svc.Snapshot(context.Background())
	require.NoError(t, err)
	assert.Equal(t, snap.Prices, again.Prices)
	assert.Equal(t, int32(1), atomic.LoadInt32(&empty.calls), "second call served from cache")
}

func TestFilterPrices(t *testing.T) {
	prices := []models.MarketPrice{
		quote("Wheat", "Madhya Pradesh", 2400, "x"),
		quote("Rice", "Punjab", 4100, "x"),
		quote("Wheat", "Punjab", 2500, "x"),
	}
	assert.Len(t, FilterPrices(prices, "", "", 0), 3)
	assert.Len(t, FilterPrices(prices, "punj", "", 0), 2)
	assert.Len(t, FilterPrices(prices, "", "WHEAT", 0), 2)
	assert.Len(t, FilterPrices(prices, "pradesh", "wheat", 0), 1)
	assert.Len(t, FilterPrices(prices, "", "", 1), 1)
	assert.Empty(t, FilterPrices(prices, "kerala", "", 0))
}

func TestTrendsAndAnalysis(t *testing.T) {
	prices := []models.MarketPrice{
		quote("Wheat", "MP", 2400, "x"),
		quote("Rice", "Punjab", 4100, "x"),
		quote("Wheat", "Punjab", 2800, "x"),
		quote("Wheat", "Haryana", 2900, "x"),
	}
	trends := Trends(prices)
	require.Len(t, trends, 2)
	assert.Equal(t, "Wheat", trends[0].Commodity)
	assert.Equal(t, 2400.0, trends[0].Price)
	assert.Equal(t, 3, trends[0].MarketCount)
	assert.Equal(t, 1, trends[1].MarketCount)

	a, ok := Analyze(prices, "wheat")
	require.True(t, ok)
	assert.Equal(t, 2700.0, a.AveragePrice)
	assert.Equal(t, 2400.0, a.MinPrice)
	assert.Equal(t, 2900.0, a.MaxPrice)
	assert.Equal(t, 3, a.Markets)
	assert.Equal(t, "Good time to sell (High price)", a.Recommendation)

	a, ok = Analyze([]models.MarketPrice{quote("Onion", "MH", 1800, "x")}, "Onion")
	require.True(t, ok)
	assert.Equal(t, "Hold for better prices", a.Recommendation)

	_, ok = Analyze(prices, "saffron")
	assert.False(t, ok)
}

func newRouter(svc *Service) *httprouter.Router {
	h := NewHandler(svc, zap.NewNop())
	router := httprouter.New()
	router.GET("/api/market/prices", h.GetAllMarketPrices)
	router.GET("/api/market/trends", h.GetMarketTrends)
	router.GET("/api/market/analysis/:commodity", h.GetPriceAnalysis)
	return router
}

func serve(router http.Handler, path string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	return rec
}

func TestPricesRouteMock(t *testing.T) {
	router := newRouter(newService(nil))

	rec := serve(router, "/api/market/prices?limit=3")
	require.Equal(t, http.StatusOK, rec.Code)
	var body struct {
		Success     bool                 `json:"success"`
		Count       int                  `json:"count"`
		Data        []models.MarketPrice `json:"data"`
		LastUpdated string               `json:"lastUpdated"`
		NextUpdate  string               `json:"nextUpdate"`
		APIStatus   string               `json:"apiStatus"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.True(t, body.Success)
	assert.Equal(t, 3, body.Count)
	assert.Equal(t, "NEEDS_CONFIG", body.APIStatus)
	assert.Equal(t, "2026-10-17T09:00:00Z", body.LastUpdated)
	assert.Equal(t, "2026-10-17T09:05:00Z", body.NextUpdate)

	rec = serve(router, "/api/market/prices?state=gujarat&limit=abc")
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, 2, body.Count)
}

func TestPricesRouteLive(t *testing.T) {
	live := &stubProvider{name: "live", prices: []models.MarketPrice{quote("Wheat", "Punjab", 2400, "Alpha Vantage")}}
	rec := serve(newRouter(newService([]Provider{live})), "/api/market/prices")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"apiStatus":"LIVE"`)
	assert.Contains(t, rec.Body.String(), "LIVE DATA from Alpha Vantage (updated 0 min ago)")
}

func TestAnalysisRoute(t *testing.T) {
	router := newRouter(newService(nil))

	rec := serve(router, "/api/market/analysis/cotton")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"commodity":"Cotton"`)
	assert.Contains(t, rec.Body.String(), "Good time to sell")

	rec = serve(router, "/api/market/analysis/saffron")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.JSONEq(t, `{"success":false,"message":"saffron not found in market data"}`, rec.Body.String())

	rec = serve(router, "/api/market/trends")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"commodity":"Groundnut"`)
}

func TestAlphaVantageProvider(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "k", r.URL.Query().Get("apikey"))
		switch r.URL.Query().Get("function") {
		case "WHEAT":
			w.Write([]byte(`{"data":[{"date":"2026-09-01","value":"210.5"},{"date":"2026-08-01","value":"200"}]}`))
		case "CORN":
			w.Write([]byte(`{"data":[{"date":"2026-09-01","value":"."}]}`))
		default:
			http.Error(w, "limit", http.StatusTooManyRequests)
		}
	}))
	defer srv.Close()

	p := &AlphaVantage{BaseURL: srv.URL, APIKey: "k", Client: srv.Client()}
	prices, err := p.Fetch(context.Background())
	require.NoError(t, err)
	require.Len(t, prices, 1)
	assert.Equal(t, "Wheat", prices[0].Commodity)
	assert.Equal(t, 211.0, prices[0].ModalPrice)
	assert.Equal(t, 200.0, prices[0].MinPrice)
	assert.Equal(t, 221.0, prices[0].MaxPrice)
	assert.Equal(t, "up", prices[0].Trend)
	assert.True(t, prices[0].Live)
}

func TestCommoditiesProvider(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "WHEAT,CORN,SOYBEAN,RICE,SUGAR", r.URL.Query().Get("symbols"))
		w.Write([]byte(`{"data":{"success":true,"date":"2026-10-16","rates":{"WHEAT":2300,"RICE":4000}}}`))
	}))
	defer srv.Close()

	p := &CommoditiesAPI{BaseURL: srv.URL, APIKey: "k", Client: srv.Client()}
	prices, err := p.Fetch(context.Background())
	require.NoError(t, err)
	require.Len(t, prices, 2)
	assert.Equal(t, "Rice", prices[0].Commodity)
	assert.Equal(t, "Wheat", prices[1].Commodity)
	assert.Equal(t, "2026-10-16", prices[1].ArrivalDate)
}

func TestDataGovInProvider(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) == 1 {
			w.Write([]byte(`{"records":[]}`))
			return
		}
		w.Write([]byte(`{"records":[
			{"commodity":"BAJRA","state":"Rajasthan","market":"Alwar","min_price":"2000","max_price":"2300","modal_price":"2150","arrival_date":"16/10/2026"},
			{"commodity":"Onion","modal_price":""}
		]}`))
	}))
	defer srv.Close()

	p := &DataGovIn{BaseURL: srv.URL, APIKey: "0123456789abc", Client: srv.Client()}
	prices, err := p.Fetch(context.Background())
	require.NoError(t, err)
	require.Len(t, prices, 1)
	assert.Equal(t, "Bajra", prices[0].Commodity)
	assert.Equal(t, "Commercial", prices[0].Variety)
	assert.Equal(t, 2150.0, prices[0].ModalPrice)
	assert.Equal(t, int32(2), atomic.LoadInt32(&calls))
}

func TestScraperProvider(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		w.Write([]byte(`<html><body><table>
			<tr><th>Commodity</th><th>Variety</th></tr>
			<tr><td>tomato</td><td>Hybrid</td><td>Kolar</td><td>Kolar</td><td>Karnataka</td><td>₹1,200</td><td>₹1,600</td><td>₹1,450</td></tr>
			<tr><td>bad row</td></tr>
		</table></body></html>`))
	}))
	defer srv.Close()

	p := &Scraper{URL: srv.URL, Client: srv.Client()}
	prices, err := p.Fetch(context.Background())
	require.NoError(t, err)
	require.Len(t, prices, 1)
	assert.Equal(t, "Tomato", prices[0].Commodity)
	assert.Equal(t, 1450.0, prices[0].ModalPrice)
	assert.Equal(t, 1200.0, prices[0].MinPrice)
}

func TestNewProviders(t *testing.T) {
	assert.Empty(t, NewProviders(config.MarketConfig{DataGovInAPIKey: "short"}, http.DefaultClient))

	ps := NewProviders(config.MarketConfig{
		DataGovInAPIKey:   "0123456789abc",
		CommoditiesAPIKey: "c",
		ScrapeURL:         "http://example.invalid",
	}, http.DefaultClient)
	require.Len(t, ps, 3)
	assert.IsType(t, &DataGovIn{}, ps[0])
	assert.IsType(t, &CommoditiesAPI{}, ps[1])
	assert.IsType(t, &Scraper{}, ps[2])
}
