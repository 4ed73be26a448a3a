// Package market serves mandi and international commodity prices. Live
// providers are tried first; the mock board fills in when none answer.
package market

import (
	"context"
	"math"
	"sort"
	"strings"
	"time"

	"harvesthub/cache"
	"harvesthub/models"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const pricesKey = "market:prices"

// Snapshot is one fetch of the price board.
type Snapshot struct {
	Prices    []models.MarketPrice `json:"prices"`
	FetchedAt time.Time            `json:"fetchedAt"`
	Live      bool                 `json:"live"`
}

type Service struct {
	providers []Provider
	fallback  Provider
	cache     cache.Cache
	ttl       time.Duration
	log       *zap.Logger
	now       func() time.Time
}

func NewService(providers []Provider, fallback Provider, c cache.Cache, ttl time.Duration, log *zap.Logger) *Service {
	return &Service{
		providers: providers,
		fallback:  fallback,
		cache:     c,
		ttl:       ttl,
		log:       log,
		now:       time.Now,
	}
}

func (s *Service) TTL() time.Duration { return s.ttl }

// Snapshot returns the cached board or fetches a new one. Live providers run
// concurrently and the first non-empty answer in priority order wins.
func (s *Service) Snapshot(ctx context.Context) (Snapshot, error) {
	var snap Snapshot
	if cache.GetJSON(ctx, s.cache, pricesKey, &snap) {
		return snap, nil
	}

	results := make([][]models.MarketPrice, len(s.providers))
	g, gctx := errgroup.WithContext(ctx)
	for i, p := range s.providers {
		g.Go(func() error {
			prices, err := p.Fetch(gctx)
			if err != nil {
				s.log.Warn("market provider failed", zap.String("provider", p.Name()), zap.Error(err))
				return nil
			}
			results[i] = prices
			return nil
		})
	}
	_ = g.Wait()

	snap = Snapshot{FetchedAt: s.now().UTC()}
	for i, prices := range results {
		if len(prices) > 0 {
			s.log.Debug("market prices fetched", zap.String("provider", s.providers[i].Name()), zap.Int("count", len(prices)))
			snap.Prices = prices
			snap.Live = true
			break
		}
	}
	if !snap.Live {
		prices, err := s.fallback.Fetch(ctx)
		if err != nil {
			return Snapshot{}, err
		}
		snap.Prices = prices
	}

	if err := cache.SetJSON(ctx, s.cache, pricesKey, snap, s.ttl); err != nil {
		s.log.Warn("cache market prices", zap.Error(err))
	}
	return snap, nil
}

// FilterPrices keeps entries whose state and commodity contain the given
// text, ignoring case, and returns at most limit of them.
func FilterPrices(prices []models.MarketPrice, state, commodity string, limit int) []models.MarketPrice {
	state, commodity = strings.ToLower(state), strings.ToLower(commodity)
	out := []models.MarketPrice{}
	for _, p := range prices {
		if state != "" && !strings.Contains(strings.ToLower(p.State), state) {
			continue
		}
		if commodity != "" && !strings.Contains(strings.ToLower(p.Commodity), commodity) {
			continue
		}
		out = append(out, p)
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out
}

// Trends returns one entry per commodity in first-seen order, quoting the
// first market listed.
func Trends(prices []models.MarketPrice) []models.MarketTrend {
	index := map[string]int{}
	out := []models.MarketTrend{}
	for _, p := range prices {
		if i, ok := index[p.Commodity]; ok {
			out[i].MarketCount++
			continue
		}
		index[p.Commodity] = len(out)
		out = append(out, models.MarketTrend{
			Commodity:   p.Commodity,
			Price:       p.ModalPrice,
			Change:      p.Change,
			Trend:       p.Trend,
			Unit:        p.Unit,
			MarketCount: 1,
			Source:      p.Source,
			Live:        p.Live,
		})
	}
	return out
}

const sellThreshold = 2500

type Analysis struct {
	Commodity      string               `json:"commodity"`
	AveragePrice   float64              `json:"averagePrice"`
	MinPrice       float64              `json:"minPrice"`
	MaxPrice       float64              `json:"maxPrice"`
	Markets        int                  `json:"markets"`
	Recommendation string               `json:"recommendation"`
	Data           []models.MarketPrice `json:"data"`
	IsLiveData     bool                 `json:"isLiveData"`
	Source         string               `json:"source"`
}

// Analyze summarises modal prices for one commodity, matched without regard
// to case. ok is false when no market quotes it.
func Analyze(prices []models.MarketPrice, commodity string) (Analysis, bool) {
	var rows []models.MarketPrice
	for _, p := range prices {
		if strings.EqualFold(p.Commodity, commodity) {
			rows = append(rows, p)
		}
	}
	if len(rows) == 0 {
		return Analysis{}, false
	}

	sum, lo, hi := 0.0, math.Inf(1), math.Inf(-1)
	for _, p := range rows {
		sum += p.ModalPrice
		lo = math.Min(lo, p.ModalPrice)
		hi = math.Max(hi, p.ModalPrice)
	}
	avg := sum / float64(len(rows))
	rec := "Hold for better prices"
	if avg > sellThreshold {
		rec = "Good time to sell (High price)"
	}
	return Analysis{
		Commodity:      rows[0].Commodity,
		AveragePrice:   round(avg),
		MinPrice:       lo,
		MaxPrice:       hi,
		Markets:        len(rows),
		Recommendation: rec,
		Data:           rows,
		IsLiveData:     rows[0].Live,
		Source:         rows[0].Source,
	}, true
}

func sortByCommodity(prices []models.MarketPrice) {
	sort.Slice(prices, func(i, j int) bool { return prices[i].Commodity < prices[j].Commodity })
}
