package market

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"net/http"
	"net/url"
	"strings"
	"time"

	"harvesthub/config"
	"harvesthub/models"
	"harvesthub/utils"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Provider is one live source of commodity prices. An empty result with a
// nil error means the source had nothing to offer.
type Provider interface {
	Name() string
	Fetch(ctx context.Context) ([]models.MarketPrice, error)
}

const (
	defaultUnit   = "per quintal"
	globalUnit    = "₹/Quintal"
	maxScrapeSize = 2 << 20
)

// NewProviders returns the live providers that have credentials, highest
// priority first.
func NewProviders(cfg config.MarketConfig, client *http.Client) []Provider {
	var out []Provider
	if len(cfg.DataGovInAPIKey) > 10 {
		out = append(out, &DataGovIn{BaseURL: dataGovInURL, APIKey: cfg.DataGovInAPIKey, Client: client})
	}
	if cfg.AlphaVantageAPIKey != "" {
		out = append(out, &AlphaVantage{BaseURL: alphaVantageURL, APIKey: cfg.AlphaVantageAPIKey, Client: client})
	}
	if cfg.CommoditiesAPIKey != "" {
		out = append(out, &CommoditiesAPI{BaseURL: commoditiesAPIURL, APIKey: cfg.CommoditiesAPIKey, Client: client})
	}
	if cfg.ScrapeURL != "" {
		out = append(out, &Scraper{URL: cfg.ScrapeURL, Client: client})
	}
	return out
}

// titleCase is per call; a cases.Caser is not safe for concurrent use.
func titleCase(s string) string {
	return cases.Title(language.English).String(strings.TrimSpace(s))
}

func round(f float64) float64 { return math.Round(f) }

func getJSON(ctx context.Context, client *http.Client, rawURL string, dst interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return err
	}
	resp, err := client.Do(req)
	if err != nil {
		var ue *url.Error
		if errors.As(err, &ue) {
			ue.URL = endpoint(req.URL)
		}
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("GET %s: status %d", endpoint(req.URL), resp.StatusCode)
	}
	return json.NewDecoder(resp.Body).Decode(dst)
}

// endpoint drops the query, which carries API keys, from logged URLs.
func endpoint(u *url.URL) string {
	return u.Scheme + "://" + u.Host + u.Path
}

const dataGovInURL = "https://api.data.gov.in/resource"

// Resource ids of the mandi price datasets, tried in order.
var dataGovInResources = []string{
	"9ef84268-d588-465a-a308-a864a43d0070",
	"3b95863e-5d19-4e3f-9e8b-e7b0ab066fac",
	"cef8c7a6-6377-4f2c-9b6b-4e8b8f7a8e91",
}

type DataGovIn struct {
	BaseURL string
	APIKey  string
	Client  *http.Client
}

func (p *DataGovIn) Name() string { return "Indian Government API (data.gov.in)" }

type dataGovRecord struct {
	Commodity   string `json:"commodity"`
	Variety     string `json:"variety"`
	State       string `json:"state"`
	District    string `json:"district"`
	Market      string `json:"market"`
	MinPrice    string `json:"min_price"`
	MaxPrice    string `json:"max_price"`
	ModalPrice  string `json:"modal_price"`
	ArrivalDate string `json:"arrival_date"`
}

func (p *DataGovIn) Fetch(ctx context.Context) ([]models.MarketPrice, error) {
	var lastErr error
	for _, resource := range dataGovInResources {
		params := url.Values{}
		params.Set("api-key", p.APIKey)
		params.Set("format", "json")
		params.Set("limit", "50")

		var body struct {
			Records []dataGovRecord `json:"records"`
		}
		if err := getJSON(ctx, p.Client, p.BaseURL+"/"+resource+"?"+params.Encode(), &body); err != nil {
			lastErr = err
			continue
		}
		var out []models.MarketPrice
		for _, rec := range body.Records {
			modal := utils.ParseFloat(rec.ModalPrice)
			if rec.Commodity == "" || modal <= 0 {
				continue
			}
			out = append(out, models.MarketPrice{
				Commodity:   titleCase(rec.Commodity),
				Variety:     orDefault(rec.Variety, "Commercial"),
				Market:      orDefault(rec.Market, "Local Mandi"),
				District:    orDefault(rec.District, "Various"),
				State:       orDefault(rec.State, "India"),
				MinPrice:    utils.ParseFloat(rec.MinPrice),
				MaxPrice:    utils.ParseFloat(rec.MaxPrice),
				ModalPrice:  modal,
				Unit:        defaultUnit,
				ArrivalDate: rec.ArrivalDate,
				Trend:       "stable",
				Source:      p.Name(),
				Live:        true,
			})
		}
		if len(out) > 0 {
			return out, nil
		}
	}
	return nil, lastErr
}

func orDefault(s, def string) string {
	if s = strings.TrimSpace(s); s == "" {
		return def
	}
	return s
}

const alphaVantageURL = "https://www.alphavantage.co/query"

var alphaVantageCommodities = []string{"WHEAT", "CORN", "COTTON", "SUGAR"}

type AlphaVantage struct {
	BaseURL string
	APIKey  string
	Client  *http.Client
}

func (p *AlphaVantage) Name() string { return "Alpha Vantage" }

// Fetch reads the two latest monthly points per commodity. A commodity that
// fails is skipped.
func (p *AlphaVantage) Fetch(ctx context.Context) ([]models.MarketPrice, error) {
	var (
		out     []models.MarketPrice
		lastErr error
	)
	for _, sym := range alphaVantageCommodities {
		params := url.Values{}
		params.Set("function", sym)
		params.Set("interval", "monthly")
		params.Set("apikey", p.APIKey)

		var body struct {
			Data []struct {
				Date  string `json:"date"`
				Value string `json:"value"`
			} `json:"data"`
		}
		if err := getJSON(ctx, p.Client, p.BaseURL+"?"+params.Encode(), &body); err != nil {
			lastErr = err
			continue
		}
		if len(body.Data) == 0 {
			continue
		}
		latest := utils.ParseFloat(body.Data[0].Value)
		if latest <= 0 {
			continue
		}
		var change float64
		if len(body.Data) > 1 {
			if prev := utils.ParseFloat(body.Data[1].Value); prev > 0 {
				change = latest - prev
			}
		}
		out = append(out, globalQuote(sym, latest, change, body.Data[0].Date, p.Name()))
	}
	if len(out) == 0 {
		return nil, lastErr
	}
	return out, nil
}

func globalQuote(symbol string, price, change float64, date, source string) models.MarketPrice {
	return models.MarketPrice{
		Commodity:   titleCase(symbol),
		Variety:     "International",
		Market:      "Global Market",
		District:    "Global",
		State:       "International",
		MinPrice:    round(price * 0.95),
		MaxPrice:    round(price * 1.05),
		ModalPrice:  round(price),
		Unit:        globalUnit,
		ArrivalDate: date,
		Trend:       trendOf(change),
		Change:      round(change),
		Source:      source,
		Live:        true,
	}
}

func trendOf(change float64) string {
	switch {
	case change > 0:
		return "up"
	case change < 0:
		return "down"
	default:
		return "stable"
	}
}

const commoditiesAPIURL = "https://api.commodities-api.com/v1/latest"

type CommoditiesAPI struct {
	BaseURL string
	APIKey  string
	Client  *http.Client
}

func (p *CommoditiesAPI) Name() string { return "Commodities API" }

func (p *CommoditiesAPI) Fetch(ctx context.Context) ([]models.MarketPrice, error) {
	params := url.Values{}
	params.Set("access_key", p.APIKey)
	params.Set("symbols", "WHEAT,CORN,SOYBEAN,RICE,SUGAR")

	var body struct {
		Data struct {
			Success bool               `json:"success"`
			Date    string             `json:"date"`
			Rates   map[string]float64 `json:"rates"`
		} `json:"data"`
	}
	if err := getJSON(ctx, p.Client, p.BaseURL+"?"+params.Encode(), &body); err != nil {
		return nil, err
	}
	if !body.Data.Success || len(body.Data.Rates) == 0 {
		return nil, fmt.Errorf("commodities api: unsuccessful response")
	}
	date := body.Data.Date
	if date == "" {
		date = time.Now().UTC().Format("2006-01-02")
	}
	out := make([]models.MarketPrice, 0, len(body.Data.Rates))
	for sym, price := range body.Data.Rates {
		if price <= 0 {
			continue
		}
		out = append(out, globalQuote(sym, price, 0, date, p.Name()))
	}
	sortByCommodity(out)
	return out, nil
}

// Scraper reads a mandi price table from an HTML page. Each row's cells are
// commodity, variety, market, district, state, min, max and modal price.
type Scraper struct {
	URL    string
	Client *http.Client
}

func (p *Scraper) Name() string { return "Mandi price board" }

func (p *Scraper) Fetch(ctx context.Context) ([]models.MarketPrice, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.URL, nil)
	if err != nil {
		return nil, err
	}
	resp, err := p.Client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("scrape %s: status %d", p.URL, resp.StatusCode)
	}
	doc, err := goquery.NewDocumentFromReader(io.LimitReader(resp.Body, maxScrapeSize))
	if err != nil {
		return nil, err
	}

	var out []models.MarketPrice
	doc.Find("table tr").Each(func(_ int, row *goquery.Selection) {
		var cells []string
		row.Find("td").Each(func(_ int, td *goquery.Selection) {
			cells = append(cells, strings.TrimSpace(td.Text()))
		})
		if len(cells) < 8 {
			return
		}
		modal := parsePrice(cells[7])
		if cells[0] == "" || modal <= 0 {
			return
		}
		out = append(out, models.MarketPrice{
			Commodity:  titleCase(cells[0]),
			Variety:    orDefault(cells[1], "Commercial"),
			Market:     orDefault(cells[2], "Local Mandi"),
			District:   orDefault(cells[3], "Various"),
			State:      orDefault(cells[4], "India"),
			MinPrice:   parsePrice(cells[5]),
			MaxPrice:   parsePrice(cells[6]),
			ModalPrice: modal,
			Unit:       defaultUnit,
			Trend:      "stable",
			Source:     p.Name(),
			Live:       true,
		})
	})
	return out, nil
}

// parsePrice drops currency symbols and thousands separators.
func parsePrice(s string) float64 {
	return utils.ParseFloat(strings.Map(func(r rune) rune {
		if (r >= '0' && r <= '9') || r == '.' {
			return r
		}
		return -1
	}, s))
}
