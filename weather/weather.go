// Package weather proxies current conditions from an OpenWeather-compatible
// API and adds a farming recommendation.
package weather

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"net/http"
	"net/url"
	"strings"
	"time"

	"harvesthub/cache"
	"harvesthub/utils"
)

type Query struct {
	City string
	Lat  string
	Lon  string
}

func (q Query) cacheKey() string {
	if q.Lat != "" && q.Lon != "" {
		return "weather:coords:" + q.Lat + "," + q.Lon
	}
	return "weather:city:" + strings.ToLower(q.City)
}

type Current struct {
	Temperature    string `json:"temperature"`
	Condition      string `json:"condition"`
	Humidity       string `json:"humidity"`
	WindSpeed      string `json:"windSpeed"`
	LastUpdated    string `json:"lastUpdated"`
	Recommendation string `json:"recommendation"`
	Icon           string `json:"icon"`
	City           string `json:"city"`
	Country        string `json:"country"`
}

type ForecastDay struct {
	Day         string `json:"day"`
	Temperature string `json:"temperature"`
	Condition   string `json:"condition"`
	Humidity    string `json:"humidity"`
	Icon        string `json:"icon"`
}

type owResponse struct {
	Name    string `json:"name"`
	Weather []struct {
		Main string `json:"main"`
	} `json:"weather"`
	Main struct {
		Temp     float64 `json:"temp"`
		Humidity int     `json:"humidity"`
	} `json:"main"`
	Wind struct {
		Speed float64 `json:"speed"`
	} `json:"wind"`
	Sys struct {
		Country string `json:"country"`
	} `json:"sys"`
}

type Client struct {
	baseURL string
	apiKey  string
	http    *http.Client
	cache   cache.Cache
	ttl     time.Duration
	now     func() time.Time
}

func NewClient(baseURL, apiKey string, c cache.Cache, ttl time.Duration) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		http:    &http.Client{Timeout: 10 * time.Second},
		cache:   c,
		ttl:     ttl,
		now:     time.Now,
	}
}

// Current returns conditions for coordinates when both are set, otherwise
// for the city (Delhi by default). Results are cached per query.
func (c *Client) Current(ctx context.Context, q Query) (Current, error) {
	if q.City == "" {
		q.City = "Delhi"
	}
	var cur Current
	if cache.GetJSON(ctx, c.cache, q.cacheKey(), &cur) {
		return cur, nil
	}

	params := url.Values{}
	if q.Lat != "" && q.Lon != "" {
		params.Set("lat", q.Lat)
		params.Set("lon", q.Lon)
	} else {
		params.Set("q", q.City)
	}
	params.Set("appid", c.apiKey)
	params.Set("units", "metric")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/weather?"+params.Encode(), nil)
	if err != nil {
		return Current{}, utils.Upstream("weather", "Failed to fetch weather data", err)
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return Current{}, utils.Upstream("weather", "Failed to fetch weather data", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return Current{}, utils.Upstream("weather", "Failed to fetch weather data",
			fmt.Errorf("status %d", resp.StatusCode))
	}
	var data owResponse
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		return Current{}, utils.Upstream("weather", "Failed to fetch weather data", err)
	}
	if len(data.Weather) == 0 {
		return Current{}, utils.Upstream("weather", "Failed to fetch weather data",
			fmt.Errorf("response has no conditions"))
	}

	condition := data.Weather[0].Main
	cur = Current{
		Temperature:    fmt.Sprintf("%d°C", int(math.Round(data.Main.Temp))),
		Condition:      condition,
		Humidity:       fmt.Sprintf("%d%%", data.Main.Humidity),
		WindSpeed:      fmt.Sprintf("%d km/h", int(math.Round(data.Wind.Speed*3.6))),
		LastUpdated:    c.now().Format("15:04:05"),
		Recommendation: Recommendation(condition, data.Main.Temp),
		Icon:           Icon(condition),
		City:           data.Name,
		Country:        data.Sys.Country,
	}
	_ = cache.SetJSON(ctx, c.cache, q.cacheKey(), cur, c.ttl)
	return cur, nil
}

func Recommendation(condition string, temp float64) string {
	switch {
	case condition == "Rain":
		return "Good for irrigation-free farming. Check drainage systems."
	case condition == "Clear" && temp > 20 && temp < 35:
		return "Optimal conditions for crop growth"
	case temp > 35:
		return "High temperature. Increase irrigation and provide shade for crops."
	case temp < 10:
		return "Cold weather. Protect crops from frost damage."
	default:
		return "Monitor crops regularly and adjust irrigation as needed."
	}
}

var icons = map[string]string{
	"Clear":        "☀️",
	"Clouds":       "☁️",
	"Rain":         "🌧️",
	"Drizzle":      "🌦️",
	"Thunderstorm": "⛈️",
	"Snow":         "❄️",
	"Mist":         "🌫️",
	"Fog":          "🌫️",
	"Haze":         "🌫️",
}

func Icon(condition string) string {
	if icon, ok := icons[condition]; ok {
		return icon
	}
	return "🌤️"
}

// Forecast is a fixed three day outlook until a forecast feed is wired.
func Forecast() []ForecastDay {
	return []ForecastDay{
		{Day: "Today", Temperature: "28°C", Condition: "Sunny", Humidity: "60%", Icon: "☀️"},
		{Day: "Tomorrow", Temperature: "30°C", Condition: "Partly Cloudy", Humidity: "65%", Icon: "⛅"},
		{Day: "Day After", Temperature: "26°C", Condition: "Light Rain", Humidity: "80%", Icon: "🌦️"},
	}
}
