package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds every setting the server reads at startup.
type Config struct {
	Port     string `yaml:"port"`
	Env      string `yaml:"env"`
	LogLevel string `yaml:"log_level"`

	Mongo   MongoConfig   `yaml:"mongo"`
	Auth    AuthConfig    `yaml:"auth"`
	Redis   RedisConfig   `yaml:"redis"`
	CORS    CORSConfig    `yaml:"cors"`
	AI      AIConfig      `yaml:"ai"`
	Weather WeatherConfig `yaml:"weather"`
	Plant   PlantConfig   `yaml:"plant"`
	Market  MarketConfig  `yaml:"market"`

	RequestTimeout time.Duration `yaml:"request_timeout"`
	// TrustProxy makes rate limiting key on X-Forwarded-For.
	TrustProxy bool `yaml:"trust_proxy"`
}

type MongoConfig struct {
	URI      string `yaml:"uri"`
	Database string `yaml:"database"`
}

type AuthConfig struct {
	JWTSecret string        `yaml:"jwt_secret"`
	TokenTTL  time.Duration `yaml:"token_ttl"`
}

// RedisConfig is optional; an empty Addr selects the in-process cache.
type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

type CORSConfig struct {
	AllowedOrigins []string `yaml:"allowed_origins"`
}

type AIConfig struct {
	GeminiAPIKey string `yaml:"gemini_api_key"`
	GeminiModel  string `yaml:"gemini_model"`
}

type WeatherConfig struct {
	APIURL   string        `yaml:"api_url"`
	APIKey   string        `yaml:"api_key"`
	CacheTTL time.Duration `yaml:"cache_ttl"`
}

type PlantConfig struct {
	ModelURL string `yaml:"model_url"`
	Token    string `yaml:"token"`
}

type MarketConfig struct {
	DataGovInAPIKey    string        `yaml:"data_gov_in_api_key"`
	AlphaVantageAPIKey string        `yaml:"alpha_vantage_api_key"`
	CommoditiesAPIKey  string        `yaml:"commodities_api_key"`
	ScrapeURL          string        `yaml:"scrape_url"`
	CacheTTL           time.Duration `yaml:"cache_ttl"`
}

// Default returns the configuration used when neither a file nor the
// environment sets a value.
func Default() *Config {
	return &Config{
		Port:     "8080",
		Env:      "production",
		LogLevel: "info",
		Mongo: MongoConfig{
			Database: "harvesthub",
		},
		Auth: AuthConfig{
			TokenTTL: 7 * 24 * time.Hour,
		},
		CORS: CORSConfig{
			AllowedOrigins: []string{"*"},
		},
		AI: AIConfig{
			GeminiModel: "gemini-2.5-flash",
		},
		Weather: WeatherConfig{
			APIURL:   "https://api.openweathermap.org/data/2.5",
			CacheTTL: 10 * time.Minute,
		},
		Market: MarketConfig{
			CacheTTL: 5 * time.Minute,
		},
		RequestTimeout: 10 * time.Second,
	}
}

// Load reads .env (if present), then the optional YAML file at path, then
// applies environment overrides. An empty path falls back to HARVESTHUB_CONFIG.
func Load(path string) (*Config, error) {
	// .env is optional in deployed environments
	_ = godotenv.Load()

	cfg := Default()

	if path == "" {
		path = os.Getenv("HARVESTHUB_CONFIG")
	}
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	if err := cfg.applyEnvOverrides(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnvOverrides() error {
	setString := func(dst *string, keys ...string) {
		for _, k := range keys {
			if v := os.Getenv(k); v != "" {
				*dst = v
				return
			}
		}
	}
	setDuration := func(dst *time.Duration, key string) error {
		v := os.Getenv(key)
		if v == "" {
			return nil
		}
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("%s: %w", key, err)
		}
		*dst = d
		return nil
	}

	setString(&c.Port, "PORT")
	setString(&c.Env, "APP_ENV", "NODE_ENV")
	setString(&c.LogLevel, "LOG_LEVEL")

	setString(&c.Mongo.URI, "MONGODB_URI", "MONGO_URI")
	setString(&c.Mongo.Database, "MONGODB_DATABASE")

	setString(&c.Auth.JWTSecret, "JWT_SECRET")

	setString(&c.Redis.Addr, "REDIS_ADDR")
	setString(&c.Redis.Password, "REDIS_PASSWORD")
	if v := os.Getenv("REDIS_DB"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("REDIS_DB: %w", err)
		}
		c.Redis.DB = n
	}

	if v := os.Getenv("TRUST_PROXY"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("TRUST_PROXY: %w", err)
		}
		c.TrustProxy = b
	}

	if v := os.Getenv("CORS_ALLOWED_ORIGINS"); v != "" {
		var origins []string
		for _, o := range strings.Split(v, ",") {
			if o = strings.TrimSpace(o); o != "" {
				origins = append(origins, o)
			}
		}
		c.CORS.AllowedOrigins = origins
	}

	setString(&c.AI.GeminiAPIKey, "GEMINI_API_KEY")
	setString(&c.AI.GeminiModel, "GEMINI_MODEL")

	setString(&c.Weather.APIURL, "WEATHER_API_URL")
	setString(&c.Weather.APIKey, "WEATHER_API_KEY")

	setString(&c.Plant.ModelURL, "HF_MODEL_URL")
	setString(&c.Plant.Token, "HF_TOKEN")

	setString(&c.Market.DataGovInAPIKey, "DATA_GOV_IN_API_KEY")
	setString(&c.Market.AlphaVantageAPIKey, "ALPHA_VANTAGE_API_KEY")
	setString(&c.Market.CommoditiesAPIKey, "COMMODITIES_API_KEY")
	setString(&c.Market.ScrapeURL, "MARKET_SCRAPE_URL")

	for key, dst := range map[string]*time.Duration{
		"JWT_TTL":           &c.Auth.TokenTTL,
		"WEATHER_CACHE_TTL": &c.Weather.CacheTTL,
		"MARKET_CACHE_TTL":  &c.Market.CacheTTL,
		"REQUEST_TIMEOUT":   &c.RequestTimeout,
	} {
		if err := setDuration(dst, key); err != nil {
			return err
		}
	}
	return nil
}

// Validate reports settings the server cannot start without.
func (c *Config) Validate() error {
	var errs []error
	if c.Mongo.URI == "" {
		errs = append(errs, errors.New("MONGODB_URI is not set"))
	}
	if c.Auth.JWTSecret == "" {
		errs = append(errs, errors.New("JWT_SECRET is not set"))
	}
	if c.Auth.TokenTTL <= 0 {
		errs = append(errs, errors.New("token ttl must be positive"))
	}
	return errors.Join(errs...)
}

func (c *Config) IsDevelopment() bool {
	return c.Env == "development" || c.Env == "dev"
}
