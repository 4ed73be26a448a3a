package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"harvesthub/auth"
	"harvesthub/cache"
	"harvesthub/config"
	"harvesthub/crops"
	"harvesthub/db"
	"harvesthub/doctorai"
	"harvesthub/logging"
	"harvesthub/market"
	"harvesthub/middleware"
	"harvesthub/mq"
	"harvesthub/plant"
	"harvesthub/ratelim"
	"harvesthub/routes"
	"harvesthub/schemes"
	"harvesthub/weather"

	"github.com/julienschmidt/httprouter"
	"github.com/rs/cors"
	"go.uber.org/zap"
)

func Index(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	fmt.Fprint(w, "200")
}

type app struct {
	cfg   *config.Config
	log   *zap.Logger
	db    *db.DB
	cache cache.Cache
}

func bootstrap(ctx context.Context, opts *rootOptions) (*app, error) {
	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	log, err := logging.New(cfg.LogLevel, cfg.IsDevelopment())
	if err != nil {
		return nil, err
	}

	connectCtx, cancel := context.WithTimeout(ctx, 15*time.Second)
	defer cancel()
	database, err := db.Connect(connectCtx, cfg.Mongo)
	if err != nil {
		return nil, err
	}
	log.Info("connected to MongoDB", zap.String("database", cfg.Mongo.Database))
	return &app{cfg: cfg, log: log, db: database}, nil
}

func (a *app) close() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if r, ok := a.cache.(*cache.Redis); ok {
		_ = r.Close()
	}
	if err := a.db.Close(ctx); err != nil {
		a.log.Warn("disconnect mongo", zap.Error(err))
	}
	_ = a.log.Sync()
}

// openCache prefers Redis and falls back to the in-process cache when Redis
// is not configured or does not answer.
func (a *app) openCache(ctx context.Context) cache.Cache {
	if a.cfg.Redis.Addr == "" {
		return cache.NewMemoryWithCleanup(10 * time.Minute)
	}
	r := cache.NewRedis(a.cfg.Redis.Addr, a.cfg.Redis.Password, a.cfg.Redis.DB)
	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := r.Ping(pingCtx); err != nil {
		a.log.Warn("redis unavailable, using in-process cache", zap.Error(err))
		_ = r.Close()
		return cache.NewMemoryWithCleanup(10 * time.Minute)
	}
	return r
}

func (a *app) handlers(ctx context.Context) (*routes.Handlers, error) {
	cfg, log := a.cfg, a.log

	tokens := auth.NewTokens(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)
	gate := middleware.NewGate(tokens, log)

	users := auth.NewMongoUsers(a.db.UserCollection)
	cropStore := crops.NewMongoStore(a.db.CropsCollection)
	schemeStore := schemes.NewMongoStore(a.db.SchemesCollection)
	for name, ensure := range map[string]func(context.Context) error{
		"users":   users.EnsureIndexes,
		"crops":   cropStore.EnsureIndexes,
		"schemes": schemeStore.EnsureIndexes,
	} {
		if err := ensure(ctx); err != nil {
			return nil, fmt.Errorf("%s indexes: %w", name, err)
		}
	}

	var gen doctorai.Generator
	if cfg.AI.GeminiAPIKey != "" {
		g, err := doctorai.NewGemini(ctx, cfg.AI.GeminiAPIKey, cfg.AI.GeminiModel)
		if err != nil {
			return nil, err
		}
		gen = g
	} else {
		log.Warn("GEMINI_API_KEY not set, doctor AI will answer with a configuration error")
	}
	advisor := doctorai.NewAdvisor(gen)

	limiter := ratelim.NewRateLimiter(1, 10)
	limiter.TrustProxy = cfg.TrustProxy

	httpClient := &http.Client{Timeout: 15 * time.Second}
	marketSvc := market.NewService(
		market.NewProviders(cfg.Market, httpClient),
		market.NewMock(time.Now().UnixNano()),
		a.cache, cfg.Market.CacheTTL, log,
	)

	return &routes.Handlers{
		Gate:    gate,
		Limiter: limiter,
		Timeout: cfg.RequestTimeout,

		Auth:       auth.NewHandler(auth.NewService(users, tokens), log),
		Crops:      crops.NewHandler(crops.NewService(cropStore, mq.NewLogEmitter(log)), log),
		Doctor:     doctorai.NewHandler(advisor, log),
		ChatSocket: doctorai.NewChatSocket(advisor, gate, log),
		Weather:    weather.NewHandler(weather.NewClient(cfg.Weather.APIURL, cfg.Weather.APIKey, a.cache, cfg.Weather.CacheTTL), log),
		Schemes:    schemes.NewHandler(schemeStore, users, log),
		Market:     market.NewHandler(marketSvc, log),
		Plant:      plant.NewHandler(plant.NewHFClassifier(cfg.Plant.ModelURL, cfg.Plant.Token), log),
	}, nil
}

// Set up all routes and middleware layers
func setupRouter(cfg *config.Config, log *zap.Logger, h *routes.Handlers) http.Handler {
	router := httprouter.New()
	router.GET("/health", Index)
	routes.Register(router, h)

	c := cors.New(cors.Options{
		AllowedOrigins:   cfg.CORS.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Authorization"},
		AllowCredentials: true,
	})

	return middleware.RecoverMiddleware(log)(
		middleware.RequestLogger(log)(
			middleware.SecurityHeaders(c.Handler(router))))
}

func runServe(ctx context.Context, opts *rootOptions) error {
	a, err := bootstrap(ctx, opts)
	if err != nil {
		return err
	}
	defer a.close()
	a.cache = a.openCache(ctx)

	h, err := a.handlers(ctx)
	if err != nil {
		return err
	}

	server := &http.Server{
		Addr:              ":" + a.cfg.Port,
		Handler:           setupRouter(a.cfg, a.log, h),
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      90 * time.Second,
		IdleTimeout:       120 * time.Second,
		ReadHeaderTimeout: 2 * time.Second,
	}
	server.RegisterOnShutdown(func() {
		a.log.Info("cleaning up resources before shutdown")
	})

	errCh := make(chan error, 1)
	go func() {
		a.log.Info("server started", zap.String("addr", server.Addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("listen on %s: %w", server.Addr, err)
	case <-ctx.Done():
	}

	a.log.Info("shutdown signal received, shutting down gracefully")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}
	a.log.Info("server stopped cleanly")
	return nil
}

func runSeedSchemes(ctx context.Context, opts *rootOptions) error {
	a, err := bootstrap(ctx, opts)
	if err != nil {
		return err
	}
	defer a.close()

	n, err := schemes.SeedIfEmpty(ctx, schemes.NewMongoStore(a.db.SchemesCollection), time.Now())
	if err != nil {
		return err
	}
	if n == 0 {
		a.log.Info("schemes collection already populated, nothing seeded")
		return nil
	}
	a.log.Info("sample schemes inserted", zap.Int("count", n))
	return nil
}
