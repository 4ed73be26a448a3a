package routes

import (
	"time"

	"harvesthub/auth"
	"harvesthub/crops"
	"harvesthub/doctorai"
	"harvesthub/home"
	"harvesthub/market"
	"harvesthub/middleware"
	"harvesthub/plant"
	"harvesthub/ratelim"
	"harvesthub/schemes"
	"harvesthub/suggestions"
	"harvesthub/weather"

	"github.com/julienschmidt/httprouter"
)

// Handlers is everything the router mounts. Each group is added only when its
// handler is set.
type Handlers struct {
	Gate    *middleware.Gate
	Limiter *ratelim.RateLimiter
	Timeout time.Duration

	Auth       *auth.Handler
	Crops      *crops.Handler
	Doctor     *doctorai.Handler
	ChatSocket *doctorai.ChatSocket
	Weather    *weather.Handler
	Schemes    *schemes.Handler
	Market     *market.Handler
	Plant      *plant.Handler
}

func (h *Handlers) timed(handle httprouter.Handle) httprouter.Handle {
	if h.Timeout <= 0 {
		return handle
	}
	return middleware.WithTimeout(h.Timeout, handle)
}

func (h *Handlers) authed(handle middleware.AuthedHandle) httprouter.Handle {
	return h.timed(h.Gate.Authenticate(handle))
}

func (h *Handlers) limited(handle httprouter.Handle) httprouter.Handle {
	if h.Limiter == nil {
		return h.timed(handle)
	}
	return h.Limiter.Limit(h.timed(handle))
}

func AddAuthRoutes(router *httprouter.Router, h *Handlers) {
	router.POST("/api/auth/signup", h.limited(h.Auth.Signup))
	router.POST("/api/auth/login", h.limited(h.Auth.Login))
	router.GET("/api/auth/profile", h.authed(h.Auth.GetProfile))
}

func AddCropRoutes(router *httprouter.Router, h *Handlers) {
	router.GET("/api/crops", h.authed(h.Crops.GetUserCrops))
	router.POST("/api/crops", h.authed(h.Crops.AddCrop))
	router.GET("/api/crops/export", h.authed(h.Crops.ExportCrops))
	router.PUT("/api/crops/:id", h.authed(h.Crops.UpdateCrop))
	router.DELETE("/api/crops/:id", h.authed(h.Crops.DeleteCrop))
}

// AddDoctorRoutes mounts the advisor. The websocket is long lived and is not
// bounded by the request timeout.
func AddDoctorRoutes(router *httprouter.Router, h *Handlers) {
	router.POST("/api/doctor/ask", h.authed(h.Doctor.AskDoctorAI))
	router.POST("/api/chat", h.limited(h.Doctor.Chat))
	if h.ChatSocket != nil {
		router.GET("/ws/chat", h.ChatSocket.HandleWebSocket)
	}
}

func AddWeatherRoutes(router *httprouter.Router, h *Handlers) {
	router.GET("/api/weather/current", h.timed(h.Weather.GetWeatherData))
	router.GET("/api/weather/forecast", h.timed(h.Weather.GetWeatherForecast))
}

func AddSchemeRoutes(router *httprouter.Router, h *Handlers) {
	router.GET("/api/schemes", h.timed(h.Schemes.GetAllSchemes))
	router.GET("/api/schemes/user/relevant", h.authed(h.Schemes.GetUserRelevantSchemes))
	router.GET("/api/schemes/scheme/:id", h.timed(h.Schemes.GetSchemeById))
}

func AddMarketRoutes(router *httprouter.Router, h *Handlers) {
	router.GET("/api/market/prices", h.timed(h.Market.GetAllMarketPrices))
	router.GET("/api/market/trends", h.timed(h.Market.GetMarketTrends))
	router.GET("/api/market/analysis/:commodity", h.timed(h.Market.GetPriceAnalysis))
}

func AddPlantRoutes(router *httprouter.Router, h *Handlers) {
	router.POST("/api/plant/analyze", h.authed(h.Plant.AnalyzePlantDisease))
}

func AddHomeRoutes(router *httprouter.Router, h *Handlers) {
	router.GET("/api/home/:section", h.Gate.OptionalAuth(home.GetHomeContent))
}

func AddSuggestionRoutes(router *httprouter.Router, h *Handlers) {
	router.GET("/api/suggestions", h.timed(suggestions.GetSuggestions))
}

// Register mounts every configured group on router.
func Register(router *httprouter.Router, h *Handlers) {
	if h.Auth != nil {
		AddAuthRoutes(router, h)
	}
	if h.Crops != nil {
		AddCropRoutes(router, h)
	}
	if h.Doctor != nil {
		AddDoctorRoutes(router, h)
	}
	if h.Weather != nil {
		AddWeatherRoutes(router, h)
	}
	if h.Schemes != nil {
		AddSchemeRoutes(router, h)
	}
	if h.Market != nil {
		AddMarketRoutes(router, h)
	}
	if h.Plant != nil {
		AddPlantRoutes(router, h)
	}
	AddHomeRoutes(router, h)
	AddSuggestionRoutes(router, h)
}
