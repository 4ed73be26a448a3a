package weather

import (
	"net/http"

	"harvesthub/utils"

	"github.com/julienschmidt/httprouter"
	"go.uber.org/zap"
)

type Handler struct {
	client *Client
	log    *zap.Logger
}

func NewHandler(client *Client, log *zap.Logger) *Handler {
	return &Handler{client: client, log: log}
}

func (h *Handler) GetWeatherData(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	q := r.URL.Query()
	cur, err := h.client.Current(r.Context(), Query{
		City: q.Get("city"),
		Lat:  q.Get("lat"),
		Lon:  q.Get("lon"),
	})
	if err != nil {
		h.log.Warn("weather lookup failed", zap.Error(err))
		utils.RespondWithJSON(w, utils.StatusFor(err), utils.M{
			"success": false,
			"message": "Failed to fetch weather data",
		})
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, utils.M{
		"success": true,
		"data":    cur,
		"message": "Weather data retrieved successfully",
	})
}

func (h *Handler) GetWeatherForecast(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	utils.RespondWithJSON(w, http.StatusOK, utils.M{
		"success": true,
		"data":    Forecast(),
		"message": "Weather forecast retrieved successfully",
	})
}
