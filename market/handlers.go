package market

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"harvesthub/utils"

	"github.com/julienschmidt/httprouter"
	"go.uber.org/zap"
)

const defaultLimit = 20

type Handler struct {
	svc *Service
	log *zap.Logger
}

func NewHandler(svc *Service, log *zap.Logger) *Handler {
	return &Handler{svc: svc, log: log}
}

func (h *Handler) serverError(w http.ResponseWriter, err error) {
	h.log.Error("market data", zap.Error(err))
	utils.RespondWithJSON(w, http.StatusInternalServerError, utils.M{
		"success": false,
		"message": "Server error while fetching market data",
	})
}

// GET /api/market/prices?state=&commodity=&limit=
func (h *Handler) GetAllMarketPrices(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	snap, err := h.svc.Snapshot(r.Context())
	if err != nil {
		h.serverError(w, err)
		return
	}
	q := r.URL.Query()
	limit, err := strconv.Atoi(q.Get("limit"))
	if err != nil || limit <= 0 {
		limit = defaultLimit
	}
	data := FilterPrices(snap.Prices, q.Get("state"), q.Get("commodity"), limit)

	status, message := "NEEDS_CONFIG", "NO API KEYS CONFIGURED - Add your API keys to get real data"
	if snap.Live {
		source := "live providers"
		if len(snap.Prices) > 0 {
			source = snap.Prices[0].Source
		}
		age := int(h.svc.now().Sub(snap.FetchedAt) / time.Minute)
		status = "LIVE"
		message = fmt.Sprintf("LIVE DATA from %s (updated %d min ago)", source, age)
	}
	utils.RespondWithJSON(w, http.StatusOK, utils.M{
		"success":     true,
		"count":       len(data),
		"data":        data,
		"message":     message,
		"lastUpdated": snap.FetchedAt.Format(time.RFC3339),
		"nextUpdate":  snap.FetchedAt.Add(h.svc.TTL()).Format(time.RFC3339),
		"apiStatus":   status,
	})
}

func (h *Handler) GetMarketTrends(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	snap, err := h.svc.Snapshot(r.Context())
	if err != nil {
		h.serverError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, utils.M{
		"success": true,
		"data":    Trends(snap.Prices),
	})
}

func (h *Handler) GetPriceAnalysis(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	snap, err := h.svc.Snapshot(r.Context())
	if err != nil {
		h.serverError(w, err)
		return
	}
	commodity := ps.ByName("commodity")
	analysis, ok := Analyze(snap.Prices, commodity)
	if !ok {
		utils.RespondWithJSON(w, http.StatusNotFound, utils.M{
			"success": false,
			"message": commodity + " not found in market data",
		})
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, utils.M{"success": true, "data": analysis})
}
