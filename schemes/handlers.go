package schemes

import (
	"context"
	"net/http"
	"strconv"
	"strings"
	"time"

	"harvesthub/middleware"
	"harvesthub/models"
	"harvesthub/utils"

	"github.com/julienschmidt/httprouter"
	"go.uber.org/zap"
)

const relevantLimit = 10

type UserLookup interface {
	FindByID(ctx context.Context, id string) (*models.User, error)
}

type Handler struct {
	store Store
	users UserLookup
	log   *zap.Logger
	now   func() time.Time
}

func NewHandler(store Store, users UserLookup, log *zap.Logger) *Handler {
	return &Handler{store: store, users: users, log: log, now: time.Now}
}

func respondSchemes(w http.ResponseWriter, schemes []models.Scheme) {
	utils.RespondWithJSON(w, http.StatusOK, utils.M{
		"success": true,
		"count":   len(schemes),
		"data":    schemes,
	})
}

func respondFailure(w http.ResponseWriter, code int, msg string) {
	utils.RespondWithJSON(w, code, utils.M{"success": false, "message": msg})
}

// GET /api/schemes?state=&category=&landSize=
func (h *Handler) GetAllSchemes(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	q := r.URL.Query()
	f := Filter{
		State:    strings.TrimSpace(q.Get("state")),
		Category: strings.TrimSpace(q.Get("category")),
	}
	if raw := strings.TrimSpace(q.Get("landSize")); raw != "" {
		land, err := strconv.ParseFloat(raw, 64)
		if err != nil || land < 0 {
			respondFailure(w, http.StatusBadRequest, "landSize must be a non-negative number")
			return
		}
		f.LandSize = &land
	}

	schemes, err := h.store.List(r.Context(), f)
	if err != nil {
		h.log.Error("list schemes", zap.Error(err))
		respondFailure(w, http.StatusInternalServerError, "Server error while fetching schemes")
		return
	}
	respondSchemes(w, schemes)
}

// GetUserRelevantSchemes lists open schemes matching the caller's profile.
func (h *Handler) GetUserRelevantSchemes(w http.ResponseWriter, r *http.Request, _ httprouter.Params, caller middleware.Caller) {
	user, err := h.users.FindByID(r.Context(), caller.OwnerID())
	if utils.IsNotFound(err) {
		respondFailure(w, http.StatusNotFound, "User not found")
		return
	}
	if err != nil {
		h.log.Error("load user for schemes", zap.Error(err))
		respondFailure(w, http.StatusInternalServerError, "Server error while fetching relevant schemes")
		return
	}

	now := h.now().UTC()
	f := Filter{State: user.State, DeadlineFrom: &now, Limit: relevantLimit}
	if user.LandSize > 0 {
		land := user.LandSize
		f.LandSize = &land
	}
	schemes, err := h.store.List(r.Context(), f)
	if err != nil {
		h.log.Error("list relevant schemes", zap.Error(err))
		respondFailure(w, http.StatusInternalServerError, "Server error while fetching relevant schemes")
		return
	}
	respondSchemes(w, schemes)
}

func (h *Handler) GetSchemeById(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	scheme, err := h.store.Get(r.Context(), ps.ByName("id"))
	if utils.IsNotFound(err) {
		respondFailure(w, http.StatusNotFound, "Scheme not found")
		return
	}
	if err != nil {
		h.log.Error("get scheme", zap.Error(err))
		respondFailure(w, http.StatusInternalServerError, "Server error while fetching scheme")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, utils.M{"success": true, "data": scheme})
}
