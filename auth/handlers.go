package auth

import (
	"errors"
	"net/http"

	"harvesthub/middleware"
	"harvesthub/utils"

	"github.com/julienschmidt/httprouter"
	"go.uber.org/zap"
)

type Handler struct {
	svc *Service
	log *zap.Logger
}

func NewHandler(svc *Service, log *zap.Logger) *Handler {
	return &Handler{svc: svc, log: log}
}

func (h *Handler) Signup(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var in SignupInput
	if err := utils.DecodeJSON(w, r, &in); err != nil {
		utils.RespondWithAppError(w, h.log, err)
		return
	}
	sess, err := h.svc.Signup(r.Context(), in)
	if err != nil {
		utils.RespondWithAppError(w, h.log, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusCreated, sess)
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var in LoginInput
	if err := utils.DecodeJSON(w, r, &in); err != nil {
		utils.RespondWithAppError(w, h.log, err)
		return
	}
	sess, err := h.svc.Login(r.Context(), in)
	if errors.Is(err, ErrInvalidCredentials) {
		utils.RespondWithError(w, http.StatusNotFound, "Invalid Credentials")
		return
	}
	if err != nil {
		utils.RespondWithAppError(w, h.log, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, sess)
}

func (h *Handler) GetProfile(w http.ResponseWriter, r *http.Request, _ httprouter.Params, c middleware.Caller) {
	u, err := h.svc.Profile(r.Context(), c.OwnerID())
	if err != nil {
		utils.RespondWithAppError(w, h.log, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, u)
}
