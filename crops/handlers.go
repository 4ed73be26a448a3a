package crops

import (
	"bytes"
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

func (h *Handler) GetUserCrops(w http.ResponseWriter, r *http.Request, _ httprouter.Params, c middleware.Caller) {
	views, err := h.svc.List(r.Context(), c)
	if err != nil {
		utils.RespondWithAppError(w, h.log, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, views)
}

func (h *Handler) AddCrop(w http.ResponseWriter, r *http.Request, _ httprouter.Params, c middleware.Caller) {
	var in Input
	if err := utils.DecodeJSON(w, r, &in); err != nil {
		utils.RespondWithAppError(w, h.log, err)
		return
	}
	view, err := h.svc.Create(r.Context(), c, in)
	if err != nil {
		utils.RespondWithAppError(w, h.log, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusCreated, view)
}

func (h *Handler) UpdateCrop(w http.ResponseWriter, r *http.Request, ps httprouter.Params, c middleware.Caller) {
	var in Input
	if err := utils.DecodeJSON(w, r, &in); err != nil {
		utils.RespondWithAppError(w, h.log, err)
		return
	}
	view, err := h.svc.Update(r.Context(), c, ps.ByName("id"), in)
	if err != nil {
		utils.RespondWithAppError(w, h.log, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, view)
}

func (h *Handler) DeleteCrop(w http.ResponseWriter, r *http.Request, ps httprouter.Params, c middleware.Caller) {
	if err := h.svc.Delete(r.Context(), c, ps.ByName("id")); err != nil {
		utils.RespondWithAppError(w, h.log, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, utils.M{"message": "deleted"})
}

// ExportCrops streams the caller's active crops as an xlsx workbook.
func (h *Handler) ExportCrops(w http.ResponseWriter, r *http.Request, _ httprouter.Params, c middleware.Caller) {
	views, err := h.svc.List(r.Context(), c)
	if err != nil {
		utils.RespondWithAppError(w, h.log, err)
		return
	}
	var buf bytes.Buffer
	if err := ExportXLSX(&buf, views); err != nil {
		utils.RespondWithAppError(w, h.log, err)
		return
	}
	w.Header().Set("Content-Type", xlsxContentType)
	w.Header().Set("Content-Disposition", exportDisposition)
	w.WriteHeader(http.StatusOK)
	w.Write(buf.Bytes())
}
