package doctorai

import (
	"errors"
	"net/http"

	"harvesthub/middleware"
	"harvesthub/utils"

	"github.com/julienschmidt/httprouter"
	"go.uber.org/zap"
)

type Handler struct {
	advisor *Advisor
	log     *zap.Logger
}

func NewHandler(advisor *Advisor, log *zap.Logger) *Handler {
	return &Handler{advisor: advisor, log: log}
}

type askRequest struct {
	Question string `json:"question"`
	Language string `json:"language"`
}

func (h *Handler) AskDoctorAI(w http.ResponseWriter, r *http.Request, _ httprouter.Params, c middleware.Caller) {
	var req askRequest
	if err := utils.DecodeJSON(w, r, &req); err != nil {
		utils.RespondWithJSON(w, http.StatusBadRequest, utils.M{"success": false, "message": err.Error()})
		return
	}
	if req.Language == "" {
		req.Language = DefaultLanguage
	}
	reply, err := h.advisor.Answer(r.Context(), req.Question, req.Language)
	var ve *utils.ValidationError
	switch {
	case errors.As(err, &ve):
		utils.RespondWithJSON(w, http.StatusBadRequest, utils.M{"success": false, "message": ve.Message})
		return
	case errors.Is(err, ErrNotConfigured):
		utils.RespondWithJSON(w, http.StatusInternalServerError, utils.M{"success": false, "message": ErrNotConfigured.Error()})
		return
	case err != nil:
		h.log.Error("doctor ai failed", zap.Error(err), zap.String("userId", c.OwnerID()))
		utils.RespondWithJSON(w, http.StatusInternalServerError, utils.M{"success": false, "message": "Error generating AI response"})
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, utils.M{"success": true, "reply": reply})
}

type chatRequest struct {
	Message string `json:"message"`
}

// Chat is the single-shot chatbot endpoint used by the public chat widget.
func (h *Handler) Chat(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var req chatRequest
	if err := utils.DecodeJSON(w, r, &req); err != nil {
		utils.RespondWithJSON(w, http.StatusBadRequest, utils.M{"reply": "Message is required"})
		return
	}
	reply, err := h.advisor.Answer(r.Context(), req.Message, "english")
	var ve *utils.ValidationError
	switch {
	case errors.As(err, &ve):
		utils.RespondWithJSON(w, http.StatusBadRequest, utils.M{"reply": "Message is required"})
		return
	case err != nil:
		h.log.Error("chat failed", zap.Error(err))
		utils.RespondWithJSON(w, http.StatusInternalServerError, utils.M{"reply": "Error generating response"})
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, utils.M{"reply": reply})
}
