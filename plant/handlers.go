package plant

import (
	"errors"
	"mime/multipart"
	"net/http"

	"harvesthub/middleware"
	"harvesthub/utils"

	"github.com/julienschmidt/httprouter"
	"go.uber.org/zap"
)

const (
	maxUploadSize = 10 << 20
	maxImages     = 3
	formField     = "images"
)

type Handler struct {
	classifier Classifier
	log        *zap.Logger
}

func NewHandler(classifier Classifier, log *zap.Logger) *Handler {
	return &Handler{classifier: classifier, log: log}
}

func respondError(w http.ResponseWriter, code int, msg string) {
	utils.RespondWithJSON(w, code, utils.M{"error": msg})
}

// AnalyzePlantDisease classifies each uploaded leaf photo in order.
func (h *Handler) AnalyzePlantDisease(w http.ResponseWriter, r *http.Request, _ httprouter.Params, caller middleware.Caller) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadSize)
	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			respondError(w, http.StatusRequestEntityTooLarge, "Images must total less than 10 MB")
			return
		}
		respondError(w, http.StatusBadRequest, "Please upload at least one image")
		return
	}
	defer r.MultipartForm.RemoveAll()

	files := r.MultipartForm.File[formField]
	switch {
	case len(files) == 0:
		respondError(w, http.StatusBadRequest, "Please upload at least one image")
		return
	case len(files) > maxImages:
		respondError(w, http.StatusBadRequest, "Upload at most 3 images")
		return
	}

	results := make([]Result, 0, len(files))
	for _, fh := range files {
		res, err := h.analyze(r, fh)
		if err != nil {
			var ve *utils.ValidationError
			if errors.As(err, &ve) {
				respondError(w, http.StatusBadRequest, fh.Filename+": "+ve.Message)
				return
			}
			h.log.Error("plant analysis failed", zap.Error(err),
				zap.String("userId", caller.OwnerID()), zap.String("file", fh.Filename))
			respondError(w, utils.StatusFor(err), "Failed to analyze plant images")
			return
		}
		results = append(results, res)
	}

	utils.RespondWithJSON(w, http.StatusOK, utils.M{
		"message": "Plant disease analysis completed",
		"results": results,
	})
}

func (h *Handler) analyze(r *http.Request, fh *multipart.FileHeader) (Result, error) {
	f, err := fh.Open()
	if err != nil {
		return Result{}, err
	}
	defer f.Close()

	img, err := Prepare(f)
	if err != nil {
		return Result{}, err
	}
	labels, err := h.classifier.Classify(r.Context(), img)
	if err != nil {
		return Result{}, err
	}
	top := Top(labels)
	return Result{
		FileName:       fh.Filename,
		Prediction:     top.Label,
		Confidence:     Confidence(top.Score),
		Recommendation: Recommendation(top.Label),
	}, nil
}
