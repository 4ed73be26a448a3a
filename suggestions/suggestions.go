// Package suggestions offers type-ahead completions for the crop form.
package suggestions

import (
	"net/http"
	"strings"

	"harvesthub/crops"
	"harvesthub/utils"

	"github.com/julienschmidt/httprouter"
)

type Suggestion struct {
	Value        string `json:"value"`
	Kind         string `json:"kind"`
	DurationDays int    `json:"durationDays,omitempty"`
	Progress     int    `json:"progress,omitempty"`
}

func catalogue() []Suggestion {
	out := []Suggestion{}
	for _, k := range crops.KnownCrops() {
		out = append(out, Suggestion{Value: k.String(), Kind: "crop", DurationDays: k.DurationDays()})
	}
	for _, s := range crops.Stages {
		out = append(out, Suggestion{Value: s, Kind: "stage", Progress: crops.ProgressForStage(s)})
	}
	return out
}

// Match returns catalogue entries whose value starts with query, ignoring
// case. kind narrows to "crop" or "stage" when set.
func Match(query, kind string) []Suggestion {
	query = strings.ToLower(strings.TrimSpace(query))
	out := []Suggestion{}
	for _, s := range catalogue() {
		if kind != "" && s.Kind != kind {
			continue
		}
		if strings.HasPrefix(strings.ToLower(s.Value), query) {
			out = append(out, s)
		}
	}
	return out
}

// GetSuggestions handles GET /api/suggestions?q=&kind=&page=&limit=
func GetSuggestions(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	q := r.URL.Query()

	// Pagination parameters
	page := utils.ParseInt(q.Get("page"))
	if page < 1 {
		page = 1
	}
	limit := utils.ParseInt(q.Get("limit"))
	if limit < 1 {
		limit = 10
	}
	skip := (page - 1) * limit

	matches := Match(q.Get("q"), q.Get("kind"))
	if skip >= len(matches) {
		matches = []Suggestion{}
	} else {
		matches = matches[skip:min(skip+limit, len(matches))]
	}
	utils.RespondWithJSON(w, http.StatusOK, matches)
}
