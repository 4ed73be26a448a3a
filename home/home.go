// Package home serves the static reference tables behind the dashboard.
package home

import (
	"net/http"
	"strings"
	"time"

	"harvesthub/crops"
	"harvesthub/doctorai"
	"harvesthub/utils"

	"github.com/julienschmidt/httprouter"
)

var now = time.Now

// GetHomeContent handles all of the dashboard endpoints under /api/home/:section
func GetHomeContent(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	section := strings.ToLower(ps.ByName("section"))

	var data interface{}
	switch section {
	case "crop-types":
		data = getCropTypes()
	case "stages":
		data = getStages()
	case "seasonal-tips":
		data = getSeasonalTips(now())
	case "languages":
		data = doctorai.Languages()
	default:
		utils.RespondWithError(w, http.StatusNotFound, "Unknown section")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, utils.M{"success": true, "data": data})
}

type cropType struct {
	Name         string `json:"name"`
	DurationDays int    `json:"durationDays"`
}

// getCropTypes lists every recognised crop and its growing period; "Other"
// carries the default used for unrecognised names
func getCropTypes() []cropType {
	out := []cropType{}
	for _, k := range crops.KnownCrops() {
		out = append(out, cropType{Name: k.String(), DurationDays: k.DurationDays()})
	}
	return append(out, cropType{Name: crops.CropOther.String(), DurationDays: crops.CropOther.DurationDays()})
}

type stage struct {
	Name     string `json:"name"`
	Progress int    `json:"progress"`
}

// getStages returns the growth stages in order with the progress each implies
func getStages() []stage {
	out := make([]stage, 0, len(crops.Stages))
	for _, s := range crops.Stages {
		out = append(out, stage{Name: s, Progress: crops.ProgressForStage(s)})
	}
	return out
}

type seasonTips struct {
	Season string   `json:"season"`
	Tips   []string `json:"tips"`
}

var tipsBySeason = map[string][]string{
	"Kharif": {
		"🌾 Transplant paddy once monsoon rains settle",
		"🌽 Keep maize fields weeded in the first month",
		"💧 Clear field drains before heavy showers",
	},
	"Rabi": {
		"🌾 Time to sow wheat in North India",
		"🌼 Mustard needs a light irrigation at flowering",
		"❄️ Irrigate in the evening before frost nights",
	},
	"Zaid": {
		"🍉 Watermelon and cucumber suit the short summer window",
		"🍅 Tomatoes thrive in warm afternoons",
		"🥬 Use shade nets for spinach during peak sun",
	},
}

// season maps a month to the Indian cropping season it falls in
func season(t time.Time) string {
	switch m := t.Month(); {
	case m >= time.June && m <= time.October:
		return "Kharif"
	case m >= time.April && m <= time.May:
		return "Zaid"
	default:
		return "Rabi"
	}
}

// getSeasonalTips returns tips for the season t falls in
func getSeasonalTips(t time.Time) seasonTips {
	s := season(t)
	return seasonTips{Season: s, Tips: tipsBySeason[s]}
}
