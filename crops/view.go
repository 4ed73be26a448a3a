package crops

import (
	"strconv"
	"time"

	"harvesthub/models"
)

const defaultLocationLabel = "Your Farm"

// View is the shape the dashboard renders for one crop.
type View struct {
	ID              string               `json:"id"`
	Name            string               `json:"name"`
	Variety         string               `json:"variety"`
	Area            string               `json:"area"`
	GrowthStage     string               `json:"growthStage"`
	Health          string               `json:"health"`
	Location        string               `json:"location"`
	PlantedDate     time.Time            `json:"plantedDate"`
	ExpectedHarvest time.Time            `json:"expectedHarvest"`
	Progress        int                  `json:"progress"`
	HarvestPurpose  string               `json:"harvestPurpose"`
	Weather         []models.ForecastDay `json:"weather"`
	Notes           string               `json:"notes"`
}

// ViewOf renders a stored record. A record without a stored forecast gets one
// generated here from its id; the generated forecast is not persisted.
func ViewOf(rec models.CropRecord) View {
	weather := rec.Forecast
	if len(weather) == 0 {
		hex := rec.ID.Hex()
		weather = GenerateForecastSeeded(LocationSeed(hex[:8]))
	}
	location := rec.Location
	if location == "" {
		location = defaultLocationLabel
	}
	return View{
		ID:              rec.ID.Hex(),
		Name:            rec.Name,
		Variety:         rec.Variety,
		Area:            FormatArea(rec.AreaAcres),
		GrowthStage:     rec.CurrentStage,
		Health:          rec.Health,
		Location:        location,
		PlantedDate:     rec.PlantedDate,
		ExpectedHarvest: rec.ExpectedHarvestDate,
		Progress:        rec.Progress,
		HarvestPurpose:  rec.HarvestPurpose,
		Weather:         weather,
		Notes:           rec.Notes,
	}
}

func FormatArea(acres float64) string {
	return strconv.FormatFloat(acres, 'f', -1, 64) + " acres"
}
