package crops

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"harvesthub/models"
	"harvesthub/utils"
)

// CropKind is the closed set of crop names with a known growth duration.
// Anything else is CropOther.
type CropKind int

const (
	CropOther CropKind = iota
	Wheat
	Rice
	Maize
	Cotton
	Sugarcane
	Pulses
	Oilseeds
	Vegetables
	Fruits
	Spices
)

const defaultDurationDays = 120

var cropKindNames = [...]string{
	CropOther:  "Other",
	Wheat:      "Wheat",
	Rice:       "Rice",
	Maize:      "Maize",
	Cotton:     "Cotton",
	Sugarcane:  "Sugarcane",
	Pulses:     "Pulses",
	Oilseeds:   "Oilseeds",
	Vegetables: "Vegetables",
	Fruits:     "Fruits",
	Spices:     "Spices",
}

// ParseCropKind matches the crop name exactly; "wheat" is CropOther.
func ParseCropKind(name string) CropKind {
	for k := Wheat; k <= Spices; k++ {
		if cropKindNames[k] == name {
			return k
		}
	}
	return CropOther
}

func (k CropKind) String() string {
	if k < CropOther || int(k) >= len(cropKindNames) {
		return cropKindNames[CropOther]
	}
	return cropKindNames[k]
}

func (k CropKind) DurationDays() int {
	switch k {
	case Rice:
		return 150
	case Cotton:
		return 180
	case Sugarcane:
		return 365
	case Pulses:
		return 90
	case Oilseeds:
		return 100
	case Vegetables:
		return 60
	case Fruits:
		return 200
	case Wheat, Maize, Spices:
		return 120
	default:
		return defaultDurationDays
	}
}

// KnownCrops lists every crop kind except CropOther, in declaration order.
func KnownCrops() []CropKind {
	out := make([]CropKind, 0, Spices)
	for k := Wheat; k <= Spices; k++ {
		out = append(out, k)
	}
	return out
}

func DurationDays(name string) int {
	return ParseCropKind(name).DurationDays()
}

func ExpectedHarvest(planted time.Time, name string) time.Time {
	return planted.AddDate(0, 0, DurationDays(name))
}

const (
	StageSeeded           = "Seeded"
	StageGermination      = "Germination"
	StageVegetative       = "Vegetative"
	StageFlowering        = "Flowering"
	StageTasseling        = "Tasseling"
	StageGrainDevelopment = "Grain Development"
	StageMaturity         = "Maturity"
	StageHarvested        = "Harvested"
)

// Stages is the growth stage order a crop moves through.
var Stages = []string{
	StageSeeded,
	StageGermination,
	StageVegetative,
	StageFlowering,
	StageTasseling,
	StageGrainDevelopment,
	StageMaturity,
	StageHarvested,
}

var stageProgress = map[string]int{
	StageSeeded:           10,
	StageGermination:      25,
	StageVegetative:       45,
	StageFlowering:        75,
	StageTasseling:        80,
	StageGrainDevelopment: 85,
	StageMaturity:         95,
	StageHarvested:        100,
}

// ProgressForStage returns 0 for stages it does not know.
func ProgressForStage(stage string) int {
	return stageProgress[stage]
}

func validStage(stage string) bool {
	_, ok := stageProgress[stage]
	return ok
}

const (
	HealthGood    = "Good"
	HealthWarning = "Warning"
	HealthPoor    = "Poor"
)

func validHealth(h string) bool {
	return h == HealthGood || h == HealthWarning || h == HealthPoor
}

var harvestPurposes = map[string]bool{
	"Food": true, "Seed": true, "Feed": true, "Commercial": true, "Processing": true, "": true,
}

func validPurpose(p string) bool {
	return harvestPurposes[p]
}

// LocationSeed is the sum of the character codes of s.
func LocationSeed(s string) int {
	sum := 0
	for _, r := range s {
		sum += int(r)
	}
	return sum
}

// GenerateForecast returns the placeholder five day forecast for a location.
// The same location always yields the same entries.
func GenerateForecast(location string) []models.ForecastDay {
	return GenerateForecastSeeded(LocationSeed(location))
}

func GenerateForecastSeeded(seed int) []models.ForecastDay {
	out := make([]models.ForecastDay, 5)
	for i := range out {
		base := (seed + i*7) % 30
		if base < 0 {
			base += 30
		}
		out[i] = models.ForecastDay{
			Day:  fmt.Sprintf("Day %d", i+1),
			Temp: fmt.Sprintf("%d°C", 22+(base*3)%10),
			Rain: fmt.Sprintf("%d%%", (base*13)%100),
			Wind: fmt.Sprintf("%d km/h", 6+(base*2)%10),
		}
	}
	return out
}

// NormalizeArea strips everything except digits and dots ("2.5 acres" -> 2.5)
// and requires a positive result.
func NormalizeArea(raw string) (float64, error) {
	cleaned := strings.Map(func(r rune) rune {
		if (r >= '0' && r <= '9') || r == '.' {
			return r
		}
		return -1
	}, raw)
	v, err := strconv.ParseFloat(cleaned, 64)
	if err != nil || v <= 0 {
		return 0, utils.Validation("Area must be a positive number, got %q", raw)
	}
	return v, nil
}
