package crops

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
	"strings"

	"harvesthub/utils"
)

// Flex holds a JSON field the client may send as a number or a string.
// Null and absent fields both leave it unset.
type Flex struct {
	set      bool
	isString bool
	raw      string
}

func (f *Flex) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		*f = Flex{}
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*f = Flex{set: true, isString: true, raw: s}
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return err
	}
	*f = Flex{set: true, raw: n.String()}
	return nil
}

// Text builds a string-valued Flex.
func Text(s string) Flex { return Flex{set: true, isString: true, raw: s} }

// Number builds a numeric Flex.
func Number(v float64) Flex {
	return Flex{set: true, raw: strconv.FormatFloat(v, 'f', -1, 64)}
}

// Input is the candidate field set of a create or update request. Pointer
// fields distinguish "absent" from "empty". Both the dashboard's field names
// and the stored field names are accepted.
type Input struct {
	Name                *string `json:"name"`
	Variety             *string `json:"variety"`
	Area                Flex    `json:"area"`
	AreaAcres           Flex    `json:"areaAcres"`
	PlantedDate         *string `json:"plantedDate"`
	ExpectedHarvest     *string `json:"expectedHarvest"`
	ExpectedHarvestDate *string `json:"expectedHarvestDate"`
	CurrentStage        *string `json:"currentStage"`
	GrowthStage         *string `json:"growthStage"`
	Health              *string `json:"health"`
	Location            *string `json:"location"`
	Progress            Flex    `json:"progress"`
	HarvestPurpose      *string `json:"harvestPurpose"`
	Notes               *string `json:"notes"`
}

func (in Input) area() Flex {
	if in.AreaAcres.set {
		return in.AreaAcres
	}
	return in.Area
}

func (in Input) stage() *string {
	if in.CurrentStage != nil {
		return in.CurrentStage
	}
	return in.GrowthStage
}

func (in Input) expectedHarvest() *string {
	if in.ExpectedHarvestDate != nil {
		return in.ExpectedHarvestDate
	}
	return in.ExpectedHarvest
}

// parseArea returns ok=false when no area was supplied.
func parseArea(f Flex) (float64, bool, error) {
	if !f.set || (f.isString && strings.TrimSpace(f.raw) == "") {
		return 0, false, nil
	}
	if f.isString {
		v, err := NormalizeArea(f.raw)
		return v, true, err
	}
	v, err := strconv.ParseFloat(f.raw, 64)
	if err != nil || v <= 0 || math.IsInf(v, 0) {
		return 0, true, utils.Validation("Area must be a positive number, got %s", f.raw)
	}
	return v, true, nil
}

// parseProgress returns ok=false when no progress was supplied.
func parseProgress(f Flex) (int, bool, error) {
	if !f.set || (f.isString && strings.TrimSpace(f.raw) == "") {
		return 0, false, nil
	}
	v, err := strconv.ParseFloat(strings.TrimSpace(f.raw), 64)
	if err != nil || v < 0 || v > 100 || v != math.Trunc(v) {
		return 0, true, utils.Validation("Progress must be a whole number between 0 and 100")
	}
	return int(v), true, nil
}
