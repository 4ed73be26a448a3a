package schemes

import (
	"context"
	_ "embed"
	"fmt"
	"time"

	"harvesthub/models"

	"gopkg.in/yaml.v3"
)

//go:embed seed.yaml
var seedYAML []byte

type seedEntry struct {
	Title       string   `yaml:"title"`
	Description string   `yaml:"description"`
	Benefit     string   `yaml:"benefit"`
	Eligibility []string `yaml:"eligibility"`
	Deadline    string   `yaml:"deadline"`
	Link        string   `yaml:"link"`
	Department  string   `yaml:"department"`
	Category    string   `yaml:"category"`
	States      []string `yaml:"states"`
	MinLand     float64  `yaml:"min_land"`
	MaxLand     *float64 `yaml:"max_land"`
	MinAge      *int     `yaml:"min_age"`
	MaxAge      *int     `yaml:"max_age"`
	Documents   []string `yaml:"documents"`
}

// SampleSchemes decodes the bundled catalogue. Each deadline is the next
// occurrence of its month and day on or after now.
func SampleSchemes(now time.Time) ([]models.Scheme, error) {
	var entries []seedEntry
	if err := yaml.Unmarshal(seedYAML, &entries); err != nil {
		return nil, fmt.Errorf("parse seed schemes: %w", err)
	}
	now = now.UTC()
	out := make([]models.Scheme, 0, len(entries))
	for _, e := range entries {
		deadline, err := nextDeadline(e.Deadline, now)
		if err != nil {
			return nil, fmt.Errorf("scheme %q: %w", e.Title, err)
		}
		states := e.States
		if len(states) == 0 {
			states = []string{AllIndia}
		}
		out = append(out, models.Scheme{
			Title:               e.Title,
			Description:         e.Description,
			Benefit:             e.Benefit,
			Eligibility:         e.Eligibility,
			ApplicationDeadline: deadline,
			ApplicationLink:     e.Link,
			Department:          e.Department,
			Category:            e.Category,
			TargetStates:        states,
			IsActive:            true,
			MinLandRequirement:  e.MinLand,
			MaxLandRequirement:  e.MaxLand,
			AgeRequirement:      models.AgeRequirement{Min: e.MinAge, Max: e.MaxAge},
			Documents:           e.Documents,
			CreatedAt:           now,
			UpdatedAt:           now,
		})
	}
	return out, nil
}

func nextDeadline(monthDay string, now time.Time) (time.Time, error) {
	md, err := time.Parse("01-02", monthDay)
	if err != nil {
		return time.Time{}, fmt.Errorf("deadline %q: %w", monthDay, err)
	}
	d := time.Date(now.Year(), md.Month(), md.Day(), 0, 0, 0, 0, time.UTC)
	if d.Before(now.Truncate(24 * time.Hour)) {
		d = d.AddDate(1, 0, 0)
	}
	return d, nil
}

// SeedIfEmpty inserts the sample schemes when the store has none and reports
// how many were written.
func SeedIfEmpty(ctx context.Context, store Store, now time.Time) (int, error) {
	n, err := store.Count(ctx)
	if err != nil {
		return 0, err
	}
	if n > 0 {
		return 0, nil
	}
	schemes, err := SampleSchemes(now)
	if err != nil {
		return 0, err
	}
	if err := store.InsertMany(ctx, schemes); err != nil {
		return 0, err
	}
	return len(schemes), nil
}
