package crops

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"harvesthub/middleware"
	"harvesthub/models"
	"harvesthub/mq"
	"harvesthub/utils"
)

// Store persists crop records. Every lookup is scoped to an owner; a record
// owned by someone else is reported exactly like a missing one.
type Store interface {
	// ListActive returns the owner's active records, newest first.
	ListActive(ctx context.Context, ownerID string) ([]models.CropRecord, error)
	// Insert assigns the id and timestamps.
	Insert(ctx context.Context, rec *models.CropRecord) error
	Get(ctx context.Context, ownerID, id string) (*models.CropRecord, error)
	// Replace overwrites the owner's record and refreshes UpdatedAt.
	Replace(ctx context.Context, rec *models.CropRecord) error
	Deactivate(ctx context.Context, ownerID, id string) error
}

type Service struct {
	store  Store
	events mq.Emitter
}

func NewService(store Store, events mq.Emitter) *Service {
	return &Service{store: store, events: events}
}

func (s *Service) List(ctx context.Context, caller middleware.Caller) ([]View, error) {
	recs, err := s.store.ListActive(ctx, caller.OwnerID())
	if err != nil {
		return nil, fmt.Errorf("list crops: %w", err)
	}
	views := make([]View, 0, len(recs))
	for _, rec := range recs {
		views = append(views, ViewOf(rec))
	}
	return views, nil
}

func (s *Service) Create(ctx context.Context, caller middleware.Caller, in Input) (View, error) {
	name := ""
	if in.Name != nil {
		name = strings.TrimSpace(*in.Name)
	}
	area, hasArea, areaErr := parseArea(in.area())
	planted := ""
	if in.PlantedDate != nil {
		planted = strings.TrimSpace(*in.PlantedDate)
	}
	if name == "" || !hasArea || planted == "" {
		return View{}, utils.Validation("Crop name, area, and planted date are required")
	}
	if areaErr != nil {
		return View{}, areaErr
	}
	plantedAt := utils.ParseDate(planted)
	if plantedAt == nil {
		return View{}, utils.Validation("Invalid planted date %q", planted)
	}

	rec := models.CropRecord{
		OwnerID:        caller.OwnerID(),
		Name:           name,
		Variety:        "Standard",
		AreaAcres:      area,
		PlantedDate:    *plantedAt,
		CurrentStage:   StageSeeded,
		Health:         HealthGood,
		HarvestPurpose: "",
		IsActive:       true,
	}
	if in.Variety != nil && strings.TrimSpace(*in.Variety) != "" {
		rec.Variety = strings.TrimSpace(*in.Variety)
	}
	if err := applyOptional(&rec, in); err != nil {
		return View{}, err
	}

	if eh := in.expectedHarvest(); eh != nil && strings.TrimSpace(*eh) != "" {
		t, err := parseHarvestDate(*eh, rec.PlantedDate)
		if err != nil {
			return View{}, err
		}
		rec.ExpectedHarvestDate = t
	} else {
		rec.ExpectedHarvestDate = ExpectedHarvest(rec.PlantedDate, rec.Name)
	}

	progress, hasProgress, err := parseProgress(in.Progress)
	if err != nil {
		return View{}, err
	}
	if hasProgress {
		rec.Progress = progress
	} else {
		rec.Progress = ProgressForStage(rec.CurrentStage)
	}
	rec.Forecast = GenerateForecast(rec.Location)

	if err := s.store.Insert(ctx, &rec); err != nil {
		return View{}, fmt.Errorf("create crop: %w", err)
	}
	s.emit(ctx, "crop.created", http.MethodPost, rec.OwnerID, rec.ID.Hex())
	return ViewOf(rec), nil
}

// Update merges the supplied fields into the caller's record. When the stage
// changes and no progress is supplied, progress follows the new stage; an
// explicit progress always wins. A supplied location regenerates the forecast.
func (s *Service) Update(ctx context.Context, caller middleware.Caller, id string, in Input) (View, error) {
	rec, err := s.store.Get(ctx, caller.OwnerID(), id)
	if err != nil {
		return View{}, fmt.Errorf("update crop: %w", err)
	}
	prevStage := rec.CurrentStage

	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if name == "" {
			return View{}, utils.Validation("Crop name cannot be empty")
		}
		rec.Name = name
	}
	if in.Variety != nil {
		rec.Variety = strings.TrimSpace(*in.Variety)
		if rec.Variety == "" {
			rec.Variety = "Standard"
		}
	}
	area, hasArea, err := parseArea(in.area())
	if err != nil {
		return View{}, err
	}
	if hasArea {
		rec.AreaAcres = area
	}
	if err := applyOptional(rec, in); err != nil {
		return View{}, err
	}
	if eh := in.expectedHarvest(); eh != nil && strings.TrimSpace(*eh) != "" {
		t, err := parseHarvestDate(*eh, rec.PlantedDate)
		if err != nil {
			return View{}, err
		}
		rec.ExpectedHarvestDate = t
	}

	progress, hasProgress, err := parseProgress(in.Progress)
	if err != nil {
		return View{}, err
	}
	switch {
	case hasProgress:
		rec.Progress = progress
	case rec.CurrentStage != prevStage:
		rec.Progress = ProgressForStage(rec.CurrentStage)
	}
	if in.Location != nil {
		rec.Forecast = GenerateForecast(rec.Location)
	}

	if err := s.store.Replace(ctx, rec); err != nil {
		return View{}, fmt.Errorf("update crop: %w", err)
	}
	s.emit(ctx, "crop.updated", http.MethodPut, rec.OwnerID, rec.ID.Hex())
	return ViewOf(*rec), nil
}

// Delete hides the record from List. The document stays in storage with
// isActive=false.
func (s *Service) Delete(ctx context.Context, caller middleware.Caller, id string) error {
	if err := s.store.Deactivate(ctx, caller.OwnerID(), id); err != nil {
		return fmt.Errorf("delete crop: %w", err)
	}
	s.emit(ctx, "crop.deleted", http.MethodDelete, caller.OwnerID(), id)
	return nil
}

// applyOptional copies the enum and free-text fields shared by create and
// update, rejecting values outside their allowed sets.
func applyOptional(rec *models.CropRecord, in Input) error {
	if st := in.stage(); st != nil && strings.TrimSpace(*st) != "" {
		stage := strings.TrimSpace(*st)
		if !validStage(stage) {
			return utils.Validation("Unknown growth stage %q", stage)
		}
		rec.CurrentStage = stage
	}
	if in.Health != nil && strings.TrimSpace(*in.Health) != "" {
		h := strings.TrimSpace(*in.Health)
		if !validHealth(h) {
			return utils.Validation("Health must be Good, Warning or Poor")
		}
		rec.Health = h
	}
	if in.HarvestPurpose != nil {
		p := strings.TrimSpace(*in.HarvestPurpose)
		if !validPurpose(p) {
			return utils.Validation("Unknown harvest purpose %q", p)
		}
		rec.HarvestPurpose = p
	}
	if in.Location != nil {
		rec.Location = strings.TrimSpace(*in.Location)
	}
	if in.Notes != nil {
		rec.Notes = *in.Notes
	}
	return nil
}

func parseHarvestDate(raw string, planted time.Time) (time.Time, error) {
	t := utils.ParseDate(strings.TrimSpace(raw))
	if t == nil {
		return time.Time{}, utils.Validation("Invalid expected harvest date %q", raw)
	}
	if !t.After(planted) {
		return time.Time{}, utils.Validation("Expected harvest date must be after the planted date")
	}
	return *t, nil
}

func (s *Service) emit(ctx context.Context, event, method, ownerID, id string) {
	if s.events == nil {
		return
	}
	s.events.Emit(ctx, event, mq.Index{
		EntityType: "crop",
		Method:     method,
		EntityId:   id,
		OwnerId:    ownerID,
		ItemType:   "crop",
	})
}
