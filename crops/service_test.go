package crops

import (
	"context"
	"errors"
	"testing"
	"time"

	"harvesthub/middleware"
	"harvesthub/mq"
	"harvesthub/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// ownerIsToken treats every token as the id of the user holding it.
type ownerIsToken struct{}

func (ownerIsToken) Verify(token string) (middleware.Identity, error) {
	return middleware.Identity{UserID: token, Role: "farmer"}, nil
}

func callerFor(t *testing.T, owner string) middleware.Caller {
	t.Helper()
	c, err := middleware.NewGate(ownerIsToken{}, zap.NewNop()).Verify(owner)
	require.NoError(t, err)
	return c
}

func str(s string) *string { return &s }

func newTestService() (*Service, *memStore, *mq.Recorder) {
	store := newMemStore()
	events := &mq.Recorder{}
	return NewService(store, events), store, events
}

func wheatInput() Input {
	return Input{
		Name:        str("Wheat"),
		Area:        Text("2.5 acres"),
		PlantedDate: str("2024-01-15"),
	}
}

func TestCreateDerivesFields(t *testing.T) {
	svc, store, events := newTestService()
	ctx := context.Background()

	v, err := svc.Create(ctx, callerFor(t, "user-a"), wheatInput())
	require.NoError(t, err)

	assert.Equal(t, "2.5 acres", v.Area)
	assert.Equal(t, time.Date(2024, 5, 14, 0, 0, 0, 0, time.UTC), v.ExpectedHarvest)
	assert.Equal(t, 10, v.Progress)
	assert.Equal(t, "Seeded", v.GrowthStage)
	assert.Equal(t, "Good", v.Health)
	assert.Equal(t, "Standard", v.Variety)
	assert.Equal(t, "Your Farm", v.Location)
	assert.Len(t, v.Weather, 5)

	rec, ok := store.raw(v.ID)
	require.True(t, ok)
	assert.Equal(t, 2.5, rec.AreaAcres)
	assert.Equal(t, "user-a", rec.OwnerID)
	assert.True(t, rec.IsActive)
	assert.Equal(t, "", rec.Location)
	assert.Equal(t, []string{"crop.created"}, events.Names())
}

func TestCreateNumericAreaMatchesText(t *testing.T) {
	svc, store, _ := newTestService()
	ctx := context.Background()
	caller := callerFor(t, "user-a")

	in := wheatInput()
	in.Area = Number(2.5)
	v1, err := svc.Create(ctx, caller, in)
	require.NoError(t, err)
	v2, err := svc.Create(ctx, caller, wheatInput())
	require.NoError(t, err)

	r1, _ := store.raw(v1.ID)
	r2, _ := store.raw(v2.ID)
	assert.Equal(t, r1.AreaAcres, r2.AreaAcres)
}

func TestCreateExplicitValuesWin(t *testing.T) {
	svc, _, _ := newTestService()
	in := wheatInput()
	in.CurrentStage = str("Flowering")
	in.Progress = Number(60)
	in.ExpectedHarvest = str("2024-04-01")
	in.Location = str("Pune")
	in.HarvestPurpose = str("Seed")

	v, err := svc.Create(context.Background(), callerFor(t, "user-a"), in)
	require.NoError(t, err)
	assert.Equal(t, 60, v.Progress)
	assert.Equal(t, "Flowering", v.GrowthStage)
	assert.Equal(t, time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC), v.ExpectedHarvest)
	assert.Equal(t, GenerateForecast("Pune"), v.Weather)
	assert.Equal(t, "Seed", v.HarvestPurpose)
}

func TestCreateAcceptsGrowthStageAlias(t *testing.T) {
	svc, _, _ := newTestService()
	in := wheatInput()
	in.GrowthStage = str("Maturity")
	v, err := svc.Create(context.Background(), callerFor(t, "user-a"), in)
	require.NoError(t, err)
	assert.Equal(t, 95, v.Progress)
}

func TestCreateValidation(t *testing.T) {
	cases := map[string]func(*Input){
		"missing name":         func(in *Input) { in.Name = nil },
		"blank name":           func(in *Input) { in.Name = str("  ") },
		"missing area":         func(in *Input) { in.Area = Flex{} },
		"non numeric area":     func(in *Input) { in.Area = Text("abc") },
		"zero area":            func(in *Input) { in.Area = Number(0) },
		"missing planted date": func(in *Input) { in.PlantedDate = nil },
		"bad planted date":     func(in *Input) { in.PlantedDate = str("15/01/2024") },
		"unknown stage":        func(in *Input) { in.CurrentStage = str("Budding") },
		"unknown health":       func(in *Input) { in.Health = str("Great") },
		"unknown purpose":      func(in *Input) { in.HarvestPurpose = str("Fun") },
		"progress too high":    func(in *Input) { in.Progress = Number(150) },
		"harvest before plant": func(in *Input) { in.ExpectedHarvest = str("2023-12-01") },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			svc, store, events := newTestService()
			in := wheatInput()
			mutate(&in)
			_, err := svc.Create(context.Background(), callerFor(t, "user-a"), in)
			var ve *utils.ValidationError
			require.ErrorAs(t, err, &ve)
			assert.Equal(t, 0, store.count(), "nothing persisted")
			assert.Empty(t, events.Names())
		})
	}
}

func TestCreatePropertyProgressAndHarvest(t *testing.T) {
	svc, _, _ := newTestService()
	caller := callerFor(t, "user-a")
	names := []string{"Wheat", "Rice", "Maize", "Cotton", "Sugarcane", "Pulses", "Oilseeds", "Vegetables", "Fruits", "Spices", "Millet"}
	for _, name := range names {
		for _, stage := range Stages {
			in := wheatInput()
			in.Name = str(name)
			in.CurrentStage = str(stage)
			v, err := svc.Create(context.Background(), caller, in)
			require.NoError(t, err)
			assert.True(t, v.Progress >= 0 && v.Progress <= 100)
			assert.True(t, v.ExpectedHarvest.After(v.PlantedDate), name)
		}
	}
}

func TestUpdateStageRederivesProgress(t *testing.T) {
	svc, store, events := newTestService()
	ctx := context.Background()
	caller := callerFor(t, "user-a")
	created, err := svc.Create(ctx, caller, wheatInput())
	require.NoError(t, err)

	v, err := svc.Update(ctx, caller, created.ID, Input{CurrentStage: str("Flowering")})
	require.NoError(t, err)
	assert.Equal(t, 75, v.Progress)

	rec, _ := store.raw(created.ID)
	assert.Equal(t, 75, rec.Progress)
	assert.Equal(t, "Flowering", rec.CurrentStage)
	assert.Equal(t, []string{"crop.created", "crop.updated"}, events.Names())
}

func TestUpdateExplicitProgressWinsOverStage(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()
	caller := callerFor(t, "user-a")
	created, err := svc.Create(ctx, caller, wheatInput())
	require.NoError(t, err)

	v, err := svc.Update(ctx, caller, created.ID, Input{CurrentStage: str("Flowering"), Progress: Text("50")})
	require.NoError(t, err)
	assert.Equal(t, 50, v.Progress)
}

func TestUpdateSameStageKeepsProgress(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()
	caller := callerFor(t, "user-a")
	in := wheatInput()
	in.Progress = Number(30)
	created, err := svc.Create(ctx, caller, in)
	require.NoError(t, err)

	v, err := svc.Update(ctx, caller, created.ID, Input{CurrentStage: str("Seeded")})
	require.NoError(t, err)
	assert.Equal(t, 30, v.Progress)
}

func TestUpdateLocationRegeneratesForecast(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()
	caller := callerFor(t, "user-a")
	created, err := svc.Create(ctx, caller, wheatInput())
	require.NoError(t, err)

	v, err := svc.Update(ctx, caller, created.ID, Input{Location: str("Nashik")})
	require.NoError(t, err)
	assert.Equal(t, "Nashik", v.Location)
	assert.Equal(t, GenerateForecast("Nashik"), v.Weather)

	v, err = svc.Update(ctx, caller, created.ID, Input{Notes: str("weeded")})
	require.NoError(t, err)
	assert.Equal(t, GenerateForecast("Nashik"), v.Weather, "untouched location keeps forecast")
	assert.Equal(t, "weeded", v.Notes)
}

func TestUpdateNormalizesArea(t *testing.T) {
	svc, store, _ := newTestService()
	ctx := context.Background()
	caller := callerFor(t, "user-a")
	created, err := svc.Create(ctx, caller, wheatInput())
	require.NoError(t, err)

	_, err = svc.Update(ctx, caller, created.ID, Input{Area: Text("4 acres")})
	require.NoError(t, err)
	rec, _ := store.raw(created.ID)
	assert.Equal(t, 4.0, rec.AreaAcres)

	_, err = svc.Update(ctx, caller, created.ID, Input{Area: Text("none")})
	var ve *utils.ValidationError
	assert.ErrorAs(t, err, &ve)
	rec, _ = store.raw(created.ID)
	assert.Equal(t, 4.0, rec.AreaAcres, "rejected update leaves record untouched")
}

func TestOwnershipIsolation(t *testing.T) {
	svc, store, _ := newTestService()
	ctx := context.Background()
	alice := callerFor(t, "user-a")
	bob := callerFor(t, "user-b")

	created, err := svc.Create(ctx, bob, wheatInput())
	require.NoError(t, err)

	list, err := svc.List(ctx, alice)
	require.NoError(t, err)
	assert.Empty(t, list)

	_, err = svc.Update(ctx, alice, created.ID, Input{Notes: str("mine now")})
	var ne *utils.NotFoundError
	require.ErrorAs(t, err, &ne)

	err = svc.Delete(ctx, alice, created.ID)
	require.ErrorAs(t, err, &ne)

	rec, _ := store.raw(created.ID)
	assert.True(t, rec.IsActive)
	assert.Equal(t, "", rec.Notes)
}

func TestUnknownAndMalformedIDsAreNotFound(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()
	caller := callerFor(t, "user-a")
	var ne *utils.NotFoundError

	_, err := svc.Update(ctx, caller, "not-an-id", Input{})
	assert.ErrorAs(t, err, &ne)
	_, err = svc.Update(ctx, caller, "65a4f0c2e1b2c3d4e5f60718", Input{})
	assert.ErrorAs(t, err, &ne)
	assert.ErrorAs(t, svc.Delete(ctx, caller, "nope"), &ne)
}

func TestSoftDelete(t *testing.T) {
	svc, store, events := newTestService()
	ctx := context.Background()
	caller := callerFor(t, "user-a")

	keep, err := svc.Create(ctx, caller, wheatInput())
	require.NoError(t, err)
	gone, err := svc.Create(ctx, caller, wheatInput())
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, caller, gone.ID))

	list, err := svc.List(ctx, caller)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, keep.ID, list[0].ID)

	rec, ok := store.raw(gone.ID)
	require.True(t, ok, "record still stored")
	assert.False(t, rec.IsActive)
	assert.Equal(t, "crop.deleted", events.Names()[2])

	_, err = svc.Update(ctx, caller, gone.ID, Input{Notes: str("restored")})
	assert.NoError(t, err, "inactive records remain updatable by their owner")
}

func TestListNewestFirstAndEmpty(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()
	caller := callerFor(t, "user-a")

	list, err := svc.List(ctx, caller)
	require.NoError(t, err)
	assert.NotNil(t, list)
	assert.Empty(t, list)

	for _, n := range []string{"Wheat", "Rice", "Cotton"} {
		in := wheatInput()
		in.Name = str(n)
		_, err := svc.Create(ctx, caller, in)
		require.NoError(t, err)
	}
	list, err = svc.List(ctx, caller)
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, []string{"Cotton", "Rice", "Wheat"}, []string{list[0].Name, list[1].Name, list[2].Name})
}

func TestStorageErrorPropagates(t *testing.T) {
	svc, store, _ := newTestService()
	store.err = errors.New("connection refused")

	_, err := svc.Create(context.Background(), callerFor(t, "user-a"), wheatInput())
	var se *utils.StorageError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, 500, utils.StatusFor(err))

	_, err = svc.List(context.Background(), callerFor(t, "user-a"))
	assert.ErrorAs(t, err, &se)
}
