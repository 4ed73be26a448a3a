package crops

import (
	"context"
	"sort"
	"sync"
	"time"

	"harvesthub/models"
	"harvesthub/utils"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// memStore mirrors MongoStore's ownership and soft-delete rules in memory.
type memStore struct {
	mu    sync.Mutex
	recs  map[primitive.ObjectID]models.CropRecord
	clock time.Time
	err   error
}

func newMemStore() *memStore {
	return &memStore{
		recs:  make(map[primitive.ObjectID]models.CropRecord),
		clock: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
	}
}

func (m *memStore) tick() time.Time {
	m.clock = m.clock.Add(time.Second)
	return m.clock
}

func (m *memStore) ListActive(_ context.Context, ownerID string) ([]models.CropRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, utils.Storage("find crops", m.err)
	}
	out := []models.CropRecord{}
	for _, r := range m.recs {
		if r.OwnerID == ownerID && r.IsActive {
			out = append(out, r)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (m *memStore) Insert(_ context.Context, rec *models.CropRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return utils.Storage("insert crop", m.err)
	}
	now := m.tick()
	rec.ID = primitive.NewObjectID()
	rec.CreatedAt = now
	rec.UpdatedAt = now
	m.recs[rec.ID] = *rec
	return nil
}

func (m *memStore) Get(_ context.Context, ownerID, id string) (*models.CropRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, utils.NotFound("Crop")
	}
	r, ok := m.recs[oid]
	if !ok || r.OwnerID != ownerID {
		return nil, utils.NotFound("Crop")
	}
	return &r, nil
}

func (m *memStore) Replace(_ context.Context, rec *models.CropRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return utils.Storage("replace crop", m.err)
	}
	cur, ok := m.recs[rec.ID]
	if !ok || cur.OwnerID != rec.OwnerID {
		return utils.NotFound("Crop")
	}
	rec.UpdatedAt = m.tick()
	m.recs[rec.ID] = *rec
	return nil
}

func (m *memStore) Deactivate(_ context.Context, ownerID, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return utils.NotFound("Crop")
	}
	r, ok := m.recs[oid]
	if !ok || r.OwnerID != ownerID {
		return utils.NotFound("Crop")
	}
	r.IsActive = false
	r.UpdatedAt = m.tick()
	m.recs[oid] = r
	return nil
}

// raw looks a record up regardless of owner or activity.
func (m *memStore) raw(id string) (models.CropRecord, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return models.CropRecord{}, false
	}
	r, ok := m.recs[oid]
	return r, ok
}

func (m *memStore) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.recs)
}
