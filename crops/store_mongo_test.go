package crops

import (
	"context"
	"os"
	"testing"
	"time"

	"harvesthub/models"
	"harvesthub/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func newMongoTestStore(t *testing.T) *MongoStore {
	t.Helper()
	uri := os.Getenv("HARVESTHUB_TEST_MONGO_URI")
	if uri == "" {
		t.Skip("HARVESTHUB_TEST_MONGO_URI not set")
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	require.NoError(t, err)
	coll := client.Database("harvesthub_test").Collection("crops_" + time.Now().Format("150405.000000"))
	t.Cleanup(func() {
		_ = coll.Drop(context.Background())
		_ = client.Disconnect(context.Background())
	})
	store := NewMongoStore(coll)
	require.NoError(t, store.EnsureIndexes(ctx))
	return store
}

func TestMongoStoreLifecycle(t *testing.T) {
	store := newMongoTestStore(t)
	ctx := context.Background()
	svc := NewService(store, nil)
	alice := callerFor(t, "user-a")

	created, err := svc.Create(ctx, alice, wheatInput())
	require.NoError(t, err)
	assert.Equal(t, 2.5, mustFind(t, store, created.ID).AreaAcres)

	_, err = svc.Update(ctx, alice, created.ID, Input{CurrentStage: str("Flowering")})
	require.NoError(t, err)
	assert.Equal(t, 75, mustFind(t, store, created.ID).Progress)

	var ne *utils.NotFoundError
	_, err = svc.Update(ctx, callerFor(t, "user-b"), created.ID, Input{Notes: str("x")})
	assert.ErrorAs(t, err, &ne)

	require.NoError(t, svc.Delete(ctx, alice, created.ID))
	list, err := svc.List(ctx, alice)
	require.NoError(t, err)
	assert.Empty(t, list)

	rec := mustFind(t, store, created.ID)
	assert.False(t, rec.IsActive)
	assert.Equal(t, "user-a", rec.OwnerID)
}

func mustFind(t *testing.T, store *MongoStore, id string) *models.CropRecord {
	t.Helper()
	rec, err := store.FindByID(context.Background(), id)
	require.NoError(t, err)
	return rec
}
