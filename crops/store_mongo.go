package crops

import (
	"context"
	"time"

	"harvesthub/models"
	"harvesthub/utils"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type MongoStore struct {
	coll *mongo.Collection
	now  func() time.Time
}

func NewMongoStore(coll *mongo.Collection) *MongoStore {
	return &MongoStore{coll: coll, now: func() time.Time { return time.Now().UTC() }}
}

// EnsureIndexes backs the owner-scoped list query.
func (s *MongoStore) EnsureIndexes(ctx context.Context) error {
	_, err := s.coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "userId", Value: 1}, {Key: "isActive", Value: 1}, {Key: "createdAt", Value: -1}},
	})
	if err != nil {
		return utils.Storage("create crop indexes", err)
	}
	return nil
}

func (s *MongoStore) ListActive(ctx context.Context, ownerID string) ([]models.CropRecord, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cursor, err := s.coll.Find(ctx, bson.M{"userId": ownerID, "isActive": true}, opts)
	if err != nil {
		return nil, utils.Storage("find crops", err)
	}
	defer cursor.Close(ctx)

	recs := []models.CropRecord{}
	if err := cursor.All(ctx, &recs); err != nil {
		return nil, utils.Storage("decode crops", err)
	}
	return recs, nil
}

func (s *MongoStore) Insert(ctx context.Context, rec *models.CropRecord) error {
	now := s.now()
	rec.ID = primitive.NewObjectID()
	rec.CreatedAt = now
	rec.UpdatedAt = now
	if _, err := s.coll.InsertOne(ctx, rec); err != nil {
		return utils.Storage("insert crop", err)
	}
	return nil
}

func (s *MongoStore) Get(ctx context.Context, ownerID, id string) (*models.CropRecord, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, utils.NotFound("Crop")
	}
	var rec models.CropRecord
	err = s.coll.FindOne(ctx, bson.M{"_id": oid, "userId": ownerID}).Decode(&rec)
	if err == mongo.ErrNoDocuments {
		return nil, utils.NotFound("Crop")
	}
	if err != nil {
		return nil, utils.Storage("find crop", err)
	}
	return &rec, nil
}

func (s *MongoStore) Replace(ctx context.Context, rec *models.CropRecord) error {
	rec.UpdatedAt = s.now()
	res, err := s.coll.ReplaceOne(ctx, bson.M{"_id": rec.ID, "userId": rec.OwnerID}, rec)
	if err != nil {
		return utils.Storage("replace crop", err)
	}
	if res.MatchedCount == 0 {
		return utils.NotFound("Crop")
	}
	return nil
}

func (s *MongoStore) Deactivate(ctx context.Context, ownerID, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return utils.NotFound("Crop")
	}
	res, err := s.coll.UpdateOne(ctx,
		bson.M{"_id": oid, "userId": ownerID},
		bson.M{"$set": bson.M{"isActive": false, "updatedAt": s.now()}})
	if err != nil {
		return utils.Storage("deactivate crop", err)
	}
	if res.MatchedCount == 0 {
		return utils.NotFound("Crop")
	}
	return nil
}

// FindByID ignores ownership and activity. It exists for audit tooling and
// tests that inspect soft-deleted records.
func (s *MongoStore) FindByID(ctx context.Context, id string) (*models.CropRecord, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, utils.NotFound("Crop")
	}
	var rec models.CropRecord
	err = s.coll.FindOne(ctx, bson.M{"_id": oid}).Decode(&rec)
	if err == mongo.ErrNoDocuments {
		return nil, utils.NotFound("Crop")
	}
	if err != nil {
		return nil, utils.Storage("find crop", err)
	}
	return &rec, nil
}
