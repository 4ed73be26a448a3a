// Package schemes serves the catalogue of government support schemes.
package schemes

import (
	"context"
	"errors"
	"time"

	"harvesthub/models"
	"harvesthub/utils"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// AllIndia in TargetStates makes a scheme match every state filter.
const AllIndia = "All India"

var Categories = []string{"Credit", "Insurance", "Subsidy", "Support", "Training", "Equipment"}

// Filter narrows the active schemes. Zero fields do not filter.
type Filter struct {
	State        string
	Category     string
	LandSize     *float64
	DeadlineFrom *time.Time
	Limit        int64
}

// BSON renders the filter. The state and land clauses are both
// disjunctions, so they are joined under $and.
func (f Filter) BSON() bson.M {
	q := bson.M{"isActive": true}
	var and bson.A
	if f.State != "" {
		and = append(and, bson.M{"$or": bson.A{
			bson.M{"targetStates": AllIndia},
			bson.M{"targetStates": f.State},
		}})
	}
	if f.Category != "" {
		q["category"] = f.Category
	}
	if f.LandSize != nil {
		land := *f.LandSize
		q["minLandRequirement"] = bson.M{"$lte": land}
		and = append(and, bson.M{"$or": bson.A{
			bson.M{"maxLandRequirement": nil},
			bson.M{"maxLandRequirement": bson.M{"$gte": land}},
		}})
	}
	if f.DeadlineFrom != nil {
		q["applicationDeadline"] = bson.M{"$gte": *f.DeadlineFrom}
	}
	if len(and) > 0 {
		q["$and"] = and
	}
	return q
}

type Store interface {
	// List returns matching schemes, earliest deadline first.
	List(ctx context.Context, f Filter) ([]models.Scheme, error)
	Get(ctx context.Context, id string) (*models.Scheme, error)
	Count(ctx context.Context) (int64, error)
	InsertMany(ctx context.Context, schemes []models.Scheme) error
}

type MongoStore struct {
	coll *mongo.Collection
}

func NewMongoStore(coll *mongo.Collection) *MongoStore {
	return &MongoStore{coll: coll}
}

func (s *MongoStore) EnsureIndexes(ctx context.Context) error {
	_, err := s.coll.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "isActive", Value: 1}, {Key: "applicationDeadline", Value: 1}}},
		{Keys: bson.D{{Key: "targetStates", Value: 1}}},
	})
	if err != nil {
		return utils.Storage("create scheme indexes", err)
	}
	return nil
}

func (s *MongoStore) List(ctx context.Context, f Filter) ([]models.Scheme, error) {
	opts := options.Find().SetSort(bson.D{{Key: "applicationDeadline", Value: 1}})
	if f.Limit > 0 {
		opts.SetLimit(f.Limit)
	}
	cursor, err := s.coll.Find(ctx, f.BSON(), opts)
	if err != nil {
		return nil, utils.Storage("find schemes", err)
	}
	defer cursor.Close(ctx)

	out := []models.Scheme{}
	if err := cursor.All(ctx, &out); err != nil {
		return nil, utils.Storage("decode schemes", err)
	}
	return out, nil
}

func (s *MongoStore) Get(ctx context.Context, id string) (*models.Scheme, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, utils.NotFound("Scheme")
	}
	var sc models.Scheme
	err = s.coll.FindOne(ctx, bson.M{"_id": oid}).Decode(&sc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, utils.NotFound("Scheme")
	}
	if err != nil {
		return nil, utils.Storage("find scheme", err)
	}
	return &sc, nil
}

func (s *MongoStore) Count(ctx context.Context) (int64, error) {
	n, err := s.coll.CountDocuments(ctx, bson.M{})
	if err != nil {
		return 0, utils.Storage("count schemes", err)
	}
	return n, nil
}

func (s *MongoStore) InsertMany(ctx context.Context, schemes []models.Scheme) error {
	docs := make([]interface{}, len(schemes))
	for i := range schemes {
		if schemes[i].ID.IsZero() {
			schemes[i].ID = primitive.NewObjectID()
		}
		docs[i] = schemes[i]
	}
	if _, err := s.coll.InsertMany(ctx, docs); err != nil {
		return utils.Storage("insert schemes", err)
	}
	return nil
}
