package addon

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"

	"flowershop/internal/domain"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type mongoRepo struct {
	collection *mongo.Collection
	logger     *log.Logger
}

// NewMongo returns a Repository backed by the "addons" collection.
func NewMongo(db *mongo.Database, logger *log.Logger) Repository {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &mongoRepo{collection: db.Collection("addons"), logger: logger}
}

func (m *mongoRepo) GetByID(ctx context.Context, id string) (*domain.AddOn, error) {
	var a domain.AddOn
	if err := m.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&a); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrNotFound
		}
		m.logger.Printf("addon repo: get id=%s error=%v", id, err)
		return nil, fmt.Errorf("get add-on: %w", err)
	}
	return &a, nil
}

func (m *mongoRepo) List(ctx context.Context) ([]domain.AddOn, error) {
	cur, err := m.collection.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "name", Value: 1}}))
	if err != nil {
		m.logger.Printf("addon repo: list error=%v", err)
		return nil, fmt.Errorf("list add-ons: %w", err)
	}
	out := make([]domain.AddOn, 0)
	if err := cur.All(ctx, &out); err != nil {
		return nil, fmt.Errorf("decode add-ons: %w", err)
	}
	return out, nil
}

func (m *mongoRepo) Upsert(ctx context.Context, a domain.AddOn) (*domain.AddOn, error) {
	update := bson.M{"$set": bson.M{
		"name":         a.Name,
		"price":        a.Price,
		"image":        a.Image,
		"customizable": a.Customizable,
	}}
	_, err := m.collection.UpdateOne(ctx, bson.M{"_id": a.ID}, update, options.Update().SetUpsert(true))
	if err != nil {
		m.logger.Printf("addon repo: upsert id=%s error=%v", a.ID, err)
		return nil, fmt.Errorf("upsert add-on: %w", err)
	}
	return m.GetByID(ctx, a.ID)
}
