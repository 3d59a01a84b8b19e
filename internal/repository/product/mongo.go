package product

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"time"

	"flowershop/internal/domain"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type mongoRepo struct {
	collection *mongo.Collection
	logger     *log.Logger
}

// NewMongo returns a Repository backed by the "products" collection.
func NewMongo(db *mongo.Database, logger *log.Logger) Repository {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &mongoRepo{collection: db.Collection("products"), logger: logger}
}

func (m *mongoRepo) List(ctx context.Context) ([]domain.Product, error) {
	cur, err := m.collection.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}}))
	if err != nil {
		m.logger.Printf("product repo: list error=%v", err)
		return nil, fmt.Errorf("list products: %w", err)
	}
	out := make([]domain.Product, 0)
	if err := cur.All(ctx, &out); err != nil {
		return nil, fmt.Errorf("decode products: %w", err)
	}
	return out, nil
}

func (m *mongoRepo) GetByID(ctx context.Context, id string) (*domain.Product, error) {
	return m.findOne(ctx, bson.M{"_id": id})
}

func (m *mongoRepo) Upsert(ctx context.Context, p domain.Product) (*domain.Product, error) {
	if p.CreatedAt.IsZero() {
		p.CreatedAt = time.Now().UTC()
	}
	update := bson.M{
		"$set": bson.M{
			"name":        p.Name,
			"price":       p.Price,
			"images":      p.Images,
			"category":    p.Category,
			"description": p.Description,
			"addOns":      p.AddOnIDs,
		},
		"$setOnInsert": bson.M{
			"_id":       p.ID,
			"createdAt": p.CreatedAt,
		},
	}
	_, err := m.collection.UpdateOne(ctx, bson.M{"slug": p.Slug}, update, options.Update().SetUpsert(true))
	if err != nil {
		m.logger.Printf("product repo: upsert slug=%s error=%v", p.Slug, err)
		return nil, fmt.Errorf("upsert product: %w", err)
	}
	return m.findOne(ctx, bson.M{"slug": p.Slug})
}

func (m *mongoRepo) findOne(ctx context.Context, filter bson.M) (*domain.Product, error) {
	var p domain.Product
	if err := m.collection.FindOne(ctx, filter).Decode(&p); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrNotFound
		}
		m.logger.Printf("product repo: find error=%v", err)
		return nil, fmt.Errorf("find product: %w", err)
	}
	return &p, nil
}
