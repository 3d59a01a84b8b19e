package category

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

const collectionName = "categories"

type mongoRepo struct {
	collection *mongo.Collection
	logger     *log.Logger
}

func NewMongo(db *mongo.Database, logger *log.Logger) Repository {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &mongoRepo{collection: db.Collection(collectionName), logger: logger}
}

func (m *mongoRepo) List(ctx context.Context) ([]domain.Category, error) {
	cur, err := m.collection.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "name", Value: 1}}))
	if err != nil {
		m.logger.Printf("category repo: list error=%v", err)
		return nil, fmt.Errorf("list categories: %w", err)
	}
	out := make([]domain.Category, 0)
	if err := cur.All(ctx, &out); err != nil {
		return nil, fmt.Errorf("decode categories: %w", err)
	}
	return out, nil
}

func (m *mongoRepo) GetBySlug(ctx context.Context, slug string) (*domain.Category, error) {
	var c domain.Category
	if err := m.collection.FindOne(ctx, bson.M{"slug": slug}).Decode(&c); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrNotFound
		}
		m.logger.Printf("category repo: get slug=%s error=%v", slug, err)
		return nil, fmt.Errorf("get category: %w", err)
	}
	return &c, nil
}

func (m *mongoRepo) Upsert(ctx context.Context, c domain.Category) (*domain.Category, error) {
	if c.CreatedAt.IsZero() {
		c.CreatedAt = time.Now().UTC()
	}
	set := bson.M{"name": c.Name}
	if c.Description != "" {
		set["description"] = c.Description
	}
	if c.BannerImage != "" {
		set["bannerImage"] = c.BannerImage
	}
	update := bson.M{
		"$set":         set,
		"$setOnInsert": bson.M{"_id": c.ID, "createdAt": c.CreatedAt},
	}
	_, err := m.collection.UpdateOne(ctx, bson.M{"slug": c.Slug}, update, options.Update().SetUpsert(true))
	if err != nil {
		m.logger.Printf("category repo: upsert slug=%s error=%v", c.Slug, err)
		return nil, fmt.Errorf("upsert category: %w", err)
	}
	return m.GetBySlug(ctx, c.Slug)
}
