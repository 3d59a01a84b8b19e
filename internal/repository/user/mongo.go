package user

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"strings"
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

// NewMongo returns a Repository backed by the "users" collection. Emails are stored lowercased.
func NewMongo(db *mongo.Database, logger *log.Logger) Repository {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &mongoRepo{collection: db.Collection("users"), logger: logger}
}

func (m *mongoRepo) GetByID(ctx context.Context, id string) (*domain.User, error) {
	return m.findOne(ctx, bson.M{"_id": id})
}

func (m *mongoRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	return m.findOne(ctx, bson.M{"email": strings.ToLower(strings.TrimSpace(email))})
}

func (m *mongoRepo) Upsert(ctx context.Context, u domain.User) (*domain.User, error) {
	if u.CreatedAt.IsZero() {
		u.CreatedAt = time.Now().UTC()
	}
	email := strings.ToLower(strings.TrimSpace(u.Email))
	update := bson.M{
		"$set": bson.M{
			"name":         u.Name,
			"passwordHash": u.PasswordHash,
			"role":         u.Role,
		},
		"$setOnInsert": bson.M{
			"_id":       u.ID,
			"createdAt": u.CreatedAt,
		},
	}
	_, err := m.collection.UpdateOne(ctx, bson.M{"email": email}, update, options.Update().SetUpsert(true))
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, domain.ErrAlreadyExists
		}
		m.logger.Printf("user repo: upsert email=%s error=%v", email, err)
		return nil, fmt.Errorf("upsert user: %w", err)
	}
	return m.GetByEmail(ctx, email)
}

func (m *mongoRepo) findOne(ctx context.Context, filter bson.M) (*domain.User, error) {
	var u domain.User
	if err := m.collection.FindOne(ctx, filter).Decode(&u); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrNotFound
		}
		m.logger.Printf("user repo: find error=%v", err)
		return nil, fmt.Errorf("find user: %w", err)
	}
	return &u, nil
}
