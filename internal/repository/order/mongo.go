package order

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

// NewMongo returns a Repository backed by the "orders" collection.
func NewMongo(db *mongo.Database, logger *log.Logger) Repository {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &mongoRepo{collection: db.Collection("orders"), logger: logger}
}

func (m *mongoRepo) Create(ctx context.Context, o domain.Order) (*domain.Order, error) {
	o.Items = o.Unresolved()
	o.User = nil
	if o.CreatedAt.IsZero() {
		o.CreatedAt = time.Now().UTC()
	}
	if _, err := m.collection.InsertOne(ctx, o); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, domain.ErrAlreadyExists
		}
		m.logger.Printf("order repo: create id=%s error=%v", o.ID, err)
		return nil, fmt.Errorf("insert order: %w", err)
	}
	return m.GetByID(ctx, o.ID)
}

func (m *mongoRepo) GetByID(ctx context.Context, id string) (*domain.Order, error) {
	var o domain.Order
	err := m.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&o)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrNotFound
		}
		m.logger.Printf("order repo: get id=%s error=%v", id, err)
		return nil, fmt.Errorf("get order: %w", err)
	}
	return &o, nil
}

func (m *mongoRepo) UpdateStatus(ctx context.Context, id string, u StatusUpdate) error {
	set := bson.M{"status": u.Status}
	if u.ApprovedBy != "" {
		set["approvedBy"] = u.ApprovedBy
	}
	if u.ApprovedAt != nil {
		set["approvedAt"] = *u.ApprovedAt
	}
	if u.CompletedAt != nil {
		set["completedAt"] = *u.CompletedAt
	}
	res, err := m.collection.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": set})
	if err != nil {
		m.logger.Printf("order repo: update status id=%s status=%s error=%v", id, u.Status, err)
		return fmt.Errorf("update status: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (m *mongoRepo) UpdateReceipt(ctx context.Context, id, pointer, html string) error {
	set := bson.M{}
	if pointer != "" {
		set["receipt"] = pointer
	}
	if html != "" {
		set["receiptHtml"] = html
	}
	if len(set) == 0 {
		_, err := m.GetByID(ctx, id)
		return err
	}
	res, err := m.collection.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": set})
	if err != nil {
		m.logger.Printf("order repo: update receipt id=%s error=%v", id, err)
		return fmt.Errorf("update receipt: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (m *mongoRepo) ListByUser(ctx context.Context, userID string) ([]domain.Order, error) {
	return m.find(ctx, bson.M{"user": userID})
}

func (m *mongoRepo) ListAll(ctx context.Context) ([]domain.Order, error) {
	return m.find(ctx, bson.M{})
}

func (m *mongoRepo) find(ctx context.Context, filter bson.M) ([]domain.Order, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cur, err := m.collection.Find(ctx, filter, opts)
	if err != nil {
		m.logger.Printf("order repo: list error=%v", err)
		return nil, fmt.Errorf("list orders: %w", err)
	}
	out := make([]domain.Order, 0)
	if err := cur.All(ctx, &out); err != nil {
		return nil, fmt.Errorf("decode orders: %w", err)
	}
	return out, nil
}
