// Package store opens the configured backing database and builds its repositories.
package store

import (
	"context"
	"fmt"
	"log"

	"flowershop/internal/config"
	"flowershop/internal/db"
	"flowershop/internal/migrate"
	addonrepo "flowershop/internal/repository/addon"
	categoryrepo "flowershop/internal/repository/category"
	orderrepo "flowershop/internal/repository/order"
	productrepo "flowershop/internal/repository/product"
	userrepo "flowershop/internal/repository/user"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.mongodb.org/mongo-driver/mongo"
)

const (
	DriverPostgres = "postgres"
	DriverMongo    = "mongo"
)

// Store groups the repositories of one backing database.
type Store struct {
	Driver     string
	Orders     orderrepo.Repository
	Products   productrepo.Repository
	Categories categoryrepo.Repository
	AddOns     addonrepo.Repository
	Users      userrepo.Repository

	ping  func(ctx context.Context) error
	close func()
}

// Open connects to the database selected by cfg.StoreDriver.
func Open(ctx context.Context, cfg config.Config, logger *log.Logger) (*Store, error) {
	switch cfg.StoreDriver {
	case DriverPostgres, "":
		pool, err := db.Connect(ctx, cfg.DBConnString)
		if err != nil {
			return nil, err
		}
		return NewPostgres(pool, logger), nil
	case DriverMongo, "mongodb":
		database, err := db.ConnectMongo(ctx, cfg.MongoURI, cfg.MongoDatabase)
		if err != nil {
			return nil, err
		}
		s, err := NewMongo(ctx, database, logger)
		if err != nil {
			_ = database.Client().Disconnect(context.Background())
			return nil, err
		}
		return s, nil
	}
	return nil, fmt.Errorf("unknown STORE_DRIVER %q", cfg.StoreDriver)
}

// NewPostgres builds a Store on an open pool. Close closes the pool.
func NewPostgres(pool *pgxpool.Pool, logger *log.Logger) *Store {
	return &Store{
		Driver:     DriverPostgres,
		Orders:     orderrepo.NewPostgres(pool, logger),
		Products:   productrepo.NewPostgres(pool, logger),
		Categories: categoryrepo.NewPostgres(pool, logger),
		AddOns:     addonrepo.NewPostgres(pool, logger),
		Users:      userrepo.NewPostgres(pool, logger),
		ping:       pool.Ping,
		close:      pool.Close,
	}
}

// NewMongo builds a Store on an open database and applies its indexes. Close disconnects the client.
func NewMongo(ctx context.Context, database *mongo.Database, logger *log.Logger) (*Store, error) {
	if err := migrate.ApplyMongo(ctx, database); err != nil {
		return nil, err
	}
	client := database.Client()
	return &Store{
		Driver:     DriverMongo,
		Orders:     orderrepo.NewMongo(database, logger),
		Products:   productrepo.NewMongo(database, logger),
		Categories: categoryrepo.NewMongo(database, logger),
		AddOns:     addonrepo.NewMongo(database, logger),
		Users:      userrepo.NewMongo(database, logger),
		ping:       func(ctx context.Context) error { return client.Ping(ctx, nil) },
		close: func() {
			if err := client.Disconnect(context.Background()); err != nil && logger != nil {
				logger.Printf("store: disconnect mongo error=%v", err)
			}
		},
	}, nil
}

// Ping checks connectivity to the database.
func (s *Store) Ping(ctx context.Context) error {
	return s.ping(ctx)
}

// Close releases the connection.
func (s *Store) Close() {
	s.close()
}
