package main

import (
	"context"
	"log"
	"os"

	"flowershop/internal/config"
	"flowershop/internal/db"
	"flowershop/internal/migrate"
	"flowershop/internal/store"
)

func main() {
	cfg := config.Load()
	logger := log.New(os.Stdout, "[migrate] ", log.LstdFlags|log.LUTC|log.Lshortfile)
	ctx := context.Background()

	switch cfg.StoreDriver {
	case store.DriverMongo, "mongodb":
		database, err := db.ConnectMongo(ctx, cfg.MongoURI, cfg.MongoDatabase)
		if err != nil {
			logger.Fatalf("connect mongo: %v", err)
		}
		defer database.Client().Disconnect(context.Background())

		if err := migrate.ApplyMongo(ctx, database); err != nil {
			logger.Fatalf("apply mongo indexes: %v", err)
		}
		logger.Printf("mongo indexes applied database=%s", cfg.MongoDatabase)
	default:
		pool, err := db.Connect(ctx, cfg.DBConnString)
		if err != nil {
			logger.Fatalf("connect db: %v", err)
		}
		defer pool.Close()

		if err := migrate.Apply(ctx, pool); err != nil {
			logger.Fatalf("apply migrations: %v", err)
		}
		version, dirty, err := migrate.Version(ctx, pool)
		if err != nil {
			logger.Fatalf("read schema version: %v", err)
		}
		logger.Printf("migrations applied version=%d dirty=%t", version, dirty)
	}
}
