package store

import (
	"context"
	"testing"
	"time"

	"flowershop/internal/config"
	"flowershop/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go/modules/mongodb"
)

func TestOpen_UnknownDriver(t *testing.T) {
	_, err := Open(context.Background(), config.Config{StoreDriver: "sqlite"}, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "sqlite")
}

func TestOpen_MongoRoundTrip(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping container test in short mode")
	}
	ctx := context.Background()
	container, err := mongodb.Run(ctx, "mongo:7")
	if err != nil {
		t.Skipf("mongo container unavailable: %v", err)
	}
	t.Cleanup(func() { _ = container.Terminate(context.Background()) })

	uri, err := container.ConnectionString(ctx)
	require.NoError(t, err)

	s, err := Open(ctx, config.Config{StoreDriver: "mongo", MongoURI: uri, MongoDatabase: "flowers_store_test"}, nil)
	require.NoError(t, err)
	defer s.Close()

	require.NoError(t, s.Ping(ctx))
	assert.Equal(t, DriverMongo, s.Driver)

	_, err = s.Categories.Upsert(ctx, domain.Category{ID: "c-1", Name: "Roses", Slug: "roses"})
	require.NoError(t, err)
	_, err = s.Categories.Upsert(ctx, domain.Category{ID: "c-other", Name: "Red Roses", Slug: "roses"})
	require.NoError(t, err)

	got, err := s.Categories.GetBySlug(ctx, "roses")
	require.NoError(t, err)
	assert.Equal(t, "c-1", got.ID)
	assert.Equal(t, "Red Roses", got.Name)
	assert.WithinDuration(t, time.Now(), got.CreatedAt, time.Minute)
}
