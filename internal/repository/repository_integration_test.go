//go:build integration
// +build integration

package repository_test

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcmysql "github.com/testcontainers/testcontainers-go/modules/mysql"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/renotrack/renovation-tracker/internal/config"
	"github.com/renotrack/renovation-tracker/internal/database"
	"github.com/renotrack/renovation-tracker/internal/model"
	"github.com/renotrack/renovation-tracker/internal/repository"
)

// setupTestDB starts a MySQL container, applies the schema and returns
// an open handle.
func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()
	ctx := context.Background()

	c, err := tcmysql.Run(ctx,
		"mysql:8.0.36",
		tcmysql.WithDatabase("renotrack"),
		tcmysql.WithUsername("renotrack"),
		tcmysql.WithPassword("renotrack"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("port: 3306  MySQL Community Server").
				WithStartupTimeout(90*time.Second)),
	)
	require.NoError(t, err, "start mysql container")
	t.Cleanup(func() {
		if err := c.Terminate(ctx); err != nil {
			t.Logf("terminate container: %v", err)
		}
	})

	dsn, err := c.ConnectionString(ctx)
	require.NoError(t, err)

	db, err := database.Open(ctx, config.Config{DSN: dsn})
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	require.NoError(t, database.Migrate(ctx, db))
	return db
}

func ptr[T any](v T) *T { return &v }

func TestRepositories(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	listings := repository.NewListingRepo(db)
	renos := repository.NewRenovationRepo(db)
	photos := repository.NewPhotoRepo(db)

	l := &model.Listing{
		URL:         ptr("https://www.redfin.com/CA/Oakland/123-Main-St/home/1"),
		Address:     "123 Main St, Oakland, CA 94610",
		Description: "Remodeled kitchen with new cabinets.",
		Price:       ptr(850000.0),
		Bedrooms:    ptr(3.0),
		YearBuilt:   ptr(1925),
		Photos:      []model.Photo{{URL: "https://img/1.jpg"}, {URL: "https://img/2.jpg"}},
	}
	require.NoError(t, listings.Create(ctx, l))
	require.NotZero(t, l.ID)
	require.Len(t, l.Photos, 2)
	assert.Equal(t, l.ID, l.Photos[0].ListingID)
	assert.False(t, l.CreatedAt.IsZero())

	t.Run("duplicate address", func(t *testing.T) {
		dup := &model.Listing{Address: l.Address, Photos: []model.Photo{{URL: "https://img/x.jpg"}}}
		err := listings.Create(ctx, dup)
		assert.ErrorIs(t, err, repository.ErrDuplicateAddress)
	})

	t.Run("detailed read", func(t *testing.T) {
		got, err := listings.GetDetailed(ctx, l.ID)
		require.NoError(t, err)
		assert.Equal(t, l.Address, got.Address)
		assert.Len(t, got.Photos, 2)
		assert.Empty(t, got.Renovations)
		require.NotNil(t, got.YearBuilt)
		assert.Equal(t, 1925, *got.YearBuilt)
		assert.Nil(t, got.Bathrooms)
	})

	t.Run("list pages", func(t *testing.T) {
		page, err := listings.List(ctx, 10, 0)
		require.NoError(t, err)
		assert.Len(t, page, 1)
		page, err = listings.List(ctx, 10, 1)
		require.NoError(t, err)
		assert.Empty(t, page)
	})

	t.Run("patch clears and sets", func(t *testing.T) {
		got, err := listings.Update(ctx, l.ID, model.ListingPatch{
			Price:     model.Null[float64](),
			Bathrooms: model.Of(2.5),
		})
		require.NoError(t, err)
		assert.Nil(t, got.Price)
		require.NotNil(t, got.Bathrooms)
		assert.Equal(t, 2.5, *got.Bathrooms)
		assert.Equal(t, l.Address, got.Address)
	})

	t.Run("renovation lifecycle", func(t *testing.T) {
		rn := &model.Renovation{ListingID: l.ID, Kitchen: true}
		require.NoError(t, renos.Create(ctx, rn))
		require.NotZero(t, rn.ID)

		got, err := renos.Update(ctx, rn.ID, model.RenovationPatch{Bathroom: model.Of(true)})
		require.NoError(t, err)
		assert.True(t, got.Kitchen)
		assert.True(t, got.Bathroom)

		list, err := renos.ListByListing(ctx, l.ID)
		require.NoError(t, err)
		assert.Len(t, list, 1)

		require.NoError(t, renos.Delete(ctx, rn.ID))
		assert.ErrorIs(t, renos.Delete(ctx, rn.ID), repository.ErrRenovationNotFound)
	})

	t.Run("orphan children rejected", func(t *testing.T) {
		err := renos.Create(ctx, &model.Renovation{ListingID: 999999})
		assert.ErrorIs(t, err, repository.ErrListingNotFound)
		err = photos.Create(ctx, &model.Photo{ListingID: 999999, URL: "https://img/orphan.jpg"})
		assert.ErrorIs(t, err, repository.ErrListingNotFound)
	})

	t.Run("room type written once", func(t *testing.T) {
		id := l.Photos[0].ID
		set, err := photos.SetRoomTypeIfNull(ctx, id, model.RoomKitchen)
		require.NoError(t, err)
		assert.True(t, set)

		set, err = photos.SetRoomTypeIfNull(ctx, id, model.RoomBedroom)
		require.NoError(t, err)
		assert.False(t, set)

		got, err := photos.GetByID(ctx, id)
		require.NoError(t, err)
		require.NotNil(t, got.RoomType)
		assert.Equal(t, model.RoomKitchen, *got.RoomType)
	})

	t.Run("delete cascades", func(t *testing.T) {
		require.NoError(t, renos.Create(ctx, &model.Renovation{ListingID: l.ID, Basement: true}))
		require.NoError(t, listings.Delete(ctx, l.ID))

		_, err := listings.GetByID(ctx, l.ID)
		assert.ErrorIs(t, err, repository.ErrListingNotFound)
		_, err = photos.GetByID(ctx, l.Photos[1].ID)
		assert.ErrorIs(t, err, repository.ErrPhotoNotFound)
		assert.ErrorIs(t, listings.Delete(ctx, l.ID), repository.ErrListingNotFound)
	})
}
