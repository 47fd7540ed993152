package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/charlesng35/storeadmin/internal/database/testutil"
	"github.com/charlesng35/storeadmin/internal/models"
)

func createUser(t *testing.T, db *gorm.DB, email string) *models.User {
	t.Helper()
	user := &models.User{Name: "User", Email: email, Password: "hash"}
	require.NoError(t, db.Create(user).Error)
	return user
}

func TestLocationsAreScopedToOwner(t *testing.T) {
	ctx := context.Background()
	db := testutil.MustOpenTestDB(t, testutil.WithAutoMigrate())
	repo, err := NewLocationRepository(db)
	require.NoError(t, err)

	owner := createUser(t, db, "owner@example.com")
	other := createUser(t, db, "other@example.com")

	location, err := repo.Create(ctx, owner.ID, LocationInput{
		Area:     ptr("Downtown"),
		Street:   ptr("Main Street"),
		Building: ptr("Tower A"),
	})
	require.NoError(t, err)
	require.Equal(t, owner.ID, location.UserID)

	mine, err := repo.List(ctx, owner.ID)
	require.NoError(t, err)
	require.Len(t, mine, 1)

	theirs, err := repo.List(ctx, other.ID)
	require.NoError(t, err)
	require.Empty(t, theirs)

	_, found, err := repo.FindByID(ctx, other.ID, location.ID)
	require.NoError(t, err)
	require.False(t, found)

	_, found, err = repo.Update(ctx, other.ID, location.ID, LocationInput{Area: ptr("Hijacked")}, UpdatePartial)
	require.NoError(t, err)
	require.False(t, found)

	_, found, err = repo.Delete(ctx, other.ID, location.ID)
	require.NoError(t, err)
	require.False(t, found)

	updated, found, err := repo.Update(ctx, owner.ID, location.ID, LocationInput{Area: ptr("Uptown")}, UpdatePartial)
	require.NoError(t, err)
	require.True(t, found)
	require.Equal(t, "Uptown", updated.Area)
	require.Equal(t, "Main Street", updated.Street)

	_, _, err = repo.Update(ctx, owner.ID, location.ID, LocationInput{Area: ptr("Uptown")}, UpdateFull)
	require.ErrorIs(t, err, ErrIncompleteUpdate)

	_, found, err = repo.Delete(ctx, owner.ID, location.ID)
	require.NoError(t, err)
	require.True(t, found)

	_, found, err = repo.FindByID(ctx, owner.ID, location.ID)
	require.NoError(t, err)
	require.False(t, found)
}

func TestLocationCreateValidation(t *testing.T) {
	ctx := context.Background()
	db := testutil.MustOpenTestDB(t, testutil.WithAutoMigrate())
	repo, err := NewLocationRepository(db)
	require.NoError(t, err)

	_, err = repo.Create(ctx, "user", LocationInput{Area: ptr("x")})
	require.ErrorIs(t, err, ErrIncompleteInput)

	_, err = repo.Create(ctx, "", LocationInput{Area: ptr("Area"), Street: ptr("Street"), Building: ptr("B1")})
	require.Error(t, err)

	_, err = NewLocationRepository(nil)
	require.Error(t, err)
}
