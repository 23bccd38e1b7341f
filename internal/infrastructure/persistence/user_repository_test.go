package persistence

import (
	"context"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/storefront/backend/internal/domain/identity"
	"github.com/storefront/backend/internal/domain/shared"
	"github.com/storefront/backend/internal/infrastructure/persistence/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestUser(t *testing.T, email string) (*identity.User, *identity.Profile) {
	t.Helper()
	user, err := identity.NewUser(email, "secret123", identity.DefaultMinPasswordLength)
	require.NoError(t, err)
	profile, err := identity.NewProfile(user.ID, user.Email, "Jane Doe")
	require.NoError(t, err)
	return user, profile
}

func TestGormUserRepository_CreateWithProfile(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	repo := NewGormUserRepository(db)
	profiles := NewGormProfileRepository(db)

	user, profile := newTestUser(t, "Jane@Example.com")
	require.NoError(t, repo.CreateWithProfile(ctx, user, profile))

	found, err := repo.FindByEmail(ctx, "  JANE@example.com ")
	require.NoError(t, err)
	assert.Equal(t, user.ID, found.ID)
	assert.False(t, found.IsEmailConfirmed())

	p, err := profiles.FindByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "Jane Doe", p.FullName)

	exists, err := repo.ExistsByEmail(ctx, "jane@example.com")
	require.NoError(t, err)
	assert.True(t, exists)

	t.Run("duplicate email maps to already registered", func(t *testing.T) {
		dup, dupProfile := newTestUser(t, "jane@example.com")
		err := repo.CreateWithProfile(ctx, dup, dupProfile)
		assert.ErrorIs(t, err, identity.ErrUserAlreadyExists)
	})
}

func TestGormUserRepository_Update(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	repo := NewGormUserRepository(db)

	user, profile := newTestUser(t, "sam@example.com")
	require.NoError(t, repo.CreateWithProfile(ctx, user, profile))

	user.ConfirmEmail()
	user.RecordSignIn()
	require.NoError(t, repo.Update(ctx, user))

	found, err := repo.FindByID(ctx, user.ID)
	require.NoError(t, err)
	assert.True(t, found.IsEmailConfirmed())
	assert.NotNil(t, found.LastSignInAt)

	missing, _ := newTestUser(t, "ghost@example.com")
	assert.ErrorIs(t, repo.Update(ctx, missing), shared.ErrNotFound)
}

func TestGormUserRepository_FindByID_NotFound(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewGormUserRepository(db)
	id := uuid.New()

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "users" WHERE id = $1 ORDER BY "users"."id" LIMIT $2`)).
		WithArgs(id, 1).
		WillReturnRows(sqlmock.NewRows([]string{"id", "email"}))

	_, err := repo.FindByID(context.Background(), id)
	assert.ErrorIs(t, err, shared.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGormAdminRepository_IsAdmin(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	repo := NewGormAdminRepository(db)

	admin := uuid.New()
	require.NoError(t, db.Create(&models.AdminUserModel{ID: admin, CreatedAt: baseTime}).Error)

	ok, err := repo.IsAdmin(ctx, admin)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = repo.IsAdmin(ctx, uuid.New())
	require.NoError(t, err)
	assert.False(t, ok)
}
