package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
	"gorm.io/gorm"

	"user-registration-service/internal/domain/user"
	apperrors "user-registration-service/pkg/errors"
	"user-registration-service/pkg/security"
)

func setupTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	require.NoError(t, err)

	// Migrate the schema
	err = db.AutoMigrate(&UserSchema{})
	require.NoError(t, err)

	return db
}

func newTestRepo(t *testing.T) *UserRepoPG {
	return NewUserRepoPG(setupTestDB(t), zaptest.NewLogger(t))
}

func testUser() *user.User {
	return &user.User{
		ID:        uuid.New().String(),
		FirstName: "John",
		LastName:  "Doe",
		Email:     "john@example.com",
		Password:  "secret123",
		DOB:       time.Date(1990, 5, 1, 0, 0, 0, 0, time.UTC),
		Gender:    user.GenderMale,
		Hobbies:   []string{"chess", "running"},
		Photo:     "user-photos/123-avatar.png",
	}
}

func TestCreate_HashesPassword(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	created, err := repo.Create(ctx, testUser())
	require.NoError(t, err)

	assert.NotEqual(t, "secret123", created.Password)
	assert.NoError(t, security.VerifyPassword("secret123", created.Password))
	assert.Equal(t, []string{"chess", "running"}, created.Hobbies)
}

func TestCreate_NormalizesEmail(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	u := testUser()
	u.Email = "  John.Doe@Example.COM "

	created, err := repo.Create(ctx, u)
	require.NoError(t, err)
	assert.Equal(t, "john.doe@example.com", created.Email)

	found, err := repo.GetByEmail(ctx, "JOHN.DOE@example.com")
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, created.ID, found.ID)
}

func TestCreate_DuplicateEmail(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	_, err := repo.Create(ctx, testUser())
	require.NoError(t, err)

	second := testUser()
	second.ID = uuid.New().String()
	_, err = repo.Create(ctx, second)
	require.Error(t, err)

	var exists *apperrors.AlreadyExistsError
	assert.ErrorAs(t, err, &exists)

	// The unique index leaves exactly one record for the email
	users, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Len(t, users, 1)
}

func TestCreate_ShortPassword(t *testing.T) {
	repo := newTestRepo(t)

	u := testUser()
	u.Password = "abc"
	_, err := repo.Create(context.Background(), u)

	var verr *apperrors.ValidationError
	assert.ErrorAs(t, err, &verr)
}

func TestCreate_DefaultsEmptyHobbies(t *testing.T) {
	repo := newTestRepo(t)

	u := testUser()
	u.Hobbies = nil
	created, err := repo.Create(context.Background(), u)
	require.NoError(t, err)
	assert.NotNil(t, created.Hobbies)
	assert.Empty(t, created.Hobbies)
}

func TestGetByEmail_Miss(t *testing.T) {
	repo := newTestRepo(t)

	found, err := repo.GetByEmail(context.Background(), "nobody@example.com")
	require.NoError(t, err)
	assert.Nil(t, found)
}

func TestGetByID_NotFound(t *testing.T) {
	repo := newTestRepo(t)

	_, err := repo.GetByID(context.Background(), uuid.New().String())

	var nf *apperrors.NotFoundError
	assert.ErrorAs(t, err, &nf)
}

func TestUpdate_PartialMerge(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	created, err := repo.Create(ctx, testUser())
	require.NoError(t, err)

	newName := "Jane"
	updated, err := repo.Update(ctx, created.ID, user.Patch{FirstName: &newName})
	require.NoError(t, err)

	assert.Equal(t, "Jane", updated.FirstName)
	assert.Equal(t, created.LastName, updated.LastName)
	assert.Equal(t, created.Photo, updated.Photo)
	// Password hash untouched when the patch carries no password
	assert.Equal(t, created.Password, updated.Password)
}

func TestUpdate_RehashesNewPassword(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	created, err := repo.Create(ctx, testUser())
	require.NoError(t, err)

	newPassword := "changed-secret"
	updated, err := repo.Update(ctx, created.ID, user.Patch{Password: &newPassword})
	require.NoError(t, err)

	assert.NotEqual(t, created.Password, updated.Password)
	assert.NoError(t, security.VerifyPassword("changed-secret", updated.Password))
}

func TestUpdate_NotFound(t *testing.T) {
	repo := newTestRepo(t)

	name := "Jane"
	_, err := repo.Update(context.Background(), uuid.New().String(), user.Patch{FirstName: &name})

	var nf *apperrors.NotFoundError
	assert.ErrorAs(t, err, &nf)
}

func TestDelete(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	created, err := repo.Create(ctx, testUser())
	require.NoError(t, err)

	require.NoError(t, repo.Delete(ctx, created.ID))

	var nf *apperrors.NotFoundError
	_, err = repo.GetByID(ctx, created.ID)
	assert.ErrorAs(t, err, &nf)

	err = repo.Delete(ctx, created.ID)
	assert.ErrorAs(t, err, &nf)
}

func TestList(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	first := testUser()
	second := testUser()
	second.ID = uuid.New().String()
	second.Email = "jane@example.com"

	_, err := repo.Create(ctx, first)
	require.NoError(t, err)
	_, err = repo.Create(ctx, second)
	require.NoError(t, err)

	users, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Len(t, users, 2)
}
