package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/nestbio/linko/internal/model/dto"
	"github.com/nestbio/linko/internal/repository"
	"github.com/nestbio/linko/internal/testutil"
)

func setupUserService(t *testing.T) (*UserService, *gorm.DB) {
	t.Helper()

	db := testutil.SetupTestDB(t)
	t.Cleanup(func() { testutil.CleanupTestDB(t, db) })

	svc := NewUserService(
		repository.NewUserRepository(db),
		NewTemplateService(),
		nil, // no object storage in unit tests
	)
	return svc, db
}

func TestUserService_GetProfile(t *testing.T) {
	svc, db := setupUserService(t)
	user := testutil.TestUser(t, db)

	info, err := svc.GetProfile(user.ID)
	require.NoError(t, err)
	assert.Equal(t, user.Username, info.Username)
	assert.Equal(t, "island-minimal", info.TemplateID)

	_, err = svc.GetProfile(99999)
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestUserService_UpdateProfile_Partial(t *testing.T) {
	svc, db := setupUserService(t)
	user := testutil.TestUser(t, db)

	info, err := svc.UpdateProfile(user.ID, &dto.UpdateProfileRequest{
		Bio:              strPtr("Sharing everything I make"),
		ShowViewCount:    boolPtr(false),
		SensitiveContent: boolPtr(true),
	})
	require.NoError(t, err)
	assert.Equal(t, "Sharing everything I make", info.Bio)
	assert.False(t, info.ShowViewCount)
	assert.True(t, info.SensitiveContent)
	// untouched fields survive
	assert.Equal(t, user.Username, info.Username)
}

func TestUserService_UpdateProfile_UsernameTaken(t *testing.T) {
	svc, db := setupUserService(t)
	testutil.TestUser(t, db, testutil.WithUsername("taken"))
	user := testutil.TestUser(t, db)

	_, err := svc.UpdateProfile(user.ID, &dto.UpdateProfileRequest{Username: strPtr("taken")})
	assert.ErrorIs(t, err, ErrUsernameExists)
}

func TestUserService_UpdateProfile_UsernameNormalized(t *testing.T) {
	svc, db := setupUserService(t)
	user := testutil.TestUser(t, db)

	info, err := svc.UpdateProfile(user.ID, &dto.UpdateProfileRequest{Username: strPtr("  NewName ")})
	require.NoError(t, err)
	assert.Equal(t, "newname", info.Username)
}

func TestUserService_SetTemplate_Free(t *testing.T) {
	svc, db := setupUserService(t)
	user := testutil.TestUser(t, db)

	info, err := svc.SetTemplate(user.ID, "island-minimal")
	require.NoError(t, err)
	assert.Equal(t, "island-minimal", info.TemplateID)
}

func TestUserService_SetTemplate_PremiumGated(t *testing.T) {
	svc, db := setupUserService(t)
	free := testutil.TestUser(t, db)
	premium := testutil.TestUser(t, db, testutil.WithPremium())

	_, err := svc.SetTemplate(free.ID, "sunset-vibes")
	assert.ErrorIs(t, err, ErrTemplatePremium)

	info, err := svc.SetTemplate(premium.ID, "sunset-vibes")
	require.NoError(t, err)
	assert.Equal(t, "sunset-vibes", info.TemplateID)
}

func TestUserService_SetTemplate_Unknown(t *testing.T) {
	svc, db := setupUserService(t)
	user := testutil.TestUser(t, db)

	_, err := svc.SetTemplate(user.ID, "neon-void")
	assert.ErrorIs(t, err, ErrTemplateNotFound)
}

func TestUserService_UploadAvatar_Validation(t *testing.T) {
	svc, db := setupUserService(t)
	user := testutil.TestUser(t, db)

	_, err := svc.UploadAvatar(user.ID, []byte("data"), ".exe")
	assert.ErrorIs(t, err, ErrInvalidAvatarType)

	huge := make([]byte, maxAvatarSize+1)
	_, err = svc.UploadAvatar(user.ID, huge, ".png")
	assert.ErrorIs(t, err, ErrAvatarTooLarge)
}

func TestUserService_UploadAvatar_NoStorageConfigured(t *testing.T) {
	svc, db := setupUserService(t)
	user := testutil.TestUser(t, db)

	_, err := svc.UploadAvatar(user.ID, []byte("valid png bytes"), ".png")
	assert.ErrorIs(t, err, ErrStorageUnavailable)
}
