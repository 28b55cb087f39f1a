package handler

import (
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/nestbio/linko/internal/model/dto"
	"github.com/nestbio/linko/internal/pkg/response"
	"github.com/nestbio/linko/internal/repository"
	"github.com/nestbio/linko/internal/service"
	"github.com/nestbio/linko/internal/testutil"
)

func setupUserHandler(t *testing.T) (*UserHandler, *gorm.DB) {
	t.Helper()

	db := testutil.SetupTestDB(t)
	t.Cleanup(func() { testutil.CleanupTestDB(t, db) })

	templateService := service.NewTemplateService()
	userService := service.NewUserService(
		repository.NewUserRepository(db),
		templateService,
		nil,
	)
	return NewUserHandler(userService, templateService), db
}

func TestUserHandler_GetProfile(t *testing.T) {
	handler, db := setupUserHandler(t)
	user := testutil.TestUser(t, db)

	router := gin.New()
	router.Use(mockAuth(user.ID))
	router.GET("/user/profile", handler.GetProfile)

	w := performRequest(router, "GET", "/user/profile", nil)
	resp := parseResponse(t, w)
	require.Equal(t, response.CodeSuccess, resp.Code)

	data, ok := resp.Data.(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, user.Username, data["username"])
}

func TestUserHandler_UpdateProfile(t *testing.T) {
	handler, db := setupUserHandler(t)
	user := testutil.TestUser(t, db)

	router := gin.New()
	router.Use(mockAuth(user.ID))
	router.PUT("/user/profile", handler.UpdateProfile)

	bio := "Building things on the internet"
	w := performRequest(router, "PUT", "/user/profile", dto.UpdateProfileRequest{Bio: &bio})
	resp := parseResponse(t, w)
	require.Equal(t, response.CodeSuccess, resp.Code)

	data, ok := resp.Data.(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, bio, data["bio"])
}

func TestUserHandler_ListTemplates(t *testing.T) {
	handler, db := setupUserHandler(t)
	user := testutil.TestUser(t, db)

	router := gin.New()
	router.Use(mockAuth(user.ID))
	router.GET("/user/templates", handler.ListTemplates)

	w := performRequest(router, "GET", "/user/templates", nil)
	resp := parseResponse(t, w)
	require.Equal(t, response.CodeSuccess, resp.Code)

	items, ok := resp.Data.([]interface{})
	require.True(t, ok)
	assert.Len(t, items, 4)
}

func TestUserHandler_SetTemplate_PremiumGated(t *testing.T) {
	handler, db := setupUserHandler(t)
	user := testutil.TestUser(t, db)

	router := gin.New()
	router.Use(mockAuth(user.ID))
	router.PUT("/user/template", handler.SetTemplate)

	w := performRequest(router, "PUT", "/user/template", dto.SetTemplateRequest{TemplateID: "ocean-depths"})
	resp := parseResponse(t, w)
	assert.Equal(t, response.CodePermissionDenied, resp.Code)

	w = performRequest(router, "PUT", "/user/template", dto.SetTemplateRequest{TemplateID: "island-minimal"})
	resp = parseResponse(t, w)
	assert.Equal(t, response.CodeSuccess, resp.Code)
}
