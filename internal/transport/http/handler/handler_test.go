package handler

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"goforum/internal/app"
	"goforum/internal/model"
	"goforum/internal/repository"
	"goforum/internal/transport/http/middleware"
)

const testSecret = "handler-test-secret"

// newTestRouter wires the API the same way the server does, on an
// in-memory database and without a listing cache.
func newTestRouter(t *testing.T) (*gin.Engine, *gorm.DB) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(
		&model.User{},
		&model.Category{},
		&model.Subforum{},
		&model.Thread{},
		&model.Post{},
	))

	userRepo := repository.NewUserRepository(db)
	authService := app.NewAuthService(userRepo, testSecret, time.Hour)
	forumService := app.NewForumService(
		repository.NewCategoryRepository(db),
		repository.NewSubforumRepository(db),
		repository.NewThreadRepository(db),
		repository.NewPostRepository(db),
		nil,
	)

	authHandler := NewAuthHandler(authService)
	forumHandler := NewForumHandler(forumService)
	authRequired := middleware.AuthRequired(testSecret, userRepo)

	gin.SetMode(gin.TestMode)
	router := gin.New()

	users := router.Group("/api/users")
	users.POST("/register", authHandler.Register)
	users.POST("/login", authHandler.Login)
	users.GET("/me", authRequired, authHandler.Me)
	users.PUT("/me", authRequired, authHandler.UpdateMe)
	users.DELETE("/me", authRequired, authHandler.DeleteMe)

	forum := router.Group("/api/forum")
	forum.GET("/categories", forumHandler.ListCategories)
	forum.GET("/categories/:id", forumHandler.GetCategory)
	forum.POST("/categories", authRequired, middleware.RequireAdmin(), forumHandler.CreateCategory)
	forum.POST("/subforums", authRequired, middleware.RequireAdmin(), forumHandler.CreateSubforum)
	forum.GET("/subforums/:id", forumHandler.GetSubforum)
	forum.GET("/subforums/category/:categoryId", forumHandler.GetSubforumsByCategory)
	forum.POST("/threads", authRequired, forumHandler.CreateThread)
	forum.GET("/threads/:id", forumHandler.GetThread)
	forum.DELETE("/threads/:id", authRequired, forumHandler.DeleteThread)
	forum.POST("/posts", authRequired, forumHandler.CreatePost)
	forum.PUT("/posts/:id", authRequired, forumHandler.UpdatePost)
	forum.DELETE("/posts/:id", authRequired, forumHandler.DeletePost)
	forum.GET("/search", forumHandler.Search)

	return router, db
}

func doJSON(router *gin.Engine, method, path, token string, body any) *httptest.ResponseRecorder {
	var payload *bytes.Buffer
	if body != nil {
		raw, _ := json.Marshal(body)
		payload = bytes.NewBuffer(raw)
	} else {
		payload = bytes.NewBuffer(nil)
	}
	req := httptest.NewRequest(method, path, payload)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func registerAndLogin(t *testing.T, router *gin.Engine, username string, isAdmin bool) string {
	t.Helper()

	rec := doJSON(router, http.MethodPost, "/api/users/register", "", gin.H{
		"username": username,
		"email":    username + "@example.com",
		"password": "password123",
		"isAdmin":  isAdmin,
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = doJSON(router, http.MethodPost, "/api/users/login", "", gin.H{
		"username": username,
		"password": "password123",
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	return decodeBody(t, rec)["token"].(string)
}

func TestRegisterValidation(t *testing.T) {
	router, _ := newTestRouter(t)

	rec := doJSON(router, http.MethodPost, "/api/users/register", "", gin.H{
		"username": "ab",
		"email":    "not-an-email",
		"password": "12345",
	})
	require.Equal(t, http.StatusBadRequest, rec.Code)

	var body struct {
		Errors []struct {
			Field   string `json:"field"`
			Message string `json:"message"`
		} `json:"errors"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Len(t, body.Errors, 3)

	fields := map[string]bool{}
	for _, fe := range body.Errors {
		fields[fe.Field] = true
		assert.NotEmpty(t, fe.Message)
	}
	assert.True(t, fields["Username"])
	assert.True(t, fields["Email"])
	assert.True(t, fields["Password"])
}

func TestRegisterConflict(t *testing.T) {
	router, _ := newTestRouter(t)
	registerAndLogin(t, router, "alice", false)

	rec := doJSON(router, http.MethodPost, "/api/users/register", "", gin.H{
		"username": "alice",
		"email":    "different@example.com",
		"password": "password123",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Username or email already exists", decodeBody(t, rec)["message"])
}

func TestMeEndpoint(t *testing.T) {
	router, _ := newTestRouter(t)
	token := registerAndLogin(t, router, "alice", false)

	t.Run("without a token", func(t *testing.T) {
		rec := doJSON(router, http.MethodGet, "/api/users/me", "", nil)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("with a token the hash is never serialized", func(t *testing.T) {
		rec := doJSON(router, http.MethodGet, "/api/users/me", token, nil)
		require.Equal(t, http.StatusOK, rec.Code)

		body := decodeBody(t, rec)
		assert.Equal(t, "alice", body["username"])
		assert.NotContains(t, rec.Body.String(), "password")
		assert.NotContains(t, rec.Body.String(), "hash")
	})
}

func TestAdminGating(t *testing.T) {
	router, _ := newTestRouter(t)
	userToken := registerAndLogin(t, router, "bob", false)
	adminToken := registerAndLogin(t, router, "root", true)

	category := gin.H{"name": "General", "description": "General talk"}

	t.Run("anonymous category create is 401", func(t *testing.T) {
		rec := doJSON(router, http.MethodPost, "/api/forum/categories", "", category)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("non-admin category create is 403", func(t *testing.T) {
		rec := doJSON(router, http.MethodPost, "/api/forum/categories", userToken, category)
		assert.Equal(t, http.StatusForbidden, rec.Code)
	})

	t.Run("admin category and subforum create succeed", func(t *testing.T) {
		rec := doJSON(router, http.MethodPost, "/api/forum/categories", adminToken, category)
		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
		categoryID := decodeBody(t, rec)["id"].(float64)

		rec = doJSON(router, http.MethodPost, "/api/forum/subforums", adminToken, gin.H{
			"name": "Chat", "description": "Anything", "categoryId": categoryID,
		})
		assert.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	})

	t.Run("subforum under a missing category is 404", func(t *testing.T) {
		rec := doJSON(router, http.MethodPost, "/api/forum/subforums", adminToken, gin.H{
			"name": "Chat", "description": "Anything", "categoryId": 9999,
		})
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestThreadAndPostFlow(t *testing.T) {
	router, db := newTestRouter(t)
	userToken := registerAndLogin(t, router, "alice", false)
	adminToken := registerAndLogin(t, router, "root", true)

	rec := doJSON(router, http.MethodPost, "/api/forum/categories", adminToken, gin.H{
		"name": "General", "description": "d",
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	categoryID := decodeBody(t, rec)["id"].(float64)

	rec = doJSON(router, http.MethodPost, "/api/forum/subforums", adminToken, gin.H{
		"name": "Chat", "description": "d", "categoryId": categoryID,
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	subforumID := decodeBody(t, rec)["id"].(float64)

	t.Run("short title is a field error", func(t *testing.T) {
		rec := doJSON(router, http.MethodPost, "/api/forum/threads", userToken, gin.H{
			"title": "ab", "content": "long enough opening post", "subforumId": subforumID,
		})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, rec.Body.String(), "Title")
	})

	rec = doJSON(router, http.MethodPost, "/api/forum/threads", userToken, gin.H{
		"title": "Hello world", "content": "the opening post content", "subforumId": subforumID,
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	threadID := decodeBody(t, rec)["id"].(float64)

	t.Run("thread page includes the initial post", func(t *testing.T) {
		rec := doJSON(router, http.MethodGet, fmt.Sprintf("/api/forum/threads/%.0f", threadID), "", nil)
		require.Equal(t, http.StatusOK, rec.Code)

		body := decodeBody(t, rec)
		posts := body["posts"].([]any)
		require.Len(t, posts, 1)
		assert.Equal(t, float64(1), body["currentPage"])
		assert.Equal(t, float64(1), body["totalItems"])
	})

	t.Run("anonymous post create is 401", func(t *testing.T) {
		rec := doJSON(router, http.MethodPost, "/api/forum/posts", "", gin.H{
			"content": "reply", "threadId": threadID,
		})
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("thread delete cascades to posts", func(t *testing.T) {
		rec := doJSON(router, http.MethodDelete, fmt.Sprintf("/api/forum/threads/%.0f", threadID), userToken, nil)
		require.Equal(t, http.StatusOK, rec.Code)

		var postCount int64
		require.NoError(t, db.Model(&model.Post{}).Where("thread_id = ?", uint(threadID)).Count(&postCount).Error)
		assert.Zero(t, postCount)

		rec = doJSON(router, http.MethodGet, fmt.Sprintf("/api/forum/threads/%.0f", threadID), "", nil)
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestListQueryValidation(t *testing.T) {
	router, _ := newTestRouter(t)

	t.Run("limit above the cap is rejected", func(t *testing.T) {
		rec := doJSON(router, http.MethodGet, "/api/forum/categories?limit=250", "", nil)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("zero page is rejected", func(t *testing.T) {
		rec := doJSON(router, http.MethodGet, "/api/forum/categories?page=0", "", nil)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("defaults apply when omitted", func(t *testing.T) {
		rec := doJSON(router, http.MethodGet, "/api/forum/categories", "", nil)
		require.Equal(t, http.StatusOK, rec.Code)

		body := decodeBody(t, rec)
		assert.Equal(t, float64(1), body["currentPage"])
	})
}

func TestSearchEndpoint(t *testing.T) {
	router, _ := newTestRouter(t)

	t.Run("missing query is 400", func(t *testing.T) {
		rec := doJSON(router, http.MethodGet, "/api/forum/search", "", nil)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("empty result keeps both lists present", func(t *testing.T) {
		rec := doJSON(router, http.MethodGet, "/api/forum/search?q=nothing", "", nil)
		require.Equal(t, http.StatusOK, rec.Code)

		body := decodeBody(t, rec)
		assert.NotNil(t, body["threads"])
		assert.NotNil(t, body["posts"])
		assert.Equal(t, float64(0), body["totalItems"])
	})
}
