package http

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	appsvc "goforum/internal/app"
	"goforum/internal/bootstrap"
	"goforum/internal/cache"
	"goforum/internal/repository"
	"goforum/internal/transport/http/handler"
	"goforum/internal/transport/http/middleware"
)

func NewRouter(app *bootstrap.App) *gin.Engine {
	gin.SetMode(app.Config.App.GinMode)
	router := gin.New()
	router.Use(gin.Logger(), gin.Recovery())
	router.Use(cors.New(cors.Config{
		AllowOrigins:     app.Config.App.AllowOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Length", "Content-Type", "Authorization"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	healthHandler := handler.NewHealthHandler(app)
	router.StaticFile("/", "web/index.html")
	router.StaticFile("/app.js", "web/app.js")
	router.StaticFile("/style.css", "web/style.css")
	router.GET("/healthz", healthHandler.Check)

	userRepo := repository.NewUserRepository(app.MySQL)
	categoryRepo := repository.NewCategoryRepository(app.MySQL)
	subforumRepo := repository.NewSubforumRepository(app.MySQL)
	threadRepo := repository.NewThreadRepository(app.MySQL)
	postRepo := repository.NewPostRepository(app.MySQL)

	listingCache := cache.NewListingCache(
		app.Redis,
		time.Duration(app.Config.Redis.ListingTTLSeconds)*time.Second,
	)

	authService := appsvc.NewAuthService(
		userRepo,
		app.Config.Auth.JWTSecret,
		time.Duration(app.Config.Auth.JWTExpireMinute)*time.Minute,
	)
	forumService := appsvc.NewForumService(categoryRepo, subforumRepo, threadRepo, postRepo, listingCache)

	authHandler := handler.NewAuthHandler(authService)
	forumHandler := handler.NewForumHandler(forumService)

	authRequired := middleware.AuthRequired(app.Config.Auth.JWTSecret, userRepo)

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

	// Subforum creation is admin-gated, matching category creation.
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

	return router
}
