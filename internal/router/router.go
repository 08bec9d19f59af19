package router

import (
	_ "embed"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/ikkim/gamecatalog-backend/config"
	"github.com/ikkim/gamecatalog-backend/internal/app/controller"
	"github.com/ikkim/gamecatalog-backend/internal/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

//go:embed openapi.json
var openAPIDocument []byte

const openAPIPath = "/api/openapi.json"

type Router struct {
	authController      *controller.AuthController
	userController      *controller.UserController
	genreController     *controller.GenreController
	publisherController *controller.PublisherController
	developerController *controller.DeveloperController
	platformController  *controller.PlatformController
	gameController      *controller.GameController
	authMiddleware      *middleware.AuthMiddleware
	config              *config.Config
}

func NewRouter(
	authController *controller.AuthController,
	userController *controller.UserController,
	genreController *controller.GenreController,
	publisherController *controller.PublisherController,
	developerController *controller.DeveloperController,
	platformController *controller.PlatformController,
	gameController *controller.GameController,
	authMiddleware *middleware.AuthMiddleware,
	cfg *config.Config,
) *Router {
	return &Router{
		authController:      authController,
		userController:      userController,
		genreController:     genreController,
		publisherController: publisherController,
		developerController: developerController,
		platformController:  platformController,
		gameController:      gameController,
		authMiddleware:      authMiddleware,
		config:              cfg,
	}
}

func (r *Router) Setup() *gin.Engine {
	gin.SetMode(r.config.Server.GinMode)

	router := gin.New()

	router.Use(gin.Recovery())
	router.Use(middleware.LoggingMiddleware())
	router.Use(middleware.MetricsMiddleware())
	router.Use(cors.New(corsConfig(r.config.CORS.AllowedOrigins)))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "healthy",
			"message": "Game catalog API is running",
		})
	})
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	router.GET(openAPIPath, func(c *gin.Context) {
		c.Data(http.StatusOK, "application/json; charset=utf-8", openAPIDocument)
	})
	router.GET("/api/openapi/*any", ginSwagger.WrapHandler(swaggerFiles.Handler, ginSwagger.URL(openAPIPath)))

	authenticated := r.authMiddleware.Authenticate()
	staffOnly := r.authMiddleware.RequireStaff()

	v1 := router.Group("/api/v1")
	{
		authorization := v1.Group("/authorization")
		{
			authorization.POST("/token", r.authController.Token)
			authorization.POST("/auth", r.authController.Auth)
		}

		users := v1.Group("/users")
		{
			users.POST("/", r.authController.Register)
			users.POST("/forget-password", r.authController.ForgetPassword)
			users.GET("/reset-password/:reset_code", r.authController.ExchangeResetCode)
			users.PATCH("/reset-password",
				r.authMiddleware.AuthenticateResetSession(),
				r.authController.ResetPassword,
			)
			users.PATCH("/change-password", authenticated, r.authController.ChangePassword)

			users.GET("/", authenticated, staffOnly, r.userController.List)
			users.GET("/me", authenticated, r.userController.GetMe)
			users.PATCH("/me", authenticated, r.userController.UpdateMe)
			users.GET("/:id", authenticated, r.userController.Get)
			users.PATCH("/:id", authenticated, r.userController.Update)
			users.DELETE("/:id", authenticated, r.userController.Delete)
		}

		genres := v1.Group("/genres")
		genres.Use(authenticated)
		{
			genres.GET("/", r.genreController.List)
			genres.GET("/slug/:slug", r.genreController.GetBySlug)
			genres.GET("/:id", r.genreController.Get)
			genres.POST("/", staffOnly, r.genreController.Create)
			genres.PATCH("/:id", staffOnly, r.genreController.Update)
			genres.DELETE("/:id", staffOnly, r.genreController.Delete)
		}

		publishers := v1.Group("/publishers")
		publishers.Use(authenticated)
		{
			publishers.GET("/", r.publisherController.List)
			publishers.GET("/:id", r.publisherController.Get)
			publishers.POST("/", staffOnly, r.publisherController.Create)
			publishers.PATCH("/:id", staffOnly, r.publisherController.Update)
			publishers.DELETE("/:id", staffOnly, r.publisherController.Delete)
		}

		developers := v1.Group("/developers")
		developers.Use(authenticated)
		{
			developers.GET("/", r.developerController.List)
			developers.GET("/:id", r.developerController.Get)
			developers.POST("/", staffOnly, r.developerController.Create)
			developers.PATCH("/:id", staffOnly, r.developerController.Update)
			developers.DELETE("/:id", staffOnly, r.developerController.Delete)
		}

		platforms := v1.Group("/platforms")
		platforms.Use(authenticated)
		{
			platforms.GET("/", r.platformController.List)
			platforms.GET("/:id", r.platformController.Get)
			platforms.POST("/", staffOnly, r.platformController.Create)
			platforms.PATCH("/:id", staffOnly, r.platformController.Update)
			platforms.DELETE("/:id", staffOnly, r.platformController.Delete)
		}

		games := v1.Group("/games")
		games.Use(authenticated)
		{
			games.GET("/", r.gameController.List)
			games.GET("/:id", r.gameController.Get)
			games.POST("/", staffOnly, r.gameController.Create)
			games.PATCH("/:id", staffOnly, r.gameController.Update)
			games.DELETE("/:id", staffOnly, r.gameController.Delete)
			games.POST("/:id/cover", staffOnly, r.gameController.UploadCover)
		}
	}

	return router
}

func corsConfig(allowedOrigins []string) cors.Config {
	cfg := cors.DefaultConfig()
	if len(allowedOrigins) == 0 || allowedOrigins[0] == "*" {
		cfg.AllowAllOrigins = true
	} else {
		cfg.AllowOrigins = allowedOrigins
	}
	cfg.AllowMethods = []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"}
	cfg.AllowHeaders = []string{"Origin", "Content-Type", "Accept", "Authorization", middleware.RequestIDHeader}
	cfg.ExposeHeaders = []string{middleware.RequestIDHeader}
	// Browsers reject credentials combined with a wildcard origin.
	cfg.AllowCredentials = !cfg.AllowAllOrigins
	cfg.MaxAge = 12 * time.Hour
	return cfg
}
