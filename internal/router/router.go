package router

import (
	"github.com/gin-gonic/gin"
	"github.com/ratewise/ratewise-backend/config"
	"github.com/ratewise/ratewise-backend/internal/app/controller"
	"github.com/ratewise/ratewise-backend/internal/app/model"
	"github.com/ratewise/ratewise-backend/internal/middleware"
)

type Router struct {
	authController   *controller.AuthController
	storeController  *controller.StoreController
	ratingController *controller.RatingController
	userController   *controller.UserController
	uploadController *controller.UploadController
	authMiddleware   *middleware.AuthMiddleware
	config           *config.Config
}

func NewRouter(
	authController *controller.AuthController,
	storeController *controller.StoreController,
	ratingController *controller.RatingController,
	userController *controller.UserController,
	uploadController *controller.UploadController,
	authMiddleware *middleware.AuthMiddleware,
	cfg *config.Config,
) *Router {
	return &Router{
		authController:   authController,
		storeController:  storeController,
		ratingController: ratingController,
		userController:   userController,
		uploadController: uploadController,
		authMiddleware:   authMiddleware,
		config:           cfg,
	}
}

func (r *Router) Setup() *gin.Engine {
	gin.SetMode(r.config.Server.GinMode)

	router := gin.New()

	router.Use(gin.Recovery())
	router.Use(middleware.LoggingMiddleware())
	router.Use(corsMiddleware(r.config.CORS.AllowedOrigins))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "healthy",
			"message": "RateWise API is running",
		})
	})

	api := router.Group("/api")
	{
		auth := api.Group("/auth")
		{
			auth.POST("/register", r.authController.Register)
			auth.POST("/login", r.authController.Login)
			auth.GET("/profile", r.authMiddleware.Authenticate(), r.authController.GetProfile)
			auth.GET("/verify", r.authMiddleware.Authenticate(), r.authController.Verify)
			auth.PUT("/password", r.authMiddleware.Authenticate(), r.authController.UpdatePassword)
		}

		stores := api.Group("/stores")
		stores.Use(r.authMiddleware.Authenticate())
		{
			stores.GET("", r.storeController.List)
			stores.GET("/owner/dashboard",
				r.authMiddleware.RequireRole(model.RoleStoreOwner, model.RoleAdmin),
				r.storeController.OwnerDashboard,
			)
			stores.GET("/:id", r.storeController.Get)
			stores.POST("",
				r.authMiddleware.RequireRole(model.RoleAdmin),
				r.storeController.Create,
			)
			stores.PUT("/:id",
				r.authMiddleware.RequireRole(model.RoleAdmin),
				r.storeController.Update,
			)
			stores.DELETE("/:id",
				r.authMiddleware.RequireRole(model.RoleAdmin),
				r.storeController.Delete,
			)
		}

		ratings := api.Group("/ratings")
		ratings.Use(r.authMiddleware.Authenticate())
		{
			ratings.POST("", r.ratingController.Submit)
			ratings.GET("/my-ratings", r.ratingController.ListMine)
			ratings.GET("/store/:store_id", r.ratingController.GetForStore)
			ratings.DELETE("/store/:store_id", r.ratingController.Delete)
		}

		users := api.Group("/users")
		users.Use(r.authMiddleware.Authenticate())
		users.Use(r.authMiddleware.RequireRole(model.RoleAdmin))
		{
			users.GET("", r.userController.List)
			users.GET("/dashboard/stats", r.userController.Stats)
			users.GET("/:id", r.userController.Get)
			users.POST("", r.userController.Create)
			users.PUT("/:id", r.userController.Update)
			users.DELETE("/:id", r.userController.Delete)
		}

		uploads := api.Group("/uploads")
		uploads.Use(r.authMiddleware.Authenticate())
		uploads.Use(r.authMiddleware.RequireRole(model.RoleAdmin))
		{
			uploads.POST("/image-url", r.uploadController.GeneratePresignedURL)
		}
	}

	return router
}

func corsMiddleware(allowedOrigins []string) gin.HandlerFunc {
	return func(c *gin.Context) {
		origin := c.GetHeader("Origin")

		allowed := false
		for _, allowedOrigin := range allowedOrigins {
			if origin == allowedOrigin || allowedOrigin == "*" {
				allowed = true
				break
			}
		}

		if allowed {
			c.Writer.Header().Set("Access-Control-Allow-Origin", origin)
		}

		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization, accept, origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE, PATCH")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	}
}
