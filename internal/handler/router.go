package handler

import (
	"net/http"
	"time"

	"socialise/backend/internal/auth"
	"socialise/backend/internal/hub"
	"socialise/backend/internal/middleware"
	"socialise/backend/internal/service"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// RouterConfig carries what the HTTP layer needs beyond the services.
type RouterConfig struct {
	JWTSecret      string
	JWTTTL         time.Duration
	RateLimitRPS   float64
	RateLimitBurst int
}

// NewRouter builds the gin engine with every route of the API.
func NewRouter(cfg RouterConfig, svc *service.Services, broker hub.Broker, log *zap.Logger) *gin.Engine {
	router := gin.New()
	router.Use(middleware.TraceID(), middleware.Logger(log), middleware.Recovery(log))
	if cfg.RateLimitRPS > 0 {
		router.Use(middleware.RateLimit(rate.Limit(cfg.RateLimitRPS), cfg.RateLimitBurst))
	}

	// Swagger route
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Health check endpoint
	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})

	users := NewUserHandler(svc.Users, cfg.JWTSecret, cfg.JWTTTL)
	relations := NewRelationHandler(svc.Relationships)
	notifications := NewNotificationHandler(svc.Notifications, broker, log.Named("stream"))
	posts := NewPostHandler(svc.Posts)
	pictures := NewDisplayPictureHandler(svc.DisplayPictures)

	requireAuth := auth.Middleware(cfg.JWTSecret)
	self := auth.RequireSelf("userId")

	apiV1 := router.Group("/api/v1")
	{
		// Auth routes
		authRoutes := apiV1.Group("/auth")
		{
			authRoutes.POST("/register", users.Register)
			authRoutes.POST("/login", users.Login)
		}

		userRoutes := apiV1.Group("/users")
		{
			userRoutes.GET("/:userId", auth.OptionalMiddleware(cfg.JWTSecret), users.GetProfile)
			userRoutes.PUT("/:userId", requireAuth, self, users.UpdateProfile)

			own := userRoutes.Group("/:userId/notifications", requireAuth, self)
			own.GET("", notifications.List)
			own.DELETE("", notifications.DeleteAll)
			own.GET("/unread-count", notifications.UnreadCount)
			own.PUT("/read", notifications.MarkAllRead)
			own.GET("/stream", notifications.Stream)
		}

		notificationRoutes := apiV1.Group("/notifications", requireAuth)
		{
			notificationRoutes.PUT("/:notificationId/read", notifications.MarkRead)
			notificationRoutes.DELETE("/:notificationId", notifications.Delete)
		}

		// Friendship routes
		friendRoutes := apiV1.Group("/friends", requireAuth)
		{
			friendRoutes.GET("/status/:userId/:otherUserId", relations.GetStatus)
			friendRoutes.GET("/:userId", relations.ListFriends)
			friendRoutes.POST("/add/:userId/:otherUserId", self, relations.SendRequest)
			friendRoutes.POST("/accept/:userId/:otherUserId", self, relations.AcceptRequest)
			friendRoutes.POST("/deny/:userId/:otherUserId", self, relations.DenyRequest)
			friendRoutes.POST("/cancel/:userId/:otherUserId", self, relations.CancelRequest)
			friendRoutes.DELETE("/remove/:userId/:otherUserId", self, relations.RemoveFriend)
		}

		postRoutes := apiV1.Group("/posts", requireAuth)
		{
			postRoutes.GET("/feed/:userId", self, posts.Feed)
			postRoutes.POST("", posts.Create)
			postRoutes.GET("/:postId", posts.Get)
			postRoutes.DELETE("/:postId", posts.Delete)
			postRoutes.POST("/:postId/like", posts.Like)
			postRoutes.DELETE("/:postId/like", posts.Unlike)
			postRoutes.POST("/:postId/comments", posts.AddComment)
			postRoutes.DELETE("/:postId/comments/:commentId", posts.DeleteComment)
			postRoutes.POST("/:postId/comments/:commentId/like", posts.LikeComment)
			postRoutes.DELETE("/:postId/comments/:commentId/like", posts.UnlikeComment)
		}

		pictureRoutes := apiV1.Group("/display-pictures", requireAuth)
		{
			pictureRoutes.PUT("", pictures.Set)
			pictureRoutes.GET("/user/:userId", pictures.Get)
			pictureRoutes.POST("/user/:userId/like", pictures.Like)
			pictureRoutes.DELETE("/user/:userId/like", pictures.Unlike)
			pictureRoutes.POST("/user/:userId/comments", pictures.AddComment)
			pictureRoutes.DELETE("/:pictureId/comments/:commentId", pictures.DeleteComment)
			pictureRoutes.POST("/:pictureId/comments/:commentId/like", pictures.LikeComment)
			pictureRoutes.DELETE("/:pictureId/comments/:commentId/like", pictures.UnlikeComment)
		}
	}

	return router
}
