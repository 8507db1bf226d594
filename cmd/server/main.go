package main

import (
	"net/http"
	"time"

	"vidtube/pkg/cache"
	"vidtube/pkg/config"
	"vidtube/pkg/database"
	"vidtube/pkg/jwt"
	"vidtube/pkg/logger"
	"vidtube/pkg/middleware"
	"vidtube/pkg/models"
	"vidtube/pkg/queue"
	"vidtube/pkg/s3"
	commenthandlers "vidtube/services/comment/handlers"
	commentrepo "vidtube/services/comment/repository"
	likehandlers "vidtube/services/like/handlers"
	likerepo "vidtube/services/like/repository"
	playlisthandlers "vidtube/services/playlist/handlers"
	playlistrepo "vidtube/services/playlist/repository"
	subscriptionhandlers "vidtube/services/subscription/handlers"
	subscriptionrepo "vidtube/services/subscription/repository"
	tweethandlers "vidtube/services/tweet/handlers"
	tweetrepo "vidtube/services/tweet/repository"
	userhandlers "vidtube/services/user/handlers"
	userrepo "vidtube/services/user/repository"
	videohandlers "vidtube/services/video/handlers"
	videorepo "vidtube/services/video/repository"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// @title           VidTube API
// @version         1.0
// @description     Video sharing platform backend: channels, videos, comments, likes, tweets, playlists and subscriptions.
// @BasePath        /api/v1
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	log := logger.New()

	cfg, err := config.Load()
	if err != nil {
		log.Error("Failed to load config: %v", err)
		return
	}

	db, err := database.NewPostgresDB(cfg)
	if err != nil {
		log.Error("Failed to connect to database: %v", err)
		return
	}

	if err := db.AutoMigrate(
		&models.User{},
		&models.Video{},
		&models.Comment{},
		&models.Like{},
		&models.Tweet{},
		&models.Playlist{},
		&models.PlaylistVideo{},
		&models.Subscription{},
		&models.WatchHistory{},
	); err != nil {
		log.Error("Failed to run migrations: %v", err)
		return
	}

	redisClient, err := cache.NewRedisClient(cfg)
	if err != nil {
		log.Error("Failed to connect to Redis: %v", err)
		return
	}

	s3Client, err := s3.NewClient(cfg)
	if err != nil {
		log.Error("Failed to create media client: %v", err)
		return
	}

	// Notifications are best-effort: the API stays up without the broker.
	queueClient, err := queue.NewRabbitMQClient(cfg, log)
	if err != nil {
		log.Warn("RabbitMQ unavailable, notifications disabled: %v", err)
		queueClient = nil
	} else {
		defer queueClient.Close()
	}

	jwtService := jwt.NewService(
		cfg.AccessTokenSecret,
		cfg.RefreshTokenSecret,
		cfg.AccessTokenExpiry,
		cfg.RefreshTokenExpiry,
	)

	userRepository := userrepo.NewUserRepository(db)
	videoRepository := videorepo.NewVideoRepository(db)
	commentRepository := commentrepo.NewCommentRepository(db)
	likeRepository := likerepo.NewLikeRepository(db)
	tweetRepository := tweetrepo.NewTweetRepository(db)
	playlistRepository := playlistrepo.NewPlaylistRepository(db)
	subscriptionRepository := subscriptionrepo.NewSubscriptionRepository(db)

	userHandler := userhandlers.NewUserHandler(userRepository, jwtService, s3Client, log)
	videoHandler := videohandlers.NewVideoHandler(videoRepository, userRepository, s3Client, redisClient, queueClient, cfg.ViewDedupeWindow, log)
	commentHandler := commenthandlers.NewCommentHandler(commentRepository, videoRepository, log)
	likeHandler := likehandlers.NewLikeHandler(likeRepository, videoRepository, commentRepository, tweetRepository, queueClient, log)
	tweetHandler := tweethandlers.NewTweetHandler(tweetRepository, log)
	playlistHandler := playlisthandlers.NewPlaylistHandler(playlistRepository, videoRepository, log)
	subscriptionHandler := subscriptionhandlers.NewSubscriptionHandler(subscriptionRepository, userRepository, queueClient, log)

	router := gin.Default()

	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{cfg.CORSOrigin},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	auth := middleware.AuthMiddleware(jwtService)
	optionalAuth := middleware.OptionalAuthMiddleware(jwtService)

	api := router.Group("/api/v1")
	{
		users := api.Group("/users")
		{
			users.POST("/register", middleware.RateLimitMiddleware(redisClient, 5, time.Minute), userHandler.Register)
			users.POST("/login", middleware.RateLimitMiddleware(redisClient, 10, time.Minute), userHandler.Login)
			users.POST("/refresh-token", userHandler.RefreshToken)
			users.POST("/logout", auth, userHandler.Logout)
			users.POST("/change-password", auth, userHandler.ChangePassword)
			users.GET("/current", auth, userHandler.GetCurrentUser)
			users.PATCH("/update-account", auth, userHandler.UpdateAccount)
			users.PATCH("/avatar", auth, userHandler.UpdateAvatar)
			users.PATCH("/cover-image", auth, userHandler.UpdateCoverImage)
			users.GET("/c/:username", optionalAuth, userHandler.GetChannelProfile)
			users.GET("/history", auth, userHandler.GetWatchHistory)
		}

		videos := api.Group("/videos")
		{
			videos.GET("", optionalAuth, videoHandler.ListVideos)
			videos.POST("", auth, videoHandler.PublishVideo)
			videos.GET("/:videoId", optionalAuth, videoHandler.GetVideo)
			videos.PATCH("/:videoId", auth, videoHandler.UpdateVideo)
			videos.DELETE("/:videoId", auth, videoHandler.DeleteVideo)
			videos.PATCH("/toggle/publish/:videoId", auth, videoHandler.TogglePublishStatus)
		}

		comments := api.Group("/comments")
		{
			comments.GET("/:videoId", optionalAuth, commentHandler.GetVideoComments)
			comments.POST("/:videoId", auth, commentHandler.AddComment)
			comments.PATCH("/c/:commentId", auth, commentHandler.UpdateComment)
			comments.DELETE("/c/:commentId", auth, commentHandler.DeleteComment)
		}

		likes := api.Group("/likes", auth)
		{
			likes.POST("/toggle/v/:videoId", likeHandler.ToggleVideoLike)
			likes.POST("/toggle/c/:commentId", likeHandler.ToggleCommentLike)
			likes.POST("/toggle/t/:tweetId", likeHandler.ToggleTweetLike)
			likes.GET("/videos", likeHandler.GetLikedVideos)
		}

		tweets := api.Group("/tweets")
		{
			tweets.POST("", auth, tweetHandler.CreateTweet)
			tweets.GET("/user/:userId", optionalAuth, tweetHandler.GetUserTweets)
			tweets.PATCH("/:tweetId", auth, tweetHandler.UpdateTweet)
			tweets.DELETE("/:tweetId", auth, tweetHandler.DeleteTweet)
		}

		playlists := api.Group("/playlists")
		{
			playlists.POST("", auth, playlistHandler.CreatePlaylist)
			playlists.GET("/user/:userId", playlistHandler.GetUserPlaylists)
			playlists.GET("/:playlistId", playlistHandler.GetPlaylist)
			playlists.PATCH("/:playlistId", auth, playlistHandler.UpdatePlaylist)
			playlists.DELETE("/:playlistId", auth, playlistHandler.DeletePlaylist)
			playlists.PATCH("/add/:videoId/:playlistId", auth, playlistHandler.AddVideoToPlaylist)
			playlists.PATCH("/remove/:videoId/:playlistId", auth, playlistHandler.RemoveVideoFromPlaylist)
		}

		subscriptions := api.Group("/subscriptions")
		{
			subscriptions.POST("/c/:channelId", auth, subscriptionHandler.ToggleSubscription)
			subscriptions.GET("/c/:channelId/subscribers", subscriptionHandler.GetChannelSubscribers)
			subscriptions.GET("/subscribed", auth, subscriptionHandler.GetSubscribedChannels)
		}
	}

	log.Info("Starting server on port %s", cfg.ServerPort)
	if err := router.Run(":" + cfg.ServerPort); err != nil {
		log.Error("Server stopped: %v", err)
	}
}
