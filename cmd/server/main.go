package main

import (
	"context"
	"log"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/meilisearch/meilisearch-go"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/smartsoil/teamhub/internal/config"
	"github.com/smartsoil/teamhub/internal/handler"
	"github.com/smartsoil/teamhub/internal/middleware"
	"github.com/smartsoil/teamhub/internal/model"
	"github.com/smartsoil/teamhub/internal/repository"
	"github.com/smartsoil/teamhub/internal/service"
	"github.com/smartsoil/teamhub/pkg/database"
	"github.com/smartsoil/teamhub/pkg/storage"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	db := database.Connect()
	if err := migrate(db); err != nil {
		log.Fatalf("migration failed: %v", err)
	}

	redisClient := newRedisClient(cfg.RedisURL)

	var meiliClient meilisearch.ServiceManager
	if cfg.MeiliSearchHost != "" {
		meiliClient = meilisearch.New(cfg.MeiliSearchHost, meilisearch.WithAPIKey(cfg.MeiliMasterKey))
	}

	imageStorage, err := storage.NewCloudinaryStorage()
	if err != nil {
		log.Printf("cloudinary storage unavailable, avatar uploads disabled: %v", err)
		imageStorage = nil
	}

	userRepo := repository.NewUserRepository(db)
	pointsRepo := repository.NewPointsRepository(db)
	threadRepo := repository.NewThreadRepository(db)
	postRepo := repository.NewPostRepository(db)
	challengeRepo := repository.NewChallengeRepository(db)
	notificationRepo := repository.NewNotificationRepository(db)

	notificationService := service.NewNotificationService(notificationRepo, redisClient)
	ledgerService := service.NewLedgerService(pointsRepo, notificationService)
	searchService := service.NewSearchService(meiliClient)

	authService := service.NewAuthService(userRepo, imageStorage)
	threadService := service.NewThreadService(threadRepo, redisClient, searchService, cfg.RateLimitThread)
	postService := service.NewPostService(postRepo, threadRepo, userRepo, ledgerService, notificationService, redisClient)
	leaderboardService := service.NewLeaderboardService(userRepo)
	challengeService := service.NewChallengeService(challengeRepo, ledgerService)
	profileService := service.NewProfileService(userRepo, pointsRepo, imageStorage)

	seedCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	if err := threadService.SeedDefaults(seedCtx); err != nil {
		log.Fatalf("failed to seed default threads: %v", err)
	}
	if err := challengeService.SeedDefaults(seedCtx); err != nil {
		log.Fatalf("failed to seed default challenges: %v", err)
	}
	cancel()

	authHandler := handler.NewAuthHandler(authService)
	threadHandler := handler.NewThreadHandler(threadService)
	postHandler := handler.NewPostHandler(postService)
	leaderboardHandler := handler.NewLeaderboardHandler(leaderboardService)
	challengeHandler := handler.NewChallengeHandler(challengeService)
	profileHandler := handler.NewProfileHandler(profileService)
	notificationHandler := handler.NewNotificationHandler(notificationService, redisClient)
	searchHandler := handler.NewSearchHandler(searchService)

	if cfg.AppEnv == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.Default()
	router.Use(cors.New(cors.Config{
		AllowOrigins:     strings.Split(cfg.AllowedOrigins, ","),
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	api := router.Group("/api")
	{
		auth := api.Group("/auth")
		auth.POST("/register", authHandler.Register)
		auth.POST("/login", authHandler.Login)
	}

	authMiddleware := middleware.NewAuthMiddleware()

	api.Use(authMiddleware.RequireAuth())
	{
		api.GET("/threads", threadHandler.ListThreads)
		api.POST("/threads", threadHandler.CreateThread)
		api.GET("/threads/:id", threadHandler.GetThread)
		api.PUT("/threads/:id", threadHandler.UpdateThread)
		api.DELETE("/threads/:id", threadHandler.DeleteThread)
		api.GET("/threads/:id/posts", postHandler.ListPosts)
		api.POST("/threads/:id/posts", postHandler.CreatePost)

		api.GET("/feed", postHandler.Feed)
		api.POST("/posts/:id/replies", postHandler.CreateReply)
		api.POST("/posts/:id/assign", postHandler.AssignTask)
		api.POST("/posts/:id/complete", postHandler.ToggleCompletion)
		api.POST("/posts/:id/reactions", postHandler.ToggleReaction)
		api.GET("/posts/:id/reactions", postHandler.GetReactions)
		api.GET("/posts/:id/reactions/users", postHandler.GetReactionUsers)

		api.GET("/leaderboard", leaderboardHandler.GetLeaderboard)

		api.GET("/challenges", challengeHandler.ListActive)
		api.POST("/challenges/:id/complete", challengeHandler.Complete)

		profile := api.Group("/profile")
		{
			profile.GET("/me", profileHandler.Me)
			profile.GET("/history", profileHandler.History)
			profile.PUT("", profileHandler.UpdateProfile)
		}
		api.GET("/users", profileHandler.ListUsers)

		api.GET("/notifications", notificationHandler.GetNotifications)
		api.PUT("/notifications/:id/read", notificationHandler.MarkAsRead)
		api.PUT("/notifications/read-all", notificationHandler.MarkAllAsRead)
		api.GET("/notifications/unread-count", notificationHandler.UnreadCount)
		api.GET("/notifications/ws", notificationHandler.HandleWebSocket)

		api.GET("/search", searchHandler.SearchThreads)
	}

	if err := router.Run(":" + cfg.Port); err != nil {
		log.Fatalf("server exited with error: %v", err)
	}
}

func migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&model.User{},
		&model.PointActivity{},
		&model.Thread{},
		&model.Post{},
		&model.Reply{},
		&model.Reaction{},
		&model.Challenge{},
		&model.ChallengeCompletion{},
		&model.Notification{},
	)
}

func newRedisClient(redisURL string) *redis.Client {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		log.Printf("invalid REDIS_URL, live features disabled: %v", err)
		return nil
	}

	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		log.Printf("redis unreachable, live features disabled: %v", err)
		return nil
	}

	return client
}
