package server

import (
	"net/http"
	"net/url"
	"strings"
	"time"

	"anoa.com/socialblog/internal/config"
	"anoa.com/socialblog/internal/entity"
	"anoa.com/socialblog/internal/middleware"
	"anoa.com/socialblog/internal/session"
	"anoa.com/socialblog/pkg/storage"

	authHttp "anoa.com/socialblog/internal/modules/auth/delivery/http"
	authService "anoa.com/socialblog/internal/modules/auth/service"

	commentHttp "anoa.com/socialblog/internal/modules/comment/delivery/http"
	commentRepo "anoa.com/socialblog/internal/modules/comment/repository"
	commentService "anoa.com/socialblog/internal/modules/comment/service"

	likeHttp "anoa.com/socialblog/internal/modules/like/delivery/http"
	likeRepo "anoa.com/socialblog/internal/modules/like/repository"
	likeService "anoa.com/socialblog/internal/modules/like/service"

	postHttp "anoa.com/socialblog/internal/modules/post/delivery/http"
	postRepo "anoa.com/socialblog/internal/modules/post/repository"
	postService "anoa.com/socialblog/internal/modules/post/service"

	profileHttp "anoa.com/socialblog/internal/modules/profile/delivery/http"
	profileRepo "anoa.com/socialblog/internal/modules/profile/repository"
	profileService "anoa.com/socialblog/internal/modules/profile/service"

	realtime "anoa.com/socialblog/internal/modules/realtime/service"

	searchHttp "anoa.com/socialblog/internal/modules/search/delivery/http"
	searchService "anoa.com/socialblog/internal/modules/search/service"

	socialHttp "anoa.com/socialblog/internal/modules/social/delivery/http"
	socialRepo "anoa.com/socialblog/internal/modules/social/repository"
	socialService "anoa.com/socialblog/internal/modules/social/service"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/meilisearch/meilisearch-go"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Server struct {
	engine      *gin.Engine
	db          *gorm.DB
	redisClient *redis.Client
	log         *zap.Logger
}

// NewServer wires every module against the given store handles. redisClient
// may be nil, in which case realtime notifications are dropped.
func NewServer(cfg *config.Config, db *gorm.DB, redisClient *redis.Client, log *zap.Logger) *Server {
	sessions := session.NewManager(cfg.JWTSecret, cfg.JWTTTL)

	var objectStorage storage.ObjectStorage
	if cld, err := storage.NewCloudinaryStorage(cfg.CloudinaryUploadFolder); err != nil {
		log.Warn("object storage disabled", zap.Error(err))
	} else {
		objectStorage = cld
	}

	var meiliSvc searchService.MeiliSearchService
	if host := meiliHost(cfg.MeiliSearchHost); host != "" {
		meiliClient := meilisearch.New(host, meilisearch.WithAPIKey(cfg.MeiliMasterKey))
		meiliSvc = searchService.NewMeiliSearchService(meiliClient, log)
	} else {
		log.Info("search disabled: MEILISEARCH_HOST not set")
	}

	changes := realtime.NewChangeFeed(redisClient, log)

	followRepository := socialRepo.NewFollowRepository(db)
	graph := socialService.NewAggregator(followRepository)
	socialHandler := socialHttp.NewSocialHandler(graph, log)

	commentRepository := commentRepo.NewCommentRepository(db)
	commentSvc := commentService.NewCommentService(commentRepository, log)
	commentHandler := commentHttp.NewCommentHandler(commentSvc)

	postRepository := postRepo.NewPostRepository(db)
	postSvc := postService.NewPostService(postRepository, commentRepository, graph, objectStorage, changes, meiliSvc, log, cfg.FeedLimit)
	postHandler := postHttp.NewPostHandler(postSvc)
	feedSocket := postHttp.NewFeedSocket(postSvc, changes, log, originChecker(cfg.AllowedOrigins))

	likeRepository := likeRepo.NewLikeRepository(db)
	likeSvc := likeService.NewLikeService(likeRepository, log)
	likeHandler := likeHttp.NewLikeHandler(likeSvc)

	profileRepository := profileRepo.NewProfileRepository(db)
	profileSvc := profileService.NewProfileService(profileRepository, postRepository, graph, objectStorage, log)
	profileHandler := profileHttp.NewProfileHandler(profileSvc)

	authSvc := authService.NewAuthService(sessions, profileSvc, authService.GoogleOptions{
		ClientID:     cfg.GoogleClientID,
		ClientSecret: cfg.GoogleClientSecret,
		RedirectURL:  cfg.GoogleRedirectURL,
	}, log)
	authHandler := authHttp.NewAuthHandler(authSvc, profileSvc, cfg.FrontendURL, cfg.IsProduction(), log)

	searchHandler := searchHttp.NewSearchHandler(meiliSvc)

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	setupCORS(router, cfg.AllowedOrigins)

	router.Use(gin.Recovery())
	router.Use(gin.LoggerWithConfig(gin.LoggerConfig{
		SkipPaths: []string{"/api/feed/ws"},
	}))

	authMiddleware := middleware.NewAuthMiddleware(sessions)

	api := router.Group("/api")

	// Public routes (no auth required)
	auth := api.Group("/auth")
	{
		auth.GET("/google/login", authHandler.GoogleLogin)
		auth.GET("/google/callback", authHandler.GoogleCallback)
	}

	// Protected routes (apply auth middleware explicitly)
	protected := api.Group("")
	protected.Use(authMiddleware.RequireAuth())
	{
		protected.GET("/auth/me", authHandler.Me)
		protected.POST("/auth/sync", authHandler.Sync)

		// Profile routes
		protected.GET("/profile/me", profileHandler.GetCurrentProfile)
		protected.PUT("/profile", profileHandler.UpdateProfile)
		protected.GET("/profiles/:id", profileHandler.GetProfile)
		protected.GET("/profiles/:id/posts", postHandler.GetPostsByAuthor)

		// Social graph routes
		protected.GET("/users/:id/followers", socialHandler.GetFollowers)
		protected.GET("/users/:id/following", socialHandler.GetFollowing)
		protected.GET("/users/:id/friends", socialHandler.GetFriends)
		protected.GET("/users/:id/follow-counts", socialHandler.GetFollowCounts)
		protected.GET("/users/:id/follow", socialHandler.GetFollowStatus)
		protected.POST("/users/:id/follow", socialHandler.ToggleFollow)

		// Feed routes
		protected.GET("/feed", postHandler.GetFeed)
		protected.GET("/feed/ws", feedSocket.HandleWebSocket)

		// Post routes
		protected.POST("/posts", postHandler.CreatePost)
		protected.GET("/posts/:id", postHandler.GetPostByID)
		protected.PUT("/posts/:id", postHandler.UpdatePost)
		protected.DELETE("/posts/:id", postHandler.DeletePost)

		// Like routes
		protected.GET("/posts/:id/likes", likeHandler.GetStatus)
		protected.POST("/posts/:id/likes/toggle", likeHandler.ToggleLike)

		// Comment routes
		protected.GET("/posts/:id/comments", commentHandler.GetComments)
		protected.POST("/posts/:id/comments", commentHandler.AddComment)

		protected.GET("/search/posts", searchHandler.SearchPosts)
	}

	return &Server{
		engine:      router,
		db:          db,
		redisClient: redisClient,
		log:         log,
	}
}

func (s *Server) Handler() http.Handler {
	return s.engine
}

func (s *Server) Run(addr string) error {
	s.log.Info("http server listening", zap.String("addr", addr))
	return s.engine.Run(addr)
}

// Migrate creates or updates every table the service reads.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&entity.Profile{},
		&entity.Post{},
		&entity.Comment{},
		&entity.Like{},
		&entity.Follow{},
	)
}

func setupCORS(router *gin.Engine, origins []string) {
	if len(origins) == 0 {
		origins = []string{"http://localhost:3000"}
	}

	router.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "HEAD", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
}

// originChecker accepts websocket upgrades from the CORS origins. Requests
// without an Origin header come from non-browser clients and pass.
func originChecker(origins []string) func(r *http.Request) bool {
	allowed := make(map[string]struct{}, len(origins))
	for _, o := range origins {
		allowed[strings.TrimRight(o, "/")] = struct{}{}
	}

	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if origin == "" {
			return true
		}
		if _, ok := allowed["*"]; ok {
			return true
		}
		_, ok := allowed[strings.TrimRight(origin, "/")]
		return ok
	}
}

func meiliHost(host string) string {
	host = strings.TrimSpace(host)
	if host == "" {
		return ""
	}
	if !strings.HasPrefix(host, "http") {
		host = "http://" + host + ":7700"
	}
	if _, err := url.Parse(host); err != nil {
		return ""
	}
	return host
}
