package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/viper"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"

	"github.com/1786035110/GameForum/internal/cache"
	"github.com/1786035110/GameForum/internal/handler"
	"github.com/1786035110/GameForum/internal/httpapi/middleware"
	"github.com/1786035110/GameForum/internal/identity"
	"github.com/1786035110/GameForum/internal/leaderboard"
	"github.com/1786035110/GameForum/internal/mysqldb"
	"github.com/1786035110/GameForum/internal/service"
	"github.com/1786035110/GameForum/internal/task"
	"github.com/1786035110/GameForum/internal/viewcount"
)

type GameForumConfig struct {
	Running struct {
		Port int `mapstructure:"port"`
	} `mapstructure:"running"`
	Redis struct {
		Addr     string `mapstructure:"addr"`
		Password string `mapstructure:"password"`
	} `mapstructure:"redis"`
	MySQL struct {
		DSN string `mapstructure:"dsn"`
	} `mapstructure:"mysql"`
	Leaderboard struct {
		// 提交互斥租约的过期秒数
		SubmitLockSeconds int `mapstructure:"submitLockSeconds"`
		// 重建租约的过期秒数
		RebuildLockSeconds int `mapstructure:"rebuildLockSeconds"`
		// 周期重建的间隔秒数（有界陈旧窗口就是它）
		ReconcileIntervalSeconds int `mapstructure:"reconcileIntervalSeconds"`
	} `mapstructure:"leaderboard"`
	ViewCount struct {
		FlushIntervalSeconds int `mapstructure:"flushIntervalSeconds"`
		FlushLockSeconds     int `mapstructure:"flushLockSeconds"`
	} `mapstructure:"viewcount"`
}

func initConfig() (*GameForumConfig, error) {
	var cfg = &GameForumConfig{}
	viper.SetConfigName("GameForumConfig")
	viper.SetConfigType("yaml")
	viper.AddConfigPath("./config")
	viper.AddConfigPath(".")
	viper.SetDefault("running.port", 8080)
	viper.SetDefault("leaderboard.submitLockSeconds", 5)
	viper.SetDefault("leaderboard.rebuildLockSeconds", 30)
	viper.SetDefault("leaderboard.reconcileIntervalSeconds", 300)
	viper.SetDefault("viewcount.flushIntervalSeconds", 300)
	viper.SetDefault("viewcount.flushLockSeconds", 60)
	if err := viper.ReadInConfig(); err != nil {
		return nil, err
	}
	if err := viper.Unmarshal(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func main() {
	cfg, err := initConfig()
	if err != nil {
		log.Fatalf("init config failed: %v", err)
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
	})
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		log.Fatalf("ping redis failed: %v", err)
	}
	defer rdb.Close()

	db, err := gorm.Open(mysql.Open(cfg.MySQL.DSN), &gorm.Config{})
	if err != nil {
		log.Fatalf("open mysql failed: %v", err)
	}

	// 持久层
	scoreRepo := mysqldb.NewMySQLScoreRepo(db)
	userRepo := mysqldb.NewMySQLUserRepo(db)
	postRepo := mysqldb.NewMySQLPostRepo(db)
	commentRepo := mysqldb.NewMySQLCommentRepo(db)
	categoryRepo := mysqldb.NewMySQLCategoryRepo(db)
	followRepo := mysqldb.NewMySQLFollowRepo(db)
	requestRepo := mysqldb.NewMySQLFriendRequestRepo(db)

	// 引擎
	asideCache := cache.New(rdb)
	rankStore := leaderboard.NewStore(rdb, scoreRepo, userRepo,
		time.Duration(cfg.Leaderboard.RebuildLockSeconds)*time.Second)
	coordinator := leaderboard.NewCoordinator(rdb, rankStore, scoreRepo, asideCache,
		time.Duration(cfg.Leaderboard.SubmitLockSeconds)*time.Second)
	batcher := viewcount.NewBatcher(rdb, postRepo)

	// 读路径
	profileSvc := service.NewProfileService(asideCache, userRepo, scoreRepo)
	postSvc := service.NewPostService(asideCache, rdb, postRepo, userRepo, categoryRepo, batcher)
	commentSvc := service.NewCommentService(asideCache, commentRepo, postRepo, userRepo)
	categorySvc := service.NewCategoryService(asideCache, categoryRepo)
	friendSvc := service.NewFriendService(asideCache, followRepo, userRepo, requestRepo)

	// 后台任务
	runner := task.NewRunner(rdb, rankStore, batcher,
		time.Duration(cfg.Leaderboard.ReconcileIntervalSeconds)*time.Second,
		time.Duration(cfg.ViewCount.FlushIntervalSeconds)*time.Second,
		time.Duration(cfg.ViewCount.FlushLockSeconds)*time.Second)
	taskCtx, stopTasks := context.WithCancel(context.Background())
	defer stopTasks()
	runner.Start(taskCtx)

	lbHandler := handler.NewLeaderboardHandler(rankStore, coordinator)
	forumHandler := handler.NewForumHandler(postSvc, commentSvc, categorySvc)
	socialHandler := handler.NewSocialHandler(friendSvc, profileSvc)

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(gin.Logger())

	// 经网关访问时网关已经加过 CORS，默认关闭；直连调试设 GAMEFORUM_ENABLE_CORS=1
	if os.Getenv("GAMEFORUM_ENABLE_CORS") == "1" {
		router.Use(cors.New(cors.Config{
			AllowOriginFunc:  func(origin string) bool { return true },
			AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "HEAD", "OPTIONS"},
			AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
			ExposeHeaders:    []string{"Content-Length"},
			AllowCredentials: false,
			MaxAge:           12 * time.Hour,
		}))
	}

	provider := identity.NewRedisProvider(rdb)
	r := router.Group("/api")
	r.Use(middleware.AuthMiddleware(provider))
	{
		r.GET("/game/leaderboard", lbHandler.GetLeaderboard())
		r.POST("/game/score", lbHandler.SubmitScore())

		r.GET("/user/profile", socialHandler.GetProfile())

		r.GET("/forum/categories", forumHandler.GetCategories())
		r.POST("/forum/posts", forumHandler.CreatePost())
		r.GET("/forum/posts/:postId", forumHandler.GetPost())
		r.POST("/forum/posts/:postId/like", forumHandler.LikePost())
		r.GET("/forum/posts/:postId/comments", forumHandler.ListComments())
		r.POST("/forum/posts/:postId/comments", forumHandler.CreateComment())

		r.GET("/friends", socialHandler.GetFriendList())
		r.DELETE("/friends/:friendId", socialHandler.DeleteFriend())
		r.GET("/friends/requests", socialHandler.GetFriendRequests())
		r.POST("/friends/requests", socialHandler.SendFriendRequest())
		r.POST("/friends/requests/:requestId/accept", socialHandler.AcceptFriendRequest())
	}
	router.Run(fmt.Sprintf(":%d", cfg.Running.Port))
}
