package http

import (
	"time"

	"github.com/gin-gonic/gin"

	appsvc "communityboard/internal/app"
	"communityboard/internal/bootstrap"
	"communityboard/internal/cache"
	"communityboard/internal/platform/rabbitmq"
	"communityboard/internal/repository"
	"communityboard/internal/transport/http/handler"
	"communityboard/internal/transport/http/middleware"
)

func NewRouter(app *bootstrap.App) *gin.Engine {
	gin.SetMode(app.Config.App.GinMode)
	router := gin.New()
	router.Use(middleware.RequestLog(app.Log), gin.Recovery())

	healthHandler := handler.NewHealthHandler(app)
	router.GET("/healthz", healthHandler.Check)

	userRepo := repository.NewUserRepository(app.MySQL)
	postRepo := repository.NewPostRepository(app.MySQL)
	commentRepo := repository.NewCommentRepository(app.MySQL)
	loginRecordRepo := repository.NewLoginRecordRepository(app.MySQL)

	loginRecorder := rabbitmq.NewLoginRecordPublisher(app.MQConn, app.Config.RabbitMQ.LoginRecordQueue)
	rankingsCache := cache.NewRankingsCache(app.Redis, time.Duration(app.Config.Redis.RankingsTTLSeconds)*time.Second)

	authService := appsvc.NewAuthService(
		userRepo,
		loginRecorder,
		app.Config.Auth.JWTSecret,
		time.Duration(app.Config.Auth.JWTExpireMinute)*time.Minute,
		app.Log,
	)
	postService := appsvc.NewPostService(postRepo)
	commentService := appsvc.NewCommentService(commentRepo, postRepo)
	loginRecordService := appsvc.NewLoginRecordService(loginRecordRepo, userRepo, rankingsCache, app.Config.Location(), app.Log)

	authHandler := handler.NewAuthHandler(authService)
	postHandler := handler.NewPostHandler(postService)
	commentHandler := handler.NewCommentHandler(commentService)
	loginRecordHandler := handler.NewLoginRecordHandler(loginRecordService)

	requireAuth := middleware.AuthJWT(app.Config.Auth.JWTSecret)

	authGroup := router.Group("/auth")
	authGroup.POST("/signup", authHandler.Signup)
	authGroup.POST("/login", authHandler.Login)
	authGroup.PATCH("/update", requireAuth, authHandler.Update)

	postGroup := router.Group("/posts")
	postGroup.POST("", requireAuth, postHandler.Create)
	postGroup.GET("", postHandler.List)
	postGroup.GET("/:id", postHandler.Get)
	postGroup.POST("/:id/comments", requireAuth, commentHandler.Create)
	postGroup.GET("/:id/comments", commentHandler.List)
	postGroup.DELETE("/:id/comments/:commentId", requireAuth, commentHandler.Delete)

	recordGroup := router.Group("/login-records")
	recordGroup.GET("/history", requireAuth, loginRecordHandler.History)
	recordGroup.GET("/rankings", loginRecordHandler.Rankings)

	return router
}
