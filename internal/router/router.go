package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/dclair/task-master/internal/client"
	"github.com/dclair/task-master/internal/config"
	"github.com/dclair/task-master/internal/handler"
	"github.com/dclair/task-master/internal/mailer"
	"github.com/dclair/task-master/internal/metrics"
	"github.com/dclair/task-master/internal/middleware"
	"github.com/dclair/task-master/internal/repository"
	"github.com/dclair/task-master/internal/service"
	"github.com/dclair/task-master/internal/token"
)

// Config carries everything Setup needs to assemble the API
type Config struct {
	DB       *gorm.DB
	Redis    *redis.Client // nil disables the progress cache
	S3Client client.S3ClientInterface
	Mailer   mailer.Mailer
	Metrics  *metrics.Metrics
	Logger   *zap.Logger
	App      *config.Config
}

// Setup wires repositories, services and handlers into a gin engine
func Setup(cfg Config) *gin.Engine {
	// Repositories
	userRepo := repository.NewUserRepository(cfg.DB)
	boardRepo := repository.NewBoardRepository(cfg.DB)
	membershipRepo := repository.NewMembershipRepository(cfg.DB)
	inviteRepo := repository.NewInviteRepository(cfg.DB)
	taskListRepo := repository.NewTaskListRepository(cfg.DB)
	taskRepo := repository.NewTaskRepository(cfg.DB)
	tagRepo := repository.NewTagRepository(cfg.DB)
	activityRepo := repository.NewActivityRepository(cfg.DB)

	// Tokens
	activation := token.NewActivationGenerator(
		cfg.App.Auth.SecretKey,
		cfg.App.Auth.SecretKeyFallbacks,
		cfg.App.Auth.ActivationTimeout,
	)
	inviteCodec := token.NewInviteCodec(cfg.App.Auth.SecretKey, cfg.App.Auth.InviteTimeout)

	// Progress cache
	var cache service.ProgressCache
	if cfg.Redis != nil {
		cache = service.NewRedisProgressCache(cfg.Redis, cfg.App.Redis.ProgressTTL, cfg.Logger)
	} else {
		cache = service.NewNoopProgressCache()
	}

	// Services
	memberSvc := service.NewMemberService(membershipRepo, boardRepo, userRepo, activityRepo, cfg.Logger)
	activitySvc := service.NewActivityService(activityRepo, memberSvc, cfg.Logger)
	authSvc := service.NewAuthService(userRepo, activation, cfg.Mailer,
		cfg.App.Auth.SecretKey, cfg.App.Auth.SessionTimeout, cfg.App.Site.URL, cfg.Logger)
	profileSvc := service.NewProfileService(userRepo, cfg.S3Client, cfg.Logger)
	boardSvc := service.NewBoardService(boardRepo, membershipRepo, taskListRepo, taskRepo,
		activityRepo, memberSvc, cache, cfg.Metrics, cfg.Logger)
	listSvc := service.NewListService(taskListRepo, memberSvc, activityRepo, cache, cfg.Logger)
	taskSvc := service.NewTaskService(taskRepo, taskListRepo, tagRepo, membershipRepo, userRepo,
		activityRepo, memberSvc, cache, cfg.Mailer, cfg.Metrics, cfg.App.Site.URL, cfg.Logger)
	tagSvc := service.NewTagService(tagRepo)
	inviteSvc := service.NewInviteService(inviteRepo, membershipRepo, userRepo, activityRepo,
		memberSvc, inviteCodec, cfg.Mailer, cfg.Metrics, cfg.App.Site.URL, cfg.Logger)
	exportSvc := service.NewExportService(boardRepo, taskRepo, activityRepo, memberSvc)

	// Handlers
	authHandler := handler.NewAuthHandler(authSvc)
	profileHandler := handler.NewProfileHandler(profileSvc)
	boardHandler := handler.NewBoardHandler(boardSvc, activitySvc)
	listHandler := handler.NewListHandler(listSvc)
	taskHandler := handler.NewTaskHandler(taskSvc)
	tagHandler := handler.NewTagHandler(tagSvc)
	memberHandler := handler.NewMemberHandler(memberSvc)
	inviteHandler := handler.NewInviteHandler(inviteSvc)
	exportHandler := handler.NewExportHandler(exportSvc)

	r := gin.New()
	r.Use(middleware.Recovery(cfg.Logger))
	r.Use(middleware.RequestLogger(cfg.Logger))
	r.Use(middleware.CORS(cfg.App.Server.AllowedOrigins))
	r.Use(middleware.Metrics(cfg.Metrics))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := r.Group("/api")

	auth := api.Group("/auth")
	{
		auth.POST("/signup", authHandler.Signup)
		auth.POST("/activate", authHandler.Activate)
		auth.POST("/resend-activation", authHandler.ResendActivation)
		auth.POST("/login", authHandler.Login)
		auth.POST("/password-reset", authHandler.RequestPasswordReset)
		auth.POST("/password-reset/confirm", authHandler.ConfirmPasswordReset)
	}

	authed := api.Group("")
	authed.Use(middleware.Auth(cfg.App.Auth.SecretKey))
	{
		authed.GET("/profile", profileHandler.GetProfile)
		authed.PUT("/profile", profileHandler.UpdateProfile)
		authed.POST("/profile/avatar", profileHandler.UploadAvatar)

		authed.GET("/tags", tagHandler.ListTags)
		authed.POST("/tags", tagHandler.CreateTag)

		authed.POST("/invites/accept/:token", inviteHandler.AcceptInvite)

		boards := authed.Group("/boards")
		{
			boards.POST("", boardHandler.CreateBoard)
			boards.GET("", boardHandler.ListBoards)
			boards.GET("/:boardId", boardHandler.GetBoard)
			boards.PUT("/:boardId", boardHandler.UpdateBoard)
			boards.DELETE("/:boardId", boardHandler.DeleteBoard)

			boards.GET("/:boardId/activity", boardHandler.ListActivity)

			boards.POST("/:boardId/lists", listHandler.CreateList)
			boards.PUT("/:boardId/lists/:listId", listHandler.UpdateList)
			boards.DELETE("/:boardId/lists/:listId", listHandler.DeleteList)

			boards.POST("/:boardId/lists/:listId/tasks", taskHandler.CreateTask)
			boards.GET("/:boardId/tasks/:taskId", taskHandler.GetTask)
			boards.PUT("/:boardId/tasks/:taskId", taskHandler.UpdateTask)
			boards.DELETE("/:boardId/tasks/:taskId", taskHandler.DeleteTask)
			boards.POST("/:boardId/tasks/move", taskHandler.MoveTask)

			boards.GET("/:boardId/members", memberHandler.ListMembers)
			boards.POST("/:boardId/members", memberHandler.AddMember)
			boards.PUT("/:boardId/members/:membershipId", memberHandler.UpdateMemberRole)
			boards.DELETE("/:boardId/members/:membershipId", memberHandler.RemoveMember)

			boards.POST("/:boardId/invites", inviteHandler.SendInvite)
			boards.GET("/:boardId/invites", inviteHandler.ListInvites)
			boards.DELETE("/:boardId/invites/:inviteId", inviteHandler.RevokeInvite)

			boards.GET("/:boardId/export/tasks.csv", exportHandler.ExportTasksCSV)
			boards.GET("/:boardId/export/tasks.json", exportHandler.ExportTasksJSON)
			boards.GET("/:boardId/export/activity.csv", exportHandler.ExportActivityCSV)
		}
	}

	return r
}
