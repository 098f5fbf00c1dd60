package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/redis/go-redis/v9"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	_ "github.com/yugash007/nexel-api/api/swagger"
	"github.com/yugash007/nexel-api/internal/handler"
	"github.com/yugash007/nexel-api/internal/middleware"
	"github.com/yugash007/nexel-api/internal/models"
	"github.com/yugash007/nexel-api/internal/notify"
	"github.com/yugash007/nexel-api/internal/repository"
	"github.com/yugash007/nexel-api/internal/service"
	"github.com/yugash007/nexel-api/internal/store"
	memorystore "github.com/yugash007/nexel-api/internal/store/memory"
	mongostore "github.com/yugash007/nexel-api/internal/store/mongodb"
	postgresstore "github.com/yugash007/nexel-api/internal/store/postgres"
	"github.com/yugash007/nexel-api/pkg/cache"
	"github.com/yugash007/nexel-api/pkg/config"
	"github.com/yugash007/nexel-api/pkg/database"
	"github.com/yugash007/nexel-api/pkg/logger"
	corsmiddleware "github.com/yugash007/nexel-api/pkg/middleware/cors"
	reqidmiddleware "github.com/yugash007/nexel-api/pkg/middleware/requestid"
)

// @title NEXEL API
// @version 1.0.0
// @description E-learning platform backend
// @BasePath /api/v1
// @schemes http

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	recordStore, err := newStore(cfg, logr)
	if err != nil {
		logr.Sugar().Fatalw("store init failed", "driver", cfg.Store.Driver, "error", err)
	}

	var redisClient *redis.Client
	if cfg.Redis.Enabled {
		redisClient, err = cache.NewRedis(cfg.Redis)
		if err != nil {
			logr.Sugar().Warnw("redis unavailable, caching disabled", "error", err)
		}
	}

	validate := validator.New()

	userRepo := repository.NewUserRepository(recordStore)
	courseRepo := repository.NewCourseRepository(recordStore)
	assignmentRepo := repository.NewAssignmentRepository(recordStore)
	submissionRepo := repository.NewSubmissionRepository(recordStore)
	announcementRepo := repository.NewAnnouncementRepository(recordStore)
	reviewRepo := repository.NewReviewRepository(recordStore)
	threadRepo := repository.NewThreadRepository(recordStore)
	replyRepo := repository.NewReplyRepository(recordStore)
	notificationRepo := repository.NewNotificationRepository(recordStore)

	notifier := notify.New(notificationRepo, logr)
	metricsSvc := service.NewMetricsService()

	userSvc := service.NewUserService(userRepo, validate, logr)
	authSvc := service.NewAuthService(userRepo, userSvc, validate, logr, service.AuthConfig{
		Secret:     cfg.JWT.Secret,
		Expiration: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	})
	courseSvc := service.NewCourseService(courseRepo, userRepo, assignmentRepo, submissionRepo, reviewRepo, notifier, validate, logr)
	assignmentSvc := service.NewAssignmentService(assignmentRepo, submissionRepo, courseRepo, userRepo, notifier, validate, logr)
	announcementSvc := service.NewAnnouncementService(announcementRepo, courseRepo, courseRepo, notifier, validate, logr)
	reviewSvc := service.NewReviewService(reviewRepo, courseRepo, userRepo, assignmentRepo, submissionRepo, notifier, validate, logr)
	forumSvc := service.NewForumService(threadRepo, replyRepo, courseRepo, userRepo, notifier, validate, logr)
	notificationSvc := service.NewNotificationService(notificationRepo, redisClient, metricsSvc, cfg.Notifications.UnreadCountTTL, logr)

	authHandler := handler.NewAuthHandler(authSvc, userSvc)
	userHandler := handler.NewUserHandler(userSvc)
	courseHandler := handler.NewCourseHandler(courseSvc)
	assignmentHandler := handler.NewAssignmentHandler(assignmentSvc)
	announcementHandler := handler.NewAnnouncementHandler(announcementSvc)
	reviewHandler := handler.NewReviewHandler(reviewSvc)
	forumHandler := handler.NewForumHandler(forumSvc)
	notificationHandler := handler.NewNotificationHandler(notificationSvc)
	metricsHandler := handler.NewMetricsHandler(metricsSvc)

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metricsSvc))

	r.GET("/health", metricsHandler.Health)
	r.GET("/ready", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})
	r.GET("/metrics", metricsHandler.Prometheus)

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(cfg.APIPrefix)

	auth := api.Group("/auth")
	auth.POST("/register", authHandler.Register)
	auth.POST("/login", authHandler.Login)
	auth.GET("/me", middleware.JWT(authSvc), authHandler.Me)

	protected := api.Group("", middleware.JWT(authSvc))

	users := protected.Group("/users")
	users.GET("/:id", userHandler.Get)
	users.PUT("/:id", middleware.RBAC("SELF"), userHandler.Update)

	courses := protected.Group("/courses")
	courses.GET("", courseHandler.List)
	courses.POST("", middleware.RequireRoles(models.RoleTeacher), courseHandler.Create)
	courses.GET("/:id", courseHandler.Get)
	courses.POST("/:id/enroll", middleware.RequireRoles(models.RoleStudent), courseHandler.Enroll)
	courses.GET("/:id/students", middleware.RequireRoles(models.RoleTeacher), courseHandler.Students)
	courses.POST("/:id/modules", middleware.RequireRoles(models.RoleTeacher), courseHandler.CreateModule)
	courses.POST("/:id/modules/:moduleId/videos", middleware.RequireRoles(models.RoleTeacher), courseHandler.AddVideo)
	courses.POST("/:id/modules/:moduleId/materials", middleware.RequireRoles(models.RoleTeacher), courseHandler.AddStudyMaterial)
	courses.POST("/:id/assignments", middleware.RequireRoles(models.RoleTeacher), assignmentHandler.Create)
	courses.GET("/:id/assignments", assignmentHandler.ListByCourse)
	courses.POST("/:id/announcements", middleware.RequireRoles(models.RoleTeacher), announcementHandler.Create)
	courses.GET("/:id/announcements", announcementHandler.ListByCourse)
	courses.POST("/:id/reviews", middleware.RequireRoles(models.RoleStudent), reviewHandler.Create)
	courses.GET("/:id/reviews", reviewHandler.ListByCourse)
	courses.POST("/:id/threads", forumHandler.CreateThread)
	courses.GET("/:id/threads", forumHandler.ListThreads)

	assignments := protected.Group("/assignments")
	assignments.GET("/:id", assignmentHandler.Get)
	assignments.POST("/:id/submissions", middleware.RequireRoles(models.RoleStudent), assignmentHandler.Submit)
	assignments.GET("/:id/submissions", middleware.RequireRoles(models.RoleTeacher), assignmentHandler.Submissions)

	protected.POST("/submissions/:id/grade", middleware.RequireRoles(models.RoleTeacher), assignmentHandler.Grade)

	students := protected.Group("/students/me", middleware.RequireRoles(models.RoleStudent))
	students.GET("/courses", courseHandler.EnrolledCourses)
	students.GET("/submissions", assignmentHandler.MySubmissions)
	students.GET("/grades", assignmentHandler.MyGrades)
	students.GET("/announcements", announcementHandler.Feed)

	teachers := protected.Group("/teachers/me", middleware.RequireRoles(models.RoleTeacher))
	teachers.GET("/courses", courseHandler.TeachingCourses)

	threads := protected.Group("/threads")
	threads.GET("/:id", forumHandler.GetThread)
	threads.POST("/:id/replies", forumHandler.CreateReply)
	threads.GET("/:id/replies", forumHandler.ListReplies)

	notifications := protected.Group("/notifications")
	notifications.GET("", notificationHandler.List)
	notifications.POST("/read", notificationHandler.MarkAllRead)
	notifications.GET("/unread-count", notificationHandler.UnreadCount)

	addr := fmt.Sprintf(":%d", cfg.Port)
	logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env, "store", cfg.Store.Driver)
	if err := r.Run(addr); err != nil {
		logr.Sugar().Fatalw("server failed", "error", err)
	}
}

// newStore builds the record store selected by STORE_DRIVER.
func newStore(cfg *config.Config, logr *zap.Logger) (store.Store, error) {
	switch cfg.Store.Driver {
	case config.StoreMemory:
		return memorystore.New(), nil

	case config.StoreMongo:
		_, db, err := database.NewMongo(cfg.Mongo)
		if err != nil {
			return nil, err
		}
		s := mongostore.New(db)
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := s.EnsureIndexes(ctx); err != nil {
			return nil, err
		}
		return s, nil

	case config.StorePostgres:
		db, err := database.NewPostgres(cfg.Database)
		if err != nil {
			return nil, err
		}
		s := postgresstore.New(db)
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := s.EnsureSchema(ctx); err != nil {
			return nil, err
		}
		return s, nil

	default:
		return nil, fmt.Errorf("unknown store driver %q", cfg.Store.Driver)
	}
}
