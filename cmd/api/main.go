package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/noah-isme/edu-portal-api/api/swagger"
	"github.com/noah-isme/edu-portal-api/internal/handler"
	"github.com/noah-isme/edu-portal-api/internal/middleware"
	"github.com/noah-isme/edu-portal-api/internal/models"
	"github.com/noah-isme/edu-portal-api/internal/repository"
	"github.com/noah-isme/edu-portal-api/internal/service"
	"github.com/noah-isme/edu-portal-api/pkg/cache"
	"github.com/noah-isme/edu-portal-api/pkg/config"
	"github.com/noah-isme/edu-portal-api/pkg/database"
	"github.com/noah-isme/edu-portal-api/pkg/export"
	"github.com/noah-isme/edu-portal-api/pkg/logger"
	corsmiddleware "github.com/noah-isme/edu-portal-api/pkg/middleware/cors"
	reqidmiddleware "github.com/noah-isme/edu-portal-api/pkg/middleware/requestid"
)

// @title Edu Portal API
// @version 1.0.0
// @description Role-based education portal: student, parent and admin areas
// @BasePath /
// @schemes http

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg.Env, cfg.Log)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	db, err := database.NewPostgres(ctx, cfg.Database)
	if err != nil {
		logr.Sugar().Fatalw("failed to connect to postgres", "error", err)
	}
	defer db.Close()

	redisClient, err := cache.NewRedis(ctx, cfg.Redis)
	if err != nil {
		logr.Sugar().Warnw("redis unavailable, settings cache disabled", "error", err)
		redisClient = nil
	}

	validate := validator.New()

	studentRepo := repository.NewStudentRepository(db)
	parentRepo := repository.NewParentRepository(db)
	adminRepo := repository.NewAdminRepository(db)
	directoryRepo := repository.NewDirectoryRepository(db)
	unitRepo := repository.NewUnitRepository(db)
	assignmentRepo := repository.NewAssignmentRepository(db)
	scheduleRepo := repository.NewScheduleRepository(db)
	noteRepo := repository.NewNoteRepository(db)
	settingsRepo := repository.NewSettingsRepository(db)

	metrics := service.NewMetricsService()

	authSvc := service.NewAuthService(
		studentRepo, parentRepo, adminRepo,
		&service.GoogleVerifier{ClientID: cfg.Google.ClientID},
		validate, logr,
		service.AuthConfig{
			SessionSecret:     cfg.Session.Secret,
			SessionExpiration: cfg.Session.Expiration,
			Issuer:            cfg.Session.Issuer,
		},
	)
	registrationSvc := service.NewRegistrationService(directoryRepo, studentRepo, parentRepo, adminRepo, validate, logr, cfg.Google.AdminSignupEnabled)
	accessSvc := service.NewAccessService(adminRepo, metrics, logr)
	lifecycleSvc := service.NewLifecycleService(studentRepo, adminRepo, logr)
	studentSvc := service.NewStudentService(studentRepo, unitRepo, assignmentRepo, scheduleRepo, noteRepo, validate, logr)
	parentSvc := service.NewParentService(parentRepo, studentRepo, assignmentRepo, scheduleRepo, logr)

	// The interface stays nil when the export is disabled; a typed nil
	// pointer here would defeat the nil check in the service.
	var exporter service.RosterExporter
	if cfg.Export.Enabled {
		exporter = export.NewPDFExporter()
	}
	adminSvc := service.NewAdminService(studentRepo, adminRepo, exporter, logr)

	settingsSvc := service.NewSettingsService(settingsRepo, redisClient, cfg.Settings.CacheTTL, map[string]string{
		models.SettingSupportTel: cfg.Settings.FallbackSupportTel,
		models.SettingNoticeURL:  cfg.Settings.FallbackNoticeURL,
	}, logr)
	jobSvc := service.NewStatusJobService(assignmentRepo, scheduleRepo, metrics, logr)

	authHandler := handler.NewAuthHandler(authSvc, registrationSvc, logr)
	studentHandler := handler.NewStudentHandler(studentSvc, lifecycleSvc, logr)
	parentHandler := handler.NewParentHandler(parentSvc, logr)
	adminHandler := handler.NewAdminHandler(adminSvc, lifecycleSvc, logr)
	settingsHandler := handler.NewSettingsHandler(settingsSvc, logr)
	jobHandler := handler.NewJobHandler(jobSvc, cfg.Cron.Secret, logr)

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metrics))
	r.Use(middleware.Session(authSvc))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(metrics.Handler()))

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	auth := r.Group("/auth")
	{
		auth.POST("/login", authHandler.Login)
		auth.POST("/admin/login", authHandler.AdminLogin)
		auth.POST("/signup/student", authHandler.StudentSignup)
		auth.POST("/signup/parent", authHandler.ParentSignup)
		auth.POST("/signup/admin", authHandler.AdminSignup)
		auth.POST("/signup/admin/provider", authHandler.AdminProviderSignup)
	}

	student := r.Group("/student/:id", middleware.Gate(accessSvc, service.AreaStudent))
	{
		student.GET("", studentHandler.Dashboard)
		student.POST("/deactivate", studentHandler.Deactivate)
		student.POST("/reactivate", studentHandler.Reactivate)
		student.DELETE("", studentHandler.Withdraw)

		student.POST("/units", studentHandler.CreateUnit)
		student.PUT("/units/:unitId", studentHandler.UpdateUnit)
		student.DELETE("/units/:unitId", studentHandler.DeleteUnit)

		student.POST("/assignments", studentHandler.CreateAssignment)
		student.PUT("/assignments/:assignmentId", studentHandler.UpdateAssignment)
		student.POST("/assignments/:assignmentId/submit", studentHandler.SubmitAssignment)
		student.DELETE("/assignments/:assignmentId", studentHandler.DeleteAssignment)

		student.POST("/schedules", studentHandler.CreateSchedule)
		student.PUT("/schedules/:scheduleId", studentHandler.UpdateSchedule)
		student.DELETE("/schedules/:scheduleId", studentHandler.DeleteSchedule)

		student.POST("/notes", studentHandler.CreateNote)
		student.PUT("/notes/:noteId", studentHandler.UpdateNote)
		student.DELETE("/notes/:noteId", studentHandler.DeleteNote)
	}

	parent := r.Group("/parent/:uid", middleware.Gate(accessSvc, service.AreaParent))
	{
		parent.GET("", parentHandler.Profile)
		parent.DELETE("", parentHandler.Withdraw)
		parent.PUT("/students", parentHandler.UpdateStudentLinks)
		parent.GET("/students/:studentRef", parentHandler.StudentView)
	}

	admin := r.Group("/admin", middleware.Gate(accessSvc, service.AreaAdmin))
	{
		admin.GET("/students", adminHandler.ListStudents)
		admin.GET("/students/export", adminHandler.ExportRoster)
		admin.GET("/students/:uid", adminHandler.GetStudent)
		admin.PATCH("/students/:uid/approval", adminHandler.SetStudentApproval)
		admin.PATCH("/students/:uid/account", adminHandler.SetStudentAccountStatus)
		admin.DELETE("/admins/:id", adminHandler.WithdrawSelf)
		admin.PUT("/settings/:key", settingsHandler.Update)
	}

	adminSuper := r.Group("/admin/admins", middleware.Gate(accessSvc, service.AreaAdminSuper))
	{
		adminSuper.GET("", adminHandler.ListAdmins)
		adminSuper.PATCH("/:id/approval", adminHandler.SetAdminApproval)
	}

	r.GET("/settings", settingsHandler.List)
	r.GET("/settings/:key", settingsHandler.Get)

	jobs := r.Group("/jobs")
	{
		jobs.GET("/status-refresh", jobHandler.Probe)
		jobs.POST("/status-refresh", jobHandler.RefreshStatuses)
	}

	addr := fmt.Sprintf(":%d", cfg.Port)
	logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env)
	if err := r.Run(addr); err != nil {
		logr.Sugar().Fatalw("server failed", "error", err)
	}
}
