package main

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"github.com/tmkhang/Margays/config"
	"github.com/tmkhang/Margays/database"
	adminctrl "github.com/tmkhang/Margays/internal/controller/admin"
	userctrl "github.com/tmkhang/Margays/internal/controller/user"
	"github.com/tmkhang/Margays/internal/logger"
	"github.com/tmkhang/Margays/internal/middleware"
	"github.com/tmkhang/Margays/internal/model"
	"github.com/tmkhang/Margays/internal/repository"
	"github.com/tmkhang/Margays/internal/service"
	"go.uber.org/fx"
	"gorm.io/gorm"
)

// @title Security Audit API
// @version 1.0
// @description Risk-rated security audit submissions with admin review and vulnerability tracking.
// @host localhost:8080
// @BasePath /api/v1
// @schemes http https
func main() {
	logger.Init()

	app := fx.New(
		fx.Provide(
			config.NewConfig,
			database.NewDatabase,
			NewGinEngine,
		),

		fx.Provide(
			repository.NewQuestionRepository,
			repository.NewSubmissionRepository,
			repository.NewAnswerRepository,
			repository.NewVulnerabilityRepository,
			repository.NewUserRepository,
		),

		fx.Provide(
			service.NewRiskEvaluatorService,
			service.NewRiskAggregatorService,
			service.NewQuestionService,
			service.NewSubmissionService,
			service.NewVulnerabilityService,
			service.NewReviewService,
			service.NewAnalyticsService,
		),

		fx.Provide(
			adminctrl.NewQuestionController,
			adminctrl.NewReviewController,
			adminctrl.NewAnalyticsController,
			adminctrl.NewVulnerabilityController,
			userctrl.NewQuestionController,
			userctrl.NewSubmissionController,
			userctrl.NewVulnerabilityController,
		),

		fx.Invoke(AutoMigrateDB),
		fx.Invoke(RegisterRoutesAndStartServer),
	)

	if err := app.Start(context.Background()); err != nil {
		log.Fatal().Err(err).Msg("Failed to start application")
	}

	<-app.Done()
	log.Info().Msg("Application shutting down gracefully...")
}

func NewGinEngine(cfg *config.Config) *gin.Engine {
	if cfg.Server.Mode == gin.ReleaseMode {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	r.Use(gin.LoggerWithFormatter(func(param gin.LogFormatterParams) string {
		log.Info().
			Str("client_ip", param.ClientIP).
			Str("method", param.Method).
			Str("path", param.Path).
			Int("status_code", param.StatusCode).
			Dur("latency", param.Latency).
			Str("error_message", param.ErrorMessage).
			Msg("gin_request")
		return ""
	}))
	r.Use(gin.Recovery())

	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", middleware.HeaderUserID, middleware.HeaderUserRole},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	// URL: http://localhost:PORT/swagger/index.html
	// Requires the generated docs package: run `swag init -g cmd/main.go`
	// and blank-import the resulting docs package before the UI serves a spec.
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	return r
}

// RegisterRoutesAndStartServer configures API routes and manages server lifecycle.
func RegisterRoutesAndStartServer(
	lc fx.Lifecycle,
	router *gin.Engine,
	cfg *config.Config,
	adminQuestionCtrl *adminctrl.QuestionController,
	adminReviewCtrl *adminctrl.ReviewController,
	adminAnalyticsCtrl *adminctrl.AnalyticsController,
	adminVulnCtrl *adminctrl.VulnerabilityController,
	userQuestionCtrl *userctrl.QuestionController,
	userSubmissionCtrl *userctrl.SubmissionController,
	userVulnCtrl *userctrl.VulnerabilityController,
) {
	api := router.Group("/api/v1", middleware.Identity())
	{
		api.GET("/audit-questions", userQuestionCtrl.GetAllQuestions)
		api.GET("/audit-questions/:id", userQuestionCtrl.GetQuestion)

		api.POST("/audit-submissions", userSubmissionCtrl.CreateSubmission)
		api.GET("/audit-submissions", userSubmissionCtrl.ListSubmissions)
		api.GET("/audit-submissions/:id", userSubmissionCtrl.GetSubmission)

		api.GET("/vulnerability-records", userVulnCtrl.ListRecords)
		api.GET("/vulnerability-records/:id", userVulnCtrl.GetRecord)
	}

	admin := router.Group("/api/v1/admin", middleware.Identity(), middleware.RequireAdmin())
	{
		questions := admin.Group("/audit-questions")
		questions.POST("", adminQuestionCtrl.CreateQuestion)
		questions.GET("/archived", adminQuestionCtrl.GetArchivedQuestions)
		questions.GET("/statistics", adminQuestionCtrl.GetQuestionStatistics)
		questions.PUT("/:id", adminQuestionCtrl.UpdateQuestion)
		questions.DELETE("/:id", adminQuestionCtrl.ArchiveQuestion)
		questions.POST("/:id/restore", adminQuestionCtrl.RestoreQuestion)

		submissions := admin.Group("/audit-submissions")
		submissions.PUT("/:id/answers/bulk-review", adminReviewCtrl.BulkReviewAnswers)
		submissions.PUT("/:id/answers/:answer_id/review", adminReviewCtrl.ReviewAnswer)
		submissions.PUT("/:id/complete", adminReviewCtrl.CompleteReview)
		submissions.POST("/:id/recalculate-risk", adminReviewCtrl.RecalculateRisk)

		admin.GET("/dashboard", adminAnalyticsCtrl.Dashboard)
		admin.GET("/analytics", adminAnalyticsCtrl.Analytics)
		admin.PUT("/vulnerability-records/:id/status", adminVulnCtrl.UpdateStatus)
	}

	server := &http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: router,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			log.Info().Msgf("Security Audit API server starting on port %s", cfg.Server.Port)
			log.Info().Msgf("Swagger UI available at http://localhost:%s/swagger/index.html", cfg.Server.Port)
			go func() {
				if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					log.Fatal().Err(err).Msg("Server ListenAndServe failed")
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			log.Info().Msg("Server shutting down...")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			return server.Shutdown(shutdownCtx)
		},
	})
}

func AutoMigrateDB(db *gorm.DB) error {
	log.Info().Msg("Running database migrations...")
	err := db.AutoMigrate(
		&model.User{},
		&model.Question{},
		&model.Submission{},
		&model.Answer{},
		&model.VulnerabilityRecord{},
		&model.Finding{},
	)
	if err != nil {
		log.Error().Err(err).Msg("Database migration failed")
		return err
	}
	log.Info().Msg("Database migration completed successfully.")
	return nil
}
