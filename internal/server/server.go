package server

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"taskboard/internal/config"
	"taskboard/internal/handler"
	"taskboard/internal/middleware"
	"taskboard/internal/model"
	"taskboard/internal/repository"
	"taskboard/internal/service"
	"taskboard/internal/storage"
)

type Server struct {
	Engine *gin.Engine
	DB     *gorm.DB
	Config *config.Config
	Logger zerolog.Logger
}

func Init(cfg *config.Config) (*Server, error) {
	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()
	if cfg.Env == "development" {
		logger = logger.Output(zerolog.ConsoleWriter{Out: os.Stdout})
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	dsn := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		cfg.DBHost, cfg.DBPort, cfg.DBUser, cfg.DBPassword, cfg.DBName,
	)
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("❌ failed to connect to DB: %w", err)
	}
	logger.Info().Msg("✅ Connected to database")

	if err := db.Exec(`CREATE EXTENSION IF NOT EXISTS "uuid-ossp"`).Error; err != nil {
		return nil, fmt.Errorf("❌ failed to enable uuid-ossp: %w", err)
	}
	if err := db.AutoMigrate(
		&model.User{},
		&model.Board{},
		&model.List{},
		&model.Card{},
		&model.Template{},
		&model.Activity{},
	); err != nil {
		return nil, fmt.Errorf("❌ failed to migrate schema: %w", err)
	}

	r := gin.Default()

	// Repositories
	userRepo := repository.NewUserRepository(db)
	boardRepo := repository.NewBoardRepository(db)
	listRepo := repository.NewListRepository(db)
	cardRepo := repository.NewCardRepository(db)
	templateRepo := repository.NewTemplateRepository(db)
	activityRepo := repository.NewActivityRepository(db)

	// Services
	recorder := service.NewRecorder(activityRepo, logger)
	content := storage.NewLocal(cfg.UploadDir, cfg.BaseURL)
	boardService := service.NewBoardService(boardRepo, recorder, logger)
	listService := service.NewListService(listRepo, boardRepo, recorder, logger)
	cardService := service.NewCardService(cardRepo, listRepo, boardRepo, content, recorder, logger)
	memberService := service.NewMemberService(boardRepo, userRepo, recorder, logger)
	labelService := service.NewLabelService(boardRepo, cardRepo, recorder, logger)
	templateService := service.NewTemplateService(templateRepo, boardRepo, listRepo, cardRepo, recorder, logger)
	activityService := service.NewActivityService(activityRepo, boardRepo, cardRepo)

	// Handlers
	jwtExpiry := time.Duration(cfg.JWTExpiryHours) * time.Hour
	userHandler := handler.NewUserHandler(userRepo, cfg.JWTSecret, jwtExpiry)
	boardHandler := handler.NewBoardHandler(boardService)
	listHandler := handler.NewListHandler(listService)
	cardHandler := handler.NewCardHandler(cardService)
	sharingHandler := handler.NewSharingHandler(memberService)
	labelHandler := handler.NewLabelHandler(labelService)
	templateHandler := handler.NewTemplateHandler(templateService)
	activityHandler := handler.NewActivityHandler(activityService)

	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	r.Static("/uploads", cfg.UploadDir)

	api := r.Group("/api")

	// Public routes
	api.POST("/auth/register", userHandler.Register)
	api.POST("/auth/login", userHandler.Login)

	// Protected routes
	authorized := api.Group("/")
	authorized.Use(middleware.JWTAuthMiddleware(cfg.JWTSecret))
	{
		authorized.GET("/auth/me", userHandler.Me)

		// Board routes
		authorized.POST("/boards", boardHandler.Create)
		authorized.GET("/boards", boardHandler.GetAll)
		authorized.GET("/boards/archived", boardHandler.GetArchived)
		authorized.GET("/boards/shared", sharingHandler.SharedWithMe)
		authorized.GET("/boards/:id", boardHandler.GetByID)
		authorized.PUT("/boards/:id", boardHandler.Update)
		authorized.DELETE("/boards/:id", boardHandler.Delete)
		authorized.POST("/boards/:id/archive", boardHandler.Archive)
		authorized.POST("/boards/:id/restore", boardHandler.Restore)

		// List routes
		authorized.POST("/boards/:id/lists", listHandler.Create)
		authorized.GET("/boards/:id/lists", listHandler.GetByBoard)
		authorized.GET("/boards/:id/lists/archived", listHandler.GetArchived)
		authorized.PUT("/boards/:id/lists/reorder", listHandler.Reorder)
		authorized.PUT("/lists/:id", listHandler.Update)
		authorized.DELETE("/lists/:id", listHandler.Delete)
		authorized.POST("/lists/:id/archive", listHandler.Archive)
		authorized.POST("/lists/:id/restore", listHandler.Restore)

		// Card routes
		authorized.POST("/lists/:id/cards", cardHandler.Create)
		authorized.GET("/lists/:id/cards", cardHandler.GetByList)
		authorized.GET("/boards/:id/cards/archived", cardHandler.GetArchivedByBoard)
		authorized.GET("/cards/:id", cardHandler.GetByID)
		authorized.PUT("/cards/:id", cardHandler.Update)
		authorized.DELETE("/cards/:id", cardHandler.Delete)
		authorized.POST("/cards/:id/move", cardHandler.Move)
		authorized.POST("/cards/:id/archive", cardHandler.Archive)
		authorized.POST("/cards/:id/restore", cardHandler.Restore)

		// Comments
		authorized.POST("/cards/:id/comments", cardHandler.AddComment)
		authorized.PUT("/cards/:id/comments/:commentId", cardHandler.EditComment)
		authorized.DELETE("/cards/:id/comments/:commentId", cardHandler.DeleteComment)

		// Checklist
		authorized.POST("/cards/:id/checklist", cardHandler.AddChecklistItem)
		authorized.PUT("/cards/:id/checklist/reorder", cardHandler.ReorderChecklist)
		authorized.PUT("/cards/:id/checklist/:itemId", cardHandler.UpdateChecklistItem)
		authorized.DELETE("/cards/:id/checklist/:itemId", cardHandler.DeleteChecklistItem)

		// Card labels
		authorized.POST("/cards/:id/labels", cardHandler.AddLabel)
		authorized.DELETE("/cards/:id/labels/:label", cardHandler.RemoveLabel)

		// Attachments
		authorized.POST("/cards/:id/attachments", cardHandler.AddAttachment)
		authorized.DELETE("/cards/:id/attachments/:attachmentId", cardHandler.RemoveAttachment)

		// Sharing routes
		authorized.POST("/boards/:id/members", sharingHandler.Invite)
		authorized.GET("/boards/:id/members", sharingHandler.List)
		authorized.PUT("/boards/:id/members/:memberId", sharingHandler.UpdateRole)
		authorized.DELETE("/boards/:id/members/:memberId", sharingHandler.Remove)
		authorized.POST("/boards/:id/leave", sharingHandler.Leave)

		// Board label routes
		authorized.POST("/boards/:id/labels", labelHandler.Create)
		authorized.GET("/boards/:id/labels", labelHandler.List)
		authorized.PUT("/boards/:id/labels/:labelId", labelHandler.Update)
		authorized.DELETE("/boards/:id/labels/:labelId", labelHandler.Delete)

		// Template routes
		authorized.POST("/boards/:id/template", templateHandler.SaveBoard)
		authorized.GET("/templates", templateHandler.GetMine)
		authorized.GET("/templates/public", templateHandler.GetPublic)
		authorized.GET("/templates/:id", templateHandler.GetByID)
		authorized.PUT("/templates/:id", templateHandler.Update)
		authorized.DELETE("/templates/:id", templateHandler.Delete)
		authorized.POST("/templates/:id/instantiate", templateHandler.Instantiate)

		// Activity routes
		authorized.GET("/boards/:id/activity", activityHandler.GetByBoard)
		authorized.GET("/cards/:id/activity", activityHandler.GetByCard)
		authorized.GET("/activity", activityHandler.GetMine)
	}

	return &Server{
		Engine: r,
		DB:     db,
		Config: cfg,
		Logger: logger,
	}, nil
}

func (s *Server) Run() {
	srv := &http.Server{
		Addr:    ":" + s.Config.ServerPort,
		Handler: s.Engine,
	}

	go func() {
		s.Logger.Info().Str("port", s.Config.ServerPort).Msg("🚀 Server running")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			s.Logger.Fatal().Err(err).Msg("❌ Failed to listen")
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	s.Logger.Info().Msg("🛑 Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		s.Logger.Fatal().Err(err).Msg("❌ Server forced to shutdown")
	}

	if sqlDB, err := s.DB.DB(); err == nil {
		if err := sqlDB.Close(); err != nil {
			s.Logger.Error().Err(err).Msg("failed to close database")
		}
	}

	s.Logger.Info().Msg("✅ Server exited properly")
}
