package server

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"taskboard/docs"
	"taskboard/internal/auth"
	"taskboard/internal/config"
	"taskboard/internal/handler"
	"taskboard/internal/kanban"
	"taskboard/internal/middleware"
	"taskboard/internal/repository"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Server struct {
	Engine *gin.Engine
	DB     *gorm.DB
	Config *config.Config
	Users  *kanban.UserDirectory
	Boards *kanban.BoardDirectory

	log *zap.Logger
}

func Init(cfg *config.Config, log *zap.Logger) (*Server, error) {
	db, err := repository.Open(cfg)
	if err != nil {
		return nil, err
	}
	log.Info("connected to database", zap.String("driver", cfg.DBDriver))

	var opts []kanban.Option
	if cfg.BcryptCost > 0 {
		opts = append(opts, kanban.WithHashCost(cfg.BcryptCost))
	}
	store := repository.NewStore(db)
	users := kanban.NewUserDirectory(store, log, opts...)
	boards := kanban.NewBoardDirectory(store, log, opts...)

	ctx := context.Background()
	if err := users.LoadAll(ctx); err != nil {
		return nil, fmt.Errorf("failed to load users: %w", err)
	}
	if err := boards.LoadAll(ctx); err != nil {
		return nil, fmt.Errorf("failed to load boards: %w", err)
	}

	tokens := auth.NewTokenIssuer(cfg.JWTSecret, time.Duration(cfg.JWTExpiryHours)*time.Hour)

	return &Server{
		Engine: NewRouter(users, boards, tokens, log),
		DB:     db,
		Config: cfg,
		Users:  users,
		Boards: boards,
		log:    log,
	}, nil
}

// NewRouter registers every route on a fresh gin engine.
func NewRouter(users *kanban.UserDirectory, boards *kanban.BoardDirectory, tokens *auth.TokenIssuer, log *zap.Logger) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), middleware.RequestLogger(log))

	userHandler := handler.NewUserHandler(users, tokens, log)
	boardHandler := handler.NewBoardHandler(boards, users, log)
	taskHandler := handler.NewTaskHandler(boards, log)

	// Public routes
	r.POST("/register", userHandler.Register)
	r.POST("/login", userHandler.Login)
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler,
		ginSwagger.InstanceName(docs.SwaggerInfo.InstanceName())))

	// Protected routes - require a token and an open session
	authorized := r.Group("/")
	authorized.Use(middleware.JWTAuthMiddleware(tokens), middleware.RequireSession(users))
	{
		authorized.POST("/logout", userHandler.Logout)
		authorized.PUT("/password", userHandler.ChangePassword)

		// Board routes
		authorized.POST("/boards", boardHandler.Create)
		authorized.GET("/boards", boardHandler.GetAll)
		authorized.GET("/boards/:id", boardHandler.GetByID)
		authorized.DELETE("/boards/:id", boardHandler.Delete)
		authorized.POST("/boards/:id/join", boardHandler.Join)
		authorized.POST("/boards/:id/leave", boardHandler.Leave)
		authorized.POST("/boards/:id/owner", boardHandler.TransferOwner)
		authorized.GET("/boards/:id/columns/:ordinal", boardHandler.GetColumn)
		authorized.PUT("/boards/:id/columns/:ordinal/limit", boardHandler.LimitColumn)

		// Task routes
		authorized.POST("/boards/:id/tasks", taskHandler.Create)
		authorized.GET("/boards/:id/tasks/:taskId", taskHandler.GetByID)
		authorized.PUT("/boards/:id/tasks/:taskId", taskHandler.Update)
		authorized.POST("/boards/:id/tasks/:taskId/move", taskHandler.MoveTask)
		authorized.POST("/boards/:id/tasks/:taskId/assign", taskHandler.AssignTask)
		authorized.GET("/tasks/in-progress", taskHandler.InProgress)
	}
	return r
}

func (s *Server) Run() {
	srv := &http.Server{
		Addr:    ":" + s.Config.ServerPort,
		Handler: s.Engine,
	}

	go func() {
		s.log.Info("server running", zap.String("port", s.Config.ServerPort))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			s.log.Fatal("failed to listen", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	s.log.Info("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		s.log.Fatal("server forced to shutdown", zap.Error(err))
	}
	if sqlDB, err := s.DB.DB(); err == nil {
		sqlDB.Close()
	}

	s.log.Info("server exited properly")
}
