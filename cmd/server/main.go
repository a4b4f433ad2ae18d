package main

import (
	"taskboard/internal/config"
	"taskboard/internal/logger"
	"taskboard/internal/server"

	"go.uber.org/zap"
)

// @title           Task Board API
// @version         1.0
// @description     API for shared Kanban boards with backlog, in progress and done columns.

// @host      localhost:8080
// @BasePath  /

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

// @schemes http
func main() {
	cfg := config.Load()

	zl := logger.New(cfg.LogLevel, cfg.LogFormat)
	defer zl.Sync()

	s, err := server.Init(cfg, zl)
	if err != nil {
		zl.Fatal("server initialization failed", zap.Error(err))
	}

	s.Run()
}
