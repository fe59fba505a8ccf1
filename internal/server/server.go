package server

import (
	"os"

	"github.com/gin-gonic/gin"

	"github.com/provat/codetriage/internal/config"
	"github.com/provat/codetriage/internal/infrastructure/database"
)

type Server struct {
	*gin.Engine

	Config *config.Config
	DB     *database.Database
}

func New() (*Server, error) {
	// Get config path from environment or use default
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "configs/config.yaml"
	}

	// Load configuration
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}

	// Initialize database connection
	db, err := database.NewDatabase(&cfg.Database)
	if err != nil {
		return nil, err
	}

	// Set Gin mode based on configuration
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	return &Server{
		Engine: gin.New(),
		Config: cfg,
		DB:     db,
	}, nil
}
