package main

import (
	"flag"
	"os"

	"github.com/yigit/enrollportal/internal/bootstrap"
	"github.com/yigit/enrollportal/internal/pkg/logger"
	"github.com/yigit/enrollportal/internal/server"
)

// @title Student Enrollment Portal API
// @version 1.0
// @description Accounts, enrollment records and per-user access for the student enrollment portal.

// @host localhost:3000
// @BasePath /api

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and the token.

func main() {
	configPath := flag.String("config", bootstrap.DefaultConfigPath, "path to the YAML config file")
	flag.Parse()

	srv, err := server.NewServer(*configPath)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to initialize server")
		os.Exit(1)
	}

	if err := srv.Run(); err != nil {
		logger.Error().Err(err).Msg("Server execution failed or shutdown encountered errors")
		os.Exit(1)
	}

	logger.Info().Msg("Application finished gracefully.")
}
