package bootstrap

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"

	appControllers "github.com/yigit/enrollportal/internal/app/controllers"
	appMigrations "github.com/yigit/enrollportal/internal/app/migrations"
	appRepos "github.com/yigit/enrollportal/internal/app/repositories"
	"github.com/yigit/enrollportal/internal/app/repositories/memory"
	appRoutes "github.com/yigit/enrollportal/internal/app/routes"
	appServices "github.com/yigit/enrollportal/internal/app/services"
	"github.com/yigit/enrollportal/internal/config"
	"github.com/yigit/enrollportal/internal/db"
	"github.com/yigit/enrollportal/internal/jobs"
	appMiddleware "github.com/yigit/enrollportal/internal/middleware"
	pkgAuth "github.com/yigit/enrollportal/internal/pkg/auth"
	"github.com/yigit/enrollportal/internal/pkg/helpers"
	"github.com/yigit/enrollportal/internal/pkg/logger"
	"github.com/yigit/enrollportal/internal/seed"
)

// DefaultConfigPath is where LoadConfigAndSetupLogger looks for the YAML config
var DefaultConfigPath = filepath.Join("configs", "config.yaml")

// Dependencies holds all the application dependencies
type Dependencies struct {
	Repos                *appRepos.Repositories
	JWTService           *pkgAuth.JWTService
	AuthService          appServices.AuthService
	EnrollmentService    appServices.EnrollmentService
	AuthController       *appControllers.AuthController
	EnrollmentController *appControllers.EnrollmentController
	StudentController    *appControllers.StudentController
	AuthMiddleware       *appMiddleware.AuthMiddleware
	Scheduler            *jobs.Scheduler
	Logger               zerolog.Logger
}

// LoadConfigAndSetupLogger loads configuration and initializes the logger.
func LoadConfigAndSetupLogger(configPath string) (*config.Config, zerolog.Logger, error) {
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to load configuration")
		return nil, zerolog.Logger{}, err
	}

	logLevel := logger.ParseLevel(cfg.Logging.Level)
	lgr := logger.Configure(logger.Config{
		Level:  logLevel,
		Pretty: strings.EqualFold(cfg.Logging.Format, "text"),
	})

	lgr.Info().
		Str("logLevel", string(logLevel)).
		Str("logFormat", cfg.Logging.Format).
		Str("dbDriver", cfg.Database.Driver).
		Msg("Logger configured")
	return cfg, lgr, nil
}

// SetupDatabase connects to PostgreSQL and applies migrations.
// It returns nil for the memory driver.
func SetupDatabase(ctx context.Context, cfg *config.Config, lgr zerolog.Logger) (*db.PostgresDB, error) {
	if cfg.Database.Driver == config.DriverMemory {
		lgr.Warn().Msg("Using in-memory storage, data is lost on restart")
		return nil, nil
	}

	lgr.Info().Str("host", cfg.Database.Host).Str("db", cfg.Database.DBName).Msg("Establishing database connection...")
	database, err := db.NewPostgresDB(cfg)
	if err != nil {
		lgr.Error().Err(err).Msg("Failed to connect to database")
		return nil, err
	}
	lgr.Info().Msg("Database connection successfully established.")

	migrationsDir := cfg.Database.MigrationsDir
	if _, err := os.Stat(migrationsDir); os.IsNotExist(err) {
		database.Close()
		return nil, fmt.Errorf("migrations directory not found at %s: %w", migrationsDir, err)
	}

	migrator := appMigrations.NewMigrator(database.Pool, logger.Component("migrations"))
	if err := migrator.MigrateFromDirectory(ctx, migrationsDir); err != nil {
		database.Close()
		return nil, fmt.Errorf("database migrations failed: %w", err)
	}
	lgr.Info().Msg("Database migrations successfully applied.")

	return database, nil
}

// BuildDependencies initializes application repositories, services, controllers and jobs.
// A nil database selects the in-memory repositories.
func BuildDependencies(cfg *config.Config, database *db.PostgresDB, lgr zerolog.Logger) (*Dependencies, error) {
	deps := &Dependencies{Logger: lgr}

	if database != nil {
		deps.Repos = appRepos.NewRepositories(database.Pool)
	} else {
		deps.Repos = memory.Repositories()
	}

	deps.JWTService = pkgAuth.NewJWTService(pkgAuth.JWTConfig{
		SecretKey:   cfg.JWT.Secret,
		TokenExp:    helpers.ParseDuration(cfg.JWT.TokenExpiration, 7*24*time.Hour),
		TokenIssuer: cfg.JWT.Issuer,
	})

	deps.AuthService = appServices.NewAuthService(deps.Repos.UserRepository, deps.JWTService, logger.Component("auth"))
	deps.EnrollmentService = appServices.NewEnrollmentService(deps.Repos.EnrollmentRepository, logger.Component("enrollments"))

	deps.AuthMiddleware = appMiddleware.NewAuthMiddleware(deps.AuthService, logger.Component("guard"))

	deps.AuthController = appControllers.NewAuthController(deps.AuthService, logger.Component("auth"))
	deps.EnrollmentController = appControllers.NewEnrollmentController(deps.EnrollmentService)
	deps.StudentController = appControllers.NewStudentController(deps.EnrollmentService)

	deps.Scheduler = jobs.NewScheduler(logger.Component("jobs"))
	cleanup := jobs.NewTokenCleanupJob(deps.Repos.UserRepository, logger.Component("jobs"))
	if err := deps.Scheduler.Add("token-cleanup", cfg.Jobs.TokenCleanupSchedule, cleanup); err != nil {
		return nil, err
	}

	return deps, nil
}

// SeedDemoData creates the demo account when seeding is enabled.
// On PostgreSQL the whole seed runs in one transaction.
func SeedDemoData(ctx context.Context, cfg *config.Config, database *db.PostgresDB, deps *Dependencies) error {
	if !cfg.Seed.Enabled {
		return nil
	}

	account := seed.DemoAccount{
		Name:     cfg.Seed.DemoName,
		Email:    strings.ToLower(strings.TrimSpace(cfg.Seed.DemoEmail)),
		Password: cfg.Seed.DemoPassword,
	}
	seedLogger := logger.Component("seed")

	if database == nil {
		_, err := seed.CreateDemoData(ctx, deps.Repos, account, seedLogger)
		return err
	}

	return database.WithTransaction(ctx, func(ctx context.Context, tx pgx.Tx) error {
		_, err := seed.CreateDemoData(ctx, appRepos.NewRepositories(tx), account, seedLogger)
		return err
	})
}

// corsConfig builds the CORS policy for the browser client
func corsConfig(origins []string) cors.Config {
	cfg := cors.Config{
		AllowMethods:  []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowHeaders:  []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders: []string{appMiddleware.RequestIDHeader},
		MaxAge:        12 * time.Hour,
	}

	for _, o := range origins {
		if o == "*" {
			cfg.AllowAllOrigins = true
			return cfg
		}
	}
	cfg.AllowOrigins = origins
	return cfg
}

// SetupRouter configures the Gin engine with middleware and routes.
func SetupRouter(cfg *config.Config, deps *Dependencies, lgr zerolog.Logger) *gin.Engine {
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
		lgr.Info().Msg("Setting Gin mode to release")
	} else {
		gin.SetMode(gin.DebugMode)
		lgr.Info().Msg("Setting Gin mode to debug")
	}

	router := gin.New()
	router.Use(
		gin.Recovery(),
		appMiddleware.RequestID(lgr),
		appMiddleware.RequestLogger(),
		cors.New(corsConfig(cfg.Server.AllowedOrigins)),
	)

	appRoutes.SetupSwagger(router)

	appRoutes.SetupRouter(router,
		deps.AuthController,
		deps.EnrollmentController,
		deps.StudentController,
		deps.AuthMiddleware,
	)

	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong", "status": "success"})
	})

	return router
}
