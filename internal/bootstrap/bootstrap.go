package bootstrap

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	appControllers "github.com/yigit/mentormatch/internal/app/controllers"
	appMigrations "github.com/yigit/mentormatch/internal/app/migrations"
	"github.com/yigit/mentormatch/internal/app/models/dto"
	appRepos "github.com/yigit/mentormatch/internal/app/repositories"
	appRoutes "github.com/yigit/mentormatch/internal/app/routes"
	appServices "github.com/yigit/mentormatch/internal/app/services"
	"github.com/yigit/mentormatch/internal/config"
	"github.com/yigit/mentormatch/internal/db"
	appMiddleware "github.com/yigit/mentormatch/internal/middleware"
	pkgAuth "github.com/yigit/mentormatch/internal/pkg/auth"
	"github.com/yigit/mentormatch/internal/pkg/helpers"
	"github.com/yigit/mentormatch/internal/pkg/logger"
	"github.com/yigit/mentormatch/internal/seed"
)

// limiterCleanupInterval is how often idle rate limiter entries are swept
const limiterCleanupInterval = time.Minute

// Dependencies holds all the application dependencies
type Dependencies struct {
	Repos          *appRepos.Repositories
	Services       *appServices.Services
	JWTService     *pkgAuth.JWTService
	AuthMiddleware *appMiddleware.AuthMiddleware
	Limiters       *appMiddleware.RateLimiters
	Controllers    appRoutes.Controllers
	Logger         zerolog.Logger
}

// ConfigPath returns the config file location, overridable with CONFIG_PATH
func ConfigPath() string {
	if p := os.Getenv("CONFIG_PATH"); p != "" {
		return p
	}
	return filepath.Join("configs", "config.yaml")
}

// LoadConfigAndSetupLogger loads configuration and initializes the logger.
func LoadConfigAndSetupLogger() (*config.Config, zerolog.Logger, error) {
	cfg, err := config.LoadConfig(ConfigPath())
	if err != nil {
		logger.Error().Err(err).Msg("Failed to load configuration")
		return nil, zerolog.Logger{}, err
	}

	logLevel := logger.LogLevel(strings.ToLower(cfg.Logging.Level))
	prettyLog := strings.ToLower(cfg.Logging.Format) == "text"

	logger.Configure(logger.Config{
		Level:  logLevel,
		Pretty: prettyLog,
	})

	lgr := log.Logger
	lgr.Info().Str("logLevel", string(logLevel)).Str("logFormat", cfg.Logging.Format).Msg("Logger configured")
	return cfg, lgr, nil
}

// SetupDatabase establishes the database connection and runs migrations.
func SetupDatabase(cfg *config.Config, lgr zerolog.Logger) (*db.PostgresDB, error) {
	lgr.Info().Msg("Establishing database connection...")
	database, err := db.NewPostgresDB(cfg)
	if err != nil {
		lgr.Error().Err(err).Msg("Failed to connect to database")
		return nil, err
	}
	lgr.Info().Msg("Database connection successfully established.")

	lgr.Info().Msg("Running database migrations...")
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	migrator := appMigrations.NewMigrator(database.Pool, lgr.With().Str("component", "migrator").Logger())
	if err := migrator.Migrate(ctx); err != nil {
		lgr.Error().Err(err).Msg("Database migration error")
		database.Close()
		return nil, fmt.Errorf("database migrations failed: %w", err)
	}
	lgr.Info().Msg("Database migrations successfully applied.")

	return database, nil
}

// BuildDependencies initializes application repositories, services, and controllers.
func BuildDependencies(cfg *config.Config, pool db.Pool, lgr zerolog.Logger) (*Dependencies, error) {
	deps := &Dependencies{Logger: lgr}

	deps.Repos = appRepos.NewRepositories(pool)

	deps.JWTService = pkgAuth.NewJWTService(pkgAuth.JWTConfig{
		SecretKey:      cfg.JWT.Secret,
		AccessTokenExp: helpers.ParseDuration(cfg.JWT.AccessTokenExpiration, time.Hour),
		Issuer:         cfg.JWT.Issuer,
		Audience:       cfg.JWT.Audience,
	})

	if cfg.Match.SkipExclusivityChecks {
		lgr.Warn().Msg("Match exclusivity pre-checks are disabled; storage constraints still apply")
	}

	deps.Services = appServices.NewServices(deps.Repos, appServices.Options{
		Tokens:     deps.JWTService,
		BcryptCost: cfg.Security.BcryptCost,
		MatchRules: appServices.MatchRulesConfig{
			MaxMessageLength:      cfg.Match.MaxMessageLength,
			SkipExclusivityChecks: cfg.Match.SkipExclusivityChecks,
		},
	}, lgr)

	deps.AuthMiddleware = appMiddleware.NewAuthMiddleware(deps.JWTService, deps.Repos.UserRepository)
	deps.Limiters = buildRateLimiters(cfg, lgr)

	deps.Controllers = appRoutes.Controllers{
		Auth:         appControllers.NewAuthController(deps.Services.Auth, lgr.With().Str("component", "auth_controller").Logger()),
		User:         appControllers.NewUserController(deps.Services.User),
		MatchRequest: appControllers.NewMatchRequestController(deps.Services.MatchRequest, lgr.With().Str("component", "match_request_controller").Logger()),
	}

	return deps, nil
}

func buildRateLimiters(cfg *config.Config, lgr zerolog.Logger) *appMiddleware.RateLimiters {
	if !cfg.RateLimit.Enabled {
		lgr.Info().Msg("Rate limiting disabled")
		return &appMiddleware.RateLimiters{}
	}

	window := helpers.ParseDuration(cfg.RateLimit.Window, 15*time.Minute)
	lgr.Info().
		Dur("window", window).
		Int("general", cfg.RateLimit.GeneralRequests).
		Int("auth", cfg.RateLimit.AuthRequests).
		Int("profile", cfg.RateLimit.ProfileRequests).
		Msg("Rate limiting enabled")

	return &appMiddleware.RateLimiters{
		General: appMiddleware.NewLimiterStore(cfg.RateLimit.GeneralRequests, window, limiterCleanupInterval),
		Auth:    appMiddleware.NewLimiterStore(cfg.RateLimit.AuthRequests, window, limiterCleanupInterval),
		Profile: appMiddleware.NewLimiterStore(cfg.RateLimit.ProfileRequests, window, limiterCleanupInterval),
	}
}

// SeedDemoData creates the demo accounts when enabled in config
func SeedDemoData(ctx context.Context, cfg *config.Config, deps *Dependencies, lgr zerolog.Logger) {
	if !cfg.Seed.DemoAccounts {
		return
	}
	if err := seed.CreateDemoAccounts(ctx, deps.Services.Auth, lgr); err != nil {
		// Startup continues without demo data
		lgr.Error().Err(err).Msg("Failed to create demo accounts, proceeding anyway...")
	}
}

// ConfigureValidator makes binding errors report JSON field names
func ConfigureValidator() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		dto.UseJSONFieldNames(v)
	}
}

// SetupRouter configures the Gin engine with middleware and routes.
func SetupRouter(cfg *config.Config, deps *Dependencies, lgr zerolog.Logger) *gin.Engine {
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
		lgr.Info().Msg("Setting Gin mode to release")
	} else if gin.Mode() != gin.TestMode {
		gin.SetMode(gin.DebugMode)
		lgr.Info().Msg("Setting Gin mode to debug")
	}

	ConfigureValidator()

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(appMiddleware.SecurityHeaders())
	router.Use(appMiddleware.RequestLogger(lgr.With().Str("component", "http").Logger()))
	router.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.Server.AllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
	router.Use(appMiddleware.BodyLimit(appMiddleware.MaxBodyBytes))

	appRoutes.SetupRouter(router, deps.Controllers, deps.AuthMiddleware, deps.Limiters)

	return router
}
