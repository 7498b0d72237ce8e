package bootstrap

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	appControllers "github.com/yigit/campusnet/internal/app/controllers"
	appMigrations "github.com/yigit/campusnet/internal/app/migrations"
	appRepos "github.com/yigit/campusnet/internal/app/repositories"
	appRoutes "github.com/yigit/campusnet/internal/app/routes"
	appServices "github.com/yigit/campusnet/internal/app/services"
	"github.com/yigit/campusnet/internal/config"
	"github.com/yigit/campusnet/internal/db"
	appMiddleware "github.com/yigit/campusnet/internal/middleware"
	pkgAuth "github.com/yigit/campusnet/internal/pkg/auth"
	"github.com/yigit/campusnet/internal/pkg/filestorage"
	"github.com/yigit/campusnet/internal/pkg/helpers"
	"github.com/yigit/campusnet/internal/pkg/instagram"
	"github.com/yigit/campusnet/internal/pkg/logger"
	"github.com/yigit/campusnet/internal/pkg/metrics"
	"github.com/yigit/campusnet/internal/seed"
)

const (
	configPath     = "configs/config.yaml"
	seedPath       = "configs/seed.yaml"
	migrationsDir  = "migrations"
	uploadsURLPath = "/uploads"
)

// Dependencies holds all the application dependencies
type Dependencies struct {
	AuthService        *appServices.AuthService
	ProfileService     appServices.ProfileService
	FeedService        appServices.FeedService
	PostService        appServices.PostService
	FollowService      appServices.FollowService
	CollegeService     appServices.CollegeService
	EventService       appServices.EventService
	ApplicationService appServices.ApplicationService
	MirrorService      appServices.MirrorService
	Controllers        appRoutes.Controllers
	AuthMiddleware     *appMiddleware.AuthMiddleware
	RateLimiter        *appMiddleware.IPRateLimiter
	Repos              *appRepos.Repositories
	JWTService         *pkgAuth.JWTService
	Metrics            *metrics.Metrics
	Logger             zerolog.Logger
	FileStorage        *filestorage.LocalStorage
	DB                 *pgxpool.Pool
}

// LoadConfigAndSetupLogger loads configuration and initializes the logger.
func LoadConfigAndSetupLogger() (*config.Config, zerolog.Logger, error) {
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to load configuration")
		return nil, zerolog.Logger{}, err
	}

	logLevel := logger.ParseLevel(cfg.Logging.Level)
	logger.Configure(logger.Config{
		Level:  logLevel,
		Pretty: strings.ToLower(cfg.Logging.Format) == "text",
	})

	lgr := logger.Logger()
	lgr.Info().Str("logLevel", string(logLevel)).Str("logFormat", cfg.Logging.Format).Msg("Logger configured")
	return cfg, lgr, nil
}

// SetupDatabase establishes the database connection, runs migrations and seeds reference data.
func SetupDatabase(ctx context.Context, cfg *config.Config, lgr zerolog.Logger) (*pgxpool.Pool, error) {
	lgr.Info().Msg("Establishing database connection...")
	database, err := db.NewPostgresDB(ctx, cfg)
	if err != nil {
		lgr.Error().Err(err).Msg("Failed to connect to database")
		return nil, err
	}
	dbPool := database.Pool
	lgr.Info().Msg("Database connection successfully established.")

	if _, err := os.Stat(migrationsDir); os.IsNotExist(err) {
		lgr.Error().Str("path", migrationsDir).Msg("Migrations directory not found")
		dbPool.Close()
		return nil, fmt.Errorf("migrations directory not found at %s: %w", migrationsDir, err)
	}

	lgr.Info().Msg("Running database migrations...")
	if err := appMigrations.NewMigrator(dbPool, lgr).MigrateFromDirectory(ctx, migrationsDir); err != nil {
		lgr.Error().Err(err).Msg("Database migration error")
		dbPool.Close()
		return nil, fmt.Errorf("database migrations failed: %w", err)
	}
	lgr.Info().Msg("Database migrations successfully applied.")

	catalog, err := seed.LoadCatalog(seedPath)
	if err != nil {
		lgr.Error().Err(err).Msg("Failed to load reference data, proceeding anyway...")
		return dbPool, nil
	}
	if err := seed.CreateDefaultData(ctx, catalog,
		appRepos.NewEventRepository(dbPool),
		appRepos.NewCollegeRepository(dbPool),
		lgr,
	); err != nil {
		lgr.Error().Err(err).Msg("Failed to create default data, proceeding anyway...")
	}

	return dbPool, nil
}

// BuildDependencies initializes application repositories, services, and controllers.
func BuildDependencies(cfg *config.Config, dbPool *pgxpool.Pool, lgr zerolog.Logger) (*Dependencies, error) {
	deps := &Dependencies{Logger: lgr, DB: dbPool}

	deps.Repos = appRepos.NewRepositories(dbPool)
	deps.Metrics = metrics.NewWithRuntime()

	var err error
	fileStorageBaseURL := strings.TrimRight(cfg.Server.BaseURL, "/") + uploadsURLPath
	deps.FileStorage, err = filestorage.NewLocalStorage(cfg.Server.StoragePath, fileStorageBaseURL)
	if err != nil {
		lgr.Error().Err(err).Msg("Failed to initialize file storage")
		return nil, fmt.Errorf("failed to initialize file storage: %w", err)
	}

	deps.JWTService = pkgAuth.NewJWTService(pkgAuth.JWTConfig{
		SecretKey:      cfg.JWT.Secret,
		AccessTokenExp: helpers.ParseDuration(cfg.JWT.AccessTokenExpiration, 24*time.Hour),
		TokenIssuer:    cfg.JWT.Issuer,
	})

	repos := deps.Repos
	deps.AuthService = appServices.NewAuthService(repos.UserRepository, deps.JWTService, logger.Component("auth"))
	deps.ProfileService = appServices.NewProfileService(repos.UserRepository, repos.CollegeRepository, deps.FileStorage, logger.Component("profile"))
	deps.FeedService = appServices.NewFeedService(
		repos.UserRepository,
		repos.FollowRepository,
		repos.PostRepository,
		cfg.Feed.SpilloverLimit,
		deps.Metrics,
		logger.Component("feed"),
	)
	deps.PostService = appServices.NewPostService(repos.PostRepository, repos.UserRepository, deps.FileStorage, logger.Component("posts"))
	deps.FollowService = appServices.NewFollowService(repos.FollowRepository, repos.CollegeRepository, deps.Metrics, logger.Component("follow"))
	deps.CollegeService = appServices.NewCollegeService(
		repos.CollegeRepository,
		repos.FollowRepository,
		repos.PostRepository,
		deps.FeedService,
		cfg.Feed.SuggestedColleges,
		logger.Component("colleges"),
	)
	deps.EventService = appServices.NewEventService(
		repos.EventRepository,
		repos.UserRepository,
		repos.ApplicationRepository,
		deps.FileStorage,
		deps.Metrics,
		logger.Component("events"),
	)
	deps.ApplicationService = appServices.NewApplicationService(
		repos.ApplicationRepository,
		repos.EventRepository,
		repos.UserRepository,
		deps.Metrics,
		logger.Component("applications"),
	)

	instagramClient := instagram.NewClient(instagram.Config{
		AppID:        cfg.Instagram.AppID,
		AppSecret:    cfg.Instagram.AppSecret,
		RedirectURI:  cfg.Instagram.RedirectURI,
		GraphBaseURL: cfg.Instagram.GraphBaseURL,
	}, nil)
	deps.MirrorService = appServices.NewMirrorService(
		instagramClient,
		deps.JWTService,
		repos.CredentialRepository,
		deps.PostService,
		appServices.MirrorConfig{
			VerifyToken:   cfg.Instagram.VerifyToken,
			AdminUsername: cfg.Instagram.AdminUsername,
		},
		deps.Metrics,
		logger.Component("instagram"),
	)

	deps.AuthMiddleware = appMiddleware.NewAuthMiddleware(deps.JWTService, deps.ProfileService, lgr)
	deps.RateLimiter = appMiddleware.NewIPRateLimiter(cfg.RateLimit.RequestsPerSecond, cfg.RateLimit.Burst)

	deps.Controllers = appRoutes.Controllers{
		Auth:      appControllers.NewAuthController(deps.AuthService, lgr),
		Profile:   appControllers.NewProfileController(deps.ProfileService),
		Feed:      appControllers.NewFeedController(deps.FeedService, deps.PostService),
		College:   appControllers.NewCollegeController(deps.CollegeService, deps.FollowService),
		Event:     appControllers.NewEventController(deps.EventService, deps.ApplicationService),
		Instagram: appControllers.NewInstagramController(deps.MirrorService, logger.Component("instagram")),
	}

	return deps, nil
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
	router.Use(gin.Recovery())
	router.Use(appMiddleware.RequestLogger(logger.Component("http")))
	router.Use(appMiddleware.RequestMetrics(deps.Metrics))

	appRoutes.SetupRouter(router, deps.Controllers, deps.AuthMiddleware, deps.RateLimiter, deps.DB)

	router.GET("/metrics", gin.WrapH(deps.Metrics.Handler()))
	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong", "status": "success"})
	})

	setupStaticFileServing(router, cfg, lgr)
	return router
}

// setupStaticFileServing serves uploaded media from the storage directory
func setupStaticFileServing(router *gin.Engine, cfg *config.Config, lgr zerolog.Logger) {
	uploadPath := filepath.Clean(cfg.Server.StoragePath)
	if err := os.MkdirAll(uploadPath, os.ModePerm); err != nil {
		lgr.Error().Err(err).Str("path", uploadPath).Msg("Failed to create uploads directory")
		return
	}

	router.Static(uploadsURLPath, uploadPath)
	lgr.Info().Str("path", uploadPath).Msg("Static file serving configured for uploads directory")
}
