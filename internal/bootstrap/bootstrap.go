package bootstrap

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	appControllers "github.com/yigit/campusrecords/internal/app/controllers"
	"github.com/yigit/campusrecords/internal/app/integrity"
	appMigrations "github.com/yigit/campusrecords/internal/app/migrations"
	appRepos "github.com/yigit/campusrecords/internal/app/repositories"
	appRoutes "github.com/yigit/campusrecords/internal/app/routes"
	appServices "github.com/yigit/campusrecords/internal/app/services"
	"github.com/yigit/campusrecords/internal/config"
	"github.com/yigit/campusrecords/internal/db"
	appMiddleware "github.com/yigit/campusrecords/internal/middleware"
	pkgAuth "github.com/yigit/campusrecords/internal/pkg/auth"
	"github.com/yigit/campusrecords/internal/pkg/docstore"
	"github.com/yigit/campusrecords/internal/pkg/helpers"
	"github.com/yigit/campusrecords/internal/pkg/logger"
)

// Dependencies holds all the application dependencies
type Dependencies struct {
	Backend        docstore.Backend
	Repos          *appRepos.Repositories
	Services       *appServices.Services
	Sessions       *pkgAuth.SessionService
	AuthMiddleware *appMiddleware.AuthMiddleware
	Controllers    appRoutes.Controllers
	Logger         zerolog.Logger
}

// LoadConfigAndSetupLogger loads configuration and initializes the logger.
func LoadConfigAndSetupLogger() (*config.Config, zerolog.Logger, error) {
	configPath := filepath.Join("configs", "config.yaml")
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to load configuration")
		return nil, zerolog.Logger{}, err
	}

	logLevel := logger.ParseLevel(cfg.Logging.Level)
	prettyLog := strings.ToLower(cfg.Logging.Format) == "text"

	logger.Configure(logger.Config{
		Level:  logLevel,
		Pretty: prettyLog,
	})

	lgr := log.Logger
	lgr.Info().Str("logLevel", string(logLevel)).Str("logFormat", cfg.Logging.Format).Msg("Logger configured")
	return cfg, lgr, nil
}

// SetupDatabase opens the configured document store and prepares its collections.
// Connection attempts are retried per the database retry settings.
func SetupDatabase(ctx context.Context, cfg *config.Config, lgr zerolog.Logger) (docstore.Backend, error) {
	if cfg.Database.Driver == config.DriverMemory {
		lgr.Warn().Msg("Using the in-memory store; data is lost on restart")
		return docstore.NewMemoryBackend(), nil
	}

	interval := helpers.ParseDuration(cfg.Database.ConnectRetryInterval, 5*time.Second)
	var backend docstore.Backend
	err := connectWithRetry(ctx, cfg.Database.ConnectMaxRetries, interval, lgr, func(ctx context.Context) error {
		var err error
		switch cfg.Database.Driver {
		case config.DriverPostgres:
			backend, err = openPostgres(ctx, cfg, lgr)
		default:
			backend, err = openMongo(ctx, cfg, lgr)
		}
		return err
	})
	if err != nil {
		return nil, err
	}

	lgr.Info().Str("driver", backend.Name()).Msg("Database connection successfully established.")
	return backend, nil
}

func openMongo(ctx context.Context, cfg *config.Config, lgr zerolog.Logger) (docstore.Backend, error) {
	mongoDB, err := db.NewMongoDB(ctx, cfg)
	if err != nil {
		return nil, err
	}

	backend := docstore.NewMongoBackend(mongoDB.Database)
	if err := backend.EnsureIndexes(ctx, appRepos.CollectionSpecs()...); err != nil {
		_ = mongoDB.Close(ctx)
		return nil, err
	}
	lgr.Info().Str("database", cfg.Database.Name).Msg("MongoDB indexes ensured")
	return backend, nil
}

func openPostgres(ctx context.Context, cfg *config.Config, lgr zerolog.Logger) (docstore.Backend, error) {
	postgres, err := db.NewPostgresDB(ctx, cfg)
	if err != nil {
		return nil, err
	}

	lgr.Info().Msg("Running database migrations...")
	if err := appMigrations.NewMigrator(postgres, lgr).Migrate(ctx); err != nil {
		postgres.Close()
		return nil, fmt.Errorf("database migrations failed: %w", err)
	}
	return docstore.NewPostgresBackend(postgres.Pool), nil
}

// connectWithRetry calls connect until it succeeds. maxRetries of 0 retries forever.
func connectWithRetry(ctx context.Context, maxRetries int, interval time.Duration, lgr zerolog.Logger, connect func(context.Context) error) error {
	for attempt := 1; ; attempt++ {
		err := connect(ctx)
		if err == nil {
			return nil
		}
		if maxRetries > 0 && attempt > maxRetries {
			lgr.Error().Err(err).Int("attempts", attempt).Msg("Giving up connecting to the database")
			return fmt.Errorf("failed to connect to database after %d attempts: %w", attempt, err)
		}

		lgr.Warn().Err(err).Int("attempt", attempt).Dur("retryIn", interval).Msg("Database connection failed, retrying")
		if err := helpers.Sleep(ctx, interval); err != nil {
			return fmt.Errorf("database connection aborted: %w", err)
		}
	}
}

// BuildDependencies initializes application repositories, services, and controllers.
func BuildDependencies(cfg *config.Config, backend docstore.Backend, lgr zerolog.Logger) (*Dependencies, error) {
	deps := &Dependencies{Backend: backend, Logger: lgr}

	var err error
	deps.Repos, err = appRepos.NewRepositories(backend)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize repositories: %w", err)
	}

	deps.Sessions = pkgAuth.NewSessionService(pkgAuth.SessionConfig{
		SecretKey:  cfg.Session.Secret,
		Expiration: helpers.ParseDuration(cfg.Session.Expiration, 24*time.Hour),
		Issuer:     cfg.Session.Issuer,
	})

	google := pkgAuth.NewGoogleOAuth(pkgAuth.GoogleConfig{
		ClientID:     cfg.Google.ClientID,
		ClientSecret: cfg.Google.ClientSecret,
		RedirectURL:  cfg.Google.RedirectURL,
	})
	if cfg.Google.ClientID == "" {
		lgr.Warn().Msg("Google client id is not configured; sign-in will fail")
	}

	policy := integrity.DeletePolicy(cfg.Integrity.DepartmentDeletePolicy)
	deps.Services = appServices.NewServices(deps.Repos, policy, google, deps.Sessions, lgr)

	deps.AuthMiddleware = appMiddleware.NewAuthMiddleware(deps.Sessions, cfg.Session.CookieName)

	deps.Controllers = appRoutes.Controllers{
		Health: appControllers.NewHealthController(backend),
		Auth: appControllers.NewAuthController(
			deps.Services.AuthService,
			appControllers.CookieConfig{Name: cfg.Session.CookieName, Secure: cfg.Session.CookieSecure},
			cfg.Server.FrontendURL,
			lgr,
		),
		Department: appControllers.NewDepartmentController(deps.Services.DepartmentService),
		Course:     appControllers.NewCourseController(deps.Services.CourseService),
		Student:    appControllers.NewStudentController(deps.Services.StudentService),
		Dashboard:  appControllers.NewDashboardController(deps.Services.DashboardService),
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
	router.Use(appMiddleware.RequestLogger(lgr))
	router.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.Origins(),
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	appRoutes.SetupSwagger(router)
	appRoutes.SetupRouter(router, deps.Controllers, deps.AuthMiddleware, cfg.Auth.RequireLogin)

	return router
}
