package main

import (
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"

	"org-service/internal/handler"
	"org-service/internal/middleware"
	"org-service/internal/model"
	"org-service/internal/repository"
	"org-service/internal/service"
	"org-service/pkg/config"
	"org-service/pkg/database"
	"org-service/pkg/jwtutil"
	"org-service/pkg/logger"
	"org-service/pkg/password"
	"org-service/prometheus"
)

func main() {
	// Load configuration from .env file and environment variables
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	// Initialize logger with config
	logger.InitLogger(cfg)
	log := logger.GetLogger()
	log.Info("Starting organization service...", cfg.LogConfig()...)

	// Connect to the master database and run directory migrations. The
	// handle is passed explicitly to every component that needs it.
	db, err := database.Connect(&cfg.DB)
	if err != nil {
		log.Fatal("Failed to initialize database", zap.Error(err))
	}
	defer func() {
		if err := database.Close(db); err != nil {
			log.Error("Failed to close database", zap.Error(err))
		}
	}()
	if err := database.Migrate(db, &model.Organization{}, &model.AdminUser{}); err != nil {
		log.Fatal("Failed to migrate database", zap.Error(err))
	}
	log.Info("Database connection established")

	// Build the component graph
	jwt := jwtutil.NewJWTUtil(&jwtutil.JWTConfig{
		SigningKey:        cfg.JWT.SigningKey,
		ExpirationMinutes: cfg.JWT.ExpirationMinutes,
	})
	hasher := password.NewHasher(cfg.Security.BcryptCost)

	orgRepo := repository.NewOrganizationRepository(db)
	adminRepo := repository.NewAdminRepository(db)
	partitions := repository.NewPartitionStore(db)

	orgService := service.NewOrganizationService(orgRepo, adminRepo, partitions, hasher, log)
	authService := service.NewAuthService(adminRepo, jwt, hasher, log)

	orgHandler := handler.NewOrgHandler(orgService)
	authHandler := handler.NewAuthHandler(authService)
	healthHandler := handler.NewHealthHandler(db, cfg)

	// Initialize Echo framework
	e := echo.New()

	// Apply global middleware - order matters
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.CORS())
	e.Use(middleware.RequestIDMiddleware)
	e.Use(logger.Middleware(log))
	e.Use(prometheus.MetricsMiddleware())

	// Public routes - no authentication required
	e.GET("/", healthHandler.Welcome)
	e.GET("/health", healthHandler.Check)
	e.GET("/metrics", handler.MetricsHandler)

	// Organization routes - creation and lookup are public
	org := e.Group("/org")
	org.POST("/create", orgHandler.Create)
	org.GET("/get/:organization_name", orgHandler.Get)

	// Organization routes that mutate an existing tenant require a token
	orgAuthed := e.Group("/org")
	orgAuthed.Use(middleware.Auth(jwt))
	orgAuthed.PUT("/update", orgHandler.Update)
	orgAuthed.DELETE("/delete", orgHandler.Delete)

	// Admin authentication
	admin := e.Group("/admin")
	admin.POST("/login", authHandler.Login)

	// Start server
	port := cfg.Server.Port
	log.Info("Starting server", zap.String("port", port))
	if err := e.Start(":" + port); err != nil {
		log.Fatal("Failed to start server", zap.Error(err))
	}
}
