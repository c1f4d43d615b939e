package main

import (
	"context"
	"net/http"
	"os"
	"time"

	"codebox/api/handler"
	apiMiddleware "codebox/api/middleware"
	"codebox/api/routes"
	"codebox/config"
	"codebox/internal/repository"
	"codebox/internal/repository/memory"
	"codebox/internal/service"
	"codebox/internal/storage"
	"codebox/internal/utils"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	echoMiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/sirupsen/logrus"
)

type repositories struct {
	users        repository.UserRepository
	snippets     repository.SnippetRepository
	securityLogs repository.SecurityLogRepository
	close        func()
}

func main() {
	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})
	logger.SetOutput(os.Stdout)

	cfg, err := config.Load(logger)
	if err != nil {
		logger.WithError(err).Fatal("load config")
	}
	logger.SetLevel(cfg.LogLevel)

	repos, err := openRepositories(cfg, logger)
	if err != nil {
		logger.WithError(err).Fatal("open database")
	}
	defer repos.close()

	uploads, err := storage.NewLocalStorage(cfg.UploadDir)
	if err != nil {
		logger.WithError(err).Fatal("prepare upload dir")
	}

	validate := validator.New()

	accessManager := utils.JWTManager{
		Secret:         []byte(cfg.JWTSecret),
		Issuer:         cfg.JWTIssuer,
		AccessTokenTTL: cfg.TokenTTL,
	}
	accessIssuer := service.JWTAccessIssuer{Manager: &accessManager}
	passwordHasher := service.BcryptPasswordHasher{Cost: service.PasswordCost}

	mailer := service.NewResendEmailSender(cfg.ResendAPIKey, cfg.MailFrom, cfg.AppBaseURL)
	if !mailer.Configured() {
		logger.Warn("RESEND_API_KEY or MAIL_FROM not set, registration mail disabled")
	}

	userService := service.NewUserService(
		repos.users,
		repos.securityLogs,
		passwordHasher,
		accessIssuer,
		uploads,
		mailer,
		logger,
	)
	resetService := service.NewResetService(
		repos.users,
		service.NewResetSessions(cfg.ResetSessionTTL, service.RealClock{}),
		service.NewHOTPGenerator(),
		passwordHasher,
		repos.securityLogs,
		logger,
	)
	snippetService := service.NewSnippetService(repos.snippets, repos.users)

	userHandler := handler.NewUserHandler(userService, validate, uploads)
	resetHandler := handler.NewResetHandler(resetService, validate)
	snippetHandler := handler.NewSnippetHandler(snippetService, validate)

	app := echo.New()
	app.HideBanner = true
	app.HidePort = true
	app.HTTPErrorHandler = handler.ErrorHandler
	app.Use(echoMiddleware.Recover())
	app.Use(echoMiddleware.BodyLimit("10M"))
	app.Use(echoMiddleware.RequestLoggerWithConfig(echoMiddleware.RequestLoggerConfig{
		LogStatus:   true,
		LogMethod:   true,
		LogURI:      true,
		LogRemoteIP: true,
		LogError:    true,
		HandleError: true,
		LogValuesFunc: func(c echo.Context, v echoMiddleware.RequestLoggerValues) error {
			entry := logger.WithFields(logrus.Fields{
				"status": v.Status,
				"method": v.Method,
				"uri":    v.URI,
				"ip":     v.RemoteIP,
			})
			if v.Error != nil {
				entry.WithError(v.Error).Error("request")
				return nil
			}
			entry.Info("request")
			return nil
		},
	}))

	authMiddleware := apiMiddleware.AuthMiddleware{JWT: &accessManager}
	router := routes.NewRouter(app, userHandler, resetHandler, snippetHandler, authMiddleware, userService, uploads.BasePath())
	router.RegisterRoutes()

	server := &http.Server{
		Addr:              cfg.HTTPAddr,
		ReadHeaderTimeout: 5 * time.Second,
	}

	logger.WithFields(logrus.Fields{"addr": cfg.HTTPAddr, "driver": cfg.DBDriver}).Info("server started")
	if err := app.StartServer(server); err != nil {
		logger.WithError(err).Fatal("server stopped")
	}
}

func openRepositories(cfg *config.Config, logger logrus.FieldLogger) (*repositories, error) {
	switch cfg.DBDriver {
	case config.DriverPostgres:
		db, err := config.ConnectionDb(cfg)
		if err != nil {
			return nil, err
		}
		return &repositories{
			users:        repository.NewUserRepository(db),
			snippets:     repository.NewSnippetRepository(db),
			securityLogs: repository.NewSecurityLogRepository(db),
			close: func() {
				if sqlDB, err := db.DB(); err == nil {
					_ = sqlDB.Close()
				}
			},
		}, nil
	case config.DriverMemory:
		logger.Warn("using in-memory storage, data is lost on restart")
		return &repositories{
			users:        memory.NewUserRepository(),
			snippets:     memory.NewSnippetRepository(),
			securityLogs: memory.NewSecurityLogRepository(),
			close:        func() {},
		}, nil
	default:
		client, db, err := config.ConnectMongo(context.Background(), cfg)
		if err != nil {
			return nil, err
		}
		return &repositories{
			users:        repository.NewMongoUserRepository(db),
			snippets:     repository.NewMongoSnippetRepository(db),
			securityLogs: repository.NewMongoSecurityLogRepository(db),
			close: func() {
				ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				_ = client.Disconnect(ctx)
			},
		}, nil
	}
}
