package main

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/kecbiofuel/blogapi/internal/blogservice"
	"github.com/kecbiofuel/blogapi/internal/commentservice"
	"github.com/kecbiofuel/blogapi/internal/common"
	"github.com/kecbiofuel/blogapi/internal/mailservice"
	"github.com/kecbiofuel/blogapi/internal/userservice"
)

type application struct {
	config         *Config
	logger         *slog.Logger
	tokens         *userservice.TokenManager
	userService    *userservice.UserService
	commentService *commentservice.CommentService
	blogService    *blogservice.BlogService
	mailService    *mailservice.MailService
	broker         *common.MessageBroker
}

func main() {
	// Initialize the logger
	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))

	// Load the configuration
	cfg, err := loadConfig(".env")
	if err != nil {
		logger.Error("failed to load configuration", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Initialize the database
	db, err := common.NewDB(cfg.DBHost, cfg.DBPort, cfg.DBUser, cfg.DBPassword, cfg.DBName, 10, 5, 15*time.Minute)
	if err != nil {
		logger.Error("failed to connect to the database", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer common.CloseDB(db)

	// Initialize the message broker
	URI := fmt.Sprintf("amqp://%s:%s@%s:%s/", cfg.MQUser, cfg.MQPassword, cfg.MQHost, cfg.MQPort)
	broker, err := common.NewMessageBroker(URI)
	if err != nil {
		logger.Error("failed to connect to the message broker", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer broker.Close()

	err = common.SetupUserExchange(broker)
	if err != nil {
		logger.Error("failed to setup the user exchange", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Signing key material is loaded once at startup
	tokens, err := userservice.NewTokenManager(cfg.JWTSecret, cfg.JWTExpiry)
	if err != nil {
		logger.Error("failed to configure the token manager", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// The OAuth client is an explicitly constructed dependency rather than
	// module-level state, so tests can substitute it.
	google := userservice.NewGoogleAuthenticator(cfg.GoogleClientID, cfg.GoogleClientSecret, cfg.GoogleCallbackURL)

	cache := common.NewCache(5*time.Minute, 10*time.Minute)

	// Initialize the services
	app := &application{
		config:         cfg,
		logger:         logger,
		tokens:         tokens,
		userService:    userservice.NewUserService(db, broker, tokens, google),
		commentService: commentservice.NewCommentService(db, cache),
		blogService:    blogservice.NewBlogService(db),
		broker:         broker,
		mailService:    mailservice.NewMailService(broker, cfg.MailHost, cfg.MailUser, cfg.MailPassword, cfg.MailSender, cfg.MailPort, logger),
	}

	// Initialize the consumer
	app.mailService.SendWelcomeEmail()

	// Start the HTTP server
	err = app.serve(cfg.Port)
	if err != nil {
		logger.Error("failed to start the server", slog.String("error", err.Error()))
		os.Exit(1)
	}
}
