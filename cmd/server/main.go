// Package main starts the TodoKeeper authentication provider: configuration,
// logging, the database and its cleaner, repositories, services, handlers and
// the HTTP server.
package main

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	nethttp "net/http"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/atinyakov/TodoKeeper/internal/config"
	"github.com/atinyakov/TodoKeeper/internal/db"
	"github.com/atinyakov/TodoKeeper/internal/logger"
	"github.com/atinyakov/TodoKeeper/internal/notify"
	"github.com/atinyakov/TodoKeeper/internal/repository"
	"github.com/atinyakov/TodoKeeper/internal/server/handler/http"
	"github.com/atinyakov/TodoKeeper/internal/service"
)

var (
	// version holds the build version set via ldflags.
	version string
	// buildDate holds the build timestamp set via ldflags.
	buildDate string
)

func main() {
	fmt.Printf("Build version: %s\n", cmp.Or(version, "N/A"))
	fmt.Printf("Build date: %s\n", cmp.Or(buildDate, "N/A"))

	// A missing .env is fine; the environment may already be set.
	_ = godotenv.Load()

	options, err := config.Parse(os.Args[1:])
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(2)
	}

	log := logger.New()
	defer func() { _ = log.Log.Sync() }()
	if err := log.Init(options.LogLevel); err != nil {
		log.Log.Fatal("failed to init logger", zap.Error(err))
	}
	zapLogger := log.Log

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	postgresDB, err := db.InitPostgres(options.DatabaseDSN)
	if err != nil {
		zapLogger.Fatal("cannot init database", zap.Error(err))
	}
	defer postgresDB.Close()

	db.StartExpiredTokenCleaner(ctx, postgresDB, options.CleanInterval, zapLogger)

	authRepo := repository.NewPostgresAuthRepository(postgresDB)
	tokenRepo := repository.NewPostgresTokenRepository(postgresDB)
	todoRepo := repository.NewPostgresTodoRepository(postgresDB)

	var notifier service.ResetNotifier = notify.NewLogNotifier(zapLogger)
	if options.AMQPURL != "" {
		amqpNotifier, err := notify.NewAMQPNotifier(options.AMQPURL, options.AMQPExchange)
		if err != nil {
			zapLogger.Fatal("cannot connect to amqp", zap.Error(err))
		}
		defer amqpNotifier.Close()
		notifier = amqpNotifier
	}

	issuer := service.NewTokenIssuer(options.JWTSecret, options.TokenTTL)
	authService := service.NewAuthService(authRepo, tokenRepo, issuer, notifier, options.ResetTTL)
	todoService := service.NewTodoService(todoRepo)

	authHandler := &http.AuthHandler{AuthService: authService, Logger: zapLogger}
	todoHandler := &http.TodoHandler{TodoService: todoService, Logger: zapLogger}

	router := http.NewRouter(authHandler, todoHandler, authService, zapLogger)

	server := &nethttp.Server{
		Addr:              options.Address,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			zapLogger.Error("shutdown failed", zap.Error(err))
		}
	}()

	if options.TLSCert != "" && options.TLSKey != "" {
		zapLogger.Info("starting HTTPS server", zap.String("addr", options.Address))
		err = server.ListenAndServeTLS(options.TLSCert, options.TLSKey)
	} else {
		zapLogger.Info("starting HTTP server", zap.String("addr", options.Address))
		err = server.ListenAndServe()
	}
	if err != nil && !errors.Is(err, nethttp.ErrServerClosed) {
		zapLogger.Fatal("server failed", zap.Error(err))
	}
}
