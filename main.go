package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/yakir1992/todoapp/config"
	"github.com/yakir1992/todoapp/repository"
	"github.com/yakir1992/todoapp/services"
	"github.com/yakir1992/todoapp/usecase"
	"github.com/yakir1992/todoapp/utils"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "server:", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logger := utils.NewLogger(cfg.Env)
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	if err := utils.InitValidator(); err != nil {
		return fmt.Errorf("register validators: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	mongoClient, err := utils.NewMongoClient(ctx, utils.MongoOptions{
		URI:             cfg.Database.URI,
		MaxPoolSize:     cfg.Database.MaxPoolSize,
		MinPoolSize:     cfg.Database.MinPoolSize,
		MaxConnIdleTime: cfg.Database.MaxConnIdleTime,
		RetryWrites:     cfg.Database.RetryWrites,
	})
	if err != nil {
		return err
	}
	defer func() {
		if err := mongoClient.Disconnect(context.Background()); err != nil {
			logger.Error("failed to disconnect from MongoDB", "error", err)
		}
	}()
	db := mongoClient.Database(cfg.Database.DatabaseName)

	if cfg.Database.SetupIndexes {
		if err := repository.SetupIndexes(ctx, db, cfg.Database); err != nil {
			return err
		}
		logger.Info("indexes ready")
	} else {
		logger.Warn("index setup disabled; range queries may need the fallback",
			"fallback", cfg.Database.IndexFallback)
	}

	redisClient, err := services.NewRedisClient(ctx, cfg.RedisURL)
	if err != nil {
		return err
	}
	blacklist := services.NewTokenBlacklist(redisClient)
	defer blacklist.Close()

	todosRepo := repository.GetTodosRepo(db, cfg.Database.TodosCollection, cfg.Database.IndexFallback, logger)
	usersRepo := repository.GetUsersRepo(db, cfg.Database.UsersCollection)
	sessionRepo := repository.GetSessionRepo(db, cfg.Database.SessionsCollection)

	todosService := usecase.NewTodosService(todosRepo)
	userService := usecase.NewUserService(usersRepo, sessionRepo,
		services.NewTokenService(cfg.JWT), blacklist, cfg.SessionTimeout, logger)

	router := setupRouter(routerDeps{
		Config:     cfg,
		Logger:     logger,
		Todos:      todosService,
		Auth:       userService,
		Health:     todosService,
		Revocation: blacklist,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server starting", "addr", srv.Addr, "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
