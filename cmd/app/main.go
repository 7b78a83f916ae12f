package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/BloggingApp/blog-client/internal/config"
	"github.com/BloggingApp/blog-client/internal/gateway"
	"github.com/BloggingApp/blog-client/internal/handler"
	"github.com/BloggingApp/blog-client/internal/server"
	"github.com/BloggingApp/blog-client/internal/session"
	"github.com/BloggingApp/blog-client/internal/storage"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

func main() {
	ctx := context.Background()

	logger, _ := zap.NewProduction()

	if err := loadEnv(); err != nil {
		logger.Sugar().Panicf("failed to load environment variables: %s", err.Error())
	}

	if err := initConfig(); err != nil {
		logger.Sugar().Panicf("failed to initialize yaml config: %s", err.Error())
	}

	storageConfig := config.StorageConfig{
		Backend:    viper.GetString("storage.backend"),
		SQLitePath: viper.GetString("storage.path"),
		RedisAddr:  os.Getenv("REDIS_ADDR"),
	}
	store, err := openStorage(ctx, storageConfig)
	if err != nil {
		logger.Sugar().Panicf("failed to open session storage: %s", err.Error())
	}
	logger.Info("Successfully opened session storage")

	sessions, err := session.New(ctx, store, logger)
	if err != nil {
		logger.Sugar().Panicf("failed to load session: %s", err.Error())
	}

	api := gateway.New(viper.GetString("api.origin"), sessions, logger)

	handlers := handler.New(api, sessions, logger)

	srv := server.New()
	serverConfig := config.ServerConfig{
		Port:           viper.GetString("app.port"),
		Handler:        handlers.InitRoutes(),
		MaxHeaderBytes: 1 << 20,
		ReadTimeout:    time.Second * 10,
		WriteTimeout:   time.Second * 10,
	}
	go func(srv *server.Server, cfg config.ServerConfig) {
		if err := srv.Run(cfg); err != nil {
			logger.Sugar().Panicf("failed to run http server: %s", err.Error())
		}
	}(srv, serverConfig)

	logger.Info("Client started")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGTERM, syscall.SIGINT)
	<-quit

	logger.Info("Client shutting down")

	shutdownCtx, cancel := context.WithTimeout(ctx, time.Second*5)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Sugar().Errorf("failed to shut down http server: %s", err.Error())
	}
	if err := store.Close(); err != nil {
		logger.Sugar().Errorf("failed to close session storage: %s", err.Error())
	}
}

func openStorage(ctx context.Context, cfg config.StorageConfig) (storage.Store, error) {
	if cfg.Backend == "redis" {
		return storage.NewRedis(ctx, &redis.Options{Addr: cfg.RedisAddr})
	}
	return storage.NewSQLite(cfg.SQLitePath)
}

func loadEnv() error {
	return godotenv.Load()
}

func initConfig() error {
	viper.AddConfigPath(".")
	viper.SetConfigType("yaml")
	viper.SetConfigName("app")
	return viper.ReadInConfig()
}
