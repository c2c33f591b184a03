package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/rekafoe/newCRM-sub001/config"
	"github.com/rekafoe/newCRM-sub001/pkg/broker"
	"github.com/rekafoe/newCRM-sub001/pkg/cache"
	"github.com/rekafoe/newCRM-sub001/pkg/database/postgres"
	"github.com/rekafoe/newCRM-sub001/pkg/logger"

	compRepoPkg "github.com/rekafoe/newCRM-sub001/internal/composition/repository"
	compUCPkg "github.com/rekafoe/newCRM-sub001/internal/composition/usecase"

	stockH "github.com/rekafoe/newCRM-sub001/internal/stock/handler"
	stockListenerPkg "github.com/rekafoe/newCRM-sub001/internal/stock/listener"
	stockRepoPkg "github.com/rekafoe/newCRM-sub001/internal/stock/repository"
	stockUCPkg "github.com/rekafoe/newCRM-sub001/internal/stock/usecase"

	itemH "github.com/rekafoe/newCRM-sub001/internal/orderitem/handler"
	itemRepoPkg "github.com/rekafoe/newCRM-sub001/internal/orderitem/repository"
	itemUCPkg "github.com/rekafoe/newCRM-sub001/internal/orderitem/usecase"

	resH "github.com/rekafoe/newCRM-sub001/internal/reservation/handler"
	resRepoPkg "github.com/rekafoe/newCRM-sub001/internal/reservation/repository"
	resSweeperPkg "github.com/rekafoe/newCRM-sub001/internal/reservation/sweeper"
	resUCPkg "github.com/rekafoe/newCRM-sub001/internal/reservation/usecase"
)

func main() {
	_ = godotenv.Load()
	cfg := config.LoadEnv()

	logConfig := &logger.ZapLoggerConfig{
		IsDevelopment:     false,
		Encoding:          "json",
		Level:             "info",
		DisableCaller:     cfg.Logger.DisableCaller,
		DisableStacktrace: cfg.Logger.DisableStacktrace,
	}
	if cfg.Server.AppEnv == "dev" || cfg.Server.AppEnv == "development" {
		logConfig.IsDevelopment = true
		logConfig.Encoding = cfg.Logger.Encoding
		logConfig.Level = cfg.Logger.Level
	}

	appLogger := logger.NewZapLogger(logConfig)
	defer appLogger.Sync()

	db, err := postgres.NewPostgres(&postgres.Config{
		Host:            cfg.Postgres.Host,
		Port:            cfg.Postgres.Port,
		User:            cfg.Postgres.User,
		Password:        cfg.Postgres.Password,
		DBName:          cfg.Postgres.DBName,
		SSLMode:         cfg.Postgres.SSLMode,
		MaxOpenConns:    cfg.Postgres.MaxOpenConns,
		MaxIdleConns:    cfg.Postgres.MaxIdleConns,
		ConnMaxLifetime: time.Duration(cfg.Postgres.ConnMaxLifetime) * time.Second,
		ConnMaxIdleTime: time.Duration(cfg.Postgres.ConnMaxIdleTime) * time.Second,
	})
	if err != nil {
		appLogger.Fatal("could not connect to database", zap.Error(err))
	}
	defer db.Close()
	appLogger.Info("connected to postgres", zap.String("db_name", cfg.Postgres.DBName))

	redisClient, err := cache.NewRedisClient(&cache.Config{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err != nil {
		appLogger.Fatal("could not connect to redis", zap.Error(err))
	}
	defer redisClient.Close()
	appLogger.Info("connected to redis", zap.String("addr", cfg.Redis.Addr))

	kafkaConsumer := broker.NewConsumer(&broker.Config{
		Brokers: cfg.Kafka.Brokers,
		Topic:   cfg.Kafka.Topic,
		GroupID: cfg.Kafka.GroupID,
	})
	defer kafkaConsumer.Close()
	appLogger.Info("connected to kafka consumer",
		zap.Strings("brokers", cfg.Kafka.Brokers),
		zap.String("topic", cfg.Kafka.Topic),
	)

	txm := postgres.NewTxManager(db)

	stockRepo := stockRepoPkg.NewPGRepository(db)
	compRepo := compRepoPkg.NewPGRepository(db)
	itemRepo := itemRepoPkg.NewPGRepository(db)
	resRepo := resRepoPkg.NewPGRepository(db)

	stockUC := stockUCPkg.NewStockUseCase(stockRepo, txm, appLogger)
	compUC := compUCPkg.NewCompositionUseCase(compRepo, appLogger)
	itemUC := itemUCPkg.NewOrderItemUseCase(itemRepo, stockUC, compUC, txm, appLogger)
	resUC := resUCPkg.NewReservationUseCase(resRepo, stockUC, txm, appLogger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	stockListener := stockListenerPkg.NewStockListener(kafkaConsumer, stockUC, compUC, appLogger)
	go stockListener.Start(ctx)

	sweeper := resSweeperPkg.NewSweeper(
		resUC, redisClient, appLogger,
		time.Duration(cfg.Reservations.SweepIntervalSeconds)*time.Second,
		time.Duration(cfg.Reservations.SweepLockTTLSeconds)*time.Second,
	)
	go sweeper.Run(ctx)

	stockHandler := stockH.NewStockHandler(stockUC, appLogger)
	itemHandler := itemH.NewOrderItemHandler(itemUC, appLogger)
	resHandler := resH.NewReservationHandler(resUC, appLogger)

	if cfg.Server.AppEnv != "dev" && cfg.Server.AppEnv != "development" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())

	v1 := router.Group("/api/v1")
	{
		v1.GET("/materials", stockHandler.ListMaterials)
		v1.POST("/materials", stockHandler.CreateMaterial)
		v1.GET("/materials/:id", stockHandler.GetMaterial)
		v1.POST("/materials/:id/adjust", stockHandler.Adjust)
		v1.POST("/materials/:id/quantity", stockHandler.SetQuantity)
		v1.GET("/materials/:id/moves", stockHandler.ListMoves)
		v1.GET("/materials/:id/available", resHandler.Available)

		v1.POST("/stock/batch", stockHandler.ExecuteBatch)

		v1.GET("/orders/:orderID/items", itemHandler.ListItems)
		v1.POST("/orders/:orderID/items", itemHandler.AddItem)
		v1.PATCH("/orders/:orderID/items/:id", itemHandler.UpdateItem)
		v1.DELETE("/orders/:orderID/items/:id", itemHandler.DeleteItem)

		v1.GET("/reservations", resHandler.List)
		v1.POST("/reservations", resHandler.Create)
		v1.POST("/reservations/:id/fulfill", resHandler.Fulfill)
		v1.POST("/reservations/:id/cancel", resHandler.Cancel)
	}

	port := cfg.Server.HTTPPort
	if !strings.HasPrefix(port, ":") {
		port = ":" + port
	}

	srv := &http.Server{
		Addr:    port,
		Handler: router,
	}

	go func() {
		appLogger.Info("starting http server", zap.String("port", port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			appLogger.Fatal("failed to serve", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	appLogger.Info("shutting down server...")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		appLogger.Error("forced shutdown", zap.Error(err))
	}
	appLogger.Info("server stopped")
}
