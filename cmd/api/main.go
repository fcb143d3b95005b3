package main

import (
	"context"
	"log"
	"time"

	"github.com/estatedesk/estate-backend/config"
	"github.com/estatedesk/estate-backend/internal/bootstrap"
	"github.com/estatedesk/estate-backend/internal/listings/cleanup"
	"github.com/estatedesk/estate-backend/internal/listings/repository"
)

const serviceName = "estate-backend"

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	logger, err := bootstrap.NewLogger(cfg.App.Environment)
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer logger.Sync()

	bootstrap.SetGinMode(cfg.App.Environment)

	ctx := context.Background()

	pool, err := bootstrap.OpenDB(ctx, bootstrap.DBOptions{DSN: cfg.Database.DSN()})
	if err != nil {
		log.Fatalf("db: %v", err)
	}
	defer pool.Close()

	sqlDB, err := bootstrap.OpenSQLDB(ctx, cfg.Database.DSN())
	if err != nil {
		log.Fatalf("sql db: %v", err)
	}
	defer sqlDB.Close()

	rdb, err := bootstrap.OpenRedis(ctx, cfg.Redis)
	if err != nil {
		log.Fatalf("redis: %v", err)
	}
	defer rdb.Close()

	s3Client, err := bootstrap.NewS3Client(ctx, cfg.Storage)
	if err != nil {
		log.Fatalf("s3: %v", err)
	}

	sweeper := cleanup.NewSweeper(
		repository.NewProjectRepository(pool),
		repository.NewS3Store(s3Client, cfg.Storage.Bucket, cfg.Storage.Region),
		time.Duration(cfg.Cleanup.GraceHours)*time.Hour,
		logger,
	)
	if err := sweeper.Start(cfg.Cleanup.Schedule); err != nil {
		log.Fatalf("cleanup scheduler: %v", err)
	}
	defer sweeper.Stop()

	r := bootstrap.BuildRouter(bootstrap.RouterDeps{
		ServiceName: serviceName,
		Version:     cfg.App.Version,
		Storage:     cfg.Storage,
		Operator:    cfg.App.OperatorToken,
		DB:          pool,
		SQLDB:       sqlDB,
		Redis:       rdb,
		S3:          s3Client,
		Logger:      logger,
	})

	log.Printf("listening on :%s", cfg.Server.Port)
	if err := r.Run(":" + cfg.Server.Port); err != nil {
		log.Fatalf("server: %v", err)
	}
}
