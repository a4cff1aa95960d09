package di

import (
	"context"
	"net/http"

	"boardcore/application/autosave"
	"boardcore/application/canvas"
	"boardcore/application/ports"
	"boardcore/application/services"
	domaincfg "boardcore/domain/config"
	"boardcore/domain/core/aggregates"
	"boardcore/infrastructure/cache"
	"boardcore/infrastructure/config"
	"boardcore/infrastructure/linkmeta"
	dynamorepo "boardcore/infrastructure/persistence/dynamodb"
	"boardcore/infrastructure/persistence/memory"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	awsdynamodb "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// ProvideLogger creates a new logger instance
func ProvideLogger(cfg *config.Config) (*zap.Logger, error) {
	var logger *zap.Logger
	var err error

	if cfg.Environment == "production" {
		logger, err = zap.NewProduction()
	} else {
		logger, err = zap.NewDevelopment()
	}

	if err != nil {
		return nil, err
	}

	return logger, nil
}

// ProvideAWSConfig creates AWS configuration
func ProvideAWSConfig(ctx context.Context, cfg *config.Config) (aws.Config, error) {
	return awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(cfg.AWSRegion),
	)
}

// ProvideDynamoDBClient creates a DynamoDB client
func ProvideDynamoDBClient(awsCfg aws.Config) *awsdynamodb.Client {
	return awsdynamodb.NewFromConfig(awsCfg)
}

// ProvideBoardRepository selects the remote persistence tier. Development
// without AWS credentials falls back to the in-memory repository.
func ProvideBoardRepository(client *awsdynamodb.Client, cfg *config.Config, logger *zap.Logger) ports.BoardRepository {
	if cfg.IsDevelopment() && cfg.DynamoDBTable == "" {
		logger.Info("using in-memory board repository")
		return memory.NewBoardRepository()
	}
	return dynamorepo.NewBoardRepository(client, cfg.DynamoDBTable, logger)
}

// ProvideLocalCache selects the fast persistence tier. Redis when configured,
// in-process otherwise; a failed Redis connection degrades to in-process
// rather than blocking startup, since the local tier is best effort.
func ProvideLocalCache(ctx context.Context, cfg *config.Config, logger *zap.Logger) ports.LocalCache {
	if cfg.RedisAddr == "" {
		return cache.NewMemoryCache()
	}

	redisCache, err := cache.NewRedisCache(ctx, &redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	if err != nil {
		logger.Warn("redis unavailable, using in-process cache", zap.Error(err))
		return cache.NewMemoryCache()
	}
	return redisCache
}

// ProvideAutosaveOptions maps the configured save cadence onto the
// coordinator's options
func ProvideAutosaveOptions(cfg *config.Config) autosave.Options {
	return autosave.Options{
		LocalInterval:  cfg.LocalSaveInterval,
		RemoteInterval: cfg.RemoteSaveInterval,
	}
}

// ProvideLinkMetadataFetcher creates the link preview fetcher
func ProvideLinkMetadataFetcher(logger *zap.Logger) ports.LinkMetadataFetcher {
	return linkmeta.NewFetcher(http.DefaultClient, logger)
}

// Container wires the application's dependencies
type Container struct {
	Config          *config.Config
	DomainConfig    *domaincfg.DomainConfig
	Logger          *zap.Logger
	Repository      ports.BoardRepository
	Cache           ports.LocalCache
	Fetcher         ports.LinkMetadataFetcher
	BoardService    *services.BoardService
	AutosaveOptions autosave.Options
}

// NewBoardSession wires a live canvas session for a loaded board: the
// interaction controller plus its autosave coordinator, connected so
// destructive operations flush through immediately. The caller owns the
// coordinator's lifecycle (Run/Stop).
func (c *Container) NewBoardSession(board *aggregates.Board) (*canvas.Controller, *autosave.Coordinator) {
	controller := canvas.NewController(board, c.DomainConfig, c.Logger)
	coordinator := autosave.NewCoordinator(controller, c.Repository, c.Cache, c.AutosaveOptions, c.Logger)
	controller.SetFlusher(coordinator)
	return controller, coordinator
}

// NewContainer builds the full dependency graph from environment config
func NewContainer(ctx context.Context) (*Container, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, err
	}

	logger, err := ProvideLogger(cfg)
	if err != nil {
		return nil, err
	}

	domainCfg := domaincfg.LoadDomainConfig(cfg.Environment)

	awsCfg, err := ProvideAWSConfig(ctx, cfg)
	if err != nil {
		return nil, err
	}

	repo := ProvideBoardRepository(ProvideDynamoDBClient(awsCfg), cfg, logger)
	localCache := ProvideLocalCache(ctx, cfg, logger)
	fetcher := ProvideLinkMetadataFetcher(logger)

	return &Container{
		Config:          cfg,
		DomainConfig:    domainCfg,
		Logger:          logger,
		Repository:      repo,
		Cache:           localCache,
		Fetcher:         fetcher,
		BoardService:    services.NewBoardService(repo, localCache, fetcher, domainCfg, logger),
		AutosaveOptions: ProvideAutosaveOptions(cfg),
	}, nil
}
