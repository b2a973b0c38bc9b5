package app

import (
	"context"
	"fmt"
	"net/http"

	"go.uber.org/zap"

	"github.com/kapu/copichat-persona-go/internal/config"
	"github.com/kapu/copichat-persona-go/internal/constants"
	"github.com/kapu/copichat-persona-go/internal/server"
	"github.com/kapu/copichat-persona-go/internal/service/ai"
	"github.com/kapu/copichat-persona-go/internal/service/cache"
	"github.com/kapu/copichat-persona-go/internal/service/classifier"
	"github.com/kapu/copichat-persona-go/internal/service/persona"
	"github.com/kapu/copichat-persona-go/internal/service/wiki"
)

// Container wires every service and owns their shutdown order.
type Container struct {
	Config   *config.Config
	Logger   *zap.Logger
	Cache    *cache.CacheService
	Models   *ai.ModelManager
	Pipeline *persona.Pipeline
	Server   *server.Server
}

// Build constructs the full dependency graph. Redis는 선택 의존성이라
// 비활성화 시 nil 캐시로 동작한다.
func Build(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*Container, error) {
	var cacheSvc *cache.CacheService
	if cfg.Redis.Enabled {
		svc, err := cache.NewCacheService(cache.CacheConfig{
			Host:     cfg.Redis.Host,
			Port:     cfg.Redis.Port,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		}, logger)
		if err != nil {
			return nil, fmt.Errorf("cache service: %w", err)
		}
		cacheSvc = svc
	} else {
		logger.Info("Redis 비활성화: 캐시 없이 동작")
	}

	models, err := ai.NewModelManager(ctx, ai.ModelManagerConfig{
		GeminiAPIKey:       cfg.Gemini.APIKey,
		OpenAIAPIKey:       cfg.OpenAI.APIKey,
		DefaultGeminiModel: cfg.Gemini.Model,
		DefaultOpenAIModel: cfg.OpenAI.Model,
		EnableFallback:     cfg.OpenAI.EnableFallback,
	}, logger)
	if err != nil {
		return nil, fmt.Errorf("model manager: %w", err)
	}

	httpClient := &http.Client{Timeout: constants.WikiConfig.Timeout}
	wikiClient := wiki.NewAPIClient(httpClient, cfg.Wiki.BaseURL, logger)

	evidenceSvc := wiki.NewService(wikiClient, cacheSvc, cfg.Wiki.ThumbnailWidth, logger)
	imageResolver := wiki.NewImageResolver(wikiClient, cacheSvc, cfg.Wiki.ThumbnailWidth, logger)
	synthesizer := persona.NewSynthesizer(models, logger)

	pipeline := persona.NewPipeline(
		evidenceSvc,
		imageResolver,
		synthesizer,
		classifier.Policy{
			MinSummaryChars: cfg.Notability.MinSummaryChars,
			MinCategories:   cfg.Notability.MinCategories,
		},
		cacheSvc,
		logger,
	)

	srv := server.NewServer(cfg, pipeline, logger)

	return &Container{
		Config:   cfg,
		Logger:   logger,
		Cache:    cacheSvc,
		Models:   models,
		Pipeline: pipeline,
		Server:   srv,
	}, nil
}

// Shutdown releases held resources.
func (c *Container) Shutdown(ctx context.Context) {
	if c.Server != nil {
		if err := c.Server.Shutdown(ctx); err != nil {
			c.Logger.Warn("서버 종료 실패", zap.Error(err))
		}
	}
	if c.Cache != nil {
		if err := c.Cache.Close(); err != nil {
			c.Logger.Warn("캐시 연결 종료 실패", zap.Error(err))
		}
	}
}
