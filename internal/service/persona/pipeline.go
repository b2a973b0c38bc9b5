package persona

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/kapu/copichat-persona-go/internal/constants"
	"github.com/kapu/copichat-persona-go/internal/domain"
	"github.com/kapu/copichat-persona-go/internal/service/cache"
	"github.com/kapu/copichat-persona-go/internal/service/classifier"
	"github.com/kapu/copichat-persona-go/internal/util"
	perrors "github.com/kapu/copichat-persona-go/pkg/errors"
)

const cacheKeyPersona = "persona:record:%s"

// EvidenceFetcher looks up encyclopedia evidence for a name.
type EvidenceFetcher interface {
	FetchEvidence(ctx context.Context, name string) *domain.EvidenceRecord
}

// PortraitResolver resolves a portrait image URL for a resolved article title.
type PortraitResolver interface {
	ResolveInfoboxImage(ctx context.Context, resolvedTitle string) string
}

// Generator produces a validated persona from classified evidence.
type Generator interface {
	Synthesize(ctx context.Context, name string, evidence *domain.EvidenceRecord, imageURL string) (*domain.Persona, error)
}

// Pipeline runs the full synthesis sequence: validation, evidence lookup,
// classification, portrait resolution, generation. 각 단계는 앞 단계가
// 성공해야만 실행되고, 초상화 해상 단계만 실패해도 계속 진행한다.
type Pipeline struct {
	fetcher   EvidenceFetcher
	resolver  PortraitResolver
	generator Generator
	policy    classifier.Policy
	cacheSvc  *cache.CacheService
	logger    *zap.Logger
}

func NewPipeline(
	fetcher EvidenceFetcher,
	resolver PortraitResolver,
	generator Generator,
	policy classifier.Policy,
	cacheSvc *cache.CacheService,
	logger *zap.Logger,
) *Pipeline {
	return &Pipeline{
		fetcher:   fetcher,
		resolver:  resolver,
		generator: generator,
		policy:    policy,
		cacheSvc:  cacheSvc,
		logger:    logger,
	}
}

// Run executes the pipeline for one candidate query.
func (p *Pipeline) Run(ctx context.Context, query domain.CandidateQuery) (*domain.Persona, error) {
	name, err := p.validate(query)
	if err != nil {
		return nil, err
	}

	// 같은 인물에 대한 반복 요청은 생성 결과 캐시로 처리
	cacheKey := fmt.Sprintf(cacheKeyPersona, util.Normalize(name))
	if p.cacheSvc != nil {
		var cached domain.Persona
		if found, err := p.cacheSvc.Get(ctx, cacheKey, &cached); err == nil && found {
			p.logger.Debug("페르소나 캐시 적중", zap.String("name", name))
			return &cached, nil
		}
	}

	evidence := p.fetcher.FetchEvidence(ctx, name)
	if !evidence.Exists {
		p.logger.Info("페르소나 근거 없음",
			zap.String("name", name),
			zap.String("reason", evidence.Reason))
		return nil, perrors.NewNotFoundError(
			fmt.Sprintf("「%s」のWikipedia記事が見つかりませんでした", name),
			"正確な人物名を入力してください",
			name,
		)
	}

	result := classifier.Classify(evidence, p.policy)
	if !result.Accepted() {
		p.logger.Info("페르소나 분류 거부",
			zap.String("name", name),
			zap.String("gate", result.Gate),
			zap.String("reason", result.Reason))
		return nil, perrors.NewClassificationRejection(
			result.Reason,
			"歴史上の人物や著名人の名前を入力してください",
			result.Gate,
		)
	}

	// 초상화 해상은 최선 노력: 실패 시 검색 썸네일로 대체
	imageURL := p.resolver.ResolveInfoboxImage(ctx, evidence.ResolvedTitle)
	if imageURL == "" {
		imageURL = evidence.ThumbnailURL
	}

	persona, err := p.generator.Synthesize(ctx, name, evidence, imageURL)
	if err != nil {
		return nil, err
	}

	if p.cacheSvc != nil {
		if err := p.cacheSvc.Set(ctx, cacheKey, persona, constants.CacheTTL.GeneratedPersona); err != nil {
			p.logger.Warn("페르소나 캐시 저장 실패", zap.Error(err))
		}
	}

	return persona, nil
}

// validate checks name shape and duplicate suppression. Runs before any
// network call.
func (p *Pipeline) validate(query domain.CandidateQuery) (string, error) {
	name := strings.TrimSpace(query.Name)
	if name == "" {
		return "", perrors.NewValidationError("人物名を入力してください", "name", query.Name)
	}

	length := util.RuneLen(name)
	if length < constants.PipelineLimits.MinNameLength || length > constants.PipelineLimits.MaxNameLength {
		return "", perrors.NewValidationError(
			fmt.Sprintf("人物名は%d文字以上%d文字以内で入力してください",
				constants.PipelineLimits.MinNameLength, constants.PipelineLimits.MaxNameLength),
			"name", name,
		)
	}

	normalized := util.Normalize(name)
	for _, existing := range query.KnownNames {
		if util.Normalize(existing) == normalized {
			return "", perrors.NewValidationError(
				fmt.Sprintf("「%s」は既に追加されています", name),
				"name", name,
			)
		}
	}

	return name, nil
}
