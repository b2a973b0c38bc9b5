package persona

import (
	"context"
	"encoding/json"
	"strings"

	"go.uber.org/zap"

	"github.com/kapu/copichat-persona-go/internal/constants"
	"github.com/kapu/copichat-persona-go/internal/domain"
	"github.com/kapu/copichat-persona-go/internal/prompt"
	"github.com/kapu/copichat-persona-go/internal/service/ai"
	"github.com/kapu/copichat-persona-go/internal/util"
	perrors "github.com/kapu/copichat-persona-go/pkg/errors"
)

// Synthesizer turns classified evidence into a complete persona record
// through the model manager. 생성 실패(빈 응답, 전송 오류)와 파싱 실패
// (형식 위반)를 구분해서 보고한다.
type Synthesizer struct {
	generator ai.TextGenerator
	logger    *zap.Logger
}

func NewSynthesizer(generator ai.TextGenerator, logger *zap.Logger) *Synthesizer {
	return &Synthesizer{
		generator: generator,
		logger:    logger,
	}
}

// Synthesize generates and validates a persona for the given name.
// imageURL may be empty, in which case the model is told to fall back
// to thumbnail-URL conventions.
func (s *Synthesizer) Synthesize(ctx context.Context, name string, evidence *domain.EvidenceRecord, imageURL string) (*domain.Persona, error) {
	exampleJSON, err := prompt.MarshalExample(domain.ExamplePersona)
	if err != nil {
		return nil, perrors.NewGenerationError("프롬프트 구성 실패", "", err)
	}

	summary := ""
	if evidence != nil {
		summary = util.TruncateRunes(evidence.Summary, constants.PipelineLimits.MaxSummaryPrompt)
	}

	promptText := prompt.BuildPersonaPrompt(prompt.PersonaPromptVars{
		Name:        name,
		Summary:     summary,
		ImageURL:    imageURL,
		ExampleJSON: exampleJSON,
	})

	raw, meta, err := s.generator.GenerateRaw(ctx, promptText, ai.PresetCreative, &ai.GenerateOptions{JSONMode: true})
	provider := ""
	if meta != nil {
		provider = meta.Provider
	}
	if err != nil {
		return nil, perrors.NewGenerationError("ペルソナの生成に失敗しました", provider, err)
	}

	cleaned := ai.StripFences(raw)
	if strings.TrimSpace(cleaned) == "" {
		return nil, perrors.NewGenerationError("ペルソナの生成に失敗しました", provider, nil)
	}

	var persona domain.Persona
	if err := json.Unmarshal([]byte(cleaned), &persona); err != nil {
		s.logger.Warn("페르소나 JSON 파싱 실패",
			zap.String("name", name),
			zap.Error(err))
		return nil, perrors.NewMalformedPersonaError("生成されたペルソナの形式が不正です", nil, err)
	}

	if missing := persona.Validate(); len(missing) > 0 {
		s.logger.Warn("페르소나 필수 필드 누락",
			zap.String("name", name),
			zap.Strings("missing", missing))
		return nil, perrors.NewMalformedPersonaError("生成されたペルソナに必須フィールドが欠けています", missing, nil)
	}

	if meta != nil {
		s.logger.Info("페르소나 생성 완료",
			zap.String("name", name),
			zap.String("provider", meta.Provider),
			zap.String("model", meta.Model),
			zap.Bool("fallback", meta.UsedFallback))
	}

	return &persona, nil
}
