package persona

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"go.uber.org/zap"

	"github.com/kapu/copichat-persona-go/internal/domain"
	"github.com/kapu/copichat-persona-go/internal/service/ai"
	perrors "github.com/kapu/copichat-persona-go/pkg/errors"
)

type fakeGenerator struct {
	response string
	meta     *ai.GenerateMetadata
	err      error
	prompts  []string
}

func (f *fakeGenerator) GenerateRaw(_ context.Context, prompt string, _ ai.ModelPreset, _ *ai.GenerateOptions) (string, *ai.GenerateMetadata, error) {
	f.prompts = append(f.prompts, prompt)
	return f.response, f.meta, f.err
}

func validPersonaJSON(t *testing.T) string {
	t.Helper()
	p := domain.Persona{
		ID:                 "a1b2c3d4-e5f6-7890-abcd-ef1234567890",
		Name:               "ウォルト・ディズニー",
		NameEn:             "Walt Disney",
		Era:                "1901-1966",
		Title:              "アニメーター・実業家",
		Avatar:             "https://upload.wikimedia.org/256px-Walt.jpg",
		SystemPrompt:       "あなたはウォルト・ディズニーです。夢と想像力を信じ、常に前向きに語りかけてください。",
		BackgroundGradient: []string{"blue-500", "purple-600"},
		TextColor:          "white",
		Traits: domain.PersonaTraits{
			SpeechPattern:  []string{"夢を語る", "前向き"},
			Philosophy:     []string{"夢を追い続けること"},
			DecisionMaking: "直感と創造性を重視する",
			KeyPhrases:     []string{"夢は必ず叶う"},
			FamousQuotes:   []string{"If you can dream it, you can do it."},
		},
		Specialties:       []string{"アニメーション", "テーマパーク", "起業"},
		HistoricalContext: "20世紀のアメリカでアニメーション産業を開拓し、世界的なエンターテインメント企業を築いた。",
		Category:          domain.CategoryBusiness,
	}
	data, err := json.Marshal(p)
	if err != nil {
		t.Fatalf("marshal stub persona: %v", err)
	}
	return string(data)
}

func testEvidence() *domain.EvidenceRecord {
	return &domain.EvidenceRecord{
		Exists:        true,
		ResolvedTitle: "ウォルト・ディズニー",
		Summary:       strings.Repeat("あ", 300),
		Categories:    []string{"Category:1901年生", "Category:実業家"},
	}
}

func TestSynthesizeSuccess(t *testing.T) {
	gen := &fakeGenerator{
		response: validPersonaJSON(t),
		meta:     &ai.GenerateMetadata{Provider: "gemini", Model: "gemini-2.5-flash"},
	}
	s := NewSynthesizer(gen, zap.NewNop())

	persona, err := s.Synthesize(context.Background(), "ウォルト・ディズニー", testEvidence(), "https://upload.wikimedia.org/256px-Walt.jpg")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if persona.Name != "ウォルト・ディズニー" {
		t.Errorf("unexpected name %q", persona.Name)
	}
	if persona.Category != domain.CategoryBusiness {
		t.Errorf("unexpected category %q", persona.Category)
	}

	// 프롬프트에 이름과 이미지 URL 지시가 포함되어야 함
	if len(gen.prompts) != 1 {
		t.Fatalf("expected 1 generation call, got %d", len(gen.prompts))
	}
	prompt := gen.prompts[0]
	if !strings.Contains(prompt, "ウォルト・ディズニー") {
		t.Error("prompt must contain the subject name")
	}
	if !strings.Contains(prompt, "https://upload.wikimedia.org/256px-Walt.jpg") {
		t.Error("prompt must carry the resolved image URL")
	}
}

func TestSynthesizeStripsMarkdownFence(t *testing.T) {
	gen := &fakeGenerator{
		response: "```json\n" + validPersonaJSON(t) + "\n```",
		meta:     &ai.GenerateMetadata{Provider: "openai", Model: "gpt-4o", UsedFallback: true},
	}
	s := NewSynthesizer(gen, zap.NewNop())

	if _, err := s.Synthesize(context.Background(), "ウォルト・ディズニー", testEvidence(), ""); err != nil {
		t.Fatalf("fenced JSON must parse, got %v", err)
	}
}

func TestSynthesizeTransportFailure(t *testing.T) {
	gen := &fakeGenerator{err: errors.New("all providers down")}
	s := NewSynthesizer(gen, zap.NewNop())

	_, err := s.Synthesize(context.Background(), "誰か", testEvidence(), "")
	var genErr *perrors.GenerationError
	if !errors.As(err, &genErr) {
		t.Fatalf("expected GenerationError, got %T: %v", err, err)
	}
}

func TestSynthesizeEmptyResponse(t *testing.T) {
	gen := &fakeGenerator{response: "   "}
	s := NewSynthesizer(gen, zap.NewNop())

	_, err := s.Synthesize(context.Background(), "誰か", testEvidence(), "")
	var genErr *perrors.GenerationError
	if !errors.As(err, &genErr) {
		t.Fatalf("expected GenerationError for empty output, got %T: %v", err, err)
	}
}

func TestSynthesizeMalformedJSON(t *testing.T) {
	gen := &fakeGenerator{response: `{"name": "broken`}
	s := NewSynthesizer(gen, zap.NewNop())

	_, err := s.Synthesize(context.Background(), "誰か", testEvidence(), "")
	var malformed *perrors.MalformedPersonaError
	if !errors.As(err, &malformed) {
		t.Fatalf("expected MalformedPersonaError, got %T: %v", err, err)
	}
}

// Well-formed JSON missing required fields is a schema violation, not a
// generation failure.
func TestSynthesizeMissingRequiredFields(t *testing.T) {
	var stub domain.Persona
	if err := json.Unmarshal([]byte(validPersonaJSON(t)), &stub); err != nil {
		t.Fatal(err)
	}
	stub.SystemPrompt = ""
	stub.Specialties = nil
	data, _ := json.Marshal(stub)

	gen := &fakeGenerator{response: string(data)}
	s := NewSynthesizer(gen, zap.NewNop())

	_, err := s.Synthesize(context.Background(), "誰か", testEvidence(), "")
	var malformed *perrors.MalformedPersonaError
	if !errors.As(err, &malformed) {
		t.Fatalf("expected MalformedPersonaError, got %T: %v", err, err)
	}
	found := map[string]bool{}
	for _, field := range malformed.Missing {
		found[field] = true
	}
	if !found["systemPrompt"] || !found["specialties"] {
		t.Errorf("expected systemPrompt and specialties in missing list, got %v", malformed.Missing)
	}
}
