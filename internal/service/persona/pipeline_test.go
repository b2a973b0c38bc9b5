package persona

import (
	"context"
	"errors"
	"strings"
	"testing"

	"go.uber.org/zap"

	"github.com/kapu/copichat-persona-go/internal/domain"
	"github.com/kapu/copichat-persona-go/internal/service/classifier"
	perrors "github.com/kapu/copichat-persona-go/pkg/errors"
)

type fakeFetcher struct {
	record *domain.EvidenceRecord
	calls  []string
}

func (f *fakeFetcher) FetchEvidence(_ context.Context, name string) *domain.EvidenceRecord {
	f.calls = append(f.calls, name)
	return f.record
}

type fakeResolver struct {
	url   string
	calls []string
}

func (f *fakeResolver) ResolveInfoboxImage(_ context.Context, title string) string {
	f.calls = append(f.calls, title)
	return f.url
}

type fakeSynth struct {
	persona   *domain.Persona
	err       error
	imageURLs []string
	calls     []string
}

func (f *fakeSynth) Synthesize(_ context.Context, name string, _ *domain.EvidenceRecord, imageURL string) (*domain.Persona, error) {
	f.calls = append(f.calls, name)
	f.imageURLs = append(f.imageURLs, imageURL)
	return f.persona, f.err
}

var testPolicy = classifier.Policy{MinSummaryChars: 150, MinCategories: 3}

func acceptableEvidence() *domain.EvidenceRecord {
	return &domain.EvidenceRecord{
		Exists:        true,
		ResolvedTitle: "ウォルト・ディズニー",
		Summary:       strings.Repeat("あ", 300),
		Categories: []string{
			"Category:1901年生",
			"Category:1966年没",
			"Category:実業家",
		},
		ThumbnailURL: "https://upload.wikimedia.org/search-thumb.jpg",
	}
}

func newTestPipeline(fetcher *fakeFetcher, resolver *fakeResolver, synth *fakeSynth) *Pipeline {
	return NewPipeline(fetcher, resolver, synth, testPolicy, nil, zap.NewNop())
}

func TestPipelineHappyPath(t *testing.T) {
	want := &domain.Persona{Name: "ウォルト・ディズニー"}
	fetcher := &fakeFetcher{record: acceptableEvidence()}
	resolver := &fakeResolver{url: "https://upload.wikimedia.org/infobox-256px.jpg"}
	synth := &fakeSynth{persona: want}
	p := newTestPipeline(fetcher, resolver, synth)

	got, err := p.Run(context.Background(), domain.CandidateQuery{Name: "ウォルト・ディズニー"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != want {
		t.Error("expected synthesized persona to be returned")
	}

	// 인포박스 초상화가 검색 썸네일보다 우선
	if len(synth.imageURLs) != 1 || synth.imageURLs[0] != resolver.url {
		t.Errorf("expected infobox image to win, got %v", synth.imageURLs)
	}
	if len(resolver.calls) != 1 || resolver.calls[0] != "ウォルト・ディズニー" {
		t.Errorf("resolver must receive the resolved title, got %v", resolver.calls)
	}
}

func TestPipelineImageFallsBackToThumbnail(t *testing.T) {
	fetcher := &fakeFetcher{record: acceptableEvidence()}
	resolver := &fakeResolver{url: ""}
	synth := &fakeSynth{persona: &domain.Persona{Name: "x"}}
	p := newTestPipeline(fetcher, resolver, synth)

	if _, err := p.Run(context.Background(), domain.CandidateQuery{Name: "ウォルト・ディズニー"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if synth.imageURLs[0] != "https://upload.wikimedia.org/search-thumb.jpg" {
		t.Errorf("expected search thumbnail fallback, got %q", synth.imageURLs[0])
	}
}

func TestPipelineNotFound(t *testing.T) {
	fetcher := &fakeFetcher{record: &domain.EvidenceRecord{Exists: false, Reason: "Wikipedia記事が見つかりませんでした"}}
	resolver := &fakeResolver{}
	synth := &fakeSynth{}
	p := newTestPipeline(fetcher, resolver, synth)

	_, err := p.Run(context.Background(), domain.CandidateQuery{Name: "実在しない人物名"})
	var notFound *perrors.NotFoundError
	if !errors.As(err, &notFound) {
		t.Fatalf("expected NotFoundError, got %T: %v", err, err)
	}
	if perrors.StatusCode(err) != 404 {
		t.Errorf("expected 404, got %d", perrors.StatusCode(err))
	}
	if len(synth.calls) != 0 || len(resolver.calls) != 0 {
		t.Error("downstream stages must not run after a failed lookup")
	}
}

func TestPipelineClassificationRejection(t *testing.T) {
	fetcher := &fakeFetcher{record: &domain.EvidenceRecord{
		Exists:        true,
		ResolvedTitle: "富士山",
		Summary:       strings.Repeat("あ", 800),
		Categories: []string{
			"Category:日本の山",
			"Category:静岡県の地形",
			"Category:世界遺産",
		},
	}}
	resolver := &fakeResolver{}
	synth := &fakeSynth{}
	p := newTestPipeline(fetcher, resolver, synth)

	_, err := p.Run(context.Background(), domain.CandidateQuery{Name: "富士山"})
	var rejection *perrors.ClassificationRejection
	if !errors.As(err, &rejection) {
		t.Fatalf("expected ClassificationRejection, got %T: %v", err, err)
	}
	if rejection.Gate != domain.GateExclusion {
		t.Errorf("expected gate %q, got %q", domain.GateExclusion, rejection.Gate)
	}
	if len(synth.calls) != 0 {
		t.Error("generator must not be invoked for rejected pages")
	}
	if len(resolver.calls) != 0 {
		t.Error("image resolution must not run for rejected pages")
	}
}

// Validation failures terminate the pipeline before any lookup happens.
func TestPipelineValidation(t *testing.T) {
	tests := []struct {
		name  string
		query domain.CandidateQuery
	}{
		{"empty name", domain.CandidateQuery{Name: "   "}},
		{"too short", domain.CandidateQuery{Name: "あ"}},
		{"too long", domain.CandidateQuery{Name: strings.Repeat("あ", 101)}},
		{"duplicate", domain.CandidateQuery{
			Name:       "ウォルト・ディズニー",
			KnownNames: []string{"ウォルト・ディズニー"},
		}},
		{"duplicate case-insensitive", domain.CandidateQuery{
			Name:       "Walt Disney",
			KnownNames: []string{"walt disney"},
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fetcher := &fakeFetcher{record: acceptableEvidence()}
			p := newTestPipeline(fetcher, &fakeResolver{}, &fakeSynth{})

			_, err := p.Run(context.Background(), tt.query)
			var validation *perrors.ValidationError
			if !errors.As(err, &validation) {
				t.Fatalf("expected ValidationError, got %T: %v", err, err)
			}
			if perrors.StatusCode(err) != 400 {
				t.Errorf("expected 400, got %d", perrors.StatusCode(err))
			}
			if len(fetcher.calls) != 0 {
				t.Error("no lookup may happen for invalid input")
			}
		})
	}
}

func TestPipelineBoundaryLengthsAccepted(t *testing.T) {
	for _, name := range []string{strings.Repeat("あ", 2), strings.Repeat("あ", 100)} {
		fetcher := &fakeFetcher{record: acceptableEvidence()}
		synth := &fakeSynth{persona: &domain.Persona{Name: name}}
		p := newTestPipeline(fetcher, &fakeResolver{}, synth)

		if _, err := p.Run(context.Background(), domain.CandidateQuery{Name: name}); err != nil {
			t.Errorf("length %d must pass validation, got %v", len([]rune(name)), err)
		}
	}
}

func TestPipelinePropagatesGenerationError(t *testing.T) {
	fetcher := &fakeFetcher{record: acceptableEvidence()}
	synth := &fakeSynth{err: perrors.NewGenerationError("ペルソナの生成に失敗しました", "gemini", nil)}
	p := newTestPipeline(fetcher, &fakeResolver{}, synth)

	_, err := p.Run(context.Background(), domain.CandidateQuery{Name: "ウォルト・ディズニー"})
	var genErr *perrors.GenerationError
	if !errors.As(err, &genErr) {
		t.Fatalf("expected GenerationError passthrough, got %T: %v", err, err)
	}
	if perrors.StatusCode(err) != 500 {
		t.Errorf("expected 500, got %d", perrors.StatusCode(err))
	}
}
