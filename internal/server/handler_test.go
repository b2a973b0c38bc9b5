package server

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"go.uber.org/zap"

	"github.com/kapu/copichat-persona-go/internal/config"
	"github.com/kapu/copichat-persona-go/internal/domain"
	"github.com/kapu/copichat-persona-go/internal/service/classifier"
	"github.com/kapu/copichat-persona-go/internal/service/persona"
	perrors "github.com/kapu/copichat-persona-go/pkg/errors"
)

type stubFetcher struct {
	record *domain.EvidenceRecord
}

func (s *stubFetcher) FetchEvidence(_ context.Context, _ string) *domain.EvidenceRecord {
	return s.record
}

type stubResolver struct{}

func (stubResolver) ResolveInfoboxImage(_ context.Context, _ string) string { return "" }

type stubGenerator struct {
	persona *domain.Persona
	err     error
}

func (s *stubGenerator) Synthesize(_ context.Context, _ string, _ *domain.EvidenceRecord, _ string) (*domain.Persona, error) {
	return s.persona, s.err
}

func newTestServer(fetcher persona.EvidenceFetcher, gen persona.Generator) *Server {
	cfg := &config.Config{
		Server: config.ServerConfig{Host: "127.0.0.1", Port: 0},
		CORS:   config.CORSConfig{AllowedOrigins: []string{"https://app.example.com"}},
	}
	pipeline := persona.NewPipeline(
		fetcher,
		stubResolver{},
		gen,
		classifier.Policy{MinSummaryChars: 150, MinCategories: 3},
		nil,
		zap.NewNop(),
	)
	return NewServer(cfg, pipeline, zap.NewNop())
}

func goodEvidence() *domain.EvidenceRecord {
	return &domain.EvidenceRecord{
		Exists:        true,
		ResolvedTitle: "ウォルト・ディズニー",
		Summary:       strings.Repeat("あ", 300),
		Categories: []string{
			"Category:1901年生",
			"Category:1966年没",
			"Category:実業家",
		},
	}
}

func postGenerate(t *testing.T, srv *Server, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/api/personas/generate", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	srv.httpServer.Handler.ServeHTTP(rec, req)
	return rec
}

func TestGenerateEndpointSuccess(t *testing.T) {
	srv := newTestServer(
		&stubFetcher{record: goodEvidence()},
		&stubGenerator{persona: &domain.Persona{Name: "ウォルト・ディズニー", Category: domain.CategoryBusiness}},
	)

	rec := postGenerate(t, srv, `{"name":"ウォルト・ディズニー","existingPersonaNames":[]}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp generateResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Persona == nil || resp.Persona.Name != "ウォルト・ディズニー" {
		t.Errorf("unexpected payload: %s", rec.Body.String())
	}

	// 모든 응답에 보안 헤더가 붙어야 함
	if rec.Header().Get("X-Content-Type-Options") != "nosniff" {
		t.Error("missing X-Content-Type-Options header")
	}
	if rec.Header().Get("X-Frame-Options") != "DENY" {
		t.Error("missing X-Frame-Options header")
	}
}

func TestGenerateEndpointValidation(t *testing.T) {
	srv := newTestServer(&stubFetcher{record: goodEvidence()}, &stubGenerator{})

	rec := postGenerate(t, srv, `{"name":"あ"}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}

	var resp errorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode error response: %v", err)
	}
	if resp.Code != perrors.CodeValidation {
		t.Errorf("expected code %q, got %q", perrors.CodeValidation, resp.Code)
	}
	if resp.Error == "" {
		t.Error("error message must not be empty")
	}
}

func TestGenerateEndpointDuplicate(t *testing.T) {
	srv := newTestServer(&stubFetcher{record: goodEvidence()}, &stubGenerator{})

	rec := postGenerate(t, srv, `{"name":"Walt Disney","existingPersonaNames":["walt disney"]}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for duplicate, got %d", rec.Code)
	}
}

func TestGenerateEndpointNotFound(t *testing.T) {
	srv := newTestServer(
		&stubFetcher{record: &domain.EvidenceRecord{Exists: false, Reason: "Wikipedia記事が見つかりませんでした"}},
		&stubGenerator{},
	)

	rec := postGenerate(t, srv, `{"name":"実在しない人物"}`)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}

	var resp errorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if resp.Suggestion == "" {
		t.Error("not-found response should carry a suggestion")
	}
}

func TestGenerateEndpointMalformedBody(t *testing.T) {
	srv := newTestServer(&stubFetcher{record: goodEvidence()}, &stubGenerator{})

	rec := postGenerate(t, srv, `{broken json`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for broken JSON, got %d", rec.Code)
	}
}

func TestHealthEndpoint(t *testing.T) {
	srv := newTestServer(&stubFetcher{record: goodEvidence()}, &stubGenerator{})

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()
	srv.httpServer.Handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestCORSPreflight(t *testing.T) {
	srv := newTestServer(&stubFetcher{record: goodEvidence()}, &stubGenerator{})

	req := httptest.NewRequest(http.MethodOptions, "/api/personas/generate", nil)
	req.Header.Set("Origin", "https://app.example.com")
	rec := httptest.NewRecorder()
	srv.httpServer.Handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected 204 preflight, got %d", rec.Code)
	}
	if rec.Header().Get("Access-Control-Allow-Origin") != "https://app.example.com" {
		t.Errorf("allowed origin must be echoed, got %q", rec.Header().Get("Access-Control-Allow-Origin"))
	}

	// 허용 목록에 없는 오리진은 헤더를 받지 못함
	req = httptest.NewRequest(http.MethodOptions, "/api/personas/generate", nil)
	req.Header.Set("Origin", "https://evil.example.com")
	rec = httptest.NewRecorder()
	srv.httpServer.Handler.ServeHTTP(rec, req)

	if rec.Header().Get("Access-Control-Allow-Origin") != "" {
		t.Error("unlisted origin must not receive Allow-Origin header")
	}
}
