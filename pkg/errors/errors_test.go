package errors

import (
	"errors"
	"fmt"
	"testing"
)

// Every concrete kind must be reachable as *PipelineError through errors.As,
// otherwise the HTTP layer maps everything to 500.
func TestStatusCodeMapping(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"validation", NewValidationError("名前が不正です", "name", "x"), 400},
		{"not found", NewNotFoundError("記事なし", "正確な人物名を入力してください", "x"), 404},
		{"classification", NewClassificationRejection("人物ではありません", "別の名前を", "not_person"), 400},
		{"image resolution", NewImageResolutionError("画像解決失敗", "x", nil), 500},
		{"generation", NewGenerationError("生成失敗", "gemini", nil), 500},
		{"malformed", NewMalformedPersonaError("形式不正", []string{"systemPrompt"}, nil), 500},
		{"cache", NewCacheError("接続失敗", "get", "k", nil), 500},
		{"api", NewAPIError("server error", 503, nil), 503},
		{"untagged", errors.New("plain"), 500},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := StatusCode(tt.err); got != tt.want {
				t.Errorf("StatusCode() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestSuggestionAndCode(t *testing.T) {
	err := NewNotFoundError("記事なし", "正確な人物名を入力してください", "誰か")
	if got := Suggestion(err); got != "正確な人物名を入力してください" {
		t.Errorf("Suggestion() = %q", got)
	}
	if got := Code(err); got != CodeNotFound {
		t.Errorf("Code() = %q, want %q", got, CodeNotFound)
	}

	if got := Suggestion(errors.New("plain")); got != "" {
		t.Errorf("untagged suggestion must be empty, got %q", got)
	}
	if got := Code(errors.New("plain")); got != "" {
		t.Errorf("untagged code must be empty, got %q", got)
	}
}

// The unwrap chain has to pass through the embedded base before reaching the
// cause, and survive further fmt.Errorf wrapping.
func TestUnwrapChain(t *testing.T) {
	cause := errors.New("upstream down")
	genErr := NewGenerationError("生成失敗", "gemini", cause)

	var pe *PipelineError
	if !errors.As(genErr, &pe) {
		t.Fatal("errors.As must reach *PipelineError from the concrete type")
	}
	if pe.StatusCode != 500 || pe.Code != CodeGeneration {
		t.Errorf("wrong base reached: %+v", pe)
	}

	if !errors.Is(genErr, cause) {
		t.Error("cause must stay reachable through the chain")
	}

	wrapped := fmt.Errorf("request failed: %w", genErr)
	if StatusCode(wrapped) != 500 {
		t.Errorf("wrapped StatusCode = %d, want 500", StatusCode(wrapped))
	}
	var genTarget *GenerationError
	if !errors.As(wrapped, &genTarget) {
		t.Error("concrete type must stay reachable after wrapping")
	}
}
