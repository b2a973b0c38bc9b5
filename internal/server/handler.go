package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/kapu/copichat-persona-go/internal/constants"
	"github.com/kapu/copichat-persona-go/internal/domain"
	perrors "github.com/kapu/copichat-persona-go/pkg/errors"
)

type generateRequest struct {
	Name                 string   `json:"name"`
	ExistingPersonaNames []string `json:"existingPersonaNames"`
}

type generateResponse struct {
	Persona *domain.Persona `json:"persona"`
}

type errorResponse struct {
	Error      string `json:"error"`
	Code       string `json:"code,omitempty"`
	Suggestion string `json:"suggestion,omitempty"`
}

func (s *Server) handleGenerate(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, constants.ServerConfig.MaxBodyBytes)

	var req generateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{
			Error: "リクエストの形式が不正です",
			Code:  perrors.CodeValidation,
		})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), constants.PipelineLimits.StageTimeout)
	defer cancel()

	persona, err := s.pipeline.Run(ctx, domain.CandidateQuery{
		Name:       req.Name,
		KnownNames: req.ExistingPersonaNames,
	})
	if err != nil {
		status := perrors.StatusCode(err)
		if status >= 500 {
			s.logger.Error("페르소나 생성 실패",
				zap.String("name", req.Name),
				zap.Error(err))
		}
		writeJSON(w, status, errorResponse{
			Error:      userMessage(err),
			Code:       perrors.Code(err),
			Suggestion: perrors.Suggestion(err),
		})
		return
	}

	writeJSON(w, http.StatusOK, generateResponse{Persona: persona})
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// userMessage returns the tagged error's message without the wrapped cause
// chain, which may leak provider detail.
func userMessage(err error) string {
	var pe *perrors.PipelineError
	if errors.As(err, &pe) {
		return pe.Message
	}
	return "内部エラーが発生しました"
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
