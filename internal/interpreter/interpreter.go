package interpreter

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/fyrsmithlabs/trialsearchd/internal/llm"
	"github.com/fyrsmithlabs/trialsearchd/internal/registry"
)

// Clarifications returned on the degradation paths.
const (
	clarifyEmptyQuery  = "Please enter a search query about clinical trials."
	clarifyParseFail   = "I had trouble understanding your query. Could you rephrase it?"
	clarifyUnavailable = "The search service is temporarily unavailable. Please try again."
	clarifyUnexpected  = "An unexpected error occurred. Please try again."
)

// Interpreter converts query text into Entities.
type Interpreter struct {
	completer llm.Completer
	registry  *registry.Registry
	logger    *zap.Logger
	prompt    string
}

// New creates an interpreter. The system prompt is assembled once from the
// registry and reused for every request.
func New(completer llm.Completer, reg *registry.Registry, logger *zap.Logger) *Interpreter {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Interpreter{
		completer: completer,
		registry:  reg,
		logger:    logger,
		prompt:    buildSystemPrompt(reg),
	}
}

// Interpret extracts entities from a natural-language query. The second
// result reports whether a degradation fallback was substituted for a real
// interpretation. Interpret never returns an error: empty input, unparseable
// extractor output, and extraction-service failures all produce a valid
// low-confidence structure carrying a clarification question.
func (i *Interpreter) Interpret(ctx context.Context, queryText string) (Entities, bool) {
	trimmed := strings.TrimSpace(queryText)
	if trimmed == "" {
		return Entities{Confidence: 0.1, Clarification: clarifyEmptyQuery}, true
	}

	user := fmt.Sprintf("Extract entities from this clinical trials search query: %q", trimmed)

	reply, err := i.completer.Complete(ctx, i.prompt, user)
	if err != nil {
		var apiErr *llm.APIError
		if errors.As(err, &apiErr) {
			i.logger.Error("extraction API failure", zap.Error(err))
			return Entities{Confidence: 0.0, Clarification: clarifyUnavailable}, true
		}
		i.logger.Error("unexpected extraction failure", zap.Error(err))
		return Entities{Confidence: 0.0, Clarification: clarifyUnexpected}, true
	}

	i.logger.Debug("extractor reply", zap.String("reply", reply))

	data, err := parseObject(reply)
	if err != nil {
		i.logger.Warn("failed to parse extractor reply", zap.Error(err))
		return Entities{Confidence: 0.3, Clarification: clarifyParseFail}, true
	}

	return normalize(data, i.registry, i.logger), false
}
