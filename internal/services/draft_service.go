package services

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/ajramos/giztriage/internal/llm"
	"github.com/ajramos/giztriage/internal/models"
)

// DefaultReplyPrompt is used when no reply prompt is configured
const DefaultReplyPrompt = `You are a helpful email assistant. Write a short, polite reply to the email below.
Return only the reply body, without a subject line or signature placeholder.

From: {{from}}
Subject: {{subject}}
Category: {{category}}
Summary: {{summary}}

{{body}}`

// DraftServiceImpl implements DraftService
type DraftServiceImpl struct {
	provider llm.Provider
	template string
	logger   *log.Logger
}

// NewDraftService creates a draft service. A nil provider disables it.
func NewDraftService(provider llm.Provider, template string, logger *log.Logger) *DraftServiceImpl {
	if strings.TrimSpace(template) == "" {
		template = DefaultReplyPrompt
	}
	return &DraftServiceImpl{provider: provider, template: template, logger: logger}
}

// Enabled reports whether a provider is configured
func (s *DraftServiceImpl) Enabled() bool { return s.provider != nil }

// Suggest asks the LLM for a reply to email
func (s *DraftServiceImpl) Suggest(ctx context.Context, email models.ClassifiedEmailRecord) (string, error) {
	if s.provider == nil {
		return "", ErrAIDisabled
	}
	prompt := s.buildPrompt(email)
	out, err := s.provider.Generate(ctx, prompt)
	if err != nil {
		if s.logger != nil {
			s.logger.Printf("draft %s via %s: %v", email.ID, s.provider.Name(), err)
		}
		return "", fmt.Errorf("failed to suggest draft: %w", err)
	}
	return strings.TrimSpace(out), nil
}

func (s *DraftServiceImpl) buildPrompt(email models.ClassifiedEmailRecord) string {
	summary := ""
	if email.Summary != nil {
		summary = *email.Summary
	}
	body := email.BodyPlain
	if strings.TrimSpace(body) == "" {
		body = email.Snippet
	}
	r := strings.NewReplacer(
		"{{from}}", email.From,
		"{{subject}}", email.Subject,
		"{{category}}", email.Category,
		"{{summary}}", summary,
		"{{body}}", body,
	)
	return r.Replace(s.template)
}

// ensure interface compliance
var _ DraftService = (*DraftServiceImpl)(nil)
