package services

import (
	"context"
	"fmt"
	"strings"
)

// GmailWebServiceImpl implements GmailWebService
type GmailWebServiceImpl struct {
	linkService LinkService
	account     int
}

// NewGmailWebService creates a new Gmail web service. account selects the
// signed-in Gmail account index (u/N).
func NewGmailWebService(linkService LinkService, account int) *GmailWebServiceImpl {
	if account < 0 {
		account = 0
	}
	return &GmailWebServiceImpl{
		linkService: linkService,
		account:     account,
	}
}

// OpenThreadInWeb opens a sent reply's thread in the Gmail web interface
func (s *GmailWebServiceImpl) OpenThreadInWeb(ctx context.Context, threadID string) error {
	if err := s.ValidateThreadID(threadID); err != nil {
		return fmt.Errorf("invalid thread ID: %w", err)
	}

	if s.linkService == nil {
		return fmt.Errorf("link service not available")
	}

	if err := s.linkService.OpenLink(ctx, s.GenerateGmailWebURL(threadID)); err != nil {
		return fmt.Errorf("failed to open Gmail URL: %w", err)
	}

	return nil
}

// ValidateThreadID validates a Gmail thread or message ID
func (s *GmailWebServiceImpl) ValidateThreadID(id string) error {
	id = strings.TrimSpace(id)
	if id == "" {
		return fmt.Errorf("thread ID cannot be empty")
	}

	for _, char := range id {
		if (char < 'a' || char > 'z') &&
			(char < 'A' || char > 'Z') &&
			(char < '0' || char > '9') &&
			char != '_' && char != '-' {
			return fmt.Errorf("thread ID contains invalid characters: %s", id)
		}
	}

	return nil
}

// GenerateGmailWebURL builds the Gmail web URL for a thread in Sent
func (s *GmailWebServiceImpl) GenerateGmailWebURL(threadID string) string {
	return fmt.Sprintf("https://mail.google.com/mail/u/%d/#sent/%s", s.account, strings.TrimSpace(threadID))
}

// ensure interface compliance
var _ GmailWebService = (*GmailWebServiceImpl)(nil)
