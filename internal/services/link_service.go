package services

import (
	"context"
	"fmt"
	"net/url"
	"os/exec"
	"runtime"
	"strings"
)

// LinkServiceImpl implements LinkService
type LinkServiceImpl struct {
	// command builds the opener process; replaced in tests
	command func(ctx context.Context, goos, url string) (*exec.Cmd, error)
}

// NewLinkService creates a new link service
func NewLinkService() *LinkServiceImpl {
	return &LinkServiceImpl{command: openCommand}
}

// OpenLink opens a URL using the system default browser
func (s *LinkServiceImpl) OpenLink(ctx context.Context, link string) error {
	if err := s.ValidateURL(link); err != nil {
		return fmt.Errorf("invalid URL: %w", err)
	}

	cmd, err := s.command(ctx, runtime.GOOS, link)
	if err != nil {
		return err
	}

	// Start the command (non-blocking)
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("failed to open URL: %w", err)
	}
	go func() { _ = cmd.Wait() }()

	return nil
}

// ValidateURL accepts absolute http, https and mailto URLs
func (s *LinkServiceImpl) ValidateURL(link string) error {
	if strings.TrimSpace(link) == "" {
		return fmt.Errorf("URL cannot be empty")
	}

	parsed, err := url.Parse(link)
	if err != nil {
		return fmt.Errorf("invalid URL format: %w", err)
	}

	switch strings.ToLower(parsed.Scheme) {
	case "http", "https":
		if parsed.Host == "" {
			return fmt.Errorf("URL missing host")
		}
	case "mailto":
	case "":
		return fmt.Errorf("URL missing scheme")
	default:
		return fmt.Errorf("unsupported URL scheme: %s", parsed.Scheme)
	}

	return nil
}

func openCommand(ctx context.Context, goos, link string) (*exec.Cmd, error) {
	switch goos {
	case "darwin":
		return exec.CommandContext(ctx, "open", link), nil
	case "linux", "freebsd", "openbsd":
		return exec.CommandContext(ctx, "xdg-open", link), nil
	case "windows":
		return exec.CommandContext(ctx, "rundll32", "url.dll,FileProtocolHandler", link), nil
	default:
		return nil, fmt.Errorf("unsupported platform: %s", goos)
	}
}

// ensure interface compliance
var _ LinkService = (*LinkServiceImpl)(nil)
