package llm

import (
	"context"
	"fmt"
	"strings"
	"time"
)

// ProviderConfig selects and configures a provider
type ProviderConfig struct {
	Provider string
	Endpoint string
	Model    string
	Region   string
	Timeout  time.Duration
}

// NewProviderFromConfig creates a Provider from config fields
func NewProviderFromConfig(ctx context.Context, cfg ProviderConfig) (Provider, error) {
	switch strings.ToLower(strings.TrimSpace(cfg.Provider)) {
	case "ollama", "":
		if strings.TrimSpace(cfg.Endpoint) == "" {
			return nil, fmt.Errorf("ollama endpoint is required")
		}
		return NewClient(cfg.Endpoint, cfg.Model, cfg.Timeout), nil
	case "bedrock":
		return NewBedrock(ctx, cfg.Region, cfg.Model, cfg.Timeout)
	default:
		return nil, fmt.Errorf("unsupported LLM provider %q", cfg.Provider)
	}
}
