package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

// Environment overrides
const (
	EnvConfigPath = "GIZTRIAGE_CONFIG"
	EnvBackendURL = "GIZTRIAGE_BACKEND_URL"
	EnvAPIToken   = "GIZTRIAGE_API_TOKEN"
)

// BackendConfig points the dashboard at the triage API
type BackendConfig struct {
	URL      string `json:"url" yaml:"url" toml:"url"`
	APIToken string `json:"api_token" yaml:"api_token" toml:"api_token"`
	Timeout  string `json:"timeout" yaml:"timeout" toml:"timeout"`

	// Optional batch sizes; zero keeps the server defaults
	FetchLimit    int `json:"fetch_limit" yaml:"fetch_limit" toml:"fetch_limit"`
	ClassifyLimit int `json:"classify_limit" yaml:"classify_limit" toml:"classify_limit"`

	// Gmail web account index used when opening sent replies (u/N)
	GmailAccount int `json:"gmail_account" yaml:"gmail_account" toml:"gmail_account"`
}

// CacheConfig selects where view lists are cached
type CacheConfig struct {
	// Backend is "sqlite" or "memory"
	Backend string `json:"backend" yaml:"backend" toml:"backend"`
	// Path of the SQLite file; empty uses the default cache dir
	Path string `json:"path" yaml:"path" toml:"path"`
}

// LLMConfig holds all LLM-related configuration
type LLMConfig struct {
	Enabled  bool   `json:"enabled" yaml:"enabled" toml:"enabled"`
	Provider string `json:"provider" yaml:"provider" toml:"provider"` // ollama, bedrock
	Model    string `json:"model" yaml:"model" toml:"model"`
	Endpoint string `json:"endpoint" yaml:"endpoint" toml:"endpoint"`
	Region   string `json:"region" yaml:"region" toml:"region"` // For AWS Bedrock
	Timeout  string `json:"timeout" yaml:"timeout" toml:"timeout"`

	// Template file path (relative to config dir or absolute)
	ReplyTemplate string `json:"reply_template" yaml:"reply_template" toml:"reply_template"`
	// Inline prompt override (takes precedence over the file)
	// Available variables: {{from}}, {{subject}}, {{category}}, {{summary}}, {{body}}
	ReplyPrompt string `json:"reply_prompt,omitempty" yaml:"reply_prompt,omitempty" toml:"reply_prompt,omitempty"`
}

// UIConfig holds presentation settings
type UIConfig struct {
	// AlertDuration is how long transient alerts stay visible
	AlertDuration string `json:"alert_duration" yaml:"alert_duration" toml:"alert_duration"`
	// DefaultView is the view shown at startup: inbox, classify or sent
	DefaultView string `json:"default_view" yaml:"default_view" toml:"default_view"`
	// Theme is a YAML theme file name in ThemeDir, or an absolute path
	Theme    string `json:"theme" yaml:"theme" toml:"theme"`
	ThemeDir string `json:"theme_dir" yaml:"theme_dir" toml:"theme_dir"`
	// ShowBorders draws frames around panels
	ShowBorders bool `json:"show_borders" yaml:"show_borders" toml:"show_borders"`
}

// KeyBindings defines keyboard shortcuts for the TUI
type KeyBindings struct {
	InboxView    string `json:"inbox_view" yaml:"inbox_view" toml:"inbox_view"`
	ClassifyView string `json:"classify_view" yaml:"classify_view" toml:"classify_view"`
	SentView     string `json:"sent_view" yaml:"sent_view" toml:"sent_view"`
	Refresh      string `json:"refresh" yaml:"refresh" toml:"refresh"`
	Classify     string `json:"classify" yaml:"classify" toml:"classify"`
	Respond      string `json:"respond" yaml:"respond" toml:"respond"`
	ViewBody     string `json:"view_body" yaml:"view_body" toml:"view_body"`
	OpenGmail    string `json:"open_gmail" yaml:"open_gmail" toml:"open_gmail"`
	Help         string `json:"help" yaml:"help" toml:"help"`
	Quit         string `json:"quit" yaml:"quit" toml:"quit"`
}

// Config holds all configuration for the triage dashboard
type Config struct {
	Backend BackendConfig `json:"backend" yaml:"backend" toml:"backend"`
	Cache   CacheConfig   `json:"cache" yaml:"cache" toml:"cache"`
	LLM     LLMConfig     `json:"llm" yaml:"llm" toml:"llm"`
	UI      UIConfig      `json:"ui" yaml:"ui" toml:"ui"`
	Keys    KeyBindings   `json:"keys" yaml:"keys" toml:"keys"`

	// Logging
	LogFile string `json:"log_file" yaml:"log_file" toml:"log_file"`
}

// DefaultConfig returns a Config with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		Backend: DefaultBackendConfig(),
		Cache:   DefaultCacheConfig(),
		LLM:     DefaultLLMConfig(),
		UI:      DefaultUIConfig(),
		Keys:    DefaultKeyBindings(),
		LogFile: "",
	}
}

// DefaultBackendConfig returns default backend configuration
func DefaultBackendConfig() BackendConfig {
	return BackendConfig{
		URL:     "http://localhost:8000",
		Timeout: "60s",
	}
}

// DefaultCacheConfig returns default cache configuration
func DefaultCacheConfig() CacheConfig {
	return CacheConfig{Backend: "sqlite"}
}

// DefaultLLMConfig returns default LLM configuration
func DefaultLLMConfig() LLMConfig {
	return LLMConfig{
		Enabled:       false,
		Provider:      "ollama",
		Model:         "llama3.2:latest",
		Endpoint:      "http://localhost:11434/api/generate",
		Timeout:       "20s",
		ReplyTemplate: "templates/ai/reply.md",
	}
}

// DefaultUIConfig returns default UI configuration
func DefaultUIConfig() UIConfig {
	return UIConfig{
		AlertDuration: "3.5s",
		DefaultView:   "inbox",
		ShowBorders:   true,
	}
}

// DefaultKeyBindings returns default keyboard shortcuts
func DefaultKeyBindings() KeyBindings {
	return KeyBindings{
		InboxView:    "1",
		ClassifyView: "2",
		SentView:     "3",
		Refresh:      "R",
		Classify:     "c",
		Respond:      "r",
		ViewBody:     "v",
		OpenGmail:    "O",
		Help:         "?",
		Quit:         "q",
	}
}

// LoadConfig loads configuration from file. The decoder is chosen by
// extension (.json, .yaml/.yml, .toml). A missing file yields defaults.
func LoadConfig(configPath string) (*Config, error) {
	cfg := DefaultConfig()

	if configPath != "" {
		data, err := os.ReadFile(configPath)
		switch {
		case err == nil:
			if err := decode(configPath, data, cfg); err != nil {
				return nil, fmt.Errorf("failed to parse %s: %w", configPath, err)
			}
		case os.IsNotExist(err):
		default:
			return nil, fmt.Errorf("failed to read %s: %w", configPath, err)
		}
	}

	cfg.applyEnv()
	return cfg, nil
}

func decode(path string, data []byte, cfg *Config) error {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return yaml.Unmarshal(data, cfg)
	case ".toml":
		_, err := toml.Decode(string(data), cfg)
		return err
	case ".json", "":
		return json.Unmarshal(data, cfg)
	default:
		return fmt.Errorf("unsupported config format %q", filepath.Ext(path))
	}
}

func (c *Config) applyEnv() {
	if v := strings.TrimSpace(os.Getenv(EnvBackendURL)); v != "" {
		c.Backend.URL = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvAPIToken)); v != "" {
		c.Backend.APIToken = v
	}
}

// Validate reports settings that cannot work
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Backend.URL) == "" {
		return fmt.Errorf("backend.url is required")
	}
	if c.Backend.FetchLimit < 0 || c.Backend.ClassifyLimit < 0 {
		return fmt.Errorf("backend limits cannot be negative")
	}
	if _, err := parseDuration(c.Backend.Timeout, 0); err != nil {
		return fmt.Errorf("backend.timeout: %w", err)
	}
	if _, err := parseDuration(c.UI.AlertDuration, 0); err != nil {
		return fmt.Errorf("ui.alert_duration: %w", err)
	}
	switch c.Cache.Backend {
	case "", "sqlite", "memory":
	default:
		return fmt.Errorf("cache.backend must be sqlite or memory, got %q", c.Cache.Backend)
	}
	switch c.UI.DefaultView {
	case "", "inbox", "classify", "sent":
	default:
		return fmt.Errorf("ui.default_view must be inbox, classify or sent, got %q", c.UI.DefaultView)
	}
	if c.LLM.Enabled {
		switch c.LLM.Provider {
		case "", "ollama", "bedrock":
		default:
			return fmt.Errorf("llm.provider %q is not supported", c.LLM.Provider)
		}
	}
	return nil
}

// BackendTimeout returns the parsed backend timeout
func (c *Config) BackendTimeout() time.Duration {
	d, _ := parseDuration(c.Backend.Timeout, 60*time.Second)
	return d
}

// LLMTimeout returns the parsed LLM timeout
func (c *Config) LLMTimeout() time.Duration {
	d, _ := parseDuration(c.LLM.Timeout, 20*time.Second)
	return d
}

// AlertDuration returns the parsed alert duration
func (c *Config) AlertDuration() time.Duration {
	d, _ := parseDuration(c.UI.AlertDuration, 3500*time.Millisecond)
	return d
}

func parseDuration(s string, fallback time.Duration) (time.Duration, error) {
	if strings.TrimSpace(s) == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return fallback, err
	}
	if d <= 0 {
		return fallback, fmt.Errorf("duration must be positive")
	}
	return d, nil
}

// ReplyPrompt returns the inline prompt, or the template file's content,
// or empty when neither is usable
func (c *Config) ReplyPrompt(configDir string) string {
	if strings.TrimSpace(c.LLM.ReplyPrompt) != "" {
		return c.LLM.ReplyPrompt
	}
	path := c.LLM.ReplyTemplate
	if strings.TrimSpace(path) == "" {
		return ""
	}
	if !filepath.IsAbs(path) {
		path = filepath.Join(configDir, path)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return ""
	}
	return string(data)
}

// CachePath returns the SQLite cache file path
func (c *Config) CachePath() string {
	if strings.TrimSpace(c.Cache.Path) != "" {
		return c.Cache.Path
	}
	dir := DefaultCacheDir()
	if dir == "" {
		return ""
	}
	return filepath.Join(dir, "giztriage.db")
}

// ResolveConfigPath returns the explicit path, then $GIZTRIAGE_CONFIG, then
// the default path
func ResolveConfigPath(explicit string) string {
	if strings.TrimSpace(explicit) != "" {
		return explicit
	}
	if env := strings.TrimSpace(os.Getenv(EnvConfigPath)); env != "" {
		return env
	}
	return DefaultConfigPath()
}

// DefaultConfigPath returns the default configuration file path
func DefaultConfigPath() string {
	dir := DefaultConfigDir()
	if dir == "" {
		return ""
	}
	return filepath.Join(dir, "config.json")
}

// DefaultConfigDir returns the configuration directory
func DefaultConfigDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "giztriage")
}

// DefaultCacheDir returns the default cache directory path
func DefaultCacheDir() string {
	dir := DefaultConfigDir()
	if dir == "" {
		return ""
	}
	return filepath.Join(dir, "cache")
}

// DefaultLogDir returns the default log directory path
func DefaultLogDir() string {
	return DefaultConfigDir()
}

// SaveConfig saves the configuration to a file as JSON
func (c *Config) SaveConfig(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0600)
}
