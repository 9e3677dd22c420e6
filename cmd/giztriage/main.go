package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/ajramos/giztriage/internal/alert"
	"github.com/ajramos/giztriage/internal/backend"
	"github.com/ajramos/giztriage/internal/cache"
	"github.com/ajramos/giztriage/internal/config"
	"github.com/ajramos/giztriage/internal/db"
	"github.com/ajramos/giztriage/internal/llm"
	"github.com/ajramos/giztriage/internal/services"
	"github.com/ajramos/giztriage/internal/tui"
	"github.com/ajramos/giztriage/internal/version"
)

func main() {
	// Essential command line flags only (GNU-style double dashes)
	configPathFlag := flag.String("config", "", "Path to configuration file (default: ~/.config/giztriage/config.json)")
	backendFlag := flag.String("backend", "", "Triage backend base URL (overrides config)")
	setupFlag := flag.Bool("setup", false, "Create a default configuration file")
	versionFlag := flag.Bool("version", false, "Show version information and exit")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "%s\n\n", version.GetVersionString())
		fmt.Fprintf(os.Stderr, "Usage:\n")
		fmt.Fprintf(os.Stderr, "  %s [options]\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Examples:\n")
		fmt.Fprintf(os.Stderr, "  %s                                  # Run with default configuration\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s --backend http://localhost:8000  # Use another backend\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s --config custom.yaml             # Use custom configuration\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nEnvironment Variables:\n")
		fmt.Fprintf(os.Stderr, "  %-18s Override default config file path\n", config.EnvConfigPath)
		fmt.Fprintf(os.Stderr, "  %-18s Override the backend URL\n", config.EnvBackendURL)
		fmt.Fprintf(os.Stderr, "  %-18s Bearer token for the backend\n", config.EnvAPIToken)
	}

	flag.Parse()

	if *versionFlag {
		fmt.Println(version.GetDetailedVersionString())
		return
	}

	configPath := expandPath(config.ResolveConfigPath(*configPathFlag))

	if *setupFlag {
		if err := runSetup(configPath, os.Stdout); err != nil {
			log.Fatalf("Setup failed: %v", err)
		}
		return
	}

	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		log.Printf("Warning: could not load configuration: %v", err)
		cfg = config.DefaultConfig()
	}
	if *backendFlag != "" {
		cfg.Backend.URL = *backendFlag
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	logger, closeLog := openLogger(cfg)
	defer closeLog()
	logger.Printf("%s starting, backend %s", version.GetVersionString(), cfg.Backend.URL)

	ctx := context.Background()
	deps, cleanup, err := buildDeps(ctx, cfg, logger)
	if err != nil {
		log.Fatalf("Could not initialize: %v", err)
	}
	defer cleanup()

	app := tui.NewApp(cfg, deps)
	if err := app.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error running application: %v\n", err)
		os.Exit(1)
	}
}

// openLogger opens the file logger, discarding output when the file cannot
// be opened so the terminal UI stays clean
func openLogger(cfg *config.Config) (*log.Logger, func()) {
	f, err := tui.OpenLogFile(cfg.LogFile)
	if err != nil {
		return log.New(io.Discard, "", 0), func() {}
	}
	return log.New(f, "[giztriage] ", log.LstdFlags|log.Lmicroseconds), func() { _ = f.Close() }
}

// buildDeps wires the backend client, cache, services and theme
func buildDeps(ctx context.Context, cfg *config.Config, logger *log.Logger) (tui.Deps, func(), error) {
	client, err := backend.NewClient(backend.Options{
		BaseURL:       cfg.Backend.URL,
		APIToken:      cfg.Backend.APIToken,
		Timeout:       cfg.BackendTimeout(),
		FetchLimit:    cfg.Backend.FetchLimit,
		ClassifyLimit: cfg.Backend.ClassifyLimit,
		Logger:        logger,
	})
	if err != nil {
		return tui.Deps{}, nil, err
	}

	store, closeStore := openCacheStore(ctx, cfg, logger)

	colors, err := config.ResolveTheme(cfg.UI)
	if err != nil {
		logger.Printf("Warning: could not load theme %q: %v", cfg.UI.Theme, err)
		colors = config.DefaultColors()
	}

	alerter := alert.New(cfg.AlertDuration())
	deps := tui.Deps{
		Inbox:    services.NewInboxService(client, store, logger),
		Classify: services.NewClassifyService(client, store, alerter, logger),
		Sent:     services.NewSentService(client, logger),
		Respond:  services.NewRespondService(client, logger),
		Drafts:   services.NewDraftService(newLLMProvider(ctx, cfg, logger), cfg.ReplyPrompt(config.DefaultConfigDir()), logger),
		GmailWeb: services.NewGmailWebService(services.NewLinkService(), cfg.Backend.GmailAccount),
		Alerter:  alerter,
		Colors:   colors,
		Logger:   logger,
	}
	return deps, closeStore, nil
}

// openCacheStore returns the configured cache. A SQLite cache that cannot be
// opened falls back to memory.
func openCacheStore(ctx context.Context, cfg *config.Config, logger *log.Logger) (cache.Store, func()) {
	if cfg.Cache.Backend == "memory" {
		return cache.NewMemoryStore(), func() {}
	}
	path := expandPath(cfg.CachePath())
	st, err := db.Open(ctx, path)
	if err != nil {
		logger.Printf("Warning: could not open cache store %s: %v", path, err)
		return cache.NewMemoryStore(), func() {}
	}
	return db.NewCacheStore(st, cfg.Backend.URL), func() { _ = st.Close() }
}

// newLLMProvider returns nil when AI drafts are disabled or unavailable
func newLLMProvider(ctx context.Context, cfg *config.Config, logger *log.Logger) llm.Provider {
	if !cfg.LLM.Enabled || strings.TrimSpace(cfg.LLM.Model) == "" {
		return nil
	}
	region := cfg.LLM.Region
	if region == "" {
		region = os.Getenv("AWS_REGION")
	}
	provider, err := llm.NewProviderFromConfig(ctx, llm.ProviderConfig{
		Provider: cfg.LLM.Provider,
		Endpoint: cfg.LLM.Endpoint,
		Model:    cfg.LLM.Model,
		Region:   region,
		Timeout:  cfg.LLMTimeout(),
	})
	if err != nil {
		logger.Printf("Warning: could not initialize LLM provider (%s): %v", cfg.LLM.Provider, err)
		return nil
	}
	return provider
}

// expandPath expands ~ to the user's home directory
func expandPath(path string) string {
	if !strings.HasPrefix(path, "~") {
		return path
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}

	if path == "~" {
		return home
	}

	return filepath.Join(home, path[2:])
}

// runSetup writes a default configuration file unless one exists
func runSetup(configPath string, out io.Writer) error {
	if _, err := os.Stat(configPath); err == nil {
		fmt.Fprintf(out, "Configuration file already exists: %s\n", configPath)
		return nil
	}
	if err := config.DefaultConfig().SaveConfig(configPath); err != nil {
		return err
	}
	fmt.Fprintf(out, "Created configuration file: %s\n", configPath)
	fmt.Fprintf(out, "Edit backend.url to point at your triage API, then run %s\n", filepath.Base(os.Args[0]))
	return nil
}
