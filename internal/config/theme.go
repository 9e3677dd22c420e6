package config

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"gopkg.in/yaml.v3"
)

const themeSection = "gizTriage"

type themeFile struct {
	GizTriage *ColorsConfig `yaml:"gizTriage"`
}

// ThemeLoader handles loading and saving themes
type ThemeLoader struct {
	themesDir string
}

// NewThemeLoader creates a new theme loader
func NewThemeLoader(themesDir string) *ThemeLoader {
	return &ThemeLoader{
		themesDir: themesDir,
	}
}

// LoadThemeFromFile loads a theme from a YAML file. Missing colors fall
// back to DefaultColors.
func (tl *ThemeLoader) LoadThemeFromFile(filename string) (*ColorsConfig, error) {
	path := filepath.Join(tl.themesDir, filename)
	if !fileExists(path) {
		path = filename
		if !fileExists(path) {
			return nil, fmt.Errorf("theme file not found: %s", filename)
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read theme file: %w", err)
	}

	theme := themeFile{GizTriage: DefaultColors()}
	if err := yaml.Unmarshal(data, &theme); err != nil {
		return nil, fmt.Errorf("failed to parse theme file: %w", err)
	}

	if err := tl.ValidateTheme(theme.GizTriage); err != nil {
		return nil, err
	}
	return theme.GizTriage, nil
}

// ListAvailableThemes returns a sorted list of theme files
func (tl *ThemeLoader) ListAvailableThemes() ([]string, error) {
	var themes []string

	entries, err := os.ReadDir(tl.themesDir)
	if err != nil {
		return nil, fmt.Errorf("failed to read themes directory: %w", err)
	}

	for _, entry := range entries {
		ext := filepath.Ext(entry.Name())
		if !entry.IsDir() && (ext == ".yaml" || ext == ".yml") {
			themes = append(themes, entry.Name())
		}
	}
	sort.Strings(themes)

	return themes, nil
}

// SaveThemeToFile saves a theme configuration to a YAML file
func (tl *ThemeLoader) SaveThemeToFile(theme *ColorsConfig, filename string) error {
	if err := os.MkdirAll(tl.themesDir, 0755); err != nil {
		return fmt.Errorf("failed to create themes directory: %w", err)
	}

	data, err := yaml.Marshal(themeFile{GizTriage: theme})
	if err != nil {
		return fmt.Errorf("failed to marshal theme: %w", err)
	}

	if err := os.WriteFile(filepath.Join(tl.themesDir, filename), data, 0644); err != nil {
		return fmt.Errorf("failed to write theme file: %w", err)
	}

	return nil
}

// ValidateTheme checks that the colors the dashboard cannot do without are set
func (tl *ThemeLoader) ValidateTheme(theme *ColorsConfig) error {
	if theme == nil {
		return fmt.Errorf("invalid theme file: missing %s section", themeSection)
	}

	required := []struct {
		name  string
		value Color
	}{
		{"body.fgColor", theme.Body.FgColor},
		{"table.fgColor", theme.Table.FgColor},
		{"status.errorColor", theme.Status.ErrorColor},
	}
	for _, r := range required {
		if r.value == "" {
			return fmt.Errorf("theme is missing %s", r.name)
		}
	}
	return nil
}

// ResolveTheme loads the configured theme, or returns the defaults
func ResolveTheme(ui UIConfig) (*ColorsConfig, error) {
	if ui.Theme == "" {
		return DefaultColors(), nil
	}
	dir := ui.ThemeDir
	if dir == "" {
		dir = filepath.Join(DefaultConfigDir(), "themes")
	}
	return NewThemeLoader(dir).LoadThemeFromFile(ui.Theme)
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
