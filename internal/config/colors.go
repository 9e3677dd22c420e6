package config

import (
	"fmt"
	"strings"

	"github.com/derailed/tcell/v2"
)

// Color represents a color in the application
type Color string

const (
	// DefaultColor represents a default color
	DefaultColor Color = "default"

	// TransparentColor represents the terminal bg color
	TransparentColor Color = "-"
)

// NewColor returns a new color
func NewColor(c string) Color {
	return Color(c)
}

// String returns color as string
func (c Color) String() string {
	if c.isHex() {
		return string(c)
	}
	if c == DefaultColor || c == TransparentColor || c == "" {
		return "-"
	}
	col := c.Color().TrueColor().Hex()
	if col < 0 {
		return "-"
	}
	return fmt.Sprintf("#%06x", col)
}

func (c Color) isHex() bool {
	return len(c) == 7 && c[0] == '#'
}

// Color returns a view color
func (c Color) Color() tcell.Color {
	if c == DefaultColor || c == TransparentColor || c == "" {
		return tcell.ColorDefault
	}
	return tcell.GetColor(string(c)).TrueColor()
}

// FrameColors defines colors for borders and titles
type FrameColors struct {
	BorderColor Color `yaml:"borderColor"`
	FocusColor  Color `yaml:"focusColor"`
	TitleColor  Color `yaml:"titleColor"`
}

// TableColors defines colors for list tables
type TableColors struct {
	FgColor       Color `yaml:"fgColor"`
	BgColor       Color `yaml:"bgColor"`
	HeaderFgColor Color `yaml:"headerFgColor"`
	SelectedColor Color `yaml:"selectedColor"`
	ExpandedColor Color `yaml:"expandedColor"`
}

// BodyColors defines colors for body elements
type BodyColors struct {
	FgColor   Color `yaml:"fgColor"`
	BgColor   Color `yaml:"bgColor"`
	LogoColor Color `yaml:"logoColor"`
}

// StatusColors defines colors for the status bar
type StatusColors struct {
	InfoColor    Color `yaml:"infoColor"`
	SuccessColor Color `yaml:"successColor"`
	ErrorColor   Color `yaml:"errorColor"`
	LoadingColor Color `yaml:"loadingColor"`
}

// ColorsConfig defines the complete color configuration
type ColorsConfig struct {
	Body   BodyColors   `yaml:"body"`
	Frame  FrameColors  `yaml:"frame"`
	Table  TableColors  `yaml:"table"`
	Status StatusColors `yaml:"status"`
	// Categories maps a classification category (case-insensitive) to a color
	Categories map[string]Color `yaml:"categories"`
}

// CategoryColor returns the color for a category, or the table foreground
func (c *ColorsConfig) CategoryColor(category string) Color {
	if col, ok := c.Categories[strings.ToLower(strings.TrimSpace(category))]; ok {
		return col
	}
	return c.Table.FgColor
}

// DefaultColors returns the default color configuration
func DefaultColors() *ColorsConfig {
	return &ColorsConfig{
		Body: BodyColors{
			FgColor:   NewColor("#f8f8f2"),
			BgColor:   NewColor("#282a36"),
			LogoColor: NewColor("#bd93f9"),
		},
		Frame: FrameColors{
			BorderColor: NewColor("#44475a"),
			FocusColor:  NewColor("#6272a4"),
			TitleColor:  NewColor("#f8f8f2"),
		},
		Table: TableColors{
			FgColor:       NewColor("#f8f8f2"),
			BgColor:       NewColor("#282a36"),
			HeaderFgColor: NewColor("#50fa7b"),
			SelectedColor: NewColor("#44475a"),
			ExpandedColor: NewColor("#f1fa8c"),
		},
		Status: StatusColors{
			InfoColor:    NewColor("#8be9fd"),
			SuccessColor: NewColor("#50fa7b"),
			ErrorColor:   NewColor("#ff5555"),
			LoadingColor: NewColor("#ffb86c"),
		},
		Categories: map[string]Color{
			"urgent":   NewColor("#ff5555"),
			"work":     NewColor("#8be9fd"),
			"personal": NewColor("#50fa7b"),
			"finance":  NewColor("#f1fa8c"),
			"spam":     NewColor("#6272a4"),
		},
	}
}
