package ui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/glamour/ansi"
	"github.com/charmbracelet/glamour/styles"
	"github.com/charmbracelet/lipgloss"
)

// StyleTheme defines a color scheme for the TUI
type StyleTheme struct {
	Name          string
	Cyan          lipgloss.Color // Primary UI accent #00D9FF
	Purple        lipgloss.Color // Location/theme metadata #E6CCFF
	VibrantPurple lipgloss.Color // Errors and gradient accent #9F4DFF
	Green         lipgloss.Color // Active status, success #00FF88
	Red           lipgloss.Color // Inactive status #FF0066
	Orange        lipgloss.Color // Pending status, prices #FF8800
	Gray          lipgloss.Color // Muted text, unknown status #666666
	DarkGray      lipgloss.Color // Borders and backgrounds #333333
	White         lipgloss.Color // Main text #EEEEEE
}

// CleanCyberTheme is the default theme
var CleanCyberTheme = StyleTheme{
	Name:          "clean_cyber",
	Cyan:          lipgloss.Color("#00D9FF"),
	Purple:        lipgloss.Color("#E6CCFF"),
	VibrantPurple: lipgloss.Color("#9F4DFF"),
	Green:         lipgloss.Color("#00FF88"),
	Red:           lipgloss.Color("#FF0066"),
	Orange:        lipgloss.Color("#FF8800"),
	Gray:          lipgloss.Color("#666666"),
	DarkGray:      lipgloss.Color("#333333"),
	White:         lipgloss.Color("#EEEEEE"),
}

// MonokaiProTheme provides warm dark colors inspired by Monokai Pro
var MonokaiProTheme = StyleTheme{
	Name:          "monokai_pro",
	Cyan:          lipgloss.Color("#78DCE8"),
	Purple:        lipgloss.Color("#AB9DF2"),
	VibrantPurple: lipgloss.Color("#FF6188"),
	Green:         lipgloss.Color("#A9DC76"),
	Red:           lipgloss.Color("#FF6188"),
	Orange:        lipgloss.Color("#FC9867"),
	Gray:          lipgloss.Color("#727072"),
	DarkGray:      lipgloss.Color("#403E41"),
	White:         lipgloss.Color("#FCFCFA"),
}

// LightTheme provides a warm, natural color scheme distinct from cyber aesthetic
// Softer tones that still maintain readability on dark terminal backgrounds
var LightTheme = StyleTheme{
	Name:          "light",
	Cyan:          lipgloss.Color("#06B6D4"), // Soft cyan/turquoise (vs neon cyan)
	Purple:        lipgloss.Color("#8B5CF6"), // Deep violet (vs light lavender)
	VibrantPurple: lipgloss.Color("#EC4899"), // Rose pink accent (vs neon purple)
	Green:         lipgloss.Color("#22C55E"), // Grass green (vs electric green)
	Red:           lipgloss.Color("#F43F5E"), // Rose red (vs hot pink)
	Orange:        lipgloss.Color("#FB923C"), // Warm peach (vs bright orange)
	Gray:          lipgloss.Color("#64748B"), // Slate gray (vs neutral gray)
	DarkGray:      lipgloss.Color("#475569"), // Dark slate (vs charcoal)
	White:         lipgloss.Color("#F1F5F9"), // Slate white (vs stark white)
}

// AvailableThemes is a list of all available themes for cycling
var AvailableThemes = []StyleTheme{
	CleanCyberTheme,
	MonokaiProTheme,
	LightTheme,
}

// ThemeByName returns the theme with the given name, falling back to CleanCyberTheme
func ThemeByName(name string) StyleTheme {
	for _, theme := range AvailableThemes {
		if theme.Name == name {
			return theme
		}
	}
	return CleanCyberTheme
}

// NextTheme returns the theme after current in AvailableThemes, wrapping around
func NextTheme(current StyleTheme) StyleTheme {
	for i, theme := range AvailableThemes {
		if theme.Name == current.Name {
			return AvailableThemes[(i+1)%len(AvailableThemes)]
		}
	}
	return AvailableThemes[0]
}

func (t StyleTheme) BorderStyle() lipgloss.Style {
	return lipgloss.NewStyle().
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(t.DarkGray)
}

func (t StyleTheme) HeaderStyle() lipgloss.Style {
	return lipgloss.NewStyle().
		Background(t.DarkGray).
		Foreground(t.Cyan).
		Bold(true)
}

// StatusColor maps a status id to its badge color: active green, inactive red,
// pending orange, anything else gray.
func (t StyleTheme) StatusColor(statusID string) lipgloss.Color {
	switch strings.ToLower(statusID) {
	case "active":
		return t.Green
	case "inactive":
		return t.Red
	case "pending":
		return t.Orange
	default:
		return t.Gray
	}
}

// StatusBadgeStyle renders a status name as a colored pill
func (t StyleTheme) StatusBadgeStyle(statusID string) lipgloss.Style {
	return lipgloss.NewStyle().
		Foreground(t.StatusColor(statusID)).
		Bold(true)
}

func (t StyleTheme) TagStyle() lipgloss.Style {
	return lipgloss.NewStyle().
		Foreground(t.Purple)
}

func (t StyleTheme) SuccessStyle() lipgloss.Style {
	return lipgloss.NewStyle().
		Foreground(t.Green)
}

func (t StyleTheme) TextStyle() lipgloss.Style {
	return lipgloss.NewStyle().
		Foreground(t.White)
}

func (t StyleTheme) MutedStyle() lipgloss.Style {
	return lipgloss.NewStyle().
		Foreground(t.Gray)
}

func (t StyleTheme) ErrorStyle() lipgloss.Style {
	return lipgloss.NewStyle().
		Foreground(t.VibrantPurple).
		Bold(true)
}

func (t StyleTheme) DimmedStyle() lipgloss.Style {
	return lipgloss.NewStyle().
		Foreground(t.Gray).
		Faint(true)
}

func (t StyleTheme) SelectedStyle() lipgloss.Style {
	return lipgloss.NewStyle().
		Foreground(t.Cyan).
		Bold(true)
}

// ToGlamourStyle converts the theme into a glamour style for the item detail view
func (t StyleTheme) ToGlamourStyle() ansi.StyleConfig {
	style := styles.DraculaStyleConfig

	// The modal frame supplies its own margin
	style.Document.Margin = uintPtr(0)
	style.Document.StylePrimitive.Color = stringPtr(string(t.White))

	style.Heading.StylePrimitive.Color = stringPtr(string(t.Cyan))
	style.Heading.StylePrimitive.Bold = boolPtr(true)
	for _, h := range []*ansi.StyleBlock{&style.H1, &style.H2, &style.H3} {
		h.StylePrimitive.Color = stringPtr(string(t.Cyan))
		h.StylePrimitive.Bold = boolPtr(true)
		h.Prefix = "▸ "
		h.Suffix = ""
		h.Format = ""
	}

	style.Strong.Color = stringPtr(string(t.Purple))
	style.Emph.Color = stringPtr(string(t.Orange))
	style.Code.Color = stringPtr(string(t.Green))
	style.CodeBlock.StylePrimitive.Color = stringPtr(string(t.Green))
	style.Link.Color = stringPtr(string(t.Purple))
	style.LinkText.Color = stringPtr(string(t.Purple))

	style.List.LevelIndent = 2
	style.Item.BlockPrefix = "◆ "
	style.Item.Color = stringPtr(string(t.White))

	style.Table.StylePrimitive.Color = stringPtr(string(t.White))
	style.BlockQuote.StylePrimitive.Color = stringPtr(string(t.Gray))
	style.BlockQuote.StylePrimitive.Italic = boolPtr(true)

	return style
}

// Helper functions for creating pointers
func stringPtr(s string) *string { return &s }
func uintPtr(u uint) *uint       { return &u }
func boolPtr(b bool) *bool       { return &b }

// RenderWithGradientBackground renders text with a gradient background
func RenderWithGradientBackground(text string, width int, startColor, endColor string) string {
	// Ensure text is exactly the width specified
	var paddedText string
	textRunes := []rune(text)
	if len(textRunes) < width {
		// Pad with spaces to reach full width
		paddedText = string(textRunes) + strings.Repeat(" ", width-len(textRunes))
	} else {
		// Truncate if too long
		paddedText = string(textRunes[:width])
	}

	// Split into characters for individual background colors
	runes := []rune(paddedText)
	var result strings.Builder

	for i, r := range runes {
		// Calculate position along gradient (0.0 to 1.0)
		position := float64(i) / float64(max(width-1, 1))

		// Interpolate background color at this position
		bgColor := InterpolateColor(startColor, endColor, position)

		// Apply gradient background with white/bright foreground for readability
		style := lipgloss.NewStyle().
			Background(lipgloss.Color(bgColor)).
			Foreground(lipgloss.Color("#FFFFFF")).
			Bold(true)

		result.WriteString(style.Render(string(r)))
	}

	return result.String()
}

// InterpolateColor interpolates between two hex colors at the given position
func InterpolateColor(startColor, endColor string, position float64) string {
	// Parse start color
	startR, startG, startB, err := parseHexColor(startColor)
	if err != nil {
		return startColor // Fallback to start color
	}

	// Parse end color
	endR, endG, endB, err := parseHexColor(endColor)
	if err != nil {
		return startColor // Fallback to start color
	}

	// Clamp position to valid range
	if position < 0 {
		position = 0
	}
	if position > 1 {
		position = 1
	}

	// Interpolate RGB values
	r := int(float64(startR) + (float64(endR-startR) * position))
	g := int(float64(startG) + (float64(endG-startG) * position))
	b := int(float64(startB) + (float64(endB-startB) * position))

	// Convert back to hex
	return fmt.Sprintf("#%02X%02X%02X", r, g, b)
}

// parseHexColor parses a hex color string into RGB values
func parseHexColor(hexColor string) (int, int, int, error) {
	// Remove # prefix if present
	if strings.HasPrefix(hexColor, "#") {
		hexColor = hexColor[1:]
	}

	// Must be 6 characters for RGB
	if len(hexColor) != 6 {
		return 0, 0, 0, fmt.Errorf("invalid hex color format")
	}

	// Parse RGB components
	r, err := strconv.ParseInt(hexColor[0:2], 16, 0)
	if err != nil {
		return 0, 0, 0, fmt.Errorf("invalid red component: %w", err)
	}

	g, err := strconv.ParseInt(hexColor[2:4], 16, 0)
	if err != nil {
		return 0, 0, 0, fmt.Errorf("invalid green component: %w", err)
	}

	b, err := strconv.ParseInt(hexColor[4:6], 16, 0)
	if err != nil {
		return 0, 0, 0, fmt.Errorf("invalid blue component: %w", err)
	}

	return int(r), int(g), int(b), nil
}

// RenderGradientText renders text with a gradient from startColor to endColor
func RenderGradientText(text string, startColor, endColor string) string {
	if text == "" {
		return ""
	}

	runes := []rune(text)
	if len(runes) == 1 {
		// Single character - use start color
		style := lipgloss.NewStyle().Foreground(lipgloss.Color(startColor))
		return style.Render(text)
	}

	var result strings.Builder
	for i, r := range runes {
		// Calculate position along gradient (0.0 to 1.0)
		position := float64(i) / float64(len(runes)-1)

		// Interpolate color at this position
		color := InterpolateColor(startColor, endColor, position)

		// Apply color to this character
		style := lipgloss.NewStyle().Foreground(lipgloss.Color(color))
		result.WriteString(style.Render(string(r)))
	}

	return result.String()
}
