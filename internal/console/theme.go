// Package console implements Parley's interactive terminal UI: a tabbed
// shell over the conversations list, the conversation viewer, and the
// provider/personality managers.
package console

import (
	"github.com/charmbracelet/lipgloss"
)

// Theme holds the color scheme for the console.
type Theme struct {
	Accent  lipgloss.Color
	Success lipgloss.Color
	Warning lipgloss.Color
	Error   lipgloss.Color
	Hint    lipgloss.Color
	UserBg  lipgloss.Color
}

// defaultTheme provides default colors.
var defaultTheme = Theme{
	Accent:  lipgloss.Color("#5FAFD7"), // light blue
	Success: lipgloss.Color("#00D787"), // green
	Warning: lipgloss.Color("#FFAF00"), // amber
	Error:   lipgloss.Color("#FF005F"), // red
	Hint:    lipgloss.Color("#6C6C6C"), // dim gray
	UserBg:  lipgloss.Color("#1C4587"), // user bubble blue
}

func (t Theme) titleStyle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(t.Accent).Bold(true)
}

func (t Theme) activeTabStyle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(t.Accent).Bold(true).Underline(true)
}

func (t Theme) tabStyle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(t.Hint)
}

func (t Theme) selectedStyle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(t.Accent).Bold(true)
}

func (t Theme) successStyle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(t.Success)
}

func (t Theme) warningStyle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(t.Warning)
}

func (t Theme) errorStyle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(t.Error).Bold(true)
}

func (t Theme) hintStyle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(t.Hint).Italic(true)
}

// userBubbleStyle renders human messages, right-aligned by the viewer.
func (t Theme) userBubbleStyle() lipgloss.Style {
	return lipgloss.NewStyle().
		Background(t.UserBg).
		Foreground(lipgloss.Color("#FFFFFF")).
		Padding(0, 1)
}

// aiBubbleStyle renders an AI message in the personality's theme color.
func (t Theme) aiBubbleStyle(colorTheme string) lipgloss.Style {
	border := lipgloss.NormalBorder()
	return lipgloss.NewStyle().
		Border(border, false, false, false, true).
		BorderForeground(lipgloss.Color(colorTheme)).
		Padding(0, 1)
}

// swatchStyle renders a personality color marker.
func (t Theme) swatchStyle(colorTheme string) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(lipgloss.Color(colorTheme)).Bold(true)
}
