package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/pageza/pantrychef/internal/service"
)

// Theme defines the colour palette for the terminal UI.
type Theme struct {
	Primary lipgloss.Color
	Accent  lipgloss.Color
	Muted   lipgloss.Color
	Info    lipgloss.Color
	Warning lipgloss.Color
	Error   lipgloss.Color
	Border  lipgloss.Color
}

// DefaultTheme returns the default colour theme.
func DefaultTheme() *Theme {
	return &Theme{
		Primary: lipgloss.Color("#E8743B"), // Paprika
		Accent:  lipgloss.Color("#7FB069"), // Basil
		Muted:   lipgloss.Color("#6C7086"),
		Info:    lipgloss.Color("#89B4FA"),
		Warning: lipgloss.Color("#F9E2AF"),
		Error:   lipgloss.Color("#F38BA8"),
		Border:  lipgloss.Color("#45475A"),
	}
}

// Styles contains pre-configured lipgloss styles.
type Styles struct {
	Title    lipgloss.Style
	Label    lipgloss.Style
	Muted    lipgloss.Style
	Question lipgloss.Style
	Content  lipgloss.Style
	Help     lipgloss.Style
	Info     lipgloss.Style
	Warning  lipgloss.Style
	Error    lipgloss.Style
}

// NewStyles builds styles from a theme.
func NewStyles(t *Theme) *Styles {
	return &Styles{
		Title:    lipgloss.NewStyle().Bold(true).Foreground(t.Primary),
		Label:    lipgloss.NewStyle().Bold(true),
		Muted:    lipgloss.NewStyle().Foreground(t.Muted),
		Question: lipgloss.NewStyle().Bold(true).Foreground(t.Accent),
		Content:  lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(t.Border).Padding(0, 1),
		Help:     lipgloss.NewStyle().Foreground(t.Muted),
		Info:     lipgloss.NewStyle().Foreground(t.Info),
		Warning:  lipgloss.NewStyle().Foreground(t.Warning),
		Error:    lipgloss.NewStyle().Foreground(t.Error),
	}
}

// DefaultStyles returns styles for the default theme.
func DefaultStyles() *Styles {
	return NewStyles(DefaultTheme())
}

// Notice renders a notice in the colour of its kind.
func (s *Styles) Notice(n service.Notice) string {
	switch n.Kind {
	case service.NoticeWarning:
		return s.Warning.Render(n.Text)
	case service.NoticeError:
		return s.Error.Render(n.Text)
	default:
		return s.Info.Render(n.Text)
	}
}
