package views

import (
	"github.com/charmbracelet/lipgloss"
)

// Styles contains all the style definitions for the UI
type Styles struct {
	Title         lipgloss.Style
	Label         lipgloss.Style
	LabelFocused  lipgloss.Style
	Dim           lipgloss.Style
	Status        lipgloss.Style
	StatusError   lipgloss.Style
	StatusSuccess lipgloss.Style
	StatusWarning lipgloss.Style
	Help          lipgloss.Style
	Main          lipgloss.Style
	FilePath      lipgloss.Style
	LineNum       lipgloss.Style
	Context       lipgloss.Style
	Highlight     lipgloss.Style
	SelectionBg   lipgloss.Style
	Recent        lipgloss.Style
	RecentKey     lipgloss.Style
	Toggle        lipgloss.Style
	ToggleOn      lipgloss.Style
}

// NewStyles creates a new Styles instance with default values
func NewStyles() *Styles {
	return &Styles{
		Title: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("99")).
			MarginBottom(1),
		Label:        lipgloss.NewStyle().Foreground(lipgloss.Color("252")),
		LabelFocused: lipgloss.NewStyle().Foreground(lipgloss.Color("214")).Bold(true),
		Dim:          lipgloss.NewStyle().Faint(true),
		Status: lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")).
			MarginTop(1),
		StatusError:   lipgloss.NewStyle().Foreground(lipgloss.Color("203")), // red
		StatusSuccess: lipgloss.NewStyle().Foreground(lipgloss.Color("78")),  // green
		StatusWarning: lipgloss.NewStyle().Foreground(lipgloss.Color("214")), // yellow
		Help:          lipgloss.NewStyle().Faint(true),
		Main: lipgloss.NewStyle().
			Padding(1, 2),
		FilePath:    lipgloss.NewStyle().Foreground(lipgloss.Color("39")),
		LineNum:     lipgloss.NewStyle().Foreground(lipgloss.Color("241")),
		Context:     lipgloss.NewStyle().Faint(true),
		Highlight:   lipgloss.NewStyle().Foreground(lipgloss.Color("226")).Bold(true),
		SelectionBg: lipgloss.NewStyle().Background(lipgloss.Color("238")),
		Recent:      lipgloss.NewStyle().Foreground(lipgloss.Color("252")),
		RecentKey:   lipgloss.NewStyle().Foreground(lipgloss.Color("220")),
		Toggle:      lipgloss.NewStyle().Faint(true),
		ToggleOn:    lipgloss.NewStyle().Foreground(lipgloss.Color("78")),
	}
}
