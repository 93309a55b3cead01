package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// HelpRenderer handles help content rendering
type HelpRenderer struct{}

// NewHelpRenderer creates a new help renderer
func NewHelpRenderer() *HelpRenderer {
	return &HelpRenderer{}
}

// RenderHelpContent generates help content with colors for the pager
func (r *HelpRenderer) RenderHelpContent() string {
	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("99")).
		MarginBottom(1)

	sectionStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("39")).
		MarginTop(1)

	keyStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("220"))

	descStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("252"))

	var help strings.Builder

	help.WriteString(titleStyle.Render("Grepscope Help"))
	help.WriteString("\n")

	help.WriteString(sectionStyle.Render("Search Form"))
	help.WriteString("\n")
	help.WriteString(fmt.Sprintf("  %s    %s\n", keyStyle.Render("Tab/Shift+Tab"), descStyle.Render("Move between fields")))
	help.WriteString(fmt.Sprintf("  %s            %s\n", keyStyle.Render("Enter"), descStyle.Render("Start the search")))
	help.WriteString(fmt.Sprintf("  %s              %s\n", keyStyle.Render("Esc"), descStyle.Render("Cancel a running search")))
	help.WriteString(fmt.Sprintf("  %s           %s\n", keyStyle.Render("Ctrl+R"), descStyle.Render("Toggle regex matching")))
	help.WriteString(fmt.Sprintf("  %s           %s\n", keyStyle.Render("Ctrl+T"), descStyle.Render("Toggle case sensitivity")))
	help.WriteString(fmt.Sprintf("  %s           %s\n", keyStyle.Render("Ctrl+S"), descStyle.Render("Toggle subdirectory search")))
	help.WriteString("\n")

	help.WriteString(sectionStyle.Render("Results"))
	help.WriteString("\n")
	help.WriteString(fmt.Sprintf("  %s         %s\n", keyStyle.Render("↑/↓, j/k"), descStyle.Render("Move through results")))
	help.WriteString(fmt.Sprintf("  %s            %s\n", keyStyle.Render("Enter"), descStyle.Render("Open the selected file in the pager")))
	help.WriteString(fmt.Sprintf("  %s              %s\n", keyStyle.Render("1-5"), descStyle.Render("Recall a recent query")))
	help.WriteString("\n")

	help.WriteString(sectionStyle.Render("Other"))
	help.WriteString("\n")
	help.WriteString(fmt.Sprintf("  %s                %s\n", keyStyle.Render("?"), descStyle.Render("Show this help")))
	help.WriteString(fmt.Sprintf("  %s           %s", keyStyle.Render("Ctrl+C"), descStyle.Render("Quit")))

	return help.String()
}
