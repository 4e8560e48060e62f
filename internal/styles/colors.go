package styles

import "github.com/charmbracelet/lipgloss"

// Monokai Pro color palette, matching the default highlight style
const (
	Background = "#2D2A2E"
	Foreground = "#FCFCFA"

	Red     = "#FF6188" // Errors, removed pages
	Orange  = "#FC9867" // Warnings, collisions
	Yellow  = "#FFD866" // Highlights, fuzzy matches
	Green   = "#A9DC76" // Success, new sources
	Cyan    = "#78DCE8" // Dates, changed sources
	Purple  = "#AB9DF2" // Tags
	Magenta = "#FF6188" // Titles

	Comment = "#727072" // Dim text, help
	Border  = "#5B595C" // Borders, separators
)

var (
	SuccessStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color(Green))
	ErrorStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color(Red))
	WarningStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color(Orange))
	InfoStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color(Cyan))
	DimStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color(Comment))
	TitleStyle     = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(Magenta))
	HighlightStyle = lipgloss.NewStyle().Foreground(lipgloss.Color(Yellow)).Bold(true)
	TagStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color(Purple))
	SpinnerStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color(Magenta))
	HelpStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color(Comment))
	LabelStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color(Comment))
	ValueStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color(Foreground))

	TableStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color(Border))

	TableHeaderStyle = lipgloss.NewStyle().
				BorderStyle(lipgloss.NormalBorder()).
				BorderForeground(lipgloss.Color(Border)).
				BorderBottom(true).
				Bold(true).
				Foreground(lipgloss.Color(Magenta))

	SelectedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color(Background)).
			Background(lipgloss.Color(Yellow))

	ViewportStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color(Border)).
			Padding(1)
)
