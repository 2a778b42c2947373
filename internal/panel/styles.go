package panel

import "github.com/charmbracelet/lipgloss"

var (
	primaryColor   = lipgloss.Color("#344955")
	secondaryColor = lipgloss.Color("#7a869a")
	successColor   = lipgloss.Color("#4caf50")
	dangerColor    = lipgloss.Color("#d9534f")
	infoColor      = lipgloss.Color("#0000ff")
	errorColor     = lipgloss.Color("#ff0000")
	completeColor  = lipgloss.Color("#008000")

	titleStyle = lipgloss.NewStyle().
			Foreground(primaryColor).
			Bold(true)

	instructionStyle = lipgloss.NewStyle().
				Foreground(secondaryColor)

	labelStyle = lipgloss.NewStyle().
			Foreground(primaryColor).
			Bold(true)

	cursorStyle = lipgloss.NewStyle().
			Foreground(successColor).
			Bold(true)

	selectedStyle = lipgloss.NewStyle().
			Foreground(primaryColor).
			Underline(true)

	textBoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(secondaryColor).
			Padding(0, 1)

	failedTextStyle = lipgloss.NewStyle().
			Foreground(dangerColor)

	statusStyles = map[statusKind]lipgloss.Style{
		statusPlain:   lipgloss.NewStyle().Foreground(secondaryColor),
		statusInfo:    lipgloss.NewStyle().Foreground(infoColor),
		statusError:   lipgloss.NewStyle().Foreground(errorColor),
		statusSuccess: lipgloss.NewStyle().Foreground(completeColor),
	}

	soundwaveStyle = lipgloss.NewStyle().
			Foreground(successColor).
			Bold(true)

	modalStyle = lipgloss.NewStyle().
			Border(lipgloss.DoubleBorder()).
			BorderForeground(dangerColor).
			Padding(1, 2)

	modalTitleStyle = lipgloss.NewStyle().
			Foreground(dangerColor).
			Bold(true)

	helpStyle = lipgloss.NewStyle().
			Foreground(secondaryColor).
			Italic(true)
)
