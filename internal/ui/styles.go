package ui

import "github.com/charmbracelet/lipgloss"

var (
	cyan   = lipgloss.Color("51")
	purple = lipgloss.Color("141")
	pink   = lipgloss.Color("213")
	dim    = lipgloss.Color("242")
	light  = lipgloss.Color("252")

	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(cyan).
			Padding(0, 1)

	subtitleStyle = lipgloss.NewStyle().
			Foreground(purple)

	headerStyle = lipgloss.NewStyle().
			Background(lipgloss.Color("236")).
			Foreground(light)

	botLabelStyle = lipgloss.NewStyle().
			Foreground(cyan).
			Bold(true)

	botBubbleStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("31")).
			Padding(0, 1)

	userBubbleStyle = lipgloss.NewStyle().
			Background(lipgloss.Color("55")).
			Foreground(lipgloss.Color("255")).
			Padding(0, 1)

	selectedBorder = lipgloss.Color("213")

	sourcesLabelStyle = lipgloss.NewStyle().
				Foreground(cyan)

	sourceTagStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("159")).
			Background(lipgloss.Color("237")).
			Padding(0, 1)

	timestampStyle = lipgloss.NewStyle().
			Foreground(dim)

	actionStyle = lipgloss.NewStyle().
			Foreground(dim)

	positiveStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("42")).
			Bold(true)

	negativeStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("203")).
			Bold(true)

	copiedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("255")).
			Background(purple).
			Padding(0, 1)

	typingStyle = lipgloss.NewStyle().
			Foreground(dim).
			Italic(true)

	chipStyle = lipgloss.NewStyle().
			Foreground(light).
			Background(lipgloss.Color("238")).
			Padding(0, 1)

	chipKeyStyle = lipgloss.NewStyle().
			Foreground(pink)

	attachmentStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("159"))

	statusStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("214"))

	launcherStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("255")).
			Background(lipgloss.Color("55")).
			Padding(0, 2)

	suggestionStyle = lipgloss.NewStyle().
			Foreground(dim).
			PaddingLeft(2)
)
