package ui

import "github.com/charmbracelet/lipgloss"

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("10")).
			Padding(0, 1)
	statusBarStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	errorStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true)
	infoStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	helpStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	selectedStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("212")).Bold(true)
	frameStyle     = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("62")).
			Padding(0, 1)

	userLabelStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("12")).Bold(true)
	assistantLabelStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("10")).Bold(true)
	bubbleStyle         = lipgloss.NewStyle().Foreground(lipgloss.Color("231")).Padding(0, 1)
	footerStyle         = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)
