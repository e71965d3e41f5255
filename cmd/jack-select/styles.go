package main

import "github.com/charmbracelet/lipgloss"

// Centralized style definitions for the menu.
var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("6")) // cyan

	// Preset list styles.
	cursorStyle      = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("5"))
	unavailableStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("8")).Faint(true)
	defaultMarkStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("3"))

	// Status line styles.
	startedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("2")) // green
	stoppedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("8")) // gray
	noticeStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("4")) // blue
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("1")) // red

	spinnerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("5")) // magenta

	dimStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("8")) // gray/dim
)
