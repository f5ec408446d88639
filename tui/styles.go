package tui

import "github.com/charmbracelet/lipgloss"

type styles struct {
	empty   lipgloss.Style
	head    lipgloss.Style
	body    lipgloss.Style
	food    lipgloss.Style
	board   lipgloss.Style
	title   lipgloss.Style
	score   lipgloss.Style
	overlay lipgloss.Style
	hint    lipgloss.Style
}

func defaultStyles() styles {
	return styles{
		empty:   lipgloss.NewStyle().Foreground(lipgloss.Color("236")),
		head:    lipgloss.NewStyle().Foreground(lipgloss.Color("46")).Bold(true),
		body:    lipgloss.NewStyle().Foreground(lipgloss.Color("34")),
		food:    lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true),
		board:   lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("240")),
		title:   lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("46")),
		score:   lipgloss.NewStyle().Foreground(lipgloss.Color("252")),
		overlay: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("230")).Background(lipgloss.Color("88")).Padding(0, 2),
		hint:    lipgloss.NewStyle().Faint(true),
	}
}
