package main

import "github.com/charmbracelet/lipgloss"

var (
	accent      = lipgloss.Color("#8BC34A")
	muted       = lipgloss.Color("#6B7280")
	warning     = lipgloss.Color("#FFC107")
	destructive = lipgloss.Color("#e53935")
)

type styles struct {
	Title    lipgloss.Style
	Label    lipgloss.Style
	Focused  lipgloss.Style
	Blurred  lipgloss.Style
	Button   lipgloss.Style
	ButtonOn lipgloss.Style
	Help     lipgloss.Style
	Panel    lipgloss.Style
	Notice   lipgloss.Style
	NoticeT  lipgloss.Style
	Error    lipgloss.Style
}

func defaultStyles() styles {
	return styles{
		Title:    lipgloss.NewStyle().Bold(true).Foreground(accent).MarginBottom(1),
		Label:    lipgloss.NewStyle().Width(6).Align(lipgloss.Right),
		Focused:  lipgloss.NewStyle().Foreground(accent),
		Blurred:  lipgloss.NewStyle().Foreground(muted),
		Button:   lipgloss.NewStyle().Padding(0, 2).Foreground(muted),
		ButtonOn: lipgloss.NewStyle().Padding(0, 2).Bold(true).Reverse(true).Foreground(accent),
		Help:     lipgloss.NewStyle().Foreground(muted).MarginTop(1),
		Panel:    lipgloss.NewStyle().Padding(1, 2),
		Notice:   lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(warning).Padding(0, 2),
		NoticeT:  lipgloss.NewStyle().Bold(true).Foreground(warning),
		Error:    lipgloss.NewStyle().Foreground(destructive),
	}
}
