package main

import "github.com/charmbracelet/lipgloss"

type Style struct {
	Header   lipgloss.Style
	Sleeping lipgloss.Style
	Thinking lipgloss.Style
	Leaving  lipgloss.Style
	Line     lipgloss.Style
	Footer   lipgloss.Style
}

func DefaultStyles() *Style {
	return &Style{
		Header: lipgloss.NewStyle().Bold(true).Padding(0, 1),
		Sleeping: lipgloss.NewStyle().Padding(0, 1).Foreground(lipgloss.AdaptiveColor{
			Light: "#888888",
			Dark:  "#666666",
		}),
		Thinking: lipgloss.NewStyle().Padding(0, 1).Foreground(lipgloss.AdaptiveColor{
			Light: "#005F87",
			Dark:  "#5FAFD7",
		}),
		Leaving: lipgloss.NewStyle().Padding(0, 1).Foreground(lipgloss.AdaptiveColor{
			Light: "#87005F",
			Dark:  "#D75FAF",
		}),
		Line:   lipgloss.NewStyle().Padding(0, 2),
		Footer: lipgloss.NewStyle().Faint(true).Padding(0, 1),
	}
}
