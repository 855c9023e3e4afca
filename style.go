package main

import "github.com/charmbracelet/lipgloss"

// Style definitions.
var (
	mintGreen = lipgloss.AdaptiveColor{Light: "#89F0CB", Dark: "#89F0CB"}
	darkGreen = lipgloss.AdaptiveColor{Light: "#1C8760", Dark: "#1C8760"}

	keyword = func(s string) string {
		return lipgloss.NewStyle().
			Foreground(mintGreen).
			Background(darkGreen).
			Bold(true).
			Render(s)
	}

	paragraph = func(s string) string {
		return lipgloss.NewStyle().
			Width(78).
			Padding(0, 0, 0, 2).
			Render(s)
	}
)
