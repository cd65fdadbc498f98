package ui

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
)

// ShowSplash prints the startup banner.
func ShowSplash() {
	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(ColorAccent).
		Padding(0, 2).
		Bold(true).
		Foreground(ColorText)

	fmt.Println(box.Render("waymirror"))
	fmt.Println(HintStyle.Render(" mirror historical snapshots from the Wayback Machine"))
	fmt.Println()
}
