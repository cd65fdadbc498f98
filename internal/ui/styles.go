package ui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
)

// Color palette - centralized color definitions
var (
	ColorAccent  = lipgloss.Color("39")  // blue
	ColorText    = lipgloss.Color("15")  // bright white
	ColorTextDim = lipgloss.Color("241") // gray
	ColorError   = lipgloss.Color("196") // red
	ColorOK      = lipgloss.Color("42")  // green
)

var (
	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorText)

	NormalStyle = lipgloss.NewStyle().
			Foreground(ColorText)

	HintStyle = lipgloss.NewStyle().
			Foreground(ColorTextDim).
			Italic(true)

	errorStyle = lipgloss.NewStyle().
			Foreground(ColorError).
			Bold(true)

	successStyle = lipgloss.NewStyle().
			Foreground(ColorOK).
			Bold(true)
)

// PrintError writes a styled error line to stdout.
func PrintError(msg string) {
	fmt.Println(errorStyle.Render("✗ " + msg))
}

// PrintSuccess writes a styled success line to stdout.
func PrintSuccess(msg string) {
	fmt.Println(successStyle.Render("✓ " + msg))
}

// RenderNormal renders text in the standard foreground.
func RenderNormal(s string) string {
	return NormalStyle.Render(s)
}

// NewAppSpinner returns the spinner used across the app.
func NewAppSpinner() spinner.Model {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(ColorAccent)
	return s
}

// NewAppTheme creates a huh theme matching the app's palette.
func NewAppTheme() *huh.Theme {
	t := huh.ThemeBase()

	t.Focused.Title = lipgloss.NewStyle().
		Foreground(ColorText).
		Bold(true)
	t.Blurred.Title = t.Focused.Title

	t.Focused.Description = lipgloss.NewStyle().
		Foreground(ColorTextDim)
	t.Blurred.Description = t.Focused.Description

	t.Focused.SelectedOption = lipgloss.NewStyle().
		Foreground(ColorText).
		Background(ColorAccent).
		Bold(true).
		Padding(0, 1)

	t.Focused.UnselectedOption = lipgloss.NewStyle().
		Foreground(ColorText).
		Padding(0, 1)

	return t
}
