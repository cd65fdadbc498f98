package ui

import (
	"fmt"

	"github.com/charmbracelet/huh"

	"github.com/waymirror/waymirror/internal/models"
)

// SelectCaptures presents the capture list for interactive narrowing and
// returns the chosen subset in index order. Duplicate (timestamp, original)
// rows from the index are labeled identically but selected independently.
func SelectCaptures(captures []models.Capture) ([]models.Capture, error) {
	options := make([]huh.Option[int], len(captures))
	for i, c := range captures {
		options[i] = huh.NewOption(c.Label(), i).Selected(true)
	}

	var picked []int
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewMultiSelect[int]().
				Title("Select snapshots to mirror").
				Description("Space toggles, enter confirms. All are selected by default.").
				Options(options...).
				Value(&picked),
		),
	).WithTheme(NewAppTheme())

	if err := form.Run(); err != nil {
		return nil, fmt.Errorf("snapshot selection cancelled: %w", err)
	}

	selected := make([]models.Capture, 0, len(picked))
	for _, i := range picked {
		selected = append(selected, captures[i])
	}
	return selected, nil
}

// ConfirmDownload asks for a go-ahead before the download queue starts.
func ConfirmDownload(count int, outputRoot string) (bool, error) {
	var confirm bool
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title(fmt.Sprintf("Mirror %d snapshot(s) into %s?", count, outputRoot)).
				Affirmative("Yes, download").
				Negative("Cancel").
				Value(&confirm),
		),
	).WithTheme(NewAppTheme())

	if err := form.Run(); err != nil {
		return false, err
	}
	return confirm, nil
}

// ConfirmDeploy asks before shelling out to the hosting CLI.
func ConfirmDeploy(dir string, prod bool) (bool, error) {
	title := fmt.Sprintf("Deploy %s as a draft?", dir)
	if prod {
		title = fmt.Sprintf("Deploy %s to production?", dir)
	}

	var confirm bool
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title(title).
				Affirmative("Deploy").
				Negative("Skip").
				Value(&confirm),
		),
	).WithTheme(NewAppTheme())

	if err := form.Run(); err != nil {
		return false, err
	}
	return confirm, nil
}
