package ui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
)

// captureDoneMsg reports one finished capture to the progress model.
type captureDoneMsg struct {
	failed bool
}

// queueDrainedMsg tells the model the whole run finished.
type queueDrainedMsg struct{}

type downloadProgressModel struct {
	bar    progress.Model
	total  int
	done   int
	failed int
}

// RunWithProgress displays a progress bar while run executes. run receives a
// report callback to invoke once per completed capture; it is safe to call
// from concurrent goroutines. RunWithProgress returns whatever run returns,
// unless the progress program itself fails.
func RunWithProgress(total int, run func(report func(err error)) error) error {
	m := downloadProgressModel{
		bar:   progress.New(progress.WithDefaultGradient()),
		total: total,
	}
	p := tea.NewProgram(m)

	var runErr error
	go func() {
		runErr = run(func(err error) {
			p.Send(captureDoneMsg{failed: err != nil})
		})
		p.Send(queueDrainedMsg{})
	}()

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("progress program error: %w", err)
	}
	return runErr
}

func (m downloadProgressModel) Init() tea.Cmd {
	return nil
}

func (m downloadProgressModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case captureDoneMsg:
		m.done++
		if msg.failed {
			m.failed++
		}
		return m, m.bar.SetPercent(float64(m.done) / float64(m.total))

	case queueDrainedMsg:
		return m, tea.Quit

	case progress.FrameMsg:
		updated, cmd := m.bar.Update(msg)
		m.bar = updated.(progress.Model)
		return m, cmd

	case tea.WindowSizeMsg:
		m.bar.Width = msg.Width - 4
		return m, nil
	}
	return m, nil
}

func (m downloadProgressModel) View() string {
	status := fmt.Sprintf("%d/%d snapshots", m.done, m.total)
	if m.failed > 0 {
		status += fmt.Sprintf(" (%d failed)", m.failed)
	}
	return "\n  " + m.bar.View() + "\n  " + HintStyle.Render(status) + "\n"
}
