// Package installer runs the interactive first-run setup and writes the
// answers to the runtime .env file.
package installer

import (
	"errors"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sandevgo/aide/internal/service/ui"
)

var (
	titleStyle = ui.HeaderStyle
	itemStyle  = ui.ItemStyle
	selStyle   = ui.SelectedStyle
	errorStyle = ui.ErrorStyle
)

var ErrInterrupted = errors.New("setup interrupted")

// Step is one screen of the wizard. Update returns a nil Step once the
// step has written its answer to the state.
type Step interface {
	Init() tea.Cmd
	Update(msg tea.Msg, state *InstallState, width, height int) (Step, tea.Cmd)
	View(state *InstallState) string
}

// skipper is implemented by steps that only apply to some answers.
type skipper interface {
	Skip(state *InstallState) bool
}

func defaultSteps() []Step {
	return []Step{
		NewWeatherKeyStep(),
		NewNewsKeyStep(),
		NewNewsCountryStep(),
		NewCityStep(),
		NewChannelStep(),
		NewTelegramTokenStep(),
		NewTelegramOwnerStep(),
		NewFinalizationStep(),
		NewSaveEnvStep(),
	}
}

type errMsg error
type nextMsg struct{}

type model struct {
	steps    []Step
	current  int
	state    *InstallState
	quitting bool
	err      error
	width    int
	height   int
}

func newModel(steps []Step) model {
	m := model{steps: steps, state: NewInstallState()}
	m.current = m.firstPending(0)
	return m
}

// firstPending returns the index of the first step at or after i that is
// not skipped for the current answers.
func (m model) firstPending(i int) int {
	for ; i < len(m.steps); i++ {
		if s, ok := m.steps[i].(skipper); ok && s.Skip(m.state) {
			continue
		}
		break
	}
	return i
}

func (m model) done() bool {
	return m.current >= len(m.steps)
}

func (m model) Init() tea.Cmd {
	if m.done() {
		return tea.Quit
	}
	return m.steps[m.current].Init()
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
	case errMsg:
		m.err = msg
		return m, tea.Quit
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			m.quitting = true
			return m, tea.Quit
		}
	}

	if m.done() || m.err != nil {
		return m, nil
	}

	next, cmd := m.steps[m.current].Update(msg, m.state, m.width, m.height)
	if next != nil {
		m.steps[m.current] = next
		return m, cmd
	}

	m.current = m.firstPending(m.current + 1)
	if m.done() {
		return m, tea.Quit
	}
	return m, m.steps[m.current].Init()
}

func (m model) View() string {
	switch {
	case m.quitting:
		return "Setup cancelled.\n"
	case m.err != nil:
		return errorStyle.Render("Error: "+m.err.Error()) + "\n\n(press ctrl+c to quit)\n"
	case m.done():
		return "All set. Run `aide start` to launch.\n"
	}

	header := titleStyle.Render(fmt.Sprintf("Setting up Aide · step %d of %d", m.current+1, len(m.steps)))
	return header + "\n\n" + m.steps[m.current].View(m.state)
}

// RunWizard runs the setup screens and returns the collected answers.
func RunWizard() (*InstallState, error) {
	final, err := tea.NewProgram(newModel(defaultSteps()), tea.WithAltScreen()).Run()
	if err != nil {
		return nil, err
	}

	m := final.(model)
	switch {
	case m.quitting:
		return nil, ErrInterrupted
	case m.err != nil:
		return nil, m.err
	}
	return m.state, nil
}
