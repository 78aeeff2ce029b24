package installer

import (
	tea "github.com/charmbracelet/bubbletea"
)

// FinalizationStep computes derived values from the collected answers
type FinalizationStep struct{}

func NewFinalizationStep() Step {
	return &FinalizationStep{}
}

func (s *FinalizationStep) Init() tea.Cmd {
	return func() tea.Msg { return nextMsg{} }
}

func (s *FinalizationStep) Update(msg tea.Msg, state *InstallState, width, height int) (Step, tea.Cmd) {
	finalize(state)

	// Signal completion
	return nil, nil
}

func (s *FinalizationStep) View(state *InstallState) string {
	return "Finalizing configuration...\n"
}

func finalize(state *InstallState) {
	set := &state.Settings

	telegram := state.Channel == channelTelegram && set.TelegramToken != ""
	cli := !telegram
	set.EnableTelegram = &telegram
	set.EnableCLI = &cli

	if !telegram {
		set.TelegramToken = ""
		set.TelegramOwnerID = 0
	}

	// Without keys every lookup would fail; answer with sample data instead.
	set.DemoMode = set.WeatherAPIKey == "" && set.NewsAPIKey == ""
}
