package installer

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
)

type option struct {
	label string
	value string
}

// choiceStep is a single-select list. apply receives the chosen value.
type choiceStep struct {
	prompt  string
	options []option
	cursor  int
	apply   func(state *InstallState, value string)
	skip    func(state *InstallState) bool
}

func NewChannelStep() Step {
	return &choiceStep{
		prompt: "Where should Aide talk to you?",
		options: []option{
			{label: "Telegram bot (reminders reach your phone)", value: channelTelegram},
			{label: "Terminal only", value: channelTerminal},
		},
		apply: func(state *InstallState, v string) { state.Channel = v },
	}
}

// NewNewsCountryStep picks the country used for headline requests.
func NewNewsCountryStep() Step {
	return &choiceStep{
		prompt: "Which country's headlines do you want?",
		options: []option{
			{label: "United States", value: "us"},
			{label: "United Kingdom", value: "gb"},
			{label: "Germany", value: "de"},
			{label: "France", value: "fr"},
			{label: "Canada", value: "ca"},
			{label: "Australia", value: "au"},
			{label: "India", value: "in"},
		},
		apply: func(state *InstallState, v string) {
			// us is the runtime default, so leave it out of .env
			if v == "us" {
				v = ""
			}
			state.Settings.NewsCountry = v
		},
		skip: func(state *InstallState) bool { return state.Settings.NewsAPIKey == "" },
	}
}

func (s *choiceStep) Skip(state *InstallState) bool {
	return s.skip != nil && s.skip(state)
}

func (s *choiceStep) Init() tea.Cmd {
	return nil
}

func (s *choiceStep) Update(msg tea.Msg, state *InstallState, _, _ int) (Step, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return s, nil
	}

	switch key.String() {
	case "up", "k":
		s.cursor = (s.cursor + len(s.options) - 1) % len(s.options)
	case "down", "j", "tab":
		s.cursor = (s.cursor + 1) % len(s.options)
	case "enter":
		s.apply(state, s.options[s.cursor].value)
		return nil, nil
	}
	return s, nil
}

func (s *choiceStep) View(_ *InstallState) string {
	var b strings.Builder
	b.WriteString(s.prompt + "\n\n")
	for i, o := range s.options {
		if i == s.cursor {
			b.WriteString(selStyle.Render("❯ "+o.label) + "\n")
			continue
		}
		b.WriteString(itemStyle.Render("  "+o.label) + "\n")
	}
	b.WriteString("\n↑/↓ to move, enter to select\n")
	return b.String()
}
