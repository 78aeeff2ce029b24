package installer

import (
	"errors"
	"regexp"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

const defaultCity = "London"

var (
	apiKeyPattern   = regexp.MustCompile(`^[0-9a-fA-F]{32}$`)
	botTokenPattern = regexp.MustCompile(`^\d+:[\w-]{20,}$`)
)

// inputStep asks for one line of text. The answer is trimmed, validated
// and handed to apply on enter.
type inputStep struct {
	input    textinput.Model
	prompt   string
	err      error
	validate func(string) error
	apply    func(state *InstallState, value string)
	skip     func(state *InstallState) bool
}

type inputOption func(*inputStep)

func masked() inputOption {
	return func(s *inputStep) {
		s.input.EchoMode = textinput.EchoPassword
		s.input.EchoCharacter = '•'
	}
}

func placeholder(p string) inputOption {
	return func(s *inputStep) { s.input.Placeholder = p }
}

func validated(fn func(string) error) inputOption {
	return func(s *inputStep) { s.validate = fn }
}

func telegramOnly() inputOption {
	return func(s *inputStep) {
		s.skip = func(state *InstallState) bool { return state.Channel != channelTelegram }
	}
}

func newInputStep(prompt string, apply func(*InstallState, string), opts ...inputOption) *inputStep {
	ti := textinput.New()
	ti.Focus()
	ti.CharLimit = 128
	ti.Width = 48

	s := &inputStep{input: ti, prompt: prompt, apply: apply}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func NewWeatherKeyStep() Step {
	return newInputStep("OpenWeatherMap API key (leave empty for sample data):",
		func(state *InstallState, v string) { state.Settings.WeatherAPIKey = v },
		masked(), placeholder("32 hex characters"), validated(optionalAPIKey))
}

func NewNewsKeyStep() Step {
	return newInputStep("NewsAPI key (leave empty for sample data):",
		func(state *InstallState, v string) { state.Settings.NewsAPIKey = v },
		masked(), placeholder("32 hex characters"), validated(optionalAPIKey))
}

func NewCityStep() Step {
	return newInputStep("Which city should weather default to?",
		func(state *InstallState, v string) {
			if v == "" {
				v = defaultCity
			}
			state.Settings.DefaultCity = v
		},
		placeholder(defaultCity))
}

func NewTelegramTokenStep() Step {
	return newInputStep("Paste the bot token from @BotFather (empty to use the terminal instead):",
		func(state *InstallState, v string) { state.Settings.TelegramToken = v },
		masked(), placeholder("123456789:ABCDEF..."), telegramOnly(),
		validated(func(v string) error {
			if v != "" && !botTokenPattern.MatchString(v) {
				return errors.New("that does not look like a bot token")
			}
			return nil
		}))
}

func NewTelegramOwnerStep() Step {
	return newInputStep("Your numeric Telegram user ID (only this user may talk to the bot):",
		func(state *InstallState, v string) {
			state.Settings.TelegramOwnerID, _ = strconv.ParseInt(v, 10, 64)
		},
		placeholder("123456789"), telegramOnly(),
		validated(func(v string) error {
			if id, err := strconv.ParseInt(v, 10, 64); err != nil || id <= 0 {
				return errors.New("owner ID must be a positive number")
			}
			return nil
		}))
}

func optionalAPIKey(v string) error {
	if v != "" && !apiKeyPattern.MatchString(v) {
		return errors.New("API keys are 32 hexadecimal characters")
	}
	return nil
}

func (s *inputStep) Skip(state *InstallState) bool {
	return s.skip != nil && s.skip(state)
}

func (s *inputStep) Init() tea.Cmd {
	return textinput.Blink
}

func (s *inputStep) Update(msg tea.Msg, state *InstallState, _, _ int) (Step, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok && key.Type == tea.KeyEnter {
		value := strings.TrimSpace(s.input.Value())
		if s.validate != nil {
			if s.err = s.validate(value); s.err != nil {
				return s, nil
			}
		}
		s.apply(state, value)
		return nil, nil
	}

	var cmd tea.Cmd
	s.input, cmd = s.input.Update(msg)
	return s, cmd
}

func (s *inputStep) View(_ *InstallState) string {
	var b strings.Builder
	b.WriteString(s.prompt + "\n\n" + s.input.View() + "\n\n")
	if s.err != nil {
		b.WriteString(errorStyle.Render(s.err.Error()) + "\n\n")
	}
	b.WriteString("(enter to confirm)\n")
	return b.String()
}
