package installer

import (
	"fmt"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sandevgo/aide/internal/config"
	"github.com/sandevgo/aide/pkg/env"
)

// SaveEnvStep writes the answers to the runtime .env file.
type SaveEnvStep struct {
	dir string
}

func NewSaveEnvStep() Step {
	return &SaveEnvStep{dir: config.GetRuntimePath()}
}

func (s *SaveEnvStep) Init() tea.Cmd {
	return func() tea.Msg { return nextMsg{} }
}

func (s *SaveEnvStep) Update(msg tea.Msg, state *InstallState, _, _ int) (Step, tea.Cmd) {
	if _, ok := msg.(nextMsg); !ok {
		return s, nil
	}
	path, err := saveEnv(s.dir, state.Settings)
	if err != nil {
		return s, func() tea.Msg { return errMsg(err) }
	}
	state.EnvPath = path
	return nil, nil
}

func (s *SaveEnvStep) View(_ *InstallState) string {
	return "Writing " + filepath.Join(s.dir, ".env") + "...\n"
}

// saveEnv writes settings to dir/.env and refuses to overwrite an existing file.
func saveEnv(dir string, settings Settings) (string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create runtime directory: %w", err)
	}

	envPath := filepath.Join(dir, ".env")

	// Check if .env already exists
	if _, err := os.Stat(envPath); err == nil {
		return "", fmt.Errorf(".env file already exists at %s", envPath)
	}

	content, err := env.MarshalEnv(&settings)
	if err != nil {
		return "", fmt.Errorf("failed to encode settings: %w", err)
	}

	if err := os.WriteFile(envPath, []byte(content), 0600); err != nil {
		return "", err
	}
	return envPath, nil
}
