package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
	"github.com/sandevgo/aide/internal/config"
	"github.com/sandevgo/aide/internal/service/installer"
	"github.com/sandevgo/aide/pkg/log"
	"github.com/spf13/cobra"
)

var installForce bool

var installCmd = &cobra.Command{
	Use:          "install",
	Short:        "Configure Aide interactively",
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, flushLog := setupLogger(cmd.Context())
		defer flushLog()
		logger := log.FromCtx(ctx)

		envPath := filepath.Join(config.GetRuntimePath(), ".env")
		backup, err := prepareEnvPath(envPath, installForce, time.Now())
		if err != nil {
			return err
		}
		if backup != "" {
			logger.Info().Str("backup", backup).Msg("previous configuration moved aside")
		}

		state, err := installer.RunWizard()
		if err != nil {
			return err
		}

		if err := godotenv.Load(state.EnvPath); err != nil {
			logger.Warn().Err(err).Str("path", state.EnvPath).Msg("failed to load new .env file")
		}

		logger.Info().
			Str("path", state.EnvPath).
			Str("channel", state.Channel).
			Bool("demo", state.Settings.DemoMode).
			Msg("configuration written, run 'aide start' to launch")
		return nil
	},
}

// prepareEnvPath makes sure the wizard can write envPath. An existing file
// is an error unless force is set, in which case it is renamed with a
// timestamp suffix and the new name returned.
func prepareEnvPath(envPath string, force bool, now time.Time) (string, error) {
	_, err := os.Stat(envPath)
	switch {
	case errors.Is(err, os.ErrNotExist):
		return "", nil
	case err != nil:
		return "", fmt.Errorf("failed to inspect %s: %w", envPath, err)
	case !force:
		return "", fmt.Errorf("%s already exists, rerun with --force to replace it", envPath)
	}

	backup := envPath + "." + now.Format("20060102-150405") + ".bak"
	if err := os.Rename(envPath, backup); err != nil {
		return "", fmt.Errorf("failed to back up %s: %w", envPath, err)
	}
	return backup, nil
}

func init() {
	installCmd.Flags().BoolVar(&installForce, "force", false, "back up and replace an existing .env")
	rootCmd.AddCommand(installCmd)
}
