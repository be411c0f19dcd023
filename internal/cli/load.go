package cli

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/yaklabco/djtree/internal/configloader"
	"github.com/yaklabco/djtree/internal/logging"
	"github.com/yaklabco/djtree/pkg/config"
)

// stdinPath selects standard input as the document to read.
const stdinPath = "-"

// loadConfig layers the configuration files, the environment and cliCfg,
// and returns the result with the working directory used for discovery.
func loadConfig(cmd *cobra.Command, cliCfg *config.Config) (*config.Config, string, error) {
	logger := logging.FromContext(cmd.Context())

	configPath, err := cmd.Flags().GetString("config")
	if err != nil {
		return nil, "", fmt.Errorf("get config flag: %w", err)
	}
	colorMode, err := cmd.Flags().GetString("color")
	if err != nil {
		return nil, "", fmt.Errorf("get color flag: %w", err)
	}
	if cliCfg == nil {
		cliCfg = &config.Config{}
	}
	cliCfg.Color = colorMode

	workDir, err := os.Getwd()
	if err != nil {
		return nil, "", fmt.Errorf("get working directory: %w", err)
	}

	loadResult, err := configloader.Load(cmd.Context(), configloader.LoadOptions{
		WorkingDir:   workDir,
		ExplicitPath: configPath,
		CLIConfig:    cliCfg,
	})
	if err != nil {
		return nil, "", fmt.Errorf("%w: %w", ErrConfig, err)
	}

	for _, warning := range loadResult.Warnings {
		logger.Warn(warning)
	}
	if len(loadResult.LoadedFrom) > 0 {
		logger.Debug("loaded configuration", logging.FieldFiles, loadResult.LoadedFrom)
	}

	return loadResult.Config, workDir, nil
}

// readDocument reads path, or standard input when path is "-".
func readDocument(cmd *cobra.Command, path string) ([]byte, error) {
	if path == stdinPath {
		content, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return nil, fmt.Errorf("%w: read stdin: %w", ErrIO, err)
		}
		return content, nil
	}

	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrIO, err)
	}
	return content, nil
}

// documentName is the display and session name of path.
func documentName(path string) string {
	if path == stdinPath {
		return "<stdin>"
	}
	if abs, err := filepath.Abs(path); err == nil {
		return abs
	}
	return path
}

func commandLogger(cmd *cobra.Command) *log.Logger {
	return logging.FromContext(cmd.Context())
}
