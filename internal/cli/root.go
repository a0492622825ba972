// Package cli implements the chef command: the web server, the terminal UI
// and one-shot recipe generation.
package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pageza/pantrychef/config"
	"github.com/pageza/pantrychef/internal/app"
)

var (
	configPath string
	useMock    bool
)

var rootCmd = &cobra.Command{
	Use:   "chef",
	Short: "Turn the ingredients you have into a recipe",
	Long: `PantryChef asks Gemini for a recipe built from the ingredients you have,
then lets you ask follow-up questions about it.

Run "chef serve" for the web page, "chef tui" for the terminal UI or
"chef generate" to print a single recipe.`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, _ []string) {
		if configPath != "" {
			os.Setenv("PANTRYCHEF_CONFIG", configPath)
		}
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "path to a TOML config file")
	rootCmd.PersistentFlags().BoolVar(&useMock, "mock", false, "use the offline mock generator instead of Gemini")
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func loadConfig() (*config.Config, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, err
	}
	if useMock {
		cfg.UseMockLLM = true
	}
	return cfg, nil
}

// newApp resolves the API key and builds the application. When interactive
// is set and no key is in the environment, the user is asked for one.
func newApp(ctx context.Context, cmd *cobra.Command, cfg *config.Config, interactive bool) (*app.App, error) {
	var apiKey string
	if !cfg.UseMockLLM {
		var err error
		if interactive {
			prompter := config.NewTerminalPrompter()
			prompter.Out = cmd.ErrOrStderr()
			apiKey, err = prompter.PromptAPIKey(os.Getenv)
		} else {
			apiKey, err = config.ResolveAPIKey(os.Getenv)
		}
		if err != nil {
			return nil, err
		}
	}

	a, err := app.New(ctx, cfg, apiKey)
	if err != nil {
		return nil, fmt.Errorf("failed to start: %w", err)
	}
	return a, nil
}
