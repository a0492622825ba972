package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pageza/pantrychef/config"
	"github.com/pageza/pantrychef/internal/observability"
)

var (
	generateNoFlame bool
	generateOut     string
)

var generateCmd = &cobra.Command{
	Use:   "generate [ingredients...]",
	Short: "Generate one recipe and print it",
	Long: `Generate a single recipe from the given ingredients and print it.

  chef generate chicken, rice, onions
  chef generate --no-flame tomatoes basil mozzarella --out recipe.md
  chef generate eggs spinach --out ./recipes`,
	Args: cobra.MinimumNArgs(1),
	RunE: runGenerate,
}

func init() {
	generateCmd.Flags().BoolVar(&generateNoFlame, "no-flame", false, "only recipes that need no fire or gas")
	generateCmd.Flags().StringVarP(&generateOut, "out", "o", "", "also save the recipe to this file, or as recipe.md inside this directory")
	rootCmd.AddCommand(generateCmd)
}

func runGenerate(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	// one-shot sessions never outlive the process
	cfg.SessionBackend = config.SessionBackendMemory

	level := "warn"
	if os.Getenv("LOG_LEVEL") != "" {
		level = cfg.LogLevel
	}
	observability.Setup(cmd.ErrOrStderr(), level)

	ctx := cmd.Context()
	a, err := newApp(ctx, cmd, cfg, true)
	if err != nil {
		return err
	}
	defer a.Close()

	id := a.Tokens.NewSessionID()
	s, err := a.Controller.GenerateRecipe(ctx, id, strings.Join(args, " "), generateNoFlame)
	if err != nil {
		return err
	}

	fmt.Fprintln(cmd.OutOrStdout(), s.State.Recipe)

	if generateOut == "" {
		return nil
	}
	export, err := a.Controller.ExportRecipe(ctx, id)
	if err != nil {
		return err
	}
	path := exportPath(generateOut, export.Filename)
	if err := os.WriteFile(path, export.Data, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	fmt.Fprintf(cmd.ErrOrStderr(), "Saved recipe to %s\n", path)
	return nil
}

// exportPath writes into out when it is an existing directory, otherwise to out itself
func exportPath(out, filename string) string {
	if info, err := os.Stat(out); err == nil && info.IsDir() {
		return filepath.Join(out, filename)
	}
	return out
}
