package cli

import (
	"fmt"
	"os"
	"runtime/debug"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/pageza/pantrychef/internal/observability"
	"github.com/pageza/pantrychef/internal/tui"
)

var (
	tuiLogFile   string
	tuiExportDir string
	tuiStyle     string
)

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Launch the interactive terminal UI",
	Long: `Launch the interactive terminal UI for PantryChef.

Controls:
  Enter   - Generate recipe / Ask question
  Tab     - Switch between ingredients and question
  Ctrl+F  - Toggle no cooking with fire/gas
  Ctrl+L  - Clear chat
  Ctrl+R  - Clear recipe
  Ctrl+S  - Save recipe.md
  PgUp/Dn - Scroll
  Esc     - Quit`,
	Args: cobra.NoArgs,
	RunE: runTUI,
}

func init() {
	tuiCmd.Flags().StringVar(&tuiLogFile, "log-file", "", "write logs to this file while the UI runs")
	tuiCmd.Flags().StringVar(&tuiExportDir, "export-dir", ".", "directory recipe.md is saved to")
	tuiCmd.Flags().StringVar(&tuiStyle, "style", "dark", "markdown style for the recipe (dark, light, notty, ...)")
	rootCmd.AddCommand(tuiCmd)
}

func runTUI(cmd *cobra.Command, _ []string) error {
	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintf(os.Stderr, "Panic in TUI: %v\n", r)
			fmt.Fprintf(os.Stderr, "Stack trace:\n%s\n", debug.Stack())
		}
	}()

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	if tuiLogFile != "" {
		f, err := os.OpenFile(tuiLogFile, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			return fmt.Errorf("failed to open log file: %w", err)
		}
		defer f.Close()
		observability.Setup(f, cfg.LogLevel)
	} else {
		observability.Discard()
	}

	// The key prompt has to happen before the alternate screen takes over.
	a, err := newApp(cmd.Context(), cmd, cfg, true)
	if err != nil {
		return err
	}
	defer a.Close()

	id := a.Tokens.NewSessionID()
	events, cancel := a.Broker.Subscribe(id)
	defer cancel()

	model := tui.New(cmd.Context(), tui.Options{
		Interactor: a.Controller,
		Events:     events,
		SessionID:  id,
		ExportDir:  tuiExportDir,

		MarkdownStyle: tuiStyle,
	})

	p := tea.NewProgram(model, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("TUI error: %w", err)
	}
	return nil
}
