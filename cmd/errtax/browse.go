package main

import (
	"fmt"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"errtax/internal/driver"
	"errtax/internal/ui"
)

var browseCmd = &cobra.Command{
	Use:   "browse [flags] <file.etx>",
	Short: "Browse a compiled taxonomy interactively",
	Long:  `Browse opens a terminal UI over the compiled taxonomy: cursor navigation, '/' filtering and a detail pane per variant. Without a terminal it falls back to the docs listing`,
	Args:  cobra.ExactArgs(1),
	RunE:  runBrowse,
}

func init() {
	browseCmd.Flags().String("ui", "auto", "terminal UI mode (auto|on|off)")
}

type uiMode string

const (
	uiModeAuto uiMode = "auto"
	uiModeOn   uiMode = "on"
	uiModeOff  uiMode = "off"
)

func readUIMode(value string) (uiMode, error) {
	switch strings.TrimSpace(strings.ToLower(value)) {
	case "", "auto":
		return uiModeAuto, nil
	case "on":
		return uiModeOn, nil
	case "off":
		return uiModeOff, nil
	default:
		return "", fmt.Errorf("invalid --ui value %q (expected auto|on|off)", value)
	}
}

func shouldUseTUI(mode uiMode) bool {
	switch mode {
	case uiModeOn:
		return true
	case uiModeOff:
		return false
	default:
		return isTerminal(os.Stdout)
	}
}

func runBrowse(cmd *cobra.Command, args []string) error {
	uiFlag, err := cmd.Flags().GetString("ui")
	if err != nil {
		return fmt.Errorf("failed to get ui flag: %w", err)
	}
	mode, err := readUIMode(uiFlag)
	if err != nil {
		return err
	}
	maxDiagnostics, err := cmd.Root().PersistentFlags().GetInt("max-diagnostics")
	if err != nil {
		return fmt.Errorf("failed to get max-diagnostics flag: %w", err)
	}

	res, err := compileSingle(cmd, args[0], driver.Options{MaxDiagnostics: maxDiagnostics})
	if err != nil {
		return err
	}

	if !shouldUseTUI(mode) {
		// Без терминала показываем обычный листинг.
		fmt.Fprint(os.Stdout, res.Artifact.DocMarkdown())
		return nil
	}

	model := ui.NewBrowseModel(res.Artifact)
	program := tea.NewProgram(model, tea.WithOutput(os.Stdout))
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("browse UI failed: %w", err)
	}
	return nil
}
