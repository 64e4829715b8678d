package cmd

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	modsui "github.com/bnema/modscan/internal/ui/mods"
)

func runTUI(cmd *cobra.Command, args []string) error {
	manager, err := newManager()
	if err != nil {
		return err
	}

	seedRegistry()

	model := modsui.NewModel(cmd.Context(), manager, newScanner(0, nil), cfg.EnabledOnly)
	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(cmd.Context()))

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("error running TUI: %w", err)
	}

	return nil
}
