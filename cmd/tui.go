package cmd

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/spf13/cobra"

	"github.com/duskwallet/duskwallet/internal/tui"
)

var flagTab string

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Launch interactive TUI dashboard",
	RunE:  runTUI,
}

func init() {
	tuiCmd.Flags().StringVar(&flagTab, "tab", "dashboard", "Tab to open: dashboard, transactions or analysis")
	rootCmd.AddCommand(tuiCmd)
}

func runTUI(_ *cobra.Command, _ []string) error {
	a, done, err := openApp()
	if err != nil {
		return err
	}
	defer done()

	// Force TrueColor profile so all background styling produces ANSI codes
	lipgloss.SetColorProfile(termenv.TrueColor)

	if err := tui.Run(a, "/"+flagTab); err != nil {
		return fmt.Errorf("TUI error: %w", err)
	}
	return nil
}
