package cmd

import (
	"fmt"

	tea "charm.land/bubbletea/v2"
	"github.com/spf13/cobra"

	"github.com/rfenwick/vaultclip/internal/config"
	"github.com/rfenwick/vaultclip/internal/logger"
	"github.com/rfenwick/vaultclip/internal/ui"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Edit VaultClip settings",
	Long:  `Opens an interactive form for the persisted settings, currently the SVG rasterization scale.`,
	RunE:  runConfigForm,
}

func init() {
	rootCmd.AddCommand(configCmd)
}

func runConfigForm(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("error loading config: %w", err)
	}

	defer logger.Close()

	m := ui.NewSettings(cfg)
	p := tea.NewProgram(m)
	final, err := p.Run()
	if err != nil {
		return fmt.Errorf("error running settings form: %w", err)
	}

	if s, ok := final.(*ui.SettingsModel); ok && s.Saved() {
		fmt.Println("Settings saved.")
	}
	return nil
}
