package cmd

import (
	"fmt"

	tea "charm.land/bubbletea/v2"
	"github.com/spf13/cobra"

	"github.com/rfenwick/vaultclip/internal/config"
	"github.com/rfenwick/vaultclip/internal/dispatch"
	"github.com/rfenwick/vaultclip/internal/logger"
	"github.com/rfenwick/vaultclip/internal/pipeline"
	"github.com/rfenwick/vaultclip/internal/ui"
	"github.com/rfenwick/vaultclip/internal/vault"
)

var (
	debugMode             bool
	quietMode             bool
	vaultPath             string
	version, commit, date string
)

// SetVersionInfo sets version information from ldflags
func SetVersionInfo(v, c, d string) {
	version, commit, date = v, c, d
}

var rootCmd = &cobra.Command{
	Use:   "vaultclip",
	Short: "Copy vault images to the clipboard as PNG",
	Long: `VaultClip copies images embedded in a markdown note vault to the system
clipboard, always as PNG. SVG images are rasterized, other raster formats
are re-encoded, and PNG files are copied byte for byte.

Run without arguments to browse the vault's images interactively.`,
	RunE:          runBrowser,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	cobra.OnInitialize(initConfig)
	rootCmd.PersistentFlags().BoolVar(&debugMode, "debug", true, "Enable debug logging (on by default)")
	rootCmd.PersistentFlags().BoolVarP(&quietMode, "quiet", "q", false, "Reduce logging to info level only")
	rootCmd.PersistentFlags().StringVar(&vaultPath, "vault", ".", "Path to the vault root")
}

func initConfig() {
	if quietMode {
		logger.SetDebug(false)
	} else if debugMode {
		logger.SetDebug(true)
	}
}

// Execute runs the root command
func Execute() error {
	// Set version dynamically
	rootCmd.Version = version
	rootCmd.SetVersionTemplate(versionTemplate())
	return rootCmd.Execute()
}

func versionTemplate() string {
	if commit != "none" && commit != "" {
		return fmt.Sprintf("vaultclip %s\n  commit: %s\n  built:  %s\n", version, commit, date)
	}
	return fmt.Sprintf("vaultclip %s\n", version)
}

func runBrowser(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("error loading config: %w", err)
	}

	v, err := vault.Open(vaultPath)
	if err != nil {
		return fmt.Errorf("error opening vault: %w", err)
	}

	// Ensure logger is closed on exit
	defer logger.Close()

	copier := pipeline.New(vault.NewFetcher(v), cfg)
	d := dispatch.New(dispatch.RegimeDesktop, copier, nil)

	m := ui.NewBrowse(v, d, version)
	p := tea.NewProgram(m)

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("error running browser: %w", err)
	}
	return nil
}
