package cmd

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/rfenwick/vaultclip/internal/config"
	"github.com/rfenwick/vaultclip/internal/dispatch"
	"github.com/rfenwick/vaultclip/internal/errors"
	"github.com/rfenwick/vaultclip/internal/logger"
	"github.com/rfenwick/vaultclip/internal/notification"
	"github.com/rfenwick/vaultclip/internal/pipeline"
	"github.com/rfenwick/vaultclip/internal/vault"
)

var lineNumber int

var copyCmd = &cobra.Command{
	Use:   "copy <note>",
	Short: "Copy the image embedded on a note line to the clipboard",
	Long: `Copies the image referenced by the first ![[name.ext]] embed on the given
line of a note. The line must embed a bmp, gif, jpeg, jpg, png, or tiff
file; the image lands on the clipboard as PNG.`,
	Args: cobra.ExactArgs(1),
	RunE: runCopy,
}

func init() {
	copyCmd.Flags().IntVarP(&lineNumber, "line", "l", 1, "Line number of the embed (1-based)")
	rootCmd.AddCommand(copyCmd)
}

func runCopy(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("error loading config: %w", err)
	}

	v, err := vault.Open(vaultPath)
	if err != nil {
		return fmt.Errorf("error opening vault: %w", err)
	}

	defer logger.Close()

	notePath := args[0]
	if !filepath.IsAbs(notePath) {
		notePath = filepath.Join(v.Root(), notePath)
	}

	line, err := vault.CurrentLine(notePath, lineNumber)
	if err != nil {
		return err
	}

	copier := pipeline.New(vault.NewFetcher(v), cfg)
	d := dispatch.New(dispatch.RegimeDesktop, copier, nil)

	if err := d.CopyFromLine(context.Background(), line, v); err != nil {
		// Resolution failures happen before the pipeline's own notices.
		if errors.Is(err, errors.KindNotAnImage) {
			notification.Failed(errors.Notice(err))
		}
		return err
	}

	fmt.Printf("Copied embed from %s:%d to clipboard\n", args[0], lineNumber)
	return nil
}
