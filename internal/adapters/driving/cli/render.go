package cli

import (
	"errors"
	"strings"

	"github.com/spf13/cobra"
)

var renderCmd = &cobra.Command{
	Use:   "render <reference>",
	Short: "Render a chapter into Egyptian colloquial Arabic",
	Long: `Render every verse of a chapter into Egyptian colloquial Arabic using the
configured generative provider. The rendering is cached with the chapter.

A rendering that does not match the source verse for verse is rejected and
the cached chapter is left unchanged.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runRender,
}

func init() {
	rootCmd.AddCommand(renderCmd)
}

func runRender(cmd *cobra.Command, args []string) error {
	if readerService == nil || workService == nil {
		return errors.New("reader service not configured")
	}

	key, err := workService.ParseReference(strings.Join(args, " "))
	if err != nil {
		return err
	}
	if _, err := readerService.Select(cmd.Context(), key); err != nil {
		return err
	}

	stop := followEvents(cmd)
	defer stop()

	record, err := readerService.Render(cmd.Context())
	if err != nil {
		return err
	}
	stop()

	printChapter(cmd, *record, true)
	return nil
}
