package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abdelmaseeh/SmartEgyBible/internal/core/domain"
)

var readCmd = &cobra.Command{
	Use:   "read [reference]",
	Short: "Read a chapter",
	Long: `Read a chapter in its classical text.

The reference names a work and a chapter, such as "gen 1", "Genesis 1" or
"تكوين 1". Chapters beyond the end of a work are clamped to its last
chapter. Without a reference the last chapter read is opened again.

The chapter is fetched from the configured text sources on first read and
served from the local cache afterwards. Use --render to add the Egyptian
colloquial rendering under each verse.`,
	RunE: runRead,
}

var nextCmd = &cobra.Command{
	Use:   "next",
	Short: "Read the chapter after the last one read",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return runStep(cmd, 1)
	},
}

var prevCmd = &cobra.Command{
	Use:   "prev",
	Short: "Read the chapter before the last one read",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return runStep(cmd, -1)
	},
}

func init() {
	for _, c := range []*cobra.Command{readCmd, nextCmd, prevCmd} {
		c.Flags().BoolP("render", "r", false, "include the colloquial rendering")
		rootCmd.AddCommand(c)
	}
}

func runRead(cmd *cobra.Command, args []string) error {
	if readerService == nil || workService == nil {
		return errors.New("reader service not configured")
	}

	key, err := referenceOrLast(cmd, args)
	if err != nil {
		return err
	}
	if _, err := readerService.Select(cmd.Context(), key); err != nil {
		return err
	}
	return showSelected(cmd)
}

func runStep(cmd *cobra.Command, delta int) error {
	if readerService == nil || workService == nil {
		return errors.New("reader service not configured")
	}

	last, err := readerService.LastPosition(cmd.Context())
	if err != nil {
		return fmt.Errorf("no previous chapter: %w", err)
	}
	if _, err := readerService.Select(cmd.Context(), last); err != nil {
		return err
	}
	if delta > 0 {
		_, err = readerService.Next(cmd.Context())
	} else {
		_, err = readerService.Prev(cmd.Context())
	}
	if err != nil {
		return err
	}
	return showSelected(cmd)
}

// showSelected opens the selected chapter and prints it.
func showSelected(cmd *cobra.Command) error {
	render, _ := cmd.Flags().GetBool("render")

	stop := followEvents(cmd)
	defer stop()

	record, err := readerService.Open(cmd.Context())
	if err != nil {
		return err
	}
	if render && !record.IsRendered() {
		if record, err = readerService.Render(cmd.Context()); err != nil {
			return err
		}
	}
	stop()

	printChapter(cmd, *record, render)
	return nil
}

func referenceOrLast(cmd *cobra.Command, args []string) (domain.ChapterKey, error) {
	if len(args) == 0 {
		key, err := readerService.LastPosition(cmd.Context())
		if err != nil {
			return domain.ChapterKey{}, errors.New("no reference given and no previous chapter")
		}
		return key, nil
	}
	return workService.ParseReference(strings.Join(args, " "))
}

func printChapter(cmd *cobra.Command, record domain.ChapterRecord, rendered bool) {
	name := record.WorkID
	if w, err := workService.Get(record.WorkID); err == nil {
		name = w.Name
	}
	cmd.Printf("%s - الإصحاح %d\n\n", name, record.Chapter)

	for _, v := range record.Verses {
		cmd.Printf("%3d  %s\n", v.Number, v.Primary)
		if rendered && v.Secondary != "" {
			cmd.Printf("     %s\n", v.Secondary)
		}
	}
}
