package cli

import (
	"errors"

	"github.com/spf13/cobra"
)

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Manage cached chapters and audio",
}

var cacheClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove cached chapters",
	Long: `Remove every cached chapter, including renderings. Use --audio to remove
cached speech as well. The last reading position is kept.`,
	Args: cobra.NoArgs,
	RunE: runCacheClear,
}

func init() {
	cacheClearCmd.Flags().Bool("audio", false, "also remove cached audio")
	cacheCmd.AddCommand(cacheClearCmd)
	rootCmd.AddCommand(cacheCmd)
}

func runCacheClear(cmd *cobra.Command, _ []string) error {
	if cacheService == nil {
		return errors.New("cache service not configured")
	}

	withAudio, _ := cmd.Flags().GetBool("audio")
	res, err := cacheService.Clear(cmd.Context(), withAudio)
	if err != nil {
		return err
	}

	cmd.Printf("Removed %d cached chapters\n", res.Chapters)
	if res.AudioCleared {
		cmd.Println("Removed cached audio")
	}
	return nil
}
