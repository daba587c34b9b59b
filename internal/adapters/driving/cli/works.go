package cli

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/abdelmaseeh/SmartEgyBible/internal/core/domain"
)

var worksCmd = &cobra.Command{
	Use:   "works",
	Short: "List the books of the canon",
	Long: `List every work in canonical order with its identifier and chapter count.

The identifier or either name can be used wherever a reference is expected,
for example "smartegy read gen 1" or "smartegy read تكوين 1".`,
	Args: cobra.NoArgs,
	RunE: runWorks,
}

func init() {
	rootCmd.AddCommand(worksCmd)
}

func runWorks(cmd *cobra.Command, _ []string) error {
	if workService == nil {
		return errors.New("work service not configured")
	}

	var section domain.Testament
	for _, w := range workService.List() {
		if w.Testament != section {
			if section != "" {
				cmd.Println()
			}
			section = w.Testament
			cmd.Printf("[%s]\n", section.Description())
		}
		cmd.Printf("  %-5s %s (%s), %d chapters\n", w.ID, w.Name, w.EnglishName, w.Chapters)
	}
	return nil
}
