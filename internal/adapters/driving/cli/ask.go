package cli

import (
	"bufio"
	"errors"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abdelmaseeh/SmartEgyBible/internal/core/domain"
	"github.com/abdelmaseeh/SmartEgyBible/internal/logger"
)

var askCmd = &cobra.Command{
	Use:   "ask [question]",
	Short: "Ask a question answered from St-Takla.org",
	Long: `Ask a question about scripture. Answers are grounded on the configured
site (st-takla.org by default) and always carry at least one source link.

With --ref the chapter is opened first and its text is sent as context.
Without a question an interactive session starts; type /reset to start a
new conversation and /quit to leave.`,
	RunE: runAsk,
}

func init() {
	askCmd.Flags().String("ref", "", "chapter to use as context, e.g. \"gen 1\"")
	rootCmd.AddCommand(askCmd)
}

func runAsk(cmd *cobra.Command, args []string) error {
	if readerService == nil || workService == nil {
		return errors.New("reader service not configured")
	}

	if ref, _ := cmd.Flags().GetString("ref"); ref != "" {
		key, err := workService.ParseReference(ref)
		if err != nil {
			return err
		}
		if _, err := readerService.Select(cmd.Context(), key); err != nil {
			return err
		}
		if _, err := readerService.Open(cmd.Context()); err != nil {
			logger.Debug("ask: context unavailable: %v", err)
		}
	}

	if len(args) > 0 {
		return askOnce(cmd, strings.Join(args, " "))
	}
	return askLoop(cmd)
}

func askOnce(cmd *cobra.Command, question string) error {
	msg, err := readerService.Ask(cmd.Context(), question)
	if err != nil {
		return err
	}
	printAnswer(cmd, *msg)
	return nil
}

func askLoop(cmd *cobra.Command) error {
	scanner := bufio.NewScanner(cmd.InOrStdin())
	for {
		cmd.Print("> ")
		if !scanner.Scan() {
			cmd.Println()
			return scanner.Err()
		}

		line := strings.TrimSpace(scanner.Text())
		switch line {
		case "":
			continue
		case "/quit", "/exit":
			return nil
		case "/reset":
			if answerService != nil {
				answerService.Reset()
			}
			cmd.Println("Conversation reset.")
			continue
		}

		msg, err := readerService.Ask(cmd.Context(), line)
		if err != nil {
			if cmd.Context().Err() != nil {
				return nil
			}
			cmd.PrintErrln(describe(err))
			continue
		}
		printAnswer(cmd, *msg)
	}
}

func printAnswer(cmd *cobra.Command, msg domain.Message) {
	cmd.Println(msg.Text)
	if len(msg.Citations) == 0 {
		return
	}
	cmd.Println()
	cmd.Println("Sources:")
	for _, c := range msg.Citations {
		cmd.Printf("  - %s\n    %s\n", c.Title, c.URI)
	}
	cmd.Println()
}
