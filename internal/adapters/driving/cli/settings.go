package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abdelmaseeh/SmartEgyBible/internal/adapters/driven/config/file"
)

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Manage application settings",
	Long: `View and change settings stored in ~/.smartegy/config.toml.

API keys are never stored there. They are read from the environment
(GEMINI_API_KEY, OPENAI_API_KEY) or from a .env file in the working
directory or the configuration directory.`,
	RunE: runSettingsShow,
}

var settingsShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current settings",
	RunE:  runSettingsShow,
}

var settingsSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Change one setting",
	Long: `Change one setting by its key. Run "smartegy settings keys" for the list.

Examples:
  smartegy settings set generative.provider openai
  smartegy settings set storage.backend postgres
  smartegy settings set primary.xml_path ~/bibles/arabic.xml`,
	Args: cobra.ExactArgs(2),
	RunE: runSettingsSet,
}

var settingsKeysCmd = &cobra.Command{
	Use:   "keys",
	Short: "List setting keys",
	Args:  cobra.NoArgs,
	RunE:  runSettingsKeys,
}

func init() {
	settingsCmd.AddCommand(settingsShowCmd)
	settingsCmd.AddCommand(settingsSetCmd)
	settingsCmd.AddCommand(settingsKeysCmd)
	rootCmd.AddCommand(settingsCmd)
}

func runSettingsShow(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	settings, err := settingsService.Get()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}

	cmd.Println("Current Settings")
	cmd.Println("================")
	cmd.Println()

	cmd.Println("[Generative]")
	cmd.Printf("  Provider: %s\n", settings.Generative.Provider.Description())
	cmd.Printf("  Model: %s\n", settings.Generative.Model)
	if settings.Generative.BaseURL != "" {
		cmd.Printf("  Base URL: %s\n", settings.Generative.BaseURL)
	}
	cmd.Println()

	cmd.Println("[Speech]")
	cmd.Printf("  Model: %s\n", settings.Speech.Model)
	cmd.Printf("  Voice: %s\n", settings.Speech.Voice)
	cmd.Printf("  Sample rate: %d Hz\n", settings.Speech.SampleRate)
	cmd.Println()

	cmd.Println("[Chat]")
	cmd.Printf("  Model: %s\n", settings.Chat.Model)
	cmd.Printf("  Domain: %s\n", settings.Chat.Domain)
	cmd.Println()

	cmd.Println("[Primary text]")
	cmd.Printf("  API: %s (%s)\n", orNotSet(settings.Primary.BaseURL), settings.Primary.Translation)
	cmd.Printf("  XML file: %s\n", orNotSet(settings.Primary.XMLPath))
	cmd.Printf("  Requests per second: %g\n", settings.Primary.RequestsPerSecond)
	cmd.Println()

	cmd.Println("[Storage]")
	cmd.Printf("  Backend: %s\n", settings.Storage.Backend.Description())
	cmd.Printf("  Data directory: %s\n", orNotSet(settings.Storage.DataDir))

	if credentials != nil {
		cmd.Println()
		cmd.Println("[Credentials]")
		cmd.Printf("  %s: %s\n", file.EnvGeminiAPIKey, maskAPIKey(credentials.GeminiAPIKey))
		cmd.Printf("  %s: %s\n", file.EnvOpenAIAPIKey, maskAPIKey(credentials.OpenAIAPIKey))
		cmd.Printf("  %s: %s\n", file.EnvPostgresDSN, setOrNot(credentials.PostgresDSN))
	}

	if err := settingsService.Validate(); err != nil {
		cmd.Println()
		cmd.Printf("Warning: %v\n", err)
	}
	return nil
}

func runSettingsSet(cmd *cobra.Command, args []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	key, value := args[0], args[1]
	if err := settingsService.Set(key, value); err != nil {
		return err
	}
	cmd.Printf("%s = %s\n", key, value)
	return nil
}

func runSettingsKeys(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}
	cmd.Println(strings.Join(settingsService.Keys(), "\n"))
	return nil
}

// maskAPIKey masks an API key for display.
func maskAPIKey(key string) string {
	if key == "" {
		return "(not set)"
	}
	if len(key) <= 8 {
		return "****"
	}
	return key[:4] + "..." + key[len(key)-4:]
}

func orNotSet(s string) string {
	if s == "" {
		return "(not set)"
	}
	return s
}

func setOrNot(s string) string {
	if s == "" {
		return "(not set)"
	}
	return "(set)"
}
