package cli

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/abdelmaseeh/SmartEgyBible/internal/audio"
	"github.com/abdelmaseeh/SmartEgyBible/internal/core/domain"
	"github.com/abdelmaseeh/SmartEgyBible/internal/logger"
)

var audioCmd = &cobra.Command{
	Use:   "audio <reference>",
	Short: "Speak a chapter aloud",
	Long: `Synthesize speech for a chapter and save it as a WAV file.

The rendered text is spoken when the chapter has been rendered, the
classical text otherwise. Audio is cached per chapter and regenerated when
the text it was made from changes.

Use --play to follow playback progress, and --player to hand the file to
an external audio player such as aplay or afplay while it plays.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runAudio,
}

func init() {
	audioCmd.Flags().StringP("output", "o", "", "output file (default <work>_<chapter>.wav)")
	audioCmd.Flags().Bool("play", false, "show playback progress")
	audioCmd.Flags().String("player", "", "external command used to play the file")
	rootCmd.AddCommand(audioCmd)
}

func runAudio(cmd *cobra.Command, args []string) error {
	if readerService == nil || workService == nil {
		return errors.New("reader service not configured")
	}

	output, _ := cmd.Flags().GetString("output")
	play, _ := cmd.Flags().GetBool("play")
	player, _ := cmd.Flags().GetString("player")

	key, err := workService.ParseReference(strings.Join(args, " "))
	if err != nil {
		return err
	}
	if key, err = readerService.Select(cmd.Context(), key); err != nil {
		return err
	}

	stop := followEvents(cmd)
	defer stop()

	payload, err := readerService.Audio(cmd.Context())
	if err != nil {
		return err
	}
	stop()

	if output == "" {
		output = key.String() + ".wav"
	}
	if err := os.WriteFile(output, payload.Data, 0o644); err != nil {
		return fmt.Errorf("write audio: %w", err)
	}
	cmd.Printf("Saved %s\n", output)

	if !play && player == "" {
		return nil
	}
	return playFile(cmd, key, payload.Data, output, player)
}

// playFile runs the playback clock for wav, relaying its events to the bus,
// and optionally an external player for the file at path.
func playFile(cmd *cobra.Command, key domain.ChapterKey, wav []byte, path, player string) error {
	ctx := cmd.Context()

	p := audio.NewPlayer()
	defer p.Close()
	if err := p.Load(wav); err != nil {
		return err
	}

	var ext *exec.Cmd
	if player != "" {
		ext = exec.CommandContext(ctx, player, path)
		if err := ext.Start(); err != nil {
			return fmt.Errorf("start player: %w", err)
		}
		defer func() {
			if err := ext.Wait(); err != nil && ctx.Err() == nil {
				logger.Warn("player exited: %v", err)
			}
		}()
	}

	if _, err := p.TogglePlay(); err != nil {
		return err
	}

	for {
		select {
		case <-ctx.Done():
			cmd.Println()
			return nil
		case e, ok := <-p.Events():
			if !ok {
				return nil
			}
			relayPlayback(key, e)
			switch e.Type {
			case audio.EventProgress:
				cmd.Printf("\r%s / %s", clock(e.Position), clock(e.Duration))
			case audio.EventEnded:
				cmd.Printf("\r%s / %s\n", clock(e.Duration), clock(e.Duration))
				return nil
			}
		}
	}
}

func relayPlayback(key domain.ChapterKey, e audio.Event) {
	if eventBus == nil {
		return
	}
	var t domain.EventType
	switch e.Type {
	case audio.EventDuration:
		t = domain.EventPlayDuration
	case audio.EventProgress:
		t = domain.EventPlayProgress
	case audio.EventEnded:
		t = domain.EventPlayEnded
	default:
		return
	}
	eventBus.Publish(domain.Event{Type: t, Key: key, Position: e.Position, Duration: e.Duration})
}

// clock formats d as m:ss.
func clock(d time.Duration) string {
	d = d.Round(time.Second)
	return fmt.Sprintf("%d:%02d", int(d.Minutes()), int(d.Seconds())%60)
}
