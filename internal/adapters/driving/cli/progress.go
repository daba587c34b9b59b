package cli

import (
	"sync"

	"github.com/spf13/cobra"

	"github.com/abdelmaseeh/SmartEgyBible/internal/core/domain"
)

// followEvents prints progress events to stderr until the returned stop
// function is called. Stop is safe to call more than once.
func followEvents(cmd *cobra.Command) func() {
	if eventBus == nil {
		return func() {}
	}

	events, cancel := eventBus.Subscribe(0)
	done := make(chan struct{})
	go func() {
		defer close(done)
		for e := range events {
			if line := progressLine(e); line != "" {
				cmd.PrintErrln(line)
			}
		}
	}()

	var once sync.Once
	return func() {
		once.Do(func() {
			cancel()
			<-done
		})
	}
}

func progressLine(e domain.Event) string {
	switch e.Type {
	case domain.EventResolveStarted:
		return "Loading " + e.Key.String() + "..."
	case domain.EventResolveSource:
		return "  loaded from " + e.Source
	case domain.EventResolveFailed:
		return "  no source could load " + e.Key.String()
	case domain.EventRenderStarted:
		return "Rendering..."
	case domain.EventAudioReady:
		return "Audio ready"
	default:
		return ""
	}
}
