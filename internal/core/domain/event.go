package domain

import "time"

// EventType identifies a progress notification.
type EventType string

// Progress notifications emitted by the services and the player.
const (
	EventResolveStarted EventType = "resolve.started"
	EventResolveSource  EventType = "resolve.source"
	EventResolveFailed  EventType = "resolve.failed"
	EventRenderStarted  EventType = "render.started"
	EventRenderDone     EventType = "render.done"
	EventRenderFailed   EventType = "render.failed"
	EventAudioReady     EventType = "audio.ready"
	EventChatReset      EventType = "chat.reset"
	EventPlayProgress   EventType = "playback.progress"
	EventPlayDuration   EventType = "playback.duration"
	EventPlayEnded      EventType = "playback.ended"
)

// Event is a progress notification.
type Event struct {
	Type    EventType  `json:"type"`
	Key     ChapterKey `json:"key"`
	Source  string     `json:"source,omitempty"`
	Message string     `json:"message,omitempty"`

	// Position and Duration are set for playback events.
	Position time.Duration `json:"position,omitempty"`
	Duration time.Duration `json:"duration,omitempty"`

	At time.Time `json:"at"`
}
