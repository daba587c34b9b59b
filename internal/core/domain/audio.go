package domain

import "time"

// AudioPayload is synthesized speech for one chapter.
type AudioPayload struct {
	Key ChapterKey

	// Data is a playable WAV stream.
	Data []byte

	// Fingerprint identifies the text the audio was synthesized from.
	// Two variants of a chapter (primary, rendered) have different fingerprints.
	Fingerprint string

	CreatedAt time.Time
}
