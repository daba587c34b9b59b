// Package audio frames synthesized speech as WAV and plays it on a
// virtual clock.
//
// Speech models return raw 16-bit little-endian mono PCM. Frame wraps it in
// a canonical 44-byte RIFF/WAVE header so any player can decode it. Player
// tracks playback position for a loaded stream and reports progress,
// duration and end-of-stream as events; rendering samples to a device is
// left to the client that fetches the WAV.
package audio
