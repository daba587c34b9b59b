package audio

import (
	"encoding/binary"
	"errors"
	"fmt"
	"time"
)

// PCM format produced by the speech model.
const (
	DefaultSampleRate = 24000
	Channels          = 1
	BitsPerSample     = 16

	headerSize = 44
)

// ErrInvalidWAV indicates data is not a PCM WAV stream.
var ErrInvalidWAV = errors.New("invalid wav stream")

// Format describes a PCM WAV stream.
type Format struct {
	SampleRate    int
	Channels      int
	BitsPerSample int

	// DataSize is the length of the PCM payload in bytes.
	DataSize int
}

// ByteRate is the number of payload bytes per second of audio.
func (f Format) ByteRate() int {
	return f.SampleRate * f.Channels * f.BitsPerSample / 8
}

// Duration is the playing time of the payload.
func (f Format) Duration() time.Duration {
	rate := f.ByteRate()
	if rate <= 0 {
		return 0
	}
	return time.Duration(int64(f.DataSize) * int64(time.Second) / int64(rate))
}

// IsWAV reports whether data starts with a RIFF/WAVE header.
func IsWAV(data []byte) bool {
	return len(data) >= 12 && string(data[0:4]) == "RIFF" && string(data[8:12]) == "WAVE"
}

// Frame returns data as a WAV stream. Data that is already WAV is returned
// unchanged; anything else is treated as mono 16-bit PCM at sampleRate.
func Frame(data []byte, sampleRate int) []byte {
	if IsWAV(data) {
		return data
	}
	return EncodePCM(data, sampleRate)
}

// EncodePCM prepends a 44-byte WAV header to mono 16-bit PCM.
func EncodePCM(pcm []byte, sampleRate int) []byte {
	if sampleRate <= 0 {
		sampleRate = DefaultSampleRate
	}
	blockAlign := Channels * BitsPerSample / 8
	byteRate := sampleRate * blockAlign

	le := binary.LittleEndian
	b := make([]byte, 0, headerSize+len(pcm))
	b = append(b, "RIFF"...)
	b = le.AppendUint32(b, uint32(36+len(pcm)))
	b = append(b, "WAVEfmt "...)
	b = le.AppendUint32(b, 16)
	b = le.AppendUint16(b, 1) // PCM
	b = le.AppendUint16(b, Channels)
	b = le.AppendUint32(b, uint32(sampleRate))
	b = le.AppendUint32(b, uint32(byteRate))
	b = le.AppendUint16(b, uint16(blockAlign))
	b = le.AppendUint16(b, BitsPerSample)
	b = append(b, "data"...)
	b = le.AppendUint32(b, uint32(len(pcm)))
	return append(b, pcm...)
}

// Parse reads the format of a WAV stream by walking its chunks.
func Parse(data []byte) (Format, error) {
	if !IsWAV(data) {
		return Format{}, ErrInvalidWAV
	}

	var (
		f      Format
		gotFmt bool
	)
	pos := 12
	for pos+8 <= len(data) {
		id := string(data[pos : pos+4])
		size := int(binary.LittleEndian.Uint32(data[pos+4 : pos+8]))
		body := pos + 8

		switch id {
		case "fmt ":
			if size < 16 || body+16 > len(data) {
				return Format{}, fmt.Errorf("%w: short fmt chunk", ErrInvalidWAV)
			}
			if tag := binary.LittleEndian.Uint16(data[body:]); tag != 1 {
				return Format{}, fmt.Errorf("%w: unsupported format tag %d", ErrInvalidWAV, tag)
			}
			f.Channels = int(binary.LittleEndian.Uint16(data[body+2:]))
			f.SampleRate = int(binary.LittleEndian.Uint32(data[body+4:]))
			f.BitsPerSample = int(binary.LittleEndian.Uint16(data[body+14:]))
			gotFmt = true
		case "data":
			if !gotFmt {
				return Format{}, fmt.Errorf("%w: data before fmt", ErrInvalidWAV)
			}
			// Streams written before their length was known may overstate it.
			f.DataSize = min(size, len(data)-body)
			return f, nil
		}

		pos = body + size + size%2
	}
	return Format{}, fmt.Errorf("%w: no data chunk", ErrInvalidWAV)
}
