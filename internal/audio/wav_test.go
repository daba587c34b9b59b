package audio

import (
	"encoding/binary"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// pcmFor returns silent PCM lasting d at the default rate.
func pcmFor(d time.Duration) []byte {
	n := int(int64(DefaultSampleRate) * int64(d) / int64(time.Second))
	return make([]byte, n*2)
}

func TestEncodePCM_Header(t *testing.T) {
	pcm := []byte{1, 2, 3, 4}
	wav := EncodePCM(pcm, 24000)

	require.Len(t, wav, headerSize+len(pcm))
	assert.Equal(t, "RIFF", string(wav[0:4]))
	assert.Equal(t, uint32(36+len(pcm)), binary.LittleEndian.Uint32(wav[4:8]))
	assert.Equal(t, "WAVE", string(wav[8:12]))
	assert.Equal(t, "fmt ", string(wav[12:16]))
	assert.Equal(t, uint16(1), binary.LittleEndian.Uint16(wav[20:22]), "PCM format tag")
	assert.Equal(t, uint16(1), binary.LittleEndian.Uint16(wav[22:24]), "mono")
	assert.Equal(t, uint32(24000), binary.LittleEndian.Uint32(wav[24:28]))
	assert.Equal(t, uint32(48000), binary.LittleEndian.Uint32(wav[28:32]), "byte rate")
	assert.Equal(t, uint16(2), binary.LittleEndian.Uint16(wav[32:34]), "block align")
	assert.Equal(t, uint16(16), binary.LittleEndian.Uint16(wav[34:36]))
	assert.Equal(t, "data", string(wav[36:40]))
	assert.Equal(t, uint32(len(pcm)), binary.LittleEndian.Uint32(wav[40:44]))
	assert.Equal(t, pcm, wav[44:])
}

func TestEncodePCM_DefaultRate(t *testing.T) {
	wav := EncodePCM(nil, 0)
	assert.Equal(t, uint32(DefaultSampleRate), binary.LittleEndian.Uint32(wav[24:28]))
}

func TestFrame_PassesThroughWAV(t *testing.T) {
	wav := EncodePCM([]byte{0, 0}, 24000)
	assert.Equal(t, wav, Frame(wav, 16000))
}

func TestFrame_WrapsRawPCM(t *testing.T) {
	framed := Frame([]byte{0, 0, 0, 0}, 24000)
	assert.True(t, IsWAV(framed))
	assert.Len(t, framed, headerSize+4)
}

func TestParse_RoundTripsFormat(t *testing.T) {
	f, err := Parse(EncodePCM(pcmFor(time.Second), 24000))
	require.NoError(t, err)

	assert.Equal(t, 24000, f.SampleRate)
	assert.Equal(t, 1, f.Channels)
	assert.Equal(t, 16, f.BitsPerSample)
	assert.Equal(t, 48000, f.DataSize)
	assert.Equal(t, time.Second, f.Duration())
}

func TestParse_SkipsUnknownChunks(t *testing.T) {
	wav := EncodePCM(pcmFor(500*time.Millisecond), 24000)

	// Insert a LIST chunk between fmt and data.
	list := append([]byte("LIST"), 4, 0, 0, 0, 'I', 'N', 'F', 'O')
	withList := append(append(append([]byte{}, wav[:36]...), list...), wav[36:]...)

	f, err := Parse(withList)
	require.NoError(t, err)
	assert.Equal(t, 500*time.Millisecond, f.Duration())
}

func TestParse_Invalid(t *testing.T) {
	_, err := Parse([]byte("not audio"))
	assert.ErrorIs(t, err, ErrInvalidWAV)

	noData := EncodePCM(nil, 24000)[:36]
	_, err = Parse(noData)
	assert.ErrorIs(t, err, ErrInvalidWAV)
}

func TestFingerprint(t *testing.T) {
	a := Fingerprint("في البدء")
	assert.Len(t, a, 64)
	assert.Equal(t, a, Fingerprint("في البدء"))
	assert.NotEqual(t, a, Fingerprint("في الأول"))
}
