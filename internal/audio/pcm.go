// Package audio holds the deterministic audio transforms and the capture and
// playback session management around them. Speech services return raw
// little-endian PCM16; everything downstream works on float samples.
package audio

import (
	"encoding/base64"
	"encoding/binary"
	"fmt"
	"time"

	"github.com/anandvisw/pharmscribe-go/internal/models"
)

// DefaultSampleRate is the rate speech services emit unless the playback
// context says otherwise.
const DefaultSampleRate = 24000

// Buffer is decoded audio: one float32 slice per channel, amplitudes in
// [-1.0, 1.0].
type Buffer struct {
	Channels   [][]float32
	SampleRate int
}

// Duration reports the playable length of the buffer.
func (b *Buffer) Duration() time.Duration {
	if b == nil || len(b.Channels) == 0 || b.SampleRate <= 0 {
		return 0
	}
	return time.Duration(len(b.Channels[0])) * time.Second / time.Duration(b.SampleRate)
}

// DecodePCM16 reinterprets raw bytes as interleaved little-endian signed
// 16-bit samples and converts each to a float amplitude by dividing by 32768.
// The sample count per channel is totalSamples/channels; a trailing remainder
// (including a trailing odd byte) is dropped, not an error.
func DecodePCM16(raw []byte, channels, sampleRate int) (*Buffer, error) {
	if channels <= 0 {
		return nil, fmt.Errorf("invalid channel count %d", channels)
	}
	if sampleRate <= 0 {
		sampleRate = DefaultSampleRate
	}

	totalSamples := len(raw) / 2
	perChannel := totalSamples / channels

	buf := &Buffer{
		Channels:   make([][]float32, channels),
		SampleRate: sampleRate,
	}
	for c := range buf.Channels {
		buf.Channels[c] = make([]float32, perChannel)
	}
	for frame := 0; frame < perChannel; frame++ {
		for c := 0; c < channels; c++ {
			off := (frame*channels + c) * 2
			sample := int16(binary.LittleEndian.Uint16(raw[off : off+2]))
			buf.Channels[c][frame] = float32(sample) / 32768.0
		}
	}
	return buf, nil
}

// DecodePCM16Base64 decodes a wire-form base64 PCM stream. An undecodable
// payload is a schema violation: the service did not return what it promised.
func DecodePCM16Base64(data string, channels, sampleRate int) (*Buffer, error) {
	raw, err := base64.StdEncoding.DecodeString(data)
	if err != nil {
		return nil, fmt.Errorf("%w: audio payload is not valid base64: %v", models.ErrSchema, err)
	}
	return DecodePCM16(raw, channels, sampleRate)
}
