package audio

import (
	"bytes"
	"encoding/binary"
	"fmt"
)

// EncodeWAV renders a buffer as a PCM16 WAV file, re-interleaving channels.
// Float amplitudes are scaled by 32768 and clamped to the int16 range.
func EncodeWAV(buf *Buffer) ([]byte, error) {
	if buf == nil || len(buf.Channels) == 0 {
		return nil, fmt.Errorf("empty audio buffer")
	}
	channels := len(buf.Channels)
	frames := len(buf.Channels[0])
	for _, ch := range buf.Channels {
		if len(ch) != frames {
			return nil, fmt.Errorf("channel length mismatch")
		}
	}

	dataSize := frames * channels * 2
	byteRate := buf.SampleRate * channels * 2

	var out bytes.Buffer
	out.Grow(44 + dataSize)

	out.WriteString("RIFF")
	binary.Write(&out, binary.LittleEndian, uint32(36+dataSize))
	out.WriteString("WAVE")

	out.WriteString("fmt ")
	binary.Write(&out, binary.LittleEndian, uint32(16))
	binary.Write(&out, binary.LittleEndian, uint16(1)) // PCM
	binary.Write(&out, binary.LittleEndian, uint16(channels))
	binary.Write(&out, binary.LittleEndian, uint32(buf.SampleRate))
	binary.Write(&out, binary.LittleEndian, uint32(byteRate))
	binary.Write(&out, binary.LittleEndian, uint16(channels*2)) // block align
	binary.Write(&out, binary.LittleEndian, uint16(16))         // bits per sample

	out.WriteString("data")
	binary.Write(&out, binary.LittleEndian, uint32(dataSize))
	for frame := 0; frame < frames; frame++ {
		for c := 0; c < channels; c++ {
			binary.Write(&out, binary.LittleEndian, floatToPCM16(buf.Channels[c][frame]))
		}
	}
	return out.Bytes(), nil
}

func floatToPCM16(f float32) int16 {
	scaled := f * 32768.0
	switch {
	case scaled > 32767:
		return 32767
	case scaled < -32768:
		return -32768
	default:
		return int16(scaled)
	}
}
