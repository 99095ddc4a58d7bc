package audio

import "encoding/binary"

// SampleRate is the engine's working sample rate in Hz. All components
// downstream of the Frame Decoder operate on mono float32 samples at this
// rate; callers at a different native rate are expected to resample before
// handing audio to the engine.
const SampleRate = 16000

// DecodePCM converts raw little-endian 16-bit signed PCM bytes into
// normalized float32 samples in [-1, 1]. A trailing odd byte, if any, is
// dropped rather than treated as a short sample.
func DecodePCM(data []byte) []float32 {
	n := len(data) / 2
	samples := make([]float32, n)
	for i := range n {
		s := int16(binary.LittleEndian.Uint16(data[i*2:]))
		samples[i] = float32(s) / 32768
	}
	return samples
}

// StreamDecoder decodes a byte stream chunked at arbitrary boundaries
// (spec §6: "any chunk size >= 1 sample accepted") into float32 samples,
// carrying a single leftover byte across calls when a chunk splits a
// 16-bit sample in two, rather than dropping it as DecodePCM does for a
// single complete buffer.
type StreamDecoder struct {
	pending []byte // 0 or 1 leftover byte from the previous Decode call
}

// Decode consumes data plus any carried-over byte and returns the
// complete samples it produces.
func (d *StreamDecoder) Decode(data []byte) []float32 {
	buf := data
	if len(d.pending) > 0 {
		buf = append(append([]byte(nil), d.pending...), data...)
	}
	if len(buf)%2 == 1 {
		d.pending = append([]byte(nil), buf[len(buf)-1])
		buf = buf[:len(buf)-1]
	} else {
		d.pending = nil
	}
	return DecodePCM(buf)
}
