package audio

import (
	"encoding/binary"
	"errors"
	"math"
	"os"

	goaudio "github.com/go-audio/audio"
	"github.com/go-audio/wav"
)

// ReadWAVFile decodes a WAV file at path into float32 samples at
// SampleRate, mono, mixing stereo down and resampling if the file's
// native format differs. Adapted from the mmp-vice autowhisper decoder
// for the streaming client's own need to turn a sample WAV file into the
// engine's working format before re-encoding it onto the wire.
func ReadWAVFile(path string) ([]float32, error) {
	fh, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer fh.Close()

	dec := wav.NewDecoder(fh)
	buf, err := dec.FullPCMBuffer()
	if err != nil {
		return nil, err
	}
	if buf == nil || buf.Data == nil {
		return nil, errors.New("audio: empty or invalid wav data")
	}

	inRate := int(dec.SampleRate)
	chans := int(dec.NumChans)
	if inRate <= 0 {
		return nil, errors.New("audio: invalid sample rate")
	}
	if chans != 1 && chans != 2 {
		return nil, errors.New("audio: unsupported channel count")
	}

	fbuf := goaudio.FloatBuffer{
		Data:   make([]float64, len(buf.Data)),
		Format: &goaudio.Format{NumChannels: chans, SampleRate: inRate},
	}
	for i, v := range buf.Data {
		fbuf.Data[i] = clampUnit(float64(v) / float64(1<<15))
	}

	mono := fbuf.Data
	if chans == 2 {
		mono = make([]float64, len(fbuf.Data)/2)
		for i := range mono {
			mono[i] = 0.5 * (fbuf.Data[2*i] + fbuf.Data[2*i+1])
		}
	}

	if inRate != SampleRate {
		mono = resampleLinear(mono, inRate, SampleRate)
	}

	out := make([]float32, len(mono))
	for i, v := range mono {
		out[i] = float32(v)
	}
	return out, nil
}

func clampUnit(v float64) float64 {
	return math.Max(-1, math.Min(1, v))
}

func resampleLinear(in []float64, inRate, outRate int) []float64 {
	ratio := float64(outRate) / float64(inRate)
	outLen := int(math.Ceil(float64(len(in)) * ratio))
	out := make([]float64, outLen)
	for i := range out {
		srcPos := float64(i) / ratio
		j := int(math.Floor(srcPos))
		t := srcPos - float64(j)
		if j+1 < len(in) {
			out[i] = (1-t)*in[j] + t*in[j+1]
		} else if j < len(in) {
			out[i] = in[j]
		}
	}
	return out
}

// EncodePCM converts float32 samples in [-1, 1] to little-endian 16-bit
// PCM bytes, the inverse of DecodePCM.
func EncodePCM(samples []float32) []byte {
	out := make([]byte, len(samples)*2)
	for i, s := range samples {
		clamped := max(float32(-1), min(float32(1), s))
		val := int16(clamped * math.MaxInt16)
		binary.LittleEndian.PutUint16(out[i*2:], uint16(val))
	}
	return out
}
