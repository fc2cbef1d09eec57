package greeting

import "encoding/binary"

// SampleRate is the rate of the speech model's PCM output.
const SampleRate = 24000

// DecodePCM16 converts 16-bit little-endian mono PCM to samples in [-1, 1).
func DecodePCM16(data []byte) ([]float32, error) {
	if len(data) == 0 {
		return nil, ErrEmptyAudio
	}
	if len(data)%2 != 0 {
		return nil, ErrOddPCM
	}
	out := make([]float32, len(data)/2)
	for i := range out {
		v := int16(binary.LittleEndian.Uint16(data[2*i:]))
		out[i] = float32(v) / 32768
	}
	return out, nil
}

// EncodeStereo16 converts mono samples to interleaved 16-bit little-endian
// stereo, the layout the audio player consumes. Samples are clamped to
// [-1, 1).
func EncodeStereo16(samples []float32) []byte {
	out := make([]byte, len(samples)*4)
	for i, s := range samples {
		v := int16(clamp(s) * 32768)
		binary.LittleEndian.PutUint16(out[4*i:], uint16(v))
		binary.LittleEndian.PutUint16(out[4*i+2:], uint16(v))
	}
	return out
}

func clamp(s float32) float32 {
	switch {
	case s < -1:
		return -1
	case s > 32767.0/32768:
		return 32767.0 / 32768
	default:
		return s
	}
}
