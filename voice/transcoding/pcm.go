package transcoding

import (
	"errors"
	"time"
)

var (
	ErrUnsupportedFormat = errors.New("unsupported audio format")
	ErrEmptyAudio        = errors.New("audio contains no samples")
)

// PCM is interleaved 16-bit linear audio.
type PCM struct {
	SampleRate int
	Channels   int
	Samples    []int
}

// Duration of the audio.
func (p *PCM) Duration() time.Duration {
	if p.SampleRate == 0 || p.Channels == 0 {
		return 0
	}
	seconds := float64(len(p.Samples)) / (float64(p.SampleRate) * float64(p.Channels))
	return time.Duration(seconds * float64(time.Second))
}

// Silence returns d of zeroed audio.
func Silence(sampleRate int, channels int, d time.Duration) *PCM {
	n := int(d.Seconds()*float64(sampleRate)) * channels
	return &PCM{
		SampleRate: sampleRate,
		Channels:   channels,
		Samples:    make([]int, n),
	}
}

// scale samples of the given bit depth to 16 bits
func to16Bit(samples []int, bitDepth int) {
	switch {
	case bitDepth == 8:
		// 8-bit wav is unsigned
		for i, v := range samples {
			samples[i] = (v - 128) << 8
		}
	case bitDepth > 16:
		shift := uint(bitDepth - 16)
		for i, v := range samples {
			samples[i] = v >> shift
		}
	}
}
