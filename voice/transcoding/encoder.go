package transcoding

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
)

// WriteWav encodes the PCM as a 16-bit PCM WAV file.
func WriteWav(pcm *PCM, output io.WriteSeeker) error {
	format := &audio.Format{SampleRate: pcm.SampleRate, NumChannels: pcm.Channels}
	e := wav.NewEncoder(output, format.SampleRate, 16, format.NumChannels, wavFormatPCM)

	intBuffer := &audio.IntBuffer{
		Format:         format,
		Data:           pcm.Samples,
		SourceBitDepth: 16,
	}
	if err := e.Write(intBuffer); err != nil {
		return err
	}
	return e.Close()
}

// Info describes a normalized file.
type Info struct {
	Duration   time.Duration
	Size       int64
	SampleRate int
	Channels   int
}

// Normalize decodes src and rewrites it to dst as 16-bit PCM WAV, keeping
// the sample rate and channel layout. A partial dst is removed on failure.
func Normalize(src string, dst string) (Info, error) {
	pcm, err := Decode(src)
	if err != nil {
		return Info{}, err
	}

	out, err := os.Create(dst)
	if err != nil {
		return Info{}, fmt.Errorf("failed to create output wav file; %w", err)
	}

	if err := WriteWav(pcm, out); err != nil {
		out.Close()
		os.Remove(dst)
		return Info{}, fmt.Errorf("failed to encode wav file; %w", err)
	}
	if err := out.Close(); err != nil {
		os.Remove(dst)
		return Info{}, fmt.Errorf("failed to close wav file; %w", err)
	}

	stat, err := os.Stat(dst)
	if err != nil {
		return Info{}, err
	}

	return Info{
		Duration:   pcm.Duration(),
		Size:       stat.Size(),
		SampleRate: pcm.SampleRate,
		Channels:   pcm.Channels,
	}, nil
}
