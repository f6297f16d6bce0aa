package transcoding

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"os"

	"github.com/go-audio/wav"
	"github.com/hajimehoshi/go-mp3"
)

const wavFormatPCM = 1

// Decode reads a WAV or MP3 file into PCM. The container is detected from
// the file header, not the extension, since browser uploads are often misnamed.
func Decode(filename string) (*PCM, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open audio; %w", err)
	}
	defer f.Close()

	header := make([]byte, 12)
	n, err := io.ReadFull(f, header)
	if err != nil && err != io.ErrUnexpectedEOF {
		if err == io.EOF {
			return nil, ErrEmptyAudio
		}
		return nil, fmt.Errorf("failed to read audio header; %w", err)
	}
	header = header[:n]
	if _, err := f.Seek(0, io.SeekStart); err != nil {
		return nil, err
	}

	var pcm *PCM
	switch {
	case isWav(header):
		pcm, err = decodeWav(f)
	case isMP3(header):
		pcm, err = decodeMP3(f)
	default:
		return nil, ErrUnsupportedFormat
	}
	if err != nil {
		return nil, err
	}
	if len(pcm.Samples) == 0 {
		return nil, ErrEmptyAudio
	}
	return pcm, nil
}

func isWav(header []byte) bool {
	return len(header) >= 12 &&
		bytes.Equal(header[0:4], []byte("RIFF")) &&
		bytes.Equal(header[8:12], []byte("WAVE"))
}

func isMP3(header []byte) bool {
	if len(header) >= 3 && bytes.Equal(header[0:3], []byte("ID3")) {
		return true
	}
	// frame sync
	return len(header) >= 2 && header[0] == 0xFF && header[1]&0xE0 == 0xE0
}

func decodeWav(r io.ReadSeeker) (*PCM, error) {
	d := wav.NewDecoder(r)
	if !d.IsValidFile() {
		return nil, ErrUnsupportedFormat
	}
	if d.WavAudioFormat != wavFormatPCM {
		return nil, fmt.Errorf("%w: wav encoding %d", ErrUnsupportedFormat, d.WavAudioFormat)
	}

	buf, err := d.FullPCMBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to decode wav; %w", err)
	}

	to16Bit(buf.Data, int(d.BitDepth))
	return &PCM{
		SampleRate: int(d.SampleRate),
		Channels:   int(d.NumChans),
		Samples:    buf.Data,
	}, nil
}

// go-mp3 always produces 16-bit little endian stereo
func decodeMP3(r io.Reader) (*PCM, error) {
	d, err := mp3.NewDecoder(r)
	if err != nil {
		return nil, fmt.Errorf("failed to decode mp3; %w", err)
	}

	raw, err := io.ReadAll(d)
	if err != nil {
		return nil, fmt.Errorf("failed to decode mp3 frames; %w", err)
	}

	samples := make([]int, len(raw)/2)
	for i := range samples {
		samples[i] = int(int16(binary.LittleEndian.Uint16(raw[i*2:])))
	}

	return &PCM{
		SampleRate: d.SampleRate(),
		Channels:   2,
		Samples:    samples,
	}, nil
}
