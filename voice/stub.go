package voice

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"voicedesk/lang"
	"voicedesk/voice/transcoding"
)

// StubSynthesizer writes a short silent WAV for every request. It backs the
// "stub" engine for running the interface without models, and tests.
type StubSynthesizer struct {
	Speakers       []string
	ReferenceAudio bool
	// Err is returned from Synthesize when set.
	Err      error
	Duration time.Duration

	mu    sync.Mutex
	calls []Request
}

func (s *StubSynthesizer) Describe() Descriptor {
	return Descriptor{
		Name:           "stub",
		Speakers:       s.Speakers,
		ReferenceAudio: s.ReferenceAudio,
	}
}

func (s *StubSynthesizer) Synthesize(ctx context.Context, req Request, outdir string, name string) (string, error) {
	s.mu.Lock()
	s.calls = append(s.calls, req)
	s.mu.Unlock()

	if s.Err != nil {
		return "", s.Err
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if err := os.MkdirAll(outdir, 0755); err != nil {
		return "", fmt.Errorf("failed to create out dir; %w", err)
	}

	duration := s.Duration
	if duration == 0 {
		duration = 500 * time.Millisecond
	}

	file := filepath.Join(outdir, name+".wav")
	out, err := os.Create(file)
	if err != nil {
		return "", fmt.Errorf("failed to create output file; %w", err)
	}
	defer out.Close()

	if err := transcoding.WriteWav(transcoding.Silence(16000, 1, duration), out); err != nil {
		return "", fmt.Errorf("failed to encode wav file; %w", err)
	}
	return file, nil
}

// Calls returns every request seen so far.
func (s *StubSynthesizer) Calls() []Request {
	s.mu.Lock()
	defer s.mu.Unlock()

	return append([]Request(nil), s.calls...)
}

type RecognizeCall struct {
	Path      string
	Language  lang.Code
	Precision Precision
}

// StubRecognizer returns a fixed transcript.
type StubRecognizer struct {
	Transcript string
	Err        error

	mu    sync.Mutex
	calls []RecognizeCall
}

func (s *StubRecognizer) Recognize(ctx context.Context, path string, language lang.Code, precision Precision) (string, error) {
	s.mu.Lock()
	s.calls = append(s.calls, RecognizeCall{Path: path, Language: language, Precision: precision})
	s.mu.Unlock()

	if s.Err != nil {
		return "", s.Err
	}
	return s.Transcript, ctx.Err()
}

func (s *StubRecognizer) Calls() []RecognizeCall {
	s.mu.Lock()
	defer s.mu.Unlock()

	return append([]RecognizeCall(nil), s.calls...)
}
