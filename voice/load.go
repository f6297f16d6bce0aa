package voice

import (
	"context"
	"fmt"

	"voicedesk/config"
)

// LoadSynthesizer builds the configured text to speech engine.
func LoadSynthesizer(ctx context.Context, cfg config.TTS) (Synthesizer, error) {
	switch cfg.Engine {
	case "coqui", "":
		return NewCoqui(ctx, cfg.Coqui)
	case "elevenlabs":
		return NewElevenLabs(ctx, cfg.ElevenLabs)
	case "openai":
		return NewOpenAISpeech(cfg.OpenAI)
	case "google":
		return &Google{}, nil
	case "stub":
		return &StubSynthesizer{Speakers: []string{"stub"}, ReferenceAudio: true}, nil
	default:
		return nil, fmt.Errorf("unknown tts engine %q", cfg.Engine)
	}
}

// LoadRecognizer builds the configured speech to text engine.
func LoadRecognizer(ctx context.Context, cfg config.STT) (Recognizer, error) {
	switch cfg.Engine {
	case "whisper", "":
		w := NewWhisper(cfg.Whisper)
		if err := w.Check(ctx); err != nil {
			return nil, err
		}
		return w, nil
	case "openai":
		return NewOpenAIWhisper(cfg.OpenAI)
	case "stub":
		return &StubRecognizer{Transcript: "stub transcript"}, nil
	default:
		return nil, fmt.Errorf("unknown stt engine %q", cfg.Engine)
	}
}
