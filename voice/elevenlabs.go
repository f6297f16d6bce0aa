package voice

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/haguro/elevenlabs-go"
	"github.com/sirupsen/logrus"

	"voicedesk/config"
)

type ElevenLabs struct {
	ModelID string

	client *elevenlabs.Client
	desc   Descriptor
}

// NewElevenLabs connects with the api key and caches the account's voices.
// ctx bounds every later request made through the client.
func NewElevenLabs(ctx context.Context, cfg config.ElevenLabs) (*ElevenLabs, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("missing env var ELEVENLABS_API_KEY")
	}

	client := elevenlabs.NewClient(ctx, cfg.APIKey, cfg.Timeout)

	voices, err := client.GetVoices()
	if err != nil {
		return nil, fmt.Errorf("could not get voices; %w", err)
	}

	speakers := make([]string, 0, len(voices))
	for _, v := range voices {
		speakers = append(speakers, v.VoiceId)
	}
	// a configured voice goes first so it becomes the default speaker
	if cfg.VoiceID != "" {
		speakers = append([]string{cfg.VoiceID}, without(speakers, cfg.VoiceID)...)
	}

	logrus.WithFields(logrus.Fields{
		"model":  cfg.ModelID,
		"voices": len(speakers),
	}).Infoln("elevenlabs tts loaded")

	return &ElevenLabs{
		ModelID: cfg.ModelID,
		client:  client,
		desc: Descriptor{
			Name:     "elevenlabs",
			Speakers: speakers,
		},
	}, nil
}

func (api *ElevenLabs) Describe() Descriptor {
	return api.desc
}

// convert text to speech & save the output in the provided directory
func (api *ElevenLabs) Synthesize(ctx context.Context, req Request, outdir string, name string) (string, error) {
	if req.Reference != "" {
		return "", ErrReferenceUnsupported
	}
	if req.Speaker == "" {
		return "", ErrNoSpeaker
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if err := os.MkdirAll(outdir, 0755); err != nil {
		return "", fmt.Errorf("failed to create out dir; %w", err)
	}

	ttsReq := elevenlabs.TextToSpeechRequest{
		Text:    req.Text,
		ModelID: api.ModelID,
	}
	audio, err := api.client.TextToSpeech(req.Speaker, ttsReq)
	if err != nil {
		return "", fmt.Errorf("failed tts; %w", err)
	}

	file := filepath.Join(outdir, name+".mp3")
	if err := os.WriteFile(file, audio, 0644); err != nil {
		return "", fmt.Errorf("failed to write file to disk; %w", err)
	}
	return file, nil
}

func without(list []string, drop string) []string {
	out := make([]string, 0, len(list))
	for _, v := range list {
		if v != drop {
			out = append(out, v)
		}
	}
	return out
}
