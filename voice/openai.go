package voice

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/sashabaranov/go-openai"
	"github.com/sirupsen/logrus"

	"voicedesk/config"
	"voicedesk/lang"
)

var openAIVoices = []openai.SpeechVoice{
	openai.VoiceAlloy,
	openai.VoiceEcho,
	openai.VoiceFable,
	openai.VoiceOnyx,
	openai.VoiceNova,
	openai.VoiceShimmer,
}

func newOpenAIClient(cfg config.OpenAI) (*openai.Client, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("missing env var OPENAI_API_KEY")
	}
	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}
	return openai.NewClientWithConfig(clientCfg), nil
}

// OpenAISpeech uses the hosted OpenAI speech endpoint.
type OpenAISpeech struct {
	Model string

	client *openai.Client
	desc   Descriptor
}

func NewOpenAISpeech(cfg config.OpenAI) (*OpenAISpeech, error) {
	client, err := newOpenAIClient(cfg)
	if err != nil {
		return nil, err
	}

	speakers := make([]string, 0, len(openAIVoices))
	for _, v := range openAIVoices {
		speakers = append(speakers, string(v))
	}

	logrus.WithField("model", cfg.SpeechModel).Infoln("openai tts loaded")

	return &OpenAISpeech{
		Model:  cfg.SpeechModel,
		client: client,
		desc: Descriptor{
			Name:     "openai",
			Speakers: speakers,
		},
	}, nil
}

func (api *OpenAISpeech) Describe() Descriptor {
	return api.desc
}

func (api *OpenAISpeech) Synthesize(ctx context.Context, req Request, outdir string, name string) (string, error) {
	if req.Reference != "" {
		return "", ErrReferenceUnsupported
	}
	speaker := req.Speaker
	if speaker == "" {
		speaker = string(openai.VoiceAlloy)
	}
	if err := os.MkdirAll(outdir, 0755); err != nil {
		return "", fmt.Errorf("failed to create out dir; %w", err)
	}

	res, err := api.client.CreateSpeech(ctx, openai.CreateSpeechRequest{
		Model:          openai.SpeechModel(api.Model),
		Input:          req.Text,
		Voice:          openai.SpeechVoice(speaker),
		ResponseFormat: openai.SpeechResponseFormatWav,
	})
	if err != nil {
		return "", fmt.Errorf("failed openai tts; %w", err)
	}
	defer res.Close()

	file := filepath.Join(outdir, name+".wav")
	out, err := os.Create(file)
	if err != nil {
		return "", fmt.Errorf("failed to create output file; %w", err)
	}
	defer out.Close()

	if _, err := io.Copy(out, res); err != nil {
		return "", fmt.Errorf("failed to write file to disk; %w", err)
	}
	return file, nil
}

// OpenAIWhisper uses the hosted whisper-1 transcription endpoint.
type OpenAIWhisper struct {
	Model string

	client *openai.Client
}

func NewOpenAIWhisper(cfg config.OpenAI) (*OpenAIWhisper, error) {
	client, err := newOpenAIClient(cfg)
	if err != nil {
		return nil, err
	}
	return &OpenAIWhisper{
		Model:  cfg.TranscriptionModel,
		client: client,
	}, nil
}

// Recognize ignores precision; the hosted model does not expose it.
func (api *OpenAIWhisper) Recognize(ctx context.Context, path string, language lang.Code, precision Precision) (string, error) {
	res, err := api.client.CreateTranscription(ctx, openai.AudioRequest{
		Model:    api.Model,
		FilePath: path,
		Language: language.String(),
	})
	if err != nil {
		return "", fmt.Errorf("failed openai transcription; %w", err)
	}
	return res.Text, nil
}
