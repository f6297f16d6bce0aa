package session

import (
	"context"
	"strings"

	"github.com/sirupsen/logrus"

	"voicedesk/lang"
	"voicedesk/voice"
)

// Transcribe converts the recording at audio to text.
func (s *Session) Transcribe(ctx context.Context, audio string, language string) Result {
	res := Result{Op: OpTranscribe, Language: lang.FromLabel(language)}

	if s.stt == nil {
		return failed(res, KindEngineUnavailable, ErrNoRecognizer)
	}

	text, kind, err := s.transcribe(ctx, audio, res.Language)
	if err != nil {
		return failed(res, kind, err)
	}
	res.Transcript = text
	return res
}

// RoundTrip transcribes the recording and reads the transcript back, in the
// cloned voice when one is active.
func (s *Session) RoundTrip(ctx context.Context, audio string, language string) Result {
	res := Result{Op: OpRoundTrip, Language: lang.FromLabel(language)}

	if s.stt == nil || s.tts == nil {
		err := ErrNoRecognizer
		if s.tts == nil {
			err = ErrNoSynthesizer
		}
		return failed(res, KindEngineUnavailable, err)
	}

	text, kind, err := s.transcribe(ctx, audio, res.Language)
	if err != nil {
		return failed(res, kind, err)
	}
	res.Transcript = text

	s.mutex.Lock()
	defer s.mutex.Unlock()

	// text is never blank here, transcribe rejects it first
	p, err := s.builder.Build(text, res.Language, true, &s.profiles)
	if err != nil {
		return failed(res, KindMissingInput, err)
	}
	res.Plan = p

	path, err := s.synthesize(ctx, p, "cycle")
	if err != nil {
		return failed(res, KindEngineFailure, err)
	}
	res.Asset = path
	return res
}

// transcribe runs recognition at full precision and trims the result.
func (s *Session) transcribe(ctx context.Context, audio string, language lang.Code) (string, Kind, error) {
	if audio == "" {
		return "", KindMissingInput, ErrMissingAudio
	}

	s.mutex.Lock()
	raw, err := s.stt.Recognize(ctx, audio, language, voice.PrecisionFull)
	s.mutex.Unlock()
	if err != nil {
		logrus.
			WithError(err).
			WithField("language", language).
			Errorln("failed transcription")

		return "", KindEngineFailure, err
	}

	text := strings.TrimSpace(raw)
	if text == "" {
		return "", KindNotUnderstood, ErrNotUnderstood
	}

	logrus.
		WithField("text", text).
		WithField("language", language).
		Debug("transcribed")

	return text, KindNone, nil
}
