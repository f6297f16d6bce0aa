package web

import (
	"errors"
	"fmt"
	"net/http"
	"path/filepath"

	"github.com/dustin/go-humanize"

	"voicedesk/session"
	"voicedesk/voice/transcoding"
)

type response struct {
	Status     string `json:"status"`
	AudioURL   string `json:"audio_url,omitempty"`
	Transcript string `json:"transcript,omitempty"`
	Kind       string `json:"kind,omitempty"`
}

// render turns an operation result into the message shown in its panel.
func render(res session.Result) response {
	if !res.OK() {
		return response{
			Status: failureMessage(res),
			Kind:   res.Kind().String(),
		}
	}

	out := response{Transcript: res.Transcript}
	if res.Asset != "" {
		out.AudioURL = assetURL(res)
	}

	switch res.Op {
	case session.OpSpeak:
		voice := "default voice"
		if res.Plan.Cloned() {
			voice = "cloned voice"
		}
		out.Status = fmt.Sprintf("✅ Text spoken (%s - %s)", voice, res.Language.Label())
	case session.OpTranscribe:
		out.Status = fmt.Sprintf("📝 Detected text (%s):\n\n%s", res.Language.Label(), res.Transcript)
	case session.OpRoundTrip:
		out.Status = fmt.Sprintf("✅ Detected: %s", res.Transcript)
	case session.OpClone:
		out.Status = cloneMessage(res.Clone)
	case session.OpReset:
		out.Status = "✅ Switched back to the default voice!"
	}
	return out
}

func failureMessage(res session.Result) string {
	switch res.Kind() {
	case session.KindEngineUnavailable:
		switch res.Op {
		case session.OpTranscribe:
			return "❌ Whisper is not ready!"
		case session.OpRoundTrip:
			return "❌ Engines are not ready!"
		default:
			return "❌ TTS engine is not ready!"
		}
	case session.KindMissingInput:
		switch res.Op {
		case session.OpSpeak:
			return "⚠️ Please enter some text!"
		case session.OpClone:
			if errors.Is(res.Err, transcoding.ErrUnsupportedFormat) {
				return "⚠️ Unsupported audio format, please record in the page or upload a WAV or MP3 file."
			}
			if errors.Is(res.Err, transcoding.ErrEmptyAudio) {
				return "⚠️ The audio sample is empty!"
			}
			return "⚠️ Please upload or record an audio sample!"
		default:
			return "⚠️ Please speak into the microphone!"
		}
	case session.KindNotUnderstood:
		return "❌ Speech could not be understood."
	default:
		return fmt.Sprintf("❌ Error: %v", errorCause(res.Err))
	}
}

func cloneMessage(info *session.CloneInfo) string {
	if info == nil {
		return "✅ Voice cloned!"
	}
	msg := fmt.Sprintf("✅ Voice cloned!\n📁 File: %s (%.1fs, %s)", info.Name, info.Duration.Seconds(), humanize.Bytes(uint64(info.Size)))
	if !info.Recommended() {
		msg += fmt.Sprintf("\n⚠️ Samples of %d-%d seconds give the best results.",
			int(session.MinCloneSample.Seconds()), int(session.MaxCloneSample.Seconds()))
	}
	return msg + "\n\n💡 Tick 'Use cloned voice' in the Text-to-Speech panel."
}

// the engine error without the session prefix
func errorCause(err error) error {
	if serr, ok := err.(*session.Error); ok && serr.Err != nil {
		return serr.Err
	}
	return err
}

func assetURL(res session.Result) string {
	kind := "temp"
	if res.Op == session.OpClone {
		kind = "clone"
	}
	return fmt.Sprintf("/assets/%s/%s", kind, filepath.Base(res.Asset))
}

func statusCode(kind session.Kind) int {
	switch kind {
	case session.KindNone:
		return http.StatusOK
	case session.KindMissingInput:
		return http.StatusBadRequest
	case session.KindNotUnderstood:
		return http.StatusUnprocessableEntity
	case session.KindEngineUnavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
