package voice

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"voicedesk/lang"
)

// writes whisper style json output into the --output_dir argument
func fakeWhisper(output string) runFunc {
	return func(_ context.Context, _ []string, _ string, args ...string) ([]byte, error) {
		var outdir string
		for i, arg := range args {
			if arg == "--output_dir" {
				outdir = args[i+1]
			}
		}
		base := filepath.Base(args[0])
		base = base[:len(base)-len(filepath.Ext(base))]
		return nil, os.WriteFile(filepath.Join(outdir, base+".json"), []byte(output), 0644)
	}
}

func TestParseWhisperJSON(t *testing.T) {
	text, err := parseWhisperJSON([]byte(`{"text": " Merhaba dünya.", "language": "tr"}`))
	require.NoError(t, err)
	assert.Equal(t, " Merhaba dünya.", text)

	text, err = parseWhisperJSON([]byte(`{"segments": [{"text": " Hello"}, {"text": " world "}]}`))
	require.NoError(t, err)
	assert.Equal(t, "Hello world", text)

	_, err = parseWhisperJSON([]byte(`{"text": 12}`))
	assert.Error(t, err)
}

func TestWhisperArgs(t *testing.T) {
	w := &Whisper{Binary: "whisper", Model: "base"}

	args := w.args("in.wav", lang.Turkish, PrecisionFull, "out")
	assert.Equal(t, "in.wav", args[0])
	assert.Equal(t, []string{"--fp16", "False"}, args[7:9])
	assert.Contains(t, args, "tr")

	args = w.args("in.wav", lang.English, PrecisionReduced, "out")
	assert.Equal(t, []string{"--fp16", "True"}, args[7:9])
}

func TestWhisperRecognize(t *testing.T) {
	w := &Whisper{Binary: "whisper", Model: "base", run: fakeWhisper(`{"text": " Hello there "}`)}

	text, err := w.Recognize(context.Background(), filepath.Join(t.TempDir(), "mic.wav"), lang.English, PrecisionFull)
	require.NoError(t, err)
	assert.Equal(t, " Hello there ", text)
}

func TestWhisperRecognizeFailure(t *testing.T) {
	w := &Whisper{
		Binary: "whisper",
		Model:  "base",
		run: func(context.Context, []string, string, ...string) ([]byte, error) {
			return nil, errors.New("exit status 1")
		},
	}

	_, err := w.Recognize(context.Background(), "mic.wav", lang.English, PrecisionFull)
	assert.Error(t, err)
}
