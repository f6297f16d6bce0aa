package voice

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/buger/jsonparser"
	"github.com/sirupsen/logrus"

	"voicedesk/config"
	"voicedesk/lang"
)

// Whisper runs the openai-whisper command line tool against a local model.
type Whisper struct {
	Binary string
	Model  string

	run runFunc
}

func NewWhisper(cfg config.Whisper) *Whisper {
	return &Whisper{
		Binary: cfg.Binary,
		Model:  cfg.Model,
		run:    runCommand,
	}
}

// Check verifies the binary can be started.
func (w *Whisper) Check(ctx context.Context) error {
	if _, err := w.run(ctx, nil, w.Binary, "--help"); err != nil {
		return fmt.Errorf("failed to start whisper; %w", err)
	}
	return nil
}

func (w *Whisper) Recognize(ctx context.Context, path string, language lang.Code, precision Precision) (string, error) {
	outdir, err := os.MkdirTemp("", "whisper-")
	if err != nil {
		return "", fmt.Errorf("failed to create whisper out dir; %w", err)
	}
	defer os.RemoveAll(outdir)

	if _, err := w.run(ctx, nil, w.Binary, w.args(path, language, precision, outdir)...); err != nil {
		return "", fmt.Errorf("failed whisper transcription; %w", err)
	}

	// whisper names its output after the input file
	base := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	data, err := os.ReadFile(filepath.Join(outdir, base+".json"))
	if err != nil {
		return "", fmt.Errorf("failed to read whisper output; %w", err)
	}

	text, err := parseWhisperJSON(data)
	if err != nil {
		return "", err
	}

	logrus.
		WithField("file", filepath.Base(path)).
		WithField("language", language).
		WithField("precision", precision).
		Debugln("whisper transcription done")

	return text, nil
}

func (w *Whisper) args(path string, language lang.Code, precision Precision, outdir string) []string {
	fp16 := "False"
	if precision == PrecisionReduced {
		fp16 = "True"
	}
	return []string{
		path,
		"--model", w.Model,
		"--language", language.String(),
		"--task", "transcribe",
		"--fp16", fp16,
		"--output_format", "json",
		"--output_dir", outdir,
		"--verbose", "False",
	}
}

func parseWhisperJSON(data []byte) (string, error) {
	text, err := jsonparser.GetString(data, "text")
	if err == nil {
		return text, nil
	}
	if err != jsonparser.KeyPathNotFoundError {
		return "", fmt.Errorf("failed to parse whisper output; %w", err)
	}

	// older releases only fill the segments
	var parts []string
	_, err = jsonparser.ArrayEach(data, func(value []byte, _ jsonparser.ValueType, _ int, _ error) {
		if segment, err := jsonparser.GetString(value, "text"); err == nil {
			parts = append(parts, strings.TrimSpace(segment))
		}
	}, "segments")
	if err != nil {
		return "", fmt.Errorf("failed to parse whisper segments; %w", err)
	}
	return strings.Join(parts, " "), nil
}
