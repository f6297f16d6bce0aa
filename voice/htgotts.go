package voice

import (
	"context"
	"errors"
	"fmt"
	"os"

	htgotts "github.com/hegedustibor/htgo-tts"
	"github.com/sirupsen/logrus"
)

// size of the mp3 google returns when it refuses a line
const badSpeechSize = 1685

// Google uses the public Google Translate voice. It has a single voice per
// language, so it never offers speakers or cloning.
type Google struct{}

func (api *Google) Describe() Descriptor {
	return Descriptor{Name: "google"}
}

func (api *Google) Synthesize(ctx context.Context, req Request, outdir string, name string) (string, error) {
	if req.Reference != "" {
		return "", ErrReferenceUnsupported
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if err := os.MkdirAll(outdir, 0755); err != nil {
		return "", fmt.Errorf("failed to create out dir; %w", err)
	}

	speech := htgotts.Speech{Folder: outdir, Language: req.Language.String()}
	path, err := speech.CreateSpeechFile(req.Text, name)
	if err != nil {
		return "", fmt.Errorf("failed google tts; %w", err)
	}

	info, err := os.Stat(path)
	if err != nil {
		return "", err
	}
	if info.Size() == badSpeechSize {
		logrus.WithField("line", req.Text).Infoln("htgotts returned bad MP3file")
		os.Remove(path)
		return "", errors.New("failed to gen speech - line too long")
	}
	return path, nil
}
