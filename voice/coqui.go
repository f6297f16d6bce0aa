package voice

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/sirupsen/logrus"

	"voicedesk/config"
)

const coquiName = "coqui"

var quotedName = regexp.MustCompile(`'([^']+)'`)

// Coqui drives the Coqui TTS command line tool. The default model is
// XTTS v2 which is multilingual and clones voices from a short recording.
type Coqui struct {
	Binary  string
	Model   string
	UseCUDA bool

	desc Descriptor
	run  runFunc
}

// NewCoqui prepares the engine and asks the model for its speaker list once.
func NewCoqui(ctx context.Context, cfg config.Coqui) (*Coqui, error) {
	return newCoqui(ctx, cfg, runCommand)
}

func newCoqui(ctx context.Context, cfg config.Coqui, run runFunc) (*Coqui, error) {
	c := &Coqui{
		Binary:  cfg.Binary,
		Model:   cfg.Model,
		UseCUDA: cfg.UseCUDA,
		run:     run,
	}

	out, err := c.run(ctx, c.env(), c.Binary, "--model_name", c.Model, "--list_speaker_idxs")
	if err != nil {
		return nil, fmt.Errorf("failed to load coqui model %s; %w", c.Model, err)
	}

	c.desc = Descriptor{
		Name:           coquiName,
		Speakers:       parseSpeakerList(out),
		ReferenceAudio: true,
	}

	logrus.WithFields(logrus.Fields{
		"model":    c.Model,
		"speakers": len(c.desc.Speakers),
		"cuda":     c.UseCUDA,
	}).Infoln("coqui tts loaded")

	return c, nil
}

func (c *Coqui) Describe() Descriptor {
	return c.desc
}

func (c *Coqui) Synthesize(ctx context.Context, req Request, outdir string, name string) (string, error) {
	if err := os.MkdirAll(outdir, 0755); err != nil {
		return "", fmt.Errorf("failed to create out dir; %w", err)
	}
	file := filepath.Join(outdir, name+".wav")

	if _, err := c.run(ctx, c.env(), c.Binary, c.args(req, file)...); err != nil {
		return "", fmt.Errorf("failed coqui tts; %w", err)
	}
	return file, nil
}

func (c *Coqui) args(req Request, file string) []string {
	args := []string{
		"--model_name", c.Model,
		"--text", req.Text,
		"--out_path", file,
		"--language_idx", req.Language.String(),
	}
	switch {
	case req.Reference != "":
		args = append(args, "--speaker_wav", req.Reference)
	case req.Speaker != "":
		args = append(args, "--speaker_idx", req.Speaker)
	}
	if c.UseCUDA {
		args = append(args, "--use_cuda", "true")
	}
	return args
}

// XTTS asks for the license on first use
func (c *Coqui) env() []string {
	return []string{"COQUI_TOS_AGREED=1"}
}

// parseSpeakerList extracts speaker names from the --list_speaker_idxs output,
// which prints them as a python dict_keys([...]) or list literal.
func parseSpeakerList(out []byte) []string {
	var speakers []string
	for _, line := range strings.Split(string(out), "\n") {
		start := strings.Index(line, "[")
		if start < 0 {
			continue
		}
		for _, match := range quotedName.FindAllStringSubmatch(line[start:], -1) {
			speakers = append(speakers, match[1])
		}
		if len(speakers) > 0 {
			break
		}
	}
	return speakers
}
