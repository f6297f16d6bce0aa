// Package plan decides which voice a synthesis call uses.
package plan

import (
	"errors"
	"os"
	"strings"

	"voicedesk/lang"
	"voicedesk/profile"
	"voicedesk/voice"
)

var ErrMissingText = errors.New("text is empty")

type Kind int

const (
	UseBareDefault Kind = iota
	UseNamedDefaultSpeaker
	UseClonedVoice
)

func (k Kind) String() string {
	switch k {
	case UseClonedVoice:
		return "cloned voice"
	case UseNamedDefaultSpeaker:
		return "named default speaker"
	default:
		return "bare default"
	}
}

// Plan is the resolved speaker choice for one synthesis call.
type Plan struct {
	Kind     Kind
	Text     string
	Language lang.Code
	// set for UseNamedDefaultSpeaker
	Speaker string
	// set for UseClonedVoice
	Reference string
}

// Cloned reports whether the plan speaks with the cloned voice.
func (p Plan) Cloned() bool {
	return p.Kind == UseClonedVoice
}

// Request turns the plan into an engine request.
func (p Plan) Request() voice.Request {
	req := voice.Request{Text: p.Text, Language: p.Language}
	switch p.Kind {
	case UseClonedVoice:
		req.Reference = p.Reference
	case UseNamedDefaultSpeaker:
		req.Speaker = p.Speaker
	}
	return req
}

// Builder resolves plans against the capabilities of the loaded engine.
type Builder struct {
	speakers  []string
	reference bool
	exists    func(path string) bool
}

func NewBuilder(desc voice.Descriptor) *Builder {
	return &Builder{
		speakers:  desc.Speakers,
		reference: desc.ReferenceAudio,
		exists:    fileExists,
	}
}

// Build picks, in order: the active cloned voice when requested and its file
// is still on disk, the first speaker the engine reported, or the engine's
// own default. It never calls the engine.
func (b *Builder) Build(text string, language lang.Code, useClone bool, profiles profile.Reader) (Plan, error) {
	if strings.TrimSpace(text) == "" {
		return Plan{}, ErrMissingText
	}

	p := Plan{Text: text, Language: language}

	if useClone && b.reference {
		// existence is checked on every call, the file may have been removed
		if path, ok := profiles.Active(); ok && b.exists(path) {
			p.Kind = UseClonedVoice
			p.Reference = path
			return p, nil
		}
	}

	if len(b.speakers) > 0 {
		p.Kind = UseNamedDefaultSpeaker
		p.Speaker = b.speakers[0]
		return p, nil
	}

	p.Kind = UseBareDefault
	return p, nil
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
