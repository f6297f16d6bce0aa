package voice

import (
	"context"
	"errors"

	"voicedesk/lang"
)

var (
	ErrReferenceUnsupported = errors.New("engine does not accept reference audio")
	ErrNoSpeaker            = errors.New("engine needs a speaker and none is available")
)

// Request is a single synthesis call.
// At most one of Speaker and Reference is set; neither means the engine default.
type Request struct {
	Text      string
	Language  lang.Code
	Speaker   string // named speaker id
	Reference string // path to a recording of the voice to clone
}

// Descriptor describes what a loaded engine can do. It is resolved once
// when the engine is loaded and does not change afterwards.
type Descriptor struct {
	Name string
	// Speakers lists named speakers in engine order. Empty when the engine
	// has no speaker selection.
	Speakers []string
	// ReferenceAudio is true when the engine can clone a voice from a recording.
	ReferenceAudio bool
}

// Synthesizer converts text to speech.
type Synthesizer interface {
	Describe() Descriptor
	// Synthesize renders the request into outdir/name.<ext> and returns the
	// path of the written file. The extension is chosen by the engine.
	Synthesize(ctx context.Context, req Request, outdir string, name string) (string, error)
}
