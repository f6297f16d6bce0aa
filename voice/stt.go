package voice

import (
	"context"

	"voicedesk/lang"
)

// Precision selects the inference precision of a recognizer.
type Precision int

const (
	// PrecisionFull disables reduced precision (fp16) inference.
	PrecisionFull Precision = iota
	PrecisionReduced
)

func (p Precision) String() string {
	if p == PrecisionReduced {
		return "reduced"
	}
	return "full"
}

// Recognizer converts recorded speech to text.
type Recognizer interface {
	// Recognize returns the raw transcript of the audio file at path.
	// Trimming and empty handling are left to the caller.
	Recognize(ctx context.Context, path string, language lang.Code, precision Precision) (string, error)
}
