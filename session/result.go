package session

import (
	"time"

	"voicedesk/lang"
	"voicedesk/plan"
)

type Op string

const (
	OpSpeak      Op = "speak"
	OpTranscribe Op = "transcribe"
	OpRoundTrip  Op = "roundtrip"
	OpClone      Op = "clone"
	OpReset      Op = "reset"
)

// recommended length of a clone sample
const (
	MinCloneSample = 5 * time.Second
	MaxCloneSample = 10 * time.Second
)

// Result is the outcome of one operation. Err is nil on success and a *Error
// otherwise; the remaining fields are filled as far as the operation got.
type Result struct {
	Op       Op
	Language lang.Code
	// Asset is the produced audio file, empty when none was produced.
	Asset      string
	Plan       plan.Plan
	Transcript string
	Clone      *CloneInfo
	Err        error
}

func (r Result) OK() bool {
	return r.Err == nil
}

func (r Result) Kind() Kind {
	return KindOf(r.Err)
}

// CloneInfo describes a stored clone sample.
type CloneInfo struct {
	Name     string
	Duration time.Duration
	Size     int64
}

// Recommended reports whether the sample length is within the advised window.
func (c CloneInfo) Recommended() bool {
	return c.Duration >= MinCloneSample && c.Duration <= MaxCloneSample
}

func failed(res Result, kind Kind, err error) Result {
	res.Err = &Error{Op: res.Op, Kind: kind, Err: err}
	return res
}
