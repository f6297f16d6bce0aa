// Package session runs the assistant's user facing operations against the
// loaded engines and owns the active cloned voice.
package session

import (
	"context"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"voicedesk/plan"
	"voicedesk/profile"
	"voicedesk/voice"
)

// Tracker takes ownership of temporary files.
type Tracker interface {
	Track(path string)
}

// Mirror copies produced files somewhere else.
type Mirror interface {
	Mirror(ctx context.Context, path string) error
}

type Options struct {
	// nil when the engine failed to load
	Synthesizer voice.Synthesizer
	Recognizer  voice.Recognizer

	TempDir  string
	CloneDir string

	// optional
	Assets Tracker
	Mirror Mirror
}

// Session is created once at start and shared by every request.
type Session struct {
	tts     voice.Synthesizer
	stt     voice.Recognizer
	builder *plan.Builder

	profiles profile.Store
	// newest clone file on disk, guarded by mutex
	lastClone string

	tempDir  string
	cloneDir string
	assets   Tracker
	mirror   Mirror

	// one engine call at a time
	mutex sync.Mutex
	now   func() time.Time
}

func New(opts Options) (*Session, error) {
	for _, dir := range []string{opts.TempDir, opts.CloneDir} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create %s; %w", dir, err)
		}
	}

	s := &Session{
		tts:      opts.Synthesizer,
		stt:      opts.Recognizer,
		tempDir:  opts.TempDir,
		cloneDir: opts.CloneDir,
		assets:   opts.Assets,
		mirror:   opts.Mirror,
		now:      time.Now,
	}
	if s.tts != nil {
		s.builder = plan.NewBuilder(s.tts.Describe())
	}

	logrus.WithFields(logrus.Fields{
		"tts":      s.tts != nil,
		"stt":      s.stt != nil,
		"temp_dir": s.tempDir,
		"clones":   s.cloneDir,
	}).Infoln("session ready")

	return s, nil
}

// Engines reports which engines are loaded.
func (s *Session) Engines() (tts bool, stt bool) {
	return s.tts != nil, s.stt != nil
}

// ActiveVoice returns the active cloned voice file, if any.
func (s *Session) ActiveVoice() (string, bool) {
	return s.profiles.Active()
}

// TempDir is where generated and uploaded audio is written.
func (s *Session) TempDir() string {
	return s.tempDir
}

// CloneDir is where clone samples are stored.
func (s *Session) CloneDir() string {
	return s.cloneDir
}

// NewAssetName returns a fresh, collision resistant file name stem.
func (s *Session) NewAssetName(prefix string) string {
	return assetName(prefix, s.now())
}

func (s *Session) track(path string) {
	if s.assets != nil {
		s.assets.Track(path)
	}
}

// mirror failures never fail the operation
func (s *Session) mirrorAsset(ctx context.Context, path string) {
	if s.mirror == nil {
		return
	}
	if err := s.mirror.Mirror(ctx, path); err != nil {
		logrus.WithError(err).WithField("file", path).Warnln("failed to mirror audio")
	}
}
