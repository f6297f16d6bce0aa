package session

import (
	"context"
	"path/filepath"

	"github.com/sirupsen/logrus"

	"voicedesk/lang"
	"voicedesk/plan"
)

// Speak reads text aloud in the labelled language. With useClone the active
// cloned voice is used when one exists, otherwise the engine default.
func (s *Session) Speak(ctx context.Context, text string, language string, useClone bool) Result {
	res := Result{Op: OpSpeak, Language: lang.FromLabel(language)}

	if s.tts == nil {
		return failed(res, KindEngineUnavailable, ErrNoSynthesizer)
	}

	// the plan is resolved under the lock so a concurrent clone cannot remove
	// the reference file in between
	s.mutex.Lock()
	defer s.mutex.Unlock()

	p, err := s.builder.Build(text, res.Language, useClone, &s.profiles)
	if err != nil {
		return failed(res, KindMissingInput, err)
	}
	res.Plan = p

	path, err := s.synthesize(ctx, p, "speech")
	if err != nil {
		return failed(res, KindEngineFailure, err)
	}
	res.Asset = path
	return res
}

// synthesize must be called with the session mutex held.
func (s *Session) synthesize(ctx context.Context, p plan.Plan, prefix string) (string, error) {
	name := s.NewAssetName(prefix)
	path, err := s.tts.Synthesize(ctx, p.Request(), s.tempDir, name)
	if err != nil {
		logrus.
			WithError(err).
			WithField("plan", p.Kind).
			WithField("language", p.Language).
			Errorln("failed to synthesize speech")

		return "", err
	}
	s.track(path)
	s.mirrorAsset(ctx, path)

	logrus.WithFields(logrus.Fields{
		"file":     filepath.Base(path),
		"plan":     p.Kind,
		"speaker":  p.Speaker,
		"language": p.Language,
	}).Infoln("speech synthesized")

	return path, nil
}
