package session

import (
	"context"
	"errors"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"

	"voicedesk/voice/transcoding"
)

// CloneVoice stores a normalized copy of the recording and makes it the
// active voice. Only the latest clone is kept; the file of the previously
// stored clone is deleted, whether or not it was still active.
func (s *Session) CloneVoice(ctx context.Context, audio string) Result {
	res := Result{Op: OpClone}

	if audio == "" {
		return failed(res, KindMissingInput, ErrMissingAudio)
	}

	s.mutex.Lock()
	defer s.mutex.Unlock()

	dst := filepath.Join(s.cloneDir, s.NewAssetName("clone")+".wav")
	info, err := transcoding.Normalize(audio, dst)
	if err != nil {
		logrus.WithError(err).WithField("source", audio).Errorln("failed to store clone sample")
		if errors.Is(err, transcoding.ErrUnsupportedFormat) || errors.Is(err, transcoding.ErrEmptyAudio) {
			return failed(res, KindMissingInput, err)
		}
		return failed(res, KindEngineFailure, err)
	}

	s.profiles.SetActive(dst)

	// a reset clears the profile but not lastClone
	prev := s.lastClone
	s.lastClone = dst
	if prev != "" && prev != dst {
		if err := os.Remove(prev); err != nil && !os.IsNotExist(err) {
			logrus.WithError(err).WithField("file", prev).Warnln("failed to remove previous clone")
		}
	}
	s.mirrorAsset(ctx, dst)

	res.Asset = dst
	res.Clone = &CloneInfo{
		Name:     filepath.Base(dst),
		Duration: info.Duration,
		Size:     info.Size,
	}

	entry := logrus.WithFields(logrus.Fields{
		"file":     res.Clone.Name,
		"duration": info.Duration,
	})
	if prev != "" {
		entry = entry.WithField("replaced", filepath.Base(prev))
	}
	entry.Infoln("voice cloned")

	return res
}

// ResetVoice returns to the default voice. The clone file stays on disk
// until the next clone replaces it.
func (s *Session) ResetVoice() Result {
	s.profiles.Clear()
	logrus.Infoln("voice reset to default")
	return Result{Op: OpReset}
}
