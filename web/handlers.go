package web

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/sirupsen/logrus"

	"voicedesk/lang"
	"voicedesk/session"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logrus.WithError(err).Warnln("failed to write response")
	}
}

func writeResult(w http.ResponseWriter, res session.Result) {
	writeJSON(w, statusCode(res.Kind()), render(res))
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	tts, stt := s.session.Engines()
	status := http.StatusOK
	if !tts || !stt {
		status = http.StatusServiceUnavailable
	}
	writeJSON(w, status, map[string]bool{"tts": tts, "stt": stt})
}

func (s *Server) languages(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, lang.Labels())
}

func (s *Server) activeVoice(w http.ResponseWriter, r *http.Request) {
	out := map[string]any{"active": false}
	if path, ok := s.session.ActiveVoice(); ok {
		out["active"] = true
		out["name"] = filepath.Base(path)
		out["audio_url"] = "/assets/clone/" + filepath.Base(path)
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) speak(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		writeJSON(w, http.StatusBadRequest, response{Status: fmt.Sprintf("❌ Error: %v", err), Kind: session.KindMissingInput.String()})
		return
	}
	res := s.session.Speak(r.Context(), r.FormValue("text"), r.FormValue("language"), checked(r.FormValue("use_clone")))
	writeResult(w, res)
}

func (s *Server) transcribe(w http.ResponseWriter, r *http.Request) {
	audio, ok := s.upload(w, r)
	if !ok {
		return
	}
	writeResult(w, s.session.Transcribe(r.Context(), audio, r.FormValue("language")))
}

func (s *Server) roundTrip(w http.ResponseWriter, r *http.Request) {
	audio, ok := s.upload(w, r)
	if !ok {
		return
	}
	writeResult(w, s.session.RoundTrip(r.Context(), audio, r.FormValue("language")))
}

func (s *Server) clone(w http.ResponseWriter, r *http.Request) {
	audio, ok := s.upload(w, r)
	if !ok {
		return
	}
	writeResult(w, s.session.CloneVoice(r.Context(), audio))
}

func (s *Server) reset(w http.ResponseWriter, r *http.Request) {
	writeResult(w, s.session.ResetVoice())
}

// upload stores the "audio" form file in the temp dir. A request without a
// file yields an empty path, which the session reports as missing input.
func (s *Server) upload(w http.ResponseWriter, r *http.Request) (string, bool) {
	if s.opts.MaxUpload > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, s.opts.MaxUpload)
	}
	if err := r.ParseMultipartForm(32 << 20); err != nil && !errors.Is(err, http.ErrNotMultipart) {
		status := http.StatusBadRequest
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			status = http.StatusRequestEntityTooLarge
		}
		writeJSON(w, status, response{Status: fmt.Sprintf("❌ Error: %v", err), Kind: session.KindMissingInput.String()})
		return "", false
	}

	file, header, err := r.FormFile("audio")
	if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
		return "", true
	}
	if err != nil {
		writeJSON(w, http.StatusBadRequest, response{Status: fmt.Sprintf("❌ Error: %v", err), Kind: session.KindMissingInput.String()})
		return "", false
	}
	defer file.Close()

	path := filepath.Join(s.session.TempDir(), s.session.NewAssetName("upload")+uploadExt(header.Filename))
	if err := saveUpload(file, path); err != nil {
		logrus.WithError(err).Errorln("failed to store upload")
		writeJSON(w, http.StatusInternalServerError, response{Status: fmt.Sprintf("❌ Error: %v", err), Kind: session.KindEngineFailure.String()})
		return "", false
	}
	s.assets.Track(path)

	logrus.
		WithField("file", filepath.Base(path)).
		WithField("original", header.Filename).
		WithField("size", header.Size).
		Debugln("upload stored")

	return path, true
}

func saveUpload(src io.Reader, path string) error {
	out, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create upload file; %w", err)
	}
	if _, err := io.Copy(out, src); err != nil {
		out.Close()
		os.Remove(path)
		return fmt.Errorf("failed to write upload file; %w", err)
	}
	return out.Close()
}

// only containers the clone decoder reads keep their extension
func uploadExt(filename string) string {
	ext := strings.ToLower(filepath.Ext(filename))
	switch ext {
	case ".wav", ".mp3":
		return ext
	default:
		return ".wav"
	}
}

// checkbox values sent by browsers and api clients
func checked(v string) bool {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "1", "true", "on", "yes":
		return true
	default:
		return false
	}
}

func (s *Server) asset(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	if name != filepath.Base(name) || strings.HasPrefix(name, ".") {
		http.NotFound(w, r)
		return
	}

	var path string
	switch chi.URLParam(r, "kind") {
	case "temp":
		p, ok := s.assets.Lookup(name)
		if !ok {
			http.NotFound(w, r)
			return
		}
		path = p
	case "clone":
		active, ok := s.session.ActiveVoice()
		if !ok || filepath.Base(active) != name {
			http.NotFound(w, r)
			return
		}
		path = active
	default:
		http.NotFound(w, r)
		return
	}

	http.ServeFile(w, r, path)
}
