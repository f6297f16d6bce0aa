package web

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"voicedesk/session"
	"voicedesk/storage"
	"voicedesk/voice"
	"voicedesk/voice/transcoding"
)

type harness struct {
	server *Server
	sess   *session.Session
	tts    *voice.StubSynthesizer
	stt    *voice.StubRecognizer
}

func newHarness(t *testing.T, opts Options) *harness {
	t.Helper()
	h := &harness{
		tts: &voice.StubSynthesizer{Speakers: []string{"Claribel Dervla"}, ReferenceAudio: true},
		stt: &voice.StubRecognizer{Transcript: "merhaba dünya"},
	}
	assets := storage.NewRegistry(time.Hour)
	dir := t.TempDir()

	sess, err := session.New(session.Options{
		Synthesizer: h.tts,
		Recognizer:  h.stt,
		TempDir:     filepath.Join(dir, "temp_audio"),
		CloneDir:    filepath.Join(dir, "voice_clones"),
		Assets:      assets,
	})
	require.NoError(t, err)

	h.sess = sess
	h.server = New(sess, assets, opts)
	return h
}

func wavSample(t *testing.T, d time.Duration) []byte {
	t.Helper()
	path := filepath.Join(t.TempDir(), "sample.wav")
	f, err := os.Create(path)
	require.NoError(t, err)
	require.NoError(t, transcoding.WriteWav(transcoding.Silence(16000, 1, d), f))
	require.NoError(t, f.Close())
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return data
}

func multipartRequest(t *testing.T, target string, audio []byte, fields map[string]string) *http.Request {
	t.Helper()
	body := &bytes.Buffer{}
	mw := multipart.NewWriter(body)
	for k, v := range fields {
		require.NoError(t, mw.WriteField(k, v))
	}
	if audio != nil {
		fw, err := mw.CreateFormFile("audio", "recording.wav")
		require.NoError(t, err)
		_, err = fw.Write(audio)
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, target, body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func formRequest(target string, values url.Values) *http.Request {
	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(values.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return req
}

func do(t *testing.T, h *harness, req *http.Request) (*httptest.ResponseRecorder, response) {
	t.Helper()
	rec := httptest.NewRecorder()
	h.server.ServeHTTP(rec, req)

	var out response
	if strings.HasPrefix(rec.Header().Get("Content-Type"), "application/json") {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	}
	return rec, out
}

func TestIndex(t *testing.T) {
	h := newHarness(t, Options{})
	rec, _ := do(t, h, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "Voice Cloning")
	// transcribe, round trip and clone can all record from the microphone
	assert.Equal(t, 3, strings.Count(body, `class="recorder"`))
	assert.Contains(t, body, "getUserMedia")
	assert.NotContains(t, body, `accept="audio/*"`)
}

func TestLanguages(t *testing.T) {
	h := newHarness(t, Options{})
	rec := httptest.NewRecorder()
	h.server.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/languages", nil))

	var labels []string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &labels))
	assert.Equal(t, []string{"Türkçe", "English"}, labels)
}

func TestHealth(t *testing.T) {
	h := newHarness(t, Options{})
	rec := httptest.NewRecorder()
	h.server.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"tts":true,"stt":true}`, rec.Body.String())
}

func TestSpeakDefaultVoice(t *testing.T) {
	h := newHarness(t, Options{})
	rec, out := do(t, h, formRequest("/api/speak", url.Values{"text": {"Hello"}, "language": {"English"}}))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "✅ Text spoken (default voice - English)", out.Status)
	require.NotEmpty(t, out.AudioURL)
	assert.True(t, strings.HasPrefix(out.AudioURL, "/assets/temp/speech_"))

	rec, _ = do(t, h, httptest.NewRequest(http.MethodGet, out.AudioURL, nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, bytes.HasPrefix(rec.Body.Bytes(), []byte("RIFF")))
}

func TestSpeakEmptyText(t *testing.T) {
	h := newHarness(t, Options{})
	rec, out := do(t, h, formRequest("/api/speak", url.Values{"text": {"  "}, "language": {"Türkçe"}}))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "⚠️ Please enter some text!", out.Status)
	assert.Equal(t, "missing_input", out.Kind)
	assert.Empty(t, out.AudioURL)
	assert.Empty(t, h.tts.Calls())
}

func TestCloneThenSpeakWithClone(t *testing.T) {
	h := newHarness(t, Options{})

	rec, out := do(t, h, multipartRequest(t, "/api/clone", wavSample(t, 6*time.Second), nil))
	require.Equal(t, http.StatusOK, rec.Code)

	active, ok := h.sess.ActiveVoice()
	require.True(t, ok)
	assert.Contains(t, out.Status, "✅ Voice cloned!")
	assert.Contains(t, out.Status, filepath.Base(active))
	assert.NotContains(t, out.Status, "best results")
	assert.Equal(t, "/assets/clone/"+filepath.Base(active), out.AudioURL)

	rec, _ = do(t, h, httptest.NewRequest(http.MethodGet, out.AudioURL, nil))
	assert.Equal(t, http.StatusOK, rec.Code)

	rec, out = do(t, h, formRequest("/api/speak", url.Values{
		"text":      {"Merhaba"},
		"language":  {"Türkçe"},
		"use_clone": {"on"},
	}))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "✅ Text spoken (cloned voice - Türkçe)", out.Status)
	assert.Equal(t, active, h.tts.Calls()[0].Reference)

	rec, out = do(t, h, httptest.NewRequest(http.MethodPost, "/api/reset", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "✅ Switched back to the default voice!", out.Status)

	rec = httptest.NewRecorder()
	h.server.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/voice", nil))
	assert.JSONEq(t, `{"active":false}`, rec.Body.String())
}

func TestCloneShortSampleWarns(t *testing.T) {
	h := newHarness(t, Options{})
	_, out := do(t, h, multipartRequest(t, "/api/clone", wavSample(t, 2*time.Second), nil))

	assert.Contains(t, out.Status, "⚠️ Samples of 5-10 seconds give the best results.")
}

func TestCloneWithoutAudio(t *testing.T) {
	h := newHarness(t, Options{})
	rec, out := do(t, h, multipartRequest(t, "/api/clone", nil, nil))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "⚠️ Please upload or record an audio sample!", out.Status)
}

func TestCloneUnsupportedContainer(t *testing.T) {
	h := newHarness(t, Options{})
	ogg := append([]byte("OggS"), make([]byte, 60)...)
	rec, out := do(t, h, multipartRequest(t, "/api/clone", ogg, nil))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "missing_input", out.Kind)
	assert.Equal(t, "⚠️ Unsupported audio format, please record in the page or upload a WAV or MP3 file.", out.Status)

	_, ok := h.sess.ActiveVoice()
	assert.False(t, ok)
}

func TestTranscribe(t *testing.T) {
	h := newHarness(t, Options{})
	rec, out := do(t, h, multipartRequest(t, "/api/transcribe", wavSample(t, time.Second), map[string]string{"language": "Türkçe"}))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "merhaba dünya", out.Transcript)
	assert.Equal(t, "📝 Detected text (Türkçe):\n\nmerhaba dünya", out.Status)

	calls := h.stt.Calls()
	require.Len(t, calls, 1)
	assert.Equal(t, voice.PrecisionFull, calls[0].Precision)
	assert.True(t, strings.HasPrefix(filepath.Base(calls[0].Path), "upload_"))
}

func TestTranscribeWithoutAudio(t *testing.T) {
	h := newHarness(t, Options{})
	rec, out := do(t, h, multipartRequest(t, "/api/transcribe", nil, map[string]string{"language": "English"}))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "⚠️ Please speak into the microphone!", out.Status)
	assert.Empty(t, h.stt.Calls())
}

func TestRoundTrip(t *testing.T) {
	h := newHarness(t, Options{})
	rec, out := do(t, h, multipartRequest(t, "/api/roundtrip", wavSample(t, time.Second), map[string]string{"language": "Türkçe"}))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "✅ Detected: merhaba dünya", out.Status)
	assert.True(t, strings.HasPrefix(out.AudioURL, "/assets/temp/cycle_"))
}

func TestRoundTripNotUnderstood(t *testing.T) {
	h := newHarness(t, Options{})
	h.stt.Transcript = "   "

	rec, out := do(t, h, multipartRequest(t, "/api/roundtrip", wavSample(t, time.Second), map[string]string{"language": "English"}))
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Equal(t, "❌ Speech could not be understood.", out.Status)
	assert.Empty(t, out.AudioURL)
	assert.Empty(t, h.tts.Calls())
}

func TestAssetRejectsUnknownFiles(t *testing.T) {
	h := newHarness(t, Options{})

	for _, target := range []string{
		"/assets/temp/speech_1_deadbeef.wav",
		"/assets/clone/clone_1_deadbeef.wav",
		"/assets/other/file.wav",
		"/assets/temp/.hidden",
	} {
		rec := httptest.NewRecorder()
		h.server.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
		assert.Equal(t, http.StatusNotFound, rec.Code, target)
	}
}

func TestRateLimit(t *testing.T) {
	h := newHarness(t, Options{RateLimit: 0.001, RateBurst: 1})

	rec, _ := do(t, h, httptest.NewRequest(http.MethodPost, "/api/reset", nil))
	assert.Equal(t, http.StatusOK, rec.Code)

	rec, out := do(t, h, httptest.NewRequest(http.MethodPost, "/api/reset", nil))
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, "rate_limited", out.Kind)
}

func TestUploadTooLarge(t *testing.T) {
	h := newHarness(t, Options{MaxUpload: 1024})
	rec, _ := do(t, h, multipartRequest(t, "/api/clone", wavSample(t, time.Second), nil))

	assert.Contains(t, []int{http.StatusBadRequest, http.StatusRequestEntityTooLarge}, rec.Code)
	_, ok := h.sess.ActiveVoice()
	assert.False(t, ok)
}
