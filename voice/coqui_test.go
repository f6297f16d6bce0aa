package voice

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"voicedesk/config"
	"voicedesk/lang"
)

const speakerListing = ` > tts_models/multilingual/multi-dataset/xtts_v2 is already downloaded.
 > Using model: xtts
 > Available speaker ids: (Set --speaker_idx flag to one of these values to use the multi-speaker model.
dict_keys(['Claribel Dervla', 'Daisy Studious', 'Gracie Wise'])
`

type fakeRun struct {
	out   []byte
	err   error
	calls [][]string
	envs  [][]string
}

func (f *fakeRun) run(_ context.Context, env []string, name string, args ...string) ([]byte, error) {
	f.calls = append(f.calls, append([]string{name}, args...))
	f.envs = append(f.envs, env)
	return f.out, f.err
}

func testCoquiConfig() config.Coqui {
	return config.Coqui{
		Binary: "tts",
		Model:  "tts_models/multilingual/multi-dataset/xtts_v2",
	}
}

func TestParseSpeakerList(t *testing.T) {
	speakers := parseSpeakerList([]byte(speakerListing))
	assert.Equal(t, []string{"Claribel Dervla", "Daisy Studious", "Gracie Wise"}, speakers)

	assert.Empty(t, parseSpeakerList([]byte(" > Using model: tacotron2\n")))
	assert.Equal(t, []string{"p225"}, parseSpeakerList([]byte("['p225']\n")))
}

func TestNewCoquiListsSpeakersOnce(t *testing.T) {
	fake := &fakeRun{out: []byte(speakerListing)}
	c, err := newCoqui(context.Background(), testCoquiConfig(), fake.run)
	require.NoError(t, err)

	desc := c.Describe()
	assert.Equal(t, "coqui", desc.Name)
	assert.True(t, desc.ReferenceAudio)
	assert.Equal(t, "Claribel Dervla", desc.Speakers[0])

	c.Describe()
	assert.Len(t, fake.calls, 1)
	assert.Contains(t, fake.calls[0], "--list_speaker_idxs")
	assert.Contains(t, fake.envs[0], "COQUI_TOS_AGREED=1")
}

func TestNewCoquiLoadFailure(t *testing.T) {
	fake := &fakeRun{err: errors.New("exit status 1")}
	_, err := newCoqui(context.Background(), testCoquiConfig(), fake.run)
	assert.Error(t, err)
}

func TestCoquiArgs(t *testing.T) {
	c := &Coqui{Model: "xtts"}

	args := c.args(Request{Text: "Merhaba", Language: lang.Turkish, Reference: "clone.wav"}, "out.wav")
	assert.Equal(t, []string{
		"--model_name", "xtts",
		"--text", "Merhaba",
		"--out_path", "out.wav",
		"--language_idx", "tr",
		"--speaker_wav", "clone.wav",
	}, args)

	args = c.args(Request{Text: "Hello", Language: lang.English, Speaker: "Gracie Wise"}, "out.wav")
	assert.Contains(t, args, "--speaker_idx")
	assert.NotContains(t, args, "--speaker_wav")

	args = c.args(Request{Text: "Hello", Language: lang.English}, "out.wav")
	assert.NotContains(t, args, "--speaker_idx")
	assert.NotContains(t, args, "--speaker_wav")

	c.UseCUDA = true
	args = c.args(Request{Text: "Hello", Language: lang.English}, "out.wav")
	assert.Equal(t, []string{"--use_cuda", "true"}, args[len(args)-2:])
}

func TestCoquiSynthesize(t *testing.T) {
	fake := &fakeRun{out: []byte(speakerListing)}
	c, err := newCoqui(context.Background(), testCoquiConfig(), fake.run)
	require.NoError(t, err)

	outdir := filepath.Join(t.TempDir(), "temp_audio")
	path, err := c.Synthesize(context.Background(), Request{Text: "Hello", Language: lang.English}, outdir, "speech_1")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(outdir, "speech_1.wav"), path)

	_, err = os.Stat(outdir)
	assert.NoError(t, err)
	assert.Len(t, fake.calls, 2)

	fake.err = errors.New("exit status 1")
	_, err = c.Synthesize(context.Background(), Request{Text: "Hello", Language: lang.English}, outdir, "speech_2")
	assert.Error(t, err)
}

func TestLastLine(t *testing.T) {
	assert.Equal(t, "RuntimeError: boom", lastLine([]byte("Traceback\n  File x\nRuntimeError: boom\n\n")))
	assert.Equal(t, "", lastLine(nil))
}
