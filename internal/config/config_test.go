package config

import (
	"flag"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const job = `
effect: timeoffset
inputs: [clip.mp4]
output: out
start: 1
end: 50
context: general
params:
  time_offset: "5"
  reverse_input: "true"
`

func TestParse(t *testing.T) {
	j, err := Parse([]byte(job))
	require.NoError(t, err)

	assert.Equal(t, "timeoffset", j.Effect)
	assert.Equal(t, []string{"clip.mp4"}, j.Inputs)
	assert.Equal(t, "general", j.Context)
	require.NotNil(t, j.Start)
	require.NotNil(t, j.End)
	assert.Equal(t, 1, *j.Start)
	assert.Equal(t, 50, *j.End)
	assert.Equal(t, []string{"reverse_input", "time_offset"}, j.ParamNames())

	// Defaults survive unset keys.
	assert.Equal(t, 25.0, j.FPS)
	assert.Equal(t, "bilinear", j.Scaler)
	assert.NoError(t, j.Validate())
}

func TestParseInvalid(t *testing.T) {
	_, err := Parse([]byte("inputs: {"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	one, two := 1, 2

	cases := map[string]struct {
		job Job
		err error
	}{
		"NoEffect":  {Job{Inputs: []string{"a"}, Output: "o"}, errNoEffect},
		"NoInput":   {Job{Effect: "invert", Output: "o"}, errNoInput},
		"NoOutput":  {Job{Effect: "invert", Inputs: []string{"a"}}, errNoOutput},
		"Frames":    {Job{Effect: "invert", Inputs: []string{"a"}, Output: "o", Start: &two, End: &one}, errBadFrames},
		"Size":      {Job{Effect: "invert", Inputs: []string{"a"}, Output: "o", Resize: "big"}, errBadSize},
		"Valid":     {Job{Effect: "invert", Inputs: []string{"a"}, Output: "o", Start: &one, End: &two}, nil},
		"ValidSize": {Job{Effect: "invert", Inputs: []string{"a"}, Output: "o", Resize: "640x"}, nil},
	}

	for name, c := range cases {
		c := c
		t.Run(name, func(t *testing.T) {
			err := c.job.Validate()
			if c.err == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, c.err)
		})
	}
}

func TestSize(t *testing.T) {
	cases := map[string]struct {
		resize string
		w, h   int
		err    bool
	}{
		"Empty":     {"", 0, 0, false},
		"Both":      {"640x480", 640, 480, false},
		"Upper":     {"640X480", 640, 480, false},
		"WidthOnly": {"640x", 640, 0, false},
		"Height":    {"0x480", 0, 480, false},
		"Zero":      {"0x0", 0, 0, true},
		"NoX":       {"640", 0, 0, true},
		"NotNumber": {"ax1", 0, 0, true},
	}

	for name, c := range cases {
		c := c
		t.Run(name, func(t *testing.T) {
			w, h, err := Job{Resize: c.resize}.Size()
			if c.err {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, c.w, w)
			assert.Equal(t, c.h, h)
		})
	}
}

func TestSetParam(t *testing.T) {
	var j Job
	require.NoError(t, j.SetParam("mix=0.5"))
	require.NoError(t, j.SetParam("empty="))
	assert.Equal(t, map[string]string{"mix": "0.5", "empty": ""}, j.Params)
	assert.ErrorIs(t, j.SetParam("mix"), errBadParam)
	assert.ErrorIs(t, j.SetParam("=1"), errBadParam)
}

func TestFlagsOverrideConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "job.yaml")
	require.NoError(t, os.WriteFile(path, []byte(job), 0o600))

	fs := flag.NewFlagSet("mediafx", flag.ContinueOnError)
	f := NewFlags(fs)
	require.NoError(t, fs.Parse([]string{
		"-config", path,
		"-in", "a.mp4,b.mp4",
		"-end", "10",
		"-param", "time_offset=-2",
		"-threads", "3",
	}))

	j, err := f.Job()
	require.NoError(t, err)
	assert.Equal(t, "timeoffset", j.Effect)
	assert.Equal(t, []string{"a.mp4", "b.mp4"}, j.Inputs)
	assert.Equal(t, "out", j.Output)
	assert.Equal(t, 1, *j.Start)
	assert.Equal(t, 10, *j.End)
	assert.Equal(t, 3, j.Threads)
	assert.Equal(t, map[string]string{"time_offset": "-2", "reverse_input": "true"}, j.Params)
}

func TestFlagsWithoutConfig(t *testing.T) {
	fs := flag.NewFlagSet("mediafx", flag.ContinueOnError)
	f := NewFlags(fs)
	require.NoError(t, fs.Parse([]string{"-effect", "invert", "-in", "a.png", "-out", "dir", "-no-temporal-access"}))

	j, err := f.Job()
	require.NoError(t, err)
	assert.Equal(t, "invert", j.Effect)
	assert.Empty(t, j.Context)
	assert.True(t, j.NoTemporalAccess)
	assert.Nil(t, j.Start)
	assert.NoError(t, j.Validate())
}

func TestFlagsBadTime(t *testing.T) {
	fs := flag.NewFlagSet("mediafx", flag.ContinueOnError)
	f := NewFlags(fs)
	require.NoError(t, fs.Parse([]string{"-start", "soon"}))
	_, err := f.Job()
	assert.Error(t, err)
}
