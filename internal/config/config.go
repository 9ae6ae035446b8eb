// Package config holds the description of a render job, loaded from YAML and
// overridden from the command line.
package config

import (
	"errors"
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

var (
	errNoEffect  = errors.New("no effect")
	errNoInput   = errors.New("no input")
	errNoOutput  = errors.New("no output")
	errBadSize   = errors.New("size must be WxH")
	errBadParam  = errors.New("param must be name=value")
	errBadFrames = errors.New("end before start")
)

// Job describes one render: an effect, the clips it reads and where the
// rendered frames go.
type Job struct {
	Effect  string            `yaml:"effect"`
	Inputs  []string          `yaml:"inputs"`
	Mask    string            `yaml:"mask,omitempty"`
	Output  string            `yaml:"output"`
	Params  map[string]string `yaml:"params,omitempty"`
	// Context is "filter" or "general". Empty picks the first context the
	// effect supports.
	Context string            `yaml:"context,omitempty"`
	Threads int               `yaml:"threads,omitempty"`
	FPS     float64           `yaml:"fps,omitempty"`

	// Start and End bound the rendered times. Nil means the effect's
	// natural range.
	Start *int `yaml:"start,omitempty"`
	End   *int `yaml:"end,omitempty"`

	Resize string `yaml:"resize,omitempty"`
	Scaler string `yaml:"scaler,omitempty"`

	// NoTemporalAccess makes the host refuse random access to input frames.
	NoTemporalAccess bool `yaml:"noTemporalAccess,omitempty"`
}

// Default returns a job with the defaults filled in.
func Default() Job {
	return Job{
		FPS:     25,
		Scaler:  "bilinear",
	}
}

// Load reads a YAML job from path on top of Default.
func Load(path string) (Job, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Job{}, err
	}
	return Parse(data)
}

// Parse decodes a YAML job on top of Default.
func Parse(data []byte) (Job, error) {
	j := Default()
	if err := yaml.Unmarshal(data, &j); err != nil {
		return Job{}, fmt.Errorf("parse job: %w", err)
	}
	return j, nil
}

// Validate reports the first problem making j unusable.
func (j Job) Validate() error {
	switch {
	case j.Effect == "":
		return errNoEffect
	case len(j.Inputs) == 0:
		return errNoInput
	case j.Output == "":
		return errNoOutput
	case j.Start != nil && j.End != nil && *j.End < *j.Start:
		return fmt.Errorf("%w: [%d,%d]", errBadFrames, *j.Start, *j.End)
	}
	if _, _, err := j.Size(); err != nil {
		return err
	}
	return nil
}

// Size parses Resize. A zero dimension keeps the aspect ratio; an empty
// Resize returns 0, 0.
func (j Job) Size() (width, height int, err error) {
	if j.Resize == "" {
		return 0, 0, nil
	}
	w, h, ok := strings.Cut(strings.ToLower(j.Resize), "x")
	if !ok {
		return 0, 0, fmt.Errorf("%w: %q", errBadSize, j.Resize)
	}
	if width, err = atoiOrZero(w); err != nil {
		return 0, 0, fmt.Errorf("%w: %q", errBadSize, j.Resize)
	}
	if height, err = atoiOrZero(h); err != nil {
		return 0, 0, fmt.Errorf("%w: %q", errBadSize, j.Resize)
	}
	if width <= 0 && height <= 0 {
		return 0, 0, fmt.Errorf("%w: %q", errBadSize, j.Resize)
	}
	return width, height, nil
}

func atoiOrZero(s string) (int, error) {
	if s == "" {
		return 0, nil
	}
	return strconv.Atoi(s)
}

// ParamNames returns the names of Params in a stable order.
func (j Job) ParamNames() []string {
	names := make([]string, 0, len(j.Params))
	for name := range j.Params {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// SetParam records a name=value assignment.
func (j *Job) SetParam(kv string) error {
	name, value, ok := strings.Cut(kv, "=")
	if !ok || name == "" {
		return fmt.Errorf("%w: %q", errBadParam, kv)
	}
	if j.Params == nil {
		j.Params = map[string]string{}
	}
	j.Params[name] = value
	return nil
}
