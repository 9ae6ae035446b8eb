package config

import (
	"flag"
	"strconv"
	"strings"
)

// paramsFlag collects repeated -param name=value flags.
type paramsFlag struct {
	job *Job
}

func (p paramsFlag) String() string { return "" }

func (p paramsFlag) Set(kv string) error { return p.job.SetParam(kv) }

// Flags binds the command line to a job.
type Flags struct {
	fs     *flag.FlagSet
	config string
	over   Job
	start  string
	end    string
	inputs string
	noTemp bool
}

// NewFlags registers the job flags on fs.
func NewFlags(fs *flag.FlagSet) *Flags {
	f := &Flags{fs: fs}
	fs.StringVar(&f.config, "config", "", "YAML job file")
	fs.StringVar(&f.over.Effect, "effect", "", "effect to render: invert, switch or timeoffset")
	fs.StringVar(&f.inputs, "in", "", "comma separated input clips (image, directory or video)")
	fs.StringVar(&f.over.Mask, "mask", "", "mask clip")
	fs.StringVar(&f.over.Output, "out", "", "output directory or video file")
	fs.StringVar(&f.start, "start", "", "first rendered time")
	fs.StringVar(&f.end, "end", "", "last rendered time")
	fs.Var(paramsFlag{&f.over}, "param", "effect parameter as name=value, repeatable")
	fs.IntVar(&f.over.Threads, "threads", 0, "render threads, 0 for one per CPU")
	fs.StringVar(&f.over.Context, "context", "", "effect context: filter or general")
	fs.Float64Var(&f.over.FPS, "fps", 0, "frame rate of video output")
	fs.StringVar(&f.over.Resize, "resize", "", "resize output to WxH, 0 keeps the aspect ratio")
	fs.StringVar(&f.over.Scaler, "scaler", "", "resize interpolation: nearest, approxbilinear, bilinear or catmullrom")
	fs.BoolVar(&f.noTemp, "no-temporal-access", false, "host without random access to input frames")
	return f
}

// Job loads the -config file, when given, and applies the flags set on the
// command line over it.
func (f *Flags) Job() (Job, error) {
	j := Default()
	if f.config != "" {
		var err error
		if j, err = Load(f.config); err != nil {
			return Job{}, err
		}
	}

	var err error
	f.fs.Visit(func(fl *flag.Flag) {
		if err != nil {
			return
		}
		switch fl.Name {
		case "effect":
			j.Effect = f.over.Effect
		case "in":
			j.Inputs = strings.Split(f.inputs, ",")
		case "mask":
			j.Mask = f.over.Mask
		case "out":
			j.Output = f.over.Output
		case "start":
			j.Start, err = parseTime(f.start)
		case "end":
			j.End, err = parseTime(f.end)
		case "param":
			for name, value := range f.over.Params {
				if j.Params == nil {
					j.Params = map[string]string{}
				}
				j.Params[name] = value
			}
		case "threads":
			j.Threads = f.over.Threads
		case "context":
			j.Context = f.over.Context
		case "fps":
			j.FPS = f.over.FPS
		case "resize":
			j.Resize = f.over.Resize
		case "scaler":
			j.Scaler = f.over.Scaler
		case "no-temporal-access":
			j.NoTemporalAccess = f.noTemp
		}
	})
	if err != nil {
		return Job{}, err
	}
	return j, nil
}

func parseTime(s string) (*int, error) {
	t, err := strconv.Atoi(s)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
