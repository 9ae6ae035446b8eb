// Package ffmpeg reads and writes video files by piping raw frames through
// an ffmpeg process.
package ffmpeg

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"

	ffmpeggo "github.com/u2takey/ffmpeg-go"

	"github.com/pion/mediafx/internal/logging"
	"github.com/pion/mediafx/pkg/frame"
	"github.com/pion/mediafx/pkg/pixel"
)

var logger = logging.NewLogger("mediafx/io/ffmpeg")

var (
	errNoVideoStream = errors.New("ffmpeg: no video stream")
	errWriterClosed  = errors.New("ffmpeg: writer closed")
)

var videoExtensions = map[string]bool{
	".mp4": true, ".mov": true, ".mkv": true, ".avi": true,
	".webm": true, ".m4v": true, ".mxf": true, ".y4m": true,
}

// IsVideo reports whether path names a video container ffmpeg should handle.
func IsVideo(path string) bool {
	return videoExtensions[strings.ToLower(filepath.Ext(path))]
}

// Options configure the ffmpeg process.
type Options struct {
	// Path of the ffmpeg binary, looked up in PATH when empty.
	Path string
	// Format of the raw frames exchanged with ffmpeg.
	Format frame.Format
	// Args are extra output arguments, e.g. {"c:v": "libx264"}.
	Args ffmpeggo.KwArgs
}

func (o Options) format() frame.Format {
	if o.Format == "" {
		return frame.FormatRGBA
	}
	return o.Format
}

func (o Options) apply(s *ffmpeggo.Stream) *ffmpeggo.Stream {
	if o.Path != "" {
		s = s.SetFfmpegPath(o.Path)
	}
	return s
}

// Info describes the first video stream of a file.
type Info struct {
	Width, Height int
	// Frames is the frame count stored in the container, 0 when unknown.
	Frames    int
	FrameRate float64
}

type probeResult struct {
	Streams []struct {
		CodecType  string `json:"codec_type"`
		Width      int    `json:"width"`
		Height     int    `json:"height"`
		NbFrames   string `json:"nb_frames"`
		RFrameRate string `json:"r_frame_rate"`
	} `json:"streams"`
}

// Probe runs ffprobe on path.
func Probe(path string) (Info, error) {
	out, err := ffmpeggo.Probe(path)
	if err != nil {
		return Info{}, fmt.Errorf("probe %s: %w", path, err)
	}
	return parseProbe(out)
}

func parseProbe(out string) (Info, error) {
	var res probeResult
	if err := json.Unmarshal([]byte(out), &res); err != nil {
		return Info{}, err
	}

	for _, s := range res.Streams {
		if s.CodecType != "video" {
			continue
		}
		info := Info{Width: s.Width, Height: s.Height}
		info.Frames, _ = strconv.Atoi(s.NbFrames)
		info.FrameRate = parseRate(s.RFrameRate)
		return info, nil
	}
	return Info{}, errNoVideoStream
}

// parseRate parses rationals such as "30000/1001".
func parseRate(s string) float64 {
	num, den, found := strings.Cut(s, "/")
	n, err := strconv.ParseFloat(num, 64)
	if err != nil {
		return 0
	}
	if !found {
		return n
	}
	d, err := strconv.ParseFloat(den, 64)
	if err != nil || d == 0 {
		return 0
	}
	return n / d
}

// Load decodes every frame of the video at path.
func Load(ctx context.Context, path string, opts Options) ([]pixel.Image, Info, error) {
	info, err := Probe(path)
	if err != nil {
		return nil, info, err
	}

	f := opts.format()
	decoder, err := frame.NewDecoder(f)
	if err != nil {
		return nil, info, err
	}

	pipeReader, pipeWriter := io.Pipe()
	cmd := opts.apply(ffmpeggo.Input(path).Output("pipe:", ffmpeggo.KwArgs{
		"format":  "rawvideo",
		"pix_fmt": string(f),
	})).WithOutput(pipeWriter).Compile()

	if err := cmd.Start(); err != nil {
		return nil, info, fmt.Errorf("start ffmpeg: %w", err)
	}
	stop := context.AfterFunc(ctx, func() { kill(cmd) })
	defer stop()
	go func() {
		pipeWriter.CloseWithError(cmd.Wait())
	}()

	size := frame.Size(f, info.Width, info.Height)
	var frames []pixel.Image
	for {
		buf := make([]byte, size)
		if _, err := io.ReadFull(pipeReader, buf); err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			pipeReader.CloseWithError(err)
			if ctxErr := ctx.Err(); ctxErr != nil {
				return nil, info, ctxErr
			}
			return nil, info, fmt.Errorf("read %s frame %d: %w", path, len(frames), err)
		}

		img, err := decoder.Decode(buf, info.Width, info.Height)
		if err != nil {
			pipeReader.CloseWithError(err)
			return nil, info, err
		}
		frames = append(frames, img)
	}

	logger.Debugf("loaded %d frames of %dx%d from %s", len(frames), info.Width, info.Height, path)
	return frames, info, nil
}

func kill(cmd *exec.Cmd) {
	if cmd.Process != nil {
		_ = cmd.Process.Kill()
	}
}

// Writer encodes frames into a video file.
type Writer struct {
	encoder frame.Encoder
	width   int
	height  int
	buf     []byte

	pipeWriter *io.PipeWriter
	done       chan error
	closed     bool
}

// NewWriter starts an ffmpeg process writing a width x height video at fps
// frames per second to path. An existing file is overwritten.
func NewWriter(path string, width, height int, fps float64, opts Options) (*Writer, error) {
	f := opts.format()
	encoder, err := frame.NewEncoder(f)
	if err != nil {
		return nil, err
	}

	args := ffmpeggo.KwArgs{}
	for k, v := range opts.Args {
		args[k] = v
	}

	pipeReader, pipeWriter := io.Pipe()
	s := opts.apply(ffmpeggo.Input("pipe:", ffmpeggo.KwArgs{
		"format":    "rawvideo",
		"pix_fmt":   string(f),
		"s":         fmt.Sprintf("%dx%d", width, height),
		"framerate": strconv.FormatFloat(fps, 'f', -1, 64),
	}).Output(path, args).OverWriteOutput().WithInput(pipeReader))

	w := &Writer{
		encoder:    encoder,
		width:      width,
		height:     height,
		pipeWriter: pipeWriter,
		done:       make(chan error, 1),
	}

	go func() {
		err := s.Run()
		if err != nil {
			logger.Errorf("ffmpeg writing %s finished with error: %v", path, err)
		}
		// Unblocks pending writes when ffmpeg exits early.
		pipeReader.CloseWithError(errWriterClosed)
		w.done <- err
	}()
	return w, nil
}

// Write encodes img as the next frame. img must match the writer size.
func (w *Writer) Write(img pixel.Image) error {
	if w.closed {
		return errWriterClosed
	}
	if b := img.Bounds(); b.Dx() != w.width || b.Dy() != w.height {
		return fmt.Errorf("frame size %dx%d, writer expects %dx%d", b.Dx(), b.Dy(), w.width, w.height)
	}

	var err error
	w.buf, err = w.encoder.Encode(w.buf[:0], img)
	if err != nil {
		return err
	}
	_, err = w.pipeWriter.Write(w.buf)
	return err
}

// Close flushes the stream and waits for ffmpeg to exit.
func (w *Writer) Close() error {
	if w.closed {
		return nil
	}
	w.closed = true
	w.pipeWriter.Close()
	return <-w.done
}
