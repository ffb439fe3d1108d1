package preview

import (
	"context"
	"os/exec"
	"strconv"
	"sync"
	"time"

	"github.com/pkg/errors"
	ffmpeg "github.com/u2takey/ffmpeg-go"
)

// FFmpegConfig selects the ffmpeg binary and the audio output device
type FFmpegConfig struct {
	FfmpegPath string        `yaml:"FFMPEG_PATH" env:"FFMPEG_PATH"`
	Format     string        `yaml:"PREVIEW_FORMAT" env:"PREVIEW_FORMAT" env-default:"alsa"`
	Device     string        `yaml:"PREVIEW_DEVICE" env:"PREVIEW_DEVICE" env-default:"default"`
	Limit      time.Duration `yaml:"PREVIEW_LIMIT" env:"PREVIEW_LIMIT" env-default:"15s"`
}

// FFmpeg plays previews by streaming them through ffmpeg into an audio device
type FFmpeg struct {
	cfg FFmpegConfig
}

// NewFFmpeg creates an ffmpeg playback backend
func NewFFmpeg(cfg FFmpegConfig) *FFmpeg {
	if cfg.Format == "" {
		cfg.Format = "alsa"
	}
	if cfg.Device == "" {
		cfg.Device = "default"
	}
	if cfg.Limit <= 0 {
		cfg.Limit = DefaultLimit
	}
	return &FFmpeg{cfg: cfg}
}

// Command returns the ffmpeg invocation that plays url
func (f *FFmpeg) Command(url string) *exec.Cmd {
	stream := ffmpeg.Input(url, ffmpeg.KwArgs{
		"t": strconv.FormatFloat(f.cfg.Limit.Seconds(), 'f', -1, 64),
	}).Output(f.cfg.Device, ffmpeg.KwArgs{
		"f":        f.cfg.Format,
		"loglevel": "error",
	})

	if f.cfg.FfmpegPath != "" {
		stream = stream.SetFfmpegPath(f.cfg.FfmpegPath)
	}
	return stream.Compile()
}

// Play starts ffmpeg in the background
func (f *FFmpeg) Play(ctx context.Context, url string) (Stream, error) {
	cmd := f.Command(url)
	// Keep ffmpeg off the terminal the UI is drawing on.
	cmd.Stdin = nil
	cmd.Stdout = nil
	cmd.Stderr = nil

	if err := cmd.Start(); err != nil {
		return nil, errors.Wrap(err, "ffmpeg launch error")
	}

	s := &procStream{cmd: cmd, done: make(chan struct{})}
	go func() {
		s.cmd.Wait()
		close(s.done)
	}()
	return s, nil
}

type procStream struct {
	cmd  *exec.Cmd
	done chan struct{}
	once sync.Once
}

func (s *procStream) Done() <-chan struct{} {
	return s.done
}

func (s *procStream) Stop() error {
	var err error
	s.once.Do(func() {
		select {
		case <-s.done:
			return
		default:
		}
		if kerr := s.cmd.Process.Kill(); kerr != nil {
			err = errors.Wrap(kerr, "failed to stop ffmpeg")
			return
		}
		<-s.done
	})
	return err
}
