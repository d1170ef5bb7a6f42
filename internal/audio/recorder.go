package audio

import (
	"context"
	log "log/slog"

	"github.com/gordonklaus/portaudio"

	"deskvox/internal/audio/vad"
)

// Recorder captures one utterance at a time from the default input device.
type Recorder struct {
	cfg vad.Config
}

func NewRecorder(cfg vad.Config) *Recorder {
	if cfg.SampleRate == 0 {
		cfg = vad.DefaultConfig()
	}
	return &Recorder{cfg: cfg}
}

func (r *Recorder) Init() error {
	return portaudio.Initialize()
}

func (r *Recorder) Close() {
	portaudio.Terminate()
}

// Record calibrates against ambient noise, then returns mono float32 PCM
// from the first speech frame until trailing silence or the length cap.
// It keeps listening through silence until speech starts or ctx is done.
func (r *Recorder) Record(ctx context.Context) ([]float32, error) {
	buf := make([]float32, r.cfg.FrameSize)

	stream, err := portaudio.OpenDefaultStream(1, 0, float64(r.cfg.SampleRate), len(buf), buf)
	if err != nil {
		return nil, err
	}
	defer stream.Close()

	if err := stream.Start(); err != nil {
		return nil, err
	}
	defer stream.Stop()

	det := vad.New(r.cfg)
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		if err := stream.Read(); err != nil {
			return nil, err
		}

		if det.Push(buf) {
			break
		}
	}

	log.Debug("Recorded", "samples", len(det.Samples()), "threshold", det.Threshold())

	return det.Samples(), nil
}
