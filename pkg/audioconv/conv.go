// Package audioconv decodes audio files into the mono 16 kHz float32 PCM
// that whisper expects.
package audioconv

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

const TargetRate = 16000

var ErrUnsupported = errors.New("unsupported audio format")

type Options struct {
	// MaxSamples caps the output, 0 keeps everything.
	MaxSamples int
}

// Raw is decoder output before downmixing and resampling. Samples are
// interleaved when Channels > 1.
type Raw struct {
	Samples    []float32
	SampleRate int
	Channels   int
}

type decoder func(r io.ReadSeeker) (Raw, error)

type format struct {
	name  string
	exts  []string
	magic string
	// tried in order, the container may hold several codecs
	decoders []decoder
}

var formats = []format{
	{name: "wav", exts: []string{".wav"}, magic: "RIFF", decoders: []decoder{decodeWAV}},
	{name: "mp3", exts: []string{".mp3"}, magic: "ID3", decoders: []decoder{decodeMP3}},
	{name: "ogg", exts: []string{".ogg", ".oga", ".opus"}, magic: "OggS", decoders: []decoder{decodeVorbis, decodeOpus}},
}

func ConvertFileToPCM16k(ctx context.Context, path string, opt Options) ([]float32, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	return Decode(ctx, f, filepath.Ext(path), opt)
}

// Decode picks a format by extension hint, falling back to magic bytes.
func Decode(ctx context.Context, r io.ReadSeeker, ext string, opt Options) ([]float32, error) {
	fm, ok := byExt(ext)
	if !ok {
		if fm, ok = sniff(r); !ok {
			return nil, fmt.Errorf("%w: %q (supported: wav/mp3/ogg-vorbis/ogg-opus)", ErrUnsupported, ext)
		}
	}

	var errs []error
	for _, dec := range fm.decoders {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if _, err := r.Seek(0, io.SeekStart); err != nil {
			return nil, err
		}

		raw, err := dec(r)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		return normalize(raw, opt), nil
	}
	return nil, fmt.Errorf("cannot decode %s: %w", fm.name, errors.Join(errs...))
}

func byExt(ext string) (format, bool) {
	ext = strings.ToLower(ext)
	for _, fm := range formats {
		for _, e := range fm.exts {
			if e == ext {
				return fm, true
			}
		}
	}
	return format{}, false
}

func sniff(r io.ReadSeeker) (format, bool) {
	if _, err := r.Seek(0, io.SeekStart); err != nil {
		return format{}, false
	}
	magic, _ := bufio.NewReader(r).Peek(4)
	for _, fm := range formats {
		if strings.HasPrefix(string(magic), fm.magic) {
			return fm, true
		}
	}
	// Bare MPEG frame sync.
	if len(magic) >= 2 && magic[0] == 0xFF && magic[1]&0xE0 == 0xE0 {
		return byExt(".mp3")
	}
	return format{}, false
}

func normalize(raw Raw, opt Options) []float32 {
	x := downmix(raw.Samples, raw.Channels)
	x = resampleLinear(x, raw.SampleRate, TargetRate)
	if opt.MaxSamples > 0 && len(x) > opt.MaxSamples {
		x = x[:opt.MaxSamples]
	}
	return x
}
