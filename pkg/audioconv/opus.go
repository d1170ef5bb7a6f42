//go:build opus

package audioconv

import (
	"errors"
	"io"

	popus "github.com/pekim/opus"
)

// Opus always decodes at 48 kHz.
func decodeOpus(r io.ReadSeeker) (Raw, error) {
	dec, err := popus.NewDecoder(r)
	if err != nil {
		return Raw{}, err
	}
	defer dec.Destroy()

	ch := max(dec.ChannelCount(), 1)

	var (
		out []float32
		buf = make([]int16, 48_000*ch/2)
	)
	for {
		n, err := dec.Read(buf) // samples per channel
		if n > 0 {
			out = append(out, int16sToFloat32(buf[:n*ch])...)
		}
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return Raw{}, err
		}
	}

	if len(out) == 0 {
		return Raw{}, errors.New("empty opus stream")
	}
	return Raw{Samples: out, SampleRate: 48000, Channels: ch}, nil
}
