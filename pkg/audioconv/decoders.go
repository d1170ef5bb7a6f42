package audioconv

import (
	"bytes"
	"encoding/binary"
	"errors"
	"io"

	"github.com/go-audio/wav"
	"github.com/hajimehoshi/go-mp3"
	"github.com/jfreymuth/oggvorbis"
)

func decodeWAV(r io.ReadSeeker) (Raw, error) {
	dec := wav.NewDecoder(r)
	if !dec.IsValidFile() {
		return Raw{}, errors.New("invalid wav")
	}
	pb, err := dec.FullPCMBuffer()
	if err != nil {
		return Raw{}, err
	}
	if pb == nil || len(pb.Data) == 0 {
		return Raw{}, errors.New("empty wav")
	}

	bd := int(dec.BitDepth)
	if bd == 0 {
		bd = 16
	}

	raw := Raw{Samples: intsToFloat32(pb.Data, bd), SampleRate: 44100, Channels: 1}
	if pb.Format != nil {
		if pb.Format.NumChannels > 0 {
			raw.Channels = pb.Format.NumChannels
		}
		if pb.Format.SampleRate > 0 {
			raw.SampleRate = pb.Format.SampleRate
		}
	}
	return raw, nil
}

// go-mp3 always yields 16-bit little endian stereo.
func decodeMP3(r io.ReadSeeker) (Raw, error) {
	dec, err := mp3.NewDecoder(r)
	if err != nil {
		return Raw{}, err
	}
	var buf bytes.Buffer
	if _, err := io.Copy(&buf, dec); err != nil {
		return Raw{}, err
	}

	b := buf.Bytes()
	ints := make([]int16, len(b)/2)
	for i := range ints {
		ints[i] = int16(binary.LittleEndian.Uint16(b[2*i:]))
	}

	sr := dec.SampleRate()
	if sr <= 0 {
		sr = 44100
	}
	return Raw{Samples: int16sToFloat32(ints), SampleRate: sr, Channels: 2}, nil
}

func decodeVorbis(r io.ReadSeeker) (Raw, error) {
	pcm, f, err := oggvorbis.ReadAll(r)
	if err != nil {
		return Raw{}, err
	}
	if f == nil || f.Channels <= 0 || f.SampleRate <= 0 {
		return Raw{}, errors.New("invalid ogg/vorbis stream")
	}
	return Raw{Samples: pcm, SampleRate: f.SampleRate, Channels: f.Channels}, nil
}
