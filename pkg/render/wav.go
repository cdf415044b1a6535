package render

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
	"go.uber.org/multierr"
)

const wavFormatPCM = 1

var (
	// ErrInvalidWAV is returned for input that is not a WAV file.
	ErrInvalidWAV = errors.New("not a valid wav file")
	// ErrUnsupportedFormat is returned for WAV encodings other than 16, 24
	// or 32 bit integer PCM.
	ErrUnsupportedFormat = errors.New("only 16, 24 and 32 bit integer pcm is supported")
)

func supportedDepth(bitDepth int) bool {
	return bitDepth == 16 || bitDepth == 24 || bitDepth == 32
}

// ReadWAV decodes a whole WAV stream.
func ReadWAV(r io.ReadSeeker) (*Buffer, error) {
	dec := wav.NewDecoder(r)
	if !dec.IsValidFile() {
		return nil, ErrInvalidWAV
	}
	if dec.WavAudioFormat != wavFormatPCM || !supportedDepth(int(dec.BitDepth)) {
		return nil, fmt.Errorf("%w: format %d, %d bit", ErrUnsupportedFormat, dec.WavAudioFormat, dec.BitDepth)
	}

	pcm, err := dec.FullPCMBuffer()
	if err != nil {
		return nil, fmt.Errorf("decode wav: %w", err)
	}
	channels := int(dec.NumChans)
	if channels <= 0 {
		return nil, fmt.Errorf("%w: no channels", ErrInvalidWAV)
	}

	return &Buffer{
		SampleRate: int(dec.SampleRate),
		BitDepth:   int(dec.BitDepth),
		Channels:   deinterleave(pcm.Data, channels, int(dec.BitDepth)),
	}, nil
}

// WriteWAV encodes b as integer PCM at the buffer's bit depth.
func WriteWAV(w io.WriteSeeker, b *Buffer) error {
	if !supportedDepth(b.BitDepth) {
		return fmt.Errorf("%w: %d bit", ErrUnsupportedFormat, b.BitDepth)
	}
	if len(b.Channels) == 0 {
		return fmt.Errorf("write wav: no channels")
	}

	enc := wav.NewEncoder(w, b.SampleRate, b.BitDepth, len(b.Channels), wavFormatPCM)
	err := enc.Write(&audio.IntBuffer{
		Format:         &audio.Format{NumChannels: len(b.Channels), SampleRate: b.SampleRate},
		Data:           interleave(b.Channels, b.BitDepth),
		SourceBitDepth: b.BitDepth,
	})
	return multierr.Append(err, enc.Close())
}

// ReadWAVFile reads the WAV file at path.
func ReadWAVFile(path string) (*Buffer, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	b, err := ReadWAV(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return b, nil
}

// WriteWAVFile writes b to a new WAV file at path.
func WriteWAVFile(path string, b *Buffer) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer multierr.AppendInvoke(&err, multierr.Close(f))

	if err := WriteWAV(f, b); err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	return nil
}
