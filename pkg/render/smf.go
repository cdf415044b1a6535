package render

import (
	"fmt"
	"io"
	"os"
	"slices"

	"gitlab.com/gomidi/midi/v2/smf"
)

// Event is a raw MIDI message at an absolute frame of the render.
type Event struct {
	Frame int
	Data  []byte
}

// ReadSMF reads the channel messages of every track of a Standard MIDI File
// and places them on the frame grid of sampleRate. Meta and system exclusive
// events are skipped. Events come back in frame order; events on the same
// frame keep file order.
func ReadSMF(r io.Reader, sampleRate int) ([]Event, error) {
	var events []Event
	tr := smf.ReadTracksFrom(r).Do(func(ev smf.TrackEvent) {
		data := []byte(ev.Message)
		if len(data) == 0 || data[0] < 0x80 || data[0] >= 0xF0 {
			return
		}
		events = append(events, Event{
			Frame: int(ev.AbsMicroSeconds * int64(sampleRate) / 1_000_000),
			Data:  slices.Clone(data),
		})
	})
	if err := tr.Error(); err != nil {
		return nil, fmt.Errorf("read midi file: %w", err)
	}

	slices.SortStableFunc(events, func(a, b Event) int { return a.Frame - b.Frame })
	return events, nil
}

// ReadSMFFile reads the Standard MIDI File at path.
func ReadSMFFile(path string, sampleRate int) ([]Event, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ReadSMF(f, sampleRate)
}
