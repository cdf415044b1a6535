package midi

import (
	"fmt"

	gomidi "gitlab.com/gomidi/midi/v2"
)

// NoData marks a data byte that the message does not carry. It is distinct
// from a zero data byte.
const NoData = -1

// Message is one raw MIDI message from the host, stamped with its sample
// offset inside the current block.
type Message struct {
	Data      []byte
	Timestamp float64
}

// NewMessage copies b into a message at the given sample offset.
func NewMessage(timestamp float64, b ...byte) Message {
	data := make([]byte, len(b))
	copy(data, b)
	return Message{Data: data, Timestamp: timestamp}
}

// Describe returns a human readable form of the message for logging.
func (m Message) Describe() string {
	if len(m.Data) == 0 {
		return fmt.Sprintf("empty message @%g", m.Timestamp)
	}
	return fmt.Sprintf("%s @%g", gomidi.Message(m.Data).String(), m.Timestamp)
}

// messageLengths is indexed by the low seven bits of a status byte. It matches
// the length table used by common plugin frameworks, so running-status data
// bytes index the same rows as their status counterparts.
var messageLengths = [128]uint8{
	3, 3, 3, 3, 3, 3, 3, 3, 3, 3, 3, 3, 3, 3, 3, 3,
	3, 3, 3, 3, 3, 3, 3, 3, 3, 3, 3, 3, 3, 3, 3, 3,
	3, 3, 3, 3, 3, 3, 3, 3, 3, 3, 3, 3, 3, 3, 3, 3,
	3, 3, 3, 3, 3, 3, 3, 3, 3, 3, 3, 3, 3, 3, 3, 3,
	2, 2, 2, 2, 2, 2, 2, 2, 2, 2, 2, 2, 2, 2, 2, 2,
	2, 2, 2, 2, 2, 2, 2, 2, 2, 2, 2, 2, 2, 2, 2, 2,
	3, 3, 3, 3, 3, 3, 3, 3, 3, 3, 3, 3, 3, 3, 3, 3,
	1, 2, 3, 2, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1,
}

// LengthFromStatus returns the length in bytes of a short message starting
// with status, including the status byte itself.
func LengthFromStatus(status byte) int {
	return int(messageLengths[status&0x7F])
}

// ChannelFromStatus returns the one based channel of a channel voice status
// byte, or 0 for system messages.
func ChannelFromStatus(status byte) int {
	if status < 0x80 || status >= 0xF0 {
		return 0
	}
	return int(status&0x0F) + 1
}

// Unpacked is a message decoded into the argument tuple of an engine's MIDI
// entry point.
type Unpacked struct {
	Count     int
	Timestamp float64
	Type      int // status byte with the channel nibble cleared
	Channel   int
	Data1     int
	Data2     int
}

// Decode unpacks m. Data bytes beyond the length implied by the status byte,
// or beyond the bytes actually present, are reported as NoData.
func Decode(m Message) Unpacked {
	u := Unpacked{
		Timestamp: m.Timestamp,
		Data1:     NoData,
		Data2:     NoData,
	}
	if len(m.Data) == 0 {
		return u
	}

	status := m.Data[0]
	u.Count = LengthFromStatus(status)
	u.Type = int(status & 0xF0)
	u.Channel = ChannelFromStatus(status)

	if u.Count > 1 && len(m.Data) > 1 {
		u.Data1 = int(m.Data[1])
		if u.Count > 2 && len(m.Data) > 2 {
			u.Data2 = int(m.Data[2])
		}
	}
	return u
}
