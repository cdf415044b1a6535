// Package bus describes the audio and event buses a plugin presents to the
// host.
package bus

// MediaType represents the type of bus
type MediaType int32

const (
	MediaTypeAudio MediaType = 0
	MediaTypeEvent MediaType = 1
)

// Direction represents the bus direction
type Direction int32

const (
	DirectionInput  Direction = 0
	DirectionOutput Direction = 1
)

// Type distinguishes main from auxiliary buses.
type Type int32

const (
	TypeMain Type = 0
	TypeAux  Type = 1
)

// Info describes one bus.
type Info struct {
	MediaType    MediaType
	Direction    Direction
	ChannelCount int32
	Name         string
	BusType      Type
	IsActive     bool
}

// Configuration is the ordered list of a plugin's buses. Buses are indexed
// per media type and direction, in the order they were added.
type Configuration struct {
	buses []Info
}

func (c *Configuration) add(info Info) {
	info.IsActive = true
	c.buses = append(c.buses, info)
}

func (c *Configuration) addAudio(direction Direction, name string, channels int32) {
	c.add(Info{MediaType: MediaTypeAudio, Direction: direction, ChannelCount: channels, Name: name})
}

func (c *Configuration) addEvent(direction Direction, name string) {
	c.add(Info{MediaType: MediaTypeEvent, Direction: direction, ChannelCount: 1, Name: name})
}

func (c *Configuration) find(mediaType MediaType, direction Direction, index int32) int {
	if index < 0 {
		return -1
	}
	for i, b := range c.buses {
		if b.MediaType != mediaType || b.Direction != direction {
			continue
		}
		if index == 0 {
			return i
		}
		index--
	}
	return -1
}

// GetBusCount returns the number of buses for a given type and direction
func (c *Configuration) GetBusCount(mediaType MediaType, direction Direction) int32 {
	var n int32
	for _, b := range c.buses {
		if b.MediaType == mediaType && b.Direction == direction {
			n++
		}
	}
	return n
}

// GetBusInfo returns the index'th bus of a type and direction, or nil.
func (c *Configuration) GetBusInfo(mediaType MediaType, direction Direction, index int32) *Info {
	if i := c.find(mediaType, direction, index); i >= 0 {
		return &c.buses[i]
	}
	return nil
}

// SetActive records the host's activation of a bus. It reports false if the
// bus does not exist.
func (c *Configuration) SetActive(mediaType MediaType, direction Direction, index int32, active bool) bool {
	i := c.find(mediaType, direction, index)
	if i < 0 {
		return false
	}
	c.buses[i].IsActive = active
	return true
}

// MainChannels returns the channel count of the main audio bus in the given
// direction, or 0 if there is none.
func (c *Configuration) MainChannels(direction Direction) int32 {
	if i := c.main(direction); i >= 0 {
		return c.buses[i].ChannelCount
	}
	return 0
}

// SetMainChannels changes the channel count of the main audio bus in the
// given direction and renames it to match. It reports false if there is no
// such bus.
func (c *Configuration) SetMainChannels(direction Direction, channels int32) bool {
	i := c.main(direction)
	if i < 0 {
		return false
	}
	c.buses[i].ChannelCount = channels
	c.buses[i].Name = channelName(channels, direction)
	return true
}

func (c *Configuration) main(direction Direction) int {
	for i, b := range c.buses {
		if b.MediaType == MediaTypeAudio && b.Direction == direction && b.BusType == TypeMain {
			return i
		}
	}
	return -1
}
