package models

// Channel tags a consumed record with the topic family it came from.
type Channel int

const (
	ChannelUnknown Channel = iota
	ChannelSensor
	ChannelCurrent
	ChannelAlert
)

func (c Channel) String() string {
	switch c {
	case ChannelSensor:
		return "sensor"
	case ChannelCurrent:
		return "current"
	case ChannelAlert:
		return "alert"
	default:
		return "unknown"
	}
}
