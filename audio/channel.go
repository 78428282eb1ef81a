package audio

import "github.com/milk9111/soundstage/assets"

// Channel names one of the two music voices.
type Channel int

const (
	ChannelA Channel = iota
	ChannelB
)

func (c Channel) String() string {
	switch c {
	case ChannelA:
		return "A"
	case ChannelB:
		return "B"
	default:
		return "?"
	}
}

func (c Channel) Other() Channel {
	if c == ChannelA {
		return ChannelB
	}
	return ChannelA
}

// ChannelState is a read-only view of one channel.
type ChannelState struct {
	Channel Channel
	Track   assets.MusicID
	Clip    *assets.Clip
	Volume  float64
	Playing bool
}
