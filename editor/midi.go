package editor

import (
	"strings"

	"gitlab.com/gomidi/midi/v2"
)

type (
	// MIDIContext lists the MIDI input ports of the system.
	MIDIContext interface {
		Inputs(yield func(input MIDIInput) bool)
		Close()
	}

	// MIDIInput is an input port. Open starts delivering the messages of the
	// port to handle, e.g. Recorder.HandleMessage, until Close.
	MIDIInput interface {
		Open(handle func(msg midi.Message, timestampms int32)) error
		Close() error
		String() string
	}
)

// FindInput returns the first input whose name starts with prefix. An empty
// prefix matches any input.
func FindInput(c MIDIContext, prefix string) (MIDIInput, bool) {
	for in := range c.Inputs {
		if strings.HasPrefix(in.String(), prefix) {
			return in, true
		}
	}
	return nil, false
}

// NullMIDIContext is a MIDIContext with no inputs, for builds without MIDI
// support.
type NullMIDIContext struct{}

func (NullMIDIContext) Inputs(yield func(input MIDIInput) bool) {}
func (NullMIDIContext) Close()                                  {}
