//go:build cgo

// Package gomidi implements editor.MIDIContext with the RtMidi driver of
// gomidi. It needs cgo.
package gomidi

import (
	"errors"
	"fmt"

	"github.com/rollseq/rollseq/editor"
	"gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/drivers"
	"gitlab.com/gomidi/midi/v2/drivers/rtmididrv"
)

type (
	RTMIDIContext struct {
		driver *rtmididrv.Driver
		inputs []*RTMIDIInput
		listed bool
	}

	RTMIDIInput struct {
		in   drivers.In
		stop func()
	}
)

// NewContext opens the driver. If that fails, the context has no inputs.
func NewContext() *RTMIDIContext {
	var c RTMIDIContext
	c.driver, _ = rtmididrv.New()
	return &c
}

func (c *RTMIDIContext) Inputs(yield func(editor.MIDIInput) bool) {
	if !c.listed {
		c.listed = true
		if c.driver == nil {
			return
		}
		ins, err := c.driver.Ins()
		if err != nil {
			return
		}
		for _, in := range ins {
			c.inputs = append(c.inputs, &RTMIDIInput{in: in})
		}
	}
	for _, in := range c.inputs {
		if !yield(in) {
			return
		}
	}
}

func (c *RTMIDIContext) Close() {
	if c.driver == nil {
		return
	}
	for _, in := range c.inputs {
		in.Close()
	}
	c.driver.Close()
}

func (i *RTMIDIInput) Open(handle func(msg midi.Message, timestampms int32)) error {
	if i.stop != nil {
		return errors.New("MIDI input already open")
	}
	if err := i.in.Open(); err != nil {
		return fmt.Errorf("opening MIDI input failed: %w", err)
	}
	stop, err := midi.ListenTo(i.in, handle)
	if err != nil {
		i.in.Close()
		return fmt.Errorf("listening to MIDI input failed: %w", err)
	}
	i.stop = stop
	return nil
}

func (i *RTMIDIInput) Close() error {
	if i.stop == nil {
		return nil
	}
	i.stop()
	i.stop = nil
	return i.in.Close()
}

func (i *RTMIDIInput) String() string {
	return i.in.String()
}
