//go:build !cgo

package main

import "github.com/rollseq/rollseq/editor"

func newMIDIContext() editor.MIDIContext {
	// with no cgo, we cannot use MIDI, so return a null context
	return editor.NullMIDIContext{}
}
