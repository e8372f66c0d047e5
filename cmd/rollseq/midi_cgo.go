//go:build cgo

package main

import (
	"github.com/rollseq/rollseq/editor"
	"github.com/rollseq/rollseq/editor/gomidi"
)

func newMIDIContext() editor.MIDIContext {
	return gomidi.NewContext()
}
