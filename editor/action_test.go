package editor_test

import (
	"testing"

	"github.com/rollseq/rollseq/editor"
)

type toggle struct {
	enabled bool
	done    int
}

func (t *toggle) Enabled() bool { return t.enabled }
func (t *toggle) Do()           { t.done++ }

func TestAction(t *testing.T) {
	var zero editor.Action
	if zero.Enabled() {
		t.Errorf("zero action is enabled")
	}
	zero.Do()

	n := 0
	always := editor.MakeAction(editor.DoFunc(func() { n++ }))
	always.Do()
	if !always.Enabled() || n != 1 {
		t.Errorf("plain doer: enabled %v, done %d times", always.Enabled(), n)
	}

	tg := &toggle{}
	a := editor.MakeAction(tg)
	a.Do()
	if tg.done != 0 {
		t.Errorf("disabled action was done")
	}
	tg.enabled = true
	a.Do()
	if tg.done != 1 {
		t.Errorf("enabled action done %d times, expected 1", tg.done)
	}
}
