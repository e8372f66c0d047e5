package rollseq

import (
	"gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/smf"
)

// TimedMessage is a MIDI message together with the tick it should be sent at.
type TimedMessage struct {
	Tick    int
	Message smf.Message
}

// Messages returns the MIDI messages that play the event on the given
// channel. A note gives two messages, a note on at its tick and a note off at
// its end. Events that have no MIDI message equivalent give none.
func (e *Event) Messages(channel uint8) []TimedMessage {
	at := func(tick int, msg smf.Message) TimedMessage { return TimedMessage{Tick: tick, Message: msg} }
	switch {
	case e.IsNote():
		return []TimedMessage{
			at(e.Tick, smf.Message(midi.NoteOn(channel, clamp7(e.NoteNumber), clamp7(e.Velocity)))),
			at(e.End(), smf.Message(midi.NoteOff(channel, clamp7(e.NoteNumber)))),
		}
	case e.is(ChannelEvent, ControllerSubtype):
		return []TimedMessage{at(e.Tick, smf.Message(midi.ControlChange(channel, clamp7(e.ControllerType), clamp7(e.Value))))}
	case e.IsProgramChange():
		return []TimedMessage{at(e.Tick, smf.Message(midi.ProgramChange(channel, clamp7(e.Value))))}
	case e.IsSetTempo():
		if e.MicrosecondsPerBeat <= 0 {
			return nil
		}
		return []TimedMessage{at(e.Tick, smf.MetaTempo(MicrosecondsPerBeatToBPM(e.MicrosecondsPerBeat)))}
	case e.IsTimeSignature():
		return []TimedMessage{at(e.Tick, smf.MetaTimeSig(uint8(e.Numerator), uint8(e.Denominator), 24, 8))}
	case e.IsTrackName():
		return []TimedMessage{at(e.Tick, smf.MetaTrackSequenceName(e.Text))}
	case e.IsEndOfTrack():
		return []TimedMessage{at(e.Tick, smf.EOT)}
	}
	return nil
}

func clamp7(v int) uint8 { return uint8(min(max(v, 0), 127)) }

// FieldsFromMessage converts a MIDI message received at tick to the fields of
// a new event. Notes are not converted, as a note event needs both the note
// on and the note off message; see the editor package for recording notes.
func FieldsFromMessage(tick int, msg smf.Message) (Fields, bool) {
	var ch, a, b uint8
	var bpm float64
	var text string
	var num, denom, cpt, dsqpq uint8
	m := midi.Message(msg)
	switch {
	case m.GetControlChange(&ch, &a, &b):
		return Controller(tick, int(a), int(b)), true
	case m.GetProgramChange(&ch, &a):
		return ProgramChange(tick, int(a)), true
	case msg.GetMetaTempo(&bpm):
		return SetTempo(tick, BPMToMicrosecondsPerBeat(bpm)), true
	case msg.GetMetaTimeSig(&num, &denom, &cpt, &dsqpq):
		return TimeSignature(tick, int(num), int(denom)), true
	case msg.GetMetaTrackName(&text):
		return TrackName(tick, text), true
	}
	return Fields{}, false
}
