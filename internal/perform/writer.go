package perform

import (
	"fmt"
	"io"

	"github.com/gomidi/midi"
	"github.com/gomidi/midi/midimessage/channel"
	"github.com/gomidi/midi/midiwriter"
)

// Writer sends channel messages to a raw MIDI stream and tracks which notes
// are sounding, refusing a NoteOn for a running note or a NoteOff for a
// silent one.
type Writer struct {
	wr        midi.Writer
	ch        channel.Channel
	chIndex   uint8
	noteState [16][128]bool
}

// NewWriter returns a Writer on channel 0 of dest.
func NewWriter(dest io.Writer, options ...midiwriter.Option) *Writer {
	options = append(
		[]midiwriter.Option{
			midiwriter.NoRunningStatus(),
		}, options...)

	return &Writer{wr: midiwriter.New(dest, options...), ch: channel.Channel0, chIndex: 0}
}

// NoteOn starts key at velocity.
func (w *Writer) NoteOn(key, velocity uint8) error {
	return w.Write(w.ch.NoteOn(key, velocity))
}

// NoteOff stops key.
func (w *Writer) NoteOff(key uint8) error {
	return w.Write(w.ch.NoteOff(key))
}

// Sounding reports whether key is currently on.
func (w *Writer) Sounding(key uint8) bool {
	return w.noteState[w.chIndex][key&0x7f]
}

// Write sends msg after checking it against the sounding notes. The note
// state changes only once the message has been written.
func (w *Writer) Write(msg midi.Message) error {
	var (
		ch, key uint8
		on      bool
		tracked bool
	)
	switch m := msg.(type) {
	case channel.NoteOn:
		ch, key, on, tracked = m.Channel(), m.Key(), m.Velocity() > 0, true
		if on && w.noteState[ch][key] {
			return fmt.Errorf("can't write %s: note already running", msg)
		}
		if !on && !w.noteState[ch][key] {
			return fmt.Errorf("can't write %s: note is not running", msg)
		}
	case channel.NoteOff:
		ch, key, tracked = m.Channel(), m.Key(), true
		if !w.noteState[ch][key] {
			return fmt.Errorf("can't write %s: note is not running", msg)
		}
	case channel.NoteOffVelocity:
		ch, key, tracked = m.Channel(), m.Key(), true
		if !w.noteState[ch][key] {
			return fmt.Errorf("can't write %s: note is not running", msg)
		}
	}
	if err := w.wr.Write(msg); err != nil {
		return err
	}
	if tracked {
		w.noteState[ch][key] = on
	}
	return nil
}
