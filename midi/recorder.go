package midi

import (
	"fmt"
	"io"
	"math"
	"sort"
	"sync"

	"techno-machine/style"

	"gitlab.com/gomidi/midi/v2/smf"
)

// TicksPerQuarter is the resolution of recorded files.
const TicksPerQuarter = 96

// noteTicks is how long a recorded hit is held: a 32nd note.
const noteTicks = TicksPerQuarter / 8

type timedEvent struct {
	tick  uint32
	seq   int // insertion order breaks ties
	event Event
}

// Recorder captures voice output as a single-track Standard MIDI File.
// Call Seek before each step to place the following events.
type Recorder struct {
	mu     sync.Mutex
	enc    Encoder
	tempo  float64
	tick   uint32
	events []timedEvent
}

// NewRecorder records kit notes on channel at tempo.
func NewRecorder(kit Kit, channel uint8, perVoice bool, tempo float64) *Recorder {
	return &Recorder{
		enc:   Encoder{Kit: kit, Channel: channel, PerVoice: perVoice},
		tempo: tempo,
	}
}

// Seek moves the write position to a time in quarter notes.
func (r *Recorder) Seek(beats float64) {
	r.mu.Lock()
	r.tick = uint32(math.Round(max(0, beats) * TicksPerQuarter))
	r.mu.Unlock()
}

func (r *Recorder) add(tick uint32, e Event) {
	r.events = append(r.events, timedEvent{tick: tick, seq: len(r.events), event: e})
}

func (r *Recorder) TriggerVoice(voice int, velocity float64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	on, off, ok := r.enc.Trigger(voice, velocity)
	if !ok {
		return
	}
	r.add(r.tick, on)
	r.add(r.tick+noteTicks, off)
}

func (r *Recorder) SetVoiceParams(voice int, mode style.SynthMode, freq, decay float64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, e := range r.enc.Params(voice, mode, freq, decay) {
		r.add(r.tick, e)
	}
}

// Len returns the number of recorded events.
func (r *Recorder) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.events)
}

// SMF builds the file: a tempo and meter header followed by the events in
// time order.
func (r *Recorder) SMF() (*smf.SMF, error) {
	r.mu.Lock()
	events := make([]timedEvent, len(r.events))
	copy(events, r.events)
	r.mu.Unlock()

	sort.Slice(events, func(i, j int) bool {
		if events[i].tick != events[j].tick {
			return events[i].tick < events[j].tick
		}
		return events[i].seq < events[j].seq
	})

	s := smf.New()
	s.TimeFormat = smf.MetricTicks(TicksPerQuarter)

	var track smf.Track
	track.Add(0, smf.MetaMeter(4, 4))
	track.Add(0, smf.MetaTempo(r.tempo))
	var last uint32
	for _, te := range events {
		track.Add(te.tick-last, te.event.Message())
		last = te.tick
	}
	track.Close(0)

	if err := s.Add(track); err != nil {
		return nil, fmt.Errorf("add track: %w", err)
	}
	return s, nil
}

// WriteTo writes the recording as a Standard MIDI File.
func (r *Recorder) WriteTo(w io.Writer) (int64, error) {
	s, err := r.SMF()
	if err != nil {
		return 0, err
	}
	n, err := s.WriteTo(w)
	if err != nil {
		return n, fmt.Errorf("write smf: %w", err)
	}
	return n, nil
}

// WriteFile writes the recording to path.
func (r *Recorder) WriteFile(path string) error {
	s, err := r.SMF()
	if err != nil {
		return err
	}
	if err := s.WriteFile(path); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
