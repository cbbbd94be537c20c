package midi

import (
	"fmt"
	"math"
	"sync"

	"techno-machine/style"

	gomidi "gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/drivers"
)

// Velocity converts a 0..1 strength to a MIDI velocity. Any positive
// strength plays at least velocity 1.
func Velocity(v float64) uint8 {
	if v <= 0 {
		return 0
	}
	return uint8(min(127, max(1, math.Round(v*127))))
}

// logScale maps v in [lo, hi] onto 0..127 logarithmically.
func logScale(v, lo, hi float64) uint8 {
	v = min(hi, max(lo, v))
	return uint8(math.Round(127 * math.Log(v/lo) / math.Log(hi/lo)))
}

// FreqCC maps a voice frequency (20 Hz..20 kHz) to a controller value.
func FreqCC(hz float64) uint8 { return logScale(hz, style.MinFreq, style.MaxFreq) }

// DecayCC maps a voice decay (1..5000 ms) to a controller value.
func DecayCC(ms float64) uint8 { return logScale(ms, style.MinDecay, style.MaxDecay) }

// voiceParams is the last parameter set sent for a voice.
type voiceParams struct {
	sent        bool
	mode        uint8
	freq, decay uint8
}

// Encoder turns voice triggers and timbre changes into channel events
// for a kit. With PerVoice each voice plays on its own channel starting
// at Channel, and only then are timbre changes sent as CCs; on a shared
// channel they would overwrite each other.
type Encoder struct {
	Kit      Kit
	Channel  uint8
	PerVoice bool

	last [8]voiceParams
}

func (e *Encoder) channel(voice int) uint8 {
	if e.PerVoice {
		return (e.Channel + uint8(voice)) & 0x0F
	}
	return e.Channel & 0x0F
}

// Trigger returns the note on and note off for a hit, or nil for an
// unknown voice or a silent velocity.
func (e *Encoder) Trigger(voice int, velocity float64) (on, off Event, ok bool) {
	vel := Velocity(velocity)
	if voice < 0 || voice >= len(e.Kit.Notes) || vel == 0 {
		return Event{}, Event{}, false
	}
	ch, note := e.channel(voice), e.Kit.Notes[voice]
	return Event{Type: NoteOn, Channel: ch, Note: note, Velocity: vel},
		Event{Type: NoteOff, Channel: ch, Note: note},
		true
}

// Params returns the CCs needed to move a voice to the given timbre. Values
// already sent are skipped.
func (e *Encoder) Params(voice int, mode style.SynthMode, freq, decay float64) []Event {
	if !e.PerVoice || voice < 0 || voice >= len(e.last) {
		return nil
	}
	next := voiceParams{sent: true, freq: FreqCC(freq), decay: DecayCC(decay)}
	if mode == style.Noise {
		next.mode = 127
	}
	prev := e.last[voice]
	e.last[voice] = next

	ch := e.channel(voice)
	var events []Event
	if !prev.sent || prev.mode != next.mode {
		events = append(events, Event{Type: CC, Channel: ch, Note: CCMode, Velocity: next.mode})
	}
	if !prev.sent || prev.freq != next.freq {
		events = append(events, Event{Type: CC, Channel: ch, Note: CCFreq, Velocity: next.freq})
	}
	if !prev.sent || prev.decay != next.decay {
		events = append(events, Event{Type: CC, Channel: ch, Note: CCDecay, Velocity: next.decay})
	}
	return events
}

// VoiceOutput plays voices on a MIDI output port.
type VoiceOutput struct {
	mu   sync.Mutex
	enc  Encoder
	send func(msg gomidi.Message) error
	port drivers.Out
	errs int
}

// NewVoiceOutput opens port and plays kit notes on it.
func NewVoiceOutput(port drivers.Out, kit Kit, channel uint8, perVoice bool) (*VoiceOutput, error) {
	send, err := gomidi.SendTo(port)
	if err != nil {
		return nil, fmt.Errorf("open output %s: %w", port, err)
	}
	return newVoiceOutput(send, kit, channel, perVoice), nil
}

func newVoiceOutput(send func(gomidi.Message) error, kit Kit, channel uint8, perVoice bool) *VoiceOutput {
	return &VoiceOutput{
		enc:  Encoder{Kit: kit, Channel: channel, PerVoice: perVoice},
		send: send,
	}
}

// OpenVoiceOutput finds an output port whose name contains name and opens
// it. An empty name picks the first port.
func OpenVoiceOutput(name string, kit Kit, channel uint8, perVoice bool) (*VoiceOutput, error) {
	_, outPorts, ok := listPorts()
	if !ok {
		return nil, ErrScanTimeout
	}
	for _, p := range outPorts {
		if name == "" || containsFold(p.String(), name) {
			out, err := NewVoiceOutput(p, kit, channel, perVoice)
			if err != nil {
				return nil, err
			}
			out.port = p
			return out, nil
		}
	}
	return nil, fmt.Errorf("%w: %q", ErrNoPort, name)
}

// TriggerVoice sends a note on and note off. Drum machines trigger on the
// note on, so the note is not held.
func (o *VoiceOutput) TriggerVoice(voice int, velocity float64) {
	o.mu.Lock()
	defer o.mu.Unlock()
	on, off, ok := o.enc.Trigger(voice, velocity)
	if !ok {
		return
	}
	o.emit(on)
	o.emit(off)
}

// SetVoiceParams sends the voice's timbre as CCs when playing per-voice
// channels.
func (o *VoiceOutput) SetVoiceParams(voice int, mode style.SynthMode, freq, decay float64) {
	o.mu.Lock()
	defer o.mu.Unlock()
	for _, e := range o.enc.Params(voice, mode, freq, decay) {
		o.emit(e)
	}
}

func (o *VoiceOutput) emit(e Event) {
	if err := o.send(e.Message()); err != nil {
		o.errs++
	}
}

// Errors returns how many sends have failed.
func (o *VoiceOutput) Errors() int {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.errs
}

// Close releases the port.
func (o *VoiceOutput) Close() error {
	if o.port == nil {
		return nil
	}
	return o.port.Close()
}
