package sequencer

import "techno-machine/style"

// Track is one of the eight voice lanes. Muted lanes stay silent; when any
// lane is soloed only soloed lanes play.
type Track struct {
	Name  string
	Muted bool
	Solo  bool
}

var voiceNames = [style.NumVoices]string{
	"Hat", "Hat 2", "Kick", "Kick 2", "Clap", "Clap 2", "Perc", "Perc 2",
}

// NewTracks returns the eight voice lanes in voice order.
func NewTracks() [style.NumVoices]*Track {
	var out [style.NumVoices]*Track
	for v := range out {
		out[v] = &Track{Name: voiceNames[v]}
	}
	return out
}

// Audible reports whether voice v should sound given mute and solo state.
func Audible(tracks [style.NumVoices]*Track, v int) bool {
	if v < 0 || v >= style.NumVoices {
		return false
	}
	anySolo := false
	for _, t := range tracks {
		if t.Solo {
			anySolo = true
			break
		}
	}
	if anySolo {
		return tracks[v].Solo
	}
	return !tracks[v].Muted
}

// trackSynth drops triggers for voices that are not audible.
type trackSynth struct {
	tracks [style.NumVoices]*Track
	out    Synth
}

func (s trackSynth) TriggerVoice(voice int, velocity float64) {
	if s.out != nil && Audible(s.tracks, voice) {
		s.out.TriggerVoice(voice, velocity)
	}
}

func (s trackSynth) SetVoiceParams(voice int, mode style.SynthMode, freq, decay float64) {
	if s.out != nil {
		s.out.SetVoiceParams(voice, mode, freq, decay)
	}
}
