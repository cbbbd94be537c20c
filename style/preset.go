package style

// SynthMode selects the oscillator of a drum voice.
type SynthMode int

const (
	Sine SynthMode = iota
	Noise
)

func (m SynthMode) String() string {
	if m == Noise {
		return "noise"
	}
	return "sine"
}

// Frequency and decay limits a voice accepts.
const (
	MinFreq  = 20.0
	MaxFreq  = 20000.0
	MinDecay = 1.0    // ms
	MaxDecay = 5000.0 // ms
)

// VoicePreset is the base timbre of a role: oscillator, frequency in Hz and
// decay in ms.
type VoicePreset struct {
	Mode  SynthMode
	Freq  float64
	Decay float64
}

// Clamped limits frequency and decay to what a voice can play.
func (p VoicePreset) Clamped() VoicePreset {
	p.Freq = min(MaxFreq, max(MinFreq, p.Freq))
	p.Decay = min(MaxDecay, max(MinDecay, p.Decay))
	return p
}

var presets = [Count][NumRoles]VoicePreset{
	Techno: {
		{Noise, 10000, 20}, // hi-hat
		{Sine, 42, 250},    // 909 kick
		{Noise, 1800, 55},  // clap
		{Noise, 5000, 80},  // open hat
	},
	Electronic: {
		{Noise, 14000, 15},
		{Sine, 38, 300},
		{Noise, 2200, 40},
		{Noise, 6000, 100},
	},
	Breakbeat: {
		{Noise, 8000, 35},
		{Sine, 55, 180},
		{Noise, 1200, 80}, // snare
		{Noise, 4000, 120},
	},
	WestAfrican: {
		{Noise, 5000, 45}, // shaker
		{Sine, 80, 150},   // djembe bass
		{Noise, 800, 70},  // djembe slap
		{Noise, 3000, 60}, // shekere
	},
	AfroCuban: {
		{Noise, 4500, 50}, // guiro
		{Sine, 90, 180},   // conga low
		{Noise, 1000, 60}, // conga slap
		{Noise, 2500, 40}, // timbale
	},
	Brazilian: {
		{Noise, 7000, 25}, // tamborim
		{Sine, 65, 200},   // surdo
		{Noise, 1500, 45}, // caixa
		{Noise, 4500, 55}, // cuica
	},
	Jazz: {
		{Noise, 6000, 90}, // ride
		{Sine, 50, 350},
		{Noise, 1400, 100}, // brush
		{Noise, 5500, 150}, // crash
	},
	Balkan: {
		{Noise, 9000, 30},
		{Sine, 75, 130}, // tapan
		{Noise, 2000, 40},
		{Noise, 3500, 45}, // darbuka
	},
	Indian: {
		{Noise, 5500, 40}, // jhanjh
		{Sine, 60, 280},   // bayan
		{Sine, 200, 60},   // dayan
		{Noise, 2800, 50}, // dholak
	},
	Gamelan: {
		{Sine, 1200, 200}, // kenong
		{Sine, 100, 400},  // gong
		{Sine, 800, 120},  // saron
		{Sine, 2000, 80},  // bonang
	},
}

// Preset returns the base timbre of role r in style idx. Invalid styles
// fall back to Techno, invalid roles to Timeline.
func Preset(idx int, r Role) VoicePreset {
	if !Valid(idx) {
		idx = Techno
	}
	if !r.Valid() {
		r = Timeline
	}
	return presets[idx][r]
}

// VoicePresets returns the base timbre of all eight voices for a composite.
// Both voices of a role share the preset of the role's style.
func (c Composite) VoicePresets() [NumVoices]VoicePreset {
	var out [NumVoices]VoicePreset
	for v := range out {
		r := RoleOf(v)
		out[v] = Preset(c.Style(r), r)
	}
	return out
}
