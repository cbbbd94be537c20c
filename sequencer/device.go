package sequencer

import (
	"techno-machine/style"
	"techno-machine/widgets"
)

// Synth is the voice synthesis collaborator driven by the engine.
// TriggerVoice is called once per fired onset, SetVoiceParams once per
// voice whenever the mixed timbre changes.
type Synth interface {
	TriggerVoice(voice int, velocity float64)
	SetVoiceParams(voice int, mode style.SynthMode, freq, decay float64)
}

// Device is a focusable performance view. Manager routes keys and pads to
// the focused device and renders its LEDs to the grid controller.
type Device interface {
	View() string
	RenderLEDs() []LEDState
	HelpLayout() widgets.LaunchpadLayout
	HandleKey(key string)
	HandlePad(row, col int)
}

// LEDState describes the state of a single LED
type LEDState struct {
	Row, Col int
	Color    [3]uint8 // RGB color - controller maps to its palette
	Channel  uint8    // 0=static, 2=pulse
}

// Top row (row 8) commands, shared by every device.
const (
	PadPlay = iota
	PadLoadA
	PadLoadB
	PadTransition
	PadXfadeDown
	PadXfadeUp
	PadBuild
	PadAutoDJ
)

const topRow = 8
