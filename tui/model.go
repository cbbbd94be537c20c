package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"techno-machine/midi"
	"techno-machine/sequencer"
	"techno-machine/theme"
	"techno-machine/widgets"
)

// Model is the live player screen. Rendering lives in view.go.
type Model struct {
	engine  *sequencer.Manager
	devices *midi.DeviceManager
	theme   *theme.Theme

	padHelp *widgets.LaunchpadHelp
	helpTop *int // screen row of the pad help, set while rendering

	grid    midi.Controller
	keys    midi.Controller
	hover   string
	exiting bool
}

type tickMsg struct{}

type deviceMsg midi.DeviceEvent

func NewModel(manager *sequencer.Manager, deviceMgr *midi.DeviceManager, th *theme.Theme) Model {
	m := Model{
		engine:  manager,
		devices: deviceMgr,
		theme:   th,
		padHelp: widgets.NewLaunchpadHelp(),
		helpTop: new(int),
	}
	m.syncPadHelp()
	return m
}

func waitForFrame(manager *sequencer.Manager) tea.Cmd {
	return func() tea.Msg {
		<-manager.UpdateChan
		return tickMsg{}
	}
}

func waitForDevice(deviceMgr *midi.DeviceManager) tea.Cmd {
	return func() tea.Msg {
		if ev, ok := <-deviceMgr.Events(); ok {
			return deviceMsg(ev)
		}
		return nil
	}
}

func (m Model) Init() tea.Cmd {
	if m.devices == nil {
		return waitForFrame(m.engine)
	}
	return tea.Batch(waitForFrame(m.engine), waitForDevice(m.devices))
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.onKey(msg.String())
	case tea.MouseMsg:
		m.hover = m.tooltipAt(msg.X, msg.Y)
	case tickMsg:
		return m, waitForFrame(m.engine)
	case deviceMsg:
		m.onDevice(midi.DeviceEvent(msg))
		return m, waitForDevice(m.devices)
	}
	return m, nil
}

func (m Model) onKey(key string) (tea.Model, tea.Cmd) {
	if key == "ctrl+c" || (key == "q" && !m.typing()) {
		m.exiting = true
		m.engine.Shutdown()
		return m, tea.Quit
	}
	if m.typing() {
		m.engine.HandleKey(key)
		return m, nil
	}

	switch key {
	case "p":
		m.engine.TogglePlay()
	case "+", "=":
		m.engine.NudgeTempo(1)
	case "-", "_":
		m.engine.NudgeTempo(-1)
	case "tab":
		m.engine.FocusNext()
		m.syncPadHelp()
	default:
		m.engine.HandleKey(key)
	}
	return m, nil
}

// typing reports whether the focused view is collecting text.
func (m Model) typing() bool {
	in, ok := m.engine.GetFocused().(sequencer.TextInput)
	return ok && in.IsInputMode()
}

func (m Model) syncPadHelp() {
	if focused := m.engine.GetFocused(); focused != nil {
		m.padHelp.SetLayout(focused.HelpLayout())
	}
}

func (m *Model) onDevice(ev midi.DeviceEvent) {
	if ev.Type == midi.DeviceDisconnected {
		if m.grid != nil && m.grid.ID() == ev.ID {
			m.grid = nil
			m.engine.SetController(nil)
		}
		if m.keys != nil && m.keys.ID() == ev.ID {
			m.keys = nil
		}
		return
	}

	switch ev.Controller.Type() {
	case midi.ControllerLaunchpad:
		m.grid = ev.Controller
		m.engine.SetController(ev.Controller)
		go func(pads <-chan midi.PadEvent) {
			for p := range pads {
				m.engine.HandlePad(p.Row, p.Col)
			}
		}(ev.Controller.PadEvents())
	case midi.ControllerKeyboard:
		m.keys = ev.Controller
		m.engine.SetMIDIInput(ev.Controller)
	}
}

func (m Model) tooltipAt(x, y int) string {
	if y < *m.helpTop {
		return ""
	}
	if hit, tip := m.padHelp.HitTest(x, y-*m.helpTop); hit {
		return tip
	}
	return ""
}
