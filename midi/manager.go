package midi

import (
	"context"
	"strings"
	"sync"
	"time"

	"techno-machine/debug"

	gomidi "gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/drivers"
	_ "gitlab.com/gomidi/midi/v2/drivers/rtmididrv" // Register MIDI driver
)

// DeviceEvent is emitted when controllers connect/disconnect
type DeviceEvent struct {
	Type       DeviceEventType
	Controller Controller
	ID         string
}

type DeviceEventType int

const (
	DeviceConnected DeviceEventType = iota
	DeviceDisconnected
)

// scanTimeout bounds one port listing; CoreMIDI can hang.
const scanTimeout = 3 * time.Second

// DeviceManager handles hot-plug detection of MIDI controllers
type DeviceManager struct {
	controllers map[string]Controller
	keyboards   []string // lowercase name fragments of input ports to treat as keyboards
	mu          sync.RWMutex
	events      chan DeviceEvent
	pollRate    time.Duration
}

// NewDeviceManager creates a device manager. Input ports whose names
// contain one of keyboards (case-insensitive) are opened as keyboards.
func NewDeviceManager(keyboards ...string) *DeviceManager {
	dm := &DeviceManager{
		controllers: make(map[string]Controller),
		events:      make(chan DeviceEvent, 16),
		pollRate:    time.Second,
	}
	for _, k := range keyboards {
		if k = strings.ToLower(strings.TrimSpace(k)); k != "" {
			dm.keyboards = append(dm.keyboards, k)
		}
	}
	return dm
}

// Events returns a channel of device connect/disconnect events
func (dm *DeviceManager) Events() <-chan DeviceEvent {
	return dm.events
}

// Controllers returns a snapshot of connected controllers
func (dm *DeviceManager) Controllers() map[string]Controller {
	dm.mu.RLock()
	defer dm.mu.RUnlock()
	out := make(map[string]Controller, len(dm.controllers))
	for k, v := range dm.controllers {
		out[k] = v
	}
	return out
}

// GetLaunchpad returns the first connected Launchpad (or nil)
func (dm *DeviceManager) GetLaunchpad() Controller {
	return dm.first(ControllerLaunchpad)
}

// GetKeyboard returns the first connected keyboard (or nil)
func (dm *DeviceManager) GetKeyboard() Controller {
	return dm.first(ControllerKeyboard)
}

func (dm *DeviceManager) first(t ControllerType) Controller {
	dm.mu.RLock()
	defer dm.mu.RUnlock()
	for _, c := range dm.controllers {
		if c.Type() == t {
			return c
		}
	}
	return nil
}

// Run starts the polling loop (blocking - run in goroutine)
func (dm *DeviceManager) Run(ctx context.Context) {
	ticker := time.NewTicker(dm.pollRate)
	defer ticker.Stop()

	dm.scan()

	for {
		select {
		case <-ctx.Done():
			dm.closeAll()
			close(dm.events)
			return
		case <-ticker.C:
			dm.scan()
		}
	}
}

// listPorts returns the current ports, or ok=false if the driver hung.
func listPorts() (in []drivers.In, out []drivers.Out, ok bool) {
	type portsResult struct {
		in  []drivers.In
		out []drivers.Out
	}

	ch := make(chan portsResult, 1)
	go func() {
		ch <- portsResult{in: gomidi.GetInPorts(), out: gomidi.GetOutPorts()}
	}()

	select {
	case r := <-ch:
		return r.in, r.out, true
	case <-time.After(scanTimeout):
		// User needs to run: sudo killall coreaudiod midiserver
		return nil, nil, false
	}
}

func (dm *DeviceManager) scan() {
	inPorts, outPorts, ok := listPorts()
	if !ok {
		debug.Log("devices", "port scan timed out")
		return
	}

	seenIDs := make(map[string]bool)

	for _, inPort := range inPorts {
		id := inPort.String()
		kind := dm.classify(id)
		if kind == ControllerUnknown {
			continue
		}
		seenIDs[id] = true

		dm.mu.RLock()
		_, exists := dm.controllers[id]
		dm.mu.RUnlock()
		if exists {
			continue
		}

		var c Controller
		var err error
		switch kind {
		case ControllerLaunchpad:
			c, err = NewLaunchpadController(id, inPort, matchingOut(id, outPorts))
		case ControllerKeyboard:
			c, err = NewKeyboardController(id, inPort)
		}
		if err != nil {
			debug.Log("devices", "open %s: %v", id, err)
			continue
		}

		dm.mu.Lock()
		dm.controllers[id] = c
		dm.mu.Unlock()
		debug.Log("devices", "connected %s (%s)", id, kind)

		dm.events <- DeviceEvent{Type: DeviceConnected, Controller: c, ID: id}
	}

	// Check for disconnects
	dm.mu.Lock()
	var toRemove []string
	for id := range dm.controllers {
		if !seenIDs[id] {
			toRemove = append(toRemove, id)
		}
	}
	for _, id := range toRemove {
		dm.controllers[id].Close()
		delete(dm.controllers, id)
		debug.Log("devices", "disconnected %s", id)
		dm.events <- DeviceEvent{Type: DeviceDisconnected, ID: id}
	}
	dm.mu.Unlock()
}

// classify decides what an input port is from its name.
func (dm *DeviceManager) classify(name string) ControllerType {
	if isLaunchpad(name) {
		return ControllerLaunchpad
	}
	lower := strings.ToLower(name)
	for _, k := range dm.keyboards {
		if strings.Contains(lower, k) {
			return ControllerKeyboard
		}
	}
	return ControllerUnknown
}

func matchingOut(name string, outPorts []drivers.Out) drivers.Out {
	for _, op := range outPorts {
		if strings.EqualFold(op.String(), name) {
			return op
		}
	}
	return nil
}

func (dm *DeviceManager) closeAll() {
	dm.mu.Lock()
	defer dm.mu.Unlock()
	for _, c := range dm.controllers {
		c.Close()
	}
	dm.controllers = make(map[string]Controller)
}

func isLaunchpad(name string) bool {
	name = strings.ToLower(name)
	return strings.Contains(name, "launchpad") && strings.Contains(name, "midi")
}

// PortNames lists the MIDI input and output port names.
func PortNames() (in, out []string, ok bool) {
	inPorts, outPorts, ok := listPorts()
	for _, p := range inPorts {
		in = append(in, p.String())
	}
	for _, p := range outPorts {
		out = append(out, p.String())
	}
	return in, out, ok
}
