package main

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"techno-machine/midi"
	"techno-machine/style"
)

func main() {
	if len(os.Args) < 2 {
		usage()
		return
	}

	switch os.Args[1] {
	case "list":
		listPorts()
	case "voices":
		testVoices(os.Args[2:])
	case "leds":
		testLEDs()
	case "poll":
		pollDevices()
	default:
		usage()
	}
}

func usage() {
	fmt.Println("MIDI Test Scripts")
	fmt.Println("")
	fmt.Println("Commands:")
	fmt.Println("  list                - List all MIDI ports")
	fmt.Println("  voices [port] [kit] - Play each drum voice once")
	fmt.Println("  leds                - Light the Launchpad grid")
	fmt.Println("  poll                - Poll for device changes")
}

func listPorts() {
	fmt.Println("=== MIDI Ports ===")
	fmt.Println("(waiting up to 3 seconds...)")

	in, out, ok := midi.PortNames()
	if !ok {
		fmt.Println("\nTIMEOUT! CoreMIDI is hung.")
		fmt.Println("Fix: sudo killall coreaudiod midiserver")
		return
	}
	fmt.Println("Inputs:")
	for i, name := range in {
		fmt.Printf("  %d: %s\n", i, name)
	}
	fmt.Println("\nOutputs:")
	for i, name := range out {
		fmt.Printf("  %d: %s\n", i, name)
	}
}

func testVoices(args []string) {
	port, kitName := "", midi.DefaultKit
	if len(args) > 0 {
		port = args[0]
	}
	if len(args) > 1 {
		kitName = args[1]
	}
	kit, err := midi.LookupKit(kitName)
	if err != nil {
		fmt.Printf("Error: %v (kits: %s)\n", err, strings.Join(midi.KitNames(), ", "))
		return
	}

	out, err := midi.OpenVoiceOutput(port, kit, 9, false)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}
	defer out.Close()

	for v := range style.NumVoices {
		fmt.Printf("  voice %d: %-10s secondary=%-5v note %d\n", v, style.RoleOf(v), style.IsSecondary(v), kit.Notes[v])
		out.TriggerVoice(v, 0.8)
		time.Sleep(400 * time.Millisecond)
	}
	if n := out.Errors(); n > 0 {
		fmt.Printf("%d sends failed\n", n)
	}
	fmt.Println("Done!")
}

// waitForLaunchpad runs a device manager until a Launchpad connects.
func waitForLaunchpad(ctx context.Context) midi.Controller {
	dm := midi.NewDeviceManager()
	go dm.Run(ctx)
	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-dm.Events():
			if !ok {
				return nil
			}
			if ev.Type == midi.DeviceConnected && ev.Controller.Type() == midi.ControllerLaunchpad {
				return ev.Controller
			}
		}
	}
}

func testLEDs() {
	fmt.Println("Looking for Launchpad X (5 seconds)...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	lp := waitForLaunchpad(ctx)
	if lp == nil {
		cancel()
		fmt.Println("No Launchpad found")
		return
	}
	// Keep the device manager alive until we are done with the pads.
	defer cancel()
	fmt.Printf("Using %s\n", lp.ID())

	colors := [][3]uint8{
		{255, 0, 0}, {255, 128, 0}, {255, 255, 0}, {0, 255, 0},
		{0, 255, 255}, {0, 0, 255}, {128, 0, 255}, {255, 0, 255},
	}

	fmt.Println("Lighting rows...")
	for row := range 8 {
		var batch []midi.LEDUpdate
		for col := range 9 {
			batch = append(batch, midi.LEDUpdate{Row: row, Col: col, Color: colors[row], Channel: midi.ChannelStatic})
		}
		if err := lp.SetLEDBatch(batch); err != nil {
			fmt.Printf("Error: %v\n", err)
			return
		}
		time.Sleep(100 * time.Millisecond)
	}
	lp.SetLEDRGB(8, 0, [3]uint8{0, 255, 0}, midi.ChannelPulse)

	fmt.Println("Press Enter to clear...")
	fmt.Scanln()
	fmt.Println("Done!")
}

func pollDevices() {
	fmt.Println("Watching for device changes. Ctrl+C to exit.")

	dm := midi.NewDeviceManager()
	go dm.Run(context.Background())
	for ev := range dm.Events() {
		state := "connected"
		if ev.Type == midi.DeviceDisconnected {
			state = "disconnected"
		}
		kind := "?"
		if ev.Controller != nil {
			kind = ev.Controller.Type().String()
		}
		fmt.Printf("[%s] %s %s (%s)\n", time.Now().Format("15:04:05"), state, ev.ID, kind)
	}
}
