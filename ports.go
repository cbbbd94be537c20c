package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"techno-machine/config"
	"techno-machine/midi"
)

var (
	addKeyboard string
	saveConfig  bool
)

var portsCmd = &cobra.Command{
	Use:   "ports",
	Short: "List MIDI ports and register keyboards",
	Long: `List the MIDI input and output ports. Input ports can be registered as
keyboards so their notes trigger voices during live play.

Examples:
  techno-machine ports
  techno-machine ports --keyboard "KeyStep" --save`,
	RunE: runPorts,
}

func init() {
	portsCmd.Flags().StringVar(&addKeyboard, "keyboard", "", "Register an input port name fragment as a keyboard")
	portsCmd.Flags().BoolVar(&saveConfig, "save", false, "Save the updated config")
}

func runPorts(cmd *cobra.Command, args []string) error {
	in, out, ok := midi.PortNames()
	if !ok {
		return fmt.Errorf("%w (on macOS: sudo killall coreaudiod midiserver)", midi.ErrScanTimeout)
	}

	fmt.Println("=== MIDI Input Ports ===")
	for i, name := range in {
		fmt.Printf("  %d: %s\n", i, name)
	}
	fmt.Println("\n=== MIDI Output Ports ===")
	for i, name := range out {
		fmt.Printf("  %d: %s\n", i, name)
	}

	if addKeyboard == "" {
		return nil
	}
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	cfg.AddController(config.ControllerConfig{
		PortName:    addKeyboard,
		Type:        config.ControllerKeyboard,
		AutoConnect: true,
	})
	fmt.Printf("\nRegistered keyboard %q\n", addKeyboard)
	if !saveConfig {
		fmt.Println("(not saved, pass --save)")
		return nil
	}
	if configPath != "" {
		return cfg.SaveFile(configPath)
	}
	return cfg.Save()
}
