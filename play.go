package main

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"techno-machine/config"
	"techno-machine/debug"
	"techno-machine/midi"
	"techno-machine/sequencer"
	"techno-machine/theme"
	"techno-machine/tui"
)

var (
	tempo    float64
	outPort  string
	kitName  string
	noOutput bool
	manual   bool
)

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Start the live player",
	Long: `Start the live player with the terminal UI. Launchpad X controllers and
configured keyboards are picked up whenever they are plugged in.

Examples:
  techno-machine play
  techno-machine play --tempo 132 --out "RD-8" --kit rd8
  techno-machine play --set friday.yaml --manual`,
	RunE: runPlay,
}

func addPlayFlags(cmd *cobra.Command) {
	cmd.Flags().Float64VarP(&tempo, "tempo", "t", 0, "Tempo in BPM (0 = from config)")
	cmd.Flags().StringVarP(&outPort, "out", "o", "", "Output port name fragment (default from config, else first port)")
	cmd.Flags().StringVarP(&kitName, "kit", "k", "", "Drum kit note map (gm, rd8, tr8s, er1)")
	cmd.Flags().BoolVar(&noOutput, "no-output", false, "Run without a MIDI output")
	cmd.Flags().BoolVar(&manual, "manual", false, "Only change songs when triggered")
}

// applyPlayFlags overrides config values with the flags that were set.
func applyPlayFlags(cmd *cobra.Command, cfg *config.Config) error {
	if cmd.Flags().Changed("tempo") {
		cfg.Tempo = tempo
	}
	if outPort != "" {
		cfg.Output.PortName = outPort
	}
	if kitName != "" {
		cfg.Output.Kit = kitName
	}
	if manual {
		cfg.ManualTrigger = true
	}
	return cfg.Validate()
}

func runPlay(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if err := applyPlayFlags(cmd, cfg); err != nil {
		return err
	}
	kit, err := midi.LookupKit(cfg.Output.Kit)
	if err != nil {
		return err
	}
	songs, err := loadSet()
	if err != nil {
		return err
	}

	palette, err := theme.Load(cfg.Palette)
	if err != nil {
		return err
	}
	th := theme.New(palette)

	manager := sequencer.NewManager(optionsFrom(cfg))
	manager.SetKit(kit)
	if songs != nil {
		manager.SetSongs(songs)
	}
	if lib, err := config.DefaultLibrary(); err == nil {
		manager.AddDevice(sequencer.NewLibraryDevice(manager, lib))
	}

	if !noOutput {
		out, err := midi.OpenVoiceOutput(cfg.Output.PortName, kit, uint8(cfg.Output.Channel-1), cfg.Output.PerVoice)
		if err != nil {
			return fmt.Errorf("%w (use --no-output to run without one)", err)
		}
		defer out.Close()
		manager.SetSynth(out)
		debug.Log("output", "playing kit %s on channel %d", kit.Name, cfg.Output.Channel)
	}

	// Create MIDI device manager (handles hot-plug)
	deviceMgr := midi.NewDeviceManager(cfg.KeyboardPorts()...)

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()
	go deviceMgr.Run(ctx)

	manager.StartRuntime()

	m := tui.NewModel(manager, deviceMgr, th)
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseCellMotion())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("tui: %w", err)
	}
	return nil
}
