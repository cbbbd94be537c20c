package main

import (
	"errors"
	"path/filepath"
	"testing"

	"techno-machine/config"
)

func TestOptionsFrom(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Tempo = 140
	cfg.Seed = 9
	cfg.ManualTrigger = true
	cfg.SongBars = 48

	opts := optionsFrom(cfg)
	if opts.Tempo != 140 || opts.Seed != 9 || !opts.Manual || opts.SongBars != 48 {
		t.Errorf("options = %+v", opts)
	}
	if opts.SweepEnabled != cfg.FilterSweep || opts.BuildupBars != cfg.BuildupBars {
		t.Errorf("options lost config fields: %+v", opts)
	}
}

func TestApplyPlayFlags(t *testing.T) {
	cfg := config.DefaultConfig()
	if err := playCmd.Flags().Set("tempo", "400"); err != nil {
		t.Fatal(err)
	}
	defer playCmd.Flags().Set("tempo", "0")

	if err := applyPlayFlags(playCmd, cfg); !errors.Is(err, config.ErrInvalid) {
		t.Errorf("tempo 400 accepted: %v", err)
	}
}

func TestLoadSetFlag(t *testing.T) {
	defer func() { setPath = "" }()

	setPath = ""
	if songs, err := loadSet(); songs != nil || err != nil {
		t.Errorf("no --set: %v, %v", songs, err)
	}

	setPath = filepath.Join(t.TempDir(), "missing.yaml")
	if _, err := loadSet(); err == nil {
		t.Error("missing set file should fail")
	}
}

func TestCommands(t *testing.T) {
	for _, name := range []string{"play", "export", "set", "ports"} {
		if cmd, _, err := rootCmd.Find([]string{name}); err != nil || cmd.Name() != name {
			t.Errorf("command %q not registered", name)
		}
	}
}
