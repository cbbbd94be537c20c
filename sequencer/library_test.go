package sequencer

import (
	"testing"

	"techno-machine/config"
)

func typeKeys(d *LibraryDevice, keys ...string) {
	for _, k := range keys {
		d.HandleKey(k)
	}
}

func TestLibraryDevice(t *testing.T) {
	m := newTestManager(t)
	lib := &config.Library{Dir: t.TempDir()}
	d := NewLibraryDevice(m, lib)

	for _, led := range d.RenderLEDs() {
		if led.Col < 8 && led.Color != ([3]uint8{}) {
			t.Fatalf("empty library lit pad %d,%d", led.Row, led.Col)
		}
	}

	saved := m.Songs()
	typeKeys(d, "s", "f", "r", "i")
	if !d.IsInputMode() {
		t.Fatal("save should prompt for a name")
	}
	typeKeys(d, "enter")
	if d.IsInputMode() || len(d.sets) != 1 || d.sets[0].Name != "fri" {
		t.Fatalf("sets after save = %+v (status %q)", d.sets, d.status)
	}

	m.GenerateSet(2, 16)
	typeKeys(d, "enter")
	got := m.Songs()
	if len(got) != len(saved) {
		t.Fatalf("loaded %d songs, want %d", len(got), len(saved))
	}
	for i := range saved {
		if got[i] != saved[i] {
			t.Errorf("song %d = %+v, want %+v", i, got[i], saved[i])
		}
	}

	typeKeys(d, "r", "backspace", "backspace", "backspace", "s", "a", "t", "enter")
	if len(d.sets) != 1 || d.sets[0].Name != "sat" {
		t.Errorf("sets after rename = %+v", d.sets)
	}

	typeKeys(d, "d", "n")
	if len(d.sets) != 1 {
		t.Error("declined delete removed the set")
	}
	typeKeys(d, "d", "y")
	if len(d.sets) != 0 {
		t.Errorf("sets after delete = %+v", d.sets)
	}
}

func TestLibraryDevicePads(t *testing.T) {
	m := newTestManager(t)
	lib := &config.Library{Dir: t.TempDir()}
	for _, name := range []string{"a", "b"} {
		if _, err := lib.Save(name, m.Songs()); err != nil {
			t.Fatal(err)
		}
	}
	d := NewLibraryDevice(m, lib)

	d.HandlePad(7, 1)
	if d.cursor != 1 {
		t.Errorf("cursor %d after tapping the second pad", d.cursor)
	}
	d.HandlePad(7, 5) // no set there
	if d.cursor != 1 {
		t.Errorf("empty pad moved the cursor to %d", d.cursor)
	}

	var lit int
	for _, led := range d.RenderLEDs() {
		if led.Row == 7 && led.Col < 8 && led.Color != ([3]uint8{}) {
			lit++
		}
	}
	if lit != 2 {
		t.Errorf("%d pads lit, want one per set", lit)
	}

	layout := d.HelpLayout()
	if layout.Grid[7][0].Tooltip == "" || layout.Grid[7][2].Tooltip != "" {
		t.Errorf("help layout top row = %+v", layout.Grid[7][:3])
	}
}
