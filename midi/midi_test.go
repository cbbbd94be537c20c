package midi

import (
	"bytes"
	"errors"
	"testing"

	"techno-machine/style"

	gomidi "gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/smf"
)

func TestKits(t *testing.T) {
	for _, name := range KitNames() {
		t.Run(name, func(t *testing.T) {
			kit := GetKit(name)
			seen := map[uint8]bool{}
			for v, n := range kit.Notes {
				if seen[n] {
					t.Errorf("note %d used twice", n)
				}
				seen[n] = true
				if got := kit.VoiceFor(n); got != v {
					t.Errorf("VoiceFor(%d) = %d, want %d", n, got, v)
				}
			}
		})
	}

	if got := GetKit("nope").Name; got != Kits[DefaultKit].Name {
		t.Errorf("unknown kit fell back to %q", got)
	}
	if _, err := LookupKit("nope"); !errors.Is(err, ErrUnknownKit) {
		t.Errorf("LookupKit error = %v, want ErrUnknownKit", err)
	}
	if v := GetKit("gm").VoiceFor(100); v != -1 {
		t.Errorf("unmapped note gave voice %d", v)
	}
}

func TestVelocity(t *testing.T) {
	tests := []struct {
		in   float64
		want uint8
	}{
		{0, 0},
		{-1, 0},
		{0.001, 1},
		{0.5, 64},
		{1, 127},
		{2, 127},
	}
	for _, tt := range tests {
		if got := Velocity(tt.in); got != tt.want {
			t.Errorf("Velocity(%v) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

func TestCCMapping(t *testing.T) {
	tests := []struct {
		name string
		got  uint8
		want uint8
	}{
		{"freq floor", FreqCC(20), 0},
		{"freq below floor", FreqCC(5), 0},
		{"freq ceiling", FreqCC(20000), 127},
		{"freq geometric middle", FreqCC(632.46), 64},
		{"decay floor", DecayCC(1), 0},
		{"decay ceiling", DecayCC(5000), 127},
		{"decay above ceiling", DecayCC(9000), 127},
	}
	for _, tt := range tests {
		if tt.got != tt.want {
			t.Errorf("%s: got %d, want %d", tt.name, tt.got, tt.want)
		}
	}
	if FreqCC(100) >= FreqCC(1000) {
		t.Error("FreqCC not increasing")
	}
}

func TestEncoderParams(t *testing.T) {
	shared := Encoder{Kit: GetKit("gm")}
	if ev := shared.Params(0, style.Noise, 8000, 30); ev != nil {
		t.Errorf("shared channel sent %d CCs", len(ev))
	}

	enc := Encoder{Kit: GetKit("gm"), Channel: 9, PerVoice: true}
	first := enc.Params(3, style.Noise, 8000, 30)
	if len(first) != 3 {
		t.Fatalf("first params sent %d CCs, want 3", len(first))
	}
	for _, e := range first {
		if e.Channel != 12 || e.Type != CC {
			t.Errorf("unexpected event %+v", e)
		}
	}
	if again := enc.Params(3, style.Noise, 8000, 30); len(again) != 0 {
		t.Errorf("repeated params sent %d CCs", len(again))
	}
	changed := enc.Params(3, style.Noise, 8000, 300)
	if len(changed) != 1 || changed[0].Note != CCDecay {
		t.Errorf("decay change sent %+v", changed)
	}
}

func TestVoiceOutput(t *testing.T) {
	var sent []gomidi.Message
	out := newVoiceOutput(func(m gomidi.Message) error {
		sent = append(sent, m)
		return nil
	}, GetKit("gm"), 9, false)

	out.TriggerVoice(2, 1)
	out.TriggerVoice(2, 0) // silent
	out.TriggerVoice(42, 1)

	if len(sent) != 2 {
		t.Fatalf("sent %d messages, want 2", len(sent))
	}
	var ch, key, vel uint8
	if !sent[0].GetNoteOn(&ch, &key, &vel) || ch != 9 || key != 36 || vel != 127 {
		t.Errorf("note on = %v", sent[0])
	}
	if !sent[1].GetNoteOff(&ch, &key, &vel) || key != 36 {
		t.Errorf("note off = %v", sent[1])
	}
}

func TestRecorder(t *testing.T) {
	rec := NewRecorder(GetKit("gm"), 9, false, 128)
	for step := range 4 {
		rec.Seek(float64(step) / 4)
		rec.TriggerVoice(2, 0.8)
	}
	if rec.Len() != 8 {
		t.Fatalf("recorded %d events, want 8", rec.Len())
	}

	var buf bytes.Buffer
	if _, err := rec.WriteTo(&buf); err != nil {
		t.Fatal(err)
	}
	s, err := smf.ReadFrom(&buf)
	if err != nil {
		t.Fatal(err)
	}
	if len(s.Tracks) != 1 {
		t.Fatalf("got %d tracks", len(s.Tracks))
	}

	var ticks []int64
	var abs int64
	for _, ev := range s.Tracks[0] {
		abs += int64(ev.Delta)
		var ch, key, vel uint8
		if ev.Message.GetNoteOn(&ch, &key, &vel) && vel > 0 {
			ticks = append(ticks, abs)
		}
	}
	want := []int64{0, 24, 48, 72}
	if len(ticks) != len(want) {
		t.Fatalf("note ons at %v, want %v", ticks, want)
	}
	for i := range want {
		if ticks[i] != want[i] {
			t.Errorf("note on %d at tick %d, want %d", i, ticks[i], want[i])
		}
	}
}

func TestLaunchpadMapping(t *testing.T) {
	tests := []struct {
		row, col int
		note     uint8
	}{
		{0, 0, 11},
		{7, 7, 88},
		{3, 8, 49},
		{8, 0, 91},
		{8, 7, 98},
	}
	for _, tt := range tests {
		if got := rowColToNote(tt.row, tt.col); got != tt.note {
			t.Errorf("rowColToNote(%d,%d) = %d, want %d", tt.row, tt.col, got, tt.note)
		}
		if row, col := noteToRowCol(tt.note); row != tt.row || col != tt.col {
			t.Errorf("noteToRowCol(%d) = %d,%d", tt.note, row, col)
		}
	}
	if row, _ := noteToRowCol(5); row != -1 {
		t.Errorf("note 5 mapped to row %d", row)
	}
	if row, col := ccToRowCol(93); row != 8 || col != 2 {
		t.Errorf("cc 93 = %d,%d", row, col)
	}
}

func TestMapRGB(t *testing.T) {
	if got := mapRGBToLaunchpad([3]uint8{0, 0, 0}); got != 0 {
		t.Errorf("black = %d", got)
	}
	if got := mapRGBToLaunchpad([3]uint8{255, 255, 255}); got != 119 {
		t.Errorf("white = %d", got)
	}
	if got := mapRGBToLaunchpad([3]uint8{250, 5, 5}); got != 5 {
		t.Errorf("red = %d", got)
	}
}

func TestClassify(t *testing.T) {
	dm := NewDeviceManager("KeyStep", " ")
	tests := []struct {
		name string
		want ControllerType
	}{
		{"Launchpad X LPX MIDI", ControllerLaunchpad},
		{"Arturia KeyStep 37", ControllerKeyboard},
		{"IAC Driver Bus 1", ControllerUnknown},
	}
	for _, tt := range tests {
		if got := dm.classify(tt.name); got != tt.want {
			t.Errorf("classify(%q) = %s, want %s", tt.name, got, tt.want)
		}
	}
}
