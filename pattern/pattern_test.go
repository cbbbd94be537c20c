package pattern

import (
	"testing"

	"techno-machine/style"
)

func TestPatternWraps(t *testing.T) {
	p := New(16)
	p.SetOnset(-1, 0.8)
	if !p.HasOnset(15) {
		t.Error("position -1 should wrap to 15")
	}
	p.SetOnset(17, 5)
	if got := p.Velocity(1); got != 1 {
		t.Errorf("velocity clamp: got %v, want 1", got)
	}
	p.SetOnset(2, 0)
	if got := p.Velocity(2); got != 0.01 {
		t.Errorf("SetOnset(0) stored %v, want 0.01", got)
	}
	p.ClearOnset(18)
	if p.HasOnset(2) {
		t.Error("ClearOnset(18) should clear step 2")
	}
	if p.Onsets() != 2 {
		t.Errorf("Onsets() = %d, want 2", p.Onsets())
	}
}

func TestPatternDegenerateLength(t *testing.T) {
	for _, n := range []int{0, -5} {
		if New(n).Len() != 1 {
			t.Errorf("New(%d).Len() = %d, want 1", n, New(n).Len())
		}
	}
	var zero Pattern
	zero.SetOnset(3, 1)
	if zero.HasOnset(0) || zero.Len() != 1 {
		t.Error("zero pattern should stay empty with length 1")
	}
}

func TestGenerateShape(t *testing.T) {
	lengths := []int{1, 3, 7, 16, 32}
	variations := []float64{0, 0.25, 0.5, 0.75, 1}

	g := NewGenerator(1)
	for s := 0; s < style.Count; s++ {
		for _, n := range lengths {
			for _, v := range variations {
				set := g.Generate(style.Uniform(s), n, v)
				for voice, p := range set {
					if p.Len() != n {
						t.Fatalf("style %d len %d var %v voice %d: length %d", s, n, v, voice, p.Len())
					}
					for i := 0; i < n; i++ {
						vel := p.Velocity(i)
						if vel < 0 || vel > 1 || (vel > 0 && vel < 0.01) {
							t.Fatalf("style %d voice %d step %d: velocity %v", s, voice, i, vel)
						}
					}
				}
			}
		}
	}

	if set := g.Generate(style.Uniform(style.Techno), 0, 0.5); set.Len() != 1 {
		t.Errorf("length 0 gave %d, want 1", set.Len())
	}
}

func TestGenerateDeterministic(t *testing.T) {
	ctx := style.Composite{style.Jazz, style.Techno, style.Balkan, style.Indian}
	a := NewGenerator(42).Generate(ctx, 16, 0.6)
	b := NewGenerator(42).Generate(ctx, 16, 0.6)
	for v := range a {
		for i := 0; i < 16; i++ {
			if a[v].Velocity(i) != b[v].Velocity(i) {
				t.Fatalf("voice %d step %d differs between equal seeds", v, i)
			}
		}
	}
}

func TestFoundationSkeleton(t *testing.T) {
	g := NewGenerator(7)
	for seed := range uint64(50) {
		g.Seed(seed)
		set := g.Generate(style.Uniform(style.Techno), 16, 0.2)
		kick := set[style.VoiceOf(style.Foundation, false)]
		for _, pos := range []int{0, 4, 8, 12} {
			if v := kick.Velocity(pos); v < 0.85 || v > 1 {
				t.Fatalf("seed %d: skeleton step %d velocity %v", seed, pos, v)
			}
		}
		if kick.Onsets() != 4 {
			t.Fatalf("seed %d: %d kick onsets at low variation, want 4", seed, kick.Onsets())
		}
	}
}

func TestGrooveBackbeat(t *testing.T) {
	g := NewGenerator(3)
	set := g.Generate(style.Uniform(style.Gamelan), 16, 0.1)
	clap := set[style.VoiceOf(style.Groove, false)]
	if !clap.HasOnset(4) || !clap.HasOnset(12) {
		t.Error("groove should fire on quarters 2 and 4")
	}
	if clap.Onsets() != 2 {
		t.Errorf("groove has %d onsets at low variation, want 2", clap.Onsets())
	}
}

func TestSilentBelowMinDensity(t *testing.T) {
	g := NewGenerator(9)
	set := g.GenerateWithDensities(style.Uniform(style.Techno), 16, 0.5, Densities{0, 0.005, 0, 0})
	for v, p := range set {
		if p.Onsets() != 0 {
			t.Errorf("voice %d has %d onsets with zero density", v, p.Onsets())
		}
	}
}

func TestDensityClamp(t *testing.T) {
	g := NewGenerator(11)
	set := g.GenerateWithDensities(style.Uniform(style.Electronic), 16, 1, Densities{5, 5, 5, 5})
	hats := set[style.VoiceOf(style.Timeline, false)]
	// round(16 * 0.9) = 14
	if hats.Onsets() != 14 {
		t.Errorf("timeline onsets = %d, want 14", hats.Onsets())
	}
}

func TestInterlockSuppressesOverlap(t *testing.T) {
	d := Densities{0.3, 0.25, 0.25, 0.3}
	for _, r := range style.Roles() {
		t.Run(r.String(), func(t *testing.T) {
			primaries, overlaps := 0, 0
			for seed := range uint64(300) {
				g := NewGenerator(seed)
				set := g.GenerateWithDensities(style.Uniform(style.Techno), 16, 0.3, d)
				p, s := set[style.VoiceOf(r, false)], set[style.VoiceOf(r, true)]
				for i := range 16 {
					if p.HasOnset(i) {
						primaries++
						if s.HasOnset(i) {
							overlaps++
						}
					}
				}
			}
			if rate := float64(overlaps) / float64(primaries); rate >= 0.10 {
				t.Errorf("overlap rate %.3f, want < 0.10", rate)
			}
		})
	}
}

func TestGhostNotes(t *testing.T) {
	set := NewSet(16)
	set[0].SetOnset(4, 1)
	rng := NewRand(5)
	for range 200 {
		AddGhostNotes(&set, 1, rng)
	}
	p := set[0]
	for i := 0; i < 16; i++ {
		if i == 4 || !p.HasOnset(i) {
			continue
		}
		if i%4 == 0 {
			t.Errorf("ghost note on downbeat %d", i)
		}
		if v := p.Velocity(i); v < 0.25 || v > 0.32 {
			t.Errorf("ghost velocity %v at %d", v, i)
		}
	}
	if !p.HasOnset(3) || !p.HasOnset(5) {
		t.Error("repeated passes should eventually fill both neighbours of step 4")
	}
	if set[1].Onsets() != 0 {
		t.Error("empty voice gained ghost notes")
	}
}

func TestFillsSuperset(t *testing.T) {
	g := NewGenerator(21)
	ctx := style.Uniform(style.Breakbeat)
	for seed := range uint64(20) {
		g.Seed(seed)
		set := g.Generate(ctx, 16, 0.7)
		d := FromContext(ctx, 0.7)
		fills := Fills(set, d, 0.7, g.Rand())
		for v := range set {
			for i := range 16 {
				if set[v].HasOnset(i) && !fills[v].HasOnset(i) {
					t.Fatalf("seed %d voice %d: fill dropped step %d", seed, v, i)
				}
			}
			if fills[v].Onsets() < set[v].Onsets() {
				t.Fatalf("seed %d voice %d: fill is sparser", seed, v)
			}
		}
	}
}

func TestFillsDoNotAlias(t *testing.T) {
	set := NewSet(16)
	fills := Fills(set, Densities{0.5, 0.5, 0.5, 0.5}, 1, NewRand(1))
	if fills[4].Onsets() == 0 && fills[0].Onsets() == 0 {
		t.Fatal("fills added nothing")
	}
	for v := range set {
		if set[v].Onsets() != 0 {
			t.Fatalf("voice %d of the source set was modified", v)
		}
	}
}

func TestMarkovProbabilityShaping(t *testing.T) {
	c := NewMarkovChain(1)
	c.SetTransitions(0.6, 0.7)
	c.SetStepWeight(1, 0.5)
	c.SetTemperature(1)

	// rest: 0.6 * 1 * (0.5 + 0.5) = 0.6
	if got := c.Prob(0); !near(got, 0.6) {
		t.Errorf("rest prob = %v, want 0.6", got)
	}
	// fill boost adds 0.4 * intensity
	if got := c.Prob(0.5); !near(got, 0.8) {
		t.Errorf("rest prob with fill = %v, want 0.8", got)
	}
	// temperature 0.5 doubles the distance from 0.5
	c.SetTemperature(0.5)
	if got := c.Prob(0); !near(got, 0.7) {
		t.Errorf("cold rest prob = %v, want 0.7", got)
	}
	c.SetTemperature(0)
	c.SetStepWeight(0, 0)
	if got := c.Prob(0); got != 0 {
		t.Errorf("prob clamped = %v, want 0", got)
	}
}

func TestMarkovEngineGenerate(t *testing.T) {
	e := NewMarkovEngine(3)
	set := e.Generate(style.Uniform(style.Techno), 16, DefaultDensities, 0)
	for v, p := range set {
		if p.Len() != 16 {
			t.Fatalf("voice %d length %d", v, p.Len())
		}
	}
	// zero-weight steps never fire without a fill
	clap := set[style.VoiceOf(style.Groove, false)]
	for i := range 16 {
		if clap.HasOnset(i) && i != 4 && i != 12 {
			t.Errorf("groove fired on zero-weight step %d", i)
		}
	}
	full := e.Generate(style.Uniform(style.Techno), 16, DefaultDensities, 1)
	total, fullTotal := 0, 0
	for v := range set {
		total += set[v].Onsets()
		fullTotal += full[v].Onsets()
	}
	if fullTotal <= total {
		t.Errorf("full fill intensity produced %d onsets, plain %d", fullTotal, total)
	}
}

func near(a, b float64) bool {
	d := a - b
	return d < 1e-9 && d > -1e-9
}
