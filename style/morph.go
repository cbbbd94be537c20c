package style

// Smoothstep is the cubic easing curve 3t²-2t³, with t clamped to [0,1].
func Smoothstep(t float64) float64 {
	t = clamp01(t)
	return t * t * (3 - 2*t)
}

// Lerp interpolates so that t=0 returns a and t=1 returns b exactly.
func Lerp(a, b, t float64) float64 {
	return a*(1-t) + b*t
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// Blend is a style interpolated between two contexts at eased position T.
type Blend struct {
	From, To Context
	T        float64
}

func (b Blend) RoleWeights(r Role) [Steps]float64 {
	from, to := b.From.RoleWeights(r), b.To.RoleWeights(r)
	var out [Steps]float64
	for i := range out {
		out[i] = Lerp(from[i], to[i], b.T)
	}
	return out
}

func (b Blend) DensityRange(r Role) (min, max float64) {
	fMin, fMax := b.From.DensityRange(r)
	tMin, tMax := b.To.DensityRange(r)
	return Lerp(fMin, tMin, b.T), Lerp(fMax, tMax, b.T)
}

func (b Blend) SwingRatio() float64 {
	return Lerp(b.From.SwingRatio(), b.To.SwingRatio(), b.T)
}

// Morpher interpolates between two composite styles over a number of bars.
type Morpher struct {
	from, to     Composite
	durationBars int
	barCount     int
	progress     float64
	morphing     bool
}

func NewMorpher() *Morpher {
	return &Morpher{durationBars: 8}
}

// SetStyles points the morpher at two catalog styles. An out-of-range index
// leaves that side unchanged.
func (m *Morpher) SetStyles(from, to int) {
	f, t := m.from, m.to
	if Valid(from) {
		f = Uniform(from)
	}
	if Valid(to) {
		t = Uniform(to)
	}
	m.SetComposites(f, t)
}

func (m *Morpher) SetComposites(from, to Composite) {
	m.from = from.Clamped()
	m.to = to.Clamped()
}

// Snap stops any morph and rests both sides on c.
func (m *Morpher) Snap(c Composite) {
	m.SetComposites(c, c)
	m.barCount = 0
	m.progress = 0
	m.morphing = false
}

// StartTransition begins a morph lasting bars bars (at least one).
func (m *Morpher) StartTransition(bars int) {
	m.durationBars = max(1, bars)
	m.barCount = 0
	m.progress = 0
	m.morphing = true
}

// NotifyBarStart advances the morph by one bar.
func (m *Morpher) NotifyBarStart() {
	if !m.morphing {
		return
	}
	m.barCount++
	m.progress = float64(m.barCount) / float64(m.durationBars)
	if m.progress >= 1 {
		m.progress = 1
		m.morphing = false
		m.from = m.to
	}
}

func (m *Morpher) Progress() float64 { return m.progress }
func (m *Morpher) IsMorphing() bool  { return m.morphing }
func (m *Morpher) From() Composite   { return m.from }
func (m *Morpher) To() Composite     { return m.to }

// Current returns the blended style at the current eased progress.
func (m *Morpher) Current() Blend {
	return Blend{From: m.from, To: m.to, T: Smoothstep(m.progress)}
}
