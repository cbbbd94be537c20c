package style

// Profile is an immutable rhythmic style: onset weight curves per role,
// density ranges per role and a swing ratio.
type Profile struct {
	Name  string
	Swing float64 // 0.5 = straight, 0.67 = triplet

	// Weights holds a 16-step onset weight curve per role, values in [0,1].
	Weights [NumRoles][Steps]float64

	// Density holds [min, max] onset density per role.
	Density [NumRoles][2]float64
}

// Style indices into the catalog.
const (
	Techno = iota
	Electronic
	Breakbeat
	WestAfrican
	AfroCuban
	Brazilian
	Jazz
	Balkan
	Indian
	Gamelan

	Count
)

var catalog = [Count]Profile{
	{
		Name:  "Techno",
		Swing: 0.50,
		Weights: [NumRoles][Steps]float64{
			// hats dense with gaps
			{1.0, 0.8, 1.0, 0.0, 1.0, 0.8, 1.0, 0.0, 1.0, 0.8, 1.0, 0.0, 1.0, 0.8, 1.0, 0.0},
			// four on the floor
			{1.0, 0.0, 0.0, 0.0, 1.0, 0.0, 0.0, 0.0, 1.0, 0.0, 0.0, 0.0, 1.0, 0.0, 0.0, 0.0},
			// clap on 2 and 4
			{0.0, 0.0, 0.0, 0.0, 1.0, 0.0, 0.0, 0.0, 0.0, 0.0, 0.0, 0.0, 1.0, 0.0, 0.0, 0.0},
			// sparse industrial perc
			{0.0, 0.8, 0.0, 0.0, 0.0, 0.0, 0.0, 0.9, 0.0, 0.0, 0.0, 0.0, 0.0, 0.0, 0.0, 0.7},
		},
		Density: [NumRoles][2]float64{{0.50, 0.90}, {0.25, 0.35}, {0.12, 0.25}, {0.15, 0.35}},
	},
	{
		Name:  "Electronic",
		Swing: 0.50,
		Weights: [NumRoles][Steps]float64{
			{1.0, 0.6, 1.0, 0.6, 1.0, 0.6, 1.0, 0.6, 1.0, 0.6, 1.0, 0.6, 1.0, 0.6, 1.0, 0.6},
			{1.0, 0.0, 0.0, 0.0, 1.0, 0.0, 0.0, 0.0, 1.0, 0.0, 0.0, 0.0, 1.0, 0.0, 0.0, 0.0},
			{0.0, 0.0, 0.0, 0.0, 1.0, 0.0, 0.0, 0.0, 0.0, 0.0, 0.0, 0.0, 1.0, 0.0, 0.0, 0.0},
			{0.2, 0.4, 0.3, 0.5, 0.1, 0.3, 0.2, 0.6, 0.2, 0.4, 0.3, 0.5, 0.1, 0.3, 0.2, 0.5},
		},
		Density: [NumRoles][2]float64{{0.50, 0.80}, {0.25, 0.30}, {0.10, 0.20}, {0.20, 0.40}},
	},
	{
		Name:  "Breakbeat",
		Swing: 0.52,
		Weights: [NumRoles][Steps]float64{
			{1.0, 0.0, 0.8, 0.0, 1.0, 0.0, 0.7, 0.0, 1.0, 0.0, 0.8, 0.0, 1.0, 0.0, 0.7, 0.0},
			// two-step kick
			{1.0, 0.0, 0.0, 0.0, 0.0, 0.0, 0.0, 0.0, 0.9, 0.0, 0.0, 0.0, 0.0, 0.0, 0.9, 0.0},
			{0.0, 0.0, 0.0, 0.0, 1.0, 0.0, 0.0, 0.0, 0.0, 0.0, 0.0, 0.0, 1.0, 0.0, 0.0, 0.0},
			{0.2, 0.4, 0.3, 0.5, 0.1, 0.4, 0.3, 0.6, 0.3, 0.5, 0.2, 0.4, 0.1, 0.5, 0.3, 0.6},
		},
		Density: [NumRoles][2]float64{{0.40, 0.65}, {0.15, 0.25}, {0.10, 0.20}, {0.25, 0.45}},
	},
	{
		Name:  "West African",
		Swing: 0.50,
		Weights: [NumRoles][Steps]float64{
			// bell pattern, hemiola accents
			{1.0, 0.0, 0.0, 0.9, 0.0, 0.0, 0.9, 1.0, 0.0, 0.0, 0.9, 0.0, 1.0, 0.0, 0.0, 0.9},
			{1.0, 0.0, 0.0, 0.0, 0.0, 0.0, 0.0, 0.0, 0.8, 0.0, 0.0, 0.0, 0.0, 0.0, 0.0, 0.0},
			{0.8, 0.3, 0.2, 0.4, 0.8, 0.2, 0.7, 0.3, 0.8, 0.2, 0.3, 0.3, 0.7, 0.3, 0.2, 0.2},
			{0.4, 0.5, 0.6, 0.4, 0.7, 0.5, 0.6, 0.5, 0.7, 0.5, 0.4, 0.6, 0.5, 0.6, 0.5, 0.4},
		},
		Density: [NumRoles][2]float64{{0.35, 0.50}, {0.08, 0.15}, {0.30, 0.45}, {0.20, 0.35}},
	},
	{
		Name:  "Afro-Cuban",
		Swing: 0.50,
		Weights: [NumRoles][Steps]float64{
			{1.0, 0.0, 0.0, 0.8, 0.0, 0.0, 0.9, 0.0, 0.0, 0.0, 0.8, 0.0, 1.0, 0.0, 0.0, 0.0},
			{1.0, 0.0, 0.0, 0.0, 1.0, 0.0, 0.0, 0.0, 1.0, 0.0, 0.0, 0.0, 1.0, 0.0, 0.0, 0.0},
			// tumbao
			{0.2, 0.7, 0.6, 0.2, 0.8, 0.4, 0.2, 0.7, 0.6, 0.4, 0.2, 0.7, 0.2, 0.6, 0.4, 0.3},
			{0.5, 0.5, 0.6, 0.5, 0.6, 0.5, 0.5, 0.6, 0.5, 0.6, 0.5, 0.5, 0.6, 0.5, 0.5, 0.5},
		},
		Density: [NumRoles][2]float64{{0.30, 0.45}, {0.25, 0.30}, {0.35, 0.50}, {0.15, 0.35}},
	},
	{
		Name:  "Brazilian",
		Swing: 0.50,
		Weights: [NumRoles][Steps]float64{
			{1.0, 0.0, 0.0, 0.0, 1.0, 0.0, 0.0, 0.0, 1.0, 0.0, 0.0, 0.0, 1.0, 0.0, 0.7, 0.0},
			{1.0, 0.0, 0.0, 0.0, 1.0, 0.0, 0.0, 0.0, 1.0, 0.0, 0.0, 0.0, 1.0, 0.0, 0.0, 0.0},
			// tamborim
			{0.3, 0.7, 0.4, 0.7, 0.2, 0.6, 0.5, 0.7, 0.3, 0.7, 0.4, 0.7, 0.2, 0.6, 0.5, 0.7},
			{0.3, 0.2, 0.3, 0.2, 0.5, 0.2, 0.3, 0.2, 0.3, 0.2, 0.3, 0.2, 0.5, 0.2, 0.3, 0.2},
		},
		Density: [NumRoles][2]float64{{0.25, 0.40}, {0.25, 0.30}, {0.45, 0.60}, {0.20, 0.35}},
	},
	{
		Name:  "Jazz",
		Swing: 0.50,
		Weights: [NumRoles][Steps]float64{
			// ride
			{1.0, 0.0, 0.0, 0.8, 1.0, 0.0, 0.0, 0.8, 1.0, 0.0, 0.0, 0.8, 1.0, 0.0, 0.0, 0.0},
			{0.9, 0.0, 0.0, 0.0, 0.0, 0.0, 0.0, 0.0, 0.8, 0.0, 0.0, 0.0, 0.0, 0.0, 0.0, 0.0},
			{0.1, 0.2, 0.2, 0.5, 0.1, 0.2, 0.2, 0.5, 0.1, 0.2, 0.2, 0.5, 0.1, 0.2, 0.2, 0.4},
			{0.2, 0.2, 0.2, 0.3, 0.2, 0.2, 0.2, 0.3, 0.2, 0.2, 0.2, 0.3, 0.2, 0.3, 0.3, 0.4},
		},
		Density: [NumRoles][2]float64{{0.35, 0.50}, {0.10, 0.18}, {0.20, 0.35}, {0.15, 0.30}},
	},
	{
		Name:  "Balkan",
		Swing: 0.50,
		Weights: [NumRoles][Steps]float64{
			// 2+2+3 accent groups folded into 16 steps
			{1.0, 0.0, 0.0, 0.0, 1.0, 0.0, 0.0, 0.0, 0.0, 1.0, 0.0, 0.0, 0.0, 0.0, 0.8, 0.0},
			{1.0, 0.0, 0.0, 0.0, 0.9, 0.0, 0.0, 0.0, 0.0, 0.8, 0.0, 0.0, 0.0, 0.0, 0.0, 0.0},
			{0.2, 0.6, 0.5, 0.0, 0.2, 0.6, 0.5, 0.6, 0.0, 0.2, 0.6, 0.5, 0.6, 0.0, 0.5, 0.0},
			{0.3, 0.4, 0.5, 0.0, 0.3, 0.4, 0.5, 0.0, 0.5, 0.3, 0.4, 0.5, 0.0, 0.5, 0.0, 0.4},
		},
		Density: [NumRoles][2]float64{{0.18, 0.30}, {0.15, 0.22}, {0.35, 0.50}, {0.25, 0.40}},
	},
	{
		Name:  "Indian",
		Swing: 0.50,
		Weights: [NumRoles][Steps]float64{
			// teental: sam strong, khali light
			{1.0, 0.5, 0.5, 0.8, 0.9, 0.5, 0.5, 0.8, 0.1, 0.5, 0.5, 0.7, 0.9, 0.5, 0.5, 0.8},
			{1.0, 0.0, 0.0, 0.0, 0.9, 0.0, 0.0, 0.0, 0.0, 0.0, 0.0, 0.0, 0.8, 0.0, 0.0, 0.0},
			{0.3, 0.6, 0.6, 0.4, 0.3, 0.6, 0.6, 0.4, 0.2, 0.5, 0.5, 0.4, 0.3, 0.6, 0.6, 0.4},
			// tihai build toward sam
			{0.4, 0.4, 0.4, 0.5, 0.4, 0.4, 0.5, 0.5, 0.3, 0.4, 0.5, 0.5, 0.6, 0.6, 0.7, 0.8},
		},
		Density: [NumRoles][2]float64{{0.45, 0.60}, {0.15, 0.22}, {0.35, 0.50}, {0.25, 0.40}},
	},
	{
		Name:  "Gamelan",
		Swing: 0.50,
		Weights: [NumRoles][Steps]float64{
			// colotomic punctuation
			{0.0, 0.0, 0.0, 0.6, 0.0, 0.0, 0.0, 0.0, 0.0, 0.0, 0.0, 0.6, 0.0, 0.0, 0.0, 1.0},
			{1.0, 0.0, 0.0, 0.0, 0.8, 0.0, 0.0, 0.0, 0.8, 0.0, 0.0, 0.0, 0.8, 0.0, 0.0, 0.9},
			// kotekan polos / sangsih
			{0.8, 0.2, 0.8, 0.2, 0.8, 0.2, 0.8, 0.2, 0.8, 0.2, 0.8, 0.2, 0.8, 0.2, 0.8, 0.3},
			{0.2, 0.8, 0.2, 0.8, 0.2, 0.8, 0.2, 0.8, 0.2, 0.8, 0.2, 0.8, 0.2, 0.8, 0.2, 0.7},
		},
		Density: [NumRoles][2]float64{{0.20, 0.35}, {0.22, 0.30}, {0.40, 0.55}, {0.40, 0.55}},
	},
}

// dissimilarity[a][b] is 0 for identical styles and 1 for maximally
// different ones, judged on rhythm structure, density and accent placement.
var dissimilarity = [Count][Count]float64{
	//  Tech Elec Brkb WAf  ACub Braz Jazz Balk Ind  Game
	{0.0, 0.2, 0.6, 0.8, 0.5, 0.6, 0.7, 0.7, 0.6, 0.9}, // Techno
	{0.2, 0.0, 0.5, 0.7, 0.4, 0.5, 0.6, 0.6, 0.5, 0.8}, // Electronic
	{0.6, 0.5, 0.0, 0.5, 0.4, 0.5, 0.6, 0.5, 0.5, 0.7}, // Breakbeat
	{0.8, 0.7, 0.5, 0.0, 0.4, 0.5, 0.6, 0.5, 0.4, 0.6}, // West African
	{0.5, 0.4, 0.4, 0.4, 0.0, 0.3, 0.5, 0.5, 0.4, 0.7}, // Afro-Cuban
	{0.6, 0.5, 0.5, 0.5, 0.3, 0.0, 0.6, 0.5, 0.5, 0.6}, // Brazilian
	{0.7, 0.6, 0.6, 0.6, 0.5, 0.6, 0.0, 0.6, 0.5, 0.7}, // Jazz
	{0.7, 0.6, 0.5, 0.5, 0.5, 0.5, 0.6, 0.0, 0.4, 0.6}, // Balkan
	{0.6, 0.5, 0.5, 0.4, 0.4, 0.5, 0.5, 0.4, 0.0, 0.5}, // Indian
	{0.9, 0.8, 0.7, 0.6, 0.7, 0.6, 0.7, 0.6, 0.5, 0.0}, // Gamelan
}

// Valid reports whether idx is a catalog index.
func Valid(idx int) bool {
	return idx >= 0 && idx < Count
}

// Get returns the profile at idx, or Techno when idx is out of range.
func Get(idx int) *Profile {
	if !Valid(idx) {
		return &catalog[Techno]
	}
	return &catalog[idx]
}

// Name returns the style name, or "Unknown".
func Name(idx int) string {
	if !Valid(idx) {
		return "Unknown"
	}
	return catalog[idx].Name
}

// Names returns every style name in catalog order.
func Names() []string {
	names := make([]string, Count)
	for i := range catalog {
		names[i] = catalog[i].Name
	}
	return names
}

// Lookup finds a style index by name (case sensitive). Returns false when
// no style has that name.
func Lookup(name string) (int, bool) {
	for i := range catalog {
		if catalog[i].Name == name {
			return i, true
		}
	}
	return 0, false
}

// Dissimilarity returns the precomputed distance between two styles, or 0.5
// when either index is out of range.
func Dissimilarity(a, b int) float64 {
	if !Valid(a) || !Valid(b) {
		return 0.5
	}
	return dissimilarity[a][b]
}

// FindDissimilar returns every style other than current whose dissimilarity
// to current is at least min, in ascending index order.
func FindDissimilar(current int, min float64) []int {
	var out []int
	for i := 0; i < Count; i++ {
		if i != current && Dissimilarity(current, i) >= min {
			out = append(out, i)
		}
	}
	return out
}

// Profile implements Context.

func (p *Profile) RoleWeights(r Role) [Steps]float64 {
	if !r.Valid() {
		r = Timeline
	}
	return p.Weights[r]
}

func (p *Profile) DensityRange(r Role) (min, max float64) {
	if !r.Valid() {
		r = Timeline
	}
	return p.Density[r][0], p.Density[r][1]
}

func (p *Profile) SwingRatio() float64 {
	return p.Swing
}
