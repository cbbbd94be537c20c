package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"techno-machine/arrangement"
	"techno-machine/style"
)

// ErrUnknownStyle is returned for style names not in the catalog.
var ErrUnknownStyle = errors.New("unknown style")

// SongEntry is one song in a set file. Styles is either a single style
// name or four names, one per role.
type SongEntry struct {
	Styles    []string `yaml:"styles,flow"`
	Variation float64  `yaml:"variation"`
	Bars      int      `yaml:"bars"`
	Energy    float64  `yaml:"energy"`
}

// SetFile is the YAML document holding a set.
type SetFile struct {
	Name  string      `yaml:"name,omitempty"`
	Songs []SongEntry `yaml:"songs"`
}

// Song converts the entry, resolving style names.
func (e SongEntry) Song() (arrangement.Song, error) {
	var c style.Composite
	switch len(e.Styles) {
	case 1:
		idx, ok := style.Lookup(e.Styles[0])
		if !ok {
			return arrangement.Song{}, fmt.Errorf("%w: %q", ErrUnknownStyle, e.Styles[0])
		}
		c = style.Uniform(idx)
	case style.NumRoles:
		for r, name := range e.Styles {
			idx, ok := style.Lookup(name)
			if !ok {
				return arrangement.Song{}, fmt.Errorf("%w: %q", ErrUnknownStyle, name)
			}
			c[r] = idx
		}
	default:
		return arrangement.Song{}, fmt.Errorf("%w: want 1 or %d styles, got %d", ErrInvalid, style.NumRoles, len(e.Styles))
	}
	return arrangement.Song{Styles: c, Variation: e.Variation, Bars: e.Bars, Energy: e.Energy}, nil
}

// NewSongEntry describes a song by style name, collapsing uniform styles to
// one name.
func NewSongEntry(s arrangement.Song) SongEntry {
	e := SongEntry{Variation: s.Variation, Bars: s.Bars, Energy: s.Energy}
	if s.Styles.IsUniform() {
		e.Styles = []string{style.Name(s.Styles[0])}
	} else {
		for _, idx := range s.Styles {
			e.Styles = append(e.Styles, style.Name(idx))
		}
	}
	return e
}

// ParseSet reads a set document.
func ParseSet(r io.Reader) ([]arrangement.Song, error) {
	var f SetFile
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil {
		return nil, fmt.Errorf("parse set: %w", err)
	}
	songs := make([]arrangement.Song, 0, len(f.Songs))
	for i, e := range f.Songs {
		s, err := e.Song()
		if err != nil {
			return nil, fmt.Errorf("song %d: %w", i+1, err)
		}
		songs = append(songs, s)
	}
	return songs, nil
}

// WriteSet encodes songs as a set document.
func WriteSet(w io.Writer, name string, songs []arrangement.Song) error {
	f := SetFile{Name: name}
	for _, s := range songs {
		f.Songs = append(f.Songs, NewSongEntry(s))
	}
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(f); err != nil {
		return fmt.Errorf("encode set: %w", err)
	}
	return enc.Close()
}

// LoadSet reads a set file.
func LoadSet(path string) ([]arrangement.Song, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open set: %w", err)
	}
	defer f.Close()
	return ParseSet(f)
}

// SaveSet writes a set file named after its path.
func SaveSet(path string, songs []arrangement.Song) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create set: %w", err)
	}
	name := strings.TrimSuffix(filepath.Base(path), ".yaml")
	if err := WriteSet(f, name, songs); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
