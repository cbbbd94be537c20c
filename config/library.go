package config

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"techno-machine/arrangement"
)

const setExt = ".yaml"

// SetInfo describes a set file in a library (for listing).
type SetInfo struct {
	Name     string
	Path     string
	Modified time.Time
}

// Library is a directory of set files.
type Library struct {
	Dir string
}

// SetsDir returns the default set library directory.
func SetsDir() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "sets"), nil
}

// DefaultLibrary opens the library in the config directory.
func DefaultLibrary() (*Library, error) {
	dir, err := SetsDir()
	if err != nil {
		return nil, err
	}
	return &Library{Dir: dir}, nil
}

func (l *Library) path(name string) string {
	return filepath.Join(l.Dir, sanitizeFilename(name)+setExt)
}

// List returns the sets in the library, newest first.
func (l *Library) List() ([]SetInfo, error) {
	entries, err := os.ReadDir(l.Dir)
	if err != nil {
		if os.IsNotExist(err) {
			return []SetInfo{}, nil
		}
		return nil, fmt.Errorf("list sets: %w", err)
	}

	var sets []SetInfo
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), setExt) {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		sets = append(sets, SetInfo{
			Name:     strings.TrimSuffix(entry.Name(), setExt),
			Path:     filepath.Join(l.Dir, entry.Name()),
			Modified: info.ModTime(),
		})
	}

	sort.Slice(sets, func(i, j int) bool {
		if sets[i].Modified.Equal(sets[j].Modified) {
			return sets[i].Name < sets[j].Name
		}
		return sets[i].Modified.After(sets[j].Modified)
	})
	return sets, nil
}

// Save writes songs under name, replacing any set of that name. An empty
// name saves under the current time. It returns the name used.
func (l *Library) Save(name string, songs []arrangement.Song) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		name = time.Now().Format("2006-01-02_15-04-05")
	}
	if err := os.MkdirAll(l.Dir, 0755); err != nil {
		return "", fmt.Errorf("create set dir: %w", err)
	}
	path := l.path(name)
	if err := SaveSet(path, songs); err != nil {
		return "", err
	}
	return strings.TrimSuffix(filepath.Base(path), setExt), nil
}

// Load reads the set called name.
func (l *Library) Load(name string) ([]arrangement.Song, error) {
	return LoadSet(l.path(name))
}

// Delete removes the set called name.
func (l *Library) Delete(name string) error {
	if err := os.Remove(l.path(name)); err != nil {
		return fmt.Errorf("delete set: %w", err)
	}
	return nil
}

// Rename moves a set to a new name.
func (l *Library) Rename(oldName, newName string) error {
	if strings.TrimSpace(newName) == "" {
		return fmt.Errorf("%w: empty set name", ErrInvalid)
	}
	if err := os.Rename(l.path(oldName), l.path(newName)); err != nil {
		return fmt.Errorf("rename set: %w", err)
	}
	return nil
}

// sanitizeFilename removes/replaces characters that are problematic in filenames
func sanitizeFilename(name string) string {
	r := strings.NewReplacer(
		" ", "-", "/", "-", "\\", "-", ":", "-",
		"*", "", "?", "", "\"", "", "<", "", ">", "", "|", "",
	)
	return r.Replace(strings.TrimSpace(name))
}
