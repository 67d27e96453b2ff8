// Package prefs stores user preferences in a TOML file.
package prefs

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
	"github.com/mitchellh/go-homedir"

	"github.com/gogpu/halo/editor"
)

// DefaultPath is where preferences live unless overridden.
const DefaultPath = "~/.config/halo/prefs.toml"

// file is the on-disk form.
type file struct {
	AutoValidate   *bool  `toml:"auto_validate"`
	LastShaderPath string `toml:"last_shader_path,omitempty"`
}

// Store reads and writes one preferences file. It implements
// editor.PrefsStore.
type Store struct {
	path string
}

// NewStore returns a store for path. A leading ~ is expanded to the home
// directory; an empty path selects DefaultPath.
func NewStore(path string) (*Store, error) {
	if path == "" {
		path = DefaultPath
	}
	expanded, err := homedir.Expand(path)
	if err != nil {
		return nil, fmt.Errorf("prefs: expand %s: %w", path, err)
	}
	return &Store{path: expanded}, nil
}

// Path returns the file location.
func (s *Store) Path() string {
	return s.path
}

// Load reads the preferences. A missing file yields the defaults.
func (s *Store) Load() (editor.Prefs, error) {
	p := editor.DefaultPrefs()
	var f file
	if _, err := toml.DecodeFile(s.path, &f); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return p, nil
		}
		return p, fmt.Errorf("%s: failed to parse TOML: %w", s.path, err)
	}
	if f.AutoValidate != nil {
		p.AutoValidate = *f.AutoValidate
	}
	p.LastPath = f.LastShaderPath
	return p, nil
}

// Save writes p, creating the parent directory when needed.
func (s *Store) Save(p editor.Prefs) error {
	auto := p.AutoValidate
	f := file{AutoValidate: &auto, LastShaderPath: p.LastPath}

	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(f); err != nil {
		return fmt.Errorf("%s: failed to encode TOML: %w", s.path, err)
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("prefs: %w", err)
	}
	if err := os.WriteFile(s.path, buf.Bytes(), 0o600); err != nil {
		return fmt.Errorf("failed to write %s: %w", s.path, err)
	}
	return nil
}
