package editor

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/gogpu/halo/shader"
)

type memStore struct {
	saved []Prefs
}

func (m *memStore) Save(p Prefs) error {
	m.saved = append(m.saved, p)
	return nil
}

func TestReadShaderFileBOM(t *testing.T) {
	dir := t.TempDir()
	tests := []struct {
		name string
		data []byte
	}{
		{"plain", []byte("fn f() {}")},
		{"utf8 bom", append([]byte{0xEF, 0xBB, 0xBF}, "fn f() {}"...)},
		{"utf16le bom", []byte{0xFF, 0xFE, 'f', 0, 'n', 0, ' ', 0, 'f', 0, '(', 0, ')', 0, ' ', 0, '{', 0, '}', 0}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(dir, tt.name+".wgsl")
			if err := os.WriteFile(path, tt.data, 0o644); err != nil {
				t.Fatal(err)
			}
			got, err := ReadShaderFile(path)
			if err != nil {
				t.Fatal(err)
			}
			if got != "fn f() {}" {
				t.Errorf("got %q", got)
			}
		})
	}
}

func TestReadShaderFileMissing(t *testing.T) {
	if _, err := ReadShaderFile(filepath.Join(t.TempDir(), "nope.wgsl")); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("err = %v, want not exist", err)
	}
}

func TestSessionLoadSave(t *testing.T) {
	store := &memStore{}
	s, slot := newSession(t, WithPrefsStore(store))
	dir := t.TempDir()
	path := filepath.Join(dir, "red.wgsl")
	if err := os.WriteFile(path, []byte(redFragment), 0o644); err != nil {
		t.Fatal(err)
	}

	if err := s.Load(context.Background(), path); err != nil {
		t.Fatalf("Load: %v", err)
	}
	s.Wait()
	if s.Path() != path || s.Text() != redFragment {
		t.Fatal("Load did not replace text and path")
	}
	if slot.Version() != 1 {
		t.Errorf("version = %d after load", slot.Version())
	}
	if n := len(store.saved); n == 0 || store.saved[n-1].LastPath != path {
		t.Errorf("prefs not persisted: %+v", store.saved)
	}

	s.Replace(context.Background(), redFragment+"// edited\n")
	if err := s.Save(); err != nil {
		t.Fatalf("Save: %v", err)
	}
	data, _ := os.ReadFile(path)
	if string(data) != redFragment+"// edited\n" {
		t.Error("Save wrote wrong contents")
	}

	other := filepath.Join(dir, "copy.wgsl")
	if err := s.SaveAs(other); err != nil {
		t.Fatalf("SaveAs: %v", err)
	}
	if s.Path() != other {
		t.Errorf("path = %q after SaveAs", s.Path())
	}
}

func TestSessionInit(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "last.wgsl")
	os.WriteFile(path, []byte(redFragment), 0o644)

	s, _ := newSession(t)
	s.Init(context.Background(), Prefs{AutoValidate: false, LastPath: path})
	s.Wait()
	if s.AutoValidate() || s.Text() != redFragment || s.Path() != path {
		t.Errorf("Init did not restore prefs: auto=%v path=%q", s.AutoValidate(), s.Path())
	}

	s2, _ := newSession(t)
	s2.Init(context.Background(), Prefs{AutoValidate: true, LastPath: filepath.Join(dir, "gone.wgsl")})
	s2.Wait()
	if s2.Text() != shader.DefaultFragment || s2.Path() != "" {
		t.Error("missing last file did not fall back to the default shader")
	}
	if s2.Status().State != Validated {
		t.Errorf("default shader status = %+v", s2.Status())
	}
}

func TestSetAutoValidatePersists(t *testing.T) {
	store := &memStore{}
	s, _ := newSession(t, WithPrefsStore(store))
	s.SetAutoValidate(false)
	if len(store.saved) != 1 || store.saved[0].AutoValidate {
		t.Errorf("saved = %+v", store.saved)
	}
}
