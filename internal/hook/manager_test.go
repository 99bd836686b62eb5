package hook

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func writeManifest(t *testing.T, dir string, m Manifest) string {
	t.Helper()

	hookDir := filepath.Join(dir, m.Name)
	if err := os.MkdirAll(hookDir, 0755); err != nil {
		t.Fatalf("failed to create hook dir: %v", err)
	}

	data, err := json.Marshal(m)
	if err != nil {
		t.Fatalf("failed to marshal manifest: %v", err)
	}
	if err := os.WriteFile(filepath.Join(hookDir, ManifestFile), data, 0644); err != nil {
		t.Fatalf("failed to write manifest: %v", err)
	}
	return hookDir
}

func TestManager_Discover(t *testing.T) {
	tmpDir := t.TempDir()
	hookDir := writeManifest(t, tmpDir, Manifest{
		Name:        "announce",
		Version:     "1.0.0",
		Description: "Speaks the result",
		Executable:  "announce",
		Events:      []EventType{EventRound, EventGameOver},
	})

	manager := NewManager(tmpDir)
	if err := manager.Discover(); err != nil {
		t.Fatalf("Discover() failed: %v", err)
	}

	hooks := manager.List()
	if len(hooks) != 1 {
		t.Fatalf("expected 1 hook, got %d", len(hooks))
	}

	h := hooks[0]
	if h.Manifest.Name != "announce" {
		t.Errorf("expected name 'announce', got %q", h.Manifest.Name)
	}
	if h.Path != hookDir {
		t.Errorf("expected path %q, got %q", hookDir, h.Path)
	}
	if h.Executable != filepath.Join(hookDir, "announce") {
		t.Errorf("expected executable in hook dir, got %q", h.Executable)
	}
	if len(h.Manifest.Events) != 2 {
		t.Errorf("expected 2 events, got %d", len(h.Manifest.Events))
	}
}

func TestManager_Discover_SkipsInvalid(t *testing.T) {
	tmpDir := t.TempDir()
	writeManifest(t, tmpDir, Manifest{Name: "good", Executable: "good", Events: []EventType{EventRound}})
	writeManifest(t, tmpDir, Manifest{Name: "no-exec", Events: []EventType{EventRound}})

	broken := filepath.Join(tmpDir, "broken")
	if err := os.MkdirAll(broken, 0755); err != nil {
		t.Fatalf("failed to create dir: %v", err)
	}
	if err := os.WriteFile(filepath.Join(broken, ManifestFile), []byte("{not json"), 0644); err != nil {
		t.Fatalf("failed to write manifest: %v", err)
	}

	if err := os.MkdirAll(filepath.Join(tmpDir, "empty"), 0755); err != nil {
		t.Fatalf("failed to create dir: %v", err)
	}

	manager := NewManager(tmpDir)
	if err := manager.Discover(); err != nil {
		t.Fatalf("Discover() failed: %v", err)
	}

	hooks := manager.List()
	if len(hooks) != 1 || hooks[0].Manifest.Name != "good" {
		t.Fatalf("expected only 'good', got %d hooks", len(hooks))
	}
}

func TestManager_Discover_MissingDir(t *testing.T) {
	manager := NewManager(filepath.Join(t.TempDir(), "does-not-exist"))
	if err := manager.Discover(); err != nil {
		t.Fatalf("Discover() on missing dir should not fail: %v", err)
	}
	if len(manager.List()) != 0 {
		t.Error("expected no hooks")
	}
}

func TestManager_Get(t *testing.T) {
	tmpDir := t.TempDir()
	writeManifest(t, tmpDir, Manifest{Name: "scoreboard", Executable: "scoreboard", Events: []EventType{EventRound}})

	manager := NewManager(tmpDir)
	if err := manager.Discover(); err != nil {
		t.Fatalf("Discover() failed: %v", err)
	}

	h, err := manager.Get("scoreboard")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if h.Manifest.Name != "scoreboard" {
		t.Errorf("expected scoreboard, got %q", h.Manifest.Name)
	}

	if _, err := manager.Get("missing"); !errors.Is(err, ErrHookNotFound) {
		t.Errorf("Get(missing) error = %v, want ErrHookNotFound", err)
	}
}

func TestManager_For(t *testing.T) {
	tmpDir := t.TempDir()
	writeManifest(t, tmpDir, Manifest{Name: "b-rounds", Executable: "x", Events: []EventType{EventRound}})
	writeManifest(t, tmpDir, Manifest{Name: "a-all", Executable: "x", Events: []EventType{EventRound, EventGameOver, EventReset}})
	writeManifest(t, tmpDir, Manifest{Name: "c-reset", Executable: "x", Events: []EventType{EventReset}})

	manager := NewManager(tmpDir)
	if err := manager.Discover(); err != nil {
		t.Fatalf("Discover() failed: %v", err)
	}

	tests := []struct {
		event EventType
		want  []string
	}{
		{EventRound, []string{"a-all", "b-rounds"}},
		{EventGameOver, []string{"a-all"}},
		{EventReset, []string{"a-all", "c-reset"}},
	}

	for _, tt := range tests {
		t.Run(string(tt.event), func(t *testing.T) {
			got := manager.For(tt.event)
			if len(got) != len(tt.want) {
				t.Fatalf("For(%s) returned %d hooks, want %d", tt.event, len(got), len(tt.want))
			}
			for i, name := range tt.want {
				if got[i].Manifest.Name != name {
					t.Errorf("For(%s)[%d] = %q, want %q", tt.event, i, got[i].Manifest.Name, name)
				}
			}
		})
	}
}

func TestManager_Dir(t *testing.T) {
	dir := t.TempDir()
	if got := NewManager(dir).Dir(); got != dir {
		t.Errorf("Dir() = %q, want %q", got, dir)
	}
}
