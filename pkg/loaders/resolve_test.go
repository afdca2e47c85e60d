package loaders

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

const tinySceneJSON = `{
  "name": "Tiny",
  "camera": {"width": 4, "height": 2},
  "objects": [{"type": "sphere", "center": [0, 0, 3], "radius": 1, "material": {"color": [1, 0, 0]}}]
}`

func TestResolve(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "tiny.json")
	if err := os.WriteFile(path, []byte(tinySceneJSON), 0o644); err != nil {
		t.Fatalf("Failed to write scene: %v", err)
	}

	tests := []struct {
		name      string
		sceneName string
		expectID  string
		expectErr bool
	}{
		{"builtin default", "default", "default", false},
		{"builtin mirror", "mirror", "mirror", false},
		{"name in scenes directory", "tiny", "tiny", false},
		{"path to file", path, "tiny", false},
		{"unknown name", "nonexistent", "", true},
		{"missing file", filepath.Join(dir, "missing.json"), "", true},
		{"empty name", "", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			loaded, err := Resolve(tt.sceneName, dir)
			if tt.expectErr {
				if !errors.Is(err, ErrUnknownScene) {
					t.Errorf("Expected ErrUnknownScene, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Resolve(%q) error: %v", tt.sceneName, err)
			}
			if loaded.ID != tt.expectID {
				t.Errorf("Expected ID %q, got %q", tt.expectID, loaded.ID)
			}
			if loaded.Scene == nil || loaded.Scene.Camera == nil {
				t.Fatal("Expected a scene with a camera")
			}
		})
	}
}

func TestResolve_FileSettings(t *testing.T) {
	dir := t.TempDir()
	content := `{"render": {"bounces": 3}, "objects": []}`
	if err := os.WriteFile(filepath.Join(dir, "settings.json"), []byte(content), 0o644); err != nil {
		t.Fatalf("Failed to write scene: %v", err)
	}

	loaded, err := Resolve("settings", dir)
	if err != nil {
		t.Fatalf("Resolve error: %v", err)
	}
	if loaded.Render.Bounces == nil || *loaded.Render.Bounces != 3 {
		t.Errorf("Expected bounces 3 from the file, got %v", loaded.Render.Bounces)
	}
	if loaded.Render.Seed != nil {
		t.Errorf("Expected unset seed, got %d", *loaded.Render.Seed)
	}
}

func TestShippedScenes(t *testing.T) {
	files, err := filepath.Glob(filepath.Join("..", "..", "scenes", "*.json"))
	if err != nil {
		t.Fatalf("Glob failed: %v", err)
	}
	if len(files) == 0 {
		t.Skip("no scene files shipped")
	}

	for _, file := range files {
		t.Run(filepath.Base(file), func(t *testing.T) {
			loaded, err := LoadScene(file)
			if err != nil {
				t.Fatalf("LoadScene(%s) error: %v", file, err)
			}
			if loaded.Name == "" {
				t.Error("Expected the scene file to carry a name")
			}
			if !loaded.Scene.Camera.Frame().Converged {
				t.Errorf("Camera frame did not converge: %+v", loaded.Scene.Camera.Frame())
			}
		})
	}
}
