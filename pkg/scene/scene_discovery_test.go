package scene

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestTitleCase(t *testing.T) {
	testCases := []struct {
		input    string
		expected string
	}{
		{"mirror-spheres", "Mirror Spheres"},
		{"glowing_floor", "Glowing Floor"},
		{"my-custom-scene", "My Custom Scene"},
		{"simple", "Simple"},
		{"UPPER-case", "Upper Case"},
		{"", ""},
	}

	for _, tc := range testCases {
		t.Run(tc.input, func(t *testing.T) {
			result := titleCase(tc.input)
			if result != tc.expected {
				t.Errorf("titleCase(%q) = %q, want %q", tc.input, result, tc.expected)
			}
		})
	}
}

func TestParseSceneMetadata(t *testing.T) {
	testCases := []struct {
		name                string
		content             string
		expectedName        string
		expectedDescription string
	}{
		{
			name:                "complete_metadata.json",
			content:             `{"name": "Glow Box", "description": "Emissive walls", "objects": []}`,
			expectedName:        "Glow Box",
			expectedDescription: "Emissive walls",
		},
		{
			name:                "no_metadata.json",
			content:             `{"objects": []}`,
			expectedName:        "No Metadata",
			expectedDescription: "",
		},
	}

	dir := t.TempDir()
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			path := filepath.Join(dir, tc.name)
			if err := os.WriteFile(path, []byte(tc.content), 0o644); err != nil {
				t.Fatalf("Failed to write scene file: %v", err)
			}

			result, err := ParseSceneMetadata(path)
			if err != nil {
				t.Fatalf("ParseSceneMetadata() error: %v", err)
			}
			if result.Name != tc.expectedName {
				t.Errorf("Name = %q, want %q", result.Name, tc.expectedName)
			}
			if result.Description != tc.expectedDescription {
				t.Errorf("Description = %q, want %q", result.Description, tc.expectedDescription)
			}
			if result.Type != "json" || result.FilePath != path || result.ID != strings.TrimSuffix(filepath.Base(path), ".json") {
				t.Errorf("Unexpected identity %+v", result)
			}
		})
	}
}

func TestListSceneFiles(t *testing.T) {
	dir := t.TempDir()
	files := map[string]string{
		"b.json":    `{"name": "Beta"}`,
		"a.json":    `{"name": "Alpha"}`,
		"bad.json":  `{not json`,
		"notes.txt": `ignored`,
	}
	for name, content := range files {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
			t.Fatalf("Failed to write %s: %v", name, err)
		}
	}

	scenes, err := ListSceneFiles(dir)
	if err != nil {
		t.Fatalf("ListSceneFiles() error: %v", err)
	}
	if len(scenes) != 2 {
		t.Fatalf("Expected 2 scenes, got %d: %+v", len(scenes), scenes)
	}
	if scenes[0].Name != "Alpha" || scenes[1].Name != "Beta" {
		t.Errorf("Expected sorted Alpha, Beta; got %q, %q", scenes[0].Name, scenes[1].Name)
	}
	// IDs are bare names so they can be passed back as a scene name
	if scenes[0].ID != "a" || scenes[1].ID != "b" {
		t.Errorf("Expected IDs a, b; got %q, %q", scenes[0].ID, scenes[1].ID)
	}
}

func TestListSceneFiles_MissingDirectory(t *testing.T) {
	scenes, err := ListSceneFiles(filepath.Join(t.TempDir(), "missing"))
	if err != nil {
		t.Errorf("ListSceneFiles() error: %v", err)
	}
	if scenes == nil {
		t.Error("ListSceneFiles() returned nil, expected empty slice")
	}
}

func TestListAllScenes(t *testing.T) {
	scenes, err := ListAllScenes(t.TempDir())
	if err != nil {
		t.Fatalf("ListAllScenes() error: %v", err)
	}

	builtins := BuiltinScenes()
	if len(scenes) != len(builtins) {
		t.Fatalf("Expected %d scenes, got %d", len(builtins), len(scenes))
	}
	for _, info := range builtins {
		if _, err := NewBuiltinScene(info.ID); err != nil {
			t.Errorf("Built-in scene %q failed to build: %v", info.ID, err)
		}
	}
	if _, err := NewBuiltinScene("cornell-box"); err == nil {
		t.Error("Expected error for unknown built-in scene")
	}
}
