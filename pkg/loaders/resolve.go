package loaders

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/df07/go-stochastic-raytracer/pkg/scene"
)

// ErrUnknownScene is returned by Resolve when a name matches no scene
var ErrUnknownScene = errors.New("unknown scene")

// Resolve finds the scene called name: a built-in preset first, then
// <scenesDir>/<name>.json, then name itself when it is a path to a .json file.
// Built-in scenes carry no render settings.
func Resolve(name, scenesDir string) (*LoadedScene, error) {
	if name == "" {
		return nil, fmt.Errorf("no scene given: %w", ErrUnknownScene)
	}

	for _, info := range scene.BuiltinScenes() {
		if info.ID != name {
			continue
		}
		s, err := scene.NewBuiltinScene(name)
		if err != nil {
			return nil, err
		}
		return &LoadedScene{ID: info.ID, Name: info.Name, Description: info.Description, Scene: s}, nil
	}

	path := name
	if !strings.HasSuffix(path, ".json") {
		path = filepath.Join(scenesDir, name+".json")
	}
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("%w %q", ErrUnknownScene, name)
	}
	return LoadScene(path)
}
