package level

import (
	"embed"
	"fmt"
	"os"
	"sort"
	"strings"
)

//go:embed maps/*.txt
var builtinMaps embed.FS

// DefaultMap is the builtin map used when none is specified.
const DefaultMap = "obstacles"

// Builtin loads a built-in map by name.
func Builtin(name string) (*TileMap, error) {
	data, err := builtinMaps.ReadFile("maps/" + name + ".txt")
	if err != nil {
		return nil, fmt.Errorf("level: unknown builtin map %q", name)
	}
	m, err := Parse(SplitLines(string(data)))
	if err != nil {
		return nil, fmt.Errorf("builtin %s: %w", name, err)
	}
	return m, nil
}

// BuiltinNames returns the names of all built-in maps, sorted.
func BuiltinNames() []string {
	entries, err := builtinMaps.ReadDir("maps")
	if err != nil {
		return nil
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, strings.TrimSuffix(e.Name(), ".txt"))
	}
	sort.Strings(names)
	return names
}

// Resolve loads a map from a file path, falling back to the builtin catalog
// when no such file exists.
func Resolve(nameOrPath string) (*TileMap, error) {
	if _, err := os.Stat(nameOrPath); err == nil {
		return Load(nameOrPath)
	}
	m, err := Builtin(nameOrPath)
	if err != nil {
		return nil, fmt.Errorf("level: no map file or builtin map named %q", nameOrPath)
	}
	return m, nil
}
