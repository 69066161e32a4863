package maps

import (
	"embed"
	"encoding/json"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"
)

//go:embed data/*.json
var layoutFiles embed.FS

// Registry holds all loaded layouts.
var Registry = make(map[string]*Layout)

// LoadAll loads all embedded layout presets.
func LoadAll() error {
	entries, err := layoutFiles.ReadDir("data")
	if err != nil {
		return fmt.Errorf("failed to read layout directory: %w", err)
	}

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}

		l, err := Load(entry.Name())
		if err != nil {
			return fmt.Errorf("failed to load layout %s: %w", entry.Name(), err)
		}

		Registry[l.ID] = l
	}

	return nil
}

// LoadDir registers every .json layout in a directory on disk. Files with
// an ID already in the registry replace the earlier layout.
func LoadDir(dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("failed to read layout directory: %w", err)
	}

	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}

		data, err := os.ReadFile(filepath.Join(dir, entry.Name()))
		if err != nil {
			return err
		}
		l, err := LoadFromJSON(data)
		if err != nil {
			return fmt.Errorf("failed to load layout %s: %w", entry.Name(), err)
		}

		Registry[l.ID] = l
	}

	return nil
}

// Load loads a single preset by filename.
func Load(filename string) (*Layout, error) {
	data, err := layoutFiles.ReadFile(path.Join("data", filename))
	if err != nil {
		return nil, fmt.Errorf("failed to read layout file: %w", err)
	}
	return LoadFromJSON(data)
}

// LoadFromJSON builds a layout from preset JSON bytes.
func LoadFromJSON(data []byte) (*Layout, error) {
	var raw RawLayout
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse layout JSON: %w", err)
	}

	l, err := Generate(raw)
	if err != nil {
		return nil, fmt.Errorf("invalid layout: %w", err)
	}
	return l, nil
}

// Get retrieves a layout from the registry by ID. The standard layout is
// always available, even before LoadAll.
func Get(id string) *Layout {
	if l, ok := Registry[id]; ok {
		return l
	}
	if id == StandardID || id == "" {
		return Standard()
	}
	return nil
}

// List returns info for every registered layout, sorted by ID.
func List() []LayoutInfo {
	infos := make([]LayoutInfo, 0, len(Registry))
	for _, l := range Registry {
		infos = append(infos, l.Info())
	}
	sort.Slice(infos, func(i, j int) bool { return infos[i].ID < infos[j].ID })
	return infos
}
