package preset

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/adrg/xdg"
)

// OverlayPath resolves where an operator-supplied overlay catalog may live:
// $XDG_CONFIG_HOME/fleetsim/presets.json, matching the teacher's reliance
// on adrg/xdg for locating user config rather than hardcoding a path.
func OverlayPath() (string, error) {
	return xdg.ConfigFile(filepath.Join("fleetsim", "presets.json"))
}

// Load builds the default catalog and, if an overlay file exists at
// OverlayPath, merges it on top (overlay entries win on id collision). A
// missing overlay file is not an error; a malformed one is.
func Load() (*Catalog, error) {
	cat, err := Default()
	if err != nil {
		return nil, err
	}

	path, err := OverlayPath()
	if err != nil {
		// xdg resolution failure is non-fatal; fall back to built-ins only.
		return cat, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cat, nil
		}
		return nil, fmt.Errorf("preset: read overlay %s: %w", path, err)
	}

	var f catalogFile
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("preset: parse overlay %s: %w", path, err)
	}
	if err := cat.merge(f); err != nil {
		return nil, fmt.Errorf("preset: merge overlay %s: %w", path, err)
	}
	return cat, nil
}
