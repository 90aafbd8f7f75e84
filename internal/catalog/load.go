package catalog

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/KirkDiggler/heroes-api/internal/entities"
	"github.com/KirkDiggler/heroes-api/internal/errors"
)

// itemsFile mirrors the layout of items.json.
type itemsFile struct {
	Consumables []Item                                   `json:"consumables"`
	Keys        []Item                                   `json:"keys"`
	Materials   map[string]map[entities.Rarity][]Material `json:"materials"`
}

// Load reads heroes.json, monsters.json, and items.json from dir and
// returns the indexed catalog.
func Load(dir string) (*Catalog, error) {
	var heroes []*Template
	if err := readJSON(filepath.Join(dir, "heroes.json"), &heroes); err != nil {
		return nil, err
	}

	var monsters []*Template
	if err := readJSON(filepath.Join(dir, "monsters.json"), &monsters); err != nil {
		return nil, err
	}

	var items itemsFile
	if err := readJSON(filepath.Join(dir, "items.json"), &items); err != nil {
		return nil, err
	}

	return New(heroes, monsters, items.Consumables, items.Keys, items.Materials)
}

func readJSON(path string, v any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return errors.Wrapf(err, "failed to read catalog file %s", path)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return errors.Wrapf(err, "failed to parse catalog file %s", path)
	}
	return nil
}
