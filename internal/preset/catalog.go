package preset

import (
	"fmt"
)

const defaultSchemaVersion = "1.0.0"

// Catalog holds the full set of known model and scenario presets, keyed
// for O(1) lookup by FleetRuntime.create and the listModels/listScenarios
// operations.
type Catalog struct {
	models    map[string]Model
	scenarios map[string]Scenario
}

// Model looks up a model preset by id.
func (c *Catalog) Model(modelID string) (Model, bool) {
	m, ok := c.models[modelID]
	return m, ok
}

// Scenario looks up a scenario preset by id.
func (c *Catalog) Scenario(scenarioID string) (Scenario, bool) {
	s, ok := c.scenarios[scenarioID]
	return s, ok
}

// ListModels returns the public view of every known model, sorted by id
// for stable API responses.
func (c *Catalog) ListModels() []PublicView {
	out := make([]PublicView, 0, len(c.models))
	for _, m := range c.models {
		out = append(out, m.PublicView())
	}
	sortModels(out)
	return out
}

// ListScenarios returns every known scenario id, sorted for stable output.
func (c *Catalog) ListScenarios() []PublicListEntry {
	out := make([]PublicListEntry, 0, len(c.scenarios))
	for id := range c.scenarios {
		out = append(out, PublicListEntry{ScenarioID: id})
	}
	sortScenarios(out)
	return out
}

func sortModels(v []PublicView) {
	for i := 1; i < len(v); i++ {
		for j := i; j > 0 && v[j].ModelID < v[j-1].ModelID; j-- {
			v[j], v[j-1] = v[j-1], v[j]
		}
	}
}

func sortScenarios(v []PublicListEntry) {
	for i := 1; i < len(v); i++ {
		for j := i; j > 0 && v[j].ScenarioID < v[j-1].ScenarioID; j-- {
			v[j], v[j-1] = v[j-1], v[j]
		}
	}
}

// catalogFile is the on-disk JSON shape for both the embedded default
// catalog and any XDG overlay file (SPEC_FULL.md §3).
type catalogFile struct {
	SchemaVersion string     `json:"schema_version"`
	Models        []Model    `json:"models"`
	Scenarios     []Scenario `json:"scenarios"`
}

func newCatalog(f catalogFile) (*Catalog, error) {
	if err := checkSchemaVersion(f.SchemaVersion); err != nil {
		return nil, err
	}

	c := &Catalog{
		models:    make(map[string]Model, len(f.Models)),
		scenarios: make(map[string]Scenario, len(f.Scenarios)),
	}
	for _, m := range f.Models {
		if m.ModelID == "" {
			return nil, fmt.Errorf("preset: model entry missing model_id")
		}
		m.calibrate()
		c.models[m.ModelID] = m
	}
	for _, s := range f.Scenarios {
		if s.ScenarioID == "" {
			return nil, fmt.Errorf("preset: scenario entry missing scenario_id")
		}
		c.scenarios[s.ScenarioID] = s
	}
	return c, nil
}

// merge overlays additional models/scenarios onto the catalog, overwriting
// entries with matching ids. Used to apply an XDG overlay file on top of
// the built-in default catalog.
func (c *Catalog) merge(f catalogFile) error {
	if err := checkSchemaVersion(f.SchemaVersion); err != nil {
		return err
	}
	for _, m := range f.Models {
		if m.ModelID == "" {
			return fmt.Errorf("preset: overlay model entry missing model_id")
		}
		m.calibrate()
		c.models[m.ModelID] = m
	}
	for _, s := range f.Scenarios {
		if s.ScenarioID == "" {
			return fmt.Errorf("preset: overlay scenario entry missing scenario_id")
		}
		c.scenarios[s.ScenarioID] = s
	}
	return nil
}
