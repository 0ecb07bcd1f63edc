// Package patterns loads a YAML catalogue of diagnostic patterns and
// matches problem text against it, producing weighted hypotheses and
// recommendations for the insight generator.
//
// Catalogue loading follows the yaml.v3-unmarshal-into-struct idiom used
// throughout the retrieved corpus; the registry itself is an immutable
// snapshot swapped atomically on reload, the shape the teacher's own
// configuration loaders use for hot-reloadable state.
package patterns

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"

	"gopkg.in/yaml.v3"

	"unified-thinking/internal/apperr"
	"unified-thinking/internal/types"
)

// Registry holds an immutable snapshot of the loaded pattern catalogue(s).
// Reload swaps the snapshot atomically; readers never observe a partially
// loaded state.
type Registry struct {
	snapshot atomic.Pointer[snapshotData]
}

type snapshotData struct {
	patterns []types.Pattern
	byID     map[string]types.Pattern
}

// NewRegistry creates an empty Registry; call LoadDir before matching.
func NewRegistry() *Registry {
	r := &Registry{}
	r.snapshot.Store(&snapshotData{byID: map[string]types.Pattern{}})
	return r
}

// LoadDir loads every *.yaml/*.yml file in dir as a PatternCatalogue,
// validates each pattern against the catalogue schema, and atomically
// replaces the registry's snapshot. A catalogue's test_cases (if present)
// are parsed but not evaluated: LoadDir does not check them against the
// loaded patterns.
func (r *Registry) LoadDir(dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return apperr.NewExternalUnavailable("read pattern catalogue directory", err)
	}

	var all []types.Pattern
	byID := map[string]types.Pattern{}

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		ext := strings.ToLower(filepath.Ext(entry.Name()))
		if ext != ".yaml" && ext != ".yml" {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		data, err := os.ReadFile(path)
		if err != nil {
			return apperr.NewExternalUnavailable(fmt.Sprintf("read catalogue %s", path), err)
		}

		var catalogue types.PatternCatalogue
		if err := yaml.Unmarshal(data, &catalogue); err != nil {
			return apperr.NewValidation(fmt.Sprintf("parse catalogue %s: %v", path, err))
		}
		if err := validateCatalogue(catalogue); err != nil {
			return apperr.NewValidation(fmt.Sprintf("invalid catalogue %s: %v", path, err))
		}

		for _, p := range catalogue.Patterns {
			if _, dup := byID[p.ID]; dup {
				return apperr.NewValidation(fmt.Sprintf("duplicate pattern id %q across catalogues", p.ID))
			}
			p.Domain = catalogue.Domain
			byID[p.ID] = p
			all = append(all, p)
		}
	}

	r.snapshot.Store(&snapshotData{patterns: all, byID: byID})
	return nil
}

// All returns every loaded pattern, in catalogue order.
func (r *Registry) All() []types.Pattern {
	return append([]types.Pattern(nil), r.snapshot.Load().patterns...)
}

// ByID looks up a single pattern by ID.
func (r *Registry) ByID(id string) (types.Pattern, bool) {
	p, ok := r.snapshot.Load().byID[id]
	return p, ok
}

// validateCatalogue checks the §3 catalogue schema: every pattern needs an
// ID, at least one indicator, and weights within [0,1]; every indicator
// needs a non-empty value and type.
func validateCatalogue(c types.PatternCatalogue) error {
	if c.Version == "" {
		return fmt.Errorf("catalogue version is required")
	}
	for _, p := range c.Patterns {
		if p.ID == "" {
			return fmt.Errorf("pattern missing id")
		}
		if len(p.Indicators) == 0 {
			return fmt.Errorf("pattern %q has no indicators", p.ID)
		}
		for _, ind := range append(append([]types.Indicator{}, p.Indicators...), p.NegativeIndicators...) {
			if ind.Value == "" {
				return fmt.Errorf("pattern %q has an indicator with empty value", p.ID)
			}
			switch ind.Type {
			case types.IndicatorExact, types.IndicatorFuzzy, types.IndicatorRegex:
			default:
				return fmt.Errorf("pattern %q has an indicator with unknown type %q", p.ID, ind.Type)
			}
			if ind.Weight < 0 || ind.Weight > 1 {
				return fmt.Errorf("pattern %q has an indicator weight outside [0,1]", p.ID)
			}
		}
	}
	return nil
}
