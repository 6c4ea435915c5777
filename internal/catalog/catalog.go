// Package catalog loads the YAML intent catalog and imports it into the
// store. The catalog file stands in for the externally curated intent
// service: the core only reads snapshots of it.
package catalog

import (
	"context"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/Jaaziel-Polanco/bot-claro/internal/domain"
	"github.com/Jaaziel-Polanco/bot-claro/internal/store"
)

type file struct {
	Intents []entry `yaml:"intents"`
}

type entry struct {
	ID          string   `yaml:"id"`
	Title       string   `yaml:"title"`
	Description string   `yaml:"description"`
	Examples    []string `yaml:"examples"`
	Response    string   `yaml:"response"`
}

// Load reads and validates a YAML intent catalog.
func Load(path string) ([]domain.Intent, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog: %w", err)
	}

	var f file
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse catalog %s: %w", path, err)
	}

	intents := make([]domain.Intent, 0, len(f.Intents))
	seen := make(map[string]bool, len(f.Intents))
	for i, e := range f.Intents {
		if e.ID == "" {
			return nil, fmt.Errorf("catalog %s: intent %d has no id", path, i)
		}
		if seen[e.ID] {
			return nil, fmt.Errorf("catalog %s: duplicate intent id %q", path, e.ID)
		}
		seen[e.ID] = true
		if len(e.Examples) == 0 {
			return nil, fmt.Errorf("catalog %s: intent %q has no examples", path, e.ID)
		}
		if e.Response == "" {
			return nil, fmt.Errorf("catalog %s: intent %q has no response", path, e.ID)
		}
		intents = append(intents, domain.Intent{
			ID:          e.ID,
			Title:       e.Title,
			Description: e.Description,
			Examples:    e.Examples,
			Response:    e.Response,
		})
	}
	return intents, nil
}

// Import loads the catalog file and replaces the store catalog with it.
func Import(ctx context.Context, st store.Store, path string) ([]domain.Intent, error) {
	intents, err := Load(path)
	if err != nil {
		return nil, err
	}
	if err := st.ReplaceIntents(ctx, intents); err != nil {
		return nil, fmt.Errorf("failed to import catalog: %w", err)
	}
	return intents, nil
}

// EnsureSeeded imports the catalog file only when the store is empty, so
// a restart keeps whatever catalog was last imported.
func EnsureSeeded(ctx context.Context, st store.Store, path string) error {
	if path == "" {
		return nil
	}
	n, err := st.CountIntents(ctx)
	if err != nil {
		return fmt.Errorf("failed to count intents: %w", err)
	}
	if n > 0 {
		return nil
	}
	if _, err := Import(ctx, st, path); err != nil {
		return err
	}
	return nil
}
