package loam

import (
	"context"
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/aretw0/arbor/pkg/blueprint"
	"github.com/aretw0/loam"
)

// Loader reads blueprint documents out of a Loam repository.
type Loader struct {
	Repo *loam.TypedRepository[blueprint.Blueprint]
}

// New creates a loader over an existing typed repository.
func New(repo *loam.TypedRepository[blueprint.Blueprint]) *Loader {
	return &Loader{Repo: repo}
}

// Open initializes a read-only, strict Loam repository rooted at dir.
// Strict mode decodes numbers as json.Number.
func Open(dir string) (*Loader, error) {
	absPath, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("invalid path: %w", err)
	}
	repo, err := loam.Init(absPath,
		loam.WithStrict(true),
		loam.WithReadOnly(true),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize loam: %w", err)
	}
	return New(loam.NewTypedRepository[blueprint.Blueprint](repo)), nil
}

// Blueprints returns every YAML or JSON document in the repository, ordered by
// name. A document without a name is named after its file.
func (l *Loader) Blueprints(ctx context.Context) ([]*blueprint.Blueprint, error) {
	docs, err := l.Repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("loam list failed: %w", err)
	}

	seen := make(map[string]string)
	var out []*blueprint.Blueprint
	for _, doc := range docs {
		if !isBlueprintFile(doc.ID) {
			continue
		}
		bp := doc.Data
		if bp.Name == "" {
			bp.Name = trimExtension(doc.ID)
		}
		if existing, ok := seen[bp.Name]; ok {
			return nil, fmt.Errorf("collision detected: blueprint '%s' is defined in both '%s' and '%s'", bp.Name, existing, doc.ID)
		}
		seen[bp.Name] = doc.ID
		out = append(out, &bp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

// Library compiles every blueprint in the repository.
func (l *Loader) Library(ctx context.Context) (*blueprint.Library, error) {
	bps, err := l.Blueprints(ctx)
	if err != nil {
		return nil, err
	}
	lib := blueprint.NewLibrary()
	for _, bp := range bps {
		prog, err := blueprint.Compile(bp)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", bp.Name, err)
		}
		if err := lib.Add(prog); err != nil {
			return nil, err
		}
	}
	return lib, nil
}

// LoadLibrary opens dir and compiles its blueprints.
func LoadLibrary(ctx context.Context, dir string) (*blueprint.Library, error) {
	l, err := Open(dir)
	if err != nil {
		return nil, err
	}
	return l.Library(ctx)
}

func isBlueprintFile(id string) bool {
	switch strings.ToLower(filepath.Ext(id)) {
	case ".yaml", ".yml", ".json":
		return true
	}
	return false
}

func trimExtension(id string) string {
	return filepath.ToSlash(strings.TrimSuffix(id, filepath.Ext(id)))
}
