package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// ErrMissing is returned when no file exists for a family.
var ErrMissing = errors.New("catalog: family file missing")

var extensions = []string{".json", ".yaml", ".yml"}

// FileLoader reads <dir>/<family>.{json,yaml,yml}. Nothing is cached: every
// call parses the file again so edits show up without a restart.
type FileLoader struct {
	dir string
}

// NewFileLoader returns a loader rooted at dir.
func NewFileLoader(dir string) *FileLoader {
	return &FileLoader{dir: dir}
}

// Blocks parses the blocks family.
func (l *FileLoader) Blocks(ctx context.Context) (BlockCatalog, error) {
	var cat BlockCatalog
	if err := l.load(ctx, FamilyBlocks, &cat); err != nil {
		return BlockCatalog{}, err
	}
	return cat, nil
}

// Insulation parses the insulation family.
func (l *FileLoader) Insulation(ctx context.Context) (InsulationCatalog, error) {
	var cat InsulationCatalog
	if err := l.load(ctx, FamilyInsulation, &cat); err != nil {
		return InsulationCatalog{}, err
	}
	return cat, nil
}

func (l *FileLoader) load(ctx context.Context, family Family, target any) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	for _, ext := range extensions {
		path := filepath.Join(l.dir, string(family)+ext)
		data, err := os.ReadFile(path)
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			return fmt.Errorf("catalog: read %s: %w", path, err)
		}
		if ext == ".json" {
			err = json.Unmarshal(data, target)
		} else {
			err = yaml.Unmarshal(data, target)
		}
		if err != nil {
			return fmt.Errorf("catalog: parse %s: %w", path, err)
		}
		return nil
	}
	return fmt.Errorf("%w: %s in %s", ErrMissing, family, l.dir)
}
