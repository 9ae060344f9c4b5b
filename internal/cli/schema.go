package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/mesh-intelligence/easel/pkg/types"
)

// schemaFile is the on-disk shape of schema.yaml in the config
// directory.
type schemaFile struct {
	Types []types.TypeSpec `yaml:"types"`
}

// loadSchema reads and validates schema.yaml from the config directory.
func loadSchema(configDir string) (types.Schema, error) {
	path := filepath.Join(configDir, "schema.yaml")
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read schema: %w", err)
	}

	var sf schemaFile
	if err := yaml.Unmarshal(data, &sf); err != nil {
		return nil, fmt.Errorf("parse schema: %w", err)
	}

	schema := types.Schema(sf.Types)
	if err := schema.Validate(); err != nil {
		return nil, fmt.Errorf("schema %s: %w", path, err)
	}
	return schema, nil
}

// writeSchemaIfMissing creates a starter schema.yaml so a fresh
// directory has something editable. Idempotent.
func writeSchemaIfMissing(configDir string) error {
	path := filepath.Join(configDir, "schema.yaml")
	if _, err := os.Stat(path); err == nil {
		return nil
	}

	sf := schemaFile{
		Types: []types.TypeSpec{
			{
				Name: "item",
				Fields: []types.FieldSpec{
					{Name: "name", Kind: types.KindString},
				},
			},
		},
	}
	data, err := yaml.Marshal(&sf)
	if err != nil {
		return fmt.Errorf("marshal schema: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}
