package sqlite

import (
	"encoding/json"
	"fmt"

	"github.com/mesh-intelligence/easel/pkg/types"
)

// encodeRecord serializes a record to its row representation. Object
// indices and scalars marshal directly; nil optional refs marshal as
// JSON null.
func encodeRecord(rec types.Record) (string, error) {
	data, err := json.Marshal(map[string]any(rec))
	if err != nil {
		return "", fmt.Errorf("encode record: %w", err)
	}
	return string(data), nil
}

// decodeRecord parses a row body back into a Record matching the type
// spec. JSON numbers arrive as float64 and are coerced per field kind.
func decodeRecord(spec types.TypeSpec, data string) (types.Record, error) {
	var raw map[string]any
	if err := json.Unmarshal([]byte(data), &raw); err != nil {
		return nil, fmt.Errorf("decode record: %w", err)
	}
	rec, err := spec.Decode(raw)
	if err != nil {
		return nil, fmt.Errorf("decode record: %w", err)
	}
	return rec, nil
}
