package cli

import (
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/easel/pkg/audit"
	"github.com/mesh-intelligence/easel/pkg/memory"
	"github.com/mesh-intelligence/easel/pkg/sqlite"
	"github.com/mesh-intelligence/easel/pkg/types"
)

// session bundles everything a subcommand needs to edit.
type session struct {
	editor types.Editor
	schema types.Schema
}

// withEditor loads config and schema, attaches the configured backend,
// runs fn against the audit-wrapped editor, and detaches.
func withEditor(cmd *cobra.Command, fn func(s *session) error) error {
	cfg, err := loadConfig()
	if err != nil {
		return exitError(cmd, exitUserError, err.Error())
	}
	configDir, err := resolveConfigDir()
	if err != nil {
		return exitError(cmd, exitSysError, err.Error())
	}
	schema, err := loadSchema(configDir)
	if err != nil {
		return exitError(cmd, exitUserError, err.Error())
	}
	log, err := newLogger()
	if err != nil {
		return exitError(cmd, exitSysError, fmt.Sprintf("logger: %s", err))
	}
	defer func() { _ = log.Sync() }()

	var inner types.Editor
	switch cfg.Backend {
	case types.BackendMemory:
		ed, err := memory.New(schema)
		if err != nil {
			return exitError(cmd, exitUserError, err.Error())
		}
		inner = ed
	default:
		backend, err := sqlite.New(schema)
		if err != nil {
			return exitError(cmd, exitUserError, err.Error())
		}
		if err := backend.Attach(cfg); err != nil {
			return exitError(cmd, exitSysError, fmt.Sprintf("attach: %s", err))
		}
		defer func() {
			if err := backend.Detach(); err != nil {
				log.Warn("detach failed: " + err.Error())
			}
		}()
		inner = backend
	}

	return fn(&session{
		editor: audit.New(inner, log),
		schema: schema,
	})
}

// parseObject parses a positional object index argument.
func parseObject(arg string) (types.Object, error) {
	n, err := strconv.Atoi(arg)
	if err != nil || n < 0 {
		return 0, fmt.Errorf("invalid object index %q", arg)
	}
	return types.Object(n), nil
}

// parseFieldArgs turns repeated "name=value" flags into a Record typed
// against the schema. Values parse per field kind; "null" clears an
// optional reference and comma-separated indices fill an array field.
func parseFieldArgs(spec types.TypeSpec, pairs []string) (types.Record, error) {
	rec := make(types.Record, len(pairs))
	for _, pair := range pairs {
		name, raw, ok := strings.Cut(pair, "=")
		if !ok {
			return nil, fmt.Errorf("invalid field %q: want name=value", pair)
		}
		f, found := spec.Field(name)
		if !found {
			return nil, fmt.Errorf("%w: %q on type %q", types.ErrUnknownField, name, spec.Name)
		}
		val, err := parseFieldValue(f, raw)
		if err != nil {
			return nil, fmt.Errorf("field %q: %w", name, err)
		}
		rec[name] = val
	}
	return rec, nil
}

// parseFieldValue parses one textual value per the field's kind.
func parseFieldValue(f types.FieldSpec, raw string) (any, error) {
	if raw == "null" {
		return nil, nil
	}
	if f.Kind == types.KindRef && f.Array {
		if raw == "" {
			return []types.Object{}, nil
		}
		parts := strings.Split(raw, ",")
		objs := make([]types.Object, len(parts))
		for i, p := range parts {
			o, err := parseObject(strings.TrimSpace(p))
			if err != nil {
				return nil, err
			}
			objs[i] = o
		}
		return objs, nil
	}
	switch f.Kind {
	case types.KindBool:
		return strconv.ParseBool(raw)
	case types.KindInt:
		return strconv.Atoi(raw)
	case types.KindFloat:
		return strconv.ParseFloat(raw, 64)
	case types.KindString, types.KindResource:
		return raw, nil
	case types.KindRef:
		return parseObject(raw)
	}
	return nil, fmt.Errorf("%w: %q", types.ErrUnknownKind, f.Kind)
}

// printRecord writes a record as JSON or "name: value" lines.
func printRecord(cmd *cobra.Command, rec types.Record) error {
	if flags.jsonMode {
		data, err := json.MarshalIndent(map[string]any(rec), "", "  ")
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), string(data))
		return nil
	}
	names := make([]string, 0, len(rec))
	for name := range rec {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Fprintf(cmd.OutOrStdout(), "%s: %v\n", name, rec[name])
	}
	return nil
}

// printRemap reports the index that moved into the freed slot, if any.
func printRemap(cmd *cobra.Command, moved *types.Object) {
	if flags.jsonMode {
		out := map[string]any{"moved": nil}
		if moved != nil {
			out["moved"] = int(*moved)
		}
		data, _ := json.Marshal(out)
		fmt.Fprintln(cmd.OutOrStdout(), string(data))
		return
	}
	if moved != nil {
		fmt.Fprintf(cmd.OutOrStdout(), "moved %d into freed slot\n", int(*moved))
	} else {
		fmt.Fprintln(cmd.OutOrStdout(), "deleted last slot; no remap")
	}
}
