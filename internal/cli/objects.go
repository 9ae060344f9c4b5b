package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/easel/pkg/types"
)

func newTypesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "types",
		Short: "List the object types in the schema",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withEditor(cmd, func(s *session) error {
				tys := s.editor.Types()
				if flags.jsonMode {
					data, err := json.Marshal(tys)
					if err != nil {
						return err
					}
					fmt.Fprintln(cmd.OutOrStdout(), string(data))
					return nil
				}
				for _, ty := range tys {
					fmt.Fprintln(cmd.OutOrStdout(), string(ty))
				}
				return nil
			})
		},
	}
}

func newListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list <type>",
		Short: "List every object of a type",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withEditor(cmd, func(s *session) error {
				ty := types.Type(args[0])
				for _, obj := range s.editor.All(ty) {
					rec, err := s.editor.Get(ty, obj)
					if err != nil {
						return err
					}
					if flags.jsonMode {
						data, err := json.Marshal(map[string]any{
							"object": int(obj),
							"record": map[string]any(rec),
						})
						if err != nil {
							return err
						}
						fmt.Fprintln(cmd.OutOrStdout(), string(data))
						continue
					}
					fmt.Fprintf(cmd.OutOrStdout(), "%s[%d]\n", ty, int(obj))
				}
				return nil
			})
		},
	}
}

func newShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <type> <index>",
		Short: "Print one object's record",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			obj, err := parseObject(args[1])
			if err != nil {
				return err
			}
			return withEditor(cmd, func(s *session) error {
				rec, err := s.editor.Get(types.Type(args[0]), obj)
				if err != nil {
					return err
				}
				return printRecord(cmd, rec)
			})
		},
	}
}

func newInsertCmd() *cobra.Command {
	var fieldArgs []string
	cmd := &cobra.Command{
		Use:   "insert <type>",
		Short: "Insert a new object",
		Long:  "Insert a new object built from --field name=value arguments.\nThe new object's index is the table's previous length.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withEditor(cmd, func(s *session) error {
				ty := types.Type(args[0])
				spec, ok := s.schema.Spec(ty)
				if !ok {
					return fmt.Errorf("%w: %q", types.ErrUnknownType, ty)
				}
				rec, err := parseFieldArgs(spec, fieldArgs)
				if err != nil {
					return err
				}
				obj, err := s.editor.Insert(ty, rec)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s[%d]\n", ty, int(obj))
				return nil
			})
		},
	}
	cmd.Flags().StringArrayVar(&fieldArgs, "field", nil, "field value as name=value (repeatable)")
	return cmd
}

func newUpdateCmd() *cobra.Command {
	var fieldArgs []string
	cmd := &cobra.Command{
		Use:   "update <type> <index>",
		Short: "Update fields of an object in place",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			obj, err := parseObject(args[1])
			if err != nil {
				return err
			}
			return withEditor(cmd, func(s *session) error {
				ty := types.Type(args[0])
				spec, ok := s.schema.Spec(ty)
				if !ok {
					return fmt.Errorf("%w: %q", types.ErrUnknownType, ty)
				}
				current, err := s.editor.Get(ty, obj)
				if err != nil {
					return err
				}
				updates, err := parseFieldArgs(spec, fieldArgs)
				if err != nil {
					return err
				}
				for name, val := range updates {
					current[name] = val
				}
				return s.editor.Update(ty, obj, current)
			})
		},
	}
	cmd.Flags().StringArrayVar(&fieldArgs, "field", nil, "field value as name=value (repeatable)")
	return cmd
}

func newDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <type> <index>",
		Short: "Delete an object",
		Long: "Delete an object. Cascading inbound references delete their holders\n" +
			"transitively; optional references are cleared; a required reference\nfrom a survivor aborts the deletion.",
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			obj, err := parseObject(args[1])
			if err != nil {
				return err
			}
			return withEditor(cmd, func(s *session) error {
				moved, err := s.editor.Delete(types.Type(args[0]), obj)
				if err != nil {
					return err
				}
				printRemap(cmd, moved)
				return nil
			})
		},
	}
}

func newReplaceCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "replace <type> <from> <to>",
		Short: "Replace an object, retargeting inbound references",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			from, err := parseObject(args[1])
			if err != nil {
				return err
			}
			to, err := parseObject(args[2])
			if err != nil {
				return err
			}
			return withEditor(cmd, func(s *session) error {
				moved, err := s.editor.Replace(types.Type(args[0]), from, to)
				if err != nil {
					return err
				}
				printRemap(cmd, moved)
				return nil
			})
		},
	}
}

func newRefsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "refs <type> <index>",
		Short: "Show references to and from an object",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			obj, err := parseObject(args[1])
			if err != nil {
				return err
			}
			return withEditor(cmd, func(s *session) error {
				ty := types.Type(args[0])
				to, err := s.editor.ReferencesTo(ty, obj)
				if err != nil {
					return err
				}
				from, err := s.editor.ReferencesFrom(ty, obj)
				if err != nil {
					return err
				}
				if flags.jsonMode {
					data, err := json.MarshalIndent(map[string]any{
						"to": to, "from": from,
					}, "", "  ")
					if err != nil {
						return err
					}
					fmt.Fprintln(cmd.OutOrStdout(), string(data))
					return nil
				}
				for _, r := range to {
					fmt.Fprintf(cmd.OutOrStdout(), "inbound  %s[%d].%s\n",
						r.From, int(r.FromObject), r.Field.String())
				}
				for _, r := range from {
					fmt.Fprintf(cmd.OutOrStdout(), "outbound %s.%s -> %s[%d]\n",
						r.From, r.Field.String(), r.To, int(r.ToObject))
				}
				return nil
			})
		},
	}
}

func newClearRefCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "clear-ref <type> <index> <field>",
		Short: "Clear one reference held by an object",
		Long: "Clear a single reference without deleting either endpoint.\n" +
			"Array entries are removed preserving order; a required scalar\nreference cannot be cleared.",
		Args: cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			obj, err := parseObject(args[1])
			if err != nil {
				return err
			}
			return withEditor(cmd, func(s *session) error {
				ty := types.Type(args[0])
				refs, err := s.editor.ReferencesFrom(ty, obj)
				if err != nil {
					return err
				}
				for _, r := range refs {
					if r.Field.String() == args[2] || r.Field.Name == args[2] {
						return s.editor.DeleteReference(r)
					}
				}
				return fmt.Errorf("%w: no live reference on field %q", types.ErrUnknownField, args[2])
			})
		},
	}
}
