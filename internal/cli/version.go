package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/easel/pkg/easel"
)

const modulePath = "github.com/mesh-intelligence/easel"

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the easel version",
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintf(cmd.OutOrStdout(), "easel v%s\nmodule: %s\n", easel.Version, modulePath)
			return nil
		},
	}
}
