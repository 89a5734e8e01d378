package commands

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.trai.ch/derive/internal/build"
)

func (c *CLI) newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version number of derive",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "derive version %s\n", build.Version)
		},
	}
}
