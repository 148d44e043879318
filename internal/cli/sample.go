package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/jsongraph/pkg/session"
)

// sampleCommand prints the sample document.
func (c *CLI) sampleCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "sample",
		Short:   "Print the sample JSON document",
		Example: `  jsongraph sample | jsongraph generate -f tree`,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := fmt.Fprintln(c.out, session.Sample())
			return err
		},
	}
}
