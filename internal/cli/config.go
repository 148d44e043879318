package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/jsongraph/pkg/config"
)

// configCommand prints the effective configuration.
func (c *CLI) configCommand() *cobra.Command {
	var showPath bool
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Print the effective configuration as TOML",
		Long: `Config prints the configuration after defaults, the config file and
JSONGRAPH_* environment variables have been applied. The output is a valid
config file.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if showPath {
				p := c.configPath
				if p == "" {
					var err error
					if p, err = config.Path(); err != nil {
						return err
					}
				}
				printKeyValue(c.out, "config", p)
				return nil
			}
			return c.Config.Encode(c.out)
		},
	}
	cmd.Flags().BoolVar(&showPath, "path", false, "print the config file location instead")
	return cmd
}
