package cli

import (
	"fmt"

	"github.com/cita-cloud/cita-manifests/pkg/manifest"
	"github.com/spf13/cobra"
)

func ValidateCmd(cli *CLI) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Check the service topology and node parameters without writing anything",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			topo, params, cfg, err := cli.prepare()
			if err != nil {
				return err
			}
			// composing is the only complete check; the bundles are dropped
			if _, err := manifest.NewComposer(cfg).ComposeAll(cmd.Context(), topo, params); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "chain %s: %d node(s) OK\n", params.ChainName, params.PeerCount())
			return nil
		},
	}

	addChainFlags(cmd.Flags())

	return cmd
}
