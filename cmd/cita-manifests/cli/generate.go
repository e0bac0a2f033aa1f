package cli

import (
	"github.com/cita-cloud/cita-manifests/pkg/manifest"
	"github.com/cita-cloud/cita-manifests/pkg/writer"
	"github.com/spf13/cobra"
)

func GenerateCmd(cli *CLI) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate one manifest file per node",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			topo, params, cfg, err := cli.prepare()
			if err != nil {
				return err
			}

			cli.Logger.Debugf("Composing manifests for %d node(s) of chain %s", params.PeerCount(), params.ChainName)
			bundles, err := manifest.NewComposer(cfg).ComposeAll(cmd.Context(), topo, params)
			if err != nil {
				return err
			}

			if cli.V.GetBool("dry-run") {
				return writer.Print(cmd.OutOrStdout(), bundles)
			}

			paths, err := writer.New(cli.FS, cli.V.GetString("work-dir"), params.ChainName).WriteAll(bundles)
			if err != nil {
				return err
			}
			cli.Logger.Infof("Wrote %d manifest(s) to %s", len(paths), cli.V.GetString("work-dir"))
			return nil
		},
	}

	addChainFlags(cmd.Flags())
	cmd.Flags().String("work-dir", ".", "Directory the manifest files are written to")
	cmd.Flags().Bool("dry-run", false, "Print the manifests to stdout instead of writing files")

	return cmd
}
