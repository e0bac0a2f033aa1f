package cli

import (
	"fmt"

	"github.com/cita-cloud/cita-manifests/pkg/images"
	"github.com/cita-cloud/cita-manifests/pkg/versions"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

func VersionCmd(cli *CLI) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "version",
		Short: fmt.Sprintf("Show the %s version and default sidecar images", cli.Name),
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			defaults := images.DefaultImages()

			writer := table.NewWriter()
			writer.AppendHeader(table.Row{"component", "version"})
			writer.AppendRow(table.Row{cli.Name, versions.Version})
			if versions.GitSHA != "" {
				writer.AppendRow(table.Row{"git sha", versions.GitSHA})
			}
			writer.AppendRow(table.Row{"debug", defaults.Debug})
			writer.AppendRow(table.Row{"state db", defaults.StateDB})
			writer.AppendRow(table.Row{"monitor process", defaults.MonitorProcess})
			writer.AppendRow(table.Row{"monitor exporter", defaults.MonitorExporter})
			writer.AppendRow(table.Row{"sync", defaults.Sync})
			fmt.Fprintf(cmd.OutOrStdout(), "%s\n", writer.Render())
			return nil
		},
	}

	return cmd
}
