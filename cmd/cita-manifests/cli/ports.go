package cli

import (
	"fmt"

	"github.com/cita-cloud/cita-manifests/pkg/ports"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

func PortsCmd(cli *CLI) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ports",
		Short: "Show the load balancer ports of a node",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			f := cli.featureFlags()
			f.ChaincodeExecutor = cli.V.GetBool("chaincode")

			allocs, err := ports.Plan(cli.V.GetInt32("base-port"), f)
			if err != nil {
				return err
			}

			writer := table.NewWriter()
			writer.AppendHeader(table.Row{"name", "port", "target port"})
			for _, a := range allocs {
				writer.AppendRow(table.Row{a.Name, a.Port, a.TargetPort})
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s\n", writer.Render())
			return nil
		},
	}

	cmd.Flags().Int32("base-port", 30000, "Base load balancer port of the node")
	cmd.Flags().Bool("need-debug", false, "Include the debug port")
	cmd.Flags().Bool("need-monitor", false, "Include the monitoring ports")
	cmd.Flags().Bool("enable-sync", false, "Include the sync channel port")
	cmd.Flags().Bool("chaincode", false, "Include the chaincode executor ports")

	return cmd
}
