package cli

import (
	"github.com/cita-cloud/cita-manifests/pkg/logging"
	"github.com/spf13/cobra"
)

func RootCmd(cli *CLI) *cobra.Command {
	cmd := &cobra.Command{
		Use:           cli.Name,
		Short:         "Generate Kubernetes manifests for the nodes of a CITA-Cloud chain",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cli.bindFlags(cmd.Flags())

			// If the command is help, don't read any config
			if cmd.Name() == "help" {
				return nil
			}

			if err := cli.readConfigFile(); err != nil {
				return err
			}
			closeLog, err := logging.Setup(cli.Logger, cli.V.GetString("log-level"), cli.V.GetString("log-file"))
			if err != nil {
				return err
			}
			cli.closeLog = closeLog
			return nil
		},
	}

	cmd.AddCommand(GenerateCmd(cli))
	cmd.AddCommand(ValidateCmd(cli))
	cmd.AddCommand(PortsCmd(cli))
	cmd.AddCommand(VersionCmd(cli))

	cmd.PersistentFlags().String("config", "", "Path to a config file holding flag values")
	cmd.PersistentFlags().String("log-level", "info", "Log level (debug, info, warn, error)")
	cmd.PersistentFlags().String("log-file", "", "Also write every log entry to this file")
	cmd.SetGlobalNormalizationFunc(normalizeFlagName)

	cobra.OnInitialize(func() {
		cli.init()
	})

	return cmd
}
