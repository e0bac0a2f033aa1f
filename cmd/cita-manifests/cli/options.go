package cli

import (
	"fmt"

	"github.com/cita-cloud/cita-manifests/pkg/config"
	"github.com/cita-cloud/cita-manifests/pkg/features"
	"github.com/cita-cloud/cita-manifests/pkg/images"
	"github.com/cita-cloud/cita-manifests/pkg/manifest"
	"github.com/cita-cloud/cita-manifests/pkg/topology"
	"github.com/spf13/pflag"
)

// addChainFlags registers the flags shared by generate and validate.
func addChainFlags(flags *pflag.FlagSet) {
	flags.String("chain-name", config.DefaultChainName, "Name of the chain")
	flags.String("service-config", config.DefaultServiceConfig, "Path to the service topology file")
	flags.StringSlice("kms-passwords", nil, "KMS password of every node, comma separated")
	flags.StringSlice("lbs-tokens", nil, "Load balancer id of every node, comma separated")
	flags.StringSlice("node-ports", nil, "Base load balancer port of every node, comma separated")
	flags.StringSlice("pvc-names", nil, "Persistent volume claim of every node, comma separated")
	flags.StringSlice("node-addresses", nil, "Node address of every node, comma separated (defaults to the node position)")
	flags.StringSlice("indices", nil, "Group index of every node, comma separated (defaults to 1)")
	flags.Bool("need-debug", false, "Add the debug container and expose its port")
	flags.Bool("need-monitor", false, "Add the monitoring exporters and expose their ports")
	flags.Bool("enable-sync", false, "Add the sync channel container and expose its port")
	flags.String("state-db-user", config.DefaultStateDBUser, "User of the chaincode state database")
	flags.String("state-db-password", config.DefaultStateDBPassword, "Password of the chaincode state database")
	flags.String("image-pull-policy", string(config.DefaultPullPolicy), "Image pull policy (Always, IfNotPresent, Never)")
	flags.String("docker-registry", "", "Registry of every container image, requires docker-image-namespace")
	flags.String("docker-image-namespace", "", "Namespace of every container image, requires docker-registry")
}

func (cli *CLI) loadTopology() (*topology.Topology, error) {
	return topology.LoadFile(cli.FS, cli.V.GetString("service-config"))
}

func (cli *CLI) params() (*config.Params, error) {
	p := &config.Params{ChainName: cli.V.GetString("chain-name")}
	lists := []struct {
		key  string
		dest *[]string
	}{
		{"kms-passwords", &p.KMSPasswords},
		{"lbs-tokens", &p.LBTokens},
		{"pvc-names", &p.PVCNames},
		{"node-addresses", &p.NodeAddresses},
		{"indices", &p.Indices},
	}
	for _, l := range lists {
		v, err := cli.stringList(l.key)
		if err != nil {
			return nil, err
		}
		*l.dest = v
	}
	nodePorts, err := cli.portList("node-ports")
	if err != nil {
		return nil, err
	}
	p.NodePorts = nodePorts
	return p, nil
}

func (cli *CLI) featureFlags() features.Flags {
	return features.Flags{
		NeedDebug:   cli.V.GetBool("need-debug"),
		NeedMonitor: cli.V.GetBool("need-monitor"),
		SyncChannel: cli.V.GetBool("enable-sync"),
	}
}

func (cli *CLI) composerConfig(topo *topology.Topology) (manifest.Config, error) {
	policy, err := config.ValidatePullPolicy(cli.V.GetString("image-pull-policy"))
	if err != nil {
		return manifest.Config{}, err
	}
	override := images.Override{
		Registry:  cli.V.GetString("docker-registry"),
		Namespace: cli.V.GetString("docker-image-namespace"),
	}
	if !override.Enabled() && (override.Registry != "" || override.Namespace != "") {
		cli.Logger.Warnf("Image override ignored: docker-registry and docker-image-namespace must both be set")
	}
	return manifest.Config{
		ChainName:       cli.V.GetString("chain-name"),
		Features:        features.FromTopology(cli.featureFlags(), topo),
		PullPolicy:      policy,
		StateDBUser:     cli.V.GetString("state-db-user"),
		StateDBPassword: cli.V.GetString("state-db-password"),
		Images:          images.DefaultImages(),
		Override:        override,
		Logger:          cli.Logger,
	}, nil
}

// prepare loads and validates everything generate needs.
func (cli *CLI) prepare() (*topology.Topology, *config.Params, manifest.Config, error) {
	topo, err := cli.loadTopology()
	if err != nil {
		return nil, nil, manifest.Config{}, err
	}
	if err := topo.Validate(); err != nil {
		return nil, nil, manifest.Config{}, err
	}
	params, err := cli.params()
	if err != nil {
		return nil, nil, manifest.Config{}, err
	}
	if err := params.Validate(); err != nil {
		return nil, nil, manifest.Config{}, fmt.Errorf("validate parameters: %w", err)
	}
	cfg, err := cli.composerConfig(topo)
	if err != nil {
		return nil, nil, manifest.Config{}, err
	}
	return topo, params, cfg, nil
}
