// Package config holds the per-run parameters of a manifest generation and validates them before
// any node is processed.
package config

import (
	"fmt"

	ecerrors "github.com/cita-cloud/cita-manifests/pkg/errors"
	"github.com/cita-cloud/cita-manifests/pkg/identity"
	"go.uber.org/multierr"
	corev1 "k8s.io/api/core/v1"
)

const (
	DefaultChainName       = "test-chain"
	DefaultServiceConfig   = "./service-config.toml"
	DefaultStateDBUser     = "citacloud"
	DefaultStateDBPassword = "citacloud"
	DefaultPullPolicy      = corev1.PullIfNotPresent
)

// Params are the per-peer lists for one run. The peer count is the number of kms passwords and
// every other list must match it. NodeAddresses and Indices are optional.
type Params struct {
	ChainName     string
	KMSPasswords  []string
	LBTokens      []string
	NodePorts     []int32
	PVCNames      []string
	NodeAddresses []string
	Indices       []string
}

// PeerCount returns the number of nodes described by p.
func (p *Params) PeerCount() int {
	return len(p.KMSPasswords)
}

// Validate returns every list length mismatch at once. Once the lengths agree it also rejects
// duplicate node identities.
func (p *Params) Validate() error {
	if p.ChainName == "" {
		return fmt.Errorf("chain name is required")
	}
	if p.PeerCount() == 0 {
		return fmt.Errorf("kms passwords are required")
	}

	want := p.PeerCount()
	var err error
	check := func(field string, got int, optional bool) {
		if optional && got == 0 {
			return
		}
		if got != want {
			err = multierr.Append(err, &ecerrors.ParameterLengthMismatchError{Field: field, Got: got, Want: want})
		}
	}
	check("lbs_tokens", len(p.LBTokens), false)
	check("node_ports", len(p.NodePorts), false)
	check("pvc_names", len(p.PVCNames), false)
	check("node_addresses", len(p.NodeAddresses), true)
	check("indices", len(p.Indices), true)
	if err != nil {
		return err
	}
	return p.checkIdentities()
}

// checkIdentities rejects nodes resolving to the same identity, since identity keys every per-node
// resource name and output file.
func (p *Params) checkIdentities() error {
	seen := map[string]int{}
	for i, n := range identity.ResolveAll(p.NodeAddresses, p.Indices, p.PeerCount()) {
		if first, ok := seen[n.Identity]; ok {
			return &ecerrors.DuplicateIdentityError{Identity: n.Identity, First: first, Second: i}
		}
		seen[n.Identity] = i
	}
	return nil
}

// Node is the parameter slice a single node is composed from.
type Node struct {
	identity.Node
	KMSPassword string
	LBToken     string
	BasePort    int32
	PVCName     string
}

// Nodes splits p into per-node parameters in input order. p must be valid.
func (p *Params) Nodes() []Node {
	ids := identity.ResolveAll(p.NodeAddresses, p.Indices, p.PeerCount())
	out := make([]Node, 0, len(ids))
	for i, id := range ids {
		out = append(out, Node{
			Node:        id,
			KMSPassword: p.KMSPasswords[i],
			LBToken:     p.LBTokens[i],
			BasePort:    p.NodePorts[i],
			PVCName:     p.PVCNames[i],
		})
	}
	return out
}

// ValidatePullPolicy accepts the image pull policies kubernetes knows about.
func ValidatePullPolicy(policy string) (corev1.PullPolicy, error) {
	switch p := corev1.PullPolicy(policy); p {
	case corev1.PullAlways, corev1.PullIfNotPresent, corev1.PullNever:
		return p, nil
	case "":
		return DefaultPullPolicy, nil
	default:
		return "", fmt.Errorf("invalid image pull policy %q, must be one of Always, IfNotPresent or Never", policy)
	}
}
