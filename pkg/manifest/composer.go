// Package manifest composes the kubernetes resources of every chain node: the kms secret, the
// network key secret, the node deployment and its load balancer service.
package manifest

import (
	"context"
	"fmt"

	"github.com/cita-cloud/cita-manifests/pkg/assembler"
	"github.com/cita-cloud/cita-manifests/pkg/config"
	"github.com/cita-cloud/cita-manifests/pkg/features"
	"github.com/cita-cloud/cita-manifests/pkg/images"
	"github.com/cita-cloud/cita-manifests/pkg/ports"
	"github.com/cita-cloud/cita-manifests/pkg/topology"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
	appsv1 "k8s.io/api/apps/v1"
	corev1 "k8s.io/api/core/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/runtime"
	"k8s.io/apimachinery/pkg/util/validation"
	"k8s.io/utils/ptr"
)

// Config is shared by every node of a run.
type Config struct {
	ChainName       string
	Features        features.Flags
	PullPolicy      corev1.PullPolicy
	StateDBUser     string
	StateDBPassword string
	Images          images.Defaults
	Override        images.Override
	// KeySource defaults to crypto/rand.
	KeySource KeySource
	Logger    logrus.FieldLogger
}

// Bundle is the ordered resource set of one node.
type Bundle struct {
	Identity      string
	KMSSecret     *corev1.Secret
	NetworkSecret *corev1.Secret
	Deployment    *appsv1.Deployment
	Service       *corev1.Service
}

// Objects returns the resources in write order.
func (b *Bundle) Objects() []runtime.Object {
	return []runtime.Object{b.KMSSecret, b.NetworkSecret, b.Deployment, b.Service}
}

type Composer struct {
	cfg Config
}

func NewComposer(cfg Config) *Composer {
	if cfg.Logger == nil {
		cfg.Logger = logrus.StandardLogger()
	}
	return &Composer{cfg: cfg}
}

// ComposeAll validates the topology and the parameters and then composes every node
// concurrently. Bundles are returned in parameter order. Nothing is returned if any node fails.
func (c *Composer) ComposeAll(ctx context.Context, topo *topology.Topology, params *config.Params) ([]*Bundle, error) {
	if err := topo.Validate(); err != nil {
		return nil, err
	}
	if err := params.Validate(); err != nil {
		return nil, err
	}
	if params.ChainName != c.cfg.ChainName {
		return nil, fmt.Errorf("chain name %q does not match composer chain %q", params.ChainName, c.cfg.ChainName)
	}

	nodes := params.Nodes()
	bundles := make([]*Bundle, len(nodes))

	g, ctx := errgroup.WithContext(ctx)
	for i, node := range nodes {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			b, err := c.Compose(topo, node)
			if err != nil {
				return fmt.Errorf("compose node %s: %w", node.Identity, err)
			}
			bundles[i] = b
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return bundles, nil
}

// Compose builds the bundle of a single node. topo must already be validated.
func (c *Composer) Compose(topo *topology.Topology, node config.Node) (*Bundle, error) {
	chain := c.cfg.ChainName
	f := features.FromTopology(c.cfg.Features, topo)
	podName := PodName(chain, node.Identity)
	kmsSecretName := KMSSecretName(chain, node.Identity)
	networkSecretName := NetworkSecretName(chain, node.Identity)
	serviceName := ServiceName(chain, node.GroupIndex)

	log := c.cfg.Logger.WithField("node", podName)
	log.Debugf("Composing node with features %+v", f)
	warnInvalidNames(log, podName, kmsSecretName, networkSecretName, serviceName)

	networkKey, err := NewNetworkKey(c.cfg.KeySource)
	if err != nil {
		return nil, err
	}

	parts, err := assembler.New(assembler.Config{
		Features:        f,
		PullPolicy:      c.cfg.PullPolicy,
		StateDBUser:     c.cfg.StateDBUser,
		StateDBPassword: c.cfg.StateDBPassword,
		Images:          c.cfg.Images,
		Override:        c.cfg.Override,
	}).Assemble(topo, assembler.Node{
		PodName:           podName,
		KMSSecretName:     kmsSecretName,
		NetworkSecretName: networkSecretName,
		PVCName:           node.PVCName,
	})
	if err != nil {
		return nil, fmt.Errorf("assemble pod: %w", err)
	}

	allocs, err := ports.Plan(node.BasePort, f)
	if err != nil {
		// collisions are a defect in the port table, never an input problem
		log.Errorf("Port plan failed: %v", err)
		return nil, fmt.Errorf("plan ports: %w", err)
	}

	return &Bundle{
		Identity:      node.Identity,
		KMSSecret:     opaqueSecret(kmsSecretName, KMSSecretKey, []byte(node.KMSPassword)),
		NetworkSecret: opaqueSecret(networkSecretName, NetworkSecretKey, []byte(networkKey)),
		Deployment:    deployment(chain, podName, parts),
		Service:       loadBalancerService(serviceName, podName, node.LBToken, allocs),
	}, nil
}

func opaqueSecret(name, key string, value []byte) *corev1.Secret {
	return &corev1.Secret{
		TypeMeta: metav1.TypeMeta{
			APIVersion: "v1",
			Kind:       "Secret",
		},
		ObjectMeta: metav1.ObjectMeta{
			Name: name,
		},
		Type: corev1.SecretTypeOpaque,
		Data: map[string][]byte{
			key: value,
		},
	}
}

func deployment(chain, podName string, parts *assembler.PodParts) *appsv1.Deployment {
	labels := map[string]string{
		LabelNodeName:  podName,
		LabelChainName: chain,
	}
	return &appsv1.Deployment{
		TypeMeta: metav1.TypeMeta{
			APIVersion: "apps/v1",
			Kind:       "Deployment",
		},
		ObjectMeta: metav1.ObjectMeta{
			Name:   podName,
			Labels: labels,
		},
		Spec: appsv1.DeploymentSpec{
			Replicas: ptr.To(int32(1)),
			Selector: &metav1.LabelSelector{
				MatchLabels: map[string]string{
					LabelNodeName: podName,
				},
			},
			Template: corev1.PodTemplateSpec{
				ObjectMeta: metav1.ObjectMeta{
					Labels: labels,
				},
				Spec: corev1.PodSpec{
					ShareProcessNamespace: ptr.To(true),
					Containers:            parts.Containers,
					Volumes:               parts.Volumes,
				},
			},
		},
	}
}

func loadBalancerService(name, podName, token string, allocs []ports.Allocation) *corev1.Service {
	return &corev1.Service{
		TypeMeta: metav1.TypeMeta{
			APIVersion: "v1",
			Kind:       "Service",
		},
		ObjectMeta: metav1.ObjectMeta{
			Name: name,
			Annotations: map[string]string{
				AnnotationLoadBalancerID:      token,
				AnnotationForceOverride:       "true",
				AnnotationHealthCheckInterval: "50",
			},
		},
		Spec: corev1.ServiceSpec{
			Type:  corev1.ServiceTypeLoadBalancer,
			Ports: ports.ServicePorts(allocs),
			Selector: map[string]string{
				LabelNodeName: podName,
			},
		},
	}
}

// warnInvalidNames logs names the api server would reject. Legacy names, such as upper case node
// addresses, are still emitted unchanged.
func warnInvalidNames(log logrus.FieldLogger, names ...string) {
	for _, name := range names {
		if errs := validation.IsDNS1123Subdomain(name); len(errs) > 0 {
			log.Warnf("Resource name %q is not a valid kubernetes name: %v", name, errs)
		}
	}
}
