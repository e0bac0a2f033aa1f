// Package assembler builds the containers and volumes of a node's pod. Containers are emitted in
// a fixed order: debug, sync, one per declared service (with the state database inserted right
// before the executor when needed), then the monitor sidecars.
package assembler

import (
	"fmt"

	ecerrors "github.com/cita-cloud/cita-manifests/pkg/errors"
	"github.com/cita-cloud/cita-manifests/pkg/features"
	"github.com/cita-cloud/cita-manifests/pkg/images"
	"github.com/cita-cloud/cita-manifests/pkg/topology"
	corev1 "k8s.io/api/core/v1"
)

const (
	DataVolume       = "datadir"
	NetworkKeyVolume = "network-key"
	KMSKeyVolume     = "kms-key"

	DataMountPath       = "/data"
	NetworkKeyMountPath = "/network"
	KMSKeyMountPath     = "/kms"
	StateDBMountPath    = "/opt/couchdb/data"
	SyncMountPath       = "/var/syncthing"
)

// Config is shared by every node of a run.
type Config struct {
	Features        features.Flags
	PullPolicy      corev1.PullPolicy
	StateDBUser     string
	StateDBPassword string
	Images          images.Defaults
	Override        images.Override
}

// Node names the per-node objects the pod refers to.
type Node struct {
	// PodName sub-paths the shared data volume.
	PodName           string
	KMSSecretName     string
	NetworkSecretName string
	PVCName           string
}

// PodParts is the assembled pod content.
type PodParts struct {
	Containers []corev1.Container
	Volumes    []corev1.Volume
}

type Assembler struct {
	cfg Config
}

func New(cfg Config) *Assembler {
	return &Assembler{cfg: cfg}
}

// Assemble returns the containers and volumes for node. The topology is expected to be valid;
// services outside the canonical roles still fail with UnknownRoleError.
func (a *Assembler) Assemble(topo *topology.Topology, node Node) (*PodParts, error) {
	var containers []corev1.Container

	if a.cfg.Features.NeedDebug {
		c, err := a.debugContainer(node)
		if err != nil {
			return nil, err
		}
		containers = append(containers, c)
	}

	if a.cfg.Features.SyncChannel {
		c, err := a.syncContainer(node)
		if err != nil {
			return nil, err
		}
		containers = append(containers, c)
	}

	for _, svc := range topo.Services {
		cs, err := a.serviceContainers(svc, node)
		if err != nil {
			return nil, fmt.Errorf("assemble %s: %w", svc.Name, err)
		}
		containers = append(containers, cs...)
	}

	if a.cfg.Features.NeedMonitor {
		cs, err := a.monitorContainers(node)
		if err != nil {
			return nil, err
		}
		containers = append(containers, cs...)
	}

	return &PodParts{
		Containers: containers,
		Volumes:    volumes(node),
	}, nil
}

func (a *Assembler) serviceContainers(svc topology.Service, node Node) ([]corev1.Container, error) {
	image, err := a.cfg.Override.Apply(svc.Image)
	if err != nil {
		return nil, err
	}

	c := corev1.Container{
		Name:            string(svc.Name),
		Image:           image,
		ImagePullPolicy: a.cfg.PullPolicy,
		Command:         shellCommand(svc.Command),
		WorkingDir:      DataMountPath,
		VolumeMounts:    []corev1.VolumeMount{dataMount(node, DataMountPath)},
	}

	switch svc.Name {
	case topology.RoleNetwork:
		c.Ports = []corev1.ContainerPort{
			tcpPort("network", NetworkP2PPort),
			tcpPort("grpc", NetworkGRPCPort),
		}
		c.VolumeMounts = append(c.VolumeMounts, corev1.VolumeMount{
			Name:      NetworkKeyVolume,
			MountPath: NetworkKeyMountPath,
			ReadOnly:  true,
		})
	case topology.RoleConsensus:
		c.Ports = []corev1.ContainerPort{tcpPort("grpc", ConsensusGRPCPort)}
	case topology.RoleExecutor:
		return a.executorContainers(c, svc, node)
	case topology.RoleStorage:
		c.Ports = []corev1.ContainerPort{tcpPort("grpc", StorageGRPCPort)}
	case topology.RoleController:
		c.Ports = []corev1.ContainerPort{tcpPort("grpc", ControllerGRPCPort)}
	case topology.RoleKMS:
		c.Ports = []corev1.ContainerPort{tcpPort("grpc", KMSGRPCPort)}
		c.VolumeMounts = append(c.VolumeMounts, corev1.VolumeMount{
			Name:      KMSKeyVolume,
			MountPath: KMSKeyMountPath,
			ReadOnly:  true,
		})
	default:
		return nil, &ecerrors.UnknownRoleError{Role: string(svc.Name)}
	}

	return []corev1.Container{c}, nil
}

func (a *Assembler) executorContainers(c corev1.Container, svc topology.Service, node Node) ([]corev1.Container, error) {
	c.Ports = []corev1.ContainerPort{tcpPort("grpc", ExecutorGRPCPort)}
	if !a.cfg.Features.ChaincodeExecutor {
		return []corev1.Container{c}, nil
	}

	c.Ports = append(c.Ports,
		tcpPort("chaincode", ChaincodePort),
		tcpPort("eventhub", EventhubPort),
	)
	if !a.cfg.Features.ChaincodeExt {
		return []corev1.Container{c}, nil
	}

	db, err := a.stateDBContainer(node)
	if err != nil {
		return nil, err
	}
	c.Command = shellCommand(fmt.Sprintf("%s --couchdb-username %s --couchdb-password %s",
		svc.Command, a.cfg.StateDBUser, a.cfg.StateDBPassword))

	return []corev1.Container{db, c}, nil
}

func volumes(node Node) []corev1.Volume {
	return []corev1.Volume{
		{
			Name: KMSKeyVolume,
			VolumeSource: corev1.VolumeSource{
				Secret: &corev1.SecretVolumeSource{
					SecretName: node.KMSSecretName,
				},
			},
		},
		{
			Name: NetworkKeyVolume,
			VolumeSource: corev1.VolumeSource{
				Secret: &corev1.SecretVolumeSource{
					SecretName: node.NetworkSecretName,
				},
			},
		},
		{
			Name: DataVolume,
			VolumeSource: corev1.VolumeSource{
				PersistentVolumeClaim: &corev1.PersistentVolumeClaimVolumeSource{
					ClaimName: node.PVCName,
				},
			},
		},
	}
}

func dataMount(node Node, path string) corev1.VolumeMount {
	return corev1.VolumeMount{
		Name:      DataVolume,
		SubPath:   node.PodName,
		MountPath: path,
	}
}

func shellCommand(cmd string) []string {
	return []string{"sh", "-c", cmd}
}

func tcpPort(name string, port int32) corev1.ContainerPort {
	return corev1.ContainerPort{
		Name:          name,
		ContainerPort: port,
		Protocol:      corev1.ProtocolTCP,
	}
}
