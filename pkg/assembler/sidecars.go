package assembler

import (
	"strconv"

	"github.com/cita-cloud/cita-manifests/pkg/ports"
	corev1 "k8s.io/api/core/v1"
)

// Container ports of the node services.
const (
	NetworkP2PPort     = ports.NetworkPort
	NetworkGRPCPort    = int32(50000)
	ConsensusGRPCPort  = int32(50001)
	ExecutorGRPCPort   = int32(50002)
	StorageGRPCPort    = int32(50003)
	ControllerGRPCPort = ports.RPCPort
	KMSGRPCPort        = int32(50005)
	ChaincodePort      = ports.ChaincodePort
	EventhubPort       = ports.EventhubPort
	StateDBPort        = int32(5984)
)

func (a *Assembler) debugContainer(node Node) (corev1.Container, error) {
	image, err := a.cfg.Override.Apply(a.cfg.Images.Debug)
	if err != nil {
		return corev1.Container{}, err
	}
	return corev1.Container{
		Name:            "debug",
		Image:           image,
		ImagePullPolicy: a.cfg.PullPolicy,
		Ports:           []corev1.ContainerPort{tcpPort("debug", ports.DebugPort)},
		Env: []corev1.EnvVar{
			{
				Name:  "HTTP_PORT",
				Value: strconv.Itoa(int(ports.DebugPort)),
			},
		},
		VolumeMounts: []corev1.VolumeMount{dataMount(node, DataMountPath)},
	}, nil
}

func (a *Assembler) syncContainer(node Node) (corev1.Container, error) {
	image, err := a.cfg.Override.Apply(a.cfg.Images.Sync)
	if err != nil {
		return corev1.Container{}, err
	}
	return corev1.Container{
		Name:            "syncthing",
		Image:           image,
		ImagePullPolicy: a.cfg.PullPolicy,
		Ports:           []corev1.ContainerPort{tcpPort("sync", ports.SyncPort)},
		VolumeMounts:    []corev1.VolumeMount{dataMount(node, SyncMountPath)},
	}, nil
}

func (a *Assembler) stateDBContainer(node Node) (corev1.Container, error) {
	image, err := a.cfg.Override.Apply(a.cfg.Images.StateDB)
	if err != nil {
		return corev1.Container{}, err
	}
	return corev1.Container{
		Name:            "couchdb",
		Image:           image,
		ImagePullPolicy: a.cfg.PullPolicy,
		Ports:           []corev1.ContainerPort{tcpPort("couchdb", StateDBPort)},
		VolumeMounts:    []corev1.VolumeMount{dataMount(node, StateDBMountPath)},
		Env: []corev1.EnvVar{
			{Name: "COUCHDB_USER", Value: a.cfg.StateDBUser},
			{Name: "COUCHDB_PASSWORD", Value: a.cfg.StateDBPassword},
		},
	}, nil
}

func (a *Assembler) monitorContainers(node Node) ([]corev1.Container, error) {
	processImage, err := a.cfg.Override.Apply(a.cfg.Images.MonitorProcess)
	if err != nil {
		return nil, err
	}
	exporterImage, err := a.cfg.Override.Apply(a.cfg.Images.MonitorExporter)
	if err != nil {
		return nil, err
	}

	return []corev1.Container{
		{
			Name:            "monitor-process",
			Image:           processImage,
			ImagePullPolicy: a.cfg.PullPolicy,
			Ports:           []corev1.ContainerPort{tcpPort("process", ports.ProcessPort)},
			Args: []string{
				"--procfs", "/proc",
				"--config.path", "/config/process_list.yml",
			},
			WorkingDir:   DataMountPath,
			VolumeMounts: []corev1.VolumeMount{dataMount(node, DataMountPath)},
		},
		{
			Name:            "monitor-citacloud",
			Image:           exporterImage,
			ImagePullPolicy: a.cfg.PullPolicy,
			Ports:           []corev1.ContainerPort{tcpPort("exporter", ports.ExporterPort)},
			Args: []string{
				"--node-grpc-host", "localhost",
				"--node-grpc-port", strconv.Itoa(int(ControllerGRPCPort)),
				"--node-data-folder", ".",
			},
			WorkingDir:   DataMountPath,
			VolumeMounts: []corev1.VolumeMount{dataMount(node, DataMountPath)},
		},
	}, nil
}
