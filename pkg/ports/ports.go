// Package ports computes the externally exposed load balancer ports of a node. Each purpose owns a
// fixed offset from the node's base port, whether or not the feature behind it is enabled, so
// toggling a feature never moves any other port.
package ports

import (
	"fmt"

	ecerrors "github.com/cita-cloud/cita-manifests/pkg/errors"
	"github.com/cita-cloud/cita-manifests/pkg/features"
	corev1 "k8s.io/api/core/v1"
	"k8s.io/apimachinery/pkg/util/intstr"
)

// Internal ports the load balancer forwards to.
const (
	NetworkPort   int32 = 40000
	SyncPort      int32 = 22000
	RPCPort       int32 = 50004
	CallPort      int32 = 50002
	ProcessPort   int32 = 9256
	ExporterPort  int32 = 9349
	ChaincodePort int32 = 7052
	EventhubPort  int32 = 7053
	DebugPort     int32 = 9999
)

// MaxOffset is the highest offset any slot uses.
const MaxOffset int32 = 8

// Allocation is a single exposed port.
type Allocation struct {
	Name       string
	Port       int32
	TargetPort int32
}

type slot struct {
	name    string
	offset  int32
	target  int32
	enabled func(features.Flags) bool
}

func always(features.Flags) bool { return true }

// slots is ordered by offset. Debug sits on the last slot and sync on +1.
var slots = []slot{
	{name: "network", offset: 0, target: NetworkPort, enabled: always},
	{name: "sync", offset: 1, target: SyncPort, enabled: func(f features.Flags) bool { return f.SyncChannel }},
	{name: "rpc", offset: 2, target: RPCPort, enabled: always},
	{name: "call", offset: 3, target: CallPort, enabled: always},
	{name: "process", offset: 4, target: ProcessPort, enabled: func(f features.Flags) bool { return f.NeedMonitor }},
	{name: "exporter", offset: 5, target: ExporterPort, enabled: func(f features.Flags) bool { return f.NeedMonitor }},
	{name: "chaincode", offset: 6, target: ChaincodePort, enabled: func(f features.Flags) bool { return f.ChaincodeExecutor }},
	{name: "eventhub", offset: 7, target: EventhubPort, enabled: func(f features.Flags) bool { return f.ChaincodeExecutor }},
	{name: "debug", offset: MaxOffset, target: DebugPort, enabled: func(f features.Flags) bool { return f.NeedDebug }},
}

// Plan returns the allocations for base and f ordered by offset.
func Plan(base int32, f features.Flags) ([]Allocation, error) {
	if base < 1 || base > 65535-MaxOffset {
		return nil, fmt.Errorf("base port %d out of range [1, %d]", base, 65535-MaxOffset)
	}

	var out []Allocation
	for _, s := range slots {
		if !s.enabled(f) {
			continue
		}
		out = append(out, Allocation{
			Name:       s.name,
			Port:       base + s.offset,
			TargetPort: s.target,
		})
	}

	if err := checkCollisions(out); err != nil {
		return nil, err
	}
	return out, nil
}

func checkCollisions(allocs []Allocation) error {
	byPort := map[int32]string{}
	names := map[string]struct{}{}
	for _, a := range allocs {
		if other, ok := byPort[a.Port]; ok {
			return &ecerrors.PortCollisionError{Name: a.Name, Other: other, Port: a.Port}
		}
		if _, ok := names[a.Name]; ok {
			return fmt.Errorf("duplicate port name %q", a.Name)
		}
		byPort[a.Port] = a.Name
		names[a.Name] = struct{}{}
	}
	return nil
}

// ServicePorts converts allocations into service ports.
func ServicePorts(allocs []Allocation) []corev1.ServicePort {
	out := make([]corev1.ServicePort, 0, len(allocs))
	for _, a := range allocs {
		out = append(out, corev1.ServicePort{
			Name:       a.Name,
			Protocol:   corev1.ProtocolTCP,
			Port:       a.Port,
			TargetPort: intstr.FromInt32(a.TargetPort),
		})
	}
	return out
}
