// Package features holds the switches that shape a node's containers and exposed ports.
package features

import "github.com/cita-cloud/cita-manifests/pkg/topology"

// Flags is the active feature set for a run. ChaincodeExecutor and ChaincodeExt are derived from
// the executor image and should be set through FromTopology.
type Flags struct {
	NeedDebug         bool
	NeedMonitor       bool
	SyncChannel       bool
	ChaincodeExecutor bool
	ChaincodeExt      bool
}

// FromTopology returns a copy of f with the chaincode flags derived from t.
func FromTopology(f Flags, t *topology.Topology) Flags {
	f.ChaincodeExecutor = t.IsChaincodeExecutor()
	f.ChaincodeExt = t.IsChaincodeExt()
	return f
}
