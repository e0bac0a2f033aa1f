// Package topology describes the services that make up a single chain node and checks that a
// topology declares each of them exactly once.
package topology

import (
	"strings"

	ecerrors "github.com/cita-cloud/cita-manifests/pkg/errors"
)

// Role is one of the functional slots every node must fill.
type Role string

const (
	RoleNetwork    Role = "network"
	RoleConsensus  Role = "consensus"
	RoleExecutor   Role = "executor"
	RoleStorage    Role = "storage"
	RoleController Role = "controller"
	RoleKMS        Role = "kms"
)

// CanonicalRoles is the fixed set of roles in canonical order.
var CanonicalRoles = []Role{
	RoleNetwork,
	RoleConsensus,
	RoleExecutor,
	RoleStorage,
	RoleController,
	RoleKMS,
}

// IsCanonical reports whether r is one of the canonical roles.
func (r Role) IsCanonical() bool {
	for _, c := range CanonicalRoles {
		if r == c {
			return true
		}
	}
	return false
}

const (
	chaincodeMarker    = "chaincode"
	chaincodeExtMarker = "chaincode_ext"
)

// Service declares the image and start command for one role.
type Service struct {
	Name    Role   `toml:"name"`
	Image   string `toml:"docker_image"`
	Command string `toml:"cmd"`
}

// Topology is the operator supplied list of services, in declaration order.
type Topology struct {
	Services []Service `toml:"services"`
}

// Validate returns an InvalidTopologyError unless every canonical role appears exactly once.
func (t *Topology) Validate() error {
	counts := map[Role]int{}
	var unknown []string
	for _, svc := range t.Services {
		if !svc.Name.IsCanonical() {
			unknown = append(unknown, string(svc.Name))
			continue
		}
		counts[svc.Name]++
	}

	var missing, duplicated []string
	for _, r := range CanonicalRoles {
		switch n := counts[r]; {
		case n == 0:
			missing = append(missing, string(r))
		case n > 1:
			duplicated = append(duplicated, string(r))
		}
	}

	if len(missing) == 0 && len(duplicated) == 0 && len(unknown) == 0 {
		return nil
	}
	return &ecerrors.InvalidTopologyError{
		Missing:    missing,
		Duplicated: duplicated,
		Unknown:    unknown,
	}
}

// Find returns the service declared for role r.
func (t *Topology) Find(r Role) (Service, bool) {
	for _, svc := range t.Services {
		if svc.Name == r {
			return svc, true
		}
	}
	return Service{}, false
}

// ExecutorImage returns the image declared for the executor role, or an empty string.
func (t *Topology) ExecutorImage() string {
	svc, _ := t.Find(RoleExecutor)
	return svc.Image
}

// IsChaincodeExecutor reports whether the executor runs the chaincode variant, which exposes the
// chaincode and eventhub ports.
func (t *Topology) IsChaincodeExecutor() bool {
	return strings.Contains(t.ExecutorImage(), chaincodeMarker)
}

// IsChaincodeExt reports whether the executor runs the extended chaincode variant backed by a
// state database sidecar.
func (t *Topology) IsChaincodeExt() bool {
	return strings.Contains(t.ExecutorImage(), chaincodeExtMarker)
}
