// Package images holds the default sidecar images and rewrites image references onto a private
// registry.
package images

import (
	"fmt"
	"strings"

	"github.com/distribution/reference"
)

const (
	DebugImage           = "praqma/network-multitool"
	StateDBImage         = "couchdb:3.1.1"
	MonitorProcessImage  = "citacloud/monitor-process-exporter:0.4.1"
	MonitorExporterImage = "citacloud/monitor-citacloud-exporter:0.1.1"
	SyncImage            = "syncthing/syncthing:1.18.6"
)

// Defaults are the sidecar images a node may use. Service images come from the topology.
type Defaults struct {
	Debug           string
	StateDB         string
	MonitorProcess  string
	MonitorExporter string
	Sync            string
}

// DefaultImages returns the stock sidecar images.
func DefaultImages() Defaults {
	return Defaults{
		Debug:           DebugImage,
		StateDB:         StateDBImage,
		MonitorProcess:  MonitorProcessImage,
		MonitorExporter: MonitorExporterImage,
		Sync:            SyncImage,
	}
}

// Override moves images onto Registry/Namespace. It only applies when both are set.
type Override struct {
	Registry  string
	Namespace string
}

// Enabled reports whether the override rewrites images.
func (o Override) Enabled() bool {
	return o.Registry != "" && o.Namespace != ""
}

// Apply returns image rewritten as {registry}/{namespace}/{name} where name is the last path
// component of the input repository. Tag and digest are kept.
func (o Override) Apply(image string) (string, error) {
	if !o.Enabled() {
		return image, nil
	}

	named, err := reference.ParseNormalizedNamed(image)
	if err != nil {
		return "", fmt.Errorf("parse image %q: %w", image, err)
	}

	path := reference.Path(named)
	name := path[strings.LastIndex(path, "/")+1:]

	out := fmt.Sprintf("%s/%s/%s", strings.TrimSuffix(o.Registry, "/"), strings.Trim(o.Namespace, "/"), name)
	if tagged, ok := named.(reference.Tagged); ok {
		out += ":" + tagged.Tag()
	}
	if digested, ok := named.(reference.Digested); ok {
		out += "@" + digested.Digest().String()
	}

	if _, err := reference.ParseNormalizedNamed(out); err != nil {
		return "", fmt.Errorf("rewrite image %q: %w", image, err)
	}
	return out, nil
}
