// Package versions
package versions

var (
	// Version holds the cita-manifests version. It is set at compile time via ldflags.
	Version = "v0.0.0"
	// GitSHA holds the commit the binary was built from. It is set at compile time via ldflags.
	GitSHA = ""
)
