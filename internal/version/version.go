// ABOUTME: Version constants for the duotone engine
// ABOUTME: Reported by the CLI and embedded in host-facing identification
package version

const (
	// Version is the engine release version.
	Version = "0.1.0"

	// Product is the human-readable product name.
	Product = "Duotone"

	// Manufacturer identifies who ships the engine.
	Manufacturer = "Duotone Audio"
)

// String returns the product identification line, e.g. "Duotone 0.1.0".
func String() string {
	return Product + " " + Version
}
