// Package version reports the binary's build version and the preset
// catalog schema version it supports, both as semver values so client
// tooling can make compatibility decisions (SPEC_FULL.md §4.7/§10).
package version

import "github.com/Masterminds/semver/v3"

// Build is overridden at link time via
// -ldflags "-X github.com/asicfleet/simulator/internal/version.Build=v1.2.3".
var Build = "v0.0.0-dev"

// Info is the payload served at GET /api/v1/version.
type Info struct {
	Build              string `json:"build"`
	CatalogSchema      string `json:"catalog_schema_version"`
	SupportedConstraint string `json:"supported_catalog_constraint"`
}

const supportedCatalogConstraint = "^1.0.0"

// Current reports the running build and the catalog schema it currently
// expects from loaded catalogs.
func Current(catalogSchemaVersion string) Info {
	return Info{
		Build:               Build,
		CatalogSchema:       catalogSchemaVersion,
		SupportedConstraint: supportedCatalogConstraint,
	}
}

// Compatible reports whether the given catalog schema version string
// satisfies the binary's supported constraint.
func Compatible(catalogSchemaVersion string) bool {
	v, err := semver.NewVersion(catalogSchemaVersion)
	if err != nil {
		return false
	}
	c, err := semver.NewConstraint(supportedCatalogConstraint)
	if err != nil {
		return false
	}
	return c.Check(v)
}
