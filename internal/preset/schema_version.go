package preset

import (
	"fmt"

	"github.com/Masterminds/semver/v3"
)

// supportedSchema is the semver constraint this binary's catalog parser
// accepts. Bumped only on a breaking catalog schema change.
const supportedSchema = "^1.0.0"

func checkSchemaVersion(v string) error {
	if v == "" {
		v = defaultSchemaVersion
	}
	parsed, err := semver.NewVersion(v)
	if err != nil {
		return fmt.Errorf("preset: invalid schema_version %q: %w", v, err)
	}
	constraint, err := semver.NewConstraint(supportedSchema)
	if err != nil {
		return fmt.Errorf("preset: invalid internal constraint %q: %w", supportedSchema, err)
	}
	if !constraint.Check(parsed) {
		return fmt.Errorf("preset: catalog schema_version %s does not satisfy %s", v, supportedSchema)
	}
	return nil
}
