package detect

import (
	"fmt"

	"github.com/Masterminds/semver/v3"
)

// SupportedVersions is the semver constraint a capability's Version must meet.
// The buffer layout (count row, then N pairs) is part of the 1.x contract.
const SupportedVersions = "^1.0.0"

// CheckVersion verifies that c speaks a buffer layout this gateway decodes.
func CheckVersion(c Capability) error {
	constraint, err := semver.NewConstraint(SupportedVersions)
	if err != nil {
		return fmt.Errorf("parsing supported version constraint: %w", err)
	}

	v, err := semver.NewVersion(c.Version())
	if err != nil {
		return fmt.Errorf("%w: %s reports unparseable version %q: %v",
			ErrIncompatibleCapability, c.Name(), c.Version(), err)
	}

	if !constraint.Check(v) {
		return fmt.Errorf("%w: %s %s does not satisfy %s",
			ErrIncompatibleCapability, c.Name(), v, SupportedVersions)
	}
	return nil
}
