package provisioning

import (
	"errors"

	"github.com/ocs-chaos/ocs-chaos/internal/k8s"
	"github.com/ocs-chaos/ocs-chaos/internal/platform/ocm"
)

var (
	// ErrNotFound marks a resource that does not exist yet. Readiness checks
	// keep polling on it.
	ErrNotFound = errors.New("not found")

	// ErrTerminal marks an explicit failure state reported by a collaborator.
	ErrTerminal = errors.New("terminal failure")

	// ErrValidation marks a malformed, empty or ambiguous collaborator response.
	ErrValidation = errors.New("validation failed")
)

// IsNotFound reports whether err is a not-found error from any collaborator.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound) || errors.Is(err, k8s.ErrNotFound) || ocm.IsNotFound(err)
}
