package etw

import (
	"fmt"

	"github.com/pkg/errors"
)

var (
	// ErrMissingIdentity is returned by Build when no GUID was bound.
	ErrMissingIdentity = errors.New("provider has no GUID")

	// ErrNameResolutionFailed is matched by every *NameResolutionError.
	ErrNameResolutionFailed = errors.New("provider name resolution failed")

	// ErrRegistryClosed is returned when adding a consumer to a closed Registry.
	ErrRegistryClosed = errors.New("consumer registry is closed")

	// ErrProviderFinalized is recorded when a built Provider is reconfigured.
	ErrProviderFinalized = errors.New("provider already built")

	// ErrUnknownKernelProvider is returned for names missing from the kernel catalog.
	ErrUnknownKernelProvider = errors.New("unknown kernel provider")
)

// NameResolutionError is returned when a provider name cannot be mapped to a
// GUID.
type NameResolutionError struct {
	Name string
	Err  error
}

func (e *NameResolutionError) Error() string {
	return fmt.Sprintf("resolve provider %q: %v", e.Name, e.Err)
}

func (e *NameResolutionError) Unwrap() error { return e.Err }

func (e *NameResolutionError) Is(target error) bool { return target == ErrNameResolutionFailed }
