//go:build !windows

package osversion

import (
	"runtime"

	"github.com/pkg/errors"
)

// SystemVerifier always fails outside Windows; use Emulate to evaluate
// requirements against a known version block.
func SystemVerifier(want VersionInfo, types TypeMask, mask ConditionMask) (bool, error) {
	return false, &VersionQueryError{
		Op:  "VerifyVersionInfoW",
		Err: errors.Errorf("not available on %s", runtime.GOOS),
	}
}
