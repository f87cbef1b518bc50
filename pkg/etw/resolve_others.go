//go:build !windows

package etw

import (
	"runtime"

	"github.com/pkg/errors"
)

func enumerateProviders() ([]byte, error) {
	return nil, errors.Errorf("provider enumeration is not available on %s", runtime.GOOS)
}
