//go:build windows

package etw

import (
	"unsafe"

	"golang.org/x/sys/windows"
)

var (
	modtdh                    = windows.NewLazySystemDLL("tdh.dll")
	procTdhEnumerateProviders = modtdh.NewProc("TdhEnumerateProviders")
)

func enumerateProviders() ([]byte, error) {
	if err := procTdhEnumerateProviders.Find(); err != nil {
		return nil, err
	}

	size := uint32(4096)
	for {
		buf := make([]byte, size)
		r0, _, _ := procTdhEnumerateProviders.Call(
			uintptr(unsafe.Pointer(&buf[0])),
			uintptr(unsafe.Pointer(&size)))
		switch windows.Errno(r0) {
		case windows.ERROR_SUCCESS:
			return buf[:size], nil
		case windows.ERROR_INSUFFICIENT_BUFFER:
			continue
		default:
			return nil, windows.Errno(r0)
		}
	}
}
