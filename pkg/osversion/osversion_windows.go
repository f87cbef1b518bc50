//go:build windows

package osversion

import (
	"sync"
	"syscall"
	"unsafe"

	"golang.org/x/sys/windows"
)

var (
	v    Version
	once sync.Once

	modkernel32            = windows.NewLazySystemDLL("kernel32.dll")
	procVerifyVersionInfoW = modkernel32.NewProc("VerifyVersionInfoW")
)

// ERROR_OLD_WIN_VERSION, reported when the OS does not meet the requirement.
const errorOldWinVersion syscall.Errno = 1150

// Get returns the Windows operating system version.
func Get() Version {
	once.Do(func() {
		vi := windows.RtlGetVersion()

		v.Major = MajorVersion(vi.MajorVersion)
		v.Minor = MinorVersion(vi.MinorVersion)
		v.Build = BuildNumber(vi.BuildNumber)
	})
	return v
}

// Build returns the Windows build number.
func Build() BuildNumber {
	return Get().Build
}

// Info returns the full version block reported by RtlGetVersion, which is not
// subject to application manifest compatibility shims.
func Info() VersionInfo {
	vi := windows.RtlGetVersion()
	return VersionInfo{
		Major:            vi.MajorVersion,
		Minor:            vi.MinorVersion,
		Build:            vi.BuildNumber,
		PlatformID:       vi.PlatformId,
		ServicePackMajor: vi.ServicePackMajor,
		ServicePackMinor: vi.ServicePackMinor,
	}
}

// OSVERSIONINFOEXW
type osVersionInfoEx struct {
	osVersionInfoSize uint32
	majorVersion      uint32
	minorVersion      uint32
	buildNumber       uint32
	platformID        uint32
	csdVersion        [128]uint16
	servicePackMajor  uint16
	servicePackMinor  uint16
	suiteMask         uint16
	productType       byte
	reserved          byte
}

// SystemVerifier calls VerifyVersionInfoW.
//
// https://learn.microsoft.com/en-us/windows/win32/api/winbase/nf-winbase-verifyversioninfow
func SystemVerifier(want VersionInfo, types TypeMask, mask ConditionMask) (bool, error) {
	if err := procVerifyVersionInfoW.Find(); err != nil {
		return false, &VersionQueryError{Op: "VerifyVersionInfoW", Err: err}
	}

	vi := osVersionInfoEx{
		majorVersion:     want.Major,
		minorVersion:     want.Minor,
		buildNumber:      want.Build,
		platformID:       want.PlatformID,
		servicePackMajor: want.ServicePackMajor,
		servicePackMinor: want.ServicePackMinor,
	}
	vi.osVersionInfoSize = uint32(unsafe.Sizeof(vi))

	var (
		r1 uintptr
		e1 error
	)
	// The condition mask is a DWORDLONG; 32-bit callers pass it as two words.
	if unsafe.Sizeof(uintptr(0)) == 8 {
		r1, _, e1 = procVerifyVersionInfoW.Call(uintptr(unsafe.Pointer(&vi)), uintptr(types), uintptr(mask))
	} else {
		r1, _, e1 = procVerifyVersionInfoW.Call(uintptr(unsafe.Pointer(&vi)), uintptr(types), uintptr(uint32(mask)), uintptr(uint32(uint64(mask)>>32)))
	}
	if r1 != 0 {
		return true, nil
	}

	errno, ok := e1.(syscall.Errno)
	if ok && errno == errorOldWinVersion {
		return false, nil
	}
	qe := &VersionQueryError{Op: "VerifyVersionInfoW", Err: e1}
	if ok {
		qe.Code = uint32(errno)
	}
	return false, qe
}
