package osversion

import (
	"fmt"

	"github.com/pkg/errors"
)

// Condition is a comparison operator applied to one component of a
// VersionInfo. Values match the VER_* constants of winnt.h.
type Condition uint8

const (
	Equal Condition = iota + 1
	Greater
	GreaterEqual
	Less
	LessEqual
)

// TypeMask selects the VersionInfo components a verification looks at.
// Values match the VER_* type bits of winnt.h.
type TypeMask uint32

const (
	TypeMinorVersion     TypeMask = 0x0000001
	TypeMajorVersion     TypeMask = 0x0000002
	TypeBuildNumber      TypeMask = 0x0000004
	TypePlatformID       TypeMask = 0x0000008
	TypeServicePackMinor TypeMask = 0x0000010
	TypeServicePackMajor TypeMask = 0x0000020
)

// errorBadArguments is ERROR_BAD_ARGUMENTS, which VerifyVersionInfo returns for
// an empty type mask or a type without a condition.
const errorBadArguments = 160

// ConditionMask holds one Condition per TypeMask bit, three bits each, using
// the same layout as the value built by VerSetConditionMask.
type ConditionMask uint64

// Set returns m with the condition for t replaced by c. If t has more than
// one bit set, only the highest one is used.
func (m ConditionMask) Set(t TypeMask, c Condition) ConditionMask {
	for i := 7; i >= 0; i-- {
		if t&(1<<uint(i)) == 0 {
			continue
		}
		shift := uint(i) * 3
		m &^= 0x7 << shift
		m |= ConditionMask(c&0x7) << shift
		break
	}
	return m
}

// Condition returns the condition stored for the single type bit t.
func (m ConditionMask) Condition(t TypeMask) Condition {
	for i := 7; i >= 0; i-- {
		if t&(1<<uint(i)) != 0 {
			return Condition((m >> (uint(i) * 3)) & 0x7)
		}
	}
	return 0
}

// VersionInfo is the version block passed to, and reported by, the operating
// system. Only the fields selected by a TypeMask are compared.
type VersionInfo struct {
	Major            uint32
	Minor            uint32
	Build            uint32
	PlatformID       uint32
	ServicePackMajor uint16
	ServicePackMinor uint16
}

func (v VersionInfo) String() string {
	return fmt.Sprintf("%d.%d.%d SP%d.%d", v.Major, v.Minor, v.Build, v.ServicePackMajor, v.ServicePackMinor)
}

// VerifyFunc compares the running OS against want, component by component, as
// selected by types and mask. It returns false with a nil error when the OS
// does not satisfy the requirement, and a *VersionQueryError when the
// comparison itself could not be performed.
type VerifyFunc func(want VersionInfo, types TypeMask, mask ConditionMask) (bool, error)

// ErrVersionQueryFailed is matched by every *VersionQueryError.
var ErrVersionQueryFailed = errors.New("OS version query failed")

// VersionQueryError is returned when the OS version API reports an error.
type VersionQueryError struct {
	Op   string
	Code uint32 // OS error code, zero when none was reported
	Err  error
}

func (e *VersionQueryError) Error() string {
	s := e.Op + ": " + ErrVersionQueryFailed.Error()
	if e.Code != 0 {
		s += fmt.Sprintf(" (code %d)", e.Code)
	}
	if e.Err != nil {
		s += ": " + e.Err.Error()
	}
	return s
}

func (e *VersionQueryError) Unwrap() error { return e.Err }

// Is makes errors.Is(err, ErrVersionQueryFailed) hold for any *VersionQueryError.
func (e *VersionQueryError) Is(target error) bool { return target == ErrVersionQueryFailed }

// Emulate returns a VerifyFunc that evaluates requests against actual instead
// of asking the OS. Major, minor and service pack numbers are compared as one
// ordered tuple using the condition of the most significant selected
// component, which is how VerifyVersionInfo treats them.
func Emulate(actual VersionInfo) VerifyFunc {
	return func(want VersionInfo, types TypeMask, mask ConditionMask) (bool, error) {
		if types == 0 {
			return false, &VersionQueryError{Op: "VerifyVersionInfo", Code: errorBadArguments, Err: errors.New("empty type mask")}
		}

		hierarchy := []struct {
			t            TypeMask
			have, wanted uint32
		}{
			{TypeMajorVersion, actual.Major, want.Major},
			{TypeMinorVersion, actual.Minor, want.Minor},
			{TypeServicePackMajor, uint32(actual.ServicePackMajor), uint32(want.ServicePackMajor)},
			{TypeServicePackMinor, uint32(actual.ServicePackMinor), uint32(want.ServicePackMinor)},
		}
		var (
			cond  Condition
			order int
		)
		for _, h := range hierarchy {
			if types&h.t == 0 {
				continue
			}
			c := mask.Condition(h.t)
			if c == 0 {
				return false, &VersionQueryError{Op: "VerifyVersionInfo", Code: errorBadArguments, Err: errors.Errorf("no condition for type 0x%x", uint32(h.t))}
			}
			if cond == 0 {
				cond = c
			}
			if order == 0 {
				order = compare(h.have, h.wanted)
			}
		}
		if cond != 0 && !cond.holds(order) {
			return false, nil
		}

		for _, f := range []struct {
			t            TypeMask
			have, wanted uint32
		}{
			{TypeBuildNumber, actual.Build, want.Build},
			{TypePlatformID, actual.PlatformID, want.PlatformID},
		} {
			if types&f.t == 0 {
				continue
			}
			c := mask.Condition(f.t)
			if c == 0 {
				return false, &VersionQueryError{Op: "VerifyVersionInfo", Code: errorBadArguments, Err: errors.Errorf("no condition for type 0x%x", uint32(f.t))}
			}
			if !c.holds(compare(f.have, f.wanted)) {
				return false, nil
			}
		}
		return true, nil
	}
}

func compare(a, b uint32) int {
	if a > b {
		return 1
	} else if a < b {
		return -1
	}
	return 0
}

func (c Condition) holds(order int) bool {
	switch c {
	case Equal:
		return order == 0
	case Greater:
		return order > 0
	case GreaterEqual:
		return order >= 0
	case Less:
		return order < 0
	case LessEqual:
		return order <= 0
	}
	return false
}

// Gate answers minimum-version questions through a single VerifyFunc. A Gate
// holds no mutable state and is safe for concurrent use.
type Gate struct {
	verify VerifyFunc
}

// NewGate returns a Gate backed by verify, or by SystemVerifier when verify is
// nil.
func NewGate(verify VerifyFunc) *Gate {
	if verify == nil {
		verify = SystemVerifier
	}
	return &Gate{verify: verify}
}

var systemGate = NewGate(nil)

// AtLeast reports whether the OS version is at least major.minor with at least
// service pack spMajor.
func (g *Gate) AtLeast(major, minor uint32, spMajor uint16) (bool, error) {
	want := VersionInfo{Major: major, Minor: minor, ServicePackMajor: spMajor}
	mask := ConditionMask(0).
		Set(TypeMajorVersion, GreaterEqual).
		Set(TypeMinorVersion, GreaterEqual).
		Set(TypeServicePackMajor, GreaterEqual)

	ok, err := g.verify(want, TypeMajorVersion|TypeMinorVersion|TypeServicePackMajor, mask)
	if err != nil {
		return false, err
	}
	return ok, nil
}

// BuildAtLeast reports whether the OS build number is at least b.
func (g *Gate) BuildAtLeast(b BuildNumber) (bool, error) {
	ok, err := g.verify(VersionInfo{Build: uint32(b)}, TypeBuildNumber, ConditionMask(0).Set(TypeBuildNumber, GreaterEqual))
	if err != nil {
		return false, err
	}
	return ok, nil
}

// IsWin8OrGreater reports whether the OS is Windows 8 / Server 2012 or newer.
func (g *Gate) IsWin8OrGreater() (bool, error) {
	return g.AtLeast(6, 2, 0)
}

// AtLeast checks the running OS with SystemVerifier. See Gate.AtLeast.
func AtLeast(major, minor uint32, spMajor uint16) (bool, error) {
	return systemGate.AtLeast(major, minor, spMajor)
}

// IsWin8OrGreater checks the running OS with SystemVerifier.
func IsWin8OrGreater() (bool, error) {
	return systemGate.IsWin8OrGreater()
}
