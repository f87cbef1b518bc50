//go:build windows

package osversion

import (
	"testing"
)

// Let's assume this test won't be run on a version of Windows older than XP.
func TestSystemVerifier(t *testing.T) {
	ok, err := AtLeast(5, 1, 0)
	if err != nil {
		t.Fatalf("VerifyVersionInfoW: %v", err)
	}
	if !ok {
		t.Fatal("expected Windows XP or newer")
	}

	ok, err = AtLeast(99, 0, 0)
	if err != nil {
		t.Fatalf("VerifyVersionInfoW: %v", err)
	}
	if ok {
		t.Fatal("unexpected support for Windows 99")
	}
}

func TestInfoMatchesGet(t *testing.T) {
	v := Get()
	vi := Info()
	if uint32(v.Major) != vi.Major || uint32(v.Minor) != vi.Minor || uint32(v.Build) != vi.Build {
		t.Fatalf("Get() = %s, Info() = %s", v, vi)
	}

	ok, err := NewGate(Emulate(vi)).AtLeast(vi.Major, vi.Minor, vi.ServicePackMajor)
	if err != nil || !ok {
		t.Fatalf("emulated gate disagrees with its own version: %t, %v", ok, err)
	}
}
