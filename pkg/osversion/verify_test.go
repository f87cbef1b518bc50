package osversion

import (
	"sync"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var winXPSP3 = VersionInfo{Major: 5, Minor: 1, Build: 2600, PlatformID: 2, ServicePackMajor: 3}

var win10 = VersionInfo{Major: 10, Minor: 0, Build: uint32(LTSC2022), PlatformID: 2}

func TestConditionMaskLayout(t *testing.T) {
	m := ConditionMask(0).
		Set(TypeMajorVersion, GreaterEqual).
		Set(TypeMinorVersion, GreaterEqual).
		Set(TypeServicePackMajor, GreaterEqual)

	// VerSetConditionMask(0, VER_MAJORVERSION|VER_MINORVERSION|VER_SERVICEPACKMAJOR, VER_GREATER_EQUAL)
	// applied per type, as done by IsWindowsVersionOrGreater.
	want := ConditionMask(0x3<<0 | 0x3<<3 | 0x3<<15)
	assert.Equal(t, want, m)
	assert.Equal(t, GreaterEqual, m.Condition(TypeMajorVersion))
	assert.Equal(t, GreaterEqual, m.Condition(TypeServicePackMajor))
	assert.Equal(t, Condition(0), m.Condition(TypeBuildNumber))

	m = m.Set(TypeMajorVersion, Less)
	assert.Equal(t, Less, m.Condition(TypeMajorVersion))
	assert.Equal(t, GreaterEqual, m.Condition(TypeMinorVersion))
}

func TestGateAtLeast(t *testing.T) {
	tt := []struct {
		actual       VersionInfo
		major, minor uint32
		spMajor      uint16
		expected     bool
	}{
		{winXPSP3, 5, 1, 0, true},
		{winXPSP3, 5, 1, 3, true},
		{winXPSP3, 5, 1, 4, false},
		{winXPSP3, 6, 2, 0, false},
		{win10, 5, 1, 0, true},
		{win10, 6, 2, 0, true},
		{win10, 6, 3, 0, true},
		{win10, 10, 0, 0, true},
		{win10, 10, 1, 0, false},
		{win10, 99, 0, 0, false},
	}

	for _, tc := range tt {
		g := NewGate(Emulate(tc.actual))
		ok, err := g.AtLeast(tc.major, tc.minor, tc.spMajor)
		require.NoError(t, err)
		if ok != tc.expected {
			t.Errorf("%s AtLeast(%d, %d, %d): expected %t, got %t", tc.actual, tc.major, tc.minor, tc.spMajor, tc.expected, ok)
		}
	}
}

func TestGateIsWin8OrGreater(t *testing.T) {
	ok, err := NewGate(Emulate(win10)).IsWin8OrGreater()
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = NewGate(Emulate(VersionInfo{Major: 6, Minor: 1, ServicePackMajor: 1})).IsWin8OrGreater()
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestGateBuildAtLeast(t *testing.T) {
	g := NewGate(Emulate(win10))

	ok, err := g.BuildAtLeast(RS5)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = g.BuildAtLeast(V22H2Win11)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestGateQueryFailure(t *testing.T) {
	cause := errors.New("access denied")
	g := NewGate(func(VersionInfo, TypeMask, ConditionMask) (bool, error) {
		return true, &VersionQueryError{Op: "VerifyVersionInfoW", Code: 5, Err: cause}
	})

	ok, err := g.AtLeast(5, 1, 0)
	require.Error(t, err)
	assert.False(t, ok, "a failed query must never report compatibility")
	assert.True(t, errors.Is(err, ErrVersionQueryFailed))
	assert.True(t, errors.Is(err, cause))

	var qe *VersionQueryError
	require.True(t, errors.As(err, &qe))
	assert.Equal(t, uint32(5), qe.Code)
	assert.Contains(t, err.Error(), "code 5")

	ok, err = g.IsWin8OrGreater()
	require.Error(t, err)
	assert.False(t, ok)
}

func TestEmulateBadArguments(t *testing.T) {
	verify := Emulate(win10)

	_, err := verify(VersionInfo{}, 0, 0)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrVersionQueryFailed))

	_, err = verify(VersionInfo{Major: 6}, TypeMajorVersion, ConditionMask(0).Set(TypeMinorVersion, Equal))
	require.Error(t, err)
}

func TestEmulateIndependentComponents(t *testing.T) {
	verify := Emulate(win10)

	ok, err := verify(VersionInfo{PlatformID: 2}, TypePlatformID, ConditionMask(0).Set(TypePlatformID, Equal))
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = verify(VersionInfo{Major: 10, Build: uint32(RS5)}, TypeMajorVersion|TypeBuildNumber,
		ConditionMask(0).Set(TypeMajorVersion, Equal).Set(TypeBuildNumber, Less))
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestGateConcurrentUse(t *testing.T) {
	g := NewGate(Emulate(win10))

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				ok, err := g.AtLeast(6, 2, 0)
				if err != nil || !ok {
					t.Errorf("AtLeast(6, 2, 0) = %t, %v", ok, err)
					return
				}
			}
		}()
	}
	wg.Wait()
}
