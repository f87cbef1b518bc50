package etw

import (
	"testing"

	"github.com/Microsoft/go-etwtrace/pkg/guid"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseProvider(t *testing.T) {
	want := guid.MustFromString(testGUID)

	tt := []struct {
		in    string
		level Level
		ids   []uint16
		any   uint64
		all   uint64
	}{
		{in: testGUID, level: LevelVerbose},
		{in: "{" + testGUID + "}:2", level: LevelError},
		{in: "Microsoft-Windows-Kernel-Process:0xff:12,13,14", level: 0xff, ids: []uint16{12, 13, 14}},
		{in: "Microsoft-Windows-Kernel-Process:::0x10", level: LevelVerbose, any: 0x10},
		{in: "Microsoft-Windows-Kernel-Process:4:1:0x10:0x30", level: LevelInfo, ids: []uint16{1}, any: 0x10, all: 0x30},
		{in: "microsoft-windows-kernel-process::: :", level: LevelVerbose},
	}

	for _, tc := range tt {
		t.Run(tc.in, func(t *testing.T) {
			p, err := ParseProvider(tc.in, testResolver)
			require.NoError(t, err)
			assert.Equal(t, want, p.GUID())
			assert.Equal(t, tc.level, p.Level())
			assert.Equal(t, tc.any, p.Any())
			assert.Equal(t, tc.all, p.All())
			if tc.ids == nil {
				assert.Empty(t, p.EventIDs())
			} else {
				assert.Equal(t, tc.ids, p.EventIDs())
			}
		})
	}
}

func TestParseProviderErrors(t *testing.T) {
	tt := []struct {
		in     string
		target error
	}{
		{in: "", target: ErrMissingIdentity},
		{in: ":4", target: ErrMissingIdentity},
		{in: "Unknown-Provider:4", target: ErrNameResolutionFailed},
		{in: testGUID + ":256"},
		{in: testGUID + ":4:1,x"},
		{in: testGUID + ":4:70000"},
		{in: testGUID + ":4::nope"},
		{in: testGUID + ":4:::-1"},
		{in: testGUID + ":4:1:2:3:4"},
	}

	for _, tc := range tt {
		t.Run(tc.in, func(t *testing.T) {
			p, err := ParseProvider(tc.in, testResolver, WithLogger(quietLogger()))
			require.Error(t, err)
			assert.Nil(t, p)
			if tc.target != nil {
				assert.True(t, errors.Is(err, tc.target), "got %v", err)
			}
		})
	}
}

// A mistyped GUID must not fall through to name resolution, where a
// TraceLogging resolver would hash it into an unrelated GUID.
func TestParseProviderMalformedGUID(t *testing.T) {
	r := ChainResolver(testResolver, TraceLoggingResolver())

	for _, in := range []string{
		"{22fb2cd6-0e7b-422b-a0c7-2fad1fd0e71}",
		"22fb2cd6-0e7b-422b-a0c7-2fad1fd0e71",
		"22fb2cd6-0e7b-422g-a0c7-2fad1fd0e716:4",
		"{22fb2cd6-0e7b-422b-a0c7-2fad1fd0e716:4",
	} {
		t.Run(in, func(t *testing.T) {
			p, err := ParseProvider(in, r)
			require.Error(t, err)
			assert.Nil(t, p)
			assert.True(t, errors.Is(err, guid.ErrMalformedGUID), "got %v", err)
		})
	}

	p, err := ParseProvider("MyCompany.MyComponent", r)
	require.NoError(t, err)
	assert.Equal(t, guid.MustFromString("ce5fa4ea-ab00-5402-8b76-9f76ac858fb5"), p.GUID())
}
