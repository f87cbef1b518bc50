package etw

import (
	"bytes"
	"crypto/sha1"
	"encoding/binary"
	"strings"
	"unicode/utf16"

	"github.com/Microsoft/go-etwtrace/pkg/guid"
	"github.com/pkg/errors"
)

// Resolver maps a provider name to its GUID.
type Resolver interface {
	ResolveProviderGUID(name string) (guid.GUID, error)
}

// ResolverFunc adapts a function to a Resolver.
type ResolverFunc func(name string) (guid.GUID, error)

func (f ResolverFunc) ResolveProviderGUID(name string) (guid.GUID, error) {
	return f(name)
}

// MapResolver resolves names from a fixed table. Lookups are case-insensitive.
type MapResolver map[string]guid.GUID

func (m MapResolver) ResolveProviderGUID(name string) (guid.GUID, error) {
	if g, ok := m[name]; ok {
		return g, nil
	}
	for k, g := range m {
		if strings.EqualFold(k, name) {
			return g, nil
		}
	}
	return guid.GUID{}, &NameResolutionError{Name: name, Err: errors.New("not found")}
}

// ChainResolver tries each resolver in turn and returns the first GUID found.
// When all fail, the last error is returned.
func ChainResolver(rs ...Resolver) Resolver {
	return ResolverFunc(func(name string) (guid.GUID, error) {
		err := error(&NameResolutionError{Name: name, Err: errors.New("no resolver")})
		for _, r := range rs {
			g, rerr := r.ResolveProviderGUID(name)
			if rerr == nil {
				return g, nil
			}
			err = rerr
		}
		return guid.GUID{}, err
	})
}

// TraceLoggingResolver derives the GUID a TraceLogging or EventSource provider
// registers under from its name. Since the GUID is computed rather than looked
// up, any non-empty name resolves; put it last in a ChainResolver.
func TraceLoggingResolver() Resolver {
	return ResolverFunc(func(name string) (guid.GUID, error) {
		if name == "" {
			return guid.GUID{}, &NameResolutionError{Name: name, Err: errors.New("empty name")}
		}
		return providerIDFromName(name), nil
	})
}

// providerIDFromName uses the same algorithm as .NET's EventSource class, which
// is based on RFC 4122. More information on the algorithm can be found here:
// https://blogs.msdn.microsoft.com/dcook/2015/09/08/etw-provider-names-and-guids/
// The algorithm is roughly:
// Hash = Sha1(namespace + arg.ToUpper().ToUtf16be())
// Guid = Hash[0..15], with Hash[7] tweaked according to RFC 4122
func providerIDFromName(name string) guid.GUID {
	namespace := []byte{0x48, 0x2C, 0x2D, 0xB2, 0xC3, 0x90, 0x47, 0xC8, 0x87, 0xF8, 0x1A, 0x15, 0xBF, 0xC1, 0x30, 0xFB}
	buffer := &bytes.Buffer{}
	buffer.Write(namespace)
	_ = binary.Write(buffer, binary.BigEndian, utf16.Encode([]rune(strings.ToUpper(name))))

	sum := sha1.Sum(buffer.Bytes())
	sum[7] = (sum[7] & 0xf) | 0x50

	var b [16]byte
	copy(b[:], sum[:16])
	return guid.FromWindowsArray(b)
}
