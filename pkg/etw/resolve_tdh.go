package etw

import (
	"encoding/binary"
	"strings"
	"sync"
	"unicode/utf16"

	"github.com/Microsoft/go-etwtrace/pkg/guid"
	"github.com/pkg/errors"
)

// PROVIDER_ENUMERATION_INFO layout: a count, a reserved field, then an array
// of TRACE_PROVIDER_INFO {GUID, SchemaSource, ProviderNameOffset}. Name
// offsets are relative to the start of the buffer.
const (
	enumHeaderSize = 8
	enumEntrySize  = 24
)

// parseProviderEnumeration decodes a PROVIDER_ENUMERATION_INFO buffer into a
// map keyed by lower-cased provider name.
func parseProviderEnumeration(buf []byte) (map[string]guid.GUID, error) {
	if len(buf) < enumHeaderSize {
		return nil, errors.Errorf("provider enumeration: short buffer (%d bytes)", len(buf))
	}
	n := binary.LittleEndian.Uint32(buf)
	if uint64(enumHeaderSize)+uint64(n)*enumEntrySize > uint64(len(buf)) {
		return nil, errors.Errorf("provider enumeration: %d entries overflow %d byte buffer", n, len(buf))
	}

	m := make(map[string]guid.GUID, n)
	for i := uint32(0); i < n; i++ {
		e := buf[enumHeaderSize+i*enumEntrySize:]
		var a [16]byte
		copy(a[:], e[:16])
		off := binary.LittleEndian.Uint32(e[20:24])
		name, err := utf16At(buf, off)
		if err != nil {
			return nil, errors.Wrapf(err, "provider enumeration: entry %d", i)
		}
		m[strings.ToLower(name)] = guid.FromWindowsArray(a)
	}
	return m, nil
}

// utf16At reads the NUL terminated UTF-16LE string at off.
func utf16At(buf []byte, off uint32) (string, error) {
	if uint64(off) >= uint64(len(buf)) {
		return "", errors.Errorf("name offset %d out of range", off)
	}
	var s []uint16
	for i := int(off); ; i += 2 {
		if i+1 >= len(buf) {
			return "", errors.Errorf("unterminated name at offset %d", off)
		}
		c := binary.LittleEndian.Uint16(buf[i:])
		if c == 0 {
			break
		}
		s = append(s, c)
	}
	return string(utf16.Decode(s)), nil
}

// tdhResolver looks names up in the providers registered on the machine. The
// table is loaded on first use; a failed load is retried on the next lookup.
type tdhResolver struct {
	mu        sync.Mutex
	providers map[string]guid.GUID
	enumerate func() ([]byte, error)
}

func (r *tdhResolver) ResolveProviderGUID(name string) (guid.GUID, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.providers == nil {
		buf, err := r.enumerate()
		if err != nil {
			return guid.GUID{}, &NameResolutionError{Name: name, Err: err}
		}
		m, err := parseProviderEnumeration(buf)
		if err != nil {
			return guid.GUID{}, &NameResolutionError{Name: name, Err: err}
		}
		r.providers = m
	}

	g, ok := r.providers[strings.ToLower(name)]
	if !ok {
		return guid.GUID{}, &NameResolutionError{Name: name, Err: errors.New("no registered provider with that name")}
	}
	return g, nil
}

var systemResolver = &tdhResolver{enumerate: enumerateProviders}

// SystemResolver returns the Resolver backed by TdhEnumerateProviders. Only
// providers that registered a manifest or MOF class are known to it.
func SystemResolver() Resolver {
	return systemResolver
}
