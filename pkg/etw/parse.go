package etw

import (
	"strconv"
	"strings"
	"unicode"

	"github.com/Microsoft/go-etwtrace/pkg/guid"
	"github.com/pkg/errors"
)

// ParseProvider builds a Provider from a positional description:
//
//	(Name|GUID)[:Level[:EventIDs[:MatchAnyKeyword[:MatchAllKeyword]]]]
//
// An empty field keeps the default, so "Microsoft-Windows-Kernel-File:::0x10"
// only sets MatchAnyKeyword. EventIDs is a comma separated list. Numbers may
// use a 0x prefix. Names are resolved with r, or SystemResolver when r is nil.
// An identifier shaped like a GUID is never treated as a name, so a mistyped
// GUID fails with guid.ErrMalformedGUID.
// The returned Provider has already been built.
func ParseProvider(s string, r Resolver, opts ...RegistryOpt) (*Provider, error) {
	parts := strings.Split(s, ":")
	if len(parts) > 5 {
		return nil, errors.Errorf("provider %q: too many fields", s)
	}

	ident := strings.TrimSpace(parts[0])
	if ident == "" {
		return nil, errors.Wrapf(ErrMissingIdentity, "provider %q", s)
	}

	p := NewProvider(opts...)
	if looksLikeGUID(ident) {
		g, err := guid.FromString(ident)
		if err != nil {
			return nil, errors.Wrapf(err, "provider %q", s)
		}
		p.WithGUID(g)
	} else {
		p.WithName(ident, r)
	}

	for i, chunk := range parts[1:] {
		chunk = strings.TrimSpace(chunk)
		if chunk == "" {
			continue
		}
		switch i + 1 {
		case 1:
			u, err := strconv.ParseUint(chunk, 0, 8)
			if err != nil {
				return nil, errors.Wrapf(err, "provider %q: level", s)
			}
			p.WithLevel(Level(u))
		case 2:
			fields := strings.Split(chunk, ",")
			ids := make([]uint16, 0, len(fields))
			for _, f := range fields {
				u, err := strconv.ParseUint(strings.TrimSpace(f), 0, 16)
				if err != nil {
					return nil, errors.Wrapf(err, "provider %q: event id", s)
				}
				ids = append(ids, uint16(u))
			}
			p.WithEventIDs(ids...)
		case 3:
			u, err := strconv.ParseUint(chunk, 0, 64)
			if err != nil {
				return nil, errors.Wrapf(err, "provider %q: match any keyword", s)
			}
			p.WithAnyKeyword(u)
		case 4:
			u, err := strconv.ParseUint(chunk, 0, 64)
			if err != nil {
				return nil, errors.Wrapf(err, "provider %q: match all keyword", s)
			}
			p.WithAllKeyword(u)
		}
	}

	return p.Build()
}

// looksLikeGUID reports whether s is braced, or has five dash separated
// groups that are either all hex or sized 8-4-4-4-12.
func looksLikeGUID(s string) bool {
	if strings.HasPrefix(s, "{") || strings.HasSuffix(s, "}") {
		return true
	}
	groups := strings.Split(s, "-")
	if len(groups) != 5 {
		return false
	}
	sized, hex := true, true
	for i, g := range groups {
		if len(g) != []int{8, 4, 4, 4, 12}[i] {
			sized = false
		}
		if g == "" {
			hex = false
		}
		for _, c := range g {
			if !unicode.Is(unicode.ASCII_Hex_Digit, c) {
				hex = false
			}
		}
	}
	return sized || hex
}
