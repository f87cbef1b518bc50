package etw

import (
	"encoding/json"
	"fmt"

	"github.com/Microsoft/go-etwtrace/pkg/etw/kernel"
	"github.com/Microsoft/go-etwtrace/pkg/guid"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// Provider describes one ETW provider a trace session should enable, and owns
// the Registry the session delivers that provider's records to.
//
// Configuration methods return the Provider so calls can be chained, and are
// not safe for concurrent use; AddConsumer is the exception and may be called
// at any time, including after the Provider is attached to a session.
type Provider struct {
	name  string
	id    guid.GUID
	hasID bool

	// Filter values forwarded verbatim to EnableTraceEx2.
	any   uint64
	all   uint64
	level Level

	traceFlags  uint32
	kernelFlags kernel.Flag
	eventIDs    []uint16

	registry *Registry

	// Pending identity error, reported by Build.
	err error

	// Set by a successful Build. ignored holds the last rejected change.
	built   bool
	ignored error
}

// NewProvider returns a Provider with no GUID, LevelVerbose and empty keyword
// masks. opts configure its Registry.
func NewProvider(opts ...RegistryOpt) *Provider {
	return &Provider{
		level:    LevelVerbose,
		registry: NewRegistry(opts...),
	}
}

// FromKernelEntry returns a Provider for a kernel logger subsystem, with the
// entry's GUID and enable flag.
func FromKernelEntry(e kernel.Entry, opts ...RegistryOpt) *Provider {
	p := NewProvider(opts...)
	p.name = e.Name
	p.kernelFlags = e.Flag
	return p.WithGUID(e.GUID)
}

// NewKernelProvider looks name up in the kernel catalog and returns
// FromKernelEntry for it.
func NewKernelProvider(name string, opts ...RegistryOpt) (*Provider, error) {
	e, ok := kernel.Lookup(name)
	if !ok {
		return nil, errors.Wrapf(ErrUnknownKernelProvider, "%q", name)
	}
	return FromKernelEntry(e, opts...), nil
}

// WithGUID binds the provider to id.
func (p *Provider) WithGUID(id guid.GUID) *Provider {
	if p.finalized("WithGUID") {
		return p
	}
	p.id = id
	p.hasID = true
	p.err = nil
	p.registry.setOwner(id)
	return p
}

// WithGUIDString parses s, with or without curly braces, and binds the provider
// to it. A malformed s is a programming error and panics; use guid.FromString
// and WithGUID for untrusted input.
func (p *Provider) WithGUIDString(s string) *Provider {
	return p.WithGUID(guid.MustFromString(s))
}

// WithName resolves name to a GUID using r, or SystemResolver when r is nil.
// Lookups can be slow. When the name cannot be resolved the provider is left
// without a GUID and Build returns the resolution error.
func (p *Provider) WithName(name string, r Resolver) *Provider {
	if p.finalized("WithName") {
		return p
	}
	if r == nil {
		r = SystemResolver()
	}

	id, err := r.ResolveProviderGUID(name)
	if err != nil {
		var nre *NameResolutionError
		if !errors.As(err, &nre) {
			err = &NameResolutionError{Name: name, Err: err}
		}
		p.registry.log.WithFields(logrus.Fields{
			"name":          name,
			logrus.ErrorKey: err,
		}).Debug("etw: provider name not resolved")

		p.name = name
		p.id = guid.GUID{}
		p.hasID = false
		p.err = err
		p.registry.setOwner(guid.GUID{})
		return p
	}

	p.name = name
	return p.WithGUID(id)
}

// WithAnyKeyword sets MatchAnyKeyword.
func (p *Provider) WithAnyKeyword(mask uint64) *Provider {
	if p.finalized("WithAnyKeyword") {
		return p
	}
	p.any = mask
	return p
}

// WithAllKeyword sets MatchAllKeyword.
func (p *Provider) WithAllKeyword(mask uint64) *Provider {
	if p.finalized("WithAllKeyword") {
		return p
	}
	p.all = mask
	return p
}

// WithLevel sets the enable level.
func (p *Provider) WithLevel(level Level) *Provider {
	if p.finalized("WithLevel") {
		return p
	}
	p.level = level
	return p
}

// WithTraceFlags sets the trace flags passed to the session.
//
// https://learn.microsoft.com/en-us/windows-hardware/drivers/devtest/trace-flags
func (p *Provider) WithTraceFlags(flags uint32) *Provider {
	if p.finalized("WithTraceFlags") {
		return p
	}
	p.traceFlags = flags
	return p
}

// WithKernelFlags replaces the kernel enable flags, e.g. to combine several
// subsystems that share this provider's GUID.
func (p *Provider) WithKernelFlags(flags kernel.Flag) *Provider {
	if p.finalized("WithKernelFlags") {
		return p
	}
	p.kernelFlags = flags
	return p
}

// WithEventIDs restricts the provider to the given event IDs. The list is
// forwarded to the session as an event ID filter and used by
// AddFilteredConsumer.
func (p *Provider) WithEventIDs(ids ...uint16) *Provider {
	if p.finalized("WithEventIDs") {
		return p
	}
	p.eventIDs = append([]uint16(nil), ids...)
	return p
}

// AddConsumer appends c to the provider's Registry.
func (p *Provider) AddConsumer(c Consumer) *Provider {
	if err := p.registry.Add(c); err != nil {
		p.registry.log.WithFields(logrus.Fields{
			"provider":      p.id.String(),
			logrus.ErrorKey: err,
		}).Warn("etw: consumer not added")
	}
	return p
}

// AddConsumerFunc appends f to the provider's Registry.
func (p *Provider) AddConsumerFunc(f func(r *EventRecord, l SchemaLocator)) *Provider {
	if f == nil {
		return p.AddConsumer(nil)
	}
	return p.AddConsumer(ConsumerFunc(f))
}

// AddFilteredConsumer appends c wrapped so it only sees the event IDs set by
// WithEventIDs.
func (p *Provider) AddFilteredConsumer(c Consumer) *Provider {
	if c == nil {
		return p.AddConsumer(nil)
	}
	return p.AddConsumer(FilterEventIDs(c, p.eventIDs...))
}

// finalized reports whether p has been built, in which case the change named
// by op is dropped, logged and recorded for Err.
func (p *Provider) finalized(op string) bool {
	if !p.built {
		return false
	}
	p.ignored = errors.Wrapf(ErrProviderFinalized, "%s ignored", op)
	p.registry.log.WithFields(logrus.Fields{
		"provider":      p.id.String(),
		logrus.ErrorKey: p.ignored,
	}).Warn("etw: provider configuration change ignored")
	return true
}

// Build validates the configuration. It fails with the pending name
// resolution error, if any, or with ErrMissingIdentity when no GUID was bound.
// Nothing else is checked: zero keyword masks are valid.
//
// Once Build succeeds the configuration is fixed. Later With* calls are
// ignored and reported through Err; consumers can still be added.
func (p *Provider) Build() (*Provider, error) {
	if p.built {
		return p, nil
	}
	if p.err != nil {
		return nil, p.err
	}
	if !p.hasID {
		return nil, ErrMissingIdentity
	}
	p.built = true
	return p, nil
}

// Err returns the last configuration change rejected because the provider had
// already been built, or nil.
func (p *Provider) Err() error { return p.ignored }

// GUID returns the provider GUID, which is empty when HasGUID is false.
func (p *Provider) GUID() guid.GUID { return p.id }

// HasGUID reports whether a GUID has been bound.
func (p *Provider) HasGUID() bool { return p.hasID }

// Name returns the kernel entry or resolved name, if any.
func (p *Provider) Name() string { return p.name }

// Any returns the MatchAnyKeyword mask.
func (p *Provider) Any() uint64 { return p.any }

// All returns the MatchAllKeyword mask.
func (p *Provider) All() uint64 { return p.all }

// Level returns the enable level.
func (p *Provider) Level() Level { return p.level }

// TraceFlags returns the session trace flags.
func (p *Provider) TraceFlags() uint32 { return p.traceFlags }

// KernelFlags returns the kernel logger enable flags.
func (p *Provider) KernelFlags() kernel.Flag { return p.kernelFlags }

// EventIDs returns a copy of the event ID filter.
func (p *Provider) EventIDs() []uint16 { return append([]uint16(nil), p.eventIDs...) }

// Registry returns the live consumer list the session delivers records to.
func (p *Provider) Registry() *Registry { return p.registry }

// Config is a serializable snapshot of a Provider's configuration.
type Config struct {
	Name            string      `json:"name,omitempty"`
	GUID            guid.GUID   `json:"guid"`
	Level           Level       `json:"level"`
	MatchAnyKeyword uint64      `json:"matchAnyKeyword"`
	MatchAllKeyword uint64      `json:"matchAllKeyword"`
	TraceFlags      uint32      `json:"traceFlags,omitempty"`
	EnableFlags     kernel.Flag `json:"enableFlags,omitempty"`
	EventIDs        []uint16    `json:"eventIds,omitempty"`
	Consumers       int         `json:"consumers"`
}

// Config returns the current configuration.
func (p *Provider) Config() Config {
	return Config{
		Name:            p.name,
		GUID:            p.id,
		Level:           p.level,
		MatchAnyKeyword: p.any,
		MatchAllKeyword: p.all,
		TraceFlags:      p.traceFlags,
		EnableFlags:     p.kernelFlags,
		EventIDs:        p.EventIDs(),
		Consumers:       p.registry.Len(),
	}
}

var _ json.Marshaler = (*Provider)(nil)

// MarshalJSON encodes Config.
func (p *Provider) MarshalJSON() ([]byte, error) {
	return json.Marshal(p.Config())
}

func (p *Provider) String() string {
	s := fmt.Sprintf("%s level=%s any=%#x all=%#x", p.id.Braced(), p.level, p.any, p.all)
	if p.name != "" {
		s = p.name + " " + s
	}
	if p.kernelFlags != 0 {
		s += " flags=" + p.kernelFlags.String()
	}
	return s
}
