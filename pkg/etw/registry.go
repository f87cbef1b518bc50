package etw

import (
	"runtime/debug"
	"sync"

	"github.com/Microsoft/go-etwtrace/pkg/guid"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// Failure describes a consumer that panicked while handling a record.
type Failure struct {
	Provider guid.GUID
	Record   *EventRecord
	Index    int         // position of the consumer in registration order
	Value    interface{} // nil for panic(nil)
	Stack    []byte
}

// FailureReporter is told about every consumer panic recovered by Deliver.
type FailureReporter func(f *Failure)

// RegistryOpt configures a Registry.
type RegistryOpt func(*Registry)

// WithFailureReporter replaces the default reporter, which logs the failure.
func WithFailureReporter(report FailureReporter) RegistryOpt {
	return func(r *Registry) {
		r.report = report
	}
}

// WithLogger sets the logger used for failures and diagnostics.
func WithLogger(log *logrus.Entry) RegistryOpt {
	return func(r *Registry) {
		r.log = log
	}
}

// Registry owns the ordered consumer list of a provider and delivers records
// to it. Add and Deliver may be called concurrently.
type Registry struct {
	mu        sync.RWMutex
	consumers []Consumer
	closed    bool
	owner     guid.GUID

	report FailureReporter
	log    *logrus.Entry
}

// NewRegistry returns an empty, open Registry.
func NewRegistry(opts ...RegistryOpt) *Registry {
	r := &Registry{}
	for _, opt := range opts {
		opt(r)
	}
	if r.log == nil {
		r.log = logrus.NewEntry(logrus.StandardLogger())
	}
	if r.report == nil {
		r.report = r.logFailure
	}
	return r
}

// Add appends c. It returns ErrRegistryClosed once Close has been called.
func (r *Registry) Add(c Consumer) error {
	if c == nil {
		return errors.New("nil consumer")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return ErrRegistryClosed
	}
	r.consumers = append(r.consumers, c)
	return nil
}

// Len returns the number of registered consumers.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.consumers)
}

// snapshot returns the consumers registered so far. The capacity is clipped so
// the caller can never observe or overwrite later appends.
func (r *Registry) snapshot() []Consumer {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if r.closed {
		return nil
	}
	n := len(r.consumers)
	return r.consumers[:n:n]
}

// Deliver passes rec and l to every consumer registered before the call, one
// after another in registration order. A consumer that panics is reported and
// skipped; the remaining consumers still receive rec. Deliver on a closed
// Registry does nothing.
//
// Deliveries of different records may run concurrently.
func (r *Registry) Deliver(rec *EventRecord, l SchemaLocator) {
	for i, c := range r.snapshot() {
		r.invoke(i, c, rec, l)
	}
}

func (r *Registry) invoke(i int, c Consumer, rec *EventRecord, l SchemaLocator) {
	normal := false
	defer func() {
		// recover returns nil for panic(nil), so completion is tracked
		// separately.
		v := recover()
		if normal {
			return
		}
		r.fail(&Failure{
			Provider: r.ownerGUID(),
			Record:   rec,
			Index:    i,
			Value:    v,
			Stack:    debug.Stack(),
		})
	}()
	c.OnEvent(rec, l)
	normal = true
}

// fail runs the reporter, which must not take the delivering goroutine down
// with it.
func (r *Registry) fail(f *Failure) {
	defer func() {
		if v := recover(); v != nil {
			r.log.WithField("panic", v).Error("etw: failure reporter panicked")
		}
	}()
	r.report(f)
}

func (r *Registry) logFailure(f *Failure) {
	entry := r.log.WithFields(logrus.Fields{
		"provider": f.Provider.String(),
		"consumer": f.Index,
		"panic":    f.Value,
	})
	if f.Record != nil {
		entry = entry.WithField("eventID", f.Record.Header.Descriptor.ID)
	}
	entry.WithField("stack", string(f.Stack)).Error("etw: consumer panicked")
}

func (r *Registry) setOwner(g guid.GUID) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.owner = g
}

func (r *Registry) ownerGUID() guid.GUID {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.owner
}

// Close drops every consumer. Later Add calls fail with ErrRegistryClosed and
// later Deliver calls do nothing. Deliveries already past their snapshot
// finish normally.
func (r *Registry) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.closed = true
	r.consumers = nil
	return nil
}

// Closed reports whether Close has been called.
func (r *Registry) Closed() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.closed
}
