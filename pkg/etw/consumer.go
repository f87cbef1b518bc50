package etw

// Consumer receives every event record delivered to the Registry it is added
// to. OnEvent runs on the session's delivery goroutine; a slow consumer delays
// the consumers registered after it.
type Consumer interface {
	OnEvent(r *EventRecord, l SchemaLocator)
}

// ConsumerFunc adapts a function to a Consumer.
type ConsumerFunc func(r *EventRecord, l SchemaLocator)

// OnEvent calls f(r, l).
func (f ConsumerFunc) OnEvent(r *EventRecord, l SchemaLocator) {
	f(r, l)
}
