// Package etw configures the ETW providers a trace session listens to and
// fans every event record the session receives out to registered consumers.
//
// A Provider is built once with chained calls and then handed to a session:
//
//	p, err := etw.FromKernelEntry(kernel.Process).
//		AddConsumerFunc(onProcess).
//		Build()
//
// The session calls p.Registry().Deliver for each record. Consumers may be
// added while deliveries are in flight.
package etw
