package etw

import "github.com/Microsoft/go-etwtrace/pkg/guid"

// EventDescriptor mirrors EVENT_DESCRIPTOR.
type EventDescriptor struct {
	ID      uint16
	Version uint8
	Channel uint8
	Level   Level
	Opcode  uint8
	Task    uint16
	Keyword uint64
}

// EventHeader carries the EVENT_HEADER fields consumers commonly need.
type EventHeader struct {
	Flags      uint16
	ProviderID guid.GUID
	Descriptor EventDescriptor
	ThreadID   uint32
	ProcessID  uint32
	TimeStamp  int64
	ActivityID guid.GUID
}

// EventRecord is a raw event as received by the trace session. The payload is
// left undecoded; consumers interpret it through a SchemaLocator.
type EventRecord struct {
	Header   EventHeader
	UserData []byte
}

// Schema is the decoded layout of one event signature.
type Schema interface {
	ProviderName() string
	TaskName() string
	OpcodeName() string
}

// SchemaLocator resolves the schema of a record. It is owned by the trace
// session, caches schemas by record signature, and is shared by every
// consumer of a record, so it must not be used after OnEvent returns.
type SchemaLocator interface {
	Locate(r *EventRecord) (Schema, error)
}
