package etw

import (
	"github.com/0xrawsec/golang-utils/datastructs"
)

// FilterEventIDs returns a Consumer that forwards to c only the records whose
// event ID is in ids. With no ids every record is forwarded.
func FilterEventIDs(c Consumer, ids ...uint16) Consumer {
	if len(ids) == 0 {
		return c
	}
	return &eventIDFilter{
		next: c,
		ids:  datastructs.NewInitSet(datastructs.ToInterfaceSlice(ids)...),
	}
}

type eventIDFilter struct {
	next Consumer
	ids  *datastructs.Set
}

func (f *eventIDFilter) OnEvent(r *EventRecord, l SchemaLocator) {
	if r == nil || !f.ids.Contains(r.Header.Descriptor.ID) {
		return
	}
	f.next.OnEvent(r, l)
}
