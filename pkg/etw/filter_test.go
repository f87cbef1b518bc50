package etw

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFilterEventIDs(t *testing.T) {
	var got []uint16
	c := ConsumerFunc(func(r *EventRecord, _ SchemaLocator) {
		got = append(got, r.Header.Descriptor.ID)
	})

	f := FilterEventIDs(c, 1, 3)
	for id := uint16(0); id < 5; id++ {
		f.OnEvent(record(id), nil)
	}
	f.OnEvent(nil, nil)
	assert.Equal(t, []uint16{1, 3}, got)
}

func TestFilterEventIDsEmptyPassesAll(t *testing.T) {
	var n int
	c := ConsumerFunc(func(*EventRecord, SchemaLocator) { n++ })

	f := FilterEventIDs(c)
	for id := uint16(0); id < 5; id++ {
		f.OnEvent(record(id), nil)
	}
	assert.Equal(t, 5, n)
}
