package events

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDispatcherDeliversToAllHandlers(t *testing.T) {
	d := NewInMemoryDispatcher()
	var calls []string
	boom := errors.New("boom")

	d.Subscribe(EventEnquiryCreated, func(_ context.Context, e Event) error {
		calls = append(calls, "first:"+e.EnquiryID)
		return boom
	})
	d.Subscribe(EventEnquiryCreated, func(_ context.Context, e Event) error {
		calls = append(calls, "second:"+e.EnquiryID)
		return nil
	})
	d.Subscribe(EventEnquiryStatusChanged, func(context.Context, Event) error {
		calls = append(calls, "status")
		return nil
	})

	err := d.Publish(context.Background(), Event{Type: EventEnquiryCreated, EnquiryID: "42"})

	assert.ErrorIs(t, err, boom)
	assert.Equal(t, []string{"first:42", "second:42"}, calls)
	assert.NoError(t, d.Publish(context.Background(), Event{Type: EventEnquiriesReplaced}))
}
