package sim

// VTimeInSec is the simulated time in the unit of second.
type VTimeInSec float64

// An Event is something that is scheduled to happen in the future.
type Event interface {
	// Time returns the time at which the event should happen.
	Time() VTimeInSec

	// Handler returns the handler that handles the event.
	Handler() Handler
}

// A Handler is a domain that events belong to. A component can only schedule
// events for itself.
type Handler interface {
	Handle(e Event) error
}

// EventBase provides the fields and getters shared by all events.
type EventBase struct {
	ID      string
	time    VTimeInSec
	handler Handler
}

// NewEventBase creates a new EventBase.
func NewEventBase(t VTimeInSec, handler Handler) *EventBase {
	e := new(EventBase)
	e.ID = GetIDGenerator().Generate()
	e.time = t
	e.handler = handler

	return e
}

// Time returns the time at which the event happens.
func (e EventBase) Time() VTimeInSec {
	return e.time
}

// Handler returns the handler that handles the event.
func (e EventBase) Handler() Handler {
	return e.handler
}

// SetHandler reassigns the handler of the event. Only the kick starter of a
// simulation should schedule events for other components.
func (e *EventBase) SetHandler(h Handler) {
	e.handler = h
}
