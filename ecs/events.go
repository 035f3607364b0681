package ecs

// EventType identifies the payload carried by an Event.
type EventType string

const (
	EventProximity EventType = "proximity"
	EventAnimation EventType = "animation"
)

// Event is a generic ECS event payload.
type Event struct {
	Type EventType
	Data any

	frame uint64
}

// ProximityPhase tells whether a body entered or left a trigger volume.
type ProximityPhase int

const (
	ProximityEnter ProximityPhase = iota
	ProximityExit
)

// ProximityEvent is pushed by the host physics when an object crosses a
// hand's trigger volume.
type ProximityEvent struct {
	Hand   Entity
	Object Entity
	Phase  ProximityPhase
}

// AnimationEvent is emitted when a playing clip crosses a named marker.
type AnimationEvent struct {
	Entity Entity
	Name   string
}

// EventQueue is a FIFO queue. Events survive until consumed or until the end
// of the frame after the one they were pushed in.
type EventQueue struct {
	items []Event
	frame uint64
}

// Push adds an event.
func (q *EventQueue) Push(evt Event) {
	if q == nil {
		return
	}
	evt.frame = q.frame
	q.items = append(q.items, evt)
}

// Drain returns all events and clears the queue.
func (q *EventQueue) Drain() []Event {
	if q == nil || len(q.items) == 0 {
		return nil
	}
	out := q.items
	q.items = nil
	return out
}

// Take removes and returns the events of type typ, keeping the rest in order.
func (q *EventQueue) Take(typ EventType) []Event {
	if q == nil || len(q.items) == 0 {
		return nil
	}
	var out []Event
	kept := q.items[:0]
	for _, evt := range q.items {
		if evt.Type == typ {
			out = append(out, evt)
			continue
		}
		kept = append(kept, evt)
	}
	q.items = kept
	return out
}

// Len returns the number of pending events.
func (q *EventQueue) Len() int {
	if q == nil {
		return 0
	}
	return len(q.items)
}

func (q *EventQueue) flush(frame uint64) {
	if q == nil || len(q.items) == 0 {
		return
	}
	kept := q.items[:0]
	for _, evt := range q.items {
		if evt.frame >= frame {
			kept = append(kept, evt)
		}
	}
	q.items = kept
	q.frame = frame + 1
}
