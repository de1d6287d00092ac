package keyboard

// EventQueue is a FIFO Queue filled by Push.
type EventQueue struct {
	events []RawKey
}

func (q *EventQueue) Push(ev RawKey) {
	q.events = append(q.events, ev)
}

func (q *EventQueue) Pending() int {
	return len(q.events)
}

func (q *EventQueue) Peek() (RawKey, bool) {
	if len(q.events) == 0 {
		return RawKey{}, false
	}
	return q.events[0], true
}

func (q *EventQueue) Next() (RawKey, bool) {
	if len(q.events) == 0 {
		return RawKey{}, false
	}
	ev := q.events[0]
	q.events = q.events[1:]
	if len(q.events) == 0 {
		q.events = q.events[:0:0]
	}
	return ev, true
}
