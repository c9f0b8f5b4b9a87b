package shared

import "time"

// DomainEvent represents an event that has occurred in the domain
type DomainEvent interface {
	EventName() string
	OccurredAt() time.Time
}

// Keyed is implemented by events that belong to a single aggregate, so
// transports can partition on it
type Keyed interface {
	AggregateID() string
}

// EventKey returns the aggregate id of a keyed event, or its name otherwise
func EventKey(event DomainEvent) string {
	if k, ok := event.(Keyed); ok && k.AggregateID() != "" {
		return k.AggregateID()
	}
	return event.EventName()
}
