package track

import "github.com/kondukto-io/dspolicy/internal/core/domain"

// Sink receives the classification of routing decisions
type Sink interface {
	Track(event domain.TrackEvent)
}

// Multi fans an event out to several sinks
type Multi []Sink

// Track implements Sink
func (m Multi) Track(event domain.TrackEvent) {
	for _, s := range m {
		s.Track(event)
	}
}
