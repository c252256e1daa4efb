package domain

// AvailabilityState is one snapshot of the health feed for a delivery
// service. A snapshot is never modified after it is published.
type AvailabilityState struct {
	Available         bool
	DisabledLocations map[string]struct{}
}

// DefaultAvailabilityState is available with no disabled locations
func DefaultAvailabilityState() AvailabilityState {
	return AvailabilityState{Available: true}
}

// NewAvailabilityState builds a snapshot from the pushed values
func NewAvailabilityState(available bool, disabled []string) AvailabilityState {
	s := AvailabilityState{Available: available}
	if len(disabled) == 0 {
		return s
	}

	s.DisabledLocations = make(map[string]struct{}, len(disabled))
	for _, id := range disabled {
		s.DisabledLocations[id] = struct{}{}
	}

	return s
}

// LocationDisabled reports whether the location id is disabled
func (s AvailabilityState) LocationDisabled(id string) bool {
	_, ok := s.DisabledLocations[id]
	return ok
}
