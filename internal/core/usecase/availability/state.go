package availability

import (
	"sync/atomic"

	"github.com/kondukto-io/dspolicy/internal/core/domain"
)

// State holds the latest availability snapshot of a delivery service.
// Updates swap the whole snapshot; readers never take a lock.
type State struct {
	current atomic.Pointer[domain.AvailabilityState]
}

// New returns a state that is available with no disabled locations
func New() *State {
	s := &State{}
	def := domain.DefaultAvailabilityState()
	s.current.Store(&def)

	return s
}

// Update publishes a new snapshot
func (s *State) Update(available bool, disabledLocations []string) {
	s.Set(domain.NewAvailabilityState(available, disabledLocations))
}

// Set publishes an already built snapshot
func (s *State) Set(snapshot domain.AvailabilityState) {
	s.current.Store(&snapshot)
}

// Snapshot returns the current snapshot
func (s *State) Snapshot() domain.AvailabilityState {
	return *s.current.Load()
}

// IsAvailable reports the service level availability flag
func (s *State) IsAvailable() bool {
	return s.current.Load().Available
}

// IsLocationAvailable is true unless the location is disabled
func (s *State) IsLocationAvailable(location domain.CacheLocation) bool {
	return !s.current.Load().LocationDisabled(location.ID)
}

// FilterAvailable drops disabled locations, keeping the input order.
// All locations are checked against the same snapshot.
func (s *State) FilterAvailable(locations []domain.CacheLocation) []domain.CacheLocation {
	snapshot := s.current.Load()

	filtered := make([]domain.CacheLocation, 0, len(locations))
	for _, l := range locations {
		if !snapshot.LocationDisabled(l.ID) {
			filtered = append(filtered, l)
		}
	}

	return filtered
}
