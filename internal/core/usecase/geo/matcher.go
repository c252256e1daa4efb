package geo

import (
	"strings"

	"github.com/kondukto-io/dspolicy/internal/core/domain"
)

// Matcher evaluates client locations against the geo allow-list of a
// delivery service.
type Matcher struct {
	constraints  []domain.GeoConstraint
	missLocation *domain.Geolocation
}

// New returns a matcher for the given config
func New(cfg *domain.PolicyConfig) *Matcher {
	return &Matcher{
		constraints:  cfg.GeoEnabled,
		missLocation: cfg.MissLocation,
	}
}

// IsAllowed returns true when the allow-list is empty or at least one
// entry matches the client on every field it names. A nil location is
// not constrained.
func (m *Matcher) IsAllowed(clientLocation *domain.Geolocation) bool {
	if len(m.constraints) == 0 || clientLocation == nil {
		return true
	}

	for _, c := range m.constraints {
		if matches(c, clientLocation) {
			return true
		}
	}

	return false
}

// SupportLocation returns the location the service is routed from: the
// miss location when the client location is unknown, the client location
// when it is allowed, nil otherwise.
func (m *Matcher) SupportLocation(clientLocation *domain.Geolocation) *domain.Geolocation {
	if clientLocation == nil {
		return m.missLocation
	}

	if !m.IsAllowed(clientLocation) {
		return nil
	}

	return clientLocation
}

func matches(c domain.GeoConstraint, loc *domain.Geolocation) bool {
	if c.Invalid {
		return false
	}

	for field, expected := range c.Fields {
		actual, ok := loc.Property(field)
		if !ok || !strings.EqualFold(expected, actual) {
			return false
		}
	}

	return true
}
