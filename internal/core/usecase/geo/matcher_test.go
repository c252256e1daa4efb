package geo

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/kondukto-io/dspolicy/internal/core/domain"
)

func location(props map[string]string) *domain.Geolocation {
	return &domain.Geolocation{Latitude: 39.7, Longitude: -104.9, Properties: props}
}

var isAllowedCases = map[string]struct {
	constraints []domain.GeoConstraint
	client      *domain.Geolocation
	expected    bool
}{
	"empty_allow_list": {
		constraints: nil,
		client:      location(map[string]string{"countryCode": "DE"}),
		expected:    true,
	},
	"nil_location": {
		constraints: []domain.GeoConstraint{{Fields: map[string]string{"countryCode": "US"}}},
		client:      nil,
		expected:    true,
	},
	"single_field_match_ignores_case": {
		constraints: []domain.GeoConstraint{{Fields: map[string]string{"countryCode": "us"}}},
		client:      location(map[string]string{"countryCode": "US"}),
		expected:    true,
	},
	"single_field_mismatch": {
		constraints: []domain.GeoConstraint{{Fields: map[string]string{"countryCode": "US"}}},
		client:      location(map[string]string{"countryCode": "CA"}),
		expected:    false,
	},
	"all_fields_of_entry_required": {
		constraints: []domain.GeoConstraint{{Fields: map[string]string{"countryCode": "US", "state": "CO"}}},
		client:      location(map[string]string{"countryCode": "US", "state": "PA"}),
		expected:    false,
	},
	"any_entry_suffices": {
		constraints: []domain.GeoConstraint{
			{Fields: map[string]string{"countryCode": "US", "state": "CO"}},
			{Fields: map[string]string{"countryCode": "CA"}},
		},
		client:   location(map[string]string{"countryCode": "CA", "state": "ON"}),
		expected: true,
	},
	"missing_attribute_does_not_match": {
		constraints: []domain.GeoConstraint{{Fields: map[string]string{"state": ""}}},
		client:      location(map[string]string{"countryCode": "US"}),
		expected:    false,
	},
	"entry_without_fields_matches_everything": {
		constraints: []domain.GeoConstraint{
			{Fields: map[string]string{"countryCode": "US"}},
			{Fields: map[string]string{}},
		},
		client:   location(map[string]string{"countryCode": "JP"}),
		expected: true,
	},
	"invalid_entry_never_matches": {
		constraints: []domain.GeoConstraint{{Invalid: true}},
		client:      location(map[string]string{"countryCode": "US"}),
		expected:    false,
	},
}

func TestIsAllowed(t *testing.T) {
	for name, test := range isAllowedCases {
		t.Run(name, func(t *testing.T) {
			m := New(&domain.PolicyConfig{GeoEnabled: test.constraints})
			assert.Equal(t, test.expected, m.IsAllowed(test.client))
		})
	}
}

func TestSupportLocation(t *testing.T) {
	miss := domain.NewGeolocation(41.8, -87.6)
	allowList := []domain.GeoConstraint{{Fields: map[string]string{"countryCode": "US"}}}

	t.Run("unknown client without miss location", func(t *testing.T) {
		m := New(&domain.PolicyConfig{GeoEnabled: allowList})
		assert.Nil(t, m.SupportLocation(nil))
	})

	t.Run("unknown client uses miss location", func(t *testing.T) {
		m := New(&domain.PolicyConfig{GeoEnabled: allowList, MissLocation: miss})
		assert.Same(t, miss, m.SupportLocation(nil))
	})

	t.Run("allowed client is returned", func(t *testing.T) {
		m := New(&domain.PolicyConfig{GeoEnabled: allowList, MissLocation: miss})
		client := location(map[string]string{"countryCode": "US"})
		assert.Same(t, client, m.SupportLocation(client))
	})

	t.Run("blocked client is not supported", func(t *testing.T) {
		m := New(&domain.PolicyConfig{GeoEnabled: allowList, MissLocation: miss})
		assert.Nil(t, m.SupportLocation(location(map[string]string{"countryCode": "FR"})))
	})
}
