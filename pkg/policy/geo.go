package policy

import (
	"encoding/json"

	"github.com/kondukto-io/dspolicy/internal/core/domain"
)

// invalidField is never present in a client location, so entries carrying
// it never match.
const invalidField = "\x00invalid"

// GeoData is the data document of the bundled geo policy
type GeoData struct {
	GeoEnabled []map[string]string `json:"geo_enabled"`
}

// GeoInput is the input document of the bundled geo policy
type GeoInput struct {
	Properties map[string]string `json:"properties"`
	Unknown    bool              `json:"unknown,omitempty"`
}

// NewGeoData renders an allow-list as policy data
func NewGeoData(constraints []domain.GeoConstraint) ([]byte, error) {
	data := GeoData{GeoEnabled: make([]map[string]string, 0, len(constraints))}

	for _, c := range constraints {
		entry := make(map[string]string, len(c.Fields)+1)
		for k, v := range c.Fields {
			entry[k] = v
		}
		if c.Invalid {
			entry[invalidField] = ""
		}
		data.GeoEnabled = append(data.GeoEnabled, entry)
	}

	return json.Marshal(data)
}

// NewGeoInput renders a client location as policy input. A nil location
// is marked unknown.
func NewGeoInput(loc *domain.Geolocation) ([]byte, error) {
	in := GeoInput{Properties: map[string]string{}, Unknown: loc == nil}
	if loc != nil && loc.Properties != nil {
		in.Properties = loc.Properties
	}

	return json.Marshal(in)
}
