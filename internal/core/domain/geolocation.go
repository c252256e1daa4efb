package domain

// Geolocation is a resolved client location
type Geolocation struct {
	Latitude  float64 `json:"lat"`
	Longitude float64 `json:"long"`
	// Properties holds the named attributes (countryCode, city, postalCode, ...)
	// used for allow-list matching.
	Properties map[string]string `json:"properties,omitempty"`
}

// NewGeolocation returns a location without attributes
func NewGeolocation(lat, long float64) *Geolocation {
	return &Geolocation{Latitude: lat, Longitude: long}
}

// Property returns the named attribute and whether it is set
func (g *Geolocation) Property(name string) (string, bool) {
	if g == nil || g.Properties == nil {
		return "", false
	}

	v, ok := g.Properties[name]
	return v, ok
}
