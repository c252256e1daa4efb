package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kondukto-io/dspolicy/internal/core/domain"
)

func TestParseRequest(t *testing.T) {
	r, err := ParseRequest("https://tr.video.example.com/a/b.ts?k=v", "192.0.2.1")
	require.NoError(t, err)
	assert.Equal(t, domain.Request{
		Type:        domain.RequestTypeHTTP,
		Secure:      true,
		Hostname:    "tr.video.example.com",
		Path:        "/a/b.ts",
		QueryString: "k=v",
		ClientIP:    "192.0.2.1",
	}, r)

	r, err = ParseRequest("http://tr.video.example.com", "2001:db8::1")
	require.NoError(t, err)
	assert.Equal(t, "/", r.Path)
	assert.False(t, r.Secure)

	r, err = ParseRequest("edge.video.example.com.", "192.0.2.1")
	require.NoError(t, err)
	assert.Equal(t, domain.RequestTypeDNS, r.Type)
	assert.Equal(t, "edge.video.example.com", r.Hostname)

	for _, tc := range [][2]string{
		{"http://a.example.com/", "not-an-ip"},
		{"ftp://a.example.com/", "192.0.2.1"},
		{"", "192.0.2.1"},
	} {
		_, err := ParseRequest(tc[0], tc[1])
		assert.Error(t, err, tc)
	}
}

func TestParseLocation(t *testing.T) {
	loc, err := ParseLocation("")
	require.NoError(t, err)
	assert.Nil(t, loc)

	loc, err = ParseLocation("lat=39.5,long=-104.5,countryCode=US")
	require.NoError(t, err)
	assert.InDelta(t, 39.5, loc.Latitude, 1e-9)
	assert.InDelta(t, -104.5, loc.Longitude, 1e-9)
	assert.Equal(t, map[string]string{"countryCode": "US"}, loc.Properties)

	_, err = ParseLocation("lat=north")
	assert.Error(t, err)
}

func TestParseCache(t *testing.T) {
	c, err := ParseCache("edge-1.cdn.example.net")
	require.NoError(t, err)
	assert.Equal(t, &domain.CacheTarget{FQDN: "edge-1.cdn.example.net", Port: 80, HTTPSPort: 443}, c)

	c, err = ParseCache("edge-1.cdn.example.net:8080:8443")
	require.NoError(t, err)
	assert.Equal(t, 8080, c.Port)
	assert.Equal(t, 8443, c.HTTPSPort)

	for _, raw := range []string{"", ":80", "edge:x", "edge:1:2:3", "edge:70000"} {
		_, err := ParseCache(raw)
		assert.Error(t, err, raw)
	}
}

func TestToQuery(t *testing.T) {
	q, err := ToQuery(QueryFlags{
		DeliveryService: "video",
		Operation:       "HTTP",
		URL:             "http://tr.video.example.com/a",
		ClientIP:        "192.0.2.1",
		Location:        "countryCode=US",
		Cache:           "edge-1.cdn.example.net",
		CacheLocation:   "den",
	})
	require.NoError(t, err)
	assert.Equal(t, domain.OperationHTTP, q.Operation)
	require.NotNil(t, q.Cache)
	assert.Equal(t, "den", q.CacheLocation)
	assert.Equal(t, "US", q.Location.Properties["countryCode"])

	_, err = ToQuery(QueryFlags{DeliveryService: "video", Operation: "ftp"})
	assert.ErrorIs(t, err, domain.ErrUnknownOperation)

	_, err = ToQuery(QueryFlags{Operation: "http"})
	assert.Error(t, err)
}
