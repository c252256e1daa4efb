package uri

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/kondukto-io/dspolicy/internal/core/domain"
)

const testToken = "t0=abc"

func config(mutate func(c *domain.PolicyConfig)) *domain.PolicyConfig {
	c := &domain.PolicyConfig{
		ID:                "ds-1",
		AcceptHTTP:        true,
		AppendQueryString: true,
	}
	if mutate != nil {
		mutate(c)
	}
	c.InitRuntime()

	return c
}

func secureConfig(redirect bool) *domain.PolicyConfig {
	c := config(func(c *domain.PolicyConfig) {
		c.AcceptHTTPS = true
		c.SSLEnabled = true
		c.RedirectToHTTPS = redirect
	})
	c.SetHasX509Cert(true)

	return c
}

func staticToken(tok string) TokenFunc {
	return func(domain.Request) string { return tok }
}

var cache = domain.CacheTarget{
	FQDN:      "edge-01.cdn.example.net",
	Port:      80,
	HTTPSPort: 443,
}

var request = domain.Request{
	Type:     domain.RequestTypeHTTP,
	Hostname: "tr.video.example.com",
	Path:     "/live/index.m3u8",
	ClientIP: "192.0.2.10",
}

func TestUseSecure(t *testing.T) {
	secureRequest := request
	secureRequest.Secure = true

	t.Run("secure request with https accepted", func(t *testing.T) {
		assert.True(t, New(secureConfig(false), nil).UseSecure(secureRequest))
	})

	t.Run("secure request with https not accepted", func(t *testing.T) {
		for _, redirect := range []bool{true, false} {
			c := config(func(c *domain.PolicyConfig) {
				c.SSLEnabled = true
				c.RedirectToHTTPS = redirect
			})
			c.SetHasX509Cert(true)
			assert.False(t, New(c, nil).UseSecure(secureRequest))
		}
	})

	t.Run("secure request without certificate", func(t *testing.T) {
		c := config(func(c *domain.PolicyConfig) {
			c.AcceptHTTPS = true
			c.SSLEnabled = true
		})
		assert.False(t, New(c, nil).UseSecure(secureRequest))
	})

	t.Run("insecure request is upgraded only when redirecting", func(t *testing.T) {
		assert.False(t, New(secureConfig(false), nil).UseSecure(request))
		assert.True(t, New(secureConfig(true), nil).UseSecure(request))
	})
}

func TestBuildHost(t *testing.T) {
	t.Run("per service fqdn", func(t *testing.T) {
		c := cache
		c.DeliveryServices = map[string]string{"ds-1": "edge-01.video.example.com"}
		got := New(config(nil), nil).Build(request, c)
		assert.Equal(t, "http://edge-01.video.example.com/live/index.m3u8", got)
	})

	t.Run("fallback to request domain", func(t *testing.T) {
		c := cache
		c.DeliveryServices = map[string]string{"ds-2": "edge-01.other.example.com"}
		got := New(config(nil), nil).Build(request, c)
		assert.Equal(t, "http://edge-01.video.example.com/live/index.m3u8", got)
	})
}

func TestBuildPort(t *testing.T) {
	var testCases = map[string]struct {
		cfg      *domain.PolicyConfig
		secure   bool
		port     int
		tlsPort  int
		expected string
	}{
		"standard_http": {config(nil), false, 80, 443, "http://edge-01.video.example.com/live/index.m3u8"},
		"custom_http":   {config(nil), false, 8080, 443, "http://edge-01.video.example.com:8080/live/index.m3u8"},
		"standard_https": {
			secureConfig(false), true, 80, 443, "https://edge-01.video.example.com/live/index.m3u8",
		},
		"custom_https": {
			secureConfig(false), true, 80, 8443, "https://edge-01.video.example.com:8443/live/index.m3u8",
		},
		"secure_request_served_insecure": {
			config(nil), true, 80, 443, "http://edge-01.video.example.com/live/index.m3u8",
		},
	}

	for name, test := range testCases {
		t.Run(name, func(t *testing.T) {
			r := request
			r.Secure = test.secure
			c := cache
			c.Port = test.port
			c.HTTPSPort = test.tlsPort
			assert.Equal(t, test.expected, New(test.cfg, nil).Build(r, c))
		})
	}
}

func TestBuildQueryAndToken(t *testing.T) {
	const base = "http://edge-01.video.example.com/live/index.m3u8"

	var testCases = map[string]struct {
		appendQuery bool
		query       string
		token       string
		expected    string
	}{
		"query_and_token":        {true, "a=b", testToken, base + "?a=b&t0=abc"},
		"query_not_appended":     {false, "a=b", testToken, base + "?t0=abc"},
		"token_only":             {true, "", testToken, base + "?t0=abc"},
		"query_only":             {true, "a=b", "", base + "?a=b"},
		"nothing":                {true, "", "", base},
		"query_dropped_no_token": {false, "a=b", "", base},
	}

	for name, test := range testCases {
		t.Run(name, func(t *testing.T) {
			c := config(func(c *domain.PolicyConfig) { c.AppendQueryString = test.appendQuery })
			r := request
			r.QueryString = test.query
			assert.Equal(t, test.expected, New(c, staticToken(test.token)).Build(r, cache))
		})
	}
}

func TestBuildWithPath(t *testing.T) {
	r := request
	r.QueryString = "a=b"
	c := cache
	c.Port = 8080

	got := New(config(nil), staticToken(testToken)).BuildWithPath(r, "/geo/blocked.html", c)
	assert.Equal(t, "http://edge-01.video.example.com:8080/geo/blocked.html", got)
}

func TestBuildForHostUsesSchemePort(t *testing.T) {
	r := request
	r.Secure = true

	// a secure request answered over http keeps the explicit 443
	got := New(config(nil), nil).BuildForHost(r, "bypass.example.org", 443, "")
	assert.Equal(t, "http://bypass.example.org:443/live/index.m3u8", got)
}
