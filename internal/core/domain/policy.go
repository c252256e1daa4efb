package domain

import (
	"sync"
	"sync/atomic"
)

const (
	// StandardHTTPPort is omitted from redirect URIs using the http scheme
	StandardHTTPPort = 80
	// StandardHTTPSPort is omitted from redirect URIs using the https scheme
	StandardHTTPSPort = 443
)

// PolicyConfig is the parsed configuration of a single delivery service.
// It is built once per configuration generation and never modified
// afterwards; the only mutable parts are the runtime side channels kept
// behind atomics (geo redirect classification and certificate readiness).
type PolicyConfig struct {
	ID                       string
	TTLs                     map[string]int
	CoverageZoneOnly         bool
	GeoEnabled               []GeoConstraint
	GeoRedirectURL           string
	StaticDNSEntries         []StaticDNSEntry
	Domains                  []string
	SOA                      map[string]string
	RoutingName              string
	AppendQueryString        bool
	MissLocation             *Geolocation
	Dispersion               Dispersion
	IP6RoutingEnabled        bool
	ResponseHeaders          map[string]string
	RequestHeaders           map[string]struct{}
	RegionalGeoBlocking      bool
	GeolocationProvider      string
	AnonymousBlockingEnabled bool
	AcceptHTTP               bool
	AcceptHTTPS              bool
	RedirectToHTTPS          bool
	SSLEnabled               bool
	DeepCaching              DeepCachingType
	Bypass                   BypassDestination
	TransInfo                TransInfoType
	LocationFailoverLimit    int
	MaxDNSIPsForLocation     int
	DNS                      bool

	runtimeOnce sync.Once
	runtime     *runtimeSlots
}

type runtimeSlots struct {
	geoRedirectURLType atomic.Value // GeoRedirectURLType
	geoRedirectFile    atomic.Value // string
	hasX509Cert        atomic.Bool
}

// InitRuntime prepares the side channels of a freshly built config.
// Builders call it before the config is published; later calls and the
// first accessor call are no-ops once the slots exist.
func (p *PolicyConfig) InitRuntime() {
	p.runtimeOnce.Do(func() {
		slots := &runtimeSlots{}
		slots.geoRedirectURLType.Store(GeoRedirectURLInvalid)
		slots.geoRedirectFile.Store(p.GeoRedirectURL)
		p.runtime = slots
	})
}

func (p *PolicyConfig) slots() *runtimeSlots {
	p.InitRuntime()

	return p.runtime
}

// GeoRedirectURLType returns the cached classification of the geo redirect URL
func (p *PolicyConfig) GeoRedirectURLType() GeoRedirectURLType {
	return p.slots().geoRedirectURLType.Load().(GeoRedirectURLType)
}

// SetGeoRedirectURLType stores the classification of the geo redirect URL
func (p *PolicyConfig) SetGeoRedirectURLType(t GeoRedirectURLType) {
	p.slots().geoRedirectURLType.Store(t)
}

// GeoRedirectFile returns the file path part of the geo redirect URL
func (p *PolicyConfig) GeoRedirectFile() string {
	return p.slots().geoRedirectFile.Load().(string)
}

// SetGeoRedirectFile stores the file path part of the geo redirect URL
func (p *PolicyConfig) SetGeoRedirectFile(path string) {
	p.slots().geoRedirectFile.Store(path)
}

// SetHasX509Cert marks whether a certificate was provisioned for the service
func (p *PolicyConfig) SetHasX509Cert(ok bool) {
	p.slots().hasX509Cert.Store(ok)
}

// SSLReady is true when TLS is enabled and a certificate is available
func (p *PolicyConfig) SSLReady() bool {
	return p.SSLEnabled && p.slots().hasX509Cert.Load()
}

// HasRequestHeader reports whether the header name is configured to be logged
func (p *PolicyConfig) HasRequestHeader(name string) bool {
	_, ok := p.RequestHeaders[name]
	return ok
}

// String implements fmt.Stringer
func (p *PolicyConfig) String() string {
	return "DeliveryService [id=" + p.ID + "]"
}

// GeoConstraint is a single entry of the geo allow-list. Every field must
// match the client location for the entry to match.
type GeoConstraint struct {
	Fields map[string]string
	// Invalid entries had non-string values in the document and never match.
	Invalid bool
}

// StaticDNSEntry is a record served verbatim for the delivery service
type StaticDNSEntry struct {
	Name  string `json:"name"`
	Type  string `json:"type"`
	Value string `json:"value"`
	TTL   int    `json:"ttl"`
}

// Dispersion controls how many caches are handed out per answer
type Dispersion struct {
	Limit    int
	Shuffled bool
}

// BypassDestination holds the optional fallback answers
type BypassDestination struct {
	HTTP *HTTPBypass
	DNS  *DNSBypass
}

// Configured reports whether the document carried a bypassDestination object
func (b BypassDestination) Configured() bool {
	return b.HTTP != nil || b.DNS != nil
}

// HTTPBypass is the fallback redirect target. An empty FQDN means the
// object was present without a target.
type HTTPBypass struct {
	FQDN string
	Port *int
}

// DNSBypass is the fallback DNS answer specification
type DNSBypass struct {
	TTL   *int
	IP    string
	IP6   string
	CNAME string
}
