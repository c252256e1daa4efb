package domain

import "strings"

// RequestType tells the router protocol a request arrived on
type RequestType string

const (
	// RequestTypeHTTP is an HTTP request
	RequestTypeHTTP RequestType = "http"
	// RequestTypeDNS is a DNS query
	RequestTypeDNS RequestType = "dns"
)

// Request is the resolved client request the router evaluates
type Request struct {
	Type     RequestType `json:"type"`
	Secure   bool        `json:"secure"`
	Hostname string      `json:"hostname"`
	// Path is the request URI path, starting with "/"
	Path string `json:"path"`
	// QueryString is the raw query without the leading "?", empty when absent
	QueryString string `json:"queryString,omitempty"`
	ClientIP    string `json:"clientIp"`
}

// DomainSuffix returns the hostname without its first label. When the
// hostname has a single label it is returned unchanged.
func (r Request) DomainSuffix() string {
	_, suffix, ok := strings.Cut(r.Hostname, ".")
	if !ok {
		return r.Hostname
	}

	return suffix
}
