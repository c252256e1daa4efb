package deliveryservice

import (
	"github.com/kondukto-io/dspolicy/internal/core/domain"
)

// UseCase is what the router calls for a single delivery service
type UseCase interface {
	// ID returns the delivery service id
	ID() string
	// Config returns the immutable configuration of the service
	Config() *domain.PolicyConfig

	// SupportLocation returns the location to route the client from, or nil
	// when the client cannot be supported by the service
	SupportLocation(clientLocation *domain.Geolocation) *domain.Geolocation
	// IsAllowed evaluates the geo allow-list
	IsAllowed(clientLocation *domain.Geolocation) bool

	// CreateURI builds the redirect URI to the given cache
	CreateURI(request domain.Request, cache domain.CacheTarget) string
	// CreateURIWithPath builds the redirect URI to the given cache with an
	// alternate path, without query string or transaction token
	CreateURIWithPath(request domain.Request, alternatePath string, cache domain.CacheTarget) string
	// TransInfo returns the transaction token, or "" when there is none
	TransInfo(request domain.Request) string

	// FailureHTTPResponse returns the bypass redirect URI, "" when there is none
	FailureHTTPResponse(request domain.Request) (string, domain.Track)
	// FailureDNSResponse returns the bypass DNS answer, nil when there is none
	FailureDNSResponse(request domain.Request) ([]domain.InetRecord, domain.Track)

	// SetState replaces the availability snapshot
	SetState(state domain.AvailabilityState)
	IsAvailable() bool
	IsLocationAvailable(location domain.CacheLocation) bool
	FilterAvailableLocations(locations []domain.CacheLocation) []domain.CacheLocation

	SetHasX509Cert(ok bool)
	IsSSLReady() bool
	LocationLimit() int
	MaxDNSIPs() int
}
