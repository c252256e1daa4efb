package domain

import "errors"

var (
	// ErrMissingRoutingName is returned when a delivery service has no routingName
	ErrMissingRoutingName = errors.New("routingName is required")
	// ErrMissingCoverageZoneOnly is returned when coverageZoneOnly is absent
	ErrMissingCoverageZoneOnly = errors.New("coverageZoneOnly is required")
	// ErrMissingTTL is returned when a DNS bypass has no ttl
	ErrMissingTTL = errors.New("bypass DNS ttl is required")
	// ErrUnknownDeliveryService is returned by lookups of unknown ids
	ErrUnknownDeliveryService = errors.New("unknown delivery service")
	// ErrUnknownOperation is returned for a query with an unsupported operation
	ErrUnknownOperation = errors.New("unknown operation")
	// ErrMissingCache is returned for a query that needs a cache target
	ErrMissingCache = errors.New("query has no cache target")
)
