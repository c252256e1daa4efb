package domain

import "strings"

// DeepCachingType controls whether deep caches may serve the service
type DeepCachingType string

const (
	// DeepCachingNever is the default deep caching type
	DeepCachingNever DeepCachingType = "NEVER"
	// DeepCachingAlways routes to deep caches whenever possible
	DeepCachingAlways DeepCachingType = "ALWAYS"
)

// DeepCachingTypes lists the recognized deep caching types
var DeepCachingTypes = []DeepCachingType{DeepCachingNever, DeepCachingAlways}

// TransInfoType selects what is encoded in the transaction token
type TransInfoType string

const (
	// TransInfoNone disables the token
	TransInfoNone TransInfoType = "NONE"
	// TransInfoIP encodes the client IPv4 address only
	TransInfoIP TransInfoType = "IP"
	// TransInfoIPTID encodes the client address, a timestamp and a request id
	TransInfoIPTID TransInfoType = "IP_TID"
)

// TransInfoTypes lists the recognized transaction info types
var TransInfoTypes = []TransInfoType{TransInfoNone, TransInfoIP, TransInfoIPTID}

// GeoRedirectURLType classifies the geo limit redirect URL
type GeoRedirectURLType string

const (
	// GeoRedirectURLInvalid is the initial, not yet classified state
	GeoRedirectURLInvalid GeoRedirectURLType = "INVALID_URL"
	// GeoRedirectURLService means the URL belongs to the delivery service
	GeoRedirectURLService GeoRedirectURLType = "DS_URL"
	// GeoRedirectURLExternal means the URL points outside the delivery service
	GeoRedirectURLExternal GeoRedirectURLType = "NOT_DS_URL"
)

// ParseWithDefault matches text case-insensitively against the allowed
// values. When nothing matches def is returned and warned is true, so the
// caller can log the fallback. Empty text is not a warning.
func ParseWithDefault[T ~string](text string, allowed []T, def T) (value T, warned bool) {
	text = strings.TrimSpace(text)
	if text == "" {
		return def, false
	}

	for _, v := range allowed {
		if strings.EqualFold(text, string(v)) {
			return v, false
		}
	}

	return def, true
}
