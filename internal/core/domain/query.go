package domain

// Operations a query can ask of a delivery service
const (
	OperationHTTP = "http"
	OperationDNS  = "dns"
)

// Operations lists the supported query operations
var Operations = []string{OperationHTTP, OperationDNS}

// Query is one recorded routing question replayed against a delivery
// service. The router resolved the client location and picked the cache
// before the query was recorded.
type Query struct {
	DeliveryService string       `json:"deliveryService"`
	Operation       string       `json:"operation"`
	Request         Request      `json:"request"`
	Location        *Geolocation `json:"location,omitempty"`
	Cache           *CacheTarget `json:"cache,omitempty"`
	CacheLocation   string       `json:"cacheLocation,omitempty"`
}
