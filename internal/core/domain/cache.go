package domain

// CacheTarget is an edge cache that may serve a delivery service
type CacheTarget struct {
	FQDN      string `json:"fqdn"`
	Port      int    `json:"port"`
	HTTPSPort int    `json:"httpsPort"`
	// DeliveryServices maps a delivery service id to the per-service FQDN
	// the cache answers on.
	DeliveryServices map[string]string `json:"deliveryServices,omitempty"`
}

// ServiceFQDN returns the per-service FQDN of the cache, if any
func (c CacheTarget) ServiceFQDN(dsID string) (string, bool) {
	fqdn, ok := c.DeliveryServices[dsID]
	if !ok || fqdn == "" {
		return "", false
	}

	return fqdn, true
}

// CacheLocation names a cache site
type CacheLocation struct {
	ID string `json:"id"`
}
