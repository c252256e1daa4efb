package geo

import (
	"net/url"
	"strings"

	"github.com/kondukto-io/dspolicy/internal/core/domain"
	"github.com/kondukto-io/dspolicy/pkg/logger"
)

// ClassifyRedirect fills the geo redirect slots of a config. A bare path
// or a URL on one of the service domains is served by the delivery
// service itself; any other absolute URL is handed out verbatim.
func ClassifyRedirect(cfg *domain.PolicyConfig) domain.GeoRedirectURLType {
	raw := cfg.GeoRedirectURL
	if raw == "" {
		return cfg.GeoRedirectURLType()
	}

	if strings.HasPrefix(raw, "/") {
		cfg.SetGeoRedirectURLType(domain.GeoRedirectURLService)
		cfg.SetGeoRedirectFile(raw)
		return domain.GeoRedirectURLService
	}

	u, err := url.Parse(raw)
	if err != nil || u.Hostname() == "" {
		logger.ForService(cfg.ID).Warnf("geo redirect url [%s] is invalid", raw)
		cfg.SetGeoRedirectURLType(domain.GeoRedirectURLInvalid)
		return domain.GeoRedirectURLInvalid
	}

	host := strings.ToLower(u.Hostname())
	for _, d := range cfg.Domains {
		d = strings.ToLower(d)
		if host == d || strings.HasSuffix(host, "."+d) {
			cfg.SetGeoRedirectURLType(domain.GeoRedirectURLService)
			cfg.SetGeoRedirectFile(u.RequestURI())
			return domain.GeoRedirectURLService
		}
	}

	cfg.SetGeoRedirectURLType(domain.GeoRedirectURLExternal)
	return domain.GeoRedirectURLExternal
}
