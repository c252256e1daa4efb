package parser

import (
	"fmt"
	"net/netip"
	"net/url"
	"strconv"
	"strings"

	"github.com/kondukto-io/dspolicy/internal/core/domain"
	"github.com/kondukto-io/dspolicy/pkg/utils"
)

// QueryFlags are the raw command line values describing a single query
type QueryFlags struct {
	DeliveryService string
	Operation       string
	URL             string
	ClientIP        string
	Location        string
	Cache           string
	CacheLocation   string
}

// ToQuery builds a query from command line values
func ToQuery(f QueryFlags) (domain.Query, error) {
	if f.DeliveryService == "" {
		return domain.Query{}, fmt.Errorf("delivery service is required")
	}

	if !utils.OneOfFold(f.Operation, domain.Operations) {
		return domain.Query{}, fmt.Errorf("%w: %s", domain.ErrUnknownOperation, f.Operation)
	}

	request, err := ParseRequest(f.URL, f.ClientIP)
	if err != nil {
		return domain.Query{}, err
	}

	location, err := ParseLocation(f.Location)
	if err != nil {
		return domain.Query{}, err
	}

	var cache *domain.CacheTarget
	if f.Cache != "" {
		if cache, err = ParseCache(f.Cache); err != nil {
			return domain.Query{}, err
		}
	}

	return domain.Query{
		DeliveryService: f.DeliveryService,
		Operation:       strings.ToLower(f.Operation),
		Request:         request,
		Location:        location,
		Cache:           cache,
		CacheLocation:   f.CacheLocation,
	}, nil
}

// ParseRequest turns a request URL into a request. A value without a
// scheme is a DNS query name.
func ParseRequest(raw, clientIP string) (domain.Request, error) {
	if _, err := netip.ParseAddr(clientIP); err != nil {
		return domain.Request{}, fmt.Errorf("invalid client address %q: %w", clientIP, err)
	}

	if !strings.Contains(raw, "://") {
		if raw == "" {
			return domain.Request{}, fmt.Errorf("request name is required")
		}
		return domain.Request{
			Type:     domain.RequestTypeDNS,
			Hostname: strings.TrimSuffix(raw, "."),
			ClientIP: clientIP,
		}, nil
	}

	u, err := url.Parse(raw)
	if err != nil {
		return domain.Request{}, fmt.Errorf("invalid request url: %w", err)
	}

	if u.Scheme != "http" && u.Scheme != "https" {
		return domain.Request{}, fmt.Errorf("unsupported scheme %q", u.Scheme)
	}

	path := u.EscapedPath()
	if path == "" {
		path = "/"
	}

	return domain.Request{
		Type:        domain.RequestTypeHTTP,
		Secure:      u.Scheme == "https",
		Hostname:    u.Hostname(),
		Path:        path,
		QueryString: u.RawQuery,
		ClientIP:    clientIP,
	}, nil
}

// ParseLocation turns "key=value" pairs into a client location. The
// "lat" and "long" keys set the coordinates; an empty value is an
// unknown location.
func ParseLocation(raw string) (*domain.Geolocation, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, nil
	}

	kv, err := utils.KeyValues(raw)
	if err != nil {
		return nil, err
	}

	var loc = &domain.Geolocation{Properties: map[string]string{}}
	for k, v := range kv {
		switch k {
		case "lat":
			if loc.Latitude, err = strconv.ParseFloat(v, 64); err != nil {
				return nil, fmt.Errorf("invalid latitude %q: %w", v, err)
			}
		case "long":
			if loc.Longitude, err = strconv.ParseFloat(v, 64); err != nil {
				return nil, fmt.Errorf("invalid longitude %q: %w", v, err)
			}
		default:
			loc.Properties[k] = v
		}
	}

	return loc, nil
}

// ParseCache turns "fqdn[:port[:httpsPort]]" into a cache target
func ParseCache(raw string) (*domain.CacheTarget, error) {
	parts := strings.Split(raw, ":")
	if parts[0] == "" || len(parts) > 3 {
		return nil, fmt.Errorf("invalid cache %q", raw)
	}

	var cache = &domain.CacheTarget{
		FQDN:      parts[0],
		Port:      domain.StandardHTTPPort,
		HTTPSPort: domain.StandardHTTPSPort,
	}

	ports := []*int{&cache.Port, &cache.HTTPSPort}
	for i, p := range parts[1:] {
		v, err := strconv.Atoi(p)
		if err != nil || v <= 0 || v > 65535 {
			return nil, fmt.Errorf("invalid cache port %q", p)
		}
		*ports[i] = v
	}

	return cache, nil
}
