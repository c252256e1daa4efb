package config

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/xeipuuv/gojsonschema"

	"github.com/kondukto-io/dspolicy/internal/core/domain"
	"github.com/kondukto-io/dspolicy/internal/core/port/config"
	"github.com/kondukto-io/dspolicy/pkg/logger"
)

const defaultGeolocationProvider = "maxmindGeolocationService"

// Loader decodes configuration and state documents
type Loader struct {
	services *gojsonschema.Schema
	states   *gojsonschema.Schema
}

// New compiles the document schemas
func New() (config.Repository, error) {
	services, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(servicesSchema))
	if err != nil {
		return nil, fmt.Errorf("failed to compile services schema: %w", err)
	}

	states, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(statesSchema))
	if err != nil {
		return nil, fmt.Errorf("failed to compile states schema: %w", err)
	}

	return &Loader{services: services, states: states}, nil
}

// ReadFile implements config.Repository
func (l *Loader) ReadFile(path string) ([]byte, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	return raw, nil
}

// LoadServices implements config.Repository
func (l *Loader) LoadServices(raw []byte) (map[string]*domain.PolicyConfig, error) {
	if err := validate(l.services, raw); err != nil {
		return nil, err
	}

	var doc servicesDocument
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("failed to decode configuration: %w", err)
	}

	ids := make([]string, 0, len(doc.DeliveryServices))
	for id := range doc.DeliveryServices {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	out := make(map[string]*domain.PolicyConfig, len(ids))
	for _, id := range ids {
		cfg, err := Build(id, doc.DeliveryServices[id])
		if err != nil {
			return nil, fmt.Errorf("delivery service %s: %w", id, err)
		}
		out[id] = cfg
	}

	return out, nil
}

// LoadStates implements config.Repository
func (l *Loader) LoadStates(raw []byte) (map[string]domain.AvailabilityState, error) {
	if err := validate(l.states, raw); err != nil {
		return nil, err
	}

	var doc statesDocument
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("failed to decode state: %w", err)
	}

	out := make(map[string]domain.AvailabilityState, len(doc.DeliveryServices))
	for id, s := range doc.DeliveryServices {
		out[id] = s.toDomain()
	}

	return out, nil
}

func validate(schema *gojsonschema.Schema, raw []byte) error {
	result, err := schema.Validate(gojsonschema.NewBytesLoader(raw))
	if err != nil {
		return fmt.Errorf("schema validation error: %w", err)
	}

	if !result.Valid() {
		errs := make([]string, 0, len(result.Errors()))
		for _, e := range result.Errors() {
			errs = append(errs, e.String())
		}
		return fmt.Errorf("validation failed: %s", strings.Join(errs, "; "))
	}

	return nil
}

// Build turns a decoded delivery service object into an immutable config
func Build(id string, ds DeliveryService) (*domain.PolicyConfig, error) {
	log := logger.ForService(id)

	if ds.RoutingName == "" {
		return nil, domain.ErrMissingRoutingName
	}
	if ds.CoverageZoneOnly == nil {
		return nil, domain.ErrMissingCoverageZoneOnly
	}

	if ds.TTLs == nil {
		log.Warn("ttls is null")
	}

	cfg := &domain.PolicyConfig{
		ID:                       id,
		TTLs:                     ttls(log, ds.TTLs),
		CoverageZoneOnly:         *ds.CoverageZoneOnly,
		GeoEnabled:               geoConstraints(log, ds.GeoEnabled),
		StaticDNSEntries:         ds.StaticDNSEntries,
		Domains:                  ds.Domains,
		SOA:                      ds.SOA,
		RoutingName:              strings.ToLower(ds.RoutingName),
		AppendQueryString:        optBool(ds.AppendQueryString, true),
		Dispersion:               ds.Dispersion.toDomain(),
		IP6RoutingEnabled:        optBool(ds.IP6RoutingEnabled, false),
		ResponseHeaders:          ds.ResponseHeaders,
		RequestHeaders:           make(map[string]struct{}, len(ds.RequestHeaders)),
		RegionalGeoBlocking:      optBool(ds.RegionalGeoBlocking, false),
		AnonymousBlockingEnabled: optBool(ds.AnonymousBlockingEnabled, false),
		AcceptHTTP:               optBool(ds.Protocol.AcceptHTTP, true),
		AcceptHTTPS:              optBool(ds.Protocol.AcceptHTTPS, false),
		RedirectToHTTPS:          optBool(ds.Protocol.RedirectToHTTPS, false),
		SSLEnabled:               optBool(ds.SSLEnabled, false),
		Bypass:                   ds.BypassDestination.toDomain(),
		LocationFailoverLimit:    ds.LocationFailoverLimit,
		MaxDNSIPsForLocation:     ds.MaxDNSIPsForLocation,
		DNS:                      ds.isDNS(),
	}

	if ds.GeoLimitRedirectURL != nil {
		cfg.GeoRedirectURL = *ds.GeoLimitRedirectURL
	}

	if ds.MissLocation != nil {
		cfg.MissLocation = domain.NewGeolocation(ds.MissLocation.Lat, ds.MissLocation.Long)
	}

	for _, name := range ds.RequestHeaders {
		cfg.RequestHeaders[name] = struct{}{}
	}

	if ds.GeolocationProvider != nil && *ds.GeolocationProvider != "" {
		cfg.GeolocationProvider = *ds.GeolocationProvider
		log.Infof("configured geolocation provider '%s'", cfg.GeolocationProvider)
	} else {
		cfg.GeolocationProvider = defaultGeolocationProvider
		log.Info("using the default geolocation provider")
	}

	var warned bool
	cfg.DeepCaching, warned = domain.ParseWithDefault(optString(ds.DeepCachingType), domain.DeepCachingTypes, domain.DeepCachingNever)
	if warned {
		log.Warnf("unrecognized deepCachingType '%s', defaulting to '%s'", optString(ds.DeepCachingType), domain.DeepCachingNever)
	}

	cfg.TransInfo, warned = domain.ParseWithDefault(optString(ds.TransInfoType), domain.TransInfoTypes, domain.TransInfoNone)
	if warned {
		log.Warnf("unrecognized transInfoType '%s', defaulting to '%s'", optString(ds.TransInfoType), domain.TransInfoNone)
	}

	cfg.InitRuntime()

	return cfg, nil
}

func geoConstraints(log *logrus.Entry, raw []map[string]any) []domain.GeoConstraint {
	if len(raw) == 0 {
		return nil
	}

	out := make([]domain.GeoConstraint, 0, len(raw))
	for i, entry := range raw {
		c := domain.GeoConstraint{Fields: make(map[string]string, len(entry))}
		for field, value := range entry {
			s, ok := value.(string)
			if !ok {
				log.WithFields(logrus.Fields{"entry": i, "field": field}).Warn("geoEnabled value is not a string, entry will never match")
				c.Invalid = true
				continue
			}
			c.Fields[field] = s
		}
		out = append(out, c)
	}

	return out
}

func ttls(log *logrus.Entry, raw map[string]*flexInt) map[string]int {
	if raw == nil {
		return nil
	}

	out := make(map[string]int, len(raw))
	for k, v := range raw {
		if v == nil {
			log.WithField("type", k).Warn("ttl is null, skipped")
			continue
		}
		out[k] = int(*v)
	}

	return out
}

func optBool(v *bool, def bool) bool {
	if v == nil {
		return def
	}

	return *v
}

func optString(v *string) string {
	if v == nil {
		return ""
	}

	return *v
}

type servicesDocument struct {
	DeliveryServices map[string]DeliveryService `json:"deliveryServices"`
}

// DeliveryService is the wire form of a delivery service object
type DeliveryService struct {
	TTLs                     map[string]*flexInt     `json:"ttls"`
	CoverageZoneOnly         *bool                   `json:"coverageZoneOnly"`
	GeoEnabled               []map[string]any        `json:"geoEnabled"`
	GeoLimitRedirectURL      *string                 `json:"geoLimitRedirectURL"`
	StaticDNSEntries         []domain.StaticDNSEntry `json:"staticDnsEntries"`
	BypassDestination        bypassDestination       `json:"bypassDestination"`
	RoutingName              string                  `json:"routingName"`
	Domains                  []string                `json:"domains"`
	SOA                      map[string]string       `json:"soa"`
	AppendQueryString        *bool                   `json:"appendQueryString"`
	MissLocation             *missLocation           `json:"missLocation"`
	Dispersion               dispersion              `json:"dispersion"`
	IP6RoutingEnabled        *bool                   `json:"ip6RoutingEnabled"`
	ResponseHeaders          map[string]string       `json:"responseHeaders"`
	RequestHeaders           []string                `json:"requestHeaders"`
	RegionalGeoBlocking      *bool                   `json:"regionalGeoBlocking"`
	GeolocationProvider      *string                 `json:"geolocationProvider"`
	SSLEnabled               *bool                   `json:"sslEnabled"`
	AnonymousBlockingEnabled *bool                   `json:"anonymousBlockingEnabled"`
	Protocol                 protocol                `json:"protocol"`
	DeepCachingType          *string                 `json:"deepCachingType"`
	TransInfoType            *string                 `json:"transInfoType"`
	LocationFailoverLimit    int                     `json:"locationFailoverLimit"`
	MaxDNSIPsForLocation     int                     `json:"maxDnsIpsForLocation"`
	MatchSets                []matchSet              `json:"matchsets"`
}

func (ds DeliveryService) isDNS() bool {
	for _, m := range ds.MatchSets {
		if strings.EqualFold(m.Protocol, "DNS") {
			return true
		}
	}

	return false
}

type matchSet struct {
	Protocol string `json:"protocol"`
}

type missLocation struct {
	Lat  float64 `json:"lat"`
	Long float64 `json:"long"`
}

type protocol struct {
	AcceptHTTP      *bool `json:"acceptHttp"`
	AcceptHTTPS     *bool `json:"acceptHttps"`
	RedirectToHTTPS *bool `json:"redirectToHttps"`
}

type dispersion struct {
	Limit    *int  `json:"limit"`
	Shuffled *bool `json:"shuffled"`
}

func (d dispersion) toDomain() domain.Dispersion {
	out := domain.Dispersion{Limit: 1, Shuffled: optBool(d.Shuffled, true)}
	if d.Limit != nil && *d.Limit > 0 {
		out.Limit = *d.Limit
	}

	return out
}

type bypassDestination struct {
	HTTP *httpBypass `json:"HTTP"`
	DNS  *dnsBypass  `json:"DNS"`
}

func (b bypassDestination) toDomain() domain.BypassDestination {
	var out domain.BypassDestination
	if b.HTTP != nil {
		out.HTTP = &domain.HTTPBypass{FQDN: optString(b.HTTP.FQDN)}
		if b.HTTP.Port != nil {
			port := int(*b.HTTP.Port)
			out.HTTP.Port = &port
		}
	}

	if b.DNS != nil {
		out.DNS = &domain.DNSBypass{
			TTL:   b.DNS.TTL,
			IP:    optString(b.DNS.IP),
			IP6:   optString(b.DNS.IP6),
			CNAME: optString(b.DNS.CNAME),
		}
	}

	return out
}

type httpBypass struct {
	FQDN *string  `json:"fqdn"`
	Port *flexInt `json:"port"`
}

type dnsBypass struct {
	TTL   *int    `json:"ttl"`
	IP    *string `json:"ip"`
	IP6   *string `json:"ip6"`
	CNAME *string `json:"cname"`
}

// flexInt accepts both 8080 and "8080"
type flexInt int

func (f *flexInt) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		return nil
	}

	s := strings.Trim(string(b), `"`)
	v, err := strconv.Atoi(s)
	if err != nil {
		return fmt.Errorf("invalid integer %s: %w", string(b), err)
	}

	*f = flexInt(v)
	return nil
}

type statesDocument struct {
	DeliveryServices map[string]*state `json:"deliveryServices"`
}

type state struct {
	IsAvailable       *bool    `json:"isAvailable"`
	DisabledLocations []string `json:"disabledLocations"`
}

func (s *state) toDomain() domain.AvailabilityState {
	if s == nil {
		return domain.DefaultAvailabilityState()
	}

	return domain.NewAvailabilityState(optBool(s.IsAvailable, true), s.DisabledLocations)
}
