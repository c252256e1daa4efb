package evaluate

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kondukto-io/dspolicy/internal/core/domain"
	"github.com/kondukto-io/dspolicy/internal/core/port/deliveryservice"
	dsusecase "github.com/kondukto-io/dspolicy/internal/core/usecase/deliveryservice"
	"github.com/kondukto-io/dspolicy/internal/core/usecase/geo"
)

type services map[string]deliveryservice.UseCase

func (s services) Get(id string) (deliveryservice.UseCase, error) {
	ds, ok := s[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrUnknownDeliveryService, id)
	}

	return ds, nil
}

type recorder []domain.TrackEvent

func (r *recorder) Track(event domain.TrackEvent) {
	*r = append(*r, event)
}

func intPtr(v int) *int { return &v }

func newService(redirect string) deliveryservice.UseCase {
	cfg := &domain.PolicyConfig{
		ID:                "video",
		RoutingName:       "tr",
		Domains:           []string{"video.example.com"},
		AppendQueryString: true,
		AcceptHTTP:        true,
		GeoRedirectURL:    redirect,
		GeoEnabled: []domain.GeoConstraint{
			{Fields: map[string]string{"countryCode": "US"}},
		},
		Bypass: domain.BypassDestination{
			HTTP: &domain.HTTPBypass{FQDN: "origin.example.org"},
			DNS:  &domain.DNSBypass{TTL: intPtr(60), IP: "192.0.2.10"},
		},
	}
	cfg.InitRuntime()
	geo.ClassifyRedirect(cfg)

	return dsusecase.New(cfg, nil)
}

var us = &domain.Geolocation{Properties: map[string]string{"countryCode": "US"}}
var fr = &domain.Geolocation{Properties: map[string]string{"countryCode": "FR"}}

var cache = &domain.CacheTarget{FQDN: "edge-1.cdn.example.net", Port: 80, HTTPSPort: 443}

func httpQuery(loc *domain.Geolocation) domain.Query {
	return domain.Query{
		DeliveryService: "video",
		Operation:       domain.OperationHTTP,
		Request: domain.Request{
			Type:     domain.RequestTypeHTTP,
			Hostname: "tr.video.example.com",
			Path:     "/a.ts",
			ClientIP: "192.0.2.1",
		},
		Location: loc,
		Cache:    cache,
	}
}

func dnsQuery(loc *domain.Geolocation) domain.Query {
	return domain.Query{
		DeliveryService: "video",
		Operation:       domain.OperationDNS,
		Request: domain.Request{
			Type:     domain.RequestTypeDNS,
			Hostname: "edge.video.example.com",
			ClientIP: "192.0.2.1",
		},
		Location: loc,
		Cache:    cache,
	}
}

func TestEvaluateHTTP(t *testing.T) {
	var sink recorder
	uc := New(services{"video": newService("")}, &sink)

	event, err := uc.Evaluate(httpQuery(us))
	require.NoError(t, err)
	assert.Equal(t, domain.ResultGeo, event.Result)
	assert.Equal(t, []string{"http://edge-1.video.example.com/a.ts"}, event.Answer)
	assert.Equal(t, "192.0.2.1", event.ClientIP)
	assert.Len(t, sink, 1)
}

func TestEvaluateUnavailable(t *testing.T) {
	ds := newService("")
	uc := New(services{"video": ds}, nil)

	ds.SetState(domain.NewAvailabilityState(false, nil))

	event, err := uc.Evaluate(httpQuery(us))
	require.NoError(t, err)
	assert.Equal(t, domain.ResultDSRedirect, event.Result)
	assert.Equal(t, []string{"http://origin.example.org/a.ts"}, event.Answer)

	event, err = uc.Evaluate(dnsQuery(us))
	require.NoError(t, err)
	assert.Equal(t, domain.ResultDetailsDSBypass, event.ResultDetails)
	require.Len(t, event.Answer, 1)
	assert.Contains(t, event.Answer[0], "192.0.2.10")
}

func TestEvaluateDisabledCacheLocation(t *testing.T) {
	ds := newService("")
	ds.SetState(domain.NewAvailabilityState(true, []string{"den"}))
	uc := New(services{"video": ds}, nil)

	q := dnsQuery(us)
	q.CacheLocation = "den"
	event, err := uc.Evaluate(q)
	require.NoError(t, err)
	assert.Equal(t, domain.ResultDSRedirect, event.Result)

	q.CacheLocation = "chi"
	event, err = uc.Evaluate(q)
	require.NoError(t, err)
	assert.Equal(t, domain.ResultGeo, event.Result)
	assert.Equal(t, []string{"edge-1.cdn.example.net"}, event.Answer)
}

func TestEvaluateMissingCache(t *testing.T) {
	uc := New(services{"video": newService("")}, nil)

	q := httpQuery(us)
	q.Cache = nil
	event, err := uc.Evaluate(q)
	require.NoError(t, err)
	assert.Equal(t, domain.ResultDSRedirect, event.Result)
}

func TestEvaluateGeoBlocked(t *testing.T) {
	var testCases = []struct {
		name       string
		redirect   string
		query      domain.Query
		wantResult domain.ResultType
		wantAnswer []string
	}{
		{"no_redirect", "", httpQuery(fr), domain.ResultMiss, nil},
		{"service_redirect", "/blocked.html", httpQuery(fr), domain.ResultGeoRedirect, []string{"http://edge-1.video.example.com/blocked.html"}},
		{"external_redirect", "https://www.example.org/blocked", httpQuery(fr), domain.ResultGeoRedirect, []string{"https://www.example.org/blocked"}},
		{"dns", "/blocked.html", dnsQuery(fr), domain.ResultMiss, nil},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			uc := New(services{"video": newService(tc.redirect)}, nil)

			event, err := uc.Evaluate(tc.query)
			require.NoError(t, err)
			assert.Equal(t, tc.wantResult, event.Result)
			assert.Equal(t, domain.ResultDetailsGeoUnsupported, event.ResultDetails)
			assert.Equal(t, tc.wantAnswer, event.Answer)
		})
	}
}

func TestEvaluateOperationCase(t *testing.T) {
	uc := New(services{"video": newService("")}, nil)

	q := dnsQuery(us)
	q.Operation = "DNS"
	event, err := uc.Evaluate(q)
	require.NoError(t, err)
	assert.Equal(t, domain.OperationDNS, event.Operation)
	assert.Equal(t, []string{"edge-1.cdn.example.net"}, event.Answer)

	q = httpQuery(us)
	q.Operation = " Http "
	event, err = uc.Evaluate(q)
	require.NoError(t, err)
	assert.Equal(t, domain.OperationHTTP, event.Operation)
	assert.Equal(t, domain.ResultGeo, event.Result)
}

func TestEvaluateErrors(t *testing.T) {
	uc := New(services{"video": newService("")}, nil)

	q := httpQuery(us)
	q.DeliveryService = "radio"
	_, err := uc.Evaluate(q)
	assert.ErrorIs(t, err, domain.ErrUnknownDeliveryService)

	q = httpQuery(us)
	q.Operation = "smtp"
	_, err = uc.Evaluate(q)
	assert.ErrorIs(t, err, domain.ErrUnknownOperation)
}
