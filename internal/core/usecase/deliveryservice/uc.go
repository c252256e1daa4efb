package deliveryservice

import (
	"github.com/kondukto-io/dspolicy/internal/core/domain"
	"github.com/kondukto-io/dspolicy/internal/core/port/deliveryservice"
	"github.com/kondukto-io/dspolicy/internal/core/usecase/availability"
	"github.com/kondukto-io/dspolicy/internal/core/usecase/bypass"
	"github.com/kondukto-io/dspolicy/internal/core/usecase/geo"
	"github.com/kondukto-io/dspolicy/internal/core/usecase/token"
	"github.com/kondukto-io/dspolicy/internal/core/usecase/uri"
)

type useCase struct {
	cfg    *domain.PolicyConfig
	geo    *geo.Matcher
	tokens *token.Encoder
	uri    *uri.Builder
	bypass *bypass.Resolver
	state  *availability.State
}

// New wires the policy components of one delivery service. The token
// encoder is shared by all services of the process.
func New(cfg *domain.PolicyConfig, tokens *token.Encoder) deliveryservice.UseCase {
	u := &useCase{
		cfg:    cfg,
		geo:    geo.New(cfg),
		tokens: tokens,
		state:  availability.New(),
	}

	u.uri = uri.New(cfg, u.TransInfo)
	u.bypass = bypass.New(cfg, u.uri)

	return u
}

func (u *useCase) ID() string {
	return u.cfg.ID
}

func (u *useCase) Config() *domain.PolicyConfig {
	return u.cfg
}

func (u *useCase) SupportLocation(clientLocation *domain.Geolocation) *domain.Geolocation {
	return u.geo.SupportLocation(clientLocation)
}

func (u *useCase) IsAllowed(clientLocation *domain.Geolocation) bool {
	return u.geo.IsAllowed(clientLocation)
}

func (u *useCase) CreateURI(request domain.Request, cache domain.CacheTarget) string {
	return u.uri.Build(request, cache)
}

func (u *useCase) CreateURIWithPath(request domain.Request, alternatePath string, cache domain.CacheTarget) string {
	return u.uri.BuildWithPath(request, alternatePath, cache)
}

func (u *useCase) TransInfo(request domain.Request) string {
	if u.tokens == nil {
		return ""
	}

	return u.tokens.Encode(u.cfg.TransInfo, request)
}

func (u *useCase) FailureHTTPResponse(request domain.Request) (string, domain.Track) {
	return u.bypass.ResolveHTTP(request)
}

func (u *useCase) FailureDNSResponse(request domain.Request) ([]domain.InetRecord, domain.Track) {
	return u.bypass.ResolveDNS(request)
}

func (u *useCase) SetState(state domain.AvailabilityState) {
	u.state.Set(state)
}

func (u *useCase) IsAvailable() bool {
	return u.state.IsAvailable()
}

func (u *useCase) IsLocationAvailable(location domain.CacheLocation) bool {
	return u.state.IsLocationAvailable(location)
}

func (u *useCase) FilterAvailableLocations(locations []domain.CacheLocation) []domain.CacheLocation {
	return u.state.FilterAvailable(locations)
}

func (u *useCase) SetHasX509Cert(ok bool) {
	u.cfg.SetHasX509Cert(ok)
}

func (u *useCase) IsSSLReady() bool {
	return u.cfg.SSLReady()
}

func (u *useCase) LocationLimit() int {
	return u.cfg.LocationFailoverLimit
}

func (u *useCase) MaxDNSIPs() int {
	return u.cfg.MaxDNSIPsForLocation
}
