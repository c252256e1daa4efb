package evaluate

import (
	"fmt"
	"strings"

	"github.com/kondukto-io/dspolicy/internal/core/domain"
	"github.com/kondukto-io/dspolicy/internal/core/port/deliveryservice"
	"github.com/kondukto-io/dspolicy/internal/core/port/evaluator"
	"github.com/kondukto-io/dspolicy/internal/core/port/track"
	"github.com/kondukto-io/dspolicy/internal/core/usecase/bypass"
	"github.com/kondukto-io/dspolicy/pkg/logger"
	"github.com/kondukto-io/dspolicy/pkg/utils"
)

type useCase struct {
	services evaluator.Services
	sink     track.Sink
}

// New returns an evaluator reporting every decision to sink
func New(services evaluator.Services, sink track.Sink) evaluator.UseCase {
	return &useCase{
		services: services,
		sink:     sink,
	}
}

// Evaluate answers a single query. Unknown services and operations are
// errors; every other outcome is a decision reported to the sink.
func (u *useCase) Evaluate(query domain.Query) (domain.TrackEvent, error) {
	query.Operation = strings.ToLower(strings.TrimSpace(query.Operation))
	if !utils.OneOf(query.Operation, domain.Operations) {
		return domain.TrackEvent{}, fmt.Errorf("%w: %s", domain.ErrUnknownOperation, query.Operation)
	}

	ds, err := u.services.Get(query.DeliveryService)
	if err != nil {
		return domain.TrackEvent{}, err
	}

	var event = domain.TrackEvent{
		DeliveryService: ds.ID(),
		Operation:       query.Operation,
		ClientIP:        query.Request.ClientIP,
	}

	var answer []string
	var result domain.Track

	switch {
	case !servable(ds, query):
		answer, result = failure(ds, query)
	case ds.SupportLocation(query.Location) == nil:
		answer, result = geoUnsupported(ds, query)
	case query.Operation == domain.OperationDNS:
		fqdn, ok := query.Cache.ServiceFQDN(ds.ID())
		if !ok {
			fqdn = query.Cache.FQDN
		}
		answer, result = []string{fqdn}, domain.Track{Result: domain.ResultGeo, ResultDetails: domain.ResultDetailsNone}
	default:
		answer = []string{ds.CreateURI(query.Request, *query.Cache)}
		result = domain.Track{Result: domain.ResultGeo, ResultDetails: domain.ResultDetailsNone}
	}

	event.Answer = answer
	event.Result = result.Result
	event.ResultDetails = result.ResultDetails

	logger.ForService(ds.ID()).Debugf("%s %s -> %s/%s %v", query.Operation, query.Request.ClientIP, event.Result, event.ResultDetails, event.Answer)

	if u.sink != nil {
		u.sink.Track(event)
	}

	return event, nil
}

// servable is false when the service or the chosen cache site is disabled,
// or when no cache was picked.
func servable(ds deliveryservice.UseCase, query domain.Query) bool {
	if query.Cache == nil || !ds.IsAvailable() {
		return false
	}

	if query.CacheLocation != "" && !ds.IsLocationAvailable(domain.CacheLocation{ID: query.CacheLocation}) {
		return false
	}

	return true
}

func failure(ds deliveryservice.UseCase, query domain.Query) ([]string, domain.Track) {
	if query.Operation == domain.OperationDNS {
		records, result := ds.FailureDNSResponse(query.Request)
		var answer []string
		for _, rr := range bypass.ToRR(query.Request.Hostname, records) {
			answer = append(answer, rr.String())
		}
		return answer, result
	}

	uri, result := ds.FailureHTTPResponse(query.Request)
	if uri == "" {
		return nil, result
	}

	return []string{uri}, result
}

func geoUnsupported(ds deliveryservice.UseCase, query domain.Query) ([]string, domain.Track) {
	var blocked = domain.Track{Result: domain.ResultMiss, ResultDetails: domain.ResultDetailsGeoUnsupported}
	if query.Operation == domain.OperationDNS {
		return nil, blocked
	}

	cfg := ds.Config()
	switch cfg.GeoRedirectURLType() {
	case domain.GeoRedirectURLService:
		uri := ds.CreateURIWithPath(query.Request, cfg.GeoRedirectFile(), *query.Cache)
		return []string{uri}, domain.Track{Result: domain.ResultGeoRedirect, ResultDetails: domain.ResultDetailsGeoUnsupported}
	case domain.GeoRedirectURLExternal:
		return []string{cfg.GeoRedirectURL}, domain.Track{Result: domain.ResultGeoRedirect, ResultDetails: domain.ResultDetailsGeoUnsupported}
	default:
		return nil, blocked
	}
}
