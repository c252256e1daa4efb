package evaluator

import (
	"github.com/kondukto-io/dspolicy/internal/core/domain"
	"github.com/kondukto-io/dspolicy/internal/core/port/deliveryservice"
)

// Services resolves delivery service ids of the published configuration
type Services interface {
	Get(id string) (deliveryservice.UseCase, error)
}

// UseCase answers recorded routing queries
type UseCase interface {
	Evaluate(query domain.Query) (domain.TrackEvent, error)
}
