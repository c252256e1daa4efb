package registry

import (
	"fmt"
	"sort"
	"sync"
	"sync/atomic"

	"github.com/kondukto-io/dspolicy/internal/core/domain"
	"github.com/kondukto-io/dspolicy/internal/core/port/config"
	"github.com/kondukto-io/dspolicy/internal/core/port/deliveryservice"
	dsusecase "github.com/kondukto-io/dspolicy/internal/core/usecase/deliveryservice"
	"github.com/kondukto-io/dspolicy/internal/core/usecase/geo"
	"github.com/kondukto-io/dspolicy/internal/core/usecase/token"
	"github.com/kondukto-io/dspolicy/pkg/logger"
)

// Generation is one published configuration. It is never modified after
// it was published.
type Generation struct {
	Version  uint64
	Services map[string]deliveryservice.UseCase
}

// IDs returns the delivery service ids in order
func (g *Generation) IDs() []string {
	ids := make([]string, 0, len(g.Services))
	for id := range g.Services {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	return ids
}

// Registry publishes configuration generations and routes state pushes
// to the services of the current generation.
type Registry struct {
	repo   config.Repository
	tokens *token.Encoder

	current atomic.Pointer[Generation]

	// mu serializes publishers; readers only load current
	mu     sync.Mutex
	states map[string]domain.AvailabilityState
}

// New returns an empty registry
func New(repo config.Repository, tokens *token.Encoder) *Registry {
	r := &Registry{
		repo:   repo,
		tokens: tokens,
		states: map[string]domain.AvailabilityState{},
	}
	r.current.Store(&Generation{Services: map[string]deliveryservice.UseCase{}})

	return r
}

// Current returns the published generation
func (r *Registry) Current() *Generation {
	return r.current.Load()
}

// Get returns the service of the current generation
func (r *Registry) Get(id string) (deliveryservice.UseCase, error) {
	ds, ok := r.current.Load().Services[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrUnknownDeliveryService, id)
	}

	return ds, nil
}

// LoadConfig parses a configuration document and publishes it as a new
// generation. The last pushed states are applied before publishing.
// On error the current generation stays in place.
func (r *Registry) LoadConfig(raw []byte) (*Generation, error) {
	configs, err := r.repo.LoadServices(raw)
	if err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	next := &Generation{
		Version:  r.current.Load().Version + 1,
		Services: make(map[string]deliveryservice.UseCase, len(configs)),
	}

	for id, cfg := range configs {
		geo.ClassifyRedirect(cfg)
		ds := dsusecase.New(cfg, r.tokens)
		ds.SetState(stateOf(r.states, id))
		next.Services[id] = ds
	}

	r.current.Store(next)
	logger.Log.Infof("published configuration generation %d with %d delivery service(s)", next.Version, len(next.Services))

	return next, nil
}

// LoadConfigFile reads and publishes a configuration document
func (r *Registry) LoadConfigFile(path string) (*Generation, error) {
	raw, err := r.repo.ReadFile(path)
	if err != nil {
		return nil, err
	}

	return r.LoadConfig(raw)
}

// SetStates parses a state document and replaces the state of every
// service of the current generation. Services missing from the document
// get the default state. States of unknown services are kept for later
// generations.
func (r *Registry) SetStates(raw []byte) error {
	states, err := r.repo.LoadStates(raw)
	if err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.states = states
	gen := r.current.Load()
	for id, ds := range gen.Services {
		ds.SetState(stateOf(states, id))
	}

	for id := range states {
		if _, ok := gen.Services[id]; !ok {
			logger.Log.Debugf("state for unknown delivery service [%s] kept for later generations", id)
		}
	}

	return nil
}

func stateOf(states map[string]domain.AvailabilityState, id string) domain.AvailabilityState {
	if s, ok := states[id]; ok {
		return s
	}

	return domain.DefaultAvailabilityState()
}

// SetStatesFile reads and applies a state document
func (r *Registry) SetStatesFile(path string) error {
	raw, err := r.repo.ReadFile(path)
	if err != nil {
		return err
	}

	return r.SetStates(raw)
}
