package config

import "github.com/kondukto-io/dspolicy/internal/core/domain"

// Repository decodes configuration and state documents
type Repository interface {
	// LoadServices parses a configuration document into delivery service configs
	LoadServices(raw []byte) (map[string]*domain.PolicyConfig, error)
	// LoadStates parses a state document into availability snapshots
	LoadStates(raw []byte) (map[string]domain.AvailabilityState, error)
	// ReadFile reads a document from disk
	ReadFile(path string) ([]byte, error)
}
