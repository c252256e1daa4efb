package bypass

import (
	"fmt"
	"net/netip"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/kondukto-io/dspolicy/internal/core/domain"
	"github.com/kondukto-io/dspolicy/internal/core/usecase/uri"
	"github.com/kondukto-io/dspolicy/pkg/logger"
)

// Resolver derives the fallback answers of a delivery service
type Resolver struct {
	cfg *domain.PolicyConfig
	uri *uri.Builder

	mu      sync.Mutex
	records atomic.Pointer[[]domain.InetRecord]
}

// New returns a resolver for the given config
func New(cfg *domain.PolicyConfig, builder *uri.Builder) *Resolver {
	return &Resolver{cfg: cfg, uri: builder}
}

// ResolveHTTP returns the bypass redirect URI, or "" with a MISS track
// when no HTTP bypass target is configured.
func (r *Resolver) ResolveHTTP(request domain.Request) (string, domain.Track) {
	httpBypass := r.cfg.Bypass.HTTP
	if httpBypass == nil || httpBypass.FQDN == "" {
		return "", domain.NoBypassTrack
	}

	port := domain.StandardHTTPPort
	if request.Secure {
		port = domain.StandardHTTPSPort
	}
	if httpBypass.Port != nil {
		port = *httpBypass.Port
	}

	track := domain.Track{Result: domain.ResultDSRedirect, ResultDetails: domain.ResultDetailsNone}
	return r.uri.BuildForHost(request, httpBypass.FQDN, port, ""), track
}

// ResolveDNS returns the configured bypass DNS answer
func (r *Resolver) ResolveDNS(request domain.Request) ([]domain.InetRecord, domain.Track) {
	if r.cfg.Bypass.DNS == nil {
		return nil, domain.NoBypassTrack
	}

	track := domain.Track{Result: domain.ResultDSRedirect, ResultDetails: domain.ResultDetailsDSBypass}
	return r.Records(r.cfg.Bypass.DNS), track
}

// Records returns the answer built from spec. The first successful
// answer is kept for the lifetime of the resolver and returned for every
// later call; failed attempts are not kept and are retried on the next call.
func (r *Resolver) Records(spec *domain.DNSBypass) []domain.InetRecord {
	if spec == nil {
		return nil
	}

	if cached := r.records.Load(); cached != nil {
		return *cached
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if cached := r.records.Load(); cached != nil {
		return *cached
	}

	records, err := buildRecords(spec)
	if err != nil {
		logger.ForService(r.cfg.ID).Warnf("failed to build bypass DNS answer: %v", err)
		return nil
	}

	r.records.Store(&records)
	return records
}

func buildRecords(spec *domain.DNSBypass) ([]domain.InetRecord, error) {
	if spec.TTL == nil {
		return nil, domain.ErrMissingTTL
	}
	ttl := *spec.TTL

	records := make([]domain.InetRecord, 0, 2)

	if spec.IP != "" || spec.IP6 != "" {
		if spec.IP != "" {
			addr, err := netip.ParseAddr(spec.IP)
			if err != nil {
				return nil, fmt.Errorf("invalid bypass ip %q: %w", spec.IP, err)
			}
			records = append(records, domain.NewAddressRecord(addr, ttl))
		}

		if spec.IP6 != "" {
			literal, _, _ := strings.Cut(spec.IP6, "/")
			addr, err := netip.ParseAddr(literal)
			if err != nil {
				return nil, fmt.Errorf("invalid bypass ip6 %q: %w", spec.IP6, err)
			}
			records = append(records, domain.NewAddressRecord(addr, ttl))
		}

		return records, nil
	}

	// a CNAME cannot coexist with other records (RFC 1912 2.4)
	if spec.CNAME != "" {
		records = append(records, domain.NewCNAMERecord(spec.CNAME, ttl))
	}

	return records, nil
}
