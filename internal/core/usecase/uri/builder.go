package uri

import (
	"strconv"
	"strings"

	"github.com/kondukto-io/dspolicy/internal/core/domain"
)

// TokenFunc returns the transaction token for a request, "" for none
type TokenFunc func(request domain.Request) string

// Builder composes redirect URIs for a delivery service
type Builder struct {
	cfg   *domain.PolicyConfig
	token TokenFunc
}

// New returns a builder. token may be nil when no token is ever added.
func New(cfg *domain.PolicyConfig, token TokenFunc) *Builder {
	return &Builder{cfg: cfg, token: token}
}

// UseSecure decides the redirect scheme for the request
func (b *Builder) UseSecure(request domain.Request) bool {
	ready := b.cfg.AcceptHTTPS && b.cfg.SSLReady()
	if request.Secure {
		return ready
	}

	return b.cfg.RedirectToHTTPS && ready
}

// Build returns the redirect URI to the cache, keeping the request path
// and appending the query string and the transaction token
func (b *Builder) Build(request domain.Request, cache domain.CacheTarget) string {
	var tinfo string
	if b.token != nil {
		tinfo = b.token(request)
	}

	return b.BuildForHost(request, b.host(request, cache), b.cachePort(request, cache), tinfo)
}

// BuildWithPath returns the redirect URI to the cache with the given path.
// Neither the query string nor the token are added.
func (b *Builder) BuildWithPath(request domain.Request, alternatePath string, cache domain.CacheTarget) string {
	var uri strings.Builder
	uri.WriteString(b.scheme(request))
	uri.WriteString(b.host(request, cache))
	uri.WriteString(b.portString(request, b.cachePort(request, cache)))
	uri.WriteString(alternatePath)

	return uri.String()
}

// BuildForHost returns the redirect URI to an explicit host and port,
// keeping the request path. tinfo is appended when not empty.
func (b *Builder) BuildForHost(request domain.Request, fqdn string, port int, tinfo string) string {
	var uri strings.Builder
	uri.WriteString(b.scheme(request))
	uri.WriteString(fqdn)
	uri.WriteString(b.portString(request, port))
	uri.WriteString(request.Path)

	queryAppended := false
	if request.QueryString != "" && b.cfg.AppendQueryString {
		uri.WriteByte('?')
		uri.WriteString(request.QueryString)
		queryAppended = true
	}

	if tinfo != "" {
		if queryAppended {
			uri.WriteByte('&')
		} else {
			uri.WriteByte('?')
		}
		uri.WriteString(tinfo)
	}

	return uri.String()
}

func (b *Builder) scheme(request domain.Request) string {
	if b.UseSecure(request) {
		return "https://"
	}

	return "http://"
}

// host prefers the per-service FQDN of the cache and falls back to the
// first label of the cache name under the request domain.
func (b *Builder) host(request domain.Request, cache domain.CacheTarget) string {
	if fqdn, ok := cache.ServiceFQDN(b.cfg.ID); ok {
		return fqdn
	}

	name, _, _ := strings.Cut(cache.FQDN, ".")
	return name + "." + request.DomainSuffix()
}

func (b *Builder) cachePort(request domain.Request, cache domain.CacheTarget) int {
	if b.UseSecure(request) {
		return cache.HTTPSPort
	}

	return cache.Port
}

func (b *Builder) portString(request domain.Request, port int) string {
	standard := domain.StandardHTTPPort
	if b.UseSecure(request) {
		standard = domain.StandardHTTPSPort
	}

	if port == standard {
		return ""
	}

	return ":" + strconv.Itoa(port)
}
