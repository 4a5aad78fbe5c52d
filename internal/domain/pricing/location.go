package pricing

import (
	"context"
	"net"
	"strings"

	"golang.org/x/text/language"

	"github.com/safespace/backend/internal/domain/shared/valueobject"
)

// Source tags where a country signal came from
type Source string

const (
	SourceEdgeHeader Source = "edge_header"
	SourceIPLookup   Source = "ip_lookup"
	SourceClientHint Source = "client_hint"
	SourceNone       Source = "none"
)

// Edge geolocation headers, in priority order
var edgeCountryHeaders = []string{"X-Vercel-IP-Country", "CF-IPCountry", "X-Country-Code"}

// Client IP headers, in priority order
const (
	headerForwardedFor = "X-Forwarded-For"
	headerRealIP       = "X-Real-IP"
	headerConnectingIP = "CF-Connecting-IP"
)

// LocationSignal is a detected two-letter country code and its source
type LocationSignal struct {
	Country string
	Source  Source
}

// Headers is the subset of http.Header the resolvers read
type Headers interface {
	Get(key string) string
}

// LocationInput carries the signals available for one request
type LocationInput struct {
	Headers Headers
	Hint    string
}

func (in LocationInput) header(key string) string {
	if in.Headers == nil {
		return ""
	}
	return strings.TrimSpace(in.Headers.Get(key))
}

// CountryLookup resolves a public IP address to an ISO country code.
// An empty code means the address is not in the database.
type CountryLookup interface {
	Country(ip net.IP) (string, error)
}

// SignalResolver inspects the input and reports a usable signal, if any
type SignalResolver func(ctx context.Context, in LocationInput) (LocationSignal, bool)

// LocationResolver runs an ordered list of resolvers and stops at the first usable signal
type LocationResolver struct {
	resolvers []SignalResolver
}

// NewLocationResolver creates a resolver over the given cascade
func NewLocationResolver(resolvers ...SignalResolver) *LocationResolver {
	return &LocationResolver{resolvers: resolvers}
}

// DefaultLocationResolver builds the standard cascade: edge header, then IP
// lookup (skipped when lookup is nil), then client hint.
func DefaultLocationResolver(lookup CountryLookup) *LocationResolver {
	resolvers := []SignalResolver{EdgeHeaderResolver}
	if lookup != nil {
		resolvers = append(resolvers, IPLookupResolver(lookup))
	}
	resolvers = append(resolvers, ClientHintResolver)
	return NewLocationResolver(resolvers...)
}

// Resolve returns the first usable signal. When nothing resolves, ok is false.
func (r *LocationResolver) Resolve(ctx context.Context, in LocationInput) (LocationSignal, bool) {
	for _, resolve := range r.resolvers {
		if sig, ok := resolve(ctx, in); ok {
			return sig, true
		}
	}
	return LocationSignal{Source: SourceNone}, false
}

// NormalizeCountry upper-cases a country code and reports whether it is a
// usable two-letter code. XX and T1 are Cloudflare's unknown and Tor markers.
func NormalizeCountry(code string) (string, bool) {
	code = strings.ToUpper(strings.TrimSpace(code))
	if len(code) != 2 {
		return "", false
	}
	for i := 0; i < 2; i++ {
		if code[i] < 'A' || code[i] > 'Z' {
			return "", false
		}
	}
	if code == "XX" || code == "T1" {
		return "", false
	}
	return code, true
}

// EdgeHeaderResolver reads the CDN geolocation headers
func EdgeHeaderResolver(_ context.Context, in LocationInput) (LocationSignal, bool) {
	for _, h := range edgeCountryHeaders {
		if country, ok := NormalizeCountry(in.header(h)); ok {
			return LocationSignal{Country: country, Source: SourceEdgeHeader}, true
		}
	}
	return LocationSignal{}, false
}

// ClientIP extracts the caller's address from proxy headers. Only the first
// X-Forwarded-For entry is considered.
func ClientIP(in LocationInput) net.IP {
	if xff := in.header(headerForwardedFor); xff != "" {
		first, _, _ := strings.Cut(xff, ",")
		return parseIP(first)
	}
	if ip := in.header(headerRealIP); ip != "" {
		return parseIP(ip)
	}
	return parseIP(in.header(headerConnectingIP))
}

func parseIP(raw string) net.IP {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	if ip := net.ParseIP(raw); ip != nil {
		return ip
	}
	// host:port or [v6]:port
	if host, _, err := net.SplitHostPort(raw); err == nil {
		return net.ParseIP(host)
	}
	return nil
}

// IsPublicIP reports whether ip is a routable unicast address
func IsPublicIP(ip net.IP) bool {
	if ip == nil {
		return false
	}
	return !(ip.IsPrivate() || ip.IsLoopback() || ip.IsLinkLocalUnicast() ||
		ip.IsLinkLocalMulticast() || ip.IsInterfaceLocalMulticast() ||
		ip.IsMulticast() || ip.IsUnspecified())
}

// IPLookupResolver resolves the caller IP against a geolocation database.
// Non-public addresses never reach the lookup; lookup errors and panics
// count as no result.
func IPLookupResolver(lookup CountryLookup) SignalResolver {
	return func(ctx context.Context, in LocationInput) (sig LocationSignal, ok bool) {
		if lookup == nil || ctx.Err() != nil {
			return LocationSignal{}, false
		}
		ip := ClientIP(in)
		if !IsPublicIP(ip) {
			return LocationSignal{}, false
		}
		defer func() {
			if r := recover(); r != nil {
				sig, ok = LocationSignal{}, false
			}
		}()
		code, err := lookup.Country(ip)
		if err != nil {
			return LocationSignal{}, false
		}
		country, valid := NormalizeCountry(code)
		if !valid {
			return LocationSignal{}, false
		}
		return LocationSignal{Country: country, Source: SourceIPLookup}, true
	}
}

// ClientHintResolver interprets the request's preferred currency hint. It
// accepts a supported currency code (mapped to its home country), a bare
// country code, or a locale carrying a region such as en-GB or en_US.
func ClientHintResolver(_ context.Context, in LocationInput) (LocationSignal, bool) {
	country, ok := countryFromHint(in.Hint)
	if !ok {
		return LocationSignal{}, false
	}
	return LocationSignal{Country: country, Source: SourceClientHint}, true
}

func countryFromHint(hint string) (string, bool) {
	hint = strings.TrimSpace(hint)
	if hint == "" {
		return "", false
	}
	if info, ok := LookupCurrency(valueobject.ParseCurrency(hint)); ok {
		return info.HomeCountry, true
	}
	if len(hint) == 2 {
		region, err := language.ParseRegion(hint)
		if err != nil || !region.IsCountry() {
			return "", false
		}
		return NormalizeCountry(region.String())
	}
	tag, err := language.Parse(strings.ReplaceAll(hint, "_", "-"))
	if err != nil {
		return "", false
	}
	region, conf := tag.Region()
	if conf != language.Exact || !region.IsCountry() {
		return "", false
	}
	return NormalizeCountry(region.String())
}
