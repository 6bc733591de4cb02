package http

import (
	"fmt"
	"net"
	"net/http"
	"net/netip"
	"strings"
	"sync/atomic"

	"exporthub/internal/export"
)

// securityMetrics counts requests worth a second look. Nothing here rejects a
// request; the rate limiter is the only gate.
type securityMetrics struct {
	rateLimitHits      int64
	suspiciousRequests int64
	// shareMisses counts malformed or unknown share ids. Share links are the
	// only unauthenticated read of report content, so guessing at them is the
	// main thing worth watching.
	shareMisses int64
}

type securitySnapshot struct {
	RateLimitHits      int64
	SuspiciousRequests int64
	ShareMisses        int64
}

func (m *securityMetrics) snapshot() securitySnapshot {
	return securitySnapshot{
		RateLimitHits:      atomic.LoadInt64(&m.rateLimitHits),
		SuspiciousRequests: atomic.LoadInt64(&m.suspiciousRequests),
		ShareMisses:        atomic.LoadInt64(&m.shareMisses),
	}
}

// DefaultTrustedProxies covers a reverse proxy on the same host.
var DefaultTrustedProxies = []netip.Prefix{
	netip.MustParsePrefix("127.0.0.0/8"),
	netip.MustParsePrefix("::1/128"),
}

// ParseTrustedProxies parses CIDR strings such as "10.0.0.0/8".
func ParseTrustedProxies(cidrs []string) ([]netip.Prefix, error) {
	out := make([]netip.Prefix, 0, len(cidrs))
	for _, c := range cidrs {
		p, err := netip.ParsePrefix(strings.TrimSpace(c))
		if err != nil {
			return nil, fmt.Errorf("trusted proxy %q: %w", c, err)
		}
		out = append(out, p.Masked())
	}
	return out, nil
}

// clientIPResolver honours X-Forwarded-For and X-Real-IP only when the peer is
// a trusted proxy.
type clientIPResolver struct {
	trusted []netip.Prefix
}

func (c clientIPResolver) isTrusted(addr netip.Addr) bool {
	addr = addr.Unmap()
	for _, p := range c.trusted {
		if p.Contains(addr) {
			return true
		}
	}
	return false
}

func (c clientIPResolver) clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		host = r.RemoteAddr
	}
	peer, err := netip.ParseAddr(host)
	if err != nil || !c.isTrusted(peer) {
		return host
	}

	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		first, _, _ := strings.Cut(xff, ",")
		if addr, err := netip.ParseAddr(strings.TrimSpace(first)); err == nil {
			return addr.String()
		}
	}
	if addr, err := netip.ParseAddr(strings.TrimSpace(r.Header.Get("X-Real-IP"))); err == nil {
		return addr.String()
	}
	return host
}

const shareIDLength = 8

// validShareID reports whether id has the shape of a generated share id:
// eight lowercase hex characters.
func validShareID(id string) bool {
	if len(id) != shareIDLength {
		return false
	}
	for _, c := range id {
		if !(c >= '0' && c <= '9' || c >= 'a' && c <= 'f') {
			return false
		}
	}
	return true
}

var scannerAgents = []string{"sqlmap", "nmap", "nikto", "gobuster", "dirb", "masscan", "zgrab"}

// detectSuspiciousRequest returns why r looks like scanning, or "" when it
// does not. It must run after routing so path values are available.
func detectSuspiciousRequest(r *http.Request, metrics *securityMetrics) string {
	reason := suspicionReason(r, metrics)
	if reason != "" && metrics != nil {
		atomic.AddInt64(&metrics.suspiciousRequests, 1)
	}
	return reason
}

func suspicionReason(r *http.Request, metrics *securityMetrics) string {
	ua := strings.ToLower(r.Header.Get("User-Agent"))
	for _, agent := range scannerAgents {
		if strings.Contains(ua, agent) {
			return "scanner user agent"
		}
	}

	raw := strings.ToLower(r.URL.EscapedPath())
	if strings.Contains(raw, "..") || strings.Contains(raw, "%2e%2e") {
		return "path traversal"
	}
	if len(r.URL.RawQuery) > 512 {
		return "oversized query"
	}

	// Export endpoints take the template from the path and nothing from the
	// query; anything else is someone walking the catalogue.
	if id := r.PathValue("templateID"); id != "" {
		if _, ok := export.Lookup(id); !ok {
			return "unknown export template"
		}
		if r.URL.RawQuery != "" {
			return "unexpected query on export endpoint"
		}
	}

	if id := r.PathValue("shareID"); id != "" && !validShareID(id) {
		if metrics != nil {
			atomic.AddInt64(&metrics.shareMisses, 1)
		}
		return "malformed share id"
	}
	return ""
}

// recordShareMiss counts a well-formed share id that matched nothing.
func (m *securityMetrics) recordShareMiss() {
	atomic.AddInt64(&m.shareMisses, 1)
}
