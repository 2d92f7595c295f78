package middleware

import (
	"fmt"
	"net"
	"net/http"
	"net/netip"
	"strings"
)

// ClientIP resolves the address a request is attributed to. X-Forwarded-For is
// read only when the direct peer is a trusted proxy; the right-most hop that is
// not itself trusted wins. A nil ClientIP uses the peer address alone.
type ClientIP struct {
	trusted []netip.Prefix
}

// NewClientIP accepts single addresses ("10.0.0.7") and CIDR ranges ("10.0.0.0/8").
func NewClientIP(trustedProxies []string) (*ClientIP, error) {
	c := &ClientIP{}
	for _, raw := range trustedProxies {
		raw = strings.TrimSpace(raw)
		if raw == "" {
			continue
		}
		if strings.Contains(raw, "/") {
			prefix, err := netip.ParsePrefix(raw)
			if err != nil {
				return nil, fmt.Errorf("trusted proxy %q: %w", raw, err)
			}
			c.trusted = append(c.trusted, prefix.Masked())
			continue
		}
		addr, err := netip.ParseAddr(raw)
		if err != nil {
			return nil, fmt.Errorf("trusted proxy %q: %w", raw, err)
		}
		addr = addr.Unmap()
		c.trusted = append(c.trusted, netip.PrefixFrom(addr, addr.BitLen()))
	}
	return c, nil
}

func (c *ClientIP) Resolve(r *http.Request) string {
	peer := remoteHost(r)
	if c == nil || len(c.trusted) == 0 || !c.isTrusted(peer) {
		return peer
	}

	hops := strings.Split(strings.Join(r.Header.Values("X-Forwarded-For"), ","), ",")
	for i := len(hops) - 1; i >= 0; i-- {
		hop := strings.TrimSpace(hops[i])
		if hop == "" {
			continue
		}
		if _, err := netip.ParseAddr(hop); err != nil {
			// A malformed hop was written by something we do not trust.
			return peer
		}
		if !c.isTrusted(hop) {
			return hop
		}
	}
	return peer
}

func (c *ClientIP) isTrusted(host string) bool {
	addr, err := netip.ParseAddr(host)
	if err != nil {
		return false
	}
	addr = addr.Unmap()
	for _, p := range c.trusted {
		if p.Contains(addr) {
			return true
		}
	}
	return false
}

func remoteHost(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err == nil {
		return host
	}
	return r.RemoteAddr
}
