package fetch

import (
	"math/rand"
	"net/http"
	"net/url"
)

// ProxyPool is the static set of proxy addresses available to a process. The
// empty string stands for a direct connection and is always a valid pick.
// The pool is loaded once at startup and read concurrently without locking.
type ProxyPool struct {
	Addresses []string
}

// DefaultProxyPool returns a pool with only the direct connection. Real
// proxy addresses come from configuration and rot quickly, so none are
// compiled in.
func DefaultProxyPool() ProxyPool {
	return ProxyPool{Addresses: []string{""}}
}

// Pick selects a proxy address with probability prob from the non-empty
// subset of the pool, and a direct connection otherwise.
func (p ProxyPool) Pick(prob float64) string {
	var proxies []string
	for _, a := range p.Addresses {
		if a != "" {
			proxies = append(proxies, a)
		}
	}
	if len(proxies) == 0 || rand.Float64() >= prob {
		return ""
	}
	return proxies[rand.Intn(len(proxies))]
}

// proxyFunc builds the transport proxy selector for one address. An empty
// address means a direct connection, not the environment proxy, so behavior
// stays deterministic across machines.
func proxyFunc(addr string) func(*http.Request) (*url.URL, error) {
	if addr == "" {
		return nil
	}
	return func(_ *http.Request) (*url.URL, error) {
		return url.Parse(addr)
	}
}
