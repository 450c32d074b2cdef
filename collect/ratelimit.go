package collect

import (
	"context"
	"net/url"
	"strings"
	"sync"

	"github.com/fwojciec/pagecollect"
	"golang.org/x/time/rate"
)

// DefaultRequestsPerSecond is the default per-host request rate.
const DefaultRequestsPerSecond = 2

var _ pagecollect.DomainLimiter = (*DomainLimiter)(nil)

// DomainLimiter spaces out requests to each host with a token bucket per
// host. Hosts are compared case-insensitively; requests to different hosts
// never wait on each other.
type DomainLimiter struct {
	mu       sync.Mutex
	limiters map[string]*rate.Limiter
	limit    rate.Limit
}

// NewDomainLimiter returns a limiter allowing rps requests per second to
// each host, without bursting. A non-positive rps disables limiting.
func NewDomainLimiter(rps float64) *DomainLimiter {
	limit := rate.Limit(rps)
	if rps <= 0 {
		limit = rate.Inf
	}
	return &DomainLimiter{
		limiters: make(map[string]*rate.Limiter),
		limit:    limit,
	}
}

// Wait blocks until a request to domain is allowed or ctx is done.
func (d *DomainLimiter) Wait(ctx context.Context, domain string) error {
	return d.limiter(strings.ToLower(domain)).Wait(ctx)
}

func (d *DomainLimiter) limiter(domain string) *rate.Limiter {
	d.mu.Lock()
	defer d.mu.Unlock()
	l, ok := d.limiters[domain]
	if !ok {
		l = rate.NewLimiter(d.limit, 1)
		d.limiters[domain] = l
	}
	return l
}

// hostOf returns the host of rawURL, or "" if it cannot be parsed.
func hostOf(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}
	return u.Host
}
