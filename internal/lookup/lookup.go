package lookup

import (
	"context"
	"fmt"
	"net/netip"
	"sync"
	"time"

	"github.com/panjf2000/ants/v2"

	"github.com/wesleywu/routetable/internal/logger"
	"github.com/wesleywu/routetable/internal/metrics"
	"github.com/wesleywu/routetable/pkg/routetable"
)

// Result is the outcome of resolving one address
type Result struct {
	Addr  netip.Addr
	Entry routetable.RouteEntry
	Found bool
}

// Resolve looks up every address against table on a pool of workers.
// Results come back in the order of addrs.
// m, when set, counts the lookups performed.
func Resolve(ctx context.Context, table *routetable.RoutingTable, addrs []netip.Addr, workers int, m *metrics.Metrics, log *logger.Logger) ([]Result, error) {
	results := make([]Result, len(addrs))
	if len(addrs) == 0 {
		return results, nil
	}
	if log == nil {
		log = logger.Discard()
	}
	if workers <= 0 {
		workers = 1
	}
	if workers > len(addrs) {
		workers = len(addrs)
	}

	pool, err := ants.NewPool(workers)
	if err != nil {
		return nil, fmt.Errorf("failed to create lookup pool: %w", err)
	}
	defer pool.Release()

	start := time.Now()
	var wg sync.WaitGroup
	for i, addr := range addrs {
		if err := ctx.Err(); err != nil {
			wg.Wait()
			return nil, err
		}

		wg.Add(1)
		err := pool.Submit(func() {
			defer wg.Done()
			entry, ok := table.FindRoute(addr)
			results[i] = Result{Addr: addr, Entry: entry, Found: ok}
		})
		if err != nil {
			wg.Done()
			wg.Wait()
			return nil, fmt.Errorf("failed to submit lookup for %s: %w", addr, err)
		}
	}
	wg.Wait()

	if m != nil {
		m.RecordLookups(len(addrs))
	}

	found := 0
	for _, r := range results {
		if r.Found {
			found++
			log.RouteResolved(r.Addr.String(), r.Entry.Destination.String(), r.Entry.Gateway.String(), r.Entry.Interface, true)
		} else {
			log.RouteResolved(r.Addr.String(), "", "", "", false)
		}
	}
	log.BatchLookup(len(results), found, len(results)-found, time.Since(start).Milliseconds())

	return results, nil
}

// ParseAddrs parses textual addresses. Zones are dropped since routes are
// matched on the address alone.
func ParseAddrs(args []string) ([]netip.Addr, error) {
	addrs := make([]netip.Addr, 0, len(args))
	for _, arg := range args {
		addr, err := netip.ParseAddr(arg)
		if err != nil {
			return nil, fmt.Errorf("invalid address %q: %w", arg, err)
		}
		addrs = append(addrs, addr.WithZone(""))
	}
	return addrs, nil
}
