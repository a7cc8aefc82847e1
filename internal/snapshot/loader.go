package snapshot

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/jellydator/ttlcache/v3"

	"github.com/wesleywu/routetable/internal/logger"
	"github.com/wesleywu/routetable/internal/metrics"
	"github.com/wesleywu/routetable/pkg/routetable"
)

type parsedTable struct {
	fingerprint uint64
	table       *routetable.RoutingTable
}

// Loader fetches snapshots from a Source and parses them into routing tables.
// A parsed table is served from cache for the TTL; after that the source is
// queried again and reparsed only when its text changed.
type Loader struct {
	source  Source
	ttl     time.Duration
	timeout time.Duration
	cache   *ttlcache.Cache[string, *parsedTable]
	metrics *metrics.Metrics
	log     *logger.Logger

	mu   sync.Mutex
	last *parsedTable
}

// NewLoader creates a loader. A zero ttl disables caching, a zero timeout
// leaves the caller's context deadline alone.
func NewLoader(source Source, ttl, timeout time.Duration, m *metrics.Metrics, log *logger.Logger) *Loader {
	if m == nil {
		m = metrics.NewMetrics()
	}
	if log == nil {
		log = logger.Discard()
	}
	return &Loader{
		source:  source,
		ttl:     ttl,
		timeout: timeout,
		cache: ttlcache.New[string, *parsedTable](
			ttlcache.WithTTL[string, *parsedTable](ttl),
			ttlcache.WithDisableTouchOnHit[string, *parsedTable](),
		),
		metrics: m,
		log:     log.WithComponent("snapshot"),
	}
}

func (l *Loader) Metrics() *metrics.Metrics {
	return l.metrics
}

// Load returns the current routing table
func (l *Loader) Load(ctx context.Context) (*routetable.RoutingTable, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	key := l.source.Name()
	if l.ttl > 0 {
		if item := l.cache.Get(key); item != nil {
			l.metrics.RecordCacheHit()
			return item.Value().table, nil
		}
	}

	start := time.Now()
	if l.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, l.timeout)
		defer cancel()
	}

	text, err := l.source.Snapshot(ctx)
	if err != nil {
		l.metrics.RecordLoad(time.Since(start), false)
		l.log.Error("Failed to fetch routing table", "source", key, "error", err)
		return nil, err
	}

	fp := xxhash.Sum64String(text)
	if l.last != nil && l.last.fingerprint == fp {
		l.store(key, l.last)
		l.metrics.RecordCacheHit()
		l.log.SnapshotLoaded(key, l.last.table.Len(), len(l.last.table.Interfaces()), time.Since(start).Milliseconds(), true)
		return l.last.table, nil
	}

	table, err := routetable.Parse(text)
	if err != nil {
		l.metrics.RecordLoad(time.Since(start), false)
		l.log.Error("Failed to parse routing table", "source", key, "error", err)
		return nil, fmt.Errorf("parsing snapshot from %s: %w", key, err)
	}

	parsed := &parsedTable{fingerprint: fp, table: table}
	l.last = parsed
	l.store(key, parsed)

	elapsed := time.Since(start)
	l.metrics.RecordLoad(elapsed, true)
	l.log.SnapshotLoaded(key, table.Len(), len(table.Interfaces()), elapsed.Milliseconds(), false)
	return table, nil
}

// Invalidate drops the cached table so the next Load queries the source
func (l *Loader) Invalidate() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.cache.DeleteAll()
}

func (l *Loader) store(key string, p *parsedTable) {
	if l.ttl > 0 {
		l.cache.Set(key, p, ttlcache.DefaultTTL)
	}
}

// LoadFromNetstat runs /usr/sbin/netstat -rn and parses its output
func LoadFromNetstat(ctx context.Context) (*routetable.RoutingTable, error) {
	return NewLoader(DefaultNetstat(), 0, 0, nil, nil).Load(ctx)
}
