package metrics

import (
	"sync"
	"time"
)

// Metrics counts routing table snapshot loads and lookups
type Metrics struct {
	Loads        int64
	SuccessLoads int64
	FailedLoads  int64
	CacheHits    int64
	AverageLoad  time.Duration
	Lookups      int64
	LastUpdate   time.Time
	mutex        sync.RWMutex
}

// Stats is a point-in-time copy of Metrics
type Stats struct {
	Loads        int64
	SuccessLoads int64
	FailedLoads  int64
	CacheHits    int64
	AverageLoad  time.Duration
	Lookups      int64
}

func NewMetrics() *Metrics {
	return &Metrics{
		LastUpdate: time.Now(),
	}
}

// RecordLoad records one snapshot fetch and parse
func (m *Metrics) RecordLoad(duration time.Duration, success bool) {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	m.Loads++
	if success {
		m.SuccessLoads++
	} else {
		m.FailedLoads++
	}

	if m.AverageLoad == 0 {
		m.AverageLoad = duration
	} else {
		m.AverageLoad = (m.AverageLoad + duration) / 2
	}

	m.LastUpdate = time.Now()
}

// RecordCacheHit records a load served without reparsing
func (m *Metrics) RecordCacheHit() {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	m.CacheHits++
	m.LastUpdate = time.Now()
}

func (m *Metrics) RecordLookups(n int) {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	m.Lookups += int64(n)
}

// GetStats returns the metrics statistics
func (m *Metrics) GetStats() Stats {
	m.mutex.RLock()
	defer m.mutex.RUnlock()

	return Stats{
		Loads:        m.Loads,
		SuccessLoads: m.SuccessLoads,
		FailedLoads:  m.FailedLoads,
		CacheHits:    m.CacheHits,
		AverageLoad:  m.AverageLoad,
		Lookups:      m.Lookups,
	}
}
