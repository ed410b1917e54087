package exporter

import (
	"context"
	"sync"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/ecsmon/ecs-exporter/internal/ecs"
	"github.com/ecsmon/ecs-exporter/internal/metrics"
)

// Scraper produces the metrics of one scrape. Every call must return a
// brand-new registry; implementations must be safe for concurrent use.
type Scraper interface {
	Scrape(ctx context.Context) (*prometheus.Registry, error)
}

// ClusterScraper scrapes a set of ECS clusters. The cluster list can be
// replaced at runtime; the collector (and the API client behind it) is
// shared read-only across concurrent scrapes.
type ClusterScraper struct {
	collector *ecs.Collector

	mu       sync.RWMutex
	clusters []string
}

// NewClusterScraper returns a ClusterScraper collecting the given clusters.
func NewClusterScraper(collector *ecs.Collector, clusters []string) *ClusterScraper {
	s := &ClusterScraper{collector: collector}
	s.SetClusters(clusters)
	return s
}

// SetClusters replaces the cluster list for subsequent scrapes. Scrapes
// already in flight keep the list they started with.
func (s *ClusterScraper) SetClusters(clusters []string) {
	copied := make([]string, len(clusters))
	copy(copied, clusters)

	s.mu.Lock()
	s.clusters = copied
	s.mu.Unlock()
}

// Scrape collects every configured cluster and derives its metrics into a
// fresh registry. Pipeline failures are degraded into the success gauge by
// the collector; Scrape itself only fails if no registry could be built.
func (s *ClusterScraper) Scrape(ctx context.Context) (*prometheus.Registry, error) {
	s.mu.RLock()
	clusters := s.clusters
	s.mu.RUnlock()

	snapshots, outcome := s.collector.Collect(ctx, clusters)
	return metrics.Build(snapshots, outcome), nil
}
