// Package exporter serves the metrics exposition endpoint.
//
// Scraper is the single contract between the HTTP layer and the
// collection pipeline: produce a fresh, self-contained registry for this
// scrape or fail. ClusterScraper implements it over a set of cluster
// names that can be swapped at runtime (config hot-reload).
//
// Server serves:
//
//	GET /         — home page linking /status and /metrics
//	GET /status   — fixed liveness payload
//	GET /metrics  — process-wide metrics merged with the per-scrape
//	                registry, text exposition format
//
// A failed scrape never turns into an HTTP error: /metrics answers 200
// with the process-wide metrics (including the http_requests counter and
// its error label) so the monitoring system is never starved.
package exporter
