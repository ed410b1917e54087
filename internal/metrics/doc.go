// Package metrics turns cluster snapshots into Prometheus samples.
//
// Build is a pure transformation: it takes the snapshots and outcome of
// one collection pass and returns a freshly created registry holding one
// gauge sample per derived value. Nothing is cached between calls — every
// scrape gets brand-new metric families, so concurrent or repeated
// scrapes can never trip over duplicate registration or stale values.
//
// Only the CPU and MEMORY resource kinds map to samples (as "cpu" and
// "ram"); other kinds an instance reports are dropped. A record missing
// its identifying name is skipped with a warning rather than emitted with
// an empty label value.
package metrics
