package ecs

import (
	"context"
	"log/slog"
)

// Collector runs the two collection pipelines for each configured cluster.
type Collector struct {
	client *Client
}

// NewCollector returns a Collector using client for every pipeline.
func NewCollector(client *Client) *Collector {
	return &Collector{client: client}
}

// Collect gathers one Snapshot per cluster, in input order. Each
// (cluster, resource kind) pipeline is attempted independently: a failure
// is logged and recorded in the returned Outcome, leaves that kind's slice
// empty, and does not stop the other kind or the other clusters. Collect
// itself never fails — during a total outage every snapshot is empty and
// every Outcome entry is false.
func (c *Collector) Collect(ctx context.Context, clusters []string) ([]Snapshot, Outcome) {
	snapshots := make([]Snapshot, 0, len(clusters))
	outcome := make(Outcome, 2*len(clusters))

	for _, cluster := range clusters {
		snap := Snapshot{Cluster: cluster}

		services, err := c.collectServices(ctx, cluster)
		if err != nil {
			slog.Warn("ecs: collection failed",
				"cluster", cluster, "resource", KindServices, "err", err)
		} else {
			snap.Services = services
		}
		outcome[OutcomeKey{Cluster: cluster, Resource: KindServices}] = err == nil

		instances, err := c.collectContainerInstances(ctx, cluster)
		if err != nil {
			slog.Warn("ecs: collection failed",
				"cluster", cluster, "resource", KindContainerInstances, "err", err)
		} else {
			snap.Instances = instances
		}
		outcome[OutcomeKey{Cluster: cluster, Resource: KindContainerInstances}] = err == nil

		snapshots = append(snapshots, snap)
	}

	return snapshots, outcome
}

// collectServices lists and describes every service in the cluster.
func (c *Collector) collectServices(ctx context.Context, cluster string) ([]Service, error) {
	arns, err := c.client.listServiceARNs(ctx, cluster)
	if err != nil {
		return nil, err
	}
	return c.client.describeServices(ctx, cluster, arns)
}

// collectContainerInstances lists and describes every container instance
// in the cluster.
func (c *Collector) collectContainerInstances(ctx context.Context, cluster string) ([]ContainerInstance, error) {
	arns, err := c.client.listContainerInstanceARNs(ctx, cluster)
	if err != nil {
		return nil, err
	}
	return c.client.describeContainerInstances(ctx, cluster, arns)
}
