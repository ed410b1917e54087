package ecs

// ResourceKind names one of the two per-cluster collection pipelines.
// The values double as the scraped_resource label on the exporter's
// success gauge.
type ResourceKind string

const (
	KindServices           ResourceKind = "services"
	KindContainerInstances ResourceKind = "cluster_instances"
)

// Resource names recognized by the metric model. Other kinds (ports,
// GPUs, ...) are carried in the snapshot but produce no metrics.
const (
	ResourceCPU    = "CPU"
	ResourceMemory = "MEMORY"
)

// Service is the per-scrape state of one ECS service.
type Service struct {
	// Name is the service name; empty if the API returned a service
	// without one.
	Name    string
	Desired int64
	Running int64
	Pending int64
}

// ContainerInstance is the per-scrape state of one host registered to a
// cluster.
type ContainerInstance struct {
	// InstanceID is the backing EC2 instance ID; empty if the API
	// returned an instance without one.
	InstanceID   string
	RunningTasks int64
	PendingTasks int64

	// Registered and Remaining map resource kind (e.g. "CPU", "MEMORY")
	// to total and unallocated capacity respectively.
	Registered map[string]int64
	Remaining  map[string]int64
}

// Snapshot is the collected state of one cluster for one scrape. It is
// built once per collection pass and never mutated afterwards. A pipeline
// that failed leaves its slice empty; Outcome records which ones did.
type Snapshot struct {
	Cluster   string
	Services  []Service
	Instances []ContainerInstance
}

// OutcomeKey identifies one (cluster, resource kind) collection pipeline.
type OutcomeKey struct {
	Cluster  string
	Resource ResourceKind
}

// Outcome records, for every pipeline that was attempted, whether it
// succeeded. It always holds an entry per (cluster, kind) pair, so the
// exporter's health gauge is observable even when everything failed.
type Outcome map[OutcomeKey]bool
