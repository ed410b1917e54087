package metrics

import (
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/ecsmon/ecs-exporter/internal/ecs"
)

// Exposed family names. These are the compatibility surface scrape
// configs and dashboards depend on.
const (
	FamilyServiceDesired     = "aws_ecs_service_desired_count"
	FamilyServiceCurrent     = "aws_ecs_service_current_count"
	FamilyInstanceTasks      = "aws_ecs_instance_task_count"
	FamilyInstanceRegistered = "aws_ecs_instance_resources_registered"
	FamilyInstanceRemaining  = "aws_ecs_instance_resources_remaining"
	FamilySuccess            = "aws_ecs_exporter_success"
)

// resourceLabels maps recognized ECS resource kinds to their resource
// label value. Kinds outside this map produce no samples.
var resourceLabels = map[string]string{
	ecs.ResourceCPU:    "cpu",
	ecs.ResourceMemory: "ram",
}

// Build derives the metric samples for one collection pass into a new
// registry. Every call creates fresh families; the returned registry is
// self-contained and must not be reused for a later scrape.
func Build(snapshots []ecs.Snapshot, outcome ecs.Outcome) *prometheus.Registry {
	registry := prometheus.NewRegistry()

	serviceDesired := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: FamilyServiceDesired,
		Help: "Number of tasks the service is configured to run.",
	}, []string{"cluster", "service"})

	serviceCurrent := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: FamilyServiceCurrent,
		Help: "Number of tasks the service currently has, per state.",
	}, []string{"cluster", "service", "state"})

	instanceTasks := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: FamilyInstanceTasks,
		Help: "Number of tasks on the container instance, per state.",
	}, []string{"cluster", "instance", "state"})

	instanceRegistered := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: FamilyInstanceRegistered,
		Help: "Resources registered on the container instance.",
	}, []string{"cluster", "instance", "resource"})

	instanceRemaining := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: FamilyInstanceRemaining,
		Help: "Resources not yet allocated on the container instance.",
	}, []string{"cluster", "instance", "resource"})

	success := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: FamilySuccess,
		Help: "Whether retrieval of ECS state from the AWS API was successful.",
	}, []string{"cluster", "scraped_resource"})

	registry.MustRegister(serviceDesired, serviceCurrent, instanceTasks,
		instanceRegistered, instanceRemaining, success)

	for _, snap := range snapshots {
		for _, svc := range snap.Services {
			if svc.Name == "" {
				slog.Warn("metrics: skipping service without a name", "cluster", snap.Cluster)
				continue
			}
			serviceDesired.WithLabelValues(snap.Cluster, svc.Name).Set(float64(svc.Desired))
			serviceCurrent.WithLabelValues(snap.Cluster, svc.Name, "running").Set(float64(svc.Running))
			serviceCurrent.WithLabelValues(snap.Cluster, svc.Name, "pending").Set(float64(svc.Pending))
		}

		for _, ci := range snap.Instances {
			if ci.InstanceID == "" {
				slog.Warn("metrics: skipping container instance without an EC2 instance id",
					"cluster", snap.Cluster)
				continue
			}
			instanceTasks.WithLabelValues(snap.Cluster, ci.InstanceID, "running").Set(float64(ci.RunningTasks))
			instanceTasks.WithLabelValues(snap.Cluster, ci.InstanceID, "pending").Set(float64(ci.PendingTasks))

			for kind, value := range ci.Registered {
				if label, ok := resourceLabels[kind]; ok {
					instanceRegistered.WithLabelValues(snap.Cluster, ci.InstanceID, label).Set(float64(value))
				}
			}
			for kind, value := range ci.Remaining {
				if label, ok := resourceLabels[kind]; ok {
					instanceRemaining.WithLabelValues(snap.Cluster, ci.InstanceID, label).Set(float64(value))
				}
			}
		}
	}

	for key, ok := range outcome {
		value := 0.0
		if ok {
			value = 1.0
		}
		success.WithLabelValues(key.Cluster, string(key.Resource)).Set(value)
	}

	return registry
}
