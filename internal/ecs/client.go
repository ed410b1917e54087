package ecs

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials/stscreds"
	"github.com/aws/aws-sdk-go-v2/service/ecs"
	ecstypes "github.com/aws/aws-sdk-go-v2/service/ecs/types"
	"github.com/aws/aws-sdk-go-v2/service/sts"
)

// describeBatchSize is the maximum number of ARNs one Describe* call
// accepts — an ECS API ceiling, not a tunable.
const describeBatchSize = 10

// API is the subset of the ECS API the exporter calls. *ecs.Client
// satisfies it; tests substitute a fake.
type API interface {
	ListServices(ctx context.Context, params *ecs.ListServicesInput, optFns ...func(*ecs.Options)) (*ecs.ListServicesOutput, error)
	DescribeServices(ctx context.Context, params *ecs.DescribeServicesInput, optFns ...func(*ecs.Options)) (*ecs.DescribeServicesOutput, error)
	ListContainerInstances(ctx context.Context, params *ecs.ListContainerInstancesInput, optFns ...func(*ecs.Options)) (*ecs.ListContainerInstancesOutput, error)
	DescribeContainerInstances(ctx context.Context, params *ecs.DescribeContainerInstancesInput, optFns ...func(*ecs.Options)) (*ecs.DescribeContainerInstancesOutput, error)
}

// NewAPI builds the AWS SDK ECS client from the ambient credential chain.
// region overrides the environment's region when non-empty; roleARN, when
// non-empty, is assumed via STS before any ECS call.
func NewAPI(ctx context.Context, region, roleARN string) (*ecs.Client, error) {
	var opts []func(*awsconfig.LoadOptions) error
	if region != "" {
		opts = append(opts, awsconfig.WithRegion(region))
	}

	cfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("ecs: load aws config: %w", err)
	}

	if roleARN != "" {
		provider := stscreds.NewAssumeRoleProvider(sts.NewFromConfig(cfg), roleARN)
		cfg.Credentials = aws.NewCredentialsCache(provider)
	}

	return ecs.NewFromConfig(cfg), nil
}

// Client wraps an ECS API handle with the listing and batching logic the
// API imposes. It holds no per-call state and is safe for concurrent use.
type Client struct {
	api API
}

// NewClient returns a Client calling api.
func NewClient(api API) *Client {
	return &Client{api: api}
}

// listServiceARNs returns the ARNs of every service in the cluster, in the
// order the API returned them. The first failed page fails the whole
// listing; no partial result is returned.
func (c *Client) listServiceARNs(ctx context.Context, cluster string) ([]string, error) {
	var arns []string
	var nextToken *string
	for {
		out, err := c.api.ListServices(ctx, &ecs.ListServicesInput{
			Cluster:   aws.String(cluster),
			NextToken: nextToken,
		})
		if err != nil {
			return nil, fmt.Errorf("ecs: list services: %w", err)
		}
		arns = append(arns, out.ServiceArns...)
		nextToken = out.NextToken
		if nextToken == nil {
			return arns, nil
		}
	}
}

// listContainerInstanceARNs returns the ARNs of every container instance
// in the cluster, in API order, with the same all-or-nothing pagination as
// listServiceARNs.
func (c *Client) listContainerInstanceARNs(ctx context.Context, cluster string) ([]string, error) {
	var arns []string
	var nextToken *string
	for {
		out, err := c.api.ListContainerInstances(ctx, &ecs.ListContainerInstancesInput{
			Cluster:   aws.String(cluster),
			NextToken: nextToken,
		})
		if err != nil {
			return nil, fmt.Errorf("ecs: list container instances: %w", err)
		}
		arns = append(arns, out.ContainerInstanceArns...)
		nextToken = out.NextToken
		if nextToken == nil {
			return arns, nil
		}
	}
}

// describeServices resolves the given service ARNs to their current state,
// calling the API once per batch of describeBatchSize ARNs. A failed call
// aborts with no partial result. Services the API names in Failures are
// logged and left out; they do not fail the operation.
func (c *Client) describeServices(ctx context.Context, cluster string, arns []string) ([]Service, error) {
	services := make([]Service, 0, len(arns))
	for _, batch := range batches(arns) {
		out, err := c.api.DescribeServices(ctx, &ecs.DescribeServicesInput{
			Cluster:  aws.String(cluster),
			Services: batch,
		})
		if err != nil {
			return nil, fmt.Errorf("ecs: describe services: %w", err)
		}
		logFailures(cluster, out.Failures)
		for _, s := range out.Services {
			services = append(services, Service{
				Name:    aws.ToString(s.ServiceName),
				Desired: int64(s.DesiredCount),
				Running: int64(s.RunningCount),
				Pending: int64(s.PendingCount),
			})
		}
	}
	return services, nil
}

// describeContainerInstances resolves the given container instance ARNs
// with the same batching and failure handling as describeServices.
func (c *Client) describeContainerInstances(ctx context.Context, cluster string, arns []string) ([]ContainerInstance, error) {
	instances := make([]ContainerInstance, 0, len(arns))
	for _, batch := range batches(arns) {
		out, err := c.api.DescribeContainerInstances(ctx, &ecs.DescribeContainerInstancesInput{
			Cluster:            aws.String(cluster),
			ContainerInstances: batch,
		})
		if err != nil {
			return nil, fmt.Errorf("ecs: describe container instances: %w", err)
		}
		logFailures(cluster, out.Failures)
		for _, ci := range out.ContainerInstances {
			instances = append(instances, ContainerInstance{
				InstanceID:   aws.ToString(ci.Ec2InstanceId),
				RunningTasks: int64(ci.RunningTasksCount),
				PendingTasks: int64(ci.PendingTasksCount),
				Registered:   resourceMap(ci.RegisteredResources),
				Remaining:    resourceMap(ci.RemainingResources),
			})
		}
	}
	return instances, nil
}

// batches splits arns into consecutive chunks of at most describeBatchSize,
// preserving order.
func batches(arns []string) [][]string {
	var out [][]string
	for len(arns) > describeBatchSize {
		out = append(out, arns[:describeBatchSize])
		arns = arns[describeBatchSize:]
	}
	if len(arns) > 0 {
		out = append(out, arns)
	}
	return out
}

// resourceMap flattens the API's resource list to kind → integer value.
func resourceMap(resources []ecstypes.Resource) map[string]int64 {
	m := make(map[string]int64, len(resources))
	for _, r := range resources {
		m[aws.ToString(r.Name)] = int64(r.IntegerValue)
	}
	return m
}

// logFailures logs the per-resource failures of an otherwise successful
// describe call. The named resources are simply absent from the result.
func logFailures(cluster string, failures []ecstypes.Failure) {
	for _, f := range failures {
		slog.Warn("ecs: failed to describe resource",
			"cluster", cluster,
			"arn", aws.ToString(f.Arn),
			"reason", aws.ToString(f.Reason),
			"detail", aws.ToString(f.Detail),
		)
	}
}
