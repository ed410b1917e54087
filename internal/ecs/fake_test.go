package ecs

import (
	"context"
	"strconv"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ecs"
	ecstypes "github.com/aws/aws-sdk-go-v2/service/ecs/types"
)

// fakeAPI is an in-memory ECS API. List calls page through the configured
// ARNs pageSize at a time (everything in one page when pageSize is 0) with
// the offset encoded in NextToken. Describe calls return the configured
// details, reporting ARNs present in failures as named failures instead.
type fakeAPI struct {
	pageSize int

	serviceARNs  map[string][]string
	instanceARNs map[string][]string

	serviceDetails  map[string]ecstypes.Service
	instanceDetails map[string]ecstypes.ContainerInstance
	failures        map[string]ecstypes.Failure

	// Per-cluster call-level errors. Describe errors fire on the batch
	// number (1-based) in failDescribeBatch, or on the first call when 0.
	listServiceErrs      map[string]error
	listInstanceErrs     map[string]error
	describeServiceErrs  map[string]error
	describeInstanceErrs map[string]error
	failDescribeBatch    int

	listServiceCalls  int
	listInstanceCalls int
	serviceBatches    [][]string
	instanceBatches   [][]string
}

func newFakeAPI() *fakeAPI {
	return &fakeAPI{
		serviceARNs:          map[string][]string{},
		instanceARNs:         map[string][]string{},
		serviceDetails:       map[string]ecstypes.Service{},
		instanceDetails:      map[string]ecstypes.ContainerInstance{},
		failures:             map[string]ecstypes.Failure{},
		listServiceErrs:      map[string]error{},
		listInstanceErrs:     map[string]error{},
		describeServiceErrs:  map[string]error{},
		describeInstanceErrs: map[string]error{},
	}
}

// page returns the slice of arns starting at the offset encoded in token,
// plus the token for the next page (nil when exhausted).
func (f *fakeAPI) page(arns []string, token *string) ([]string, *string) {
	start := 0
	if token != nil {
		start, _ = strconv.Atoi(*token)
	}
	if start >= len(arns) {
		return nil, nil
	}
	end := len(arns)
	if f.pageSize > 0 && start+f.pageSize < end {
		end = start + f.pageSize
	}
	var next *string
	if end < len(arns) {
		next = aws.String(strconv.Itoa(end))
	}
	return arns[start:end], next
}

func (f *fakeAPI) ListServices(_ context.Context, params *ecs.ListServicesInput, _ ...func(*ecs.Options)) (*ecs.ListServicesOutput, error) {
	f.listServiceCalls++
	cluster := aws.ToString(params.Cluster)
	if err := f.listServiceErrs[cluster]; err != nil {
		return nil, err
	}
	arns, next := f.page(f.serviceARNs[cluster], params.NextToken)
	return &ecs.ListServicesOutput{ServiceArns: arns, NextToken: next}, nil
}

func (f *fakeAPI) ListContainerInstances(_ context.Context, params *ecs.ListContainerInstancesInput, _ ...func(*ecs.Options)) (*ecs.ListContainerInstancesOutput, error) {
	f.listInstanceCalls++
	cluster := aws.ToString(params.Cluster)
	if err := f.listInstanceErrs[cluster]; err != nil {
		return nil, err
	}
	arns, next := f.page(f.instanceARNs[cluster], params.NextToken)
	return &ecs.ListContainerInstancesOutput{ContainerInstanceArns: arns, NextToken: next}, nil
}

func (f *fakeAPI) DescribeServices(_ context.Context, params *ecs.DescribeServicesInput, _ ...func(*ecs.Options)) (*ecs.DescribeServicesOutput, error) {
	f.serviceBatches = append(f.serviceBatches, params.Services)
	cluster := aws.ToString(params.Cluster)
	if err := f.describeServiceErrs[cluster]; err != nil {
		if f.failDescribeBatch == 0 || len(f.serviceBatches) == f.failDescribeBatch {
			return nil, err
		}
	}
	out := &ecs.DescribeServicesOutput{}
	for _, arn := range params.Services {
		if failure, ok := f.failures[arn]; ok {
			out.Failures = append(out.Failures, failure)
			continue
		}
		if detail, ok := f.serviceDetails[arn]; ok {
			out.Services = append(out.Services, detail)
		}
	}
	return out, nil
}

func (f *fakeAPI) DescribeContainerInstances(_ context.Context, params *ecs.DescribeContainerInstancesInput, _ ...func(*ecs.Options)) (*ecs.DescribeContainerInstancesOutput, error) {
	f.instanceBatches = append(f.instanceBatches, params.ContainerInstances)
	cluster := aws.ToString(params.Cluster)
	if err := f.describeInstanceErrs[cluster]; err != nil {
		if f.failDescribeBatch == 0 || len(f.instanceBatches) == f.failDescribeBatch {
			return nil, err
		}
	}
	out := &ecs.DescribeContainerInstancesOutput{}
	for _, arn := range params.ContainerInstances {
		if failure, ok := f.failures[arn]; ok {
			out.Failures = append(out.Failures, failure)
			continue
		}
		if detail, ok := f.instanceDetails[arn]; ok {
			out.ContainerInstances = append(out.ContainerInstances, detail)
		}
	}
	return out, nil
}

// addService registers a service ARN with details in cluster.
func (f *fakeAPI) addService(cluster, arn, name string, desired, running, pending int32) {
	f.serviceARNs[cluster] = append(f.serviceARNs[cluster], arn)
	f.serviceDetails[arn] = ecstypes.Service{
		ServiceName:  aws.String(name),
		DesiredCount: desired,
		RunningCount: running,
		PendingCount: pending,
	}
}

// addInstance registers a container instance ARN with details in cluster.
func (f *fakeAPI) addInstance(cluster, arn, instanceID string, running, pending int32, registered, remaining []ecstypes.Resource) {
	f.instanceARNs[cluster] = append(f.instanceARNs[cluster], arn)
	f.instanceDetails[arn] = ecstypes.ContainerInstance{
		Ec2InstanceId:       aws.String(instanceID),
		RunningTasksCount:   running,
		PendingTasksCount:   pending,
		RegisteredResources: registered,
		RemainingResources:  remaining,
	}
}

// addFailure registers arn in cluster as a named describe failure.
func (f *fakeAPI) addFailure(cluster, arn, reason string) {
	f.serviceARNs[cluster] = append(f.serviceARNs[cluster], arn)
	f.failures[arn] = ecstypes.Failure{
		Arn:    aws.String(arn),
		Reason: aws.String(reason),
		Detail: aws.String("injected by test"),
	}
}

// intResource builds an INTEGER-typed API resource.
func intResource(name string, value int32) ecstypes.Resource {
	return ecstypes.Resource{
		Name:         aws.String(name),
		Type:         aws.String("INTEGER"),
		IntegerValue: value,
	}
}
