// Package ecs collects the state of named ECS clusters.
//
// Client wraps the AWS ECS API and implements the two low-level access
// patterns the API imposes:
//
//   - listing resource ARNs page by page, following NextToken until the
//     API stops returning one
//   - describing resources in batches of at most ten ARNs per call, the
//     DescribeServices/DescribeContainerInstances ceiling
//
// A describe call that succeeds can still report per-resource failures;
// those are logged and the affected resources are left out of the result.
// A call that fails outright aborts the whole operation.
//
// Collector runs both pipelines (services, container instances) for each
// configured cluster and isolates failures per cluster and resource kind:
// one unreachable cluster degrades its own snapshot, never the scrape.
package ecs
