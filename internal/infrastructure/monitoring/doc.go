// Package monitoring provides Prometheus metrics for the storage service.
//
// Collected metrics:
//   - HTTP: request counts, durations and sizes per method/route/status
//   - Storage: engine operations by kind and outcome, upload sizes
//   - Security: sandbox violation counter (rejected path escapes)
//   - Auth: active sessions gauge, login outcomes
//
// The gin middleware records HTTP metrics for every request; storage
// operations are timed through Timer. Metrics are exposed on /metrics in
// the Prometheus text format.
package monitoring
