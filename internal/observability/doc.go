// Package observability groups the logging and metrics infrastructure.
//
// Subpackages:
//   - logging: structured logging with slog and request id propagation
//   - metrics: Prometheus metrics registry and recorders
package observability
