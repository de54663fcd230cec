// Package metrics provides the Prometheus metrics registry and recording
// helpers for the voter guide services.
//
// Covered areas:
//   - HTTP request metrics (count, duration)
//   - Guide metrics (store size, upserts, cache refresh sweeps)
//   - Database query metrics
//
// All metrics register with the default Prometheus registry and are exposed
// on the /metrics endpoint.
package metrics
