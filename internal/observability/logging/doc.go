// Package logging wraps log/slog with the handler configuration and context
// helpers shared by the api server and the worker.
//
// Key features:
//   - JSON output for deployments, text output for local runs
//   - Request ID propagation from the HTTP layer
//   - Log level via the LOG_LEVEL environment variable
package logging
