// Package timeouts defines timeout constants shared by the icondex commands.
package timeouts

import "time"

// Probe caps a health probe when the caller configures no timeout.
const Probe = 5 * time.Second

// HealthCheck caps a single gRPC health check call.
const HealthCheck = time.Second

// ReadHeader limits how long the MCP HTTP server waits for request headers.
const ReadHeader = 5 * time.Second

// Shutdown limits how long servers wait for in-flight requests during
// graceful shutdown.
const Shutdown = 5 * time.Second
