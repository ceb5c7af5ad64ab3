// Package observe adds logging and OpenTelemetry instrumentation to rx
// pipelines.
//
// Key operations:
//   - NewLogger: zerolog logger from config.Logging
//   - Log: operator logging subscriptions and events
//   - ErrorHandler: rx async error handler backed by zerolog
//   - Setup: meter and tracer providers with optional OTLP/HTTP export
//   - Instrument: operator counting events and tracing each subscription
package observe
