// Package middleware provides observability middleware for the Ostinato
// router: Prometheus metrics and OpenTelemetry tracing around route
// activations.
package middleware
