// Package server serves mounted route tables over HTTP.
//
// The server canonicalizes incoming paths, matches them against the router,
// runs the middleware chain, activates the matched route (loaders, lazy
// resolution) and writes the composed render. It also exposes /healthz,
// Prometheus metrics on /metrics, and a WebSocket activity feed on
// /_ostinato/activity streaming navigation and resolution events.
package server
