// Package infra holds the technical adapters: the Paho MQTT client,
// the zerolog logger and the metrics sinks. Each implements an interface
// from the core packages and nothing in core depends back on it.
package infra
