// Package msgs provides the events produced by a receive bench.
package msgs

// Events are plain Go values inside a process and protobuf encoded
// (pkg/proto/uart/v1) when they leave it, over MQTT or into an event log.
// The HTTP monitor uses the JSON view instead.

//go:generate protoc -I ../proto --go_out=paths=source_relative:../proto uart/v1/events.proto
