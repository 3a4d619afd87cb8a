// Package signaltest provides test helpers for code built on pkg/signal.
//
// Recorder captures the values a callback receives, with an await
// helper for asynchronous deliveries such as redirected Driver writes.
//
// Script runs a YAML-described scenario (observe, emit, cancel, expect
// steps) against a real integer relay, so ordering and isolation
// properties can be expressed as data instead of hand-rolled callback
// plumbing.
package signaltest
