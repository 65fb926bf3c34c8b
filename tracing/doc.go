// Package tracing wraps OpenTelemetry so that engine, intake and callback
// code can open spans with StartSpan/EndSpan without importing the upstream
// packages. Until Init is called spans are no-ops.
package tracing
