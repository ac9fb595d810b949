// Package profile provides optional runtime profiling for fatexpr.
//
// # Overview
//
// This package integrates [github.com/pkg/profile] behind the "pprof" build
// tag. Without the tag, [Modes] yields nothing, [Enabled] is false, and
// [Profiler.Start] returns a no-op, so the command line carries no profiling
// code at all.
//
//	go build -tags pprof -o fatexpr .
//
// # Modes
//
//   - allocs:    memory allocation profiling (all allocations)
//   - block:     block (synchronization) profiling
//   - clock:     wall-clock profiling
//   - cpu:       CPU profiling
//   - goroutine: goroutine profiling
//   - heap:      heap profiling (live allocations)
//   - mem:       general memory profiling
//   - mutex:     mutex contention profiling
//   - thread:    thread creation profiling
//   - trace:     execution trace
//
// # Usage
//
//	stop := profile.Make(
//		profile.WithMode("cpu"),
//		profile.WithPath(dir),
//	).Start()
//	defer stop.Stop()
//
// From the command line, profile a long evaluation chain and inspect it:
//
//	fatexpr --pprof-mode cpu -f chain.fx
//	go tool pprof -http=: ~/.cache/fatexpr/pprof/cpu.pprof
//
// Building with the tag also registers the [net/http/pprof] handlers for
// programs that serve HTTP.
package profile

// Tag is the build tag required to enable pprof profiling.
const Tag = `pprof`
