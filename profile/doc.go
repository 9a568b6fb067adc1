// Package profile provides optional runtime profiling for makemake.
//
// It wraps [github.com/pkg/profile] behind the "pprof" build tag. Without
// the tag every operation is a no-op.
//
// # Modes
//
// When built with the tag, [Modes] lists the supported modes:
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
// A profiler is described by a [Config] built from functional options and
// started with [Config.Start]:
//
//	var cfg profile.Config = func() (string, string, bool) { return "", "", false }
//	cfg = profile.WithMode("cpu")(cfg)
//	cfg = profile.WithPath("/tmp/profiles")(cfg)
//	defer cfg.Start().Stop()
//
// From the command line:
//
//	go build -tags pprof -o makemake .
//	makemake --pprof-mode=cpu load go ./proj
//	go tool pprof -http=: ~/.cache/makemake/pprof/cpu.pprof
//
// The default output directory is the pprof subdirectory of the makemake
// cache directory. The tagged build also registers the [net/http/pprof]
// handlers.
package profile

// Tag is the build tag required to enable pprof profiling.
const Tag = `pprof`
