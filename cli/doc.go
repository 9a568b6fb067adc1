// Package cli contains the command line interface for makemake.
//
// # Usage
//
//	makemake [flags] <command> [args]
//	makemake go ./proj -D name=app        # load is the default command
//	makemake create go ./skeleton
//	makemake alias set gocli go -D kind=cli
//	makemake eval "name ?? 'World'" -D name=Go
//
// # Configuration
//
// The config file (default $XDG_CONFIG_HOME/makemake/config.yaml, see
// --config) holds global variables, aliases, and flag defaults under
// options. Flag names may use underscores in place of hyphens:
//
//	options:
//	  prompt: ask
//	  log_level: debug
//
// Command-line flags override config file values.
//
// # Logging Options
//
//   - --log-level: minimum log level (trace, debug, info, warn, error)
//   - --log-format: output format (text, json)
//   - --log-time-layout: timestamp format (none, kitchen, RFC3339, ...)
//   - --log-caller: include caller information
//   - --log-pretty: style text output (default: stderr is a terminal)
//
// # Profiling Options
//
// Profiling is only available when built with the pprof build tag:
//
//	go build -tags pprof -o makemake .
//
//   - --pprof-mode: profiling mode (cpu, heap, trace, ...)
//   - --pprof-dir: profile output directory
package cli
