// Package cli contains the command line interface for fatexpr.
//
// # Usage
//
// Without a subcommand, fatexpr evaluates its arguments as a statement chain:
//
//	fatexpr 'a: 2; _ * 3 + a'
//	fatexpr --var rate=1.5 --func 'area(w,h)=w*h' 'area(rate, 4)'
//	fatexpr -f prices.fx -o json
//
// The subcommands are:
//
//   - eval: evaluate a chain and print its value (default)
//   - fmt native|json|yaml|tree: print a chain without evaluating it
//   - watch: re-evaluate the --file sources whenever they change
//   - repl: start an interactive session
//   - init: write the current flags to the configuration file
//
// # Configuration
//
// Flags may also be set in a YAML file at $XDG_CONFIG_HOME/fatexpr/config.yaml
// (see [os.UserConfigDir]). Keys are flag names; nested maps join their keys
// with "-" and "_" may replace "-":
//
//	log:
//	  level: debug
//	order: event
//	extern:
//	  - clamp=max(args[1], min(args[2], args[0]))
//
// Command-line flags override the file.
//
// # Logging Options
//
//   - --log-level: Set minimum log level (trace, debug, info, warn, error)
//   - --log-format: Set log output format (json, text)
//   - --log-time-layout: Set timestamp format (RFC3339, Kitchen, none, ...)
//   - --log-caller: Include caller information in log output
//   - --[no-]log-pretty: Colorize log output
//
// # Profiling Options
//
// Profiling is only available when built with the pprof build tag:
//
//	go build -tags pprof -o fatexpr .
//
//   - --pprof-mode: Enable profiling (allocs, block, clock, cpu, goroutine,
//     heap, mem, mutex, thread, trace)
//   - --pprof-dir: Set profile output directory (default:
//     ~/.cache/fatexpr/pprof)
package cli
