// Package log provides a concurrency-safe simplified logging interface
// based on [log/slog].
//
// The package offers configurable time formatting, caller information,
// output formats, and terminal styling that are applied at logger creation
// time using functional options. A [Logger] is an immutable value; the zero
// Logger discards every message, so an evaluation session can hold one
// without checking whether logging was configured.
//
// # Basic Usage
//
//	logger := log.Make(os.Stderr)
//	logger.Info("evaluated", slog.Float64("value", 24))
//
// # Configuration
//
//	logger := log.Make(os.Stderr,
//		log.WithLevel(log.LevelTrace),
//		log.WithTimeLayout("timeonly"),
//		log.WithFormat(log.FormatText),
//		log.WithCaller(true))
//
// # Levels
//
// [LevelTrace] sits below [LevelDebug] and is used for per-statement and
// per-call tracing of an evaluation. Messages below the configured level are
// discarded before any attribute is resolved.
//
// # Pretty Output
//
// With [WithPretty] enabled (the default), text output is unquoted and
// colored, and JSON output is indented and colored. Colors are only emitted
// when the output is a terminal. Disable it to get the plain [slog] handlers,
// one record per line.
//
// # Package-Level Logging
//
// The package-level functions such as [Info] and [Debug] log through a
// default logger writing to standard error, reconfigured with [Config].
// Context-unaware variants use [DefaultContextProvider], which returns
// [context.TODO] by default.
package log
