// Package log provides a small structured logging interface based on
// [log/slog].
//
// Loggers are configured with functional options when they are created and
// are immutable afterward. [Logger.Wrap] derives a reconfigured copy and
// [Logger.With] derives a copy carrying extra attributes.
//
// # Basic Usage
//
//	logger := log.Make(os.Stderr)
//	logger.Info("template loaded", slog.String("name", "go-cli"))
//
// # Configuration
//
//	logger := log.Make(os.Stderr,
//		log.WithLevel(log.LevelDebug),
//		log.WithFormat(log.FormatJSON),
//		log.WithTimeLayout("RFC3339"),
//		log.WithCaller(true))
//
// # Package-Level Logger
//
// The functions [Trace], [Debug], [Info], [Warn], and [Error] (and their
// Context variants) log through a package-level logger that writes to
// [os.Stderr]. [Config] reconfigures it and is safe for concurrent use.
//
// # Output Formats
//
// [FormatText] (default) and [FormatJSON] are supported. With [WithPretty],
// text output is rendered as compact styled lines using lipgloss. Styling is
// reduced to plain text when the output is not a terminal.
//
// # Levels
//
// In addition to the four [log/slog] levels, [LevelTrace] sits below
// [LevelDebug] for very chatty diagnostics such as cache hits.
package log
