package log_test

import (
	"log/slog"
	"os"

	"github.com/ardnew/fatexpr/log"
)

func Example() {
	logger := log.Make(os.Stdout,
		log.WithFormat(log.FormatText),
		log.WithTimeLayout("none"),
		log.WithPretty(false))

	logger.Info("evaluated", slog.String("text", "2*3"), slog.Float64("value", 6))
	logger.Debug("hidden below the default level")
	// Output:
	// level=INFO msg=evaluated text=2*3 value=6
}

func ExampleLogger_WithGroup() {
	logger := log.Make(os.Stdout,
		log.WithLevel(log.LevelTrace),
		log.WithFormat(log.FormatText),
		log.WithTimeLayout("none"),
		log.WithPretty(false))

	logger.WithGroup("call").Trace("invoke", slog.String("name", "f"), slog.Int("level", 1))
	// Output:
	// level=TRACE msg=invoke call.name=f call.level=1
}
