// Command streakwatch tracks RED/BLUE/TIE outcome sequences and serves the
// live analysis page. `serve` starts the HTTP server; `replay` analyses a
// sequence given on the command line.
package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/alanyoungcy/streakwatch/internal/app"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "fatal: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "streakwatch",
		Short: "Outcome streak tracker and analyser",
		Long: `streakwatch records RED/BLUE/TIE outcomes, detects streaks and
alternations in the last 27 results, and suggests whether to bet, watch or
avoid the next round.`,
		Version:       app.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.CompletionOptions.DisableDefaultCmd = true
	root.SetVersionTemplate(fmt.Sprintf("streakwatch version %s\n", app.Version))

	root.AddCommand(newServeCmd(), newReplayCmd())
	return root
}

// newLogger builds the JSON stdout logger at the configured level.
func newLogger(level string) *slog.Logger {
	var lvl slog.Level
	switch level {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}
	return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: lvl}))
}
