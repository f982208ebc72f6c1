// Command qtest runs queue scripts against linkedqueue and reports failed
// checks and leaked blocks.
//
//	qtest [-config qtest.toml] [-f script]
//
// Without -f the script is read from stdin.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/timzifer/linkedqueue/internal/alloc"
	"github.com/timzifer/linkedqueue/internal/driver"
)

func main() {
	configPath := flag.String("config", "", "path to a TOML config file")
	scriptPath := flag.String("f", "", "script to run instead of stdin")
	flag.Parse()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
	defer cancel()

	os.Exit(run(ctx, *configPath, *scriptPath, os.Stdin, os.Stdout))
}

func run(ctx context.Context, configPath, scriptPath string, stdin io.Reader, stdout io.Writer) int {
	config := defaultConfig()
	if configPath != "" {
		var err error
		if config, err = LoadConfig(configPath); err != nil {
			fmt.Fprintf(os.Stderr, "load config: %v\n", err)
			return 2
		}
	}

	logger, err := config.newLogger()
	if err != nil {
		fmt.Fprintf(os.Stderr, "create logger: %v\n", err)
		return 2
	}
	defer func() { _ = logger.Sync() }()

	in := stdin
	if scriptPath != "" {
		f, err := os.Open(scriptPath)
		if err != nil {
			logger.Error("open script", zap.String("path", scriptPath), zap.Error(err))
			return 2
		}
		defer f.Close()
		in = f
	}

	tracker := alloc.NewTracker(
		alloc.WithFailPercent(config.Queue.FailPercent),
		alloc.WithSeed(config.Queue.Seed),
	)
	session := driver.NewSession(stdout,
		driver.WithLogger(logger),
		driver.WithTracker(tracker),
		driver.WithStringBufferSize(config.Queue.StringBufferSize),
	)

	failures, err := session.Run(ctx, in)
	if err != nil {
		logger.Error("script aborted", zap.Error(err))
		failures++
	}
	if err := session.Close(); err != nil {
		fmt.Fprintf(stdout, "ERROR: %v\n", err)
		failures++
	}

	logger.Info("script finished",
		zap.Int("failures", failures),
		zap.Int("refused", tracker.Refused()),
	)
	if failures > 0 {
		fmt.Fprintf(stdout, "%d command(s) failed\n", failures)
		return 1
	}
	return 0
}
