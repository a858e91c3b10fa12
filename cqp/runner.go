package cqp

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"sync"

	"github.com/Franka-Beyer/HSprakt/logger"
	"github.com/rs/zerolog"
)

// Runner executes query scripts with the cqp binary in Dir, at most
// Concurrency at a time.
type Runner struct {
	Binary      string
	Concurrency int
	Dir         string

	logger zerolog.Logger
}

func NewRunner(binary string, concurrency int, dir string) *Runner {
	if concurrency < 1 {
		concurrency = 1
	}
	return &Runner{
		Binary:      binary,
		Concurrency: concurrency,
		Dir:         dir,
		logger:      logger.NewLogger("CQP Runner"),
	}
}

// RunScript runs one script and waits for it. Whatever the binary writes to
// stderr ends up in the log.
func (r *Runner) RunScript(ctx context.Context, script string) error {
	cmd := exec.CommandContext(ctx, r.Binary, "-f", script)
	cmd.Dir = r.Dir

	stderr, err := cmd.StderrPipe()
	if err != nil {
		return err
	}
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("starting %s: %w", r.Binary, err)
	}

	relayErr := logger.Relay(stderr, r.logger.With().Str("script", script).Logger())
	if err := cmd.Wait(); err != nil {
		return fmt.Errorf("running %s: %w", script, err)
	}
	return relayErr
}

// Run runs every script and returns once all of them finished. Failures of
// single scripts do not stop the others; they are joined into the result.
func (r *Runner) Run(ctx context.Context, scripts []string) error {
	sem := make(chan struct{}, r.Concurrency)
	errs := make([]error, len(scripts))

	var wg sync.WaitGroup
	for i, script := range scripts {
		select {
		case sem <- struct{}{}:
		case <-ctx.Done():
			wg.Wait()
			return errors.Join(append(errs, ctx.Err())...)
		}

		wg.Add(1)
		go func(i int, script string) {
			defer wg.Done()
			defer func() { <-sem }()
			errs[i] = r.RunScript(ctx, script)
		}(i, script)
	}
	wg.Wait()

	return errors.Join(errs...)
}
