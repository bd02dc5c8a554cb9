package app

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/vk/gridcheck/internal/command"
	"github.com/vk/gridcheck/internal/ctxlog"
	"github.com/vk/gridcheck/internal/logging"
	"github.com/vk/gridcheck/internal/registry"
)

// Run executes every compiled check through a bounded worker pool. Checks
// run concurrently; the attempts within a single check stay strictly
// sequential. With FailFast set, the first failing check cancels the rest.
func (a *App) Run(ctx context.Context) error {
	ctx = ctxlog.WithLogger(ctx, a.logger)
	a.logger.Debug("App.Run method started.")

	if a.config.HealthcheckPort > 0 {
		a.startHealthcheckServer(a.config.HealthcheckPort)
	}

	if len(a.checks) == 0 {
		a.logger.Warn("No checks found in grid, execution not required.")
		return nil
	}

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	a.logger.Info("Starting check execution.",
		logging.F("checks", fmt.Sprint(len(a.checks))),
		logging.F("workers", fmt.Sprint(a.config.WorkerCount)),
	)

	jobs := make(chan *registry.PreparedCheck)
	var failed atomic.Int64
	var wg sync.WaitGroup

	runner := command.NewRunner(a.logger)
	for i := 0; i < a.config.WorkerCount; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for check := range jobs {
				if err := a.runCheck(runCtx, runner, check); err != nil {
					failed.Add(1)
					if a.config.FailFast {
						cancel()
					}
				}
			}
		}()
	}

	for _, check := range a.checks {
		jobs <- check
	}
	close(jobs)
	wg.Wait()

	a.logger.Info("Check execution finished.")

	if n := failed.Load(); n > 0 {
		return fmt.Errorf("%d of %d checks failed", n, len(a.checks))
	}
	return nil
}

// runCheck builds the operation for one compiled check and drives it through
// the command runner. Failures are already logged by the runner; build
// failures are logged here.
func (a *App) runCheck(ctx context.Context, runner *command.Runner, check *registry.PreparedCheck) error {
	op, err := check.Build(ctx, check.Arguments)
	if err != nil {
		a.logger.Error("Check construction failed.",
			logging.F("command", check.Name),
			logging.Err(err),
		)
		return err
	}

	_, err = runner.Execute(ctx, command.Spec{
		Name:      check.Name,
		Inputs:    check.Arguments,
		Rules:     check.Rules,
		Policy:    check.Policy,
		Operation: op,
	})
	return err
}
